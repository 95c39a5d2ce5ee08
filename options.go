package caseload

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-caseload/arima"
	"github.com/aouyang1/go-caseload/stats"
)

var (
	ErrInvalidLags    = errors.New("number of correlogram lags must be positive")
	ErrInvalidHorizon = errors.New("forecast horizon must be positive")
	ErrInvalidAlpha   = errors.New("alpha must be between 0 and 1")
)

// OutlierOptions sets the Tukey fences used to flag in sample residuals
type OutlierOptions struct {
	LowerPercentile float64 `json:"lower_percentile"`
	UpperPercentile float64 `json:"upper_percentile"`
	TukeyFactor     float64 `json:"tukey_factor"`
}

func NewOutlierOptions() *OutlierOptions {
	return &OutlierOptions{
		LowerPercentile: 0.25,
		UpperPercentile: 0.75,
		TukeyFactor:     1.5,
	}
}

// Options configures every stage of the analysis
type Options struct {
	// Name labels the series in printed reports
	Name  string      `json:"name"`
	Order arima.Order `json:"order"`

	// Lags is the number of lags in the correlograms of the differenced series
	Lags int `json:"lags"`

	// Horizon is the number of months to forecast past the last observation
	Horizon int `json:"horizon"`

	// Alpha is the significance level of the stationarity decision and every interval
	Alpha float64 `json:"alpha"`

	ADFOptions     *stats.ADFOptions `json:"adf_options"`
	ModelOptions   *arima.Options    `json:"model_options"`
	OutlierOptions *OutlierOptions   `json:"outlier_options"`
}

// NewDefaultOptions returns an ARIMA(1,1,1) analysis with 24 lag correlograms and a 12 month
// forecast at 95% confidence
func NewDefaultOptions() *Options {
	modelOpt := arima.NewDefaultOptions()
	modelOpt.Name = "total_cases"
	return &Options{
		Name:           "total_cases",
		Order:          arima.Order{P: 1, D: 1, Q: 1},
		Lags:           24,
		Horizon:        12,
		Alpha:          0.05,
		ADFOptions:     stats.NewDefaultADFOptions(),
		ModelOptions:   modelOpt,
		OutlierOptions: NewOutlierOptions(),
	}
}

func (o *Options) Validate() error {
	if err := o.Order.Validate(); err != nil {
		return err
	}
	if o.Lags < 1 {
		return fmt.Errorf("%d lags, %w", o.Lags, ErrInvalidLags)
	}
	if o.Horizon < 1 {
		return fmt.Errorf("%d months, %w", o.Horizon, ErrInvalidHorizon)
	}
	if o.Alpha <= 0 || o.Alpha >= 1 {
		return fmt.Errorf("%.3f, %w", o.Alpha, ErrInvalidAlpha)
	}
	if o.Name == "" {
		o.Name = "y"
	}
	if o.ModelOptions == nil {
		o.ModelOptions = arima.NewDefaultOptions()
		o.ModelOptions.Name = o.Name
	}
	if o.ADFOptions == nil {
		o.ADFOptions = stats.NewDefaultADFOptions()
	}
	return nil
}
