// Package caseload analyzes a monthly caseload series. It tests the series for a unit root,
// computes correlograms of the differenced series, fits an ARIMA model and forecasts the months
// following the last observation.
package caseload

import (
	"errors"
	"fmt"
	"time"

	"github.com/aouyang1/go-caseload/arima"
	"github.com/aouyang1/go-caseload/monthly"
	"github.com/aouyang1/go-caseload/stats"
	"github.com/aouyang1/go-caseload/timedataset"
)

var (
	ErrNotFit        = errors.New("analyzer has not been fit")
	ErrTooFewPoints  = errors.New("not enough differenced points for correlograms")
	ErrMissingMonths = errors.New("series has months without observations")
)

// Analyzer runs the full analysis of a monthly series
type Analyzer struct {
	opt *Options

	data     *timedataset.TimeDataset
	diff     []float64
	adf      *stats.ADFResult
	acf      *stats.Correlogram
	pacf     *stats.Correlogram
	model    *arima.Model
	fitted   []float64
	residual []float64
	stdResid []float64
	summary  *arima.Summary
	results  *Results
	scores   *Scores
	outliers []time.Time
	warnings []string
}

// New creates an analyzer with the provided options. If no options are provided the default
// ARIMA(1,1,1) analysis is used.
func New(opt *Options) (*Analyzer, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := opt.Validate(); err != nil {
		return nil, fmt.Errorf("unable to initialize analyzer, %w", err)
	}
	return &Analyzer{
		opt: opt,
	}, nil
}

// FitCounts runs the analysis on an aggregated monthly series in any order. A month appearing
// more than once is rejected.
func (a *Analyzer) FitCounts(counts []monthly.Count) error {
	sorted := monthly.SortByMonth(counts)
	return a.Fit(monthly.Months(sorted), monthly.Values(sorted))
}

// FitFile reads a processed monthly file and runs the analysis on it
func (a *Analyzer) FitFile(path string) error {
	counts, err := monthly.ReadCSVFile(path)
	if err != nil {
		return fmt.Errorf("unable to load monthly series, %w", err)
	}
	return a.FitCounts(counts)
}

// Fit places the observations on a month start grid and runs every stage in order. Diagnostics
// computed before a failing stage remain available.
func (a *Analyzer) Fit(t []time.Time, y []float64) error {
	td, err := timedataset.AsMonthly(t, y)
	if err != nil {
		return fmt.Errorf("unable to create monthly dataset, %w", err)
	}
	a.reset()
	a.data = td

	if missing := td.Missing(); len(missing) > 0 {
		a.warnf("%d months have no observations starting at %s", len(missing), missing[0].Format("2006-01"))
	}

	a.adf, err = stats.ADF(td.Y, a.opt.ADFOptions)
	if err != nil {
		return fmt.Errorf("unable to run stationarity test, %w", err)
	}
	if a.adf.Stationary(a.opt.Alpha) && a.opt.Order.D > 0 {
		a.warnf("unit root rejected at %.0f%% (p=%.4f) yet the series is differenced %d time(s)",
			100*a.opt.Alpha, a.adf.PValue, a.opt.Order.D)
	}

	if err := a.fitCorrelograms(); err != nil {
		return err
	}
	if err := a.fitModel(); err != nil {
		return err
	}
	return a.forecast()
}

func (a *Analyzer) reset() {
	*a = Analyzer{opt: a.opt}
}

func (a *Analyzer) warnf(format string, args ...any) {
	a.warnings = append(a.warnings, fmt.Sprintf(format, args...))
}

// fitCorrelograms computes the ACF and PACF of the series differenced d times, at least once,
// with missing values dropped. The lag count is reduced when the series is too short for the
// partial autocorrelation.
func (a *Analyzer) fitCorrelograms() error {
	diff, err := stats.DiffN(a.data.Y, max(a.opt.Order.D, 1))
	if err != nil {
		return fmt.Errorf("unable to difference series, %w", err)
	}
	a.diff = diff

	n := len(stats.DropNaN(diff))
	lags := min(a.opt.Lags, n/2)
	if lags < 1 {
		return fmt.Errorf("%d differenced points, %w", n, ErrTooFewPoints)
	}
	if lags < a.opt.Lags {
		a.warnf("correlogram lags reduced from %d to %d for %d differenced points", a.opt.Lags, lags, n)
	}

	a.acf, err = stats.ACF(diff, lags, a.opt.Alpha)
	if err != nil {
		return fmt.Errorf("unable to compute autocorrelation, %w", err)
	}
	a.pacf, err = stats.PACF(diff, lags, a.opt.Alpha)
	if err != nil {
		return fmt.Errorf("unable to compute partial autocorrelation, %w", err)
	}
	return nil
}

func (a *Analyzer) fitModel() error {
	if missing := a.data.Missing(); len(missing) > 0 {
		return fmt.Errorf("unable to fit %s with %d missing months, %w, %w",
			a.opt.Order, len(missing), ErrMissingMonths, arima.ErrMissingValues)
	}

	model, err := arima.New(a.opt.Order, a.opt.ModelOptions)
	if err != nil {
		return fmt.Errorf("unable to initialize model, %w", err)
	}
	if err := model.Fit(a.data.Y); err != nil {
		return fmt.Errorf("unable to fit %s, %w", a.opt.Order, err)
	}
	if !model.Converged() {
		a.warnf("%s optimizer stopped at its iteration limit", a.opt.Order)
	}
	a.model = model

	if a.fitted, err = model.FittedValues(); err != nil {
		return err
	}
	if a.residual, err = model.Residuals(); err != nil {
		return err
	}
	if a.stdResid, err = model.StandardizedResiduals(); err != nil {
		return err
	}
	if a.summary, err = model.Summary(); err != nil {
		return err
	}
	if a.scores, err = NewScores(a.fitted, a.data.Y); err != nil {
		return err
	}

	if a.opt.OutlierOptions != nil {
		idxs := stats.DetectOutliers(
			a.residual,
			a.opt.OutlierOptions.LowerPercentile,
			a.opt.OutlierOptions.UpperPercentile,
			a.opt.OutlierOptions.TukeyFactor,
		)
		for _, idx := range idxs {
			a.outliers = append(a.outliers, a.data.T[idx])
		}
	}
	return nil
}

func (a *Analyzer) forecast() error {
	fcst, err := a.model.Forecast(a.opt.Horizon, a.opt.Alpha)
	if err != nil {
		return fmt.Errorf("unable to forecast, %w", err)
	}
	a.results = &Results{
		T:        timedataset.NextMonths(timedataset.TimeSlice(a.data.T).EndTime(), a.opt.Horizon),
		Forecast: fcst.Mean,
		Upper:    fcst.Upper,
		Lower:    fcst.Lower,
	}
	return nil
}

// Options returns the options the analyzer runs with
func (a *Analyzer) Options() *Options {
	return a.opt
}

// TrainingData returns a copy of the month start regularized series
func (a *Analyzer) TrainingData() *timedataset.TimeDataset {
	return a.data.Copy()
}

// Differenced returns the differenced series used for the correlograms
func (a *Analyzer) Differenced() []float64 {
	return a.diff
}

// ADF returns the stationarity test of the series
func (a *Analyzer) ADF() *stats.ADFResult {
	return a.adf
}

// ACF returns the autocorrelation of the differenced series
func (a *Analyzer) ACF() *stats.Correlogram {
	return a.acf
}

// PACF returns the partial autocorrelation of the differenced series
func (a *Analyzer) PACF() *stats.Correlogram {
	return a.pacf
}

// Model returns the fitted model
func (a *Analyzer) Model() (*arima.Model, error) {
	if a.model == nil {
		return nil, ErrNotFit
	}
	return a.model, nil
}

// Summary returns the fitted model summary
func (a *Analyzer) Summary() (*arima.Summary, error) {
	if a.summary == nil {
		return nil, ErrNotFit
	}
	return a.summary, nil
}

// FittedValues returns the in sample one step predictions aligned with the training data
func (a *Analyzer) FittedValues() []float64 {
	return a.fitted
}

// Residuals returns the in sample one step prediction errors aligned with the training data
func (a *Analyzer) Residuals() []float64 {
	return a.residual
}

// StandardizedResiduals returns the residuals scaled by their standard deviation
func (a *Analyzer) StandardizedResiduals() []float64 {
	return a.stdResid
}

// Results returns the forecast over the horizon
func (a *Analyzer) Results() (*Results, error) {
	if a.results == nil {
		return nil, ErrNotFit
	}
	return a.results, nil
}

// Scores returns the in sample fit scores
func (a *Analyzer) Scores() *Scores {
	return a.scores
}

// Outliers returns the months whose residual falls outside the Tukey fences
func (a *Analyzer) Outliers() []time.Time {
	return a.outliers
}

// Warnings returns the conditions noticed during the analysis that did not stop it
func (a *Analyzer) Warnings() []string {
	return a.warnings
}
