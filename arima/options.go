package arima

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOrder      = errors.New("invalid model order")
	ErrInvalidIterations = errors.New("max iterations must be positive")
	ErrInvalidAlpha      = errors.New("alpha must be between 0 and 1")
)

// Order is the (p, d, q) order of an ARIMA model
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

func (o Order) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
}

func (o Order) Validate() error {
	if o.P < 0 || o.D < 0 || o.Q < 0 {
		return fmt.Errorf("%s has a negative term, %w", o, ErrInvalidOrder)
	}
	if o.D > 2 {
		return fmt.Errorf("%s differences more than twice, %w", o, ErrInvalidOrder)
	}
	return nil
}

// numParams is the number of estimated parameters including the innovation variance and, without
// differencing, the mean
func (o Order) numParams() int {
	k := o.P + o.Q + 1
	if o.D == 0 {
		k++
	}
	return k
}

// Options configures model estimation
type Options struct {
	// Name labels the series in the summary
	Name string `json:"name"`

	// MaxIterations caps the Nelder-Mead iterations of each optimizer start
	MaxIterations int `json:"max_iterations"`

	// Alpha is the significance level of the coefficient confidence intervals
	Alpha float64 `json:"alpha"`
}

// NewDefaultOptions returns options reporting 95% coefficient intervals
func NewDefaultOptions() *Options {
	return &Options{
		Name:          "y",
		MaxIterations: 2000,
		Alpha:         0.05,
	}
}

func (o *Options) Validate() error {
	if o.MaxIterations <= 0 {
		return ErrInvalidIterations
	}
	if o.Alpha <= 0 || o.Alpha >= 1 {
		return fmt.Errorf("%.3f, %w", o.Alpha, ErrInvalidAlpha)
	}
	if o.Name == "" {
		o.Name = "y"
	}
	return nil
}
