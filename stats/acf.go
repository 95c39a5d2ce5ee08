package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Correlogram holds auto or partial autocorrelations for lags 0 through len(Values)-1 with
// the half width of the confidence band around zero at each lag.
type Correlogram struct {
	Lags   []int     `json:"lags"`
	Values []float64 `json:"values"`
	Bound  []float64 `json:"bound"`
	NObs   int       `json:"n_obs"`
	Alpha  float64   `json:"alpha"`
}

// Significant returns the non zero lags whose value falls outside the confidence band
func (c *Correlogram) Significant() []int {
	var lags []int
	for i := 1; i < len(c.Values); i++ {
		if math.Abs(c.Values[i]) > c.Bound[i] {
			lags = append(lags, c.Lags[i])
		}
	}
	return lags
}

// autocorrelation computes the biased sample autocorrelation of x up to nlags
func autocorrelation(x []float64, nlags int) []float64 {
	n := len(x)
	mean := stat.Mean(x, nil)
	centered := make([]float64, n)
	copy(centered, x)
	floats.AddConst(-mean, centered)

	c0 := floats.Dot(centered, centered)
	acf := make([]float64, nlags+1)
	for k := 0; k <= nlags; k++ {
		acf[k] = floats.Dot(centered[k:], centered[:n-k]) / c0
	}
	return acf
}

func zScore(alpha float64) float64 {
	return distuv.UnitNormal.Quantile(1.0 - alpha/2.0)
}

func validateCorrelogramInput(y []float64, nlags int) ([]float64, error) {
	if nlags < 1 {
		return nil, ErrInvalidLag
	}
	x := DropNaN(y)
	if len(x) < 2 {
		return nil, fmt.Errorf("%d points after dropping missing values, %w", len(x), ErrInsufficientData)
	}
	if isConstant(x) {
		return nil, ErrConstantSeries
	}
	return x, nil
}

// ACF computes the sample autocorrelation of y for lags 0 through nlags with Bartlett
// confidence bounds at significance alpha. NaN values are dropped first.
func ACF(y []float64, nlags int, alpha float64) (*Correlogram, error) {
	x, err := validateCorrelogramInput(y, nlags)
	if err != nil {
		return nil, err
	}
	n := len(x)
	if nlags >= n {
		return nil, fmt.Errorf("%d lags for %d points, %w", nlags, n, ErrTooManyLags)
	}

	acf := autocorrelation(x, nlags)

	z := zScore(alpha)
	bound := make([]float64, nlags+1)
	cum := 0.0
	for k := 1; k <= nlags; k++ {
		bound[k] = z * math.Sqrt((1.0+2.0*cum)/float64(n))
		cum += acf[k] * acf[k]
	}

	return &Correlogram{
		Lags:   lagRange(nlags),
		Values: acf,
		Bound:  bound,
		NObs:   n,
		Alpha:  alpha,
	}, nil
}

// PACF computes the partial autocorrelation of y for lags 0 through nlags using the
// Durbin-Levinson recursion on the sample autocorrelation. nlags may be at most half the
// number of observations.
func PACF(y []float64, nlags int, alpha float64) (*Correlogram, error) {
	x, err := validateCorrelogramInput(y, nlags)
	if err != nil {
		return nil, err
	}
	n := len(x)
	if nlags > n/2 {
		return nil, fmt.Errorf("%d lags for %d points, must be at most %d, %w", nlags, n, n/2, ErrTooManyLags)
	}

	acf := autocorrelation(x, nlags)
	pacf := make([]float64, nlags+1)
	pacf[0] = 1.0

	phi := make([]float64, nlags+1)
	prev := make([]float64, nlags+1)
	phi[1] = acf[1]
	pacf[1] = acf[1]
	for k := 2; k <= nlags; k++ {
		copy(prev, phi)

		num := acf[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= prev[j] * acf[k-j]
			den -= prev[j] * acf[j]
		}
		if den == 0 {
			pacf[k] = 0
			continue
		}

		phi[k] = num / den
		pacf[k] = phi[k]
		for j := 1; j < k; j++ {
			phi[j] = prev[j] - phi[k]*prev[k-j]
		}
	}

	z := zScore(alpha)
	bound := make([]float64, nlags+1)
	for k := 1; k <= nlags; k++ {
		bound[k] = z / math.Sqrt(float64(n))
	}

	return &Correlogram{
		Lags:   lagRange(nlags),
		Values: pacf,
		Bound:  bound,
		NObs:   n,
		Alpha:  alpha,
	}, nil
}

func lagRange(nlags int) []int {
	lags := make([]int, nlags+1)
	for i := range lags {
		lags[i] = i
	}
	return lags
}
