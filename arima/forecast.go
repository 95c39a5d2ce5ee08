package arima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrInvalidHorizon = errors.New("forecast horizon must be positive")

// Forecast holds point forecasts on the scale of the original series with a 1-Alpha interval
type Forecast struct {
	Mean   []float64 `json:"mean"`
	StdErr []float64 `json:"std_err"`
	Lower  []float64 `json:"lower"`
	Upper  []float64 `json:"upper"`
	Alpha  float64   `json:"alpha"`
}

// Forecast predicts the next steps values after the fitted series. Intervals use the psi weights
// of the integrated process and widen with the horizon.
func (m *Model) Forecast(steps int, alpha float64) (*Forecast, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if steps <= 0 {
		return nil, fmt.Errorf("%d steps, %w", steps, ErrInvalidHorizon)
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("%.3f, %w", alpha, ErrInvalidAlpha)
	}

	diffFcst := m.forecastDiff(steps)
	mean := integrate(m.y, m.order.D, diffFcst)
	if m.order.D == 0 {
		for i := range mean {
			mean[i] += m.mean
		}
	}

	psi := psiWeights(m.ar, m.ma, m.order.D, steps)
	z := distuv.UnitNormal.Quantile(1.0 - alpha/2.0)

	res := &Forecast{
		Mean:   mean,
		StdErr: make([]float64, steps),
		Lower:  make([]float64, steps),
		Upper:  make([]float64, steps),
		Alpha:  alpha,
	}
	var cum float64
	for h := 0; h < steps; h++ {
		cum += psi[h] * psi[h]
		se := math.Sqrt(m.sigma2 * cum)
		res.StdErr[h] = se
		res.Lower[h] = mean[h] - z*se
		res.Upper[h] = mean[h] + z*se
	}
	return res, nil
}

// forecastDiff projects the filtered state forward to predict the differenced series
func (m *Model) forecastDiff(steps int) []float64 {
	ss := newStateSpace(m.ar, m.ma)
	state := mat.VecDenseCopyOf(m.filter.state)

	out := make([]float64, steps)
	var next mat.VecDense
	for h := 0; h < steps; h++ {
		out[h] = state.AtVec(0)
		next.MulVec(ss.tr, state)
		state.CopyVec(&next)
	}
	return out
}

// integrate undoes d rounds of differencing on forecasts of the differenced series using the
// last value of every intermediate difference of y
func integrate(y []float64, d int, diffFcst []float64) []float64 {
	levels := make([]float64, d)
	curr := y
	for k := 0; k < d; k++ {
		levels[k] = curr[len(curr)-1]
		next := make([]float64, len(curr)-1)
		for i := 1; i < len(curr); i++ {
			next[i-1] = curr[i] - curr[i-1]
		}
		curr = next
	}

	out := make([]float64, len(diffFcst))
	for h, x := range diffFcst {
		for k := d - 1; k >= 0; k-- {
			levels[k] += x
			x = levels[k]
		}
		out[h] = x
	}
	return out
}

// psiWeights returns the first n coefficients of the infinite moving average form of the
// process phi(B)(1-B)^d y = theta(B) e
func psiWeights(ar, ma []float64, d, n int) []float64 {
	// coefficients of phi(B)(1-B)^d as 1 + c[1]B + c[2]B^2 + ...
	poly := make([]float64, len(ar)+1)
	poly[0] = 1.0
	for i, phi := range ar {
		poly[i+1] = -phi
	}
	for k := 0; k < d; k++ {
		next := make([]float64, len(poly)+1)
		for i, c := range poly {
			next[i] += c
			next[i+1] -= c
		}
		poly = next
	}

	psi := make([]float64, n)
	for j := 0; j < n; j++ {
		if j == 0 {
			psi[j] = 1.0
			continue
		}
		if j <= len(ma) {
			psi[j] = ma[j-1]
		}
		for i := 1; i < len(poly) && i <= j; i++ {
			psi[j] -= poly[i] * psi[j-i]
		}
	}
	return psi
}
