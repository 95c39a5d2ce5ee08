// Package arima estimates ARIMA(p, d, q) models by exact gaussian maximum likelihood and
// forecasts them with confidence intervals.
package arima

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-caseload/stats"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrMissingValues    = errors.New("series contains missing values")
	ErrInsufficientData = errors.New("not enough observations to fit model")
	ErrNotFitted        = errors.New("model has not been fit")
	ErrOptimization     = errors.New("unable to maximize likelihood")
)

// penalty is returned to the optimizer for parameters the filter cannot evaluate
const penalty = 1e10

// Model is an ARIMA model of a single series. Without differencing the series mean is removed
// before estimation and added back to predictions.
type Model struct {
	order Order
	opt   *Options

	y    []float64
	w    []float64
	mean float64

	ar     []float64
	ma     []float64
	sigma2 float64

	filter    *filterResult
	loglike   float64
	cov       *mat.SymDense
	converged bool
	fitted    bool
}

// New returns an unfitted model of the given order. A nil opt uses the defaults.
func New(order Order, opt *Options) (*Model, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return &Model{
		order: order,
		opt:   opt,
	}, nil
}

// Fit estimates the AR and MA coefficients and the innovation variance of y. The series must
// not contain NaN.
func (m *Model) Fit(y []float64) error {
	if floats.HasNaN(y) {
		return ErrMissingValues
	}
	minObs := m.order.D + m.order.P + m.order.Q + 3
	if len(y) < minObs {
		return fmt.Errorf("%d observations for %s, need at least %d, %w", len(y), m.order, minObs, ErrInsufficientData)
	}

	w, err := stats.DiffN(y, m.order.D)
	if err != nil {
		return fmt.Errorf("unable to difference series, %w", err)
	}
	degenerate := floats.Norm(w, 2) == 0
	if m.order.D == 0 {
		degenerate = stat.Variance(w, nil) == 0
	}
	if degenerate {
		return fmt.Errorf("unable to fit %s, %w", m.order, stats.ErrConstantSeries)
	}

	m.y = append([]float64(nil), y...)
	m.mean = 0
	if m.order.D == 0 {
		m.mean = stat.Mean(w, nil)
		floats.AddConst(-m.mean, w)
	}
	m.w = w

	params, converged, err := m.maximize()
	if err != nil {
		return err
	}
	m.ar, m.ma = m.splitParams(params)

	filter, err := kalmanFilter(m.w, m.ar, m.ma)
	if err != nil {
		return fmt.Errorf("unable to filter at estimated parameters, %w", err)
	}
	m.filter = filter
	m.sigma2 = filter.sigma2()
	m.loglike = filter.concentratedLogLike()
	m.converged = converged
	m.cov = m.paramCov()
	m.fitted = true
	return nil
}

// splitParams turns an unconstrained parameter vector into stationary AR and invertible MA
// coefficients
func (m *Model) splitParams(u []float64) ([]float64, []float64) {
	return constrainStationary(u[:m.order.P]), constrainInvertible(u[m.order.P:])
}

// objective is the negative concentrated log likelihood per observation
func (m *Model) objective(u []float64) float64 {
	ar, ma := m.splitParams(u)
	res, err := kalmanFilter(m.w, ar, ma)
	if err != nil {
		return penalty
	}
	ll := res.concentratedLogLike()
	if math.IsNaN(ll) || math.IsInf(ll, 0) {
		return penalty
	}
	return -ll / float64(len(m.w))
}

// startingPoints returns a start at white noise along with moment based starts from the sample
// partial autocorrelation and the lag one autocorrelation
func (m *Model) startingPoints() [][]float64 {
	p, q := m.order.P, m.order.Q
	starts := [][]float64{make([]float64, p+q)}

	if p > 0 {
		if pacf, err := stats.PACF(m.w, min(p, len(m.w)/2), 0.05); err == nil {
			start := make([]float64, p+q)
			for k := 1; k < len(pacf.Values); k++ {
				r := max(min(pacf.Values[k], 0.9), -0.9)
				start[k-1] = r / math.Sqrt(1.0-r*r)
			}
			starts = append(starts, start)
		}
	}
	if q > 0 {
		if acf, err := stats.ACF(m.w, 1, 0.05); err == nil {
			theta := make([]float64, q)
			theta[0] = max(min(acf.Values[1], 0.9), -0.9)
			start := make([]float64, p+q)
			copy(start[p:], unconstrainInvertible(theta))
			starts = append(starts, start)
		}
	}
	return starts
}

// maximize runs Nelder-Mead from every starting point and keeps the best optimum
func (m *Model) maximize() ([]float64, bool, error) {
	dim := m.order.P + m.order.Q
	if dim == 0 {
		return []float64{}, true, nil
	}

	problem := optimize.Problem{
		Func: m.objective,
	}
	settings := &optimize.Settings{
		MajorIterations: m.opt.MaxIterations,
	}

	var best *optimize.Result
	var lastErr error
	for _, start := range m.startingPoints() {
		res, err := optimize.Minimize(problem, start, settings, &optimize.NelderMead{})
		if res == nil || math.IsNaN(res.F) || res.F >= penalty {
			if err == nil {
				err = ErrOptimization
			}
			lastErr = err
			continue
		}
		if best == nil || res.F < best.F {
			best = res
		}
	}
	if best == nil {
		return nil, false, fmt.Errorf("%w, %w", ErrOptimization, lastErr)
	}

	converged := best.Status != optimize.IterationLimit
	return best.X, converged, nil
}

// negLogLike evaluates the negative log likelihood at (ar..., ma..., log sigma2) without
// enforcing stationarity or invertibility
func (m *Model) negLogLike(x []float64) float64 {
	p, q := m.order.P, m.order.Q
	res, err := kalmanFilter(m.w, x[:p], x[p:p+q])
	if err != nil {
		return math.NaN()
	}
	return -res.logLike(math.Exp(x[p+q]))
}

// paramCov inverts the numerical hessian of the negative log likelihood at the estimate and
// maps the log variance back to the variance with the delta method. The result is nil if the
// hessian is not positive definite.
func (m *Model) paramCov() *mat.SymDense {
	x := m.params()
	k := len(x) - 1
	x[k] = math.Log(x[k])

	hess := mat.NewSymDense(len(x), nil)
	fd.Hessian(hess, m.negLogLike, x, nil)
	for i := 0; i < len(x); i++ {
		for j := i; j < len(x); j++ {
			if v := hess.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil
			}
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(hess); !ok {
		return nil
	}
	logCov := mat.NewSymDense(len(x), nil)
	if err := chol.InverseTo(logCov); err != nil {
		return nil
	}

	jac := make([]float64, len(x))
	for i := range jac {
		jac[i] = 1.0
	}
	jac[k] = m.sigma2

	cov := mat.NewSymDense(len(x), nil)
	for i := 0; i < len(x); i++ {
		for j := i; j < len(x); j++ {
			cov.SetSym(i, j, jac[i]*jac[j]*logCov.At(i, j))
		}
	}
	return cov
}

// params returns the natural parameter vector (ar..., ma..., sigma2)
func (m *Model) params() []float64 {
	x := make([]float64, 0, len(m.ar)+len(m.ma)+1)
	x = append(x, m.ar...)
	x = append(x, m.ma...)
	return append(x, m.sigma2)
}

// paramNames labels the natural parameters
func (m *Model) paramNames() []string {
	names := make([]string, 0, m.order.P+m.order.Q+1)
	for i := 1; i <= m.order.P; i++ {
		names = append(names, fmt.Sprintf("ar.L%d", i))
	}
	for i := 1; i <= m.order.Q; i++ {
		names = append(names, fmt.Sprintf("ma.L%d", i))
	}
	return append(names, "sigma2")
}

// Order returns the model order
func (m *Model) Order() Order {
	return m.order
}

// AR returns a copy of the autoregressive coefficients
func (m *Model) AR() []float64 {
	return append([]float64(nil), m.ar...)
}

// MA returns a copy of the moving average coefficients
func (m *Model) MA() []float64 {
	return append([]float64(nil), m.ma...)
}

// Sigma2 is the innovation variance
func (m *Model) Sigma2() float64 {
	return m.sigma2
}

// Mean is the estimated mean of an undifferenced series and zero otherwise
func (m *Model) Mean() float64 {
	return m.mean
}

// Converged reports whether the optimizer stopped before its iteration limit
func (m *Model) Converged() bool {
	return m.converged
}

// NObs is the length of the fitted series before differencing
func (m *Model) NObs() int {
	return len(m.y)
}

// LogLikelihood is the exact gaussian log likelihood of the differenced series
func (m *Model) LogLikelihood() float64 {
	return m.loglike
}

// AIC is the Akaike information criterion
func (m *Model) AIC() float64 {
	return -2.0*m.loglike + 2.0*float64(m.order.numParams())
}

// BIC is the Bayesian information criterion using the number of differenced observations
func (m *Model) BIC() float64 {
	return -2.0*m.loglike + float64(m.order.numParams())*math.Log(float64(len(m.w)))
}

// HQIC is the Hannan-Quinn information criterion
func (m *Model) HQIC() float64 {
	return -2.0*m.loglike + 2.0*float64(m.order.numParams())*math.Log(math.Log(float64(len(m.w))))
}

// StdErrors returns the standard errors of ar, ma and sigma2 in that order. Values are NaN when
// the hessian could not be inverted.
func (m *Model) StdErrors() []float64 {
	n := m.order.P + m.order.Q + 1
	se := make([]float64, n)
	for i := range se {
		se[i] = math.NaN()
		if m.cov == nil {
			continue
		}
		if v := m.cov.At(i, i); v >= 0 {
			se[i] = math.Sqrt(v)
		}
	}
	return se
}

// FittedValues returns the one step ahead in sample predictions on the scale of the original
// series. The first d values are NaN as no prediction exists before the first difference.
func (m *Model) FittedValues() ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	resid, err := m.Residuals()
	if err != nil {
		return nil, err
	}
	fitted := make([]float64, len(m.y))
	for i := range fitted {
		fitted[i] = m.y[i] - resid[i]
	}
	return fitted, nil
}

// Residuals returns the one step ahead prediction errors aligned with the original series. The
// prediction error of the series equals that of its differences so the first d values are NaN.
func (m *Model) Residuals() ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	d := m.order.D
	resid := make([]float64, len(m.y))
	for i := 0; i < d; i++ {
		resid[i] = math.NaN()
	}
	copy(resid[d:], m.filter.innov)
	return resid, nil
}

// StandardizedResiduals returns the residuals divided by their standard deviation, aligned with
// the original series like Residuals
func (m *Model) StandardizedResiduals() ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	d := m.order.D
	std := make([]float64, len(m.y))
	for i := 0; i < d; i++ {
		std[i] = math.NaN()
	}
	copy(std[d:], m.filter.standardized())
	return std, nil
}
