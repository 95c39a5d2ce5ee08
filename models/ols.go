package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// pivots of R smaller than this fraction of the largest pivot mark a rank deficient design
const pivotTolerance = 1e-10

// OLSOptions represents input options to run the OLS Regression
type OLSOptions struct {
	// FitIntercept adds a constant 1.0 feature as the first column if set to true
	FitIntercept bool
}

// Validate runs basic validation on OLS options
func (o *OLSOptions) Validate() (*OLSOptions, error) {
	if o == nil {
		o = NewDefaultOLSOptions()
	}

	return o, nil
}

// NewDefaultOLSOptions returns a default set of OLS Regression options
func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{
		FitIntercept: true,
	}
}

// OLSRegression computes ordinary least squares using QR factorization. Besides the
// coefficients it keeps the standard errors and residual sum of squares so that callers
// can compute t statistics and information criteria from the fit.
type OLSRegression struct {
	opt       *OLSOptions
	coef      []float64
	intercept float64

	stdErr          []float64
	interceptStdErr float64
	nObs            int
	ssr             float64
}

// NewOLSRegression initializes an ordinary least squares model ready for fitting
func NewOLSRegression(opt *OLSOptions) (*OLSRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &OLSRegression{
		opt: opt,
	}, nil
}

// Fit the model according to the given training data. x is the design matrix with one
// row per observation and y is a single column of targets.
func (o *OLSRegression) Fit(x, y mat.Matrix) error {
	if o.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetMatrix
	}
	m, n := x.Dims()

	ym, _ := y.Dims()
	if ym != m {
		return fmt.Errorf("training data has %d rows and target has %d row, %w", m, ym, ErrTargetLenMismatch)
	}

	if o.opt.FitIntercept {
		x = withOnes(x)
		_, n = x.Dims()
	}
	if m <= n {
		return fmt.Errorf("%d observations for %d parameters, %w", m, n, ErrInsufficientObservations)
	}

	yT := y.T()

	qr := new(mat.QR)
	qr.Factorize(x)

	q := new(mat.Dense)
	r := new(mat.Dense)

	qr.QTo(q)
	qr.RTo(r)
	yq := new(mat.Dense)
	yq.Mul(yT, q)

	var maxPivot float64
	for i := 0; i < n; i++ {
		maxPivot = math.Max(maxPivot, math.Abs(r.At(i, i)))
	}

	c := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		if math.Abs(r.At(i, i)) <= pivotTolerance*maxPivot {
			return fmt.Errorf("zero pivot at column %d, %w", i, ErrSingularMatrix)
		}
		c[i] = yq.At(0, i)
		for j := i + 1; j < n; j++ {
			c[i] -= c[j] * r.At(i, j)
		}
		c[i] /= r.At(i, i)
	}

	// residual sum of squares
	var fitted mat.VecDense
	fitted.MulVec(x, mat.NewVecDense(n, c))
	resid := make([]float64, m)
	for i := 0; i < m; i++ {
		resid[i] = y.At(i, 0) - fitted.AtVec(i)
	}
	o.ssr = floats.Dot(resid, resid)
	o.nObs = m

	// covariance of the estimates is s^2 (X'X)^-1
	var xtx, xtxInv mat.Dense
	xtx.Mul(x.T(), x)
	if err := xtxInv.Inverse(&xtx); err != nil {
		if cond, ok := err.(mat.Condition); !ok || math.IsInf(float64(cond), 1) {
			return fmt.Errorf("unable to invert normal equations, %w", ErrSingularMatrix)
		}
	}
	s2 := o.ssr / float64(m-n)
	se := make([]float64, n)
	for i := 0; i < n; i++ {
		se[i] = math.Sqrt(s2 * xtxInv.At(i, i))
	}

	if o.opt.FitIntercept {
		o.intercept = c[0]
		o.coef = c[1:]
		o.interceptStdErr = se[0]
		o.stdErr = se[1:]
	} else {
		o.coef = c
		o.stdErr = se
	}

	return nil
}

// Predict returns the predicted values for each row of the design matrix
func (o *OLSRegression) Predict(x mat.Matrix) ([]float64, error) {
	if o.opt == nil {
		return nil, ErrNoOptions
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}

	coef := o.coef
	if o.opt.FitIntercept {
		coef = append([]float64{o.intercept}, o.coef...)
		x = withOnes(x)
	}
	n := len(coef)

	_, xn := x.Dims()
	if xn != n {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", xn, n, ErrFeatureLenMismatch)
	}

	var res mat.VecDense
	res.MulVec(x, mat.NewVecDense(n, coef))
	return res.RawVector().Data, nil
}

// Score computes the coefficient of determination of the prediction
func (o *OLSRegression) Score(x, y mat.Matrix) (float64, error) {
	if o.opt == nil {
		return 0.0, ErrNoOptions
	}
	if x == nil {
		return 0.0, ErrNoDesignMatrix
	}
	if y == nil {
		return 0.0, ErrNoTargetMatrix
	}

	m, _ := x.Dims()

	ym, _ := y.Dims()
	if m != ym {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d rows, %w", m, ym, ErrTargetLenMismatch)
	}

	res, err := o.Predict(x)
	if err != nil {
		return 0.0, err
	}

	ySlice := mat.Col(nil, 0, y)

	return stat.RSquaredFrom(res, ySlice, nil), nil
}

// Intercept returns the intercept of the fit, zero if FitIntercept is disabled
func (o *OLSRegression) Intercept() float64 {
	return o.intercept
}

// Coef returns a copy of the coefficients of the fit excluding the intercept
func (o *OLSRegression) Coef() []float64 {
	c := make([]float64, len(o.coef))
	copy(c, o.coef)
	return c
}

// StdErr returns a copy of the standard errors of the coefficients excluding the intercept
func (o *OLSRegression) StdErr() []float64 {
	se := make([]float64, len(o.stdErr))
	copy(se, o.stdErr)
	return se
}

// TValues returns the t statistic of each coefficient excluding the intercept
func (o *OLSRegression) TValues() []float64 {
	tv := make([]float64, len(o.coef))
	for i := range o.coef {
		tv[i] = o.coef[i] / o.stdErr[i]
	}
	return tv
}

// NumParams is the number of estimated regression parameters including the intercept
func (o *OLSRegression) NumParams() int {
	n := len(o.coef)
	if o.opt != nil && o.opt.FitIntercept {
		n++
	}
	return n
}

// LogLikelihood returns the gaussian log likelihood of the fit
func (o *OLSRegression) LogLikelihood() float64 {
	n := float64(o.nObs)
	return -n / 2.0 * (math.Log(2.0*math.Pi) + math.Log(o.ssr/n) + 1.0)
}

// AIC returns the akaike information criterion of the fit
func (o *OLSRegression) AIC() float64 {
	return -2.0*o.LogLikelihood() + 2.0*float64(o.NumParams())
}

func withOnes(x mat.Matrix) mat.Matrix {
	m, n := x.Dims()
	out := mat.NewDense(m, n+1, nil)
	for i := 0; i < m; i++ {
		out.Set(i, 0, 1.0)
		for j := 0; j < n; j++ {
			out.Set(i, j+1, x.At(i, j))
		}
	}
	return out
}
