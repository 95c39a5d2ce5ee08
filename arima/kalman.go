package arima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var ErrFilterDiverged = errors.New("kalman filter prediction variance is not positive")

// stateSpace is the Harvey representation of a zero mean ARMA(p, q) process with state dimension
// r = max(p, q+1). The transition has the AR coefficients down the first column and ones on the
// superdiagonal. The disturbance loading is (1, theta[0], ..., theta[r-2]).
type stateSpace struct {
	dim  int
	tr   *mat.Dense
	dist *mat.Dense
}

func newStateSpace(ar, ma []float64) *stateSpace {
	dim := max(len(ar), len(ma)+1)

	tr := mat.NewDense(dim, dim, nil)
	for i, phi := range ar {
		tr.Set(i, 0, phi)
	}
	for i := 0; i < dim-1; i++ {
		tr.Set(i, i+1, 1.0)
	}

	loading := make([]float64, dim)
	loading[0] = 1.0
	copy(loading[1:], ma)
	rv := mat.NewVecDense(dim, loading)

	dist := mat.NewDense(dim, dim, nil)
	dist.Outer(1.0, rv, rv)

	return &stateSpace{
		dim:  dim,
		tr:   tr,
		dist: dist,
	}
}

// initialCov solves P = T P T' + R R' for the unconditional state covariance in units of the
// innovation variance
func (s *stateSpace) initialCov() (*mat.Dense, error) {
	n := s.dim * s.dim

	var kron mat.Dense
	kron.Kronecker(s.tr, s.tr)

	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1.0
	}
	var lhs mat.Dense
	lhs.Sub(mat.NewDiagDense(n, ones), &kron)

	rhs := mat.NewVecDense(n, nil)
	for i := 0; i < s.dim; i++ {
		for j := 0; j < s.dim; j++ {
			rhs.SetVec(i*s.dim+j, s.dist.At(i, j))
		}
	}

	var sol mat.VecDense
	if err := sol.SolveVec(&lhs, rhs); err != nil {
		return nil, fmt.Errorf("unable to solve for initial state covariance, %w", err)
	}

	cov := mat.NewDense(s.dim, s.dim, nil)
	for i := 0; i < s.dim; i++ {
		for j := 0; j < s.dim; j++ {
			cov.Set(i, j, sol.AtVec(i*s.dim+j))
		}
	}
	return cov, nil
}

// filterResult holds the one step prediction errors and their variances in units of the
// innovation variance along with the predicted state after the last observation
type filterResult struct {
	innov   []float64
	fvar    []float64
	ssq     float64
	sumLogF float64
	state   *mat.VecDense
	cov     *mat.Dense
}

// nobs is the number of filtered observations
func (f *filterResult) nobs() int {
	return len(f.innov)
}

// sigma2 is the maximum likelihood innovation variance
func (f *filterResult) sigma2() float64 {
	return f.ssq / float64(f.nobs())
}

// concentratedLogLike is the exact gaussian log likelihood with the innovation variance replaced
// by its maximum likelihood estimate
func (f *filterResult) concentratedLogLike() float64 {
	n := float64(f.nobs())
	return -0.5*n*(math.Log(2.0*math.Pi)+math.Log(f.sigma2())+1.0) - 0.5*f.sumLogF
}

// logLike is the exact gaussian log likelihood at innovation variance sigma2
func (f *filterResult) logLike(sigma2 float64) float64 {
	n := float64(f.nobs())
	return -0.5*n*(math.Log(2.0*math.Pi)+math.Log(sigma2)) - 0.5*f.sumLogF - 0.5*f.ssq/sigma2
}

// standardized returns the prediction errors scaled by their standard deviation
func (f *filterResult) standardized() []float64 {
	std := make([]float64, f.nobs())
	sigma2 := f.sigma2()
	for i, v := range f.innov {
		std[i] = v / math.Sqrt(f.fvar[i]*sigma2)
	}
	return std
}

// kalmanFilter runs the filter over the zero mean series w
func kalmanFilter(w, ar, ma []float64) (*filterResult, error) {
	ss := newStateSpace(ar, ma)
	cov, err := ss.initialCov()
	if err != nil {
		return nil, err
	}
	state := mat.NewVecDense(ss.dim, nil)

	res := &filterResult{
		innov: make([]float64, len(w)),
		fvar:  make([]float64, len(w)),
	}

	var gain, nextState mat.VecDense
	var tp, nextCov, gainOuter mat.Dense
	for i, obs := range w {
		fv := cov.At(0, 0)
		if !(fv > 0) || math.IsInf(fv, 0) {
			return nil, fmt.Errorf("observation %d has variance %.3g, %w", i, fv, ErrFilterDiverged)
		}
		v := obs - state.AtVec(0)
		res.innov[i] = v
		res.fvar[i] = fv
		res.ssq += v * v / fv
		res.sumLogF += math.Log(fv)

		gain.MulVec(ss.tr, cov.ColView(0))
		gain.ScaleVec(1.0/fv, &gain)

		nextState.MulVec(ss.tr, state)
		nextState.AddScaledVec(&nextState, v, &gain)
		state.CopyVec(&nextState)

		tp.Mul(ss.tr, cov)
		nextCov.Mul(&tp, ss.tr.T())
		nextCov.Add(&nextCov, ss.dist)
		gainOuter.Outer(fv, &gain, &gain)
		nextCov.Sub(&nextCov, &gainOuter)
		cov.Copy(&nextCov)
	}

	res.state = state
	res.cov = cov
	return res, nil
}
