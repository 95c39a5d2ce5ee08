package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TestResult is the statistic and p-value of a residual diagnostic
type TestResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
}

// LjungBox computes the Ljung-Box portmanteau statistic over the first lags autocorrelations
// of the residuals. The p-value uses a chi-squared distribution with lags degrees of freedom.
func LjungBox(resid []float64, lags int) (*TestResult, error) {
	if lags < 1 {
		return nil, ErrInvalidLag
	}
	x := DropNaN(resid)
	n := len(x)
	if lags >= n {
		return nil, fmt.Errorf("%d lags for %d points, %w", lags, n, ErrTooManyLags)
	}
	if isConstant(x) {
		return nil, ErrConstantSeries
	}

	acf := autocorrelation(x, lags)
	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / float64(n-k)
	}
	q *= float64(n) * float64(n+2)

	return &TestResult{
		Statistic: q,
		PValue:    distuv.ChiSquared{K: float64(lags)}.Survival(q),
	}, nil
}

// NormalityResult is the Jarque-Bera test along with the sample moments it is built from
type NormalityResult struct {
	TestResult
	Skew     float64 `json:"skew"`
	Kurtosis float64 `json:"kurtosis"`
}

// JarqueBera tests the residuals for normality from their skew and kurtosis
func JarqueBera(resid []float64) (*NormalityResult, error) {
	x := DropNaN(resid)
	n := len(x)
	if n < 3 {
		return nil, fmt.Errorf("%d residuals, %w", n, ErrInsufficientData)
	}
	if isConstant(x) {
		return nil, ErrConstantSeries
	}

	mean := stat.Mean(x, nil)
	m2 := stat.MomentAbout(2, x, mean, nil)
	m3 := stat.MomentAbout(3, x, mean, nil)
	m4 := stat.MomentAbout(4, x, mean, nil)

	skew := m3 / math.Pow(m2, 1.5)
	kurt := m4 / (m2 * m2)
	jb := float64(n) / 6.0 * (skew*skew + (kurt-3.0)*(kurt-3.0)/4.0)

	return &NormalityResult{
		TestResult: TestResult{
			Statistic: jb,
			PValue:    distuv.ChiSquared{K: 2}.Survival(jb),
		},
		Skew:     skew,
		Kurtosis: kurt,
	}, nil
}

// Heteroskedasticity compares the residual sum of squares of the last third of the sample
// to the first third. The two sided p-value uses an F distribution.
func Heteroskedasticity(resid []float64) (*TestResult, error) {
	x := DropNaN(resid)
	n := len(x)
	h := int(math.Round(float64(n) / 3.0))
	if h < 2 {
		return nil, fmt.Errorf("%d residuals, %w", n, ErrInsufficientData)
	}

	var first, last float64
	for i := 0; i < h; i++ {
		first += x[i] * x[i]
		last += x[n-h+i] * x[n-h+i]
	}
	if first == 0 {
		return nil, ErrConstantSeries
	}
	hStat := last / first

	cdf := distuv.F{D1: float64(h), D2: float64(h)}.CDF(hStat)
	p := 2.0 * math.Min(cdf, 1.0-cdf)

	return &TestResult{
		Statistic: hStat,
		PValue:    math.Min(p, 1.0),
	}, nil
}
