package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	mat_ "github.com/aouyang1/go-caseload/mat"
	"github.com/aouyang1/go-caseload/models"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CriticalLevels lists the significance levels reported by the ADF test in print order
var CriticalLevels = []string{"1%", "5%", "10%"}

// MacKinnon (1994) response surface for the p-value of a constant only regression with a
// single series, and MacKinnon (2010) finite sample critical values.
var (
	tauMax   = 2.74
	tauMin   = -18.83
	tauStar  = -1.61
	tauSmall = []float64{2.1659, 1.4412, 0.038269}
	tauLarge = []float64{1.7339, 0.93202, -0.12745, -0.010368}

	tauCrit = map[string][]float64{
		"1%":  {-3.43035, -6.5393, -16.786, -79.433},
		"5%":  {-2.86154, -2.8903, -4.234, -40.040},
		"10%": {-2.56677, -1.5384, -2.809, 0.0},
	}
)

// ADFOptions configures the augmented Dickey-Fuller test
type ADFOptions struct {
	// MaxLag is the largest number of lagged differences in the regression. A negative value
	// uses 12*(n/100)^(1/4).
	MaxLag int

	// AutoLag picks the number of lags in [0, MaxLag] minimizing AIC. When false MaxLag lags
	// are always used.
	AutoLag bool
}

// NewDefaultADFOptions returns the default lag selection by AIC
func NewDefaultADFOptions() *ADFOptions {
	return &ADFOptions{
		MaxLag:  -1,
		AutoLag: true,
	}
}

// ADFResult holds the outcome of an augmented Dickey-Fuller unit root test
type ADFResult struct {
	Statistic      float64            `json:"statistic"`
	PValue         float64            `json:"p_value"`
	UsedLag        int                `json:"used_lag"`
	NObs           int                `json:"n_obs"`
	CriticalValues map[string]float64 `json:"critical_values"`
	ICBest         float64            `json:"ic_best"`
	RSquared       float64            `json:"r_squared"`
}

// Stationary reports whether the unit root null is rejected at the significance level
func (r *ADFResult) Stationary(alpha float64) bool {
	return r.PValue < alpha
}

// TablePrint writes the test statistic, p-value and critical values for the named series
func (r *ADFResult) TablePrint(w io.Writer, name string) error {
	if _, err := fmt.Fprintf(w, "ADF test for %s\n", name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Test statistic: %.4f\n", r.Statistic); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  p-value:        %.4f\n", r.PValue); err != nil {
		return err
	}
	for _, level := range CriticalLevels {
		val, exists := r.CriticalValues[level]
		if !exists {
			continue
		}
		if _, err := fmt.Fprintf(w, "  Critical value (%s): %.4f\n", level, val); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, strings.Repeat("-", 40))
	return err
}

// ADF runs the augmented Dickey-Fuller test with a constant on y. NaN values are dropped
// before testing. The null hypothesis is that y has a unit root.
func ADF(y []float64, opt *ADFOptions) (*ADFResult, error) {
	if opt == nil {
		opt = NewDefaultADFOptions()
	}

	x := DropNaN(y)
	nobs := len(x)
	if nobs < 4 {
		return nil, fmt.Errorf("%d points after dropping missing values, %w", nobs, ErrInsufficientData)
	}
	if isConstant(x) {
		return nil, ErrConstantSeries
	}

	// one column for the constant and one for the lagged level
	limit := nobs/2 - 2
	maxLag := opt.MaxLag
	if maxLag < 0 {
		maxLag = int(math.Ceil(12.0 * math.Pow(float64(nobs)/100.0, 0.25)))
		maxLag = min(maxLag, limit)
	}
	if maxLag < 0 || maxLag > limit {
		return nil, fmt.Errorf("max lag of %d with %d points, %w", maxLag, nobs, ErrInsufficientData)
	}

	xdiff, err := Diff(x, 1)
	if err != nil {
		return nil, err
	}

	usedLag := maxLag
	icBest := math.NaN()
	if opt.AutoLag {
		usedLag, icBest, err = adfAutoLag(x, xdiff, maxLag)
		if err != nil {
			return nil, err
		}
	}

	design, target, err := adfDesign(x, xdiff, usedLag)
	if err != nil {
		return nil, err
	}
	ols, xMat, yMat, err := fitOLS(design, target)
	if err != nil {
		return nil, fmt.Errorf("unable to fit adf regression, %w", err)
	}
	r2, err := ols.Score(xMat, yMat)
	if err != nil {
		return nil, fmt.Errorf("unable to score adf regression, %w", err)
	}
	adfStat := ols.TValues()[0]
	nReg := len(target)

	return &ADFResult{
		Statistic:      adfStat,
		PValue:         MacKinnonP(adfStat),
		UsedLag:        usedLag,
		NObs:           nReg,
		CriticalValues: MacKinnonCrit(nReg),
		ICBest:         icBest,
		RSquared:       r2,
	}, nil
}

// adfAutoLag fits every lag count on the sample of the largest lag and returns the one with
// the lowest AIC
func adfAutoLag(x, xdiff []float64, maxLag int) (int, float64, error) {
	design, target, err := adfDesign(x, xdiff, maxLag)
	if err != nil {
		return 0, 0, err
	}

	bestLag := 0
	bestAIC := math.Inf(1)
	for lag := 0; lag <= maxLag; lag++ {
		sub := make([][]float64, len(design))
		for i, row := range design {
			sub[i] = row[:lag+1]
		}
		ols, _, _, err := fitOLS(sub, target)
		if err != nil {
			return 0, 0, fmt.Errorf("unable to fit adf regression with %d lags, %w", lag, err)
		}
		if aic := ols.AIC(); aic < bestAIC {
			bestAIC = aic
			bestLag = lag
		}
	}
	return bestLag, bestAIC, nil
}

// adfDesign returns the rows [x[t], dx[t-1], ..., dx[t-lags]] regressed on dx[t]
func adfDesign(x, xdiff []float64, lags int) ([][]float64, []float64, error) {
	lagged, err := mat_.Lagged(xdiff, lags)
	if err != nil {
		return nil, nil, fmt.Errorf("%w, %w", err, ErrInsufficientData)
	}

	design := make([][]float64, len(lagged))
	target := make([]float64, len(lagged))
	for i, row := range lagged {
		t := i + lags
		target[i] = row[0]

		design[i] = make([]float64, lags+1)
		design[i][0] = x[t]
		copy(design[i][1:], row[1:])
	}
	return design, target, nil
}

func fitOLS(design [][]float64, target []float64) (*models.OLSRegression, mat.Matrix, mat.Matrix, error) {
	x, err := mat_.NewDenseFromArray(design)
	if err != nil {
		return nil, nil, nil, err
	}
	y := mat.NewDense(len(target), 1, target)

	ols, err := models.NewOLSRegression(models.NewDefaultOLSOptions())
	if err != nil {
		return nil, nil, nil, err
	}
	if err := ols.Fit(x, y); err != nil {
		return nil, nil, nil, err
	}
	return ols, x, y, nil
}

// MacKinnonP approximates the p-value of an ADF statistic from a regression with a constant
func MacKinnonP(stat float64) float64 {
	if stat > tauMax {
		return 1.0
	}
	if stat < tauMin {
		return 0.0
	}
	poly := tauLarge
	if stat <= tauStar {
		poly = tauSmall
	}
	return distuv.UnitNormal.CDF(polyval(poly, stat))
}

// MacKinnonCrit returns the 1%, 5% and 10% critical values for nobs regression observations
func MacKinnonCrit(nobs int) map[string]float64 {
	crit := make(map[string]float64, len(tauCrit))
	inv := 1.0 / float64(nobs)
	for level, coef := range tauCrit {
		crit[level] = polyval(coef, inv)
	}
	return crit
}

// polyval evaluates c[0] + c[1]*x + c[2]*x^2 + ...
func polyval(c []float64, x float64) float64 {
	res := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		res = res*x + c[i]
	}
	return res
}
