package arima

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/aouyang1/go-caseload/stats"
	"github.com/aouyang1/go-caseload/util"
	"gonum.org/v1/gonum/stat/distuv"
)

// Coefficient is a single estimated parameter with its wald test and confidence interval
type Coefficient struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	StdErr float64 `json:"std_err"`
	Z      float64 `json:"z"`
	PValue float64 `json:"p_value"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
}

// Summary describes a fitted model, its information criteria and residual diagnostics.
// Diagnostics that cannot be computed on the residuals are nil.
type Summary struct {
	Name               string                 `json:"name"`
	Order              Order                  `json:"order"`
	NObs               int                    `json:"n_obs"`
	Converged          bool                   `json:"converged"`
	LogLikelihood      float64                `json:"log_likelihood"`
	AIC                float64                `json:"aic"`
	BIC                float64                `json:"bic"`
	HQIC               float64                `json:"hqic"`
	Alpha              float64                `json:"alpha"`
	Coefficients       []Coefficient          `json:"coefficients"`
	LjungBox           *stats.TestResult      `json:"ljung_box"`
	JarqueBera         *stats.NormalityResult `json:"jarque_bera"`
	Heteroskedasticity *stats.TestResult      `json:"heteroskedasticity"`
}

// Summary tabulates the fitted coefficients and tests the standardized residuals
func (m *Model) Summary() (*Summary, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}

	z := distuv.UnitNormal.Quantile(1.0 - m.opt.Alpha/2.0)
	values := m.params()
	stdErr := m.StdErrors()
	names := m.paramNames()

	coefs := make([]Coefficient, len(values))
	for i, val := range values {
		se := stdErr[i]
		zStat := val / se
		coefs[i] = Coefficient{
			Name:   names[i],
			Value:  val,
			StdErr: se,
			Z:      zStat,
			PValue: 2.0 * distuv.UnitNormal.Survival(math.Abs(zStat)),
			Lower:  val - z*se,
			Upper:  val + z*se,
		}
	}

	sum := &Summary{
		Name:          m.opt.Name,
		Order:         m.order,
		NObs:          len(m.y),
		Converged:     m.converged,
		LogLikelihood: m.loglike,
		AIC:           m.AIC(),
		BIC:           m.BIC(),
		HQIC:          m.HQIC(),
		Alpha:         m.opt.Alpha,
		Coefficients:  coefs,
	}

	resid, err := m.StandardizedResiduals()
	if err != nil {
		return nil, err
	}
	if lb, err := stats.LjungBox(resid, 1); err == nil {
		sum.LjungBox = lb
	}
	if jb, err := stats.JarqueBera(resid); err == nil {
		sum.JarqueBera = jb
	}
	if het, err := stats.Heteroskedasticity(resid); err == nil {
		sum.Heteroskedasticity = het
	}
	return sum, nil
}

type diagnostic struct {
	label  string
	result *stats.TestResult
}

// TablePrint writes the summary with each section indented by indent
func (s *Summary) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	pad := prefix + util.IndentExpand(indent, indentGrowth)
	sep := strings.Repeat("=", 78)

	if _, err := fmt.Fprintf(w, "%s%s Results\n%s%s\n", pad, s.Order, pad, sep); err != nil {
		return err
	}

	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	header := []struct {
		label string
		value string
	}{
		{"Dep. Variable:", s.Name},
		{"Model:", s.Order.String()},
		{"No. Observations:", fmt.Sprintf("%d", s.NObs)},
		{"Converged:", fmt.Sprintf("%t", s.Converged)},
		{"Log Likelihood:", fmt.Sprintf("%.3f", s.LogLikelihood)},
		{"AIC:", fmt.Sprintf("%.3f", s.AIC)},
		{"BIC:", fmt.Sprintf("%.3f", s.BIC)},
		{"HQIC:", fmt.Sprintf("%.3f", s.HQIC)},
	}
	for _, h := range header {
		if _, err := fmt.Fprintf(tbl, "%s%s\t%s\t\n", pad, h.label, h.value); err != nil {
			return err
		}
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%s\n", pad, sep); err != nil {
		return err
	}
	lowerLabel := fmt.Sprintf("[%.3f", s.Alpha/2.0)
	upperLabel := fmt.Sprintf("%.3f]", 1.0-s.Alpha/2.0)
	tbl = tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s\tcoef\tstd err\tz\tP>|z|\t%s\t%s\t\n", pad, lowerLabel, upperLabel); err != nil {
		return err
	}
	for _, c := range s.Coefficients {
		if _, err := fmt.Fprintf(tbl, "%s%s\t%.4f\t%.4f\t%.3f\t%.3f\t%.4f\t%.4f\t\n",
			pad, c.Name, c.Value, c.StdErr, c.Z, c.PValue, c.Lower, c.Upper); err != nil {
			return err
		}
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%s\n", pad, sep); err != nil {
		return err
	}
	tbl = tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	diagnostics := []diagnostic{
		{"Ljung-Box (L1) (Q):", s.LjungBox},
		{"Heteroskedasticity (H):", s.Heteroskedasticity},
	}
	if s.JarqueBera != nil {
		diagnostics = append(diagnostics, diagnostic{"Jarque-Bera (JB):", &s.JarqueBera.TestResult})
	}
	for _, d := range diagnostics {
		if d.result == nil {
			continue
		}
		if _, err := fmt.Fprintf(tbl, "%s%s\t%.2f\tProb:\t%.2f\t\n", pad, d.label, d.result.Statistic, d.result.PValue); err != nil {
			return err
		}
	}
	if s.JarqueBera != nil {
		if _, err := fmt.Fprintf(tbl, "%sSkew:\t%.2f\tKurtosis:\t%.2f\t\n", pad, s.JarqueBera.Skew, s.JarqueBera.Kurtosis); err != nil {
			return err
		}
	}
	if err := tbl.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s%s\n", pad, sep)
	return err
}
