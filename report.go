package caseload

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-caseload/stats"
	"github.com/aouyang1/go-caseload/util"
	"github.com/goccy/go-json"
)

const monthLayout = "2006-01-02"

// number is a float that encodes NaN and infinities as null
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func numbers(vals []float64) []number {
	out := make([]number, len(vals))
	for i, v := range vals {
		out[i] = number(v)
	}
	return out
}

func months(t []time.Time) []string {
	out := make([]string, len(t))
	for i, v := range t {
		out[i] = v.Format(monthLayout)
	}
	return out
}

type ADFReport struct {
	Statistic      number            `json:"statistic"`
	PValue         number            `json:"p_value"`
	UsedLag        int               `json:"used_lag"`
	NObs           int               `json:"n_obs"`
	CriticalValues map[string]number `json:"critical_values"`
	ICBest         number            `json:"ic_best"`
	RSquared       number            `json:"r_squared"`
	Stationary     bool              `json:"stationary"`
}

type CoefficientReport struct {
	Name   string `json:"name"`
	Value  number `json:"value"`
	StdErr number `json:"std_err"`
	Z      number `json:"z"`
	PValue number `json:"p_value"`
	Lower  number `json:"lower"`
	Upper  number `json:"upper"`
}

type DiagnosticReport struct {
	Statistic number `json:"statistic"`
	PValue    number `json:"p_value"`
}

type ModelReport struct {
	Order              string              `json:"order"`
	NObs               int                 `json:"n_obs"`
	Converged          bool                `json:"converged"`
	LogLikelihood      number              `json:"log_likelihood"`
	AIC                number              `json:"aic"`
	BIC                number              `json:"bic"`
	HQIC               number              `json:"hqic"`
	Coefficients       []CoefficientReport `json:"coefficients"`
	LjungBox           *DiagnosticReport         `json:"ljung_box,omitempty"`
	JarqueBera         *DiagnosticReport         `json:"jarque_bera,omitempty"`
	Skew               *number             `json:"skew,omitempty"`
	Kurtosis           *number             `json:"kurtosis,omitempty"`
	Heteroskedasticity *DiagnosticReport         `json:"heteroskedasticity,omitempty"`
}

type ScoresReport struct {
	MSE  number `json:"mse"`
	MAPE number `json:"mape"`
	R2   number `json:"r2"`
}

type ForecastPoint struct {
	Month    string `json:"month"`
	Forecast number `json:"forecast"`
	Lower    number `json:"lower"`
	Upper    number `json:"upper"`
}

// Report is the serializable outcome of an analysis. Stages that did not run are omitted and
// undefined values encode as null.
type Report struct {
	Name         string             `json:"name"`
	Months       []string           `json:"months"`
	Observed     []number           `json:"observed"`
	Fitted       []number           `json:"fitted,omitempty"`
	Residuals    []number           `json:"residuals,omitempty"`
	Standardized []number           `json:"standardized_residuals,omitempty"`
	Missing      []string           `json:"missing_months,omitempty"`
	ADF          *ADFReport         `json:"adf,omitempty"`
	ACF          *stats.Correlogram `json:"acf,omitempty"`
	PACF         *stats.Correlogram `json:"pacf,omitempty"`
	Model        *ModelReport       `json:"model,omitempty"`
	Scores       *ScoresReport      `json:"scores,omitempty"`
	Outliers     []string           `json:"outliers,omitempty"`
	Forecast     []ForecastPoint    `json:"forecast,omitempty"`
	Alpha        float64            `json:"alpha"`
	Warnings     []string           `json:"warnings,omitempty"`
}

func diagnosticReport(res *stats.TestResult) *DiagnosticReport {
	if res == nil {
		return nil
	}
	return &DiagnosticReport{
		Statistic: number(res.Statistic),
		PValue:    number(res.PValue),
	}
}

// Report collects every computed stage of the analysis
func (a *Analyzer) Report() (*Report, error) {
	if a.data == nil {
		return nil, ErrNotFit
	}

	r := &Report{
		Name:         a.opt.Name,
		Months:       months(a.data.T),
		Observed:     numbers(a.data.Y),
		Fitted:       numbers(a.fitted),
		Residuals:    numbers(a.residual),
		Standardized: numbers(a.stdResid),
		Missing:      months(a.data.Missing()),
		ACF:          a.acf,
		PACF:         a.pacf,
		Outliers:     months(a.outliers),
		Alpha:        a.opt.Alpha,
		Warnings:     a.warnings,
	}

	if a.adf != nil {
		crit := make(map[string]number, len(a.adf.CriticalValues))
		for level, val := range a.adf.CriticalValues {
			crit[level] = number(val)
		}
		r.ADF = &ADFReport{
			Statistic:      number(a.adf.Statistic),
			PValue:         number(a.adf.PValue),
			UsedLag:        a.adf.UsedLag,
			NObs:           a.adf.NObs,
			CriticalValues: crit,
			ICBest:         number(a.adf.ICBest),
			RSquared:       number(a.adf.RSquared),
			Stationary:     a.adf.Stationary(a.opt.Alpha),
		}
	}

	if s := a.summary; s != nil {
		mr := &ModelReport{
			Order:              s.Order.String(),
			NObs:               s.NObs,
			Converged:          s.Converged,
			LogLikelihood:      number(s.LogLikelihood),
			AIC:                number(s.AIC),
			BIC:                number(s.BIC),
			HQIC:               number(s.HQIC),
			Coefficients:       make([]CoefficientReport, 0, len(s.Coefficients)),
			LjungBox:           diagnosticReport(s.LjungBox),
			Heteroskedasticity: diagnosticReport(s.Heteroskedasticity),
		}
		for _, c := range s.Coefficients {
			mr.Coefficients = append(mr.Coefficients, CoefficientReport{
				Name:   c.Name,
				Value:  number(c.Value),
				StdErr: number(c.StdErr),
				Z:      number(c.Z),
				PValue: number(c.PValue),
				Lower:  number(c.Lower),
				Upper:  number(c.Upper),
			})
		}
		if jb := s.JarqueBera; jb != nil {
			skew, kurt := number(jb.Skew), number(jb.Kurtosis)
			mr.JarqueBera = diagnosticReport(&jb.TestResult)
			mr.Skew = &skew
			mr.Kurtosis = &kurt
		}
		r.Model = mr
	}

	if a.scores != nil {
		r.Scores = &ScoresReport{
			MSE:  number(a.scores.MSE),
			MAPE: number(a.scores.MAPE),
			R2:   number(a.scores.R2),
		}
	}

	if res := a.results; res != nil {
		r.Forecast = make([]ForecastPoint, len(res.T))
		for i, t := range res.T {
			r.Forecast[i] = ForecastPoint{
				Month:    t.Format(monthLayout),
				Forecast: number(res.Forecast[i]),
				Lower:    number(res.Lower[i]),
				Upper:    number(res.Upper[i]),
			}
		}
	}
	return r, nil
}

// WriteJSON encodes the report as indented JSON
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("unable to encode report, %w", err)
	}
	return nil
}

// TablePrint writes the stationarity test, the model summary, the in sample scores and the
// forecast table
func (a *Analyzer) TablePrint(w io.Writer) error {
	if a.adf == nil || a.summary == nil || a.scores == nil || a.results == nil {
		return ErrNotFit
	}
	prefix, indent := "", "  "

	if err := a.adf.TablePrint(w, a.opt.Name); err != nil {
		return err
	}
	if err := a.summary.TablePrint(w, prefix, indent, 0); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sMAPE: %.3f    MSE: %.3f    R2: %.3f\n",
		prefix, util.IndentExpand(indent, 1),
		a.scores.MAPE,
		a.scores.MSE,
		a.scores.R2,
	); err != nil {
		return err
	}

	if len(a.outliers) > 0 {
		if _, err := fmt.Fprintf(w, "%s%sResidual Outliers: %s\n",
			prefix, util.IndentExpand(indent, 0), strings.Join(months(a.outliers), ", ")); err != nil {
			return err
		}
	}

	return a.results.tablePrint(w, prefix, indent, 0, a.opt.Alpha)
}

func (r *Results) tablePrint(w io.Writer, prefix, indent string, indentGrowth int, alpha float64) error {
	if _, err := fmt.Fprintf(w, "%s%sForecast:\n", prefix, util.IndentExpand(indent, indentGrowth)); err != nil {
		return err
	}
	level := fmt.Sprintf("%g%%", 100.0*(1.0-alpha))
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sMonth\tForecast\tLower %s\tUpper %s\t\n",
		prefix, util.IndentExpand(indent, indentGrowth+1), level, level); err != nil {
		return err
	}
	for i, t := range r.T {
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%.2f\t%.2f\t%.2f\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			t.Format("2006-01"), r.Forecast[i], r.Lower[i], r.Upper[i]); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
