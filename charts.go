package caseload

import (
	"fmt"
	"math"
	"strconv"

	"github.com/aouyang1/go-caseload/chart"
	"github.com/aouyang1/go-caseload/stats"
)

// Charts describes the observed series, both correlograms, the in sample fit and the forecast
func (a *Analyzer) Charts() ([]*chart.Chart, error) {
	if a.data == nil || a.acf == nil || a.pacf == nil || a.results == nil {
		return nil, ErrNotFit
	}
	return []*chart.Chart{
		a.SeriesChart(),
		correlogramChart("ACF of Differenced Series", "ACF", a.acf),
		correlogramChart("PACF of Differenced Series", "PACF", a.pacf),
		a.FitChart(),
		a.ForecastChart(),
	}, nil
}

// SeriesChart draws the observed monthly series
func (a *Analyzer) SeriesChart() *chart.Chart {
	return chart.NewTimeChart("Monthly Case Load", "Date", "Total Cases", a.data.T).
		AddLine("Total Cases", a.data.Y, false)
}

// correlogramChart draws the correlation at each lag as bars with the confidence band as dashed
// lines
func correlogramChart(title, name string, c *stats.Correlogram) *chart.Chart {
	lags := make([]string, len(c.Lags))
	upper := make([]float64, len(c.Bound))
	lower := make([]float64, len(c.Bound))
	for i, lag := range c.Lags {
		lags[i] = strconv.Itoa(lag)
		upper[i] = c.Bound[i]
		lower[i] = -c.Bound[i]
	}
	// lag zero is always one and has no band
	upper[0] = math.NaN()
	lower[0] = math.NaN()

	level := fmt.Sprintf("%g%%", 100.0*(1.0-c.Alpha))
	return chart.NewCategoryChart(title, "Lag", name, lags).
		AddBar(name, c.Values).
		AddLine("Upper "+level, upper, true).
		AddLine("Lower "+level, lower, true)
}

// FitChart draws the observed series against the in sample one step predictions
func (a *Analyzer) FitChart() *chart.Chart {
	title := fmt.Sprintf("%s – Actual vs Fitted", a.opt.Order)
	c := chart.NewTimeChart(title, "Date", "Total Cases", a.data.T).
		AddLine("Actual", a.data.Y, false)
	if len(a.fitted) == len(a.data.Y) {
		c.AddLine("Fitted", a.fitted, true)
	}
	return c
}

// ForecastChart draws the history followed by the forecast and its interval. The forecast line
// starts at the last observation so the two lines join.
func (a *Analyzer) ForecastChart() *chart.Chart {
	nHist := len(a.data.T)
	n := nHist + len(a.results.T)

	t := append(append(a.data.T[:0:0], a.data.T...), a.results.T...)
	history := nanSlice(n)
	fcst := nanSlice(n)
	lower := nanSlice(n)
	upper := nanSlice(n)

	copy(history, a.data.Y)
	copy(fcst[nHist:], a.results.Forecast)
	copy(lower[nHist:], a.results.Lower)
	copy(upper[nHist:], a.results.Upper)
	fcst[nHist-1] = a.data.Y[nHist-1]

	title := fmt.Sprintf("%s Forecast – Next %d Months", a.opt.Order, a.opt.Horizon)
	level := fmt.Sprintf("%g%% CI", 100.0*(1.0-a.opt.Alpha))
	return chart.NewTimeChart(title, "Date", "Total Cases", t).
		AddLine("History", history, false).
		AddLine("Forecast", fcst, true).
		SetBand(level, lower, upper)
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
