package caseload

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aouyang1/go-caseload/chart"
	"github.com/aouyang1/go-caseload/monthly"
)

func runAnalyzerExample(counts []monthly.Count, dir string) (*Analyzer, error) {
	a, err := New(nil)
	if err != nil {
		return nil, err
	}
	if err := a.FitCounts(counts); err != nil {
		return nil, err
	}
	if err := a.TablePrint(os.Stderr); err != nil {
		return nil, err
	}

	cs, err := a.Charts()
	if err != nil {
		return nil, err
	}
	return a, chart.SaveHTML(filepath.Join(dir, "caseload_arima.html"), "Caseload ARIMA", cs)
}

func Example_analyzer() {
	dir, err := os.MkdirTemp("", "caseload")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	records, _ := monthly.GenerateRecords(nil)
	counts := monthly.Aggregate(records)

	a, err := runAnalyzerExample(counts, dir)
	if err != nil {
		panic(err)
	}
	res, err := a.Results()
	if err != nil {
		panic(err)
	}
	fmt.Println(len(res.T), res.T[0].Format("2006-01"), res.T[len(res.T)-1].Format("2006-01"))
	// Output: 12 2024-01 2024-12
}

func Example_analyzerPNG() {
	dir, err := os.MkdirTemp("", "caseload")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	opt := monthly.NewDefaultGenerateOptions()
	opt.Months = 36
	records, _ := monthly.GenerateRecords(opt)

	a, err := New(nil)
	if err != nil {
		panic(err)
	}
	if err := a.FitCounts(monthly.Aggregate(records)); err != nil {
		panic(err)
	}
	cs, err := a.Charts()
	if err != nil {
		panic(err)
	}
	paths, err := chart.SavePNG(dir, cs)
	if err != nil {
		panic(err)
	}
	for _, p := range paths {
		fmt.Println(filepath.Base(p))
	}
	// Output:
	// monthly_case_load.png
	// acf_of_differenced_series.png
	// pacf_of_differenced_series.png
	// arima_1_1_1_actual_vs_fitted.png
	// arima_1_1_1_forecast_next_12_months.png
}
