// Command caseload-arima tests the monthly caseload series for a unit root, fits an ARIMA model
// and forecasts the following months.
package main

import (
	"flag"
	"fmt"
	"os"

	caseload "github.com/aouyang1/go-caseload"
	"github.com/aouyang1/go-caseload/arima"
	"github.com/aouyang1/go-caseload/chart"
	"github.com/aouyang1/go-caseload/config"
	"github.com/aouyang1/go-caseload/monthly"
	"github.com/pkg/profile"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "yaml configuration file")
	profileDir := flag.String("profile", "", "write a cpu profile to this directory")
	asJSON := flag.Bool("json", false, "write the analysis report as json to stdout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to load config, %v\n", err)
		os.Exit(1)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to create logger, %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	stopProfile := startProfile(*profileDir)
	if err := run(cfg, *asJSON, logger); err != nil {
		stopProfile()
		logger.Errorw("caseload arima failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
	stopProfile()
}

// startProfile writes a cpu profile to dir until the returned function is called. An empty dir
// disables profiling.
func startProfile(dir string) func() {
	if dir == "" {
		return func() {}
	}
	return profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet).Stop
}

func analyzerOptions(cfg *config.Config) *caseload.Options {
	opt := caseload.NewDefaultOptions()
	opt.Order = cfg.ARIMA.ModelOrder()
	opt.Lags = cfg.ARIMA.Lags
	opt.Horizon = cfg.ARIMA.Horizon
	opt.Alpha = cfg.ARIMA.Alpha

	opt.ModelOptions = arima.NewDefaultOptions()
	opt.ModelOptions.Name = opt.Name
	opt.ModelOptions.MaxIterations = cfg.ARIMA.MaxIterations
	opt.ModelOptions.Alpha = cfg.ARIMA.Alpha
	return opt
}

func run(cfg *config.Config, asJSON bool, logger *zap.SugaredLogger) error {
	counts, err := monthly.ReadCSVFile(cfg.ARIMA.InputPath)
	if err != nil {
		return err
	}
	logger.Debugw("read monthly series", "path", cfg.ARIMA.InputPath, "months", len(counts))

	a, err := caseload.New(analyzerOptions(cfg))
	if err != nil {
		return err
	}
	fitErr := a.FitCounts(counts)
	for _, w := range a.Warnings() {
		logger.Warn(w)
	}
	if fitErr != nil {
		return fitErr
	}
	if outliers := a.Outliers(); len(outliers) > 0 {
		logger.Infow("residual outliers", "count", len(outliers))
	}

	if asJSON {
		r, err := a.Report()
		if err != nil {
			return err
		}
		if err := r.WriteJSON(os.Stdout); err != nil {
			return err
		}
	} else if err := a.TablePrint(os.Stdout); err != nil {
		return fmt.Errorf("unable to print analysis, %w", err)
	}

	cs, err := a.Charts()
	if err != nil {
		return err
	}
	format, err := chart.ParseFormat(cfg.Chart.Format)
	if err != nil {
		return err
	}
	paths, err := chart.Save(format, cfg.Chart.ARIMAPath, cfg.Chart.PNGDir, "Caseload ARIMA", cs)
	if err != nil {
		return err
	}
	logger.Infow("saved charts", "paths", paths)
	return nil
}
