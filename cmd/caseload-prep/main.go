// Command caseload-prep aggregates raw case records into distinct case counts per month and
// writes the monthly series used by caseload-arima.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/aouyang1/go-caseload/calendar"
	"github.com/aouyang1/go-caseload/chart"
	"github.com/aouyang1/go-caseload/config"
	"github.com/aouyang1/go-caseload/monthly"
	"github.com/pkg/profile"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "yaml configuration file")
	profileDir := flag.String("profile", "", "write a cpu profile to this directory")
	simulate := flag.Bool("simulate", false, "generate synthetic raw records when the raw file is absent")
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
	if err := run(cfg, *simulate, logger); err != nil {
		stopProfile()
		logger.Errorw("caseload prep failed", "error", err)
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

func run(cfg *config.Config, simulate bool, logger *zap.SugaredLogger) error {
	if simulate {
		if err := simulateRaw(cfg.Prep.RawPath, logger); err != nil {
			return err
		}
	}

	opt := monthly.NewDefaultCSVOptions()
	opt.DateColumn = cfg.Prep.DateColumn
	opt.CaseIDColumn = cfg.Prep.CaseIDColumn
	if len(cfg.Prep.DateLayouts) > 0 {
		opt.DateLayouts = cfg.Prep.DateLayouts
	}

	records, err := monthly.ReadRecordsFile(cfg.Prep.RawPath, opt)
	if err != nil {
		return err
	}
	logger.Debugw("read raw records", "path", cfg.Prep.RawPath, "records", len(records))

	if blank := monthly.BlankCaseIDs(records); blank > 0 {
		logger.Warnw("records without a case id are not counted", "records", blank)
	}

	counts := monthly.Aggregate(records)
	if missing := monthly.MissingMonths(counts); len(missing) > 0 {
		gaps := make([]string, len(missing))
		for i, m := range missing {
			gaps[i] = m.Format("2006-01")
		}
		logger.Warnw("months without any cases are absent from the output", "months", gaps)
	}

	if err := monthly.WriteCSVFile(cfg.Prep.OutputPath, counts); err != nil {
		return err
	}
	fmt.Printf("Saved monthly caseload data to %s\n", cfg.Prep.OutputPath)

	var cal *calendar.Calendar
	if cfg.Prep.Holidays == "us" {
		cal = calendar.NewUS()
	}
	if err := monthly.TablePrint(os.Stdout, counts, cal); err != nil {
		return fmt.Errorf("unable to print monthly counts, %w", err)
	}

	c, err := monthly.Chart(counts)
	if err != nil {
		return err
	}
	format, err := chart.ParseFormat(cfg.Chart.Format)
	if err != nil {
		return err
	}
	paths, err := chart.Save(format, cfg.Chart.PrepPath, cfg.Chart.PNGDir, "Caseload Preparation", []*chart.Chart{c})
	if err != nil {
		return err
	}
	logger.Infow("saved charts", "paths", paths)
	return nil
}

func simulateRaw(path string, logger *zap.SugaredLogger) error {
	_, err := os.Stat(path)
	if err == nil {
		logger.Infow("raw records exist, skipping simulation", "path", path)
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to check raw records, %w", err)
	}

	records, counts := monthly.GenerateRecords(nil)
	if err := monthly.WriteRecordsFile(path, records); err != nil {
		return err
	}
	logger.Infow("simulated raw records", "path", path, "records", len(records), "months", len(counts))
	return nil
}
