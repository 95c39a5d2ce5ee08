package monthly

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/aouyang1/go-caseload/timedataset"
	"github.com/google/uuid"
)

// GenerateOptions shapes a synthetic set of raw records
type GenerateOptions struct {
	Start time.Time
	// Months is the number of calendar months to cover
	Months int
	// BaseCases is the number of distinct cases in the first month
	BaseCases float64
	// Trend is the change in distinct cases per month
	Trend float64
	// Phi and Theta are the AR and MA coefficients of the monthly fluctuation
	Phi   float64
	Theta float64
	Sigma float64
	// MaxRowsPerCase bounds the number of rows repeated for each case within its month
	MaxRowsPerCase int
	Seed           uint64
}

// NewDefaultGenerateOptions returns five years of monthly data starting January 2019
func NewDefaultGenerateOptions() *GenerateOptions {
	return &GenerateOptions{
		Start:          time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		Months:         60,
		BaseCases:      200,
		Trend:          2,
		Phi:            0.5,
		Theta:          0.3,
		Sigma:          4,
		MaxRowsPerCase: 3,
		Seed:           1,
	}
}

// GenerateRecords simulates raw records whose distinct case count per month follows a linear
// trend plus an ARIMA(1,1,1) fluctuation. Every case gets a random uuid and between one and
// MaxRowsPerCase rows on random days of its month. It also returns the distinct count per month.
func GenerateRecords(opt *GenerateOptions) ([]Record, []Count) {
	if opt == nil {
		opt = NewDefaultGenerateOptions()
	}
	rnd := rand.New(rand.NewPCG(opt.Seed, opt.Seed+1))

	months := timedataset.GenerateMonths(opt.Start, opt.Months)
	level := timedataset.GenerateConstY(opt.Months, opt.BaseCases).
		Add(timedataset.GenerateTrendY(opt.Months, opt.Trend)).
		Add(timedataset.GenerateARIMA(opt.Months, opt.Phi, opt.Theta, opt.Sigma, rnd))

	maxRows := max(opt.MaxRowsPerCase, 1)

	var records []Record
	counts := make([]Count, 0, opt.Months)
	for i, month := range months {
		numCases := max(int(math.Round(level[i])), 0)
		days := month.AddDate(0, 1, -1).Day()
		for j := 0; j < numCases; j++ {
			caseID := uuid.NewString()
			for k := 0; k < 1+rnd.IntN(maxRows); k++ {
				date := month.AddDate(0, 0, rnd.IntN(days)).Add(time.Duration(rnd.IntN(86400)) * time.Second)
				records = append(records, Record{CaseID: caseID, Date: date})
			}
		}
		if numCases > 0 {
			counts = append(counts, Count{Month: month, TotalCases: numCases})
		}
	}

	rnd.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
	return records, counts
}

// WriteRecords writes raw records with the default date and case_id header
func WriteRecords(w io.Writer, records []Record) error {
	opt := NewDefaultCSVOptions()
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{opt.CaseIDColumn, opt.DateColumn}); err != nil {
		return fmt.Errorf("unable to write header, %w", err)
	}
	for i, rec := range records {
		if err := writer.Write([]string{rec.CaseID, rec.Date.Format("2006-01-02 15:04:05")}); err != nil {
			return fmt.Errorf("unable to write record %d, %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRecordsFile writes raw records to path, creating any missing parent directories
func WriteRecordsFile(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create raw directory, %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create raw records, %w", err)
	}
	if err := WriteRecords(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
