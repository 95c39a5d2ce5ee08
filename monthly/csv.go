package monthly

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aouyang1/go-caseload/timedataset"
)

const (
	MonthColumn = "year_month"
	TotalColumn = "total_cases"
	MonthLayout = "2006-01-02"
)

var ErrInvalidRow = errors.New("invalid monthly row")

// WriteCSV writes the counts with a year_month,total_cases header
func WriteCSV(w io.Writer, counts []Count) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{MonthColumn, TotalColumn}); err != nil {
		return fmt.Errorf("unable to write header, %w", err)
	}
	for _, c := range counts {
		row := []string{c.Month.Format(MonthLayout), strconv.Itoa(c.TotalCases)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("unable to write %s, %w", row[0], err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes the counts to path, creating any missing parent directories
func WriteCSVFile(path string, counts []Count) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create output directory, %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create monthly output, %w", err)
	}
	if err := WriteCSV(f, counts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV reads a series written by WriteCSV
func ReadCSV(r io.Reader) ([]Count, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read header, %w", err)
	}
	monthIdx, err := columnIndex(header, MonthColumn)
	if err != nil {
		return nil, err
	}
	totalIdx, err := columnIndex(header, TotalColumn)
	if err != nil {
		return nil, err
	}

	var counts []Count
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read row %d, %w", row, err)
		}
		if len(fields) <= max(monthIdx, totalIdx) {
			return nil, fmt.Errorf("row %d has %d fields, %w", row, len(fields), ErrInvalidRow)
		}

		month, err := ParseDate(fields[monthIdx], []string{MonthLayout, "2006-01", time.RFC3339})
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", row, err)
		}
		total, err := strconv.Atoi(fields[totalIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d total %q, %w", row, fields[totalIdx], ErrInvalidRow)
		}
		counts = append(counts, Count{Month: timedataset.MonthStart(month), TotalCases: total})
	}
	return counts, nil
}

// ReadCSVFile opens path and parses it with ReadCSV
func ReadCSVFile(path string) ([]Count, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open monthly series, %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}
