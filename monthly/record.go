// Package monthly turns raw per case records into a series of distinct case counts per calendar
// month and reads and writes that series as CSV.
package monthly

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

var (
	ErrMissingColumn = errors.New("column not found in header")
	ErrInvalidDate   = errors.New("unable to parse date")
	ErrEmptyInput    = errors.New("no header row in input")
)

// DefaultDateLayouts are tried in order when parsing the date column
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"2006-01",
}

// Record is a single raw row. The same case id may appear on many rows.
type Record struct {
	CaseID string
	Date   time.Time
}

// CSVOptions describes the layout of the raw record file
type CSVOptions struct {
	DateColumn   string
	CaseIDColumn string
	DateLayouts  []string
	Comma        rune
}

// NewDefaultCSVOptions returns options for a comma separated file with date and case_id columns
func NewDefaultCSVOptions() *CSVOptions {
	layouts := make([]string, len(DefaultDateLayouts))
	copy(layouts, DefaultDateLayouts)
	return &CSVOptions{
		DateColumn:   "date",
		CaseIDColumn: "case_id",
		DateLayouts:  layouts,
		Comma:        ',',
	}
}

func (o *CSVOptions) applyDefaults() {
	def := NewDefaultCSVOptions()
	if o.DateColumn == "" {
		o.DateColumn = def.DateColumn
	}
	if o.CaseIDColumn == "" {
		o.CaseIDColumn = def.CaseIDColumn
	}
	if len(o.DateLayouts) == 0 {
		o.DateLayouts = def.DateLayouts
	}
	if o.Comma == 0 {
		o.Comma = def.Comma
	}
}

// ParseDate tries each layout in turn and returns the first successful parse
func ParseDate(val string, layouts []string) (time.Time, error) {
	val = strings.TrimSpace(val)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q, %w", val, ErrInvalidDate)
}

// ReadRecords parses raw records from delimited text with a header row. Any row with an
// unparseable date fails the whole read. Rows with an empty case id are kept with a blank
// CaseID and are not counted by Aggregate.
func ReadRecords(r io.Reader, opt *CSVOptions) ([]Record, error) {
	if opt == nil {
		opt = NewDefaultCSVOptions()
	}
	opt.applyDefaults()

	reader := csv.NewReader(r)
	reader.Comma = opt.Comma
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read header, %w", err)
	}

	dateIdx, err := columnIndex(header, opt.DateColumn)
	if err != nil {
		return nil, err
	}
	idIdx, err := columnIndex(header, opt.CaseIDColumn)
	if err != nil {
		return nil, err
	}

	var records []Record
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read row %d, %w", row, err)
		}

		date, err := ParseDate(fields[dateIdx], opt.DateLayouts)
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", row, err)
		}
		records = append(records, Record{CaseID: strings.TrimSpace(fields[idIdx]), Date: date})
	}
	return records, nil
}

// ReadRecordsFile opens path and parses it with ReadRecords
func ReadRecordsFile(path string, opt *CSVOptions) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open raw records, %w", err)
	}
	defer f.Close()

	return ReadRecords(f, opt)
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%q, %w", name, ErrMissingColumn)
}
