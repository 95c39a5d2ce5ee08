package monthly

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aouyang1/go-caseload/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestReadRecords(t *testing.T) {
	testData := map[string]struct {
		input    string
		opt      *CSVOptions
		expected []Record
		err      error
	}{
		"empty input": {
			input: "",
			err:   ErrEmptyInput,
		},
		"missing date column": {
			input: "case_id,opened\nA,2024-01-05\n",
			err:   ErrMissingColumn,
		},
		"invalid date": {
			input: "case_id,date\nA,2024-01-05\nB,not a date\n",
			err:   ErrInvalidDate,
		},
		"empty case id is kept blank": {
			input: "case_id,date\nA,2024-01-05\n ,2024-01-06\nB,2024-02-01\n",
			expected: []Record{
				{CaseID: "A", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
				{CaseID: "", Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)},
				{CaseID: "B", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
			},
		},
		"mixed layouts and extra columns": {
			input: "date,status,case_id\n2024-01-05,open,A\n2024-01-20 08:30:00,closed,A\n01/15/2024,open,B\n2024-02,open,C\n",
			expected: []Record{
				{CaseID: "A", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
				{CaseID: "A", Date: time.Date(2024, 1, 20, 8, 30, 0, 0, time.UTC)},
				{CaseID: "B", Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
				{CaseID: "C", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
			},
		},
		"custom columns and delimiter": {
			input: "id;opened\nX;2024/03/04\n",
			opt:   &CSVOptions{DateColumn: "opened", CaseIDColumn: "id", Comma: ';'},
			expected: []Record{
				{CaseID: "X", Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := ReadRecords(strings.NewReader(td.input), td.opt)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestAggregate(t *testing.T) {
	testData := map[string]struct {
		records  []Record
		expected []Count
	}{
		"no records": {
			expected: []Count{},
		},
		"distinct ids per month": {
			records: []Record{
				{CaseID: "A", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
				{CaseID: "A", Date: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
				{CaseID: "B", Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
				{CaseID: "C", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
			},
			expected: []Count{
				{Month: month(2024, time.January), TotalCases: 2},
				{Month: month(2024, time.February), TotalCases: 1},
			},
		},
		"same id in two months counts in both": {
			records: []Record{
				{CaseID: "A", Date: time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)},
				{CaseID: "A", Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
			},
			expected: []Count{
				{Month: month(2024, time.March), TotalCases: 1},
				{Month: month(2024, time.April), TotalCases: 1},
			},
		},
		"blank ids are not counted": {
			records: []Record{
				{CaseID: "A", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
				{CaseID: "", Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)},
				{CaseID: "B", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
				{CaseID: "", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
			},
			expected: []Count{
				{Month: month(2024, time.January), TotalCases: 1},
				{Month: month(2024, time.February), TotalCases: 1},
				{Month: month(2024, time.March), TotalCases: 0},
			},
		},
		"unordered input with a gap": {
			records: []Record{
				{CaseID: "C", Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
				{CaseID: "B", Date: time.Date(2023, 12, 9, 0, 0, 0, 0, time.UTC)},
				{CaseID: "A", Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
			},
			expected: []Count{
				{Month: month(2023, time.December), TotalCases: 1},
				{Month: month(2024, time.March), TotalCases: 2},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := Aggregate(td.records)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestMissingMonths(t *testing.T) {
	counts := []Count{
		{Month: month(2023, time.December), TotalCases: 1},
		{Month: month(2024, time.March), TotalCases: 2},
	}
	assert.Equal(t, []time.Time{month(2024, time.January), month(2024, time.February)}, MissingMonths(counts))
	assert.Nil(t, MissingMonths(counts[:1]))
}

func TestBlankCaseIDs(t *testing.T) {
	records, err := ReadRecords(strings.NewReader("case_id,date\nA,2024-01-05\n,2024-01-06\n  ,2024-02-01\n"), nil)
	require.Nil(t, err)
	assert.Equal(t, 2, BlankCaseIDs(records))
	assert.Equal(t, 0, BlankCaseIDs(records[:1]))
}

func TestSortByMonth(t *testing.T) {
	counts := []Count{
		{Month: month(2024, time.March), TotalCases: 3},
		{Month: month(2023, time.December), TotalCases: 1},
		{Month: month(2024, time.January), TotalCases: 2},
	}
	res := SortByMonth(counts)
	assert.Equal(t, []time.Time{
		month(2023, time.December),
		month(2024, time.January),
		month(2024, time.March),
	}, Months(res))
	assert.Equal(t, month(2024, time.March), counts[0].Month)
}

func TestCSVRoundTrip(t *testing.T) {
	counts := []Count{
		{Month: month(2023, time.December), TotalCases: 7},
		{Month: month(2024, time.January), TotalCases: 2},
		{Month: month(2024, time.February), TotalCases: 1},
	}

	var buf bytes.Buffer
	require.Nil(t, WriteCSV(&buf, counts))
	assert.Equal(t, "year_month,total_cases\n2023-12-01,7\n2024-01-01,2\n2024-02-01,1\n", buf.String())

	res, err := ReadCSV(&buf)
	require.Nil(t, err)
	assert.Equal(t, counts, res)
}

func TestReadCSVErrors(t *testing.T) {
	testData := map[string]struct {
		input string
		err   error
	}{
		"empty": {
			input: "",
			err:   ErrEmptyInput,
		},
		"wrong header": {
			input: "month,total\n2024-01-01,1\n",
			err:   ErrMissingColumn,
		},
		"bad total": {
			input: "year_month,total_cases\n2024-01-01,many\n",
			err:   ErrInvalidRow,
		},
		"bad month": {
			input: "year_month,total_cases\nJan 2024,1\n",
			err:   ErrInvalidDate,
		},
		"short row": {
			input: "year_month,total_cases\n2024-01-01\n",
			err:   ErrInvalidRow,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(td.input))
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rawPath := filepath.Join(dir, "raw", "caseload_raw.csv")
	outPath := filepath.Join(dir, "processed", "caseload_monthly.csv")

	opt := NewDefaultGenerateOptions()
	opt.Months = 6
	opt.BaseCases = 20
	opt.Sigma = 1
	records, expected := GenerateRecords(opt)
	require.NotEmpty(t, records)
	require.Nil(t, WriteRecordsFile(rawPath, records))

	read, err := ReadRecordsFile(rawPath, nil)
	require.Nil(t, err)
	require.Len(t, read, len(records))

	counts := Aggregate(read)
	assert.Equal(t, expected, counts)

	require.Nil(t, WriteCSVFile(outPath, counts))
	_, err = os.Stat(outPath)
	require.Nil(t, err)

	res, err := ReadCSVFile(outPath)
	require.Nil(t, err)
	assert.Equal(t, counts, res)

	_, err = ReadCSVFile(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTablePrint(t *testing.T) {
	counts := []Count{
		{Month: month(2024, time.January), TotalCases: 46},
	}

	var buf bytes.Buffer
	require.Nil(t, TablePrint(&buf, counts, nil))
	assert.Equal(t, "   Month Total Cases\n 2024-01          46\n", buf.String())

	buf.Reset()
	require.Nil(t, TablePrint(&buf, counts, calendar.New()))
	assert.Equal(t,
		"   Month Total Cases Holidays Workdays Per Workday\n"+
			" 2024-01          46        0       23        2.00\n",
		buf.String(),
	)

	// new year's day and martin luther king jr. day
	buf.Reset()
	require.Nil(t, TablePrint(&buf, counts, calendar.NewUS()))
	assert.Equal(t,
		"   Month Total Cases Holidays Workdays Per Workday\n"+
			" 2024-01          46        2       21        2.19\n",
		buf.String(),
	)
}

func TestChart(t *testing.T) {
	counts := []Count{
		{Month: month(2024, time.January), TotalCases: 2},
		{Month: month(2024, time.March), TotalCases: 5},
	}

	c, err := Chart(counts)
	require.Nil(t, err)
	require.Nil(t, c.Validate())
	assert.Equal(t, "Monthly Caseload", c.Title)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, c.Labels())
	require.Len(t, c.Series, 1)
	assert.Equal(t, 2.0, c.Series[0].Values[0])
	assert.True(t, math.IsNaN(c.Series[0].Values[1]))
	assert.Equal(t, 5.0, c.Series[0].Values[2])

	_, err = Chart(nil)
	assert.NotNil(t, err)
}
