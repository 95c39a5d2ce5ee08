package monthly

import (
	"slices"
	"time"

	"github.com/aouyang1/go-caseload/timedataset"
)

// Count is the number of distinct case ids observed in a calendar month
type Count struct {
	Month      time.Time `json:"month"`
	TotalCases int       `json:"total_cases"`
}

// Aggregate buckets records by the month start of their date and counts the distinct case ids
// in each bucket. The result is ordered by month and contains only months with at least one
// record. Blank case ids are not counted, so a month holding only blank ids has a total of zero.
func Aggregate(records []Record) []Count {
	buckets := make(map[time.Time]map[string]struct{})
	for _, rec := range records {
		month := timedataset.MonthStart(rec.Date)
		ids, exists := buckets[month]
		if !exists {
			ids = make(map[string]struct{})
			buckets[month] = ids
		}
		if rec.CaseID != "" {
			ids[rec.CaseID] = struct{}{}
		}
	}

	counts := make([]Count, 0, len(buckets))
	for month, ids := range buckets {
		counts = append(counts, Count{Month: month, TotalCases: len(ids)})
	}
	sortByMonth(counts)
	return counts
}

// SortByMonth returns a copy of the counts ordered by month. Counts sharing a month keep their
// relative order.
func SortByMonth(counts []Count) []Count {
	sorted := slices.Clone(counts)
	sortByMonth(sorted)
	return sorted
}

func sortByMonth(counts []Count) {
	slices.SortStableFunc(counts, func(a, b Count) int {
		return a.Month.Compare(b.Month)
	})
}

// BlankCaseIDs returns the number of records without a case id
func BlankCaseIDs(records []Record) int {
	var n int
	for _, rec := range records {
		if rec.CaseID == "" {
			n++
		}
	}
	return n
}

// Months returns the month of every count
func Months(counts []Count) []time.Time {
	t := make([]time.Time, len(counts))
	for i, c := range counts {
		t[i] = c.Month
	}
	return t
}

// Values returns the totals of every count as floats
func Values(counts []Count) []float64 {
	y := make([]float64, len(counts))
	for i, c := range counts {
		y[i] = float64(c.TotalCases)
	}
	return y
}

// MissingMonths reports the months between the first and last count that have no count
func MissingMonths(counts []Count) []time.Time {
	return timedataset.TimeSlice(Months(counts)).MissingMonths()
}
