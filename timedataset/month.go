package timedataset

import "time"

// MonthStart returns midnight UTC on the first day of the calendar month t falls in. The month
// is taken from the wall clock of t so a record stamped late on the last day of a month in a
// negative offset stays in that month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// IsMonthStart reports whether t is already midnight UTC on the first day of a month
func IsMonthStart(t time.Time) bool {
	return t.Equal(MonthStart(t))
}

// AddMonths shifts the month start of t by n months
func AddMonths(t time.Time, n int) time.Time {
	return MonthStart(t).AddDate(0, n, 0)
}

// MonthsBetween returns the number of calendar months from the month of a to the month of b
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// NextMonths returns the n month starts strictly following the month of last
func NextMonths(last time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	return GenerateMonths(AddMonths(last, 1), n)
}
