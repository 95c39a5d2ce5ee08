// Package calendar counts business days per month so monthly case totals can be compared across
// months of different length.
package calendar

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// Holiday is the observed date of a named holiday
type Holiday struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// Calendar is a Monday through Friday business calendar with a set of observed holidays
type Calendar struct {
	bc   *cal.BusinessCalendar
	hols []*cal.Holiday
}

// New returns a calendar observing the given holidays
func New(hols ...*cal.Holiday) *Calendar {
	bc := cal.NewBusinessCalendar()
	bc.AddHoliday(hols...)
	return &Calendar{
		bc:   bc,
		hols: hols,
	}
}

// NewUS returns a calendar observing the US federal holidays
func NewUS() *Calendar {
	return New(us.Holidays...)
}

// IsWorkday reports whether the calendar day of t is a business day
func (c *Calendar) IsWorkday(t time.Time) bool {
	return c.bc.IsWorkday(dayStart(t))
}

// Workdays returns the number of business days in the month of t
func (c *Calendar) Workdays(month time.Time) int {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var n int
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		if c.IsWorkday(day) {
			n++
		}
	}
	return n
}

// Holidays returns the holidays observed within the month of t ordered by date
func (c *Calendar) Holidays(month time.Time) []Holiday {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return observedBetween(c.hols, start, end)
}

// observedBetween returns the observed holidays falling in [start, end). Observed dates that
// spill into the neighbouring year, such as New Year's Day on a Saturday, are found by also
// checking the year before and after.
func observedBetween(hols []*cal.Holiday, start, end time.Time) []Holiday {
	holidays := []Holiday{}
	for year := start.Year() - 1; year <= end.Year()+1; year++ {
		for _, hol := range hols {
			_, observed := hol.Calc(year)
			if observed.IsZero() {
				continue
			}
			observed = dayStart(observed)
			if observed.Before(start) || !observed.Before(end) {
				continue
			}
			holidays = append(holidays, Holiday{
				Name: strings.ReplaceAll(fmt.Sprintf("%s_%d", hol.Name, year), " ", "_"),
				Date: observed,
			})
		}
	}
	slices.SortFunc(holidays, func(a, b Holiday) int {
		return a.Date.Compare(b.Date)
	})
	return holidays
}

// dayStart keeps the calendar date of t at midnight UTC
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
