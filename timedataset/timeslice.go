package timedataset

import (
	"time"
)

// TimeSlice is an ascending set of time points
type TimeSlice []time.Time

// StartTime is the first time point or the zero time when empty
func (t TimeSlice) StartTime() time.Time {
	if len(t) == 0 {
		return time.Time{}
	}
	return t[0]
}

// EndTime is the last time point or the zero time when empty
func (t TimeSlice) EndTime() time.Time {
	if len(t) == 0 {
		return time.Time{}
	}
	return t[len(t)-1]
}

// MissingMonths returns the month starts between the first and last time point that no
// element of an ascending slice falls in
func (t TimeSlice) MissingMonths() []time.Time {
	if len(t) < 2 {
		return nil
	}

	var missing []time.Time
	for i := 1; i < len(t); i++ {
		gap := MonthsBetween(t[i-1], t[i])
		for j := 1; j < gap; j++ {
			missing = append(missing, AddMonths(t[i-1], j))
		}
	}
	return missing
}
