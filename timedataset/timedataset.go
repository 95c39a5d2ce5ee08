package timedataset

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMonotonic       = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrNotMonthStart      = errors.New("time is not the start of a month")
	ErrDuplicateMonth     = errors.New("month appears more than once")
)

// TimeDataset represents a time series storing a slice of time points and values.
// Both must be of the same length. Missing observations are stored as NaN.
type TimeDataset struct {
	T []time.Time
	Y []float64
}

// NewUnivariateDataset returns an instance of a TimeDataset given a time and value slice.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	var lastT time.Time
	for i := 0; i < len(t); i++ {
		currT := t[i]
		if i > 0 && !currT.After(lastT) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
		lastT = currT
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	td := &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}

	return td, nil
}

// AsMonthly places the observations on a contiguous month start grid spanning the first to the
// last time point. Months without an observation are NaN. Every time point must already be the
// start of a month.
func AsMonthly(t []time.Time, y []float64) (*TimeDataset, error) {
	for i, currT := range t {
		if !IsMonthStart(currT) {
			return nil, fmt.Errorf("%s at %d, %w", currT.Format(time.RFC3339), i, ErrNotMonthStart)
		}
		if i > 0 && currT.Equal(t[i-1]) {
			return nil, fmt.Errorf("%s at %d, %w", currT.Format("2006-01"), i, ErrDuplicateMonth)
		}
	}
	obs, err := NewUnivariateDataset(t, y)
	if err != nil {
		return nil, err
	}

	start := TimeSlice(obs.T).StartTime()
	n := MonthsBetween(start, TimeSlice(obs.T).EndTime()) + 1

	monthly := &TimeDataset{
		T: GenerateMonths(start, n),
		Y: make([]float64, n),
	}
	for i := range monthly.Y {
		monthly.Y[i] = math.NaN()
	}
	for i, currT := range obs.T {
		monthly.Y[MonthsBetween(start, currT)] = obs.Y[i]
	}
	return monthly, nil
}

// Copy returns a deep copy of the dataset
func (td *TimeDataset) Copy() *TimeDataset {
	if td == nil {
		return nil
	}
	return &TimeDataset{
		T: append([]time.Time(nil), td.T...),
		Y: append([]float64(nil), td.Y...),
	}
}

// Missing returns the time points holding a NaN observation
func (td *TimeDataset) Missing() []time.Time {
	if td == nil {
		return nil
	}
	var missing []time.Time
	for i, val := range td.Y {
		if math.IsNaN(val) {
			missing = append(missing, td.T[i])
		}
	}
	return missing
}
