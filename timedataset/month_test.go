package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthStart(t *testing.T) {
	testData := map[string]struct {
		t        time.Time
		expected time.Time
	}{
		"mid month": {
			t:        time.Date(2024, 1, 20, 13, 45, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		"already month start": {
			t:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		"wall clock month in offset zone": {
			t:        time.Date(2024, 1, 31, 23, 0, 0, 0, time.FixedZone("EST", -5*3600)),
			expected: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, MonthStart(td.t))
		})
	}
}

func TestMonthArithmetic(t *testing.T) {
	jan := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), AddMonths(jan, 1))
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), AddMonths(jan, -1))

	assert.Equal(t, 13, MonthsBetween(
		time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	))

	assert.True(t, IsMonthStart(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsMonthStart(time.Date(2024, 3, 1, 0, 0, 1, 0, time.UTC)))
}

func TestNextMonths(t *testing.T) {
	res := NextMonths(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), 12)
	assert.Len(t, res, 12)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), res[0])
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), res[11])

	assert.Nil(t, NextMonths(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), 0))
}
