package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrInsufficientData = errors.New("insufficient data points")
	ErrConstantSeries   = errors.New("series is constant")
	ErrTooManyLags      = errors.New("number of lags too large for series length")
	ErrInvalidLag       = errors.New("lag must be positive")
)

// DetectOutliers returns the indices of y lying outside the Tukey fences computed from the
// lower and upper percentiles. NaN values are ignored and never flagged.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := DropNaN(y)
	if len(yCopy) == 0 {
		return nil
	}
	sort.Float64s(yCopy)
	lowerIdx := int(math.Floor(float64(len(yCopy)) * lowerPerc))
	upperIdx := int(math.Ceil(float64(len(yCopy)) * upperPerc))
	if upperIdx > len(yCopy)-1 {
		upperIdx = len(yCopy) - 1
	}
	if lowerIdx > upperIdx {
		lowerIdx = upperIdx
	}

	lower := yCopy[lowerIdx]
	upper := yCopy[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if math.IsNaN(y[i]) {
			continue
		}
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

// DropNaN returns a copy of y without NaN values
func DropNaN(y []float64) []float64 {
	out := make([]float64, 0, len(y))
	for _, v := range y {
		if math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func isConstant(y []float64) bool {
	if len(y) == 0 {
		return true
	}
	return floats.Max(y) == floats.Min(y)
}
