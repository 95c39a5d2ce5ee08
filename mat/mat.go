package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrColMismatch  = errors.New("column size mismatch")
	ErrNegativeLags = errors.New("negative number of lags not allowed")
	ErrTooManyLags  = errors.New("number of lags exceeds series length")
)

// NewDenseFromArray converts a row major slice of slices into a dense matrix. Every row must
// have the same number of columns.
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if n <= 0 {
		return nil, fmt.Errorf("no columns in array, %w", ErrColMismatch)
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// Lagged builds the lag matrix of x trimmed on both ends. Row i holds
// x[t], x[t-1], ..., x[t-lags] with t = i+lags, so the result has len(x)-lags rows and
// lags+1 columns.
func Lagged(x []float64, lags int) ([][]float64, error) {
	if lags < 0 {
		return nil, ErrNegativeLags
	}
	if lags >= len(x) {
		return nil, fmt.Errorf("%d lags for %d points, %w", lags, len(x), ErrTooManyLags)
	}

	rows := make([][]float64, 0, len(x)-lags)
	for t := lags; t < len(x); t++ {
		row := make([]float64, lags+1)
		for j := 0; j <= lags; j++ {
			row[j] = x[t-j]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
