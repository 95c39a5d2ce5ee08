package caseload

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoScorePoints  = errors.New("no points where both predicted and actual are defined")
)

type Scores struct {
	MSE  float64 `json:"mse"`  // mean squared error
	MAPE float64 `json:"mape"` // mean absolute percent error
	R2   float64 `json:"r2"`   // coefficient of determination
}

func NewScores(predicted, actual []float64) (*Scores, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute percent error, %w", err)
	}
	r2, err := R2(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r squared, %w", err)
	}
	return &Scores{
		MSE:  mse,
		MAPE: mape,
		R2:   r2,
	}, nil
}

// paired keeps the points where both series are defined
func paired(predicted, actual []float64) ([]float64, []float64, error) {
	if len(predicted) != len(actual) {
		return nil, nil, ErrResLenMismatch
	}
	p := make([]float64, 0, len(actual))
	a := make([]float64, 0, len(actual))
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		p = append(p, predicted[i])
		a = append(a, actual[i])
	}
	if len(a) == 0 {
		return nil, nil, ErrNoScorePoints
	}
	return p, a, nil
}

func MSE(predicted, actual []float64) (float64, error) {
	p, a, err := paired(predicted, actual)
	if err != nil {
		return 0, err
	}

	mse := 0.0
	for i := 0; i < len(a); i++ {
		mse += math.Pow(a[i]-p[i], 2.0)
	}
	mse /= float64(len(a))
	return mse, nil
}

// MAPE skips points with an actual value of zero
func MAPE(predicted, actual []float64) (float64, error) {
	p, a, err := paired(predicted, actual)
	if err != nil {
		return 0, err
	}

	var n int
	mape := 0.0
	for i := 0; i < len(a); i++ {
		if a[i] == 0 {
			continue
		}
		mape += math.Abs((a[i] - p[i]) / a[i])
		n++
	}
	if n == 0 {
		return math.NaN(), nil
	}
	mape /= float64(n)
	return mape, nil
}

func R2(predicted, actual []float64) (float64, error) {
	p, a, err := paired(predicted, actual)
	if err != nil {
		return 0, err
	}
	return stat.RSquaredFrom(p, a, nil), nil
}
