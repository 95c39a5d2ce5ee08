package models

import (
	"math/rand/v2"
	"testing"

	mat_ "github.com/aouyang1/go-caseload/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testModel(t *testing.T, model Model, x, y mat.Matrix, intercept float64, coef []float64, tol float64) {
	err := model.Fit(x, y)
	require.Nil(t, err)

	assert.InDelta(t, intercept, model.Intercept(), tol)

	c := model.Coef()
	assert.InDeltaSlice(t, coef, c, tol)

	r2, err := model.Score(x, y)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, r2, tol)
}

// generateLaggedDesign regresses each point of an AR(1) series on its previous lags points
func generateLaggedDesign(nObs, lags int) (mat.Matrix, mat.Matrix, error) {
	rnd := rand.New(rand.NewPCG(1, 2))
	series := make([]float64, nObs+lags)
	for i := 1; i < len(series); i++ {
		series[i] = 0.6*series[i-1] + rnd.NormFloat64()
	}

	rows, err := mat_.Lagged(series, lags)
	if err != nil {
		return nil, nil, err
	}
	target := make([]float64, len(rows))
	design := make([][]float64, len(rows))
	for i, row := range rows {
		target[i] = row[0]
		design[i] = row[1:]
	}

	x, err := mat_.NewDenseFromArray(design)
	if err != nil {
		return nil, nil, err
	}
	return x, mat.NewDense(len(target), 1, target), nil
}
