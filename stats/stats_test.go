package stats

import (
	"bytes"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whiteNoise(n int, seed uint64) []float64 {
	rnd := rand.New(rand.NewPCG(seed, seed+1))
	y := make([]float64, n)
	for i := range y {
		y[i] = rnd.NormFloat64()
	}
	return y
}

func TestDetectOutliers(t *testing.T) {
	testData := map[string]struct {
		y        []float64
		expected []int
	}{
		"empty": {
			y: nil,
		},
		"no outliers": {
			y: []float64{1, 2, 3, 4, 5, 6, 7, 8},
		},
		"single outlier with missing value": {
			y:        []float64{1, 2, 3, 4, 5, 6, 7, 100, math.NaN()},
			expected: []int{7},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := DetectOutliers(td.y, 0.25, 0.75, 1.5)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestDiff(t *testing.T) {
	testData := map[string]struct {
		y        []float64
		lag      int
		expected []float64
		err      error
	}{
		"invalid lag": {
			y:   []float64{1, 2},
			lag: 0,
			err: ErrInvalidLag,
		},
		"too short": {
			y:        []float64{1},
			lag:      1,
			expected: []float64{},
		},
		"first difference": {
			y:        []float64{1, 4, 9, 16},
			lag:      1,
			expected: []float64{3, 5, 7},
		},
		"seasonal difference": {
			y:        []float64{1, 4, 9, 16},
			lag:      2,
			expected: []float64{8, 12},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := Diff(td.y, td.lag)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestDiffNaNPropagates(t *testing.T) {
	res, err := Diff([]float64{1, math.NaN(), 3, 4}, 1)
	require.Nil(t, err)
	require.Len(t, res, 3)
	assert.True(t, math.IsNaN(res[0]))
	assert.True(t, math.IsNaN(res[1]))
	assert.Equal(t, 1.0, res[2])

	assert.Equal(t, []float64{1, 3, 4}, DropNaN([]float64{1, math.NaN(), 3, 4}))
}

func TestDiffN(t *testing.T) {
	res, err := DiffN([]float64{1, 4, 9, 16, 25}, 2)
	require.Nil(t, err)
	assert.Equal(t, []float64{2, 2, 2}, res)

	res, err = DiffN([]float64{1, 4}, 0)
	require.Nil(t, err)
	assert.Equal(t, []float64{1, 4}, res)
}

func TestMacKinnon(t *testing.T) {
	assert.InDelta(t, 0.0502, MacKinnonP(-2.86), 1e-3)
	assert.InDelta(t, 0.9585, MacKinnonP(0.0), 1e-3)
	assert.Equal(t, 1.0, MacKinnonP(3.0))
	assert.Equal(t, 0.0, MacKinnonP(-20.0))

	crit := MacKinnonCrit(100)
	assert.InDelta(t, -3.4975, crit["1%"], 1e-4)
	assert.InDelta(t, -2.8909, crit["5%"], 1e-4)
	assert.InDelta(t, -2.5824, crit["10%"], 1e-4)
}

func TestADF(t *testing.T) {
	t.Run("white noise is stationary", func(t *testing.T) {
		res, err := ADF(whiteNoise(200, 7), nil)
		require.Nil(t, err)
		assert.Less(t, res.PValue, 0.01)
		assert.Less(t, res.Statistic, res.CriticalValues["1%"])
		assert.True(t, res.Stationary(0.05))
		assert.GreaterOrEqual(t, res.UsedLag, 0)
		assert.LessOrEqual(t, res.UsedLag, 15)
		assert.Equal(t, 200-1-res.UsedLag, res.NObs)
		// the lagged level explains about half the variance of the differences
		assert.Greater(t, res.RSquared, 0.3)
		assert.Less(t, res.RSquared, 1.0)
	})

	t.Run("exponential growth is not stationary", func(t *testing.T) {
		noise := whiteNoise(120, 11)
		y := make([]float64, len(noise))
		for i := range y {
			y[i] = 100.0*math.Pow(1.03, float64(i)) + noise[i]
		}
		res, err := ADF(y, &ADFOptions{MaxLag: 0, AutoLag: false})
		require.Nil(t, err)
		assert.Greater(t, res.Statistic, 0.0)
		assert.Greater(t, res.PValue, 0.5)
		assert.False(t, res.Stationary(0.05))
	})

	t.Run("fixed lag ignores missing values", func(t *testing.T) {
		y := whiteNoise(100, 3)
		y[10] = math.NaN()
		res, err := ADF(y, &ADFOptions{MaxLag: 2, AutoLag: false})
		require.Nil(t, err)
		assert.Equal(t, 2, res.UsedLag)
		assert.Equal(t, 99-1-2, res.NObs)
		assert.True(t, math.IsNaN(res.ICBest))
	})
}

func TestADFErrors(t *testing.T) {
	testData := map[string]struct {
		y   []float64
		opt *ADFOptions
		err error
	}{
		"too short": {
			y:   []float64{1, 2, 3},
			err: ErrInsufficientData,
		},
		"only missing values": {
			y:   []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()},
			err: ErrInsufficientData,
		},
		"constant": {
			y:   []float64{2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
			err: ErrConstantSeries,
		},
		"max lag too large": {
			y:   whiteNoise(20, 1),
			opt: &ADFOptions{MaxLag: 15},
			err: ErrInsufficientData,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := ADF(td.y, td.opt)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestADFTablePrint(t *testing.T) {
	res := &ADFResult{
		Statistic: -1.23456,
		PValue:    0.65432,
		CriticalValues: map[string]float64{
			"1%":  -3.5,
			"5%":  -2.89,
			"10%": -2.58,
		},
	}
	var buf bytes.Buffer
	require.Nil(t, res.TablePrint(&buf, "total_cases"))

	expected := `ADF test for total_cases
  Test statistic: -1.2346
  p-value:        0.6543
  Critical value (1%): -3.5000
  Critical value (5%): -2.8900
  Critical value (10%): -2.5800
----------------------------------------
`
	assert.Equal(t, expected, buf.String())
}

func TestACF(t *testing.T) {
	res, err := ACF([]float64{1, 2, 3, 4, 5}, 3, 0.05)
	require.Nil(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, res.Lags)
	assert.InDeltaSlice(t, []float64{1, 0.4, -0.1, -0.4}, res.Values, 1e-9)
	assert.InDeltaSlice(t, []float64{0, 0.876523, 1.007046, 1.014648}, res.Bound, 1e-5)
	assert.Equal(t, 5, res.NObs)
	assert.Empty(t, res.Significant())
}

func TestACFWhiteNoise(t *testing.T) {
	res, err := ACF(whiteNoise(500, 5), 24, 0.05)
	require.Nil(t, err)
	assert.Len(t, res.Values, 25)

	// roughly 5% of lags may leave the band by chance
	assert.LessOrEqual(t, len(res.Significant()), 5)
}

func TestPACF(t *testing.T) {
	res, err := PACF([]float64{1, 2, 3, 4, 5}, 2, 0.05)
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{1, 0.4, -0.309524}, res.Values, 1e-6)
	assert.InDeltaSlice(t, []float64{0, 0.876523, 0.876523}, res.Bound, 1e-5)
}

func TestPACFAR1(t *testing.T) {
	noise := whiteNoise(1000, 9)
	y := make([]float64, len(noise))
	for i := 1; i < len(y); i++ {
		y[i] = 0.7*y[i-1] + noise[i]
	}
	res, err := PACF(y, 5, 0.05)
	require.Nil(t, err)
	assert.InDelta(t, 0.7, res.Values[1], 0.08)
	for k := 2; k <= 5; k++ {
		assert.InDelta(t, 0.0, res.Values[k], 0.12)
	}
}

func TestCorrelogramErrors(t *testing.T) {
	testData := map[string]struct {
		fn    func([]float64, int, float64) (*Correlogram, error)
		y     []float64
		nlags int
		err   error
	}{
		"acf invalid lag": {
			fn: ACF, y: []float64{1, 2, 3}, nlags: 0, err: ErrInvalidLag,
		},
		"acf too many lags": {
			fn: ACF, y: []float64{1, 2, 3, 4, 5}, nlags: 5, err: ErrTooManyLags,
		},
		"acf constant": {
			fn: ACF, y: []float64{1, 1, 1}, nlags: 1, err: ErrConstantSeries,
		},
		"pacf more than half": {
			fn: PACF, y: []float64{1, 2, 3, 4, 5}, nlags: 3, err: ErrTooManyLags,
		},
		"pacf insufficient": {
			fn: PACF, y: []float64{1, math.NaN()}, nlags: 1, err: ErrInsufficientData,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := td.fn(td.y, td.nlags, 0.05)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestLjungBox(t *testing.T) {
	res, err := LjungBox([]float64{1, 2, 3, 4, 5}, 1)
	require.Nil(t, err)
	assert.InDelta(t, 1.4, res.Statistic, 1e-9)
	assert.InDelta(t, 0.23672, res.PValue, 1e-4)

	_, err = LjungBox([]float64{1, 2}, 2)
	assert.ErrorIs(t, err, ErrTooManyLags)
}

func TestJarqueBera(t *testing.T) {
	res, err := JarqueBera([]float64{1, 2, 3, 4, 5})
	require.Nil(t, err)
	assert.InDelta(t, 0.0, res.Skew, 1e-9)
	assert.InDelta(t, 1.7, res.Kurtosis, 1e-9)
	assert.InDelta(t, 0.352083, res.Statistic, 1e-5)
	assert.InDelta(t, 0.838585, res.PValue, 1e-5)

	_, err = JarqueBera([]float64{1, 1, 1})
	assert.ErrorIs(t, err, ErrConstantSeries)
}

func TestHeteroskedasticity(t *testing.T) {
	res, err := Heteroskedasticity([]float64{1, 2, 3, 4, 5, 6})
	require.Nil(t, err)
	assert.InDelta(t, 12.2, res.Statistic, 1e-9)
	assert.InDelta(t, 0.151515, res.PValue, 1e-5)

	_, err = Heteroskedasticity([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInsufficientData)
}
