package timedataset

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateMonths returns n consecutive month starts beginning with the month of start
func GenerateMonths(start time.Time, n int) []time.Time {
	t := make([]time.Time, 0, n)
	ct := MonthStart(start)
	for i := 0; i < n; i++ {
		t = append(t, ct.AddDate(0, i, 0))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateTrendY returns a line starting at zero increasing by slope each step
func GenerateTrendY(n int, slope float64) Series {
	y := make([]float64, n)
	for i := range y {
		y[i] = slope * float64(i)
	}
	return Series(y)
}

// GenerateNoise returns gaussian white noise with the given standard deviation
func GenerateNoise(n int, scale float64, rnd *rand.Rand) Series {
	y := make([]float64, n)
	for i := range y {
		y[i] = rnd.NormFloat64() * scale
	}
	return Series(y)
}

// GenerateARIMA simulates n points of an integrated ARMA(1,1) process
//
//	(1 - phi*B)(1 - B) y[t] = (1 + theta*B) e[t]
//
// with gaussian innovations of standard deviation sigma. The level starts at zero and a burn in
// period is discarded.
func GenerateARIMA(n int, phi, theta, sigma float64, rnd *rand.Rand) Series {
	const burnIn = 100

	var prevW, prevE float64
	w := make([]float64, n)
	for i := 0; i < n+burnIn; i++ {
		e := rnd.NormFloat64() * sigma
		curr := phi*prevW + e + theta*prevE
		prevW, prevE = curr, e
		if i >= burnIn {
			w[i-burnIn] = curr
		}
	}

	y := make([]float64, n)
	floats.CumSum(y, w)
	return Series(y)
}
