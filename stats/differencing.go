package stats

// Diff returns the lagged difference y[t] - y[t-lag]. The output is lag points shorter
// than the input and NaN values propagate into every difference they touch.
func Diff(y []float64, lag int) ([]float64, error) {
	if lag < 1 {
		return nil, ErrInvalidLag
	}
	if len(y) <= lag {
		return []float64{}, nil
	}

	out := make([]float64, len(y)-lag)
	for t := lag; t < len(y); t++ {
		out[t-lag] = y[t] - y[t-lag]
	}
	return out, nil
}

// DiffN applies first differencing d times
func DiffN(y []float64, d int) ([]float64, error) {
	out := make([]float64, len(y))
	copy(out, y)
	for i := 0; i < d; i++ {
		var err error
		out, err = Diff(out, 1)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
