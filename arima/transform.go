package arima

import "math"

// constrainStationary maps unconstrained reals to the coefficients of a stationary AR polynomial
// 1 - phi[0]B - ... - phi[p-1]B^p. Each value becomes a partial autocorrelation in (-1, 1) which
// the Durbin-Levinson recursion turns into AR coefficients.
func constrainStationary(u []float64) []float64 {
	p := len(u)
	phi := make([]float64, p)
	prev := make([]float64, p)
	for k := 0; k < p; k++ {
		r := u[k] / math.Sqrt(1.0+u[k]*u[k])
		copy(prev, phi)
		for j := 0; j < k; j++ {
			phi[j] = prev[j] - r*prev[k-1-j]
		}
		phi[k] = r
	}
	return phi
}

// unconstrainStationary inverts constrainStationary. Coefficients of a non stationary polynomial
// produce partial autocorrelations outside (-1, 1) which are clamped.
func unconstrainStationary(phi []float64) []float64 {
	const limit = 0.99

	p := len(phi)
	curr := make([]float64, p)
	copy(curr, phi)
	r := make([]float64, p)
	for k := p - 1; k >= 0; k-- {
		r[k] = max(min(curr[k], limit), -limit)
		den := 1.0 - r[k]*r[k]
		prev := make([]float64, k)
		for j := 0; j < k; j++ {
			prev[j] = (curr[j] + r[k]*curr[k-1-j]) / den
		}
		curr = prev
	}

	u := make([]float64, p)
	for k, val := range r {
		u[k] = val / math.Sqrt(1.0-val*val)
	}
	return u
}

// constrainInvertible maps unconstrained reals to the coefficients of an invertible MA
// polynomial 1 + theta[0]B + ... + theta[q-1]B^q
func constrainInvertible(u []float64) []float64 {
	theta := constrainStationary(u)
	for i := range theta {
		theta[i] = -theta[i]
	}
	return theta
}

func unconstrainInvertible(theta []float64) []float64 {
	neg := make([]float64, len(theta))
	for i, val := range theta {
		neg[i] = -val
	}
	return unconstrainStationary(neg)
}
