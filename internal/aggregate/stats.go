package aggregate

import "math"

// mean returns the arithmetic mean of vs, NaN for an empty slice.
func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// stdErr returns the standard error of the mean: sample standard deviation
// divided by sqrt(n). Undefined (NaN) for fewer than two values.
func stdErr(vs []float64) float64 {
	n := len(vs)
	if n < 2 {
		return math.NaN()
	}
	m := mean(vs)
	var ss float64
	for _, v := range vs {
		d := v - m
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(n-1))
	return sd / math.Sqrt(float64(n))
}

// defined filters vs down to the values that were actually recorded.
func defined(vs []float64) []float64 {
	out := vs[:0:0]
	for _, v := range vs {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
