package trend

import "math"

// Statistical helpers shared by the signal evaluators. All of them treat
// empty input as a defined zero result rather than panicking, so a short
// or degenerate series degrades to neutral numbers downstream.

// Mean returns the arithmetic mean, or 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Peak returns the maximum value, or 0 for empty input.
func Peak(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Last returns the most recent value, or 0 for empty input.
func Last(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

// StdDev returns the population standard deviation, or 0 for fewer than
// two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// TrailingMean returns the mean of the last n values. A window larger
// than the input shrinks to the whole slice.
func TrailingMean(values []float64, n int) float64 {
	if n > len(values) {
		n = len(values)
	}
	return Mean(values[len(values)-n:])
}

// LeadingMean returns the mean of the first n values, shrinking the
// window the same way as TrailingMean.
func LeadingMean(values []float64, n int) float64 {
	if n > len(values) {
		n = len(values)
	}
	return Mean(values[:n])
}

// PercentChange returns the change from base to current as a percentage
// of base. A zero base is a defined 0 result, never a division by zero.
func PercentChange(base, current float64) float64 {
	if base == 0 {
		return 0
	}
	return (current - base) / base * 100
}

// Slope returns the least-squares slope over the trailing window of n
// values, in value units per day.
func Slope(values []float64, n int) float64 {
	if n > len(values) {
		n = len(values)
	}
	recent := values[len(values)-n:]
	if len(recent) < 2 {
		return 0
	}

	// Ordinary least squares with x = 0..n-1.
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range recent {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	count := float64(len(recent))
	denom := count*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (count*sumXY - sumX*sumY) / denom
}

// Thirds splits values into early/mid/late segments and returns their
// means. Segments shorter than one value reuse the whole-series mean so
// tiny series still produce defined phase comparisons.
func Thirds(values []float64) (early, mid, late float64) {
	third := len(values) / 3
	if third == 0 {
		m := Mean(values)
		return m, m, m
	}
	early = Mean(values[:third])
	mid = Mean(values[third : 2*third])
	late = Mean(values[2*third:])
	return early, mid, late
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
