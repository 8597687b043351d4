package gibbs

// SquaredDistance returns the sum of squared per-position differences
// between two equal-length windows. The square root is deliberately
// omitted: scores only rank candidates relative to each other, and this
// runs in the innermost sampling loop. Callers guarantee equal lengths.
func SquaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i, av := range a {
		d := av - b[i]
		sum += d * d
	}
	return sum
}
