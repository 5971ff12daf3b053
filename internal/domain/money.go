package domain

import "math"

// Round2 rounds to two decimal places with half-up semantics, matching how
// order totals are presented and persisted.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// CartTotal sums the extended line prices of a cart and rounds the result.
func CartTotal(lines []CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.LineTotal
	}
	return Round2(sum)
}
