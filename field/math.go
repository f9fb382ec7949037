package field

import "gonum.org/v1/gonum/spatial/r2"

// IntegerPow raises v to a non-negative integer power by repeated
// multiplication. Powers below 1 return 1.
func IntegerPow(v float64, n int) float64 {
	result := 1.0
	for ; n > 0; n-- {
		result *= v
	}
	return result
}

// InverseLerp returns t such that a + t*(b-a) == v. The result is not
// clamped. When a == b it returns 0.
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

// Lerp interpolates between p and q without clamping t.
func Lerp(p, q r2.Vec, t float64) r2.Vec {
	return r2.Add(p, r2.Scale(t, r2.Sub(q, p)))
}
