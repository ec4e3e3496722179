// Package fastln approximates the natural logarithm over the narrow range
// of ratios that screen scaling produces.
//
// Ln binary searches a sorted table of common screen and aspect ratios.
// When the argument lies within Tolerance of a key, the precomputed
// logarithm of that key is returned; otherwise math.Log is used. Callers
// must accept the bounded low-order error of a table hit: for a hit the
// returned value differs from the exact logarithm by at most
// Tolerance/key.
//
// Arguments must be strictly positive; callers clamp before calling.
package fastln

import (
	"math"
	"sort"
)

// Tolerance is the maximum distance between an argument and a table key
// for the key's precomputed value to be used.
const Tolerance = 0.005

// Operating range covered by the table.
const (
	RangeMin = 0.4
	RangeMax = 7.2
)

// keys holds ratios that recur in practice: dp widths over the 300dp
// reference, and common aspect ratios (4:3, 16:9, 19:9, 20:9 and their
// inverses). Adjacent keys are always further apart than 2*Tolerance.
var keys = [...]float64{
	0.40, 0.45, 0.50, 0.5625, 0.60, 0.65, 0.70, 0.75, 0.80,
	0.85, 0.90, 0.95, 1.00, 1.05, 1.10, 1.20, 1.25, 1.28,
	1.3333, 1.37, 1.40, 1.50, 1.60, 1.6667, 1.7778, 1.80, 2.00,
	2.1111, 2.1667, 2.2222, 2.40, 2.56, 2.80, 3.00, 3.20, 3.4133,
	3.60, 4.00, 4.50, 5.00, 5.50, 6.00, 6.40, 7.00, 7.20,
}

var values [len(keys)]float64

func init() {
	for i, k := range keys {
		values[i] = math.Log(k)
	}
}

// Ln returns an approximation of ln(x).
func Ln(x float64) float64 {
	if x < RangeMin-Tolerance || x > RangeMax+Tolerance {
		return math.Log(x)
	}

	// lo is the first key >= x; the nearest key is lo or lo-1.
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if keys[mid] < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	best := -1
	bestDist := Tolerance
	if lo < len(keys) {
		if d := keys[lo] - x; d <= bestDist {
			best, bestDist = lo, d
		}
	}
	if lo > 0 {
		if d := x - keys[lo-1]; d <= bestDist {
			best = lo - 1
		}
	}
	if best >= 0 {
		return values[best]
	}
	return math.Log(x)
}

// Ln32 is Ln for float32 arguments.
func Ln32(x float32) float32 {
	return float32(Ln(float64(x)))
}

// Entry is one key/value pair of the lookup table.
type Entry struct {
	Key   float64
	Value float64
}

// Table returns a copy of the lookup table in key order.
func Table() []Entry {
	out := make([]Entry, len(keys))
	for i := range keys {
		out[i] = Entry{Key: keys[i], Value: values[i]}
	}
	return out
}

// Nearest returns the table key closest to x and whether it lies within
// Tolerance.
func Nearest(x float64) (float64, bool) {
	i := sort.SearchFloat64s(keys[:], x)
	best := math.Inf(1)
	for _, j := range [2]int{i - 1, i} {
		if j < 0 || j >= len(keys) {
			continue
		}
		if math.Abs(keys[j]-x) < math.Abs(best-x) {
			best = keys[j]
		}
	}
	return best, math.Abs(best-x) <= Tolerance
}
