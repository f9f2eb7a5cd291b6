package property

import (
	"math"
	"time"
)

const defaultDecay = 0.95

// ScoreForCount scores confidence by how many raw observations support a
// class: more agreement is worth more, with diminishing returns.
func ScoreForCount(n int) float64 {
	return scoreForCountK(n, defaultDecay)
}

func scoreForCountK(n int, k float64) float64 {
	if n >= 1 {
		return 1 - math.Pow(k, math.Sqrt(float64(n)))
	}
	return 0.0001
}

// ScoreForRecency scores confidence by how stale an observation is, in
// recency buckets (see RecencyOf) rather than raw days, so scores don't
// keep changing day to day for old records.
func ScoreForRecency(r float64) float64 {
	return scoreForRecencyK(r, defaultDecay)
}

func scoreForRecencyK(r float64, k float64) float64 {
	if r >= 0 {
		return math.Pow(k, math.Sqrt(math.Max(0, r-4)))
	}
	return 0.0001
}

// RecencyOf buckets t's age relative to asOf into whole weeks.
func RecencyOf(t, asOf time.Time) float64 {
	days := asOf.Sub(t).Hours() / 24
	return math.Floor(days / 7)
}

// GeometricMeanOf combines several per-aspect confidence scores into one,
// flooring each factor so a single near-zero input can't collapse the
// whole product to zero.
func GeometricMeanOf(xs ...float64) float64 {
	if len(xs) == 0 {
		return 0.001
	}
	product := 1.0
	for _, x := range xs {
		product *= math.Max(x, 0.001)
	}
	return math.Pow(product, 1/float64(len(xs)))
}

// Rangify widens a point value into an inclusive tolerance interval, for
// a canonicalizer that wants to bucket near-equal numeric candidates
// together by overlap rather than by rounding to a shared grid.
func Rangify(v float64, m float64) [2]float64 {
	return [2]float64{v - m, v + m}
}

// DefaultRangify applies Rangify with the default half-width.
func DefaultRangify(v float64) [2]float64 {
	return Rangify(v, 1e-5)
}

// RangifyAll maps Rangify pointwise over a sequence.
func RangifyAll(vs []float64, m float64) [][2]float64 {
	out := make([][2]float64, len(vs))
	for i, v := range vs {
		out[i] = Rangify(v, m)
	}
	return out
}
