package property_test

import (
	"math"
	"testing"
	"time"

	"attrinfer/internal/property"
)

// These pin the reference-fixture primitives verbatim so the sample
// inferrer's numbers stay reproducible across changes elsewhere in the
// package.

func TestScoreForCount(t *testing.T) {
	cases := []struct {
		n    int
		want float64
	}{
		{0, 0.0001},
		{1, 1 - math.Pow(0.95, 1)},
		{4, 1 - math.Pow(0.95, 2)},
		{9, 1 - math.Pow(0.95, 3)},
	}
	for _, c := range cases {
		got := property.ScoreForCount(c.n)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("ScoreForCount(%d) = %v, want %v", c.n, got, c.want)
		}
	}
}

func TestScoreForRecency(t *testing.T) {
	cases := []struct {
		r    float64
		want float64
	}{
		{-1, 0.0001},
		{4, 1.0},
		{8, math.Pow(0.95, 2)},
		{13, math.Pow(0.95, 3)},
	}
	for _, c := range cases {
		got := property.ScoreForRecency(c.r)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("ScoreForRecency(%v) = %v, want %v", c.r, got, c.want)
		}
	}
}

func TestRecencyOf(t *testing.T) {
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		t    time.Time
		want float64
	}{
		{asOf, 0},
		{asOf.AddDate(0, 0, -7), 1},
		{asOf.AddDate(0, 0, -20), 2},
	}
	for _, c := range cases {
		got := property.RecencyOf(c.t, asOf)
		if got != c.want {
			t.Errorf("RecencyOf(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestGeometricMeanOf(t *testing.T) {
	cases := []struct {
		xs   []float64
		want float64
	}{
		{nil, 0.001},
		{[]float64{0.81}, 0.81},
		{[]float64{1.0, 0.25}, math.Sqrt(1.0 * 0.25)},
		{[]float64{0.0, 0.5}, math.Sqrt(0.001 * 0.5)},
	}
	for _, c := range cases {
		got := property.GeometricMeanOf(c.xs...)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("GeometricMeanOf(%v) = %v, want %v", c.xs, got, c.want)
		}
	}
}

func TestRangify(t *testing.T) {
	got := property.Rangify(10, 2)
	want := [2]float64{8, 12}
	if got != want {
		t.Errorf("Rangify(10, 2) = %v, want %v", got, want)
	}
}

func TestDefaultRangify(t *testing.T) {
	got := property.DefaultRangify(1.0)
	want := property.Rangify(1.0, 1e-5)
	if got != want {
		t.Errorf("DefaultRangify(1.0) = %v, want %v", got, want)
	}
}

func TestRangifyAll(t *testing.T) {
	got := property.RangifyAll([]float64{1, 2, 3}, 0.5)
	want := [][2]float64{{0.5, 1.5}, {1.5, 2.5}, {2.5, 3.5}}
	if len(got) != len(want) {
		t.Fatalf("RangifyAll length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RangifyAll[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
