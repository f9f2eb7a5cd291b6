package units_test

import (
	"math"
	"testing"

	"attrinfer/internal/units"
)

func TestAcresSqftRoundTrip(t *testing.T) {
	acres := 1.07
	sqft := units.AcresToSqft(acres)
	back := units.SqftToAcres(sqft)
	if math.Abs(back-acres) > 1e-9 {
		t.Errorf("round trip: got %v, want %v", back, acres)
	}
}

func TestSqftToAcresKnownValue(t *testing.T) {
	got := units.SqftToAcres(43560)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("SqftToAcres(43560) = %v, want 1.0", got)
	}
}
