// Package units converts between the land-area units the sample
// Property::Inferrer's datasets mix: appraisal records in square feet,
// everything else in acres. No dependency in the retrieved corpus covers
// unit conversion, so this is a small stdlib-only helper, as the original
// spec anticipates.
package units

const sqftPerAcre = 43560.0

// AcresToSqft converts acres to square feet.
func AcresToSqft(acres float64) float64 {
	return acres * sqftPerAcre
}

// SqftToAcres converts square feet to acres.
func SqftToAcres(sqft float64) float64 {
	return sqft / sqftPerAcre
}
