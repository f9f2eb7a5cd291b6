// Package textnorm provides the small text-normalization helpers the
// sample Property::Inferrer shares into its canonicalize/prefer blocks:
// title-casing and edit distance. No library in the retrieved dependency
// corpus covers either concern, so both are hand-rolled against the
// standard library only.
package textnorm

import (
	"strings"
	"unicode"
)

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest, leaving internal punctuation (hyphens, apostrophes) untouched —
// "o'brien-smith" becomes "O'brien-smith", matching how owner-name fields
// are canonicalized for grouping.
func TitleCase(s string) string {
	var b strings.Builder
	atWordStart := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			atWordStart = true
			b.WriteRune(r)
		case atWordStart:
			b.WriteRune(unicode.ToUpper(r))
			atWordStart = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// EditDistance returns the Levenshtein distance between a and b.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur := make([]int, len(rb)+1)
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = minInt(cur[j-1]+1, minInt(prev[j]+1, prev[j-1]+cost))
		}
		prev = cur
	}
	return prev[len(rb)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Closest returns the element of candidates with the smallest edit
// distance to target, breaking ties in favor of the earliest candidate.
func Closest(target string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	best := candidates[0]
	bestDist := EditDistance(target, best)
	for _, c := range candidates[1:] {
		if d := EditDistance(target, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// DigitsOnly strips every non-digit rune, the canonicalization step phone
// fields run through before grouping.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
