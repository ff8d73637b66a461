// Package domain holds the pure calculation and validation functions used by
// the conversation flows.
package domain

import "strconv"

// GenderMale selects the male branch of the Mifflin-St Jeor formula.
const GenderMale = "M"

// Calories returns the daily calorie norm by the Mifflin-St Jeor formula:
// (10 x weight kg) + (6.25 x growth cm) - (5 x age) + 5 for men.
//
// The non-male branch returns the bare -161 constant without applying the
// formula. That matches the observed behaviour of the bot this replaces and
// is kept as-is.
func Calories(gender string, age, growth, weight float64) float64 {
	if gender == GenderMale {
		return 10.0*weight + 6.25*growth - 5.0*age + 5.0
	}
	return -161.0
}

// ParsePositive parses text as a number and reports whether it is a valid
// positive value. Inputs like "0", "-5" or "abc" fail.
func ParsePositive(text string) (float64, bool) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// IsASCIILetters reports whether s is non-empty and consists solely of
// ASCII letters. Usernames are restricted to this alphabet.
func IsASCIILetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z') {
			return false
		}
	}
	return true
}
