package utils

import (
	"strconv"
	"strings"
)

// ParseFloat parses user-supplied numeric text leniently: spaces removed,
// decimal comma accepted. Empty or unparseable input yields nil (no value).
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseInt parses lenient integer text, accepting float forms like "2018.0".
func ParseInt(s string) *int {
	f := ParseFloat(s)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

// ParseWeight parses a 0..10 slider value, clamping out-of-range numbers.
// Unparseable input counts as zero.
func ParseWeight(s string) float64 {
	f := ParseFloat(s)
	if f == nil {
		return 0
	}
	if *f < 0 {
		return 0
	}
	if *f > 10 {
		return 10
	}
	return *f
}
