package subject

import (
	"math"
	"strconv"
	"strings"
)

// gradeBand maps a lower marks bound to a grade point.
type gradeBand struct {
	min   float64
	point int
}

// Bands are checked top-down; the first match wins.
var gradeBands = []gradeBand{
	{90, 10},
	{80, 9},
	{70, 8},
	{60, 7},
	{50, 6},
	{40, 5},
}

// PassMark is the lowest mark with a non-zero grade point.
const PassMark = 40.0

// GradePoint converts marks on a 0..100 scale into a grade point in
// {0,5,6,7,8,9,10}. Values below 40, NaN and negatives map to 0.
func GradePoint(marks float64) int {
	if math.IsNaN(marks) {
		return 0
	}
	for _, b := range gradeBands {
		if marks >= b.min {
			return b.point
		}
	}
	return 0
}

// ParseMarks reads a marks value the lenient way a form field is read:
// surrounding space is ignored and anything non-numeric becomes 0.
func ParseMarks(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseNumber is the strict counterpart used by validation.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
