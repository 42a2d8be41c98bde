package album

// convert.go turns raw cell strings into pgtype values.
//
// Every To* function is total: empty or unparseable input yields a value with
// Valid=false (NULL) rather than an error. None of them consult the clock, so
// the same input always converts to the same value.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex accepts integers, decimals, and scientific notation after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// groupedRegex matches numbers with comma thousands separators, e.g. "1,234.5".
var groupedRegex = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// dateLayouts are tried in order. The first is the review-date format of the
// source dataset ("October 29 2014").
var dateLayouts = []string{
	"January 2 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"01-02-2006",
	"20060102",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// missingMarkers are spellings of "no value" found in exported datasets.
var missingMarkers = map[string]bool{
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
	"-":    true,
}

// IsMissing reports whether s is empty or a conventional missing-value marker.
func IsMissing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || missingMarkers[strings.ToLower(s)]
}

// ToPgText trims s and returns NULL when nothing is left.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ParseFloat parses a cleaned numeric string. Commas are accepted only as
// thousands separators; "9,5" is not a number.
// NaN and infinities are rejected.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return 0, false
	}
	if groupedRegex.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToPgFloat8 converts s to a float, or NULL when s is not a number.
func ToPgFloat8(s string) pgtype.Float8 {
	f, ok := ParseFloat(s)
	if !ok {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// ToPgInt4 converts s to an integer. Whole-valued decimals such as "2014.0"
// are accepted; fractional or out-of-range values are NULL.
func ToPgInt4(s string) pgtype.Int4 {
	f, ok := ParseFloat(s)
	if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(f), Valid: true}
}

// ToPgPitchClass converts s to a musical pitch class. The source stores an
// album-level average, so the value is rounded to the nearest integer and
// kept only when it lands in 0..11.
func ToPgPitchClass(s string) pgtype.Int4 {
	f, ok := ParseFloat(s)
	if !ok {
		return pgtype.Int4{Valid: false}
	}
	k := math.Round(f)
	if k < 0 || k > 11 {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(k), Valid: true}
}

// ToPgDate parses s with the supported layouts, or returns NULL.
func ToPgDate(s string) pgtype.Date {
	s = strings.Join(strings.Fields(s), " ")
	if IsMissing(s) {
		return pgtype.Date{Valid: false}
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			y, m, d := t.Date()
			return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
		}
	}
	return pgtype.Date{Valid: false}
}
