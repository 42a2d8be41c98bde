package album

import (
	"testing"
	"time"
)

func TestToPgFloat8(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		want      float64
	}{
		{name: "integer", input: "9", wantValid: true, want: 9},
		{name: "decimal", input: "8.5", wantValid: true, want: 8.5},
		{name: "negative loudness", input: "-7.842166667", wantValid: true, want: -7.842166667},
		{name: "surrounding whitespace", input: "  0.65425 ", wantValid: true, want: 0.65425},
		{name: "leading decimal point", input: ".99", wantValid: true, want: 0.99},
		{name: "scientific notation", input: "1.5e-3", wantValid: true, want: 0.0015},
		{name: "thousands separator", input: "1,234.5", wantValid: true, want: 1234.5},
		{name: "millions grouping", input: "-1,000,000", wantValid: true, want: -1000000},
		{name: "decimal comma", input: "9,5"},
		{name: "misplaced grouping", input: "12,34"},
		{name: "trailing comma", input: "9,"},
		{name: "empty", input: ""},
		{name: "whitespace only", input: "   "},
		{name: "N/A marker", input: "N/A"},
		{name: "NaN marker", input: "NaN"},
		{name: "word", input: "great"},
		{name: "infinity", input: "Inf"},
		{name: "two dots", input: "1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPgFloat8(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("ToPgFloat8(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if tt.wantValid && got.Float64 != tt.want {
				t.Errorf("ToPgFloat8(%q) = %v, want %v", tt.input, got.Float64, tt.want)
			}
		})
	}
}

func TestToPgInt4(t *testing.T) {
	tests := []struct {
		input     string
		wantValid bool
		want      int32
	}{
		{"2014", true, 2014},
		{"2014.0", true, 2014},
		{" 1999 ", true, 1999},
		{"2014.5", false, 0},
		{"", false, 0},
		{"unknown", false, 0},
		{"99999999999", false, 0},
	}

	for _, tt := range tests {
		got := ToPgInt4(tt.input)
		if got.Valid != tt.wantValid {
			t.Errorf("ToPgInt4(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			continue
		}
		if got.Int32 != tt.want {
			t.Errorf("ToPgInt4(%q) = %d, want %d", tt.input, got.Int32, tt.want)
		}
	}
}

func TestToPgPitchClass(t *testing.T) {
	tests := []struct {
		input     string
		wantValid bool
		want      int32
	}{
		{"0", true, 0},
		{"11", true, 11},
		{"4.916666667", true, 5},
		{"4.4", true, 4},
		{"11.4", true, 11},
		{"11.6", false, 0},
		{"-1", false, 0},
		{"12", false, 0},
		{"C#", false, 0},
		{"", false, 0},
	}

	for _, tt := range tests {
		got := ToPgPitchClass(tt.input)
		if got.Valid != tt.wantValid {
			t.Errorf("ToPgPitchClass(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			continue
		}
		if got.Int32 != tt.want {
			t.Errorf("ToPgPitchClass(%q) = %d, want %d", tt.input, got.Int32, tt.want)
		}
	}
}

func TestToPgDate(t *testing.T) {
	want := time.Date(2014, time.October, 29, 0, 0, 0, 0, time.UTC)

	valid := []string{
		"October 29 2014",
		"October  29 2014",
		"October 29, 2014",
		"Oct 29 2014",
		"29 October 2014",
		"2014-10-29",
		"2014/10/29",
		"10/29/2014",
		"20141029",
		"2014-10-29T08:30:00Z",
	}
	for _, in := range valid {
		got := ToPgDate(in)
		if !got.Valid {
			t.Errorf("ToPgDate(%q) invalid, want %v", in, want)
			continue
		}
		if !got.Time.Equal(want) {
			t.Errorf("ToPgDate(%q) = %v, want %v", in, got.Time, want)
		}
	}

	invalid := []string{"", "N/A", "yesterday", "October 32 2014", "10/29/14"}
	for _, in := range invalid {
		if got := ToPgDate(in); got.Valid {
			t.Errorf("ToPgDate(%q) = %v, want NULL", in, got.Time)
		}
	}
}

func TestToPgText(t *testing.T) {
	if got := ToPgText("  Mass Appeal "); !got.Valid || got.String != "Mass Appeal" {
		t.Errorf("ToPgText() = %+v, want trimmed valid text", got)
	}
	if got := ToPgText(" \t "); got.Valid {
		t.Errorf("ToPgText(blank) = %+v, want NULL", got)
	}
}
