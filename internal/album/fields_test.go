package album

import (
	"strings"
	"testing"
)

func TestColumnsMatchRecordValues(t *testing.T) {
	if got, want := len(Record{}.Values()), len(Columns()); got != want {
		t.Fatalf("Record.Values() has %d entries, Columns() has %d", got, want)
	}
}

func TestParseColumnMap(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string // only the overridden entries are checked
		wantErr string
	}{
		{name: "empty keeps defaults", input: "", want: map[string]string{"key": "key"}},
		{name: "single override", input: "key=pitch", want: map[string]string{"key": "pitch", "album": "album"}},
		{name: "spaces and trailing comma", input: " album = title , ", want: map[string]string{"album": "title"}},
		{name: "missing equals", input: "album", wantErr: "want field=header"},
		{name: "empty header", input: "album=", wantErr: "want field=header"},
		{name: "unknown field", input: "bpm=tempo", wantErr: "unknown album field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColumnMap(tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseColumnMap(%q) error = %v, want %q", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColumnMap(%q) error = %v", tt.input, err)
			}
			if len(got) != len(Fields) {
				t.Errorf("map has %d entries, want %d", len(got), len(Fields))
			}
			for field, header := range tt.want {
				if got.Header(field) != header {
					t.Errorf("Header(%q) = %q, want %q", field, got.Header(field), header)
				}
			}
		})
	}
}

func TestColumnMap_Missing(t *testing.T) {
	header := []string{"artist", "album", "score", "reviewdate"}
	missing := DefaultColumnMap().Missing(header)

	if len(missing) != len(Fields)-len(header) {
		t.Fatalf("Missing() = %v", missing)
	}
	for _, m := range missing {
		for _, h := range header {
			if m == h {
				t.Errorf("Missing() reported present field %q", m)
			}
		}
	}

	var all []string
	for _, f := range Fields {
		all = append(all, f.Name)
	}
	if got := DefaultColumnMap().Missing(all); len(got) != 0 {
		t.Errorf("Missing(all fields) = %v, want none", got)
	}
}
