package tabular

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	input := "artist,album,score\n" +
		"Run the Jewels,Run the Jewels 2,9.0\n" +
		"  Burial , Untrue ,N/A\n"

	table, err := Load(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := strings.Join(table.Header(), ","); got != "artist,album,score" {
		t.Errorf("Header() = %q, want %q", got, "artist,album,score")
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}

	first := table.Rows[0]
	if first.Line != 2 {
		t.Errorf("Rows[0].Line = %d, want 2", first.Line)
	}
	if first.Get("album") != "Run the Jewels 2" {
		t.Errorf("Rows[0].Get(album) = %q", first.Get("album"))
	}

	second := table.Rows[1]
	if second.Values["artist"] != "  Burial " {
		t.Errorf("raw value should be preserved, got %q", second.Values["artist"])
	}
	if second.Get("artist") != "Burial" {
		t.Errorf("Get() should trim, got %q", second.Get("artist"))
	}
	if second.Has("missing") {
		t.Error("Has() = true for absent column")
	}
	if table.Bytes != int64(len(input)) {
		t.Errorf("Bytes = %d, want %d", table.Bytes, len(input))
	}
}

func TestLoad_ColumnKinds(t *testing.T) {
	input := "name,score,year,notes\n" +
		"a,8.1,2014,\n" +
		"b,N/A,2015,\n" +
		"c,,2016,\n"

	table, err := Load(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		column string
		want   Kind
	}{
		{"name", KindText},
		{"score", KindText},
		{"year", KindNumeric},
		{"notes", KindEmpty},
	}
	for _, tt := range tests {
		col, ok := table.Column(tt.column)
		if !ok {
			t.Fatalf("Column(%q) not found", tt.column)
		}
		if col.Kind != tt.want {
			t.Errorf("Column(%q).Kind = %v, want %v", tt.column, col.Kind, tt.want)
		}
	}
}

func TestLoad_Delimiter(t *testing.T) {
	input := "artist;album\nBurial;Untrue\n"

	table, err := Load(strings.NewReader(input), ';')
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Rows[0].Get("album") != "Untrue" {
		t.Errorf("album = %q, want %q", table.Rows[0].Get("album"), "Untrue")
	}
}

func TestLoad_DefaultDelimiter(t *testing.T) {
	table, err := Load(strings.NewReader("a,b\n1,2\n"), 0)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Rows[0].Get("b") != "2" {
		t.Errorf("b = %q, want 2", table.Rows[0].Get("b"))
	}
}

func TestLoad_BOMAndInvalidUTF8(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("artist,album\nSigur R\xf3s,()\n")...)

	table, err := Load(strings.NewReader(string(input)), ',')
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Columns[0].Name != "artist" {
		t.Errorf("first column = %q, BOM should be stripped", table.Columns[0].Name)
	}
	if got := table.Rows[0].Get("artist"); got != "Sigur R?s" {
		t.Errorf("artist = %q, want %q", got, "Sigur R?s")
	}
}

func TestLoad_LongMultibyteLine(t *testing.T) {
	// Lines longer than the csv reader's buffer put rune boundaries at every
	// possible offset of a short read.
	for pad := 0; pad < 8; pad++ {
		title := strings.Repeat("x", pad) + strings.Repeat("\u00e9\u20ac", 2000)
		input := "artist,album\nA," + title + "\n"

		table, err := Load(strings.NewReader(input), ',')
		if err != nil {
			t.Fatalf("pad %d: Load() error = %v", pad, err)
		}
		if got := table.Rows[0].Get("album"); got != title {
			t.Errorf("pad %d: album differs from input (len %d, want %d)", pad, len(got), len(title))
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantMsg  string
	}{
		{
			name:    "empty input",
			input:   "",
			wantMsg: "no header",
		},
		{
			name:     "arity mismatch short row",
			input:    "a,b,c\n1,2,3\n4,5\n",
			wantLine: 3,
			wantMsg:  "expected 3 fields, got 2",
		},
		{
			name:     "arity mismatch long row",
			input:    "a,b\n1,2,3\n",
			wantLine: 2,
			wantMsg:  "expected 2 fields, got 3",
		},
		{
			name:     "duplicate header",
			input:    "a,a\n1,2\n",
			wantLine: 1,
			wantMsg:  "duplicate header",
		},
		{
			name:     "blank header column",
			input:    "a,,c\n1,2,3\n",
			wantLine: 1,
			wantMsg:  "header column 2 is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input), ',')
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Load() error = %v, want *ParseError", err)
			}
			if perr.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", perr.Line, tt.wantLine)
			}
			if !strings.Contains(perr.Error(), tt.wantMsg) {
				t.Errorf("error %q should contain %q", perr.Error(), tt.wantMsg)
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestLoad_UnreadableInput(t *testing.T) {
	_, err := Load(failingReader{}, ',')
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("error should wrap the read failure: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albums.csv")
	content := "artist,album\nBurial,Untrue\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadFile(path, ',')
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != content {
		t.Error("LoadFile() modified its source")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"), ',')
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("LoadFile() error = %v, want *ParseError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist: %v", err)
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", ',', false},
		{",", ',', false},
		{";", ';', false},
		{"|", '|', false},
		{`\t`, '\t', false},
		{"tab", '\t', false},
		{"ab", 0, true},
		{`"`, 0, true},
		{"\n", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDelimiter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDelimiter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDelimiter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
