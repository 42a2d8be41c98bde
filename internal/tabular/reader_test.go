package tabular

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"
)

func TestBOMReader(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"with BOM", append([]byte{0xEF, 0xBB, 0xBF}, "a,b"...), "a,b"},
		{"without BOM", []byte("a,b"), "a,b"},
		{"empty", []byte{}, ""},
		{"only BOM", []byte{0xEF, 0xBB, 0xBF}, ""},
		{"short input", []byte("a"), "a"},
		{"partial BOM", []byte{0xEF, 0xBB, 'x'}, string([]byte{0xEF, 0xBB, 'x'})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(newBOMReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUTF8Sanitizer(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"ascii", []byte("hello"), "hello"},
		{"multibyte", []byte("Bj\xc3\xb6rk"), "Bj\xc3\xb6rk"},
		{"invalid byte", []byte{'h', 0x80, 'i'}, "h?i"},
		{"latin-1", []byte("caf\xe9"), "caf?"},
		{"empty", []byte{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(newUTF8Sanitizer(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUTF8Sanitizer_SplitRune(t *testing.T) {
	// One byte per read forces every multi-byte rune across a read boundary.
	input := []byte("Sigur R\xc3\xb3s \xe2\x9c\x93")
	got, err := io.ReadAll(newUTF8Sanitizer(iotest.OneByteReader(bytes.NewReader(input))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(input) {
		t.Errorf("got %q, want %q", got, input)
	}
}

// readAllSmall drains r with a read buffer of size bytes.
func readAllSmall(t *testing.T, r io.Reader, size int) []byte {
	t.Helper()
	var out []byte
	buf := make([]byte, size)
	for calls := 0; ; calls++ {
		if calls > 10000 {
			t.Fatal("reader made no progress")
		}
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestUTF8Sanitizer_SmallReadBuffer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"split rune", "a\xe2\x82\xacb", "a\xe2\x82\xacb"},
		{"split rune then invalid", "a\xe2\x82\xacb\xffc", "a\xe2\x82\xacb?c"},
		{"four byte rune", "x\xf0\x9f\x8e\xb5y", "x\xf0\x9f\x8e\xb5y"},
		{"truncated rune at end", "ok\xe2\x82", "ok??"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, size := range []int{1, 2, 3} {
				src := iotest.OneByteReader(bytes.NewReader([]byte(tt.input)))
				got := readAllSmall(t, newUTF8Sanitizer(src), size)
				if string(got) != tt.want {
					t.Errorf("buffer %d: got %q, want %q", size, got, tt.want)
				}
			}
		})
	}
}
