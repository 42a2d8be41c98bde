package tabular

// reader.go cleans a delimited byte stream before it reaches encoding/csv:
//
//   - bomReader drops a leading UTF-8 BOM (0xEF 0xBB 0xBF) written by spreadsheet exports
//   - utf8Sanitizer replaces invalid UTF-8 bytes with '?' so text columns stay valid
//   - countingReader records how many bytes were consumed
//
// wrapSource applies all three in that order.

import (
	"io"
	"unicode/utf8"
)

const sanitizeChunk = 4096

// utf8Sanitizer rewrites invalid UTF-8 while streaming. Sanitized bytes wait
// in out until the caller asks for them, so any len(p) makes progress.
// A multi-byte rune split across reads of r is held in pending until it
// completes or the stream ends.
type utf8Sanitizer struct {
	r       io.Reader
	buf     []byte
	out     []byte
	pending []byte
	err     error
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{r: r, buf: make([]byte, sanitizeChunk)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(s.out) == 0 && s.err == nil {
		if !s.fill() {
			break
		}
	}
	if len(s.out) == 0 {
		return 0, s.err
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// fill reads once from r and appends the sanitized bytes to out. It reports
// whether r returned data or an error; false means r made no progress.
func (s *utf8Sanitizer) fill() bool {
	n, err := s.r.Read(s.buf)
	if n == 0 && err == nil {
		return false
	}
	if err != nil {
		s.err = err
	}

	data := s.buf[:n]
	if len(s.pending) > 0 {
		data = append(s.pending, data...)
		s.pending = nil
	}
	s.out = s.sanitize(s.out[:0], data, err != nil)
	return true
}

// sanitize appends data to dst with invalid bytes replaced by '?'. When atEOF
// is false an unfinished rune at the end is copied into pending instead.
func (s *utf8Sanitizer) sanitize(dst, data []byte, atEOF bool) []byte {
	if utf8.Valid(data) {
		return append(dst, data...)
	}

	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			if !atEOF && partialRune(data[read:]) {
				s.pending = append([]byte(nil), data[read:]...)
				return dst
			}
			dst = append(dst, '?')
			read++
			continue
		}
		dst = append(dst, data[read:read+size]...)
		read += size
	}
	return dst
}

// partialRune reports whether b is the unfinished start of a multi-byte rune.
func partialRune(b []byte) bool {
	need := runeLen(b[0])
	if need <= len(b) {
		return false
	}
	for _, c := range b[1:] {
		if c&0xC0 != 0x80 {
			return false
		}
	}
	return true
}

// runeLen returns the encoded length announced by a leading byte (0 for continuation bytes).
func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// bomReader skips a UTF-8 byte order mark at the start of the stream.
type bomReader struct {
	r       io.Reader
	checked bool
	head    []byte
}

func newBOMReader(r io.Reader) *bomReader {
	return &bomReader{r: r}
}

func (b *bomReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true

		var buf [3]byte
		n, err := io.ReadFull(b.r, buf[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if !(n == 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF) {
			b.head = append(b.head, buf[:n]...)
		}
		if len(b.head) == 0 && err == io.EOF {
			return 0, io.EOF
		}
	}

	if len(b.head) > 0 {
		n := copy(p, b.head)
		b.head = b.head[n:]
		return n, nil
	}
	return b.r.Read(p)
}

// countingReader tracks bytes consumed from the wrapped reader.
type countingReader struct {
	r     io.Reader
	bytes int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.bytes += int64(n)
	return n, err
}

// wrapSource strips the BOM first, then sanitizes, then counts what csv consumes.
func wrapSource(r io.Reader) *countingReader {
	return &countingReader{r: newUTF8Sanitizer(newBOMReader(r))}
}
