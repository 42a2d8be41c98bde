// Package tabular reads delimited text into an in-memory table of named rows.
//
// The first record is the header; every later record becomes a [Row] keyed by
// header name. Cells are kept as raw strings (empty means missing) and each
// [Column] carries the kind inferred from its non-empty values, so callers can
// decide how strictly to coerce them. Loading never modifies the source.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultDelimiter separates fields when no other delimiter is given.
const DefaultDelimiter = ','

// Kind describes the values observed in a column.
type Kind int

const (
	KindEmpty   Kind = iota // every cell is empty
	KindNumeric             // every non-empty cell parses as a number
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumeric:
		return "numeric"
	default:
		return "text"
	}
}

// Column is one header entry with its inferred kind.
type Column struct {
	Name string
	Kind Kind
}

// Row is one data record. Line is the 1-indexed line number in the source.
type Row struct {
	Line   int
	Values map[string]string
}

// Get returns the trimmed cell for column, or "" when the column is absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Values[column])
}

// Has reports whether the row carries a non-empty value for column.
func (r Row) Has(column string) bool {
	return r.Get(column) != ""
}

// Table is the parsed form of a delimited source.
type Table struct {
	Columns []Column
	Rows    []Row
	Bytes   int64 // bytes consumed from the source
}

// Header returns the column names in source order.
func (t *Table) Header() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ParseError reports malformed delimited input.
type ParseError struct {
	Line    int // 0 when the failure is not tied to a line
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse line %d: %s", e.Line, msg)
	}
	return "parse: " + msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load parses delimited text from r. The header must be non-empty with unique
// names and every data record must have exactly as many fields as the header.
// Blank lines are ignored.
func Load(r io.Reader, delimiter rune) (*Table, error) {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	src := wrapSource(r)
	cr := csv.NewReader(src)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1 // arity is checked below so the error names the line
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Message: "empty input: no header line"}
	}
	if err != nil {
		return nil, readError(err)
	}

	headerLine, _ := cr.FieldPos(0)
	names, err := headerNames(header, headerLine)
	if err != nil {
		return nil, err
	}

	table := &Table{Columns: make([]Column, len(names))}
	for i, name := range names {
		table.Columns[i] = Column{Name: name, Kind: KindEmpty}
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(err)
		}

		line, _ := cr.FieldPos(0)
		if len(record) != len(names) {
			return nil, &ParseError{
				Line:    line,
				Message: fmt.Sprintf("expected %d fields, got %d", len(names), len(record)),
			}
		}

		values := make(map[string]string, len(names))
		for i, cell := range record {
			values[names[i]] = cell
			observe(&table.Columns[i], cell)
		}
		table.Rows = append(table.Rows, Row{Line: line, Values: values})
	}

	table.Bytes = src.bytes
	return table, nil
}

// LoadFile opens path and parses it with Load.
func LoadFile(path string, delimiter rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("open %s", path), Err: err}
	}
	defer f.Close()

	return Load(f, delimiter)
}

// ParseDelimiter converts a one-character delimiter setting into a rune.
// "\t" and "tab" both select a tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return DefaultDelimiter, nil
	case `\t`, "tab":
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 || runes[0] == '"' || runes[0] == '\r' || runes[0] == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return runes[0], nil
}

func headerNames(header []string, line int) ([]string, error) {
	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, &ParseError{Line: line, Message: fmt.Sprintf("header column %d is empty", i+1)}
		}
		if seen[name] {
			return nil, &ParseError{Line: line, Message: fmt.Sprintf("duplicate header column %q", name)}
		}
		seen[name] = true
		names[i] = name
	}
	return names, nil
}

// observe widens a column's kind with one more cell.
func observe(c *Column, cell string) {
	cell = strings.TrimSpace(cell)
	if cell == "" || c.Kind == KindText {
		return
	}
	if _, err := strconv.ParseFloat(cell, 64); err == nil {
		c.Kind = KindNumeric
		return
	}
	c.Kind = KindText
}

func readError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.Line, Message: "malformed record", Err: csvErr.Err}
	}
	return &ParseError{Message: "read input", Err: err}
}
