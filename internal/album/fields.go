package album

import (
	"fmt"
	"sort"
	"strings"
)

// FieldType is the storage type of a record field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInteger
	FieldFloat
	FieldDate
)

func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldInteger:
		return "integer"
	case FieldFloat:
		return "float"
	case FieldDate:
		return "date"
	default:
		return "unknown"
	}
}

// Field names. These are also the default source header names.
const (
	Artist           = "artist"
	Title            = "album"
	Genre            = "genre"
	RecordLabel      = "recordlabel"
	ReleaseYear      = "releaseyear"
	ReviewAuthor     = "reviewauthor"
	ReviewDate       = "reviewdate"
	Score            = "score"
	Danceability     = "danceability"
	Energy           = "energy"
	Key              = "key"
	Loudness         = "loudness"
	Speechiness      = "speechiness"
	Acousticness     = "acousticness"
	Instrumentalness = "instrumentalness"
	Liveness         = "liveness"
	Valence          = "valence"
	Tempo            = "tempo"
)

// FieldSpec describes one record field and the column that stores it.
type FieldSpec struct {
	Name     string    // field name and default source header
	DBColumn string    // column in the albums table
	Type     FieldType // storage type
	Required bool      // NOT NULL in the table
}

// Fields lists every insertable field in table column order.
var Fields = []FieldSpec{
	{Name: Artist, DBColumn: "artist", Type: FieldText, Required: true},
	{Name: Title, DBColumn: "album", Type: FieldText, Required: true},
	{Name: Genre, DBColumn: "genre", Type: FieldText},
	{Name: RecordLabel, DBColumn: "record_label", Type: FieldText},
	{Name: ReleaseYear, DBColumn: "release_year", Type: FieldInteger},
	{Name: ReviewAuthor, DBColumn: "review_author", Type: FieldText},
	{Name: ReviewDate, DBColumn: "review_date", Type: FieldDate},
	{Name: Score, DBColumn: "score", Type: FieldFloat},
	{Name: Danceability, DBColumn: "danceability", Type: FieldFloat},
	{Name: Energy, DBColumn: "energy", Type: FieldFloat},
	{Name: Key, DBColumn: "key", Type: FieldInteger},
	{Name: Loudness, DBColumn: "loudness", Type: FieldFloat},
	{Name: Speechiness, DBColumn: "speechiness", Type: FieldFloat},
	{Name: Acousticness, DBColumn: "acousticness", Type: FieldFloat},
	{Name: Instrumentalness, DBColumn: "instrumentalness", Type: FieldFloat},
	{Name: Liveness, DBColumn: "liveness", Type: FieldFloat},
	{Name: Valence, DBColumn: "valence", Type: FieldFloat},
	{Name: Tempo, DBColumn: "tempo", Type: FieldFloat},
}

// IDColumn is the identity column of the albums table.
const IDColumn = "id"

// Columns returns the insertable DB column names in table order.
func Columns() []string {
	cols := make([]string, len(Fields))
	for i, f := range Fields {
		cols[i] = f.DBColumn
	}
	return cols
}

// Lookup returns the FieldSpec for a field name.
func Lookup(name string) (FieldSpec, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// ColumnMap maps field names to the source header that carries them.
type ColumnMap map[string]string

// DefaultColumnMap maps every field to a header of the same name.
func DefaultColumnMap() ColumnMap {
	m := make(ColumnMap, len(Fields))
	for _, f := range Fields {
		m[f.Name] = f.Name
	}
	return m
}

// Header returns the source header for field, falling back to the field name.
func (m ColumnMap) Header(field string) string {
	if h, ok := m[field]; ok && h != "" {
		return h
	}
	return field
}

// With returns a copy of m with the given overrides applied.
func (m ColumnMap) With(overrides ColumnMap) ColumnMap {
	out := make(ColumnMap, len(m)+len(overrides))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Missing returns the fields whose source header is absent from header,
// sorted by field name.
func (m ColumnMap) Missing(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, f := range Fields {
		if !present[m.Header(f.Name)] {
			missing = append(missing, f.Name)
		}
	}
	sort.Strings(missing)
	return missing
}

// ParseColumnMap parses "field=header" pairs separated by commas, e.g.
// "key=pitch_key,album=title", on top of the default map.
func ParseColumnMap(s string) (ColumnMap, error) {
	overrides := make(ColumnMap)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		field, header, ok := strings.Cut(pair, "=")
		field = strings.TrimSpace(field)
		header = strings.TrimSpace(header)
		if !ok || field == "" || header == "" {
			return nil, fmt.Errorf("invalid column mapping %q (want field=header)", pair)
		}
		if _, known := Lookup(field); !known {
			return nil, fmt.Errorf("unknown album field %q", field)
		}
		overrides[field] = header
	}
	return DefaultColumnMap().With(overrides), nil
}
