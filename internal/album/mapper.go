package album

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/albums/internal/tabular"
)

// ValidationError reports a record that breaks a structural rule.
type ValidationError struct {
	Field   string // offending field, empty when the rule spans fields
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
	}
	return "validation: " + e.Message
}

// Mapper converts raw rows into records using a header-to-field column map.
// It holds no state beyond the map, so mapping is deterministic.
type Mapper struct {
	columns ColumnMap
}

// NewMapper returns a mapper for the given column map. A nil map uses
// DefaultColumnMap.
func NewMapper(columns ColumnMap) *Mapper {
	if columns == nil {
		columns = DefaultColumnMap()
	}
	return &Mapper{columns: DefaultColumnMap().With(columns)}
}

// Columns returns the mapper's column map.
func (m *Mapper) Columns() ColumnMap {
	return m.columns
}

// ToRecord coerces row and validates the result.
func (m *Mapper) ToRecord(row tabular.Row) (Record, error) {
	rec := m.Coerce(row)
	if err := Validate(rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Coerce builds a record from row without rejecting anything. Strings are
// trimmed; numbers, integers, and dates that do not parse become NULL.
func (m *Mapper) Coerce(row tabular.Row) Record {
	get := func(field string) string {
		return row.Get(m.columns.Header(field))
	}

	return Record{
		Artist:      get(Artist),
		Title:       get(Title),
		Genre:       ToPgText(get(Genre)),
		RecordLabel: ToPgText(get(RecordLabel)),
		ReleaseYear: ToPgInt4(get(ReleaseYear)),

		ReviewAuthor: ToPgText(get(ReviewAuthor)),
		ReviewDate:   ToPgDate(get(ReviewDate)),
		Score:        ToPgFloat8(get(Score)),

		Danceability:     ToPgFloat8(get(Danceability)),
		Energy:           ToPgFloat8(get(Energy)),
		Key:              ToPgPitchClass(get(Key)),
		Loudness:         ToPgFloat8(get(Loudness)),
		Speechiness:      ToPgFloat8(get(Speechiness)),
		Acousticness:     ToPgFloat8(get(Acousticness)),
		Instrumentalness: ToPgFloat8(get(Instrumentalness)),
		Liveness:         ToPgFloat8(get(Liveness)),
		Valence:          ToPgFloat8(get(Valence)),
		Tempo:            ToPgFloat8(get(Tempo)),
	}
}

// Validate rejects a record that has neither an artist nor an album title.
// A record with only one of them is kept; the other is stored as "".
func Validate(rec Record) error {
	if strings.TrimSpace(rec.Artist) == "" && strings.TrimSpace(rec.Title) == "" {
		return &ValidationError{Message: "artist and album are both empty"}
	}
	return nil
}

// FromFields maps a field-name keyed set of values, such as a manual insert,
// using the default column map.
func FromFields(fields map[string]string) (Record, error) {
	return NewMapper(nil).ToRecord(tabular.Row{Values: fields})
}
