// Package album defines the album review record and maps raw tabular rows onto it.
//
// Mapping runs in two explicit passes. [Mapper.Coerce] is tolerant: every
// numeric, integer, and date cell that cannot be parsed becomes NULL instead of
// an error, so dirty upstream data still loads. [Validate] is strict: a record
// with neither an artist nor an album title is rejected with a
// [ValidationError]. [Mapper.ToRecord] runs both.
package album

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Record is one row of the albums table. Nullable attributes use pgtype
// values whose Valid flag is false for NULL.
type Record struct {
	ID int64 // assigned by the database; zero until persisted

	Artist      string
	Title       string
	Genre       pgtype.Text
	RecordLabel pgtype.Text
	ReleaseYear pgtype.Int4

	ReviewAuthor pgtype.Text
	ReviewDate   pgtype.Date
	Score        pgtype.Float8

	Danceability     pgtype.Float8
	Energy           pgtype.Float8
	Key              pgtype.Int4 // pitch class 0-11
	Loudness         pgtype.Float8
	Speechiness      pgtype.Float8
	Acousticness     pgtype.Float8
	Instrumentalness pgtype.Float8
	Liveness         pgtype.Float8
	Valence          pgtype.Float8
	Tempo            pgtype.Float8
}

// Values returns the insertable column values in [Columns] order.
// The identity column is excluded.
func (r Record) Values() []any {
	return []any{
		r.Artist,
		r.Title,
		r.Genre,
		r.RecordLabel,
		r.ReleaseYear,
		r.ReviewAuthor,
		r.ReviewDate,
		r.Score,
		r.Danceability,
		r.Energy,
		r.Key,
		r.Loudness,
		r.Speechiness,
		r.Acousticness,
		r.Instrumentalness,
		r.Liveness,
		r.Valence,
		r.Tempo,
	}
}

// ReviewedOn returns the review date, or the zero time when it is NULL.
func (r Record) ReviewedOn() time.Time {
	if !r.ReviewDate.Valid {
		return time.Time{}
	}
	return r.ReviewDate.Time
}

func (r Record) String() string {
	return r.Artist + " - " + r.Title
}
