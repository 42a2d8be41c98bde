package store

import (
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/albums/internal/album"
)

// Drivers disagree on the Go types they return (MySQL's text protocol yields
// []byte for most columns), so rows are scanned through sql.Null* values and
// converted afterwards.

func scanRecord(rows *sql.Rows) (album.Record, error) {
	var (
		rec                                 album.Record
		genre, label, author                sql.NullString
		year, key                           sql.NullInt64
		reviewed                            sql.NullTime
		score, dance, energy, loud, speech  sql.NullFloat64
		acoustic, instr, live, valence, bpm sql.NullFloat64
	)

	err := rows.Scan(
		&rec.ID,
		&rec.Artist,
		&rec.Title,
		&genre,
		&label,
		&year,
		&author,
		&reviewed,
		&score,
		&dance,
		&energy,
		&key,
		&loud,
		&speech,
		&acoustic,
		&instr,
		&live,
		&valence,
		&bpm,
	)
	if err != nil {
		return album.Record{}, err
	}

	rec.Genre = pgText(genre)
	rec.RecordLabel = pgText(label)
	rec.ReleaseYear = pgInt4(year)
	rec.ReviewAuthor = pgText(author)
	rec.ReviewDate = pgDate(reviewed)
	rec.Score = pgFloat8(score)
	rec.Danceability = pgFloat8(dance)
	rec.Energy = pgFloat8(energy)
	rec.Key = pgInt4(key)
	rec.Loudness = pgFloat8(loud)
	rec.Speechiness = pgFloat8(speech)
	rec.Acousticness = pgFloat8(acoustic)
	rec.Instrumentalness = pgFloat8(instr)
	rec.Liveness = pgFloat8(live)
	rec.Valence = pgFloat8(valence)
	rec.Tempo = pgFloat8(bpm)
	return rec, nil
}

func pgText(v sql.NullString) pgtype.Text {
	return pgtype.Text{String: v.String, Valid: v.Valid}
}

func pgInt4(v sql.NullInt64) pgtype.Int4 {
	return pgtype.Int4{Int32: int32(v.Int64), Valid: v.Valid}
}

func pgFloat8(v sql.NullFloat64) pgtype.Float8 {
	return pgtype.Float8{Float64: v.Float64, Valid: v.Valid}
}

func pgDate(v sql.NullTime) pgtype.Date {
	if !v.Valid {
		return pgtype.Date{}
	}
	y, m, d := v.Time.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}
