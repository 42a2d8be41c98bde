package schema

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/albums/internal/album"
)

// Dialect identifies a supported SQL backend.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
	MySQL    Dialect = "mysql"
)

// Valid reports whether d is a supported dialect.
func (d Dialect) Valid() bool {
	switch d {
	case Postgres, SQLite, MySQL:
		return true
	}
	return false
}

// Driver returns the database/sql driver name registered for d.
func (d Dialect) Driver() string {
	switch d {
	case Postgres:
		return "pgx"
	case SQLite:
		return "sqlite3"
	case MySQL:
		return "mysql"
	default:
		return ""
	}
}

// Placeholder returns the bind parameter for the n-th argument (1-based).
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Quote quotes an identifier. "key" is reserved in MySQL, so every
// identifier is quoted.
func (d Dialect) Quote(ident string) string {
	if d == MySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (d Dialect) identityColumn() string {
	id := d.Quote(album.IDColumn)
	switch d {
	case Postgres:
		return id + " BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
	case MySQL:
		return id + " BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY"
	default:
		return id + " INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

func (d Dialect) columnType(t album.FieldType) string {
	switch t {
	case album.FieldInteger:
		if d == MySQL {
			return "INT"
		}
		return "INTEGER"
	case album.FieldFloat:
		switch d {
		case Postgres:
			return "DOUBLE PRECISION"
		case MySQL:
			return "DOUBLE"
		default:
			return "REAL"
		}
	case album.FieldDate:
		return "DATE"
	default:
		if d == MySQL {
			return "VARCHAR(255)"
		}
		return "TEXT"
	}
}

func (d Dialect) tableOptions() string {
	if d == MySQL {
		return " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	}
	return ""
}
