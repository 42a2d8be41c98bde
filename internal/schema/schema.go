// Package schema creates and drops the albums table.
//
// Statements are generated from album.Fields for each Dialect, so the table
// always matches the record definition. CreateSchema and DropSchema are both
// idempotent; a drop followed by a create gives an empty table with identity
// values restarting from one.
package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/JonMunkholm/albums/internal/album"
)

// TableName is the backing table for album records.
const TableName = "albums"

// ErrSchemaMismatch is returned when the albums table exists with a different
// set of columns than the record definition expects.
var ErrSchemaMismatch = errors.New("albums table exists with an unexpected shape")

// DBTX is the interface for database operations.
// Satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateTableSQL returns the CREATE TABLE IF NOT EXISTS statement for d.
func CreateTableSQL(d Dialect) string {
	defs := make([]string, 0, len(album.Fields)+1)
	defs = append(defs, d.identityColumn())
	for _, f := range album.Fields {
		col := d.Quote(f.DBColumn) + " " + d.columnType(f.Type)
		if f.Required {
			col += " NOT NULL"
		}
		defs = append(defs, col)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)%s",
		d.Quote(TableName), strings.Join(defs, ",\n\t"), d.tableOptions())
}

// InsertSQL returns a single-row INSERT for every column except the identity.
func InsertSQL(d Dialect) string {
	cols := album.Columns()
	quoted := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.Quote(c)
		params[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.Quote(TableName), strings.Join(quoted, ", "), strings.Join(params, ", "))
}

// SelectSQL returns a query reading every column, ordered by identity.
func SelectSQL(d Dialect) string {
	cols := append([]string{album.IDColumn}, album.Columns()...)
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.Quote(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(quoted, ", "), d.Quote(TableName), d.Quote(album.IDColumn))
}

// CountSQL returns a query counting the rows of the albums table.
func CountSQL(d Dialect) string {
	return "SELECT COUNT(*) FROM " + d.Quote(TableName)
}

// CreateSchema creates the albums table if it is absent. When it already
// exists its columns are compared against the record definition and
// ErrSchemaMismatch is returned if they differ.
func CreateSchema(ctx context.Context, db DBTX, d Dialect) error {
	if !d.Valid() {
		return fmt.Errorf("create schema: unsupported dialect %q", d)
	}
	if _, err := db.ExecContext(ctx, CreateTableSQL(d)); err != nil {
		return fmt.Errorf("create %s table: %w", TableName, err)
	}
	return checkShape(ctx, db, d)
}

// DropSchema drops the albums table if it exists.
func DropSchema(ctx context.Context, db DBTX, d Dialect) error {
	if !d.Valid() {
		return fmt.Errorf("drop schema: unsupported dialect %q", d)
	}
	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+d.Quote(TableName)); err != nil {
		return fmt.Errorf("drop %s table: %w", TableName, err)
	}
	return nil
}

func checkShape(ctx context.Context, db DBTX, d Dialect) error {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+d.Quote(TableName)+" WHERE 1 = 0")
	if err != nil {
		return fmt.Errorf("inspect %s table: %w", TableName, err)
	}
	defer rows.Close()

	got, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("inspect %s table: %w", TableName, err)
	}
	for i := range got {
		got[i] = strings.ToLower(got[i])
	}

	want := append([]string{album.IDColumn}, album.Columns()...)
	if !sameColumns(got, want) {
		sort.Strings(got)
		return fmt.Errorf("%w: has columns %v", ErrSchemaMismatch, got)
	}
	return rows.Err()
}

func sameColumns(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	seen := make(map[string]bool, len(want))
	for _, c := range want {
		seen[c] = true
	}
	for _, c := range got {
		if !seen[c] {
			return false
		}
	}
	return true
}
