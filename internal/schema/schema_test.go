package schema

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JonMunkholm/albums/internal/album"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "albums.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, TableName).Scan(&n)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return n == 1
}

func TestCreateSchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	for i := 0; i < 2; i++ {
		if err := CreateSchema(ctx, db, SQLite); err != nil {
			t.Fatalf("CreateSchema() call %d error = %v", i+1, err)
		}
	}
	if !tableExists(t, db) {
		t.Fatal("albums table not created")
	}

	// The created table accepts the generated insert.
	rec, err := album.FromFields(map[string]string{"artist": "Burial", "album": "Untrue"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.ExecContext(ctx, InsertSQL(SQLite), rec.Values()...); err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestDropSchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	if err := DropSchema(ctx, db, SQLite); err != nil {
		t.Fatalf("DropSchema() on missing table error = %v", err)
	}
	if err := CreateSchema(ctx, db, SQLite); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := DropSchema(ctx, db, SQLite); err != nil {
			t.Fatalf("DropSchema() call %d error = %v", i+1, err)
		}
	}
	if tableExists(t, db) {
		t.Error("albums table still exists after drop")
	}
}

func TestCreateSchema_Mismatch(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	if _, err := db.Exec(`CREATE TABLE albums (id INTEGER PRIMARY KEY, title TEXT)`); err != nil {
		t.Fatal(err)
	}

	err := CreateSchema(ctx, db, SQLite)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("CreateSchema() error = %v, want ErrSchemaMismatch", err)
	}
}

func TestCreateSchema_UnsupportedDialect(t *testing.T) {
	db := openSQLite(t)
	if err := CreateSchema(context.Background(), db, Dialect("oracle")); err == nil {
		t.Error("expected error for unsupported dialect")
	}
}

func TestCreateTableSQL(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    []string
	}{
		{Postgres, []string{`"id" BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY`, `"artist" TEXT NOT NULL`, `"score" DOUBLE PRECISION`, `"review_date" DATE`}},
		{SQLite, []string{`"id" INTEGER PRIMARY KEY AUTOINCREMENT`, `"key" INTEGER`, `"tempo" REAL`}},
		{MySQL, []string{"`key` INT", "`album` VARCHAR(255) NOT NULL", "DEFAULT CHARSET=utf8mb4"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			ddl := CreateTableSQL(tt.dialect)
			for _, want := range tt.want {
				if !strings.Contains(ddl, want) {
					t.Errorf("CreateTableSQL(%s) missing %q:\n%s", tt.dialect, want, ddl)
				}
			}
		})
	}
}

func TestInsertSQL_Placeholders(t *testing.T) {
	n := len(album.Columns())

	pg := InsertSQL(Postgres)
	if !strings.Contains(pg, "$1") || !strings.Contains(pg, "$"+strconv.Itoa(n)) {
		t.Errorf("postgres insert missing numbered placeholders: %s", pg)
	}
	if got := strings.Count(InsertSQL(MySQL), "?"); got != n {
		t.Errorf("mysql insert has %d placeholders, want %d", got, n)
	}
}
