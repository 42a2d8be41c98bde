package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/albums/internal/album"
	"github.com/JonMunkholm/albums/internal/logging"
	"github.com/JonMunkholm/albums/internal/tabular"
)

// IngestResult summarizes one batch ingestion.
type IngestResult struct {
	RunID    string
	Rows     int
	Inserted int
	Duration time.Duration
}

// IngestDataset maps every row of table to a record and inserts them all in
// one transaction. Either every row is committed or none is: the first row
// that fails validation or insertion aborts the batch, the transaction is
// rolled back, and a *RowError naming that row is returned.
//
// Rows are mapped before the transaction begins, so a validation failure
// never touches the database.
func (s *Store) IngestDataset(ctx context.Context, table *tabular.Table) (*IngestResult, error) {
	if table == nil {
		return nil, fmt.Errorf("ingest: nil table")
	}

	runID := logging.RunIDFromContext(ctx)
	if runID == "" {
		runID = logging.NewRunID()
		ctx = logging.ContextWithRunID(ctx, runID)
	}
	logger := logging.FromContext(ctx)
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	if missing := s.mapper.Columns().Missing(table.Header()); len(missing) > 0 {
		logger.Warn("source is missing album columns; they will be NULL", "fields", missing)
	}

	records, err := s.mapRows(table.Rows)
	if err != nil {
		logger.Error("ingest rejected", "error", err)
		return nil, err
	}

	inserted, err := s.insertBatch(ctx, table.Rows, records)
	if err != nil {
		logger.Error("ingest rolled back", "error", err)
		return nil, err
	}

	result := &IngestResult{
		RunID:    runID,
		Rows:     table.Len(),
		Inserted: inserted,
		Duration: time.Since(start),
	}
	logger.Info("ingest completed",
		"rows", result.Rows,
		"inserted", result.Inserted,
		"duration", result.Duration,
	)
	return result, nil
}

// mapRows runs the coerce and validate passes over every row.
func (s *Store) mapRows(rows []tabular.Row) ([]album.Record, error) {
	records := make([]album.Record, len(rows))
	for i, row := range rows {
		rec, err := s.mapper.ToRecord(row)
		if err != nil {
			return nil, &RowError{Row: i + 1, Line: row.Line, Err: err}
		}
		records[i] = rec
	}
	return records, nil
}

func (s *Store) insertBatch(ctx context.Context, rows []tabular.Row, records []album.Record) (int, error) {
	logger := logging.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &PersistenceError{Op: "begin", Err: err}
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.Warn("rollback failed", "error", err)
		}
	}()

	stmt, err := tx.PrepareContext(ctx, s.insertSQL)
	if err != nil {
		return 0, &PersistenceError{Op: "prepare", Err: err}
	}
	defer stmt.Close()

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return 0, &RowError{Row: i + 1, Line: rows[i].Line, Err: &PersistenceError{Op: "insert", Err: err}}
		}
		if _, err := stmt.ExecContext(ctx, rec.Values()...); err != nil {
			return 0, &RowError{Row: i + 1, Line: rows[i].Line, Err: &PersistenceError{Op: "insert", Err: err}}
		}
	}
	logger.Debug("batch inserted", "rows", len(records))

	if err := tx.Commit(); err != nil {
		return 0, &PersistenceError{Op: "commit", Err: err}
	}
	committed = true
	return len(records), nil
}
