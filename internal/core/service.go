package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/albums/internal/admin"
	"github.com/JonMunkholm/albums/internal/logging"
	"github.com/JonMunkholm/albums/internal/store"
	"github.com/JonMunkholm/albums/internal/tabular"
	"github.com/JonMunkholm/albums/internal/transfer"
)

// IngestTimeout bounds a whole Seed run when SeedOptions.Timeout is zero.
var IngestTimeout = 10 * time.Minute

// errNoRemote is returned when an operation needs the object store but the
// Service was built without a transfer client.
var errNoRemote = errors.New("no object store client configured")

// Service sequences the ingestion pipeline: fetch, load, reseed, ingest.
type Service struct {
	store  *store.Store
	remote *transfer.Client
}

// NewService creates a Service. remote may be nil when only local files and
// HTTP acquisition are used.
func NewService(st *store.Store, remote *transfer.Client) *Service {
	return &Service{store: st, remote: remote}
}

// SeedOptions select the dataset source and how the table is prepared.
//
// With Source set and LocalPath empty the object is parsed straight from the
// object store. With both set the object is fetched to LocalPath first and
// the local copy is parsed. With only LocalPath set the local file is used.
type SeedOptions struct {
	Source    *transfer.Location
	LocalPath string
	Delimiter rune
	Reseed    bool // drop and recreate the table before ingesting
	Timeout   time.Duration
}

// Seed loads one dataset and ingests it as a single batch. Without Reseed the
// table is created if missing and rows are appended.
func (s *Service) Seed(ctx context.Context, opts SeedOptions) (*store.IngestResult, error) {
	if opts.Source == nil && opts.LocalPath == "" {
		return nil, fmt.Errorf("seed: no dataset source given")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = IngestTimeout
	}
	ctx, cancel := context.WithTimeout(withRunID(ctx), timeout)
	defer cancel()

	logger := logging.FromContext(ctx)

	table, err := s.loadTable(ctx, opts)
	if err != nil {
		return nil, err
	}

	if opts.Reseed {
		if err := admin.Reseed(ctx, s.store); err != nil {
			return nil, fmt.Errorf("reseed: %w", err)
		}
	} else if err := s.store.CreateSchema(ctx); err != nil {
		return nil, err
	}

	result, err := s.store.IngestDataset(ctx, table)
	if err != nil {
		return nil, err
	}

	logger.Info("seed completed",
		"rows", result.Rows,
		"inserted", result.Inserted,
		"reseed", opts.Reseed,
		"duration", result.Duration,
	)
	return result, nil
}

func (s *Service) loadTable(ctx context.Context, opts SeedOptions) (*tabular.Table, error) {
	switch {
	case opts.Source != nil && opts.LocalPath == "":
		if s.remote == nil {
			return nil, errNoRemote
		}
		return s.remote.LoadTable(ctx, *opts.Source, opts.Delimiter)

	case opts.Source != nil:
		if s.remote == nil {
			return nil, errNoRemote
		}
		if err := s.remote.Fetch(ctx, *opts.Source, opts.LocalPath); err != nil {
			return nil, err
		}
	}

	table, err := tabular.LoadFile(opts.LocalPath, opts.Delimiter)
	if err != nil {
		return nil, err
	}
	logging.WithFields(ctx, "path", opts.LocalPath).
		Info("table loaded", "rows", table.Len(), "bytes", table.Bytes)
	return table, nil
}

// AcquireOptions describe where the raw dataset comes from and, optionally,
// which object store location it is copied to afterwards.
type AcquireOptions struct {
	URL         string
	LocalPath   string
	Upload      bool
	Destination transfer.Location
	Download    transfer.DownloadOptions
}

// AcquireResult reports what Acquire did.
type AcquireResult struct {
	Bytes    int64
	Uploaded bool
}

// Acquire downloads the raw dataset from the internet to LocalPath and, with
// Upload set, sends the local copy to Destination.
func (s *Service) Acquire(ctx context.Context, opts AcquireOptions) (*AcquireResult, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("acquire: no dataset URL given")
	}
	if opts.LocalPath == "" {
		return nil, fmt.Errorf("acquire: no local path given")
	}
	if opts.Upload && s.remote == nil {
		return nil, errNoRemote
	}

	ctx = withRunID(ctx)

	n, err := transfer.Download(ctx, opts.URL, opts.LocalPath, opts.Download)
	if err != nil {
		return nil, err
	}

	result := &AcquireResult{Bytes: n}
	if !opts.Upload {
		return result, nil
	}

	if err := s.remote.Send(ctx, opts.LocalPath, opts.Destination); err != nil {
		return result, err
	}
	result.Uploaded = true
	return result, nil
}

func withRunID(ctx context.Context) context.Context {
	if logging.RunIDFromContext(ctx) != "" {
		return ctx
	}
	return logging.ContextWithRunID(ctx, logging.NewRunID())
}
