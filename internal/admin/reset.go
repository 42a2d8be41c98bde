// Package admin provides administrative operations for database management.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/albums/internal/logging"
)

// ResetTimeout is the maximum duration for schema reset operations.
const ResetTimeout = 30 * time.Second

// Resetter owns the albums table. *store.Store satisfies it.
type Resetter interface {
	DropSchema(ctx context.Context) error
	CreateSchema(ctx context.Context) error
}

type resetStep struct {
	name string
	fn   func(ctx context.Context) error
}

// Reseed drops and recreates the albums table, leaving it empty. Running it
// before every ingestion makes repeated runs produce the same table instead
// of accumulating duplicates.
// This is a destructive operation - use with caution.
func Reseed(ctx context.Context, r Resetter) error {
	return runResets(ctx, []resetStep{
		{"drop schema", r.DropSchema},
		{"create schema", r.CreateSchema},
	})
}

// Drop removes the albums table and all records in it.
func Drop(ctx context.Context, r Resetter) error {
	return runResets(ctx, []resetStep{
		{"drop schema", r.DropSchema},
	})
}

func runResets(ctx context.Context, steps []resetStep) error {
	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	logger := logging.FromContext(ctx)
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
		logger.Debug("reset step completed", "step", step.name)
	}
	return nil
}
