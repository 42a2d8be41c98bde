package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/albums/internal/config"
	"github.com/JonMunkholm/albums/internal/logging"
	"github.com/JonMunkholm/albums/internal/store"
	"github.com/JonMunkholm/albums/internal/transfer"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	engineString string // --engine-string, overrides the configured database URL

	// newRemote builds the object store client. Tests replace it.
	newRemote func(config.StorageConfig) (*transfer.Client, error)
}

// NewRootCommand builds the albumctl command tree.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return newRoot(&app{
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		newRemote: sessionClient,
	})
}

func newRoot(a *app) *cobra.Command {
	rc := &cobra.Command{
		Use:   "albumctl",
		Short: "Load album reviews and audio features into a relational table.",
		Long: `albumctl moves the Pitchfork x Spotify album dataset from its source into the
albums table: download it, copy it to and from S3, create or reset the table,
and ingest the dataset as one transaction.

Configuration is read from the environment and an optional .env file.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if a.engineString != "" {
				cfg.Database.URL = a.engineString
			}
			a.cfg = cfg

			logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
			slog.Debug("configuration loaded", "config", cfg.String())
			return nil
		},
	}
	rc.PersistentFlags().StringVar(&a.engineString, "engine-string", "", "database URL, overrides DATABASE_URL")

	rc.AddCommand(newCreateDBCommand(a))
	rc.AddCommand(newDeleteDBCommand(a))
	rc.AddCommand(newReseedCommand(a))
	rc.AddCommand(newIngestAlbumCommand(a))
	rc.AddCommand(newIngestDatasetCommand(a))
	rc.AddCommand(newVerifyCommand(a))
	rc.AddCommand(newFetchCommand(a))
	rc.AddCommand(newSendCommand(a))
	rc.AddCommand(newAcquireCommand(a))

	rc.SetIn(a.stdin)
	rc.SetOut(a.stdout)
	rc.SetErr(a.stderr)
	return rc
}

func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, a.cfg.Database.URL, store.Options{
		Columns:         a.cfg.Ingest.Columns(),
		MaxOpenConns:    a.cfg.Database.MaxOpenConns,
		MaxIdleConns:    a.cfg.Database.MaxIdleConns,
		ConnMaxLifetime: a.cfg.Database.ConnMaxLifetime,
	})
}

func (a *app) remote() (*transfer.Client, error) {
	return a.newRemote(a.cfg.Storage)
}

func sessionClient(cfg config.StorageConfig) (*transfer.Client, error) {
	return transfer.NewSessionClient(transfer.Options{
		Region:         cfg.Region,
		Endpoint:       cfg.Endpoint,
		ForcePathStyle: cfg.ForcePathStyle,
		MaxRetries:     cfg.MaxRetries,
	})
}
