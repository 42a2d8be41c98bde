package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/albums/internal/album"
	"github.com/JonMunkholm/albums/internal/core"
	"github.com/JonMunkholm/albums/internal/tabular"
	"github.com/JonMunkholm/albums/internal/transfer"
)

// albumFlag is one ingest-album flag and its default.
type albumFlag struct {
	field string
	def   string
	usage string
}

var albumFlags = []albumFlag{
	{album.Title, "Run the Jewels 2", "album title"},
	{album.Artist, "Run the Jewels", "artist of album"},
	{album.ReviewAuthor, "Ian Cohen", "album reviewer's name"},
	{album.Score, "9", "Pitchfork rating"},
	{album.ReleaseYear, "2014", "album release year"},
	{album.ReviewDate, "October 29 2014", "Pitchfork review date"},
	{album.RecordLabel, "Mass Appeal", "album record label"},
	{album.Genre, "Rap", "album genre"},
	{album.Danceability, "0.639833333", "Spotify danceability score"},
	{album.Energy, "0.65425", "Spotify energy score"},
	{album.Key, "4.916666667", "Spotify key score"},
	{album.Loudness, "-7.842166667", "Spotify loudness score"},
	{album.Speechiness, "0.236491667", "Spotify speechiness score"},
	{album.Acousticness, "0.0945741669999999", "Spotify acousticness score"},
	{album.Instrumentalness, "0.0470013809999999", "Spotify instrumentalness score"},
	{album.Liveness, "0.271858333", "Spotify liveness score"},
	{album.Valence, "0.361166667", "Spotify valence score"},
	{album.Tempo, "123.1539167", "Spotify tempo score"},
}

func newIngestAlbumCommand(a *app) *cobra.Command {
	values := make(map[string]*string, len(albumFlags))
	cmd := &cobra.Command{
		Use:   "ingest-album",
		Short: "Add a single album to the table",
		Long: `
Adds one album. Every field has a flag; unset flags keep the example
defaults. Values are coerced the same way dataset rows are.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := make(map[string]string, len(values))
			for name, v := range values {
				fields[name] = *v
			}

			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.CreateSchema(cmd.Context()); err != nil {
				return err
			}
			if err := st.AddAlbum(cmd.Context(), fields); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "added %q by %s\n", fields[album.Title], fields[album.Artist])
			return nil
		},
	}

	flags := cmd.Flags()
	for _, f := range albumFlags {
		values[f.field] = flags.String(f.field, f.def, f.usage)
	}
	return cmd
}

func newIngestDatasetCommand(a *app) *cobra.Command {
	var (
		file      string
		s3Path    string
		fetch     bool
		delimiter string
		reseed    bool
	)
	cmd := &cobra.Command{
		Use:   "ingest-dataset",
		Short: "Ingest a delimited album dataset as one transaction",
		Long: `
Loads every row of a dataset into the albums table. Rows are validated before
the database is touched and inserted in a single transaction, so either the
whole file lands or nothing does.

The dataset is read from --file by default. With --s3 it is read from the
object store instead; add --fetch to keep a local copy at --file first.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := core.SeedOptions{
				LocalPath: file,
				Delimiter: a.cfg.Ingest.Comma(),
				Reseed:    a.cfg.Ingest.Reseed,
				Timeout:   a.cfg.Ingest.Timeout,
			}
			if opts.LocalPath == "" {
				opts.LocalPath = a.cfg.Ingest.LocalPath
			}
			if cmd.Flags().Changed("reseed") {
				opts.Reseed = reseed
			}
			if delimiter != "" {
				r, err := tabular.ParseDelimiter(delimiter)
				if err != nil {
					return err
				}
				opts.Delimiter = r
			}

			var remote *transfer.Client
			if cmd.Flags().Changed("s3") {
				loc, err := transfer.ParseLocation(s3Path)
				if err != nil {
					return err
				}
				opts.Source = &loc
				if !fetch {
					opts.LocalPath = ""
				}
				if remote, err = a.remote(); err != nil {
					return err
				}
			}

			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			result, err := core.NewService(st, remote).Seed(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "ingested %d of %d rows in %s (run %s)\n",
				result.Inserted, result.Rows, result.Duration.Round(time.Millisecond), result.RunID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&file, "file", "f", "", "local dataset path (default RAW_DATA_PATH)")
	flags.StringVar(&s3Path, "s3", "", "read the dataset from this s3://bucket/key instead")
	flags.BoolVar(&fetch, "fetch", false, "with --s3, save a local copy at --file before ingesting")
	flags.StringVar(&delimiter, "sep", "", "field delimiter (default CSV_DELIMITER)")
	flags.BoolVar(&reseed, "reseed", true, "drop and recreate the table first (default INGEST_RESEED)")
	return cmd
}
