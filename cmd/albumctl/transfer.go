package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/albums/internal/core"
	"github.com/JonMunkholm/albums/internal/transfer"
)

// locationFlags holds the --s3 and --local flags shared by the transfer
// commands. Empty values fall back to configuration at run time.
type locationFlags struct {
	s3Path    string
	localPath string
}

func (l *locationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&l.s3Path, "s3", "s", "", "s3://bucket/key of the dataset (default S3_SOURCE_PATH)")
	cmd.Flags().StringVarP(&l.localPath, "local", "l", "", "local dataset path (default RAW_DATA_PATH)")
}

func (l *locationFlags) resolve(a *app) (transfer.Location, string, error) {
	loc, err := l.location(a)
	return loc, l.local(a), err
}

func (l *locationFlags) location(a *app) (transfer.Location, error) {
	if l.s3Path == "" {
		return transfer.ParseLocation(a.cfg.Storage.Source)
	}
	return transfer.ParseLocation(l.s3Path)
}

func (l *locationFlags) local(a *app) string {
	if l.localPath == "" {
		return a.cfg.Ingest.LocalPath
	}
	return l.localPath
}

func newFetchCommand(a *app) *cobra.Command {
	var lf locationFlags
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Copy the dataset from S3 to the local filesystem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, local, err := lf.resolve(a)
			if err != nil {
				return err
			}
			remote, err := a.remote()
			if err != nil {
				return err
			}
			if err := remote.Fetch(cmd.Context(), loc, local); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "fetched %s to %s\n", loc, local)
			return nil
		},
	}
	lf.register(cmd)
	return cmd
}

func newSendCommand(a *app) *cobra.Command {
	var lf locationFlags
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Copy the local dataset to S3",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, local, err := lf.resolve(a)
			if err != nil {
				return err
			}
			remote, err := a.remote()
			if err != nil {
				return err
			}
			if err := remote.Send(cmd.Context(), local, loc); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "sent %s to %s\n", local, loc)
			return nil
		},
	}
	lf.register(cmd)
	return cmd
}

func newAcquireCommand(a *app) *cobra.Command {
	var (
		lf       locationFlags
		url      string
		upload   bool
		retryMax int
	)
	cmd := &cobra.Command{
		Use:   "acquire",
		Short: "Download the raw dataset from the internet",
		Long: `
Downloads the raw dataset over HTTP, retrying transient failures, and saves it
at --local. With --upload the local copy is then sent to --s3.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = a.cfg.Ingest.RawDataURL
			}
			opts := core.AcquireOptions{
				URL:       url,
				LocalPath: lf.local(a),
				Upload:    upload,
				Download:  transfer.DownloadOptions{RetryMax: retryMax},
			}

			var remote *transfer.Client
			if upload {
				var err error
				if opts.Destination, err = lf.location(a); err != nil {
					return err
				}
				if remote, err = a.remote(); err != nil {
					return err
				}
			}

			// Acquire never touches the database.
			result, err := core.NewService(nil, remote).Acquire(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "downloaded %d bytes to %s\n", result.Bytes, opts.LocalPath)
			if result.Uploaded {
				fmt.Fprintf(a.stdout, "sent %s to %s\n", opts.LocalPath, opts.Destination)
			}
			return nil
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&url, "url", "", "dataset URL (default RAW_DATA_URL)")
	cmd.Flags().BoolVar(&upload, "upload", false, "send the downloaded file to S3")
	cmd.Flags().IntVar(&retryMax, "retries", 4, "maximum download retries")
	return cmd
}
