package transfer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/JonMunkholm/albums/internal/logging"
)

// DownloadOptions tune the HTTP retry policy. Zero values keep the
// go-retryablehttp defaults.
type DownloadOptions struct {
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Timeout      time.Duration // per attempt
}

// Download fetches url into dst with retries on connection errors and 5xx
// responses. It returns the number of bytes written.
func Download(ctx context.Context, url, dst string, opts DownloadOptions) (int64, error) {
	logger := logging.WithFields(ctx, "url", url, "path", dst)

	client := retryablehttp.NewClient()
	client.Logger = logger
	if opts.RetryMax > 0 {
		client.RetryMax = opts.RetryMax
	}
	if opts.RetryWaitMin > 0 {
		client.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		client.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}

	req, err := retryablehttp.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, &TransferError{Op: "download", Remote: url, Path: dst, Err: errors.Wrap(err, "building request")}
	}
	req = req.WithContext(ctx)

	resp, err := client.Do(req)
	if err != nil {
		return 0, &TransferError{Op: "download", Remote: url, Path: dst, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, &TransferError{Op: "download", Remote: url, Path: dst, Err: ErrNotFound}
	case resp.StatusCode != http.StatusOK:
		return 0, &TransferError{Op: "download", Remote: url, Path: dst, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	n, err := writeFile(dst, resp.Body)
	if err != nil {
		return 0, &TransferError{Op: "download", Remote: url, Path: dst, Err: err}
	}

	logger.Info("download completed", "bytes", n)
	return n, nil
}
