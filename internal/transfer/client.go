package transfer

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"

	"github.com/JonMunkholm/albums/internal/logging"
	"github.com/JonMunkholm/albums/internal/tabular"
)

// Options configure an S3 session.
type Options struct {
	Region string
	// Endpoint overrides the S3 endpoint for compatible stores such as MinIO.
	Endpoint       string
	ForcePathStyle bool
	MaxRetries     int // 0 disables SDK retries
}

// Client moves objects between S3 and the local filesystem.
type Client struct {
	s3 s3iface.S3API
}

// NewClient wraps an existing S3 API implementation.
func NewClient(api s3iface.S3API) *Client {
	return &Client{s3: api}
}

// NewSessionClient creates a client from the default AWS credential chain.
func NewSessionClient(opts Options) (*Client, error) {
	config := &aws.Config{}
	if opts.Region != "" {
		config.Region = aws.String(opts.Region)
		// else, NewSession will use the default region.
	}
	if opts.Endpoint != "" {
		config.Endpoint = aws.String(opts.Endpoint)
	}
	if opts.ForcePathStyle {
		config.S3ForcePathStyle = aws.Bool(true)
	}
	// Without an explicit retryer the SDK falls back to three retries.
	config.MaxRetries = aws.Int(opts.MaxRetries)
	config.Retryer = client.DefaultRetryer{NumMaxRetries: opts.MaxRetries}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, errors.Wrap(err, "creating S3 session")
	}
	return NewClient(s3.New(sess)), nil
}

// Fetch downloads the object at loc to dst, creating parent directories as
// needed. dst is replaced only once the whole object has been written.
func (c *Client) Fetch(ctx context.Context, loc Location, dst string) error {
	if err := loc.validate(); err != nil {
		return err
	}
	logger := logging.WithFields(ctx, "bucket", loc.Bucket, "key", loc.Key, "path", dst)

	body, err := c.get(ctx, loc)
	if err != nil {
		return &TransferError{Op: "fetch", Remote: loc.String(), Path: dst, Err: err}
	}
	defer body.Close()

	n, err := writeFile(dst, body)
	if err != nil {
		return &TransferError{Op: "fetch", Remote: loc.String(), Path: dst, Err: err}
	}

	logger.Info("fetch completed", "bytes", n)
	return nil
}

// Send uploads the local file src to loc.
func (c *Client) Send(ctx context.Context, src string, loc Location) error {
	if err := loc.validate(); err != nil {
		return err
	}
	logger := logging.WithFields(ctx, "bucket", loc.Bucket, "key", loc.Key, "path", src)

	f, err := os.Open(src)
	if err != nil {
		return &TransferError{Op: "send", Remote: loc.String(), Path: src, Err: errors.Wrap(err, "opening source file")}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return &TransferError{Op: "send", Remote: loc.String(), Path: src, Err: errors.Wrap(err, "stat source file")}
	}

	_, err = c.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(loc.Bucket),
		Key:           aws.String(loc.Key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return &TransferError{Op: "send", Remote: loc.String(), Path: src, Err: notFound(err, "putting S3 object")}
	}

	logger.Info("send completed", "bytes", info.Size())
	return nil
}

// LoadTable reads a delimited object straight into a table without a local
// copy. Parse failures are returned as *tabular.ParseError.
func (c *Client) LoadTable(ctx context.Context, loc Location, delimiter rune) (*tabular.Table, error) {
	if err := loc.validate(); err != nil {
		return nil, err
	}

	body, err := c.get(ctx, loc)
	if err != nil {
		return nil, &TransferError{Op: "load", Remote: loc.String(), Err: err}
	}
	defer body.Close()

	table, err := tabular.Load(body, delimiter)
	if err != nil {
		return nil, err
	}

	logging.WithFields(ctx, "bucket", loc.Bucket, "key", loc.Key).
		Info("table loaded", "rows", table.Len(), "bytes", table.Bytes)
	return table, nil
}

func (c *Client) get(ctx context.Context, loc Location) (io.ReadCloser, error) {
	out, err := c.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return nil, notFound(err, "fetching S3 object")
	}
	return out.Body, nil
}

// notFound maps missing bucket and key codes to ErrNotFound.
func notFound(err error, msg string) error {
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchBucket, s3.ErrCodeNoSuchKey, "NotFound":
			return ErrNotFound
		}
	}
	return errors.Wrap(err, msg)
}

// writeFile copies r into path through a temporary file in the same
// directory, so a failed copy never leaves a truncated file at path.
func writeFile(path string, r io.Reader) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, errors.Wrap(err, "creating destination directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, errors.Wrap(err, "creating destination file")
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, errors.Wrap(err, "writing destination file")
	}
	if err := tmp.Close(); err != nil {
		return 0, errors.Wrap(err, "closing destination file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, errors.Wrap(err, "renaming destination file")
	}
	return n, nil
}
