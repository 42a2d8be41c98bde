package transfer

import (
	"github.com/pkg/errors"
)

// ErrNotFound is wrapped by a TransferError when the remote object, bucket,
// or URL does not exist.
var ErrNotFound = errors.New("remote object not found")

// TransferError reports a failed fetch, send, or download.
type TransferError struct {
	Op     string // "fetch", "send", "load" or "download"
	Remote string // s3:// location or URL
	Path   string // local file, empty for in-memory loads
	Err    error
}

func (e *TransferError) Error() string {
	msg := "transfer: " + e.Op + " " + e.Remote
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	return msg + ": " + e.Err.Error()
}

func (e *TransferError) Unwrap() error { return e.Err }
