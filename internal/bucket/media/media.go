// Package media turns raw image buffers into durable, URL-addressable
// objects in a remote store. It is the single highest-latency, highest
// failure-probability step of a submission, so its contract is strict:
// either a complete retrieval URL or an explicit error, never a partial
// result.
package media

import (
	"context"
	"errors"
)

var (
	// ErrUploadFailed covers any transport or remote-side failure,
	// including a timed-out upload. The enclosing submission must abort.
	ErrUploadFailed = errors.New("media: upload failed")

	// ErrEmptyBuffer reports a programming error: callers treat "no file"
	// as "no image" and must not invoke the adapter at all.
	ErrEmptyBuffer = errors.New("media: empty buffer")
)

// Uploader transmits a buffer to the remote object store and returns the
// permanent retrieval URL for it.
type Uploader interface {
	Ingest(ctx context.Context, buf []byte, mimeType string) (string, error)
}
