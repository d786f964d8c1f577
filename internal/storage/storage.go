// Package storage contains the media host abstraction: an external object
// store that keeps uploaded binaries and serves them via public URL.
// Implementations must avoid using local disk and rely on streaming I/O only.
package storage

import (
	"context"
	"io"
)

// UploadOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
type UploadOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// UploadResult identifies a stored object. ObjectID is the host's handle,
// required later for deletion; URL is the public retrieval link.
type UploadResult struct {
	ObjectID string
	URL      string
}

// MediaHost is the client interface to the external object store.
// It is constructed once and injected; never a process-wide singleton.
type MediaHost interface {
	// Upload stores the reader's bytes under the given logical folder and
	// returns the new object's id and public URL.
	Upload(ctx context.Context, r io.Reader, folder string, opt UploadOptions) (UploadResult, error)
	// Delete removes an object by its id. A nil error is the host's "ok".
	Delete(ctx context.Context, objectID string) error
}
