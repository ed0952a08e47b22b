package ingest

import (
	"context"
	"io"
	"time"
)

// UploadResult is the per-file upload outcome.
type UploadResult struct {
	Name       string
	Path       string
	Kind       string // constants.PDF | constants.IMAGE
	HashHex    string
	Size       int64
	Overwrote  bool
	UploadedAt time.Time
}

// Ingestor persists uploaded document bytes.
type Ingestor interface {
	// SaveUpload writes the upload verbatim under the uploads directory,
	// keyed by the client-supplied filename. A same-named upload
	// overwrites the prior file.
	SaveUpload(ctx context.Context, name string, r io.Reader) (UploadResult, error)
}
