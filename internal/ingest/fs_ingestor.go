package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kehinde-ajayi/docchat/constants"
	"github.com/kehinde-ajayi/docchat/internal/common"
)

// FSIngestor writes uploads to the local filesystem.
type FSIngestor struct {
	Dir string
	log *zap.Logger
}

func NewFSIngestor(dir string, logger *zap.Logger) *FSIngestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FSIngestor{Dir: dir, log: logger}
}

func (i *FSIngestor) SaveUpload(ctx context.Context, name string, r io.Reader) (UploadResult, error) {
	var out UploadResult

	// Strip any client-supplied directory components.
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return out, fmt.Errorf("%w: missing filename", common.ErrInvalidInput)
	}

	ext := constants.NormalizeExt(filepath.Ext(name))
	kind := constants.MapExtToFormat(ext)
	if kind == "" {
		i.log.Error("ingest.unsupported_extension", zap.String("name", name), zap.String("ext", ext))
		return out, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}

	if err := os.MkdirAll(i.Dir, 0o755); err != nil {
		return out, fmt.Errorf("create uploads dir: %w", err)
	}

	path := filepath.Join(i.Dir, name)
	_, statErr := os.Stat(path)
	overwrote := statErr == nil

	f, err := os.Create(path)
	if err != nil {
		return out, fmt.Errorf("create upload file: %w", err)
	}

	h := sha256.New()
	size, err := io.Copy(f, io.TeeReader(r, h))
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return out, fmt.Errorf("write upload: %w", err)
	}

	out = UploadResult{
		Name:       name,
		Path:       path,
		Kind:       kind,
		HashHex:    hex.EncodeToString(h.Sum(nil)),
		Size:       size,
		Overwrote:  overwrote,
		UploadedAt: time.Now().UTC(),
	}

	i.log.Info("ingest.upload.ok",
		zap.String("name", name),
		zap.String("kind", kind),
		zap.Int64("bytes", size),
		zap.Bool("overwrote", overwrote),
		zap.String("content_hash", out.HashHex),
	)
	return out, nil
}
