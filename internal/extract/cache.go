package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// CachingExtractor memoizes extraction results by file content hash, so
// re-uploading identical bytes (under any name) skips the external tools.
type CachingExtractor struct {
	inner TextExtractor
	cache *gocache.Cache
	log   *zap.Logger
}

func NewCachingExtractor(inner TextExtractor, ttl time.Duration, logger *zap.Logger) *CachingExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &CachingExtractor{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
		log:   logger,
	}
}

func (c *CachingExtractor) Extract(ctx context.Context, path string) (Result, error) {
	key, err := contentHash(path)
	if err != nil {
		// Hashing trouble is not fatal; extraction decides whether the
		// file is readable.
		c.log.Warn("extract.cache.hash_failed", zap.String("path", path), zap.Error(err))
		return c.inner.Extract(ctx, path)
	}

	if v, ok := c.cache.Get(key); ok {
		res := v.(Result)
		c.log.Info("extract.cache.hit", zap.String("path", path), zap.String("content_hash", key))
		return res, nil
	}

	res, err := c.inner.Extract(ctx, path)
	if err != nil {
		return res, err
	}
	c.cache.Set(key, res, gocache.DefaultExpiration)
	return res, nil
}

func contentHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
