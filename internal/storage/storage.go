// Package storage persists uploaded document bytes. Backends share one
// interface; keys are generated by ObjectKey and treated as opaque by
// everything above this package.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"sitedocs/internal/config"
)

type Store interface {
	// Put stores the object under key, overwriting nothing: keys are
	// unique by construction.
	Put(ctx context.Context, key, contentType string, data io.Reader) error

	// Get returns a reader for the stored object.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by configuration.
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStore(cfg.LocalPath)
	case "s3":
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// ObjectKey derives a collision-resistant key from the upload time and the
// original filename. The random component guarantees uniqueness even for
// same-named files uploaded in the same instant.
func ObjectKey(uploadedAt time.Time, filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(base)
	return fmt.Sprintf("%s-%s-%s%s",
		uploadedAt.UTC().Format("20060102T150405"),
		uuid.NewString()[:8],
		base,
		filepath.Ext(filename),
	)
}
