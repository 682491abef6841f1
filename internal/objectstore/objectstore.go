// Package objectstore persists generated documents and uploads under
// slash-separated keys, on local disk or in a GCS bucket.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/joestump/sitegen/internal/config"
	"github.com/joestump/sitegen/internal/logger"
)

// ErrNotFound is returned by Get when no object exists at the key.
var ErrNotFound = errors.New("object not found")

// Store is a flat key-value object store. Delete of a missing key is not an
// error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// New selects a backend by cfg.Driver.
func New(ctx context.Context, cfg config.Storage, log *logger.Logger) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalRoot), nil
	case "gcs":
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile, log)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// ProjectPrefix is the namespace holding every file of one project.
func ProjectPrefix(projectID string) string {
	return "projects/" + projectID + "/"
}

// ProjectKey addresses one file of a project, e.g. index.html.
func ProjectKey(projectID, name string) string {
	return ProjectPrefix(projectID) + cleanName(name)
}

// SitePrefix is the namespace of one published site.
func SitePrefix(slug string) string {
	return "sites/" + slug + "/"
}

// SiteKey addresses one file of a published site.
func SiteKey(slug, name string) string {
	return SitePrefix(slug) + cleanName(name)
}

// cleanName keeps name inside its namespace.
func cleanName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// ContentType picks a Content-Type from the key extension.
func ContentType(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".html"), strings.HasSuffix(s, ".htm"):
		return "text/html; charset=utf-8"
	case strings.HasSuffix(s, ".css"):
		return "text/css; charset=utf-8"
	case strings.HasSuffix(s, ".js"):
		return "text/javascript; charset=utf-8"
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".svg"):
		return "image/svg+xml"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
