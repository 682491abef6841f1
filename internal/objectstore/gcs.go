package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/joestump/sitegen/internal/logger"
)

const (
	gcsWriteTimeout = 2 * time.Minute
	gcsOpTimeout    = 30 * time.Second
)

// GCSStore keeps objects in a single Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

// NewGCSStore connects to bucket. credentialsFile may be a path or inline
// JSON; when empty, application default credentials are used.
func NewGCSStore(ctx context.Context, bucket, credentialsFile string, log *logger.Logger) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs bucket name is required")
	}
	var opts []option.ClientOption
	switch creds := strings.TrimSpace(credentialsFile); {
	case strings.HasPrefix(creds, "{"):
		opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
	case creds != "":
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	log = log.With("service", "GCSStore")
	log.Info("object storage initialized", "bucket", bucket)
	return &GCSStore{client: client, bucket: bucket, log: log}, nil
}

func (s *GCSStore) object(key string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(key)
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, gcsWriteTimeout)
	defer cancel()

	r, err := s.object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object %q: %w", key, err)
	}
	return data, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, gcsWriteTimeout)
	defer cancel()

	w := s.object(key).NewWriter(ctx)
	w.ContentType = ContentType(key)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (s *GCSStore) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, gcsOpTimeout)
	defer cancel()

	_, err := s.object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat GCS object %q: %w", key, err)
	}
	return true, nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, gcsOpTimeout)
	defer cancel()

	err := s.object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

// DeletePrefix deletes every listed object, logging failures and returning
// the first one.
func (s *GCSStore) DeletePrefix(ctx context.Context, prefix string) error {
	keys, err := s.List(ctx, prefix)
	if err != nil {
		return err
	}
	var first error
	for _, k := range keys {
		if err := s.Delete(ctx, k); err != nil {
			s.log.Warn("delete object failed", "key", k, "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (s *GCSStore) List(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, gcsOpTimeout)
	defer cancel()

	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	out := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
