// Package blob stores uploaded media: s3 compatible buckets in production, a directory in dev
package blob

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a key does not exist
var ErrNotFound = errors.New("blob: not found")

// Object describes a stored object
type Object struct {
	Key         string
	Size        int64
	ContentType string
	Modified    time.Time
}

// Store is the seam services and the janitor use
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, Object, error)
	Delete(ctx context.Context, key string) error
	// List walks every object under prefix in key order; returning an error from fn stops the walk
	List(ctx context.Context, prefix string, fn func(Object) error) error
	// URL is a fetchable address for key, public or presigned
	URL(ctx context.Context, key string) (string, error)
}

var errSeen = errors.New("blob: seen")

// Ping lists at most one object under prefix, which is enough to prove the bucket answers
func Ping(ctx context.Context, s Store, prefix string) error {
	err := s.List(ctx, prefix, func(Object) error { return errSeen })
	if errors.Is(err, errSeen) {
		return nil
	}
	return err
}

// NewKey builds "<prefix>/<yyyy>/<mm>/<uuid><ext>" with the extension taken from filename
func NewKey(prefix, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	return path.Join(strings.Trim(prefix, "/"), now.UTC().Format("2006/01"), uuid.NewString()+ext)
}

// CleanKey rejects keys that would escape the store root
func CleanKey(key string) (string, error) {
	k := strings.TrimLeft(path.Clean("/"+key), "/")
	if k == "" || k == "." || strings.HasPrefix(k, "..") {
		return "", errors.New("blob: invalid key")
	}
	return k, nil
}
