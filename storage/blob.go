package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by Get when no object is stored under the key
var ErrObjectNotFound = errors.New("object not found")

// Object is a stored blob with the metadata needed to serve it back over HTTP
type Object struct {
	Key         string
	Body        io.ReadCloser
	Size        int64
	ContentType string
	ETag        string
}

// BlobStore is durable object storage addressed by string keys
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// quoteETag renders an entity tag the way HTTP expects it
func quoteETag(tag string) string {
	if tag == "" {
		return ""
	}
	if len(tag) >= 2 && tag[0] == '"' && tag[len(tag)-1] == '"' {
		return tag
	}
	return `"` + tag + `"`
}
