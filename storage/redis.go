package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"compsite/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	fieldBody        = "body"
	fieldContentType = "content_type"
	fieldETag        = "etag"
)

// RedisBlobStore keeps every object in a Redis hash holding the body and its metadata
type RedisBlobStore struct {
	client *redis.Client
	prefix string
}

// NewRedisBlobStore returns a store writing under "<prefix><key>"
func NewRedisBlobStore(client *redis.Client, prefix string) *RedisBlobStore {
	return &RedisBlobStore{client: client, prefix: prefix}
}

func (s *RedisBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	defer metrics.RecordBlobOperation("put", "redis", time.Now())

	sum := md5.Sum(data)
	err := s.client.HSet(ctx, s.prefix+key,
		fieldBody, data,
		fieldContentType, contentType,
		fieldETag, hex.EncodeToString(sum[:]),
	).Err()
	if err != nil {
		return fmt.Errorf("redis put %s: %w", key, err)
	}
	return nil
}

func (s *RedisBlobStore) Get(ctx context.Context, key string) (*Object, error) {
	defer metrics.RecordBlobOperation("get", "redis", time.Now())

	fields, err := s.client.HGetAll(ctx, s.prefix+key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	body, ok := fields[fieldBody]
	if !ok {
		return nil, ErrObjectNotFound
	}

	return &Object{
		Key:         key,
		Body:        io.NopCloser(bytes.NewReader([]byte(body))),
		Size:        int64(len(body)),
		ContentType: fields[fieldContentType],
		ETag:        quoteETag(fields[fieldETag]),
	}, nil
}

func (s *RedisBlobStore) Delete(ctx context.Context, key string) error {
	defer metrics.RecordBlobOperation("delete", "redis", time.Now())

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}
