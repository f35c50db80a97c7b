package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"compsite/database"
	"compsite/models"
	"compsite/storage"
)

// memoryStore is an in-memory CompetitionStore with failure injection
type memoryStore struct {
	mu        sync.Mutex
	rows      []models.Competition
	nextID    uint
	insertErr error
	readErr   error
}

func (m *memoryStore) Insert(_ context.Context, c *models.Competition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, row := range m.rows {
		if row.Slug == c.Slug {
			return database.ErrDuplicateSlug
		}
	}
	m.nextID++
	c.ID = m.nextID
	m.rows = append(m.rows, *c)
	return nil
}

func (m *memoryStore) ListPublished(_ context.Context) ([]models.Competition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	var out []models.Competition
	for _, row := range m.rows {
		if row.Published {
			row.PuzzleHashedAnswer = nil
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EndAt.Before(out[j].EndAt) })
	return out, nil
}

func (m *memoryStore) ListAll(_ context.Context) ([]models.Competition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([]models.Competition, 0, len(m.rows))
	for i := len(m.rows) - 1; i >= 0; i-- {
		row := m.rows[i]
		row.PuzzleHashedAnswer = nil
		out = append(out, row)
	}
	return out, nil
}

func (m *memoryStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Competition, error) {
	c, err := m.FindPuzzleBySlug(ctx, slug)
	if c != nil {
		c.PuzzleHashedAnswer = nil
	}
	return c, err
}

func (m *memoryStore) FindPuzzleBySlug(_ context.Context, slug string) (*models.Competition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	for _, row := range m.rows {
		if row.Slug == slug && row.Published {
			found := row
			return &found, nil
		}
	}
	return nil, nil
}

// memoryBlobs is an in-memory BlobStore recording every call
type memoryBlobs struct {
	mu        sync.Mutex
	objects   map[string]storage.Object
	data      map[string][]byte
	puts      []string
	deletes   []string
	putErr    error
	getErr    error
	deleteErr error
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{objects: map[string]storage.Object{}, data: map[string][]byte{}}
}

func (m *memoryBlobs) Put(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts = append(m.puts, key)
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = storage.Object{Key: key, Size: int64(len(data)), ContentType: contentType, ETag: `"etag-` + key + `"`}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memoryBlobs) Get(_ context.Context, key string) (*storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	obj, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	obj.Body = io.NopCloser(bytes.NewReader(m.data[key]))
	return &obj, nil
}

func (m *memoryBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, key)
	delete(m.data, key)
	return nil
}

func (m *memoryBlobs) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// recordingPublisher keeps every published competition
type recordingPublisher struct {
	published []models.PublicCompetition
}

func (p *recordingPublisher) PublishCompetition(c models.PublicCompetition) {
	p.published = append(p.published, c)
}

// panickingStore blows up on insert to exercise the unexpected failure path
type panickingStore struct{ memoryStore }

func (p *panickingStore) Insert(context.Context, *models.Competition) error {
	panic("driver exploded")
}

var errBoom = errors.New("boom")
