package docstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps every collection in process memory. It is the
// development backend and the default in tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[string]*memoryCollection{}}
}

func (s *MemoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{docs: map[string]Document{}}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}

type memoryCollection struct {
	mu    sync.RWMutex
	order []string // insertion order, used as the natural read order
	docs  map[string]Document
}

func (c *memoryCollection) Get(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(doc), nil
}

func (c *memoryCollection) GetAll(ctx context.Context) ([]Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Snapshot, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Snapshot{ID: id, Data: clone(c.docs[id])})
	}
	return out, nil
}

func (c *memoryCollection) Query(ctx context.Context, q *Query) ([]Snapshot, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return q.Apply(all), nil
}

func (c *memoryCollection) Set(ctx context.Context, id string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = clone(doc)
	return nil
}

func (c *memoryCollection) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	for path, value := range fields {
		setPath(doc, path, normalize(value))
	}
	return nil
}

func (c *memoryCollection) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *memoryCollection) Add(ctx context.Context, doc Document) (string, error) {
	id := uuid.NewString()
	if err := c.Set(ctx, id, doc); err != nil {
		return "", err
	}
	return id, nil
}
