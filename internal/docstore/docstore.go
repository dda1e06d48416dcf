// Package docstore is a small collection/document abstraction over the
// storage backends the directory runs on. Documents are JSON-shaped maps;
// every backend normalizes values the way encoding/json would, so numbers
// always come back as float64 and nested objects as map[string]any.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get and Update when the document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// Document is a single stored record without its id.
type Document map[string]any

// Snapshot pairs a document with its id, as returned by GetAll and Query.
type Snapshot struct {
	ID   string
	Data Document
}

// Store hands out collections by name.
type Store interface {
	Collection(name string) Collection
	Close(ctx context.Context) error
}

// Collection is the per-collection CRUD surface.
//
// Update applies a partial update. Keys may be dotted paths
// ("marketing.boost.active") addressing nested maps.
type Collection interface {
	Get(ctx context.Context, id string) (Document, error)
	GetAll(ctx context.Context) ([]Snapshot, error)
	Query(ctx context.Context, q *Query) ([]Snapshot, error)
	Set(ctx context.Context, id string, doc Document) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	Add(ctx context.Context, doc Document) (string, error)
}

// Encode converts a tagged struct into a Document via its JSON form.
func Encode(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	doc := Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	return doc, nil
}

// Decode fills out (a pointer to a tagged struct) from a Document.
func Decode(doc Document, out any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("docstore: decode: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("docstore: decode: %w", err)
	}
	return nil
}
