// Package session keeps the documents opened through the server. Each
// document has its own lock, so requests on one document run one at a time
// while different documents proceed independently.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shapestone/shape-table/pkg/table"
)

var (
	// ErrNotFound is returned for an unknown or malformed document id.
	ErrNotFound = errors.New("document not found")
	// ErrLimit is returned by Add when the registry is full.
	ErrLimit = errors.New("too many open documents")
)

// Registry maps document ids to open documents.
type Registry struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]*Document
	max  int
	log  *slog.Logger
}

// NewRegistry returns a registry holding at most max documents. max <= 0
// means no limit.
func NewRegistry(max int, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{docs: make(map[uuid.UUID]*Document), max: max, log: log}
}

// Add registers doc under a new id.
func (r *Registry) Add(name string, doc *table.Document) (*Document, error) {
	d := &Document{
		ID:      uuid.New(),
		Name:    name,
		Created: time.Now().UTC(),
		doc:     doc,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.max > 0 && len(r.docs) >= r.max {
		return nil, fmt.Errorf("%w (limit %d)", ErrLimit, r.max)
	}
	r.docs[d.ID] = d
	r.log.Info("document opened", "id", d.ID, "name", name, "rows", doc.Table.Rows(), "columns", doc.Table.Columns())
	return d, nil
}

// Get returns the document with the given id.
func (r *Registry) Get(id uuid.UUID) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

// Lookup parses id and returns the document.
func (r *Registry) Lookup(id string) (*Document, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.Get(parsed)
}

// Remove closes the document with the given id.
func (r *Registry) Remove(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return ErrNotFound
	}
	delete(r.docs, id)
	r.log.Info("document closed", "id", id)
	return nil
}

// Len returns the number of open documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// List returns a summary of every open document, oldest first.
func (r *Registry) List() []Info {
	r.mu.RLock()
	docs := make([]*Document, 0, len(r.docs))
	for _, d := range r.docs {
		docs = append(docs, d)
	}
	r.mu.RUnlock()

	infos := make([]Info, len(docs))
	for i, d := range docs {
		infos[i] = d.Info()
	}
	slices.SortFunc(infos, func(a, b Info) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return infos
}
