// Package event holds the per-event data store the selectors read from
// and publish to.
//
// A Store lives for one event. Collections and label lists are keyed by
// name and each key can be recorded once; recording it again is an error
// rather than an overwrite.
package event

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/objsel/internal/ir"
)

var (
	// ErrNotFound is returned when a key is absent from the store.
	ErrNotFound = errors.New("not found in event store")

	// ErrDuplicateKey is returned when a key is recorded twice.
	ErrDuplicateKey = errors.New("already recorded in event store")
)

// Store is the event-scoped object store.
type Store struct {
	number      int64
	collections map[string]ir.Collection
	labels      map[string][]string
	vertices    []ir.Vertex
	weight      float64
	hasWeight   bool
}

// NewStore returns an empty store for event number n.
func NewStore(n int64) *Store {
	return &Store{
		number:      n,
		collections: make(map[string]ir.Collection),
		labels:      make(map[string][]string),
	}
}

// Number returns the event number.
func (s *Store) Number() int64 {
	return s.number
}

// RecordCollection stores c under key.
func (s *Store) RecordCollection(key string, c ir.Collection) error {
	if _, ok := s.collections[key]; ok {
		return fmt.Errorf("collection %q: %w", key, ErrDuplicateKey)
	}
	s.collections[key] = c
	return nil
}

// Collection returns the collection recorded under key.
func (s *Store) Collection(key string) (ir.Collection, error) {
	c, ok := s.collections[key]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", key, ErrNotFound)
	}
	return c, nil
}

// HasCollection reports whether key is recorded.
func (s *Store) HasCollection(key string) bool {
	_, ok := s.collections[key]
	return ok
}

// CollectionKeys returns the recorded collection keys, sorted.
func (s *Store) CollectionKeys() []string {
	keys := make([]string, 0, len(s.collections))
	for k := range s.collections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RecordLabels stores a variation label list under key. The list is
// copied; an empty list is recorded as such.
func (s *Store) RecordLabels(key string, labels []string) error {
	if _, ok := s.labels[key]; ok {
		return fmt.Errorf("label list %q: %w", key, ErrDuplicateKey)
	}
	out := make([]string, len(labels))
	copy(out, labels)
	s.labels[key] = out
	return nil
}

// Labels returns a copy of the label list recorded under key.
func (s *Store) Labels(key string) ([]string, error) {
	labels, ok := s.labels[key]
	if !ok {
		return nil, fmt.Errorf("label list %q: %w", key, ErrNotFound)
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return out, nil
}

// SetVertices replaces the reconstructed vertex list.
func (s *Store) SetVertices(vertices []ir.Vertex) {
	s.vertices = append([]ir.Vertex(nil), vertices...)
}

// PrimaryVertex returns the first vertex of primary type.
func (s *Store) PrimaryVertex() (ir.Vertex, error) {
	for _, v := range s.vertices {
		if v.Type == ir.VertexPrimary {
			return v, nil
		}
	}
	return ir.Vertex{}, fmt.Errorf("primary vertex: %w", ErrNotFound)
}

// SetWeight sets the event weight.
func (s *Store) SetWeight(w float64) {
	s.weight = w
	s.hasWeight = true
}

// Weight returns the event weight.
func (s *Store) Weight() (float64, error) {
	if !s.hasWeight {
		return 0, fmt.Errorf("event weight: %w", ErrNotFound)
	}
	return s.weight, nil
}
