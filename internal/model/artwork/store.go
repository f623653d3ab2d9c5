package artwork

import (
	"fmt"
	"strings"
)

// Store exposes catalog retrieval for HTTP handlers and the tour flow.
type Store interface {
	List() []Artwork
	FindByID(id string) (Artwork, bool)
}

// MemoryStore implements Store with an in-memory slice. The catalog is
// read-only after construction.
type MemoryStore struct {
	items []Artwork
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied artworks.
func NewMemoryStore(items []Artwork) *MemoryStore {
	return &MemoryStore{items: append([]Artwork(nil), items...)}
}

// List returns the catalog entries.
func (s *MemoryStore) List() []Artwork {
	return append([]Artwork(nil), s.items...)
}

// FindByID looks up an artwork by identifier.
func (s *MemoryStore) FindByID(id string) (Artwork, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Artwork{}, false
}

// MapDescription renders the fixed textual museum map handed to the tour
// generation flow: one line per artwork plus the gallery layout note.
func MapDescription(items []Artwork) string {
	var b strings.Builder
	b.WriteString("The museum has the following key artworks:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- %q by %s is in %s.\n", item.Title, item.Artist, item.Location)
	}
	b.WriteString("The galleries are laid out sequentially from 1 to 10.")
	return b.String()
}
