// internal/catalog/memory.go
package catalog

import (
	"context"
	"sort"
	"strings"

	"switch-pipeline/internal/models"
)

// MemoryStore serves the catalog from a fixed in-memory entry list. It backs
// package tests and local runs that have no database attached, with the same
// matching semantics as SQLStore.
type MemoryStore struct {
	entries []models.CatalogEntry
}

func NewMemoryStore(entries []models.CatalogEntry) *MemoryStore {
	return &MemoryStore{entries: entries}
}

func (m *MemoryStore) ListAllProductNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		names = append(names, e.Name)
	}
	return names, nil
}

func (m *MemoryStore) ListAllManufacturers(ctx context.Context) ([]string, error) {
	return distinctField(m.entries, func(e models.CatalogEntry) string { return e.Manufacturer }), nil
}

func (m *MemoryStore) ListAllCategories(ctx context.Context) ([]string, error) {
	return distinctField(m.entries, func(e models.CatalogEntry) string { return e.Category }), nil
}

// FindProductsMatchingText returns entries whose names appear inside the
// given text, longest name first.
func (m *MemoryStore) FindProductsMatchingText(ctx context.Context, text string, limit int) ([]models.CatalogEntry, error) {
	lower := strings.ToLower(text)
	var hits []models.CatalogEntry
	for _, e := range m.entries {
		if strings.Contains(lower, strings.ToLower(e.Name)) {
			hits = append(hits, e)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return len(hits[i].Name) > len(hits[j].Name)
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func distinctField(entries []models.CatalogEntry, field func(models.CatalogEntry) string) []string {
	seen := make(map[string]bool, len(entries))
	var values []string
	for _, e := range entries {
		v := field(e)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}
