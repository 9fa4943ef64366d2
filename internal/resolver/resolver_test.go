package resolver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"switch-pipeline/internal/catalog"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/models"
)

var testEntries = []models.CatalogEntry{
	{Name: "Cherry MX Red", Manufacturer: "Cherry", Category: "linear"},
	{Name: "Cherry MX Brown", Manufacturer: "Cherry", Category: "tactile"},
	{Name: "Gateron Yellow", Manufacturer: "Gateron", Category: "linear"},
	{Name: "Kailh Box White", Manufacturer: "Kailh", Category: "clicky"},
	{Name: "Holy Panda", Manufacturer: "Drop", Category: "tactile"},
}

// stubStore serves the fixed test catalog and can return canned text-match
// results to exercise the store-fallback path.
type stubStore struct {
	*catalog.MemoryStore
	matches []models.CatalogEntry
}

func (s *stubStore) FindProductsMatchingText(ctx context.Context, text string, limit int) ([]models.CatalogEntry, error) {
	if s.matches != nil {
		return s.matches, nil
	}
	return s.MemoryStore.FindProductsMatchingText(ctx, text, limit)
}

func newTestResolver(t *testing.T, store *stubStore) *Resolver {
	t.Helper()
	if store.MemoryStore == nil {
		store.MemoryStore = catalog.NewMemoryStore(testEntries)
	}
	cache := catalog.NewCache(store, nil, 5*time.Minute, logger.NewNoOpLogger())
	return New(cache, logger.NewTestLogger(t))
}

func TestResolve_ExactMatchCaseInsensitive(t *testing.T) {
	r := newTestResolver(t, &stubStore{})

	result := r.Resolve(context.Background(), "cherry mx red")

	assert.True(t, result.IsValid)
	assert.Equal(t, "Cherry MX Red", result.BestMatch)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestResolve_SubstringContainment(t *testing.T) {
	r := newTestResolver(t, &stubStore{})

	result := r.Resolve(context.Background(), "gateron")

	assert.True(t, result.IsValid)
	assert.Equal(t, "Gateron Yellow", result.BestMatch)
	assert.GreaterOrEqual(t, result.Confidence, 0.5)
	assert.Less(t, result.Confidence, 1.0)
}

func TestResolve_Typo(t *testing.T) {
	r := newTestResolver(t, &stubStore{})

	result := r.Resolve(context.Background(), "gaterom yellow")

	assert.True(t, result.IsValid)
	assert.Equal(t, "Gateron Yellow", result.BestMatch)
	assert.Greater(t, result.Confidence, 0.5)
	assert.Less(t, result.Confidence, 1.0)
}

func TestResolve_WordOverlap(t *testing.T) {
	r := newTestResolver(t, &stubStore{})

	// "mx" is too short to count as a token; "red" alone fully overlaps.
	result := r.Resolve(context.Background(), "mx red")

	assert.True(t, result.IsValid)
	assert.Equal(t, "Cherry MX Red", result.BestMatch)
	assert.GreaterOrEqual(t, result.Confidence, 0.5)
}

func TestResolve_NoMatch(t *testing.T) {
	r := newTestResolver(t, &stubStore{})

	result := r.Resolve(context.Background(), "mechanical pencil")

	assert.False(t, result.IsValid)
	assert.Empty(t, result.BestMatch)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestResolve_EmptyInput(t *testing.T) {
	r := newTestResolver(t, &stubStore{})

	result := r.Resolve(context.Background(), "   ")

	assert.False(t, result.IsValid)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestResolve_CatalogEntryNeverInvalid(t *testing.T) {
	r := newTestResolver(t, &stubStore{})

	for _, entry := range testEntries {
		result := r.Resolve(context.Background(), entry.Name)
		require.True(t, result.IsValid, "entry %q must resolve", entry.Name)
		assert.Equal(t, entry.Name, result.BestMatch)
		assert.Equal(t, 1.0, result.Confidence)
	}
}

func TestExtractFromText_DirectMentions(t *testing.T) {
	r := newTestResolver(t, &stubStore{})

	names := r.ExtractFromText(context.Background(), "I prefer Cherry MX Red over Gateron Yellow for gaming. cherry mx red is smoother.")

	assert.Equal(t, []string{"Cherry MX Red", "Gateron Yellow"}, names)
}

func TestExtractFromText_ManufacturerPattern(t *testing.T) {
	r := newTestResolver(t, &stubStore{})

	names := r.ExtractFromText(context.Background(), "The Kailh Box White is loud.")

	assert.Contains(t, names, "Kailh Box White")
}

func TestExtractFromText_StoreFallback(t *testing.T) {
	r := newTestResolver(t, &stubStore{matches: []models.CatalogEntry{
		{Name: "Akko CS Jelly Pink", Manufacturer: "Akko", Category: "linear"},
	}})

	names := r.ExtractFromText(context.Background(), "What about that pink jelly one?")

	assert.Equal(t, []string{"Akko CS Jelly Pink"}, names)
}

func TestExtractFromText_Empty(t *testing.T) {
	r := newTestResolver(t, &stubStore{})

	assert.Nil(t, r.ExtractFromText(context.Background(), ""))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("yellow", "yellow"))
	assert.Equal(t, 1, editDistance("gaterom", "gateron"))
	assert.Equal(t, 3, editDistance("kitten", "sitting"))
	assert.Equal(t, 5, editDistance("", "hello"))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("red", "red"))
	assert.InDelta(t, 13.0/14.0, similarity("gaterom yellow", "gateron yellow"), 1e-9)
	assert.Equal(t, 1.0, similarity("", ""))
}
