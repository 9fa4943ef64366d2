package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"switch-pipeline/internal/catalog"
	apperrors "switch-pipeline/internal/common/errors"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/models"
	"switch-pipeline/internal/resolver"
)

func newTestFallback(t *testing.T) *FallbackGenerator {
	t.Helper()
	log := logger.NewNoOpLogger()
	cache := catalog.NewCache(newTestStore(), nil, 5*time.Minute, log)
	return NewFallbackGenerator(resolver.New(cache, log), log)
}

func TestFallback_TitleFromHeading(t *testing.T) {
	g := newTestFallback(t)

	data, _ := g.Generate(context.Background(), "# Gateron Yellow\nsome body", models.ResponseTypeSingleItemInfo, nil)

	assert.Equal(t, "Gateron Yellow", data["title"])
	assert.Equal(t, "Gateron Yellow", data["itemName"])
}

func TestFallback_TitleFromFirstLineWithoutHeading(t *testing.T) {
	g := newTestFallback(t)

	data, _ := g.Generate(context.Background(), "plain first line\nsecond line", models.ResponseTypeSingleItemInfo, nil)

	assert.Equal(t, "plain first line", data["title"])
}

func TestFallback_EmptyInputUsesPlaceholders(t *testing.T) {
	g := newTestFallback(t)
	cause := apperrors.NewInvalidInputError("markdown is empty")

	data, warnings := g.Generate(context.Background(), "", models.ResponseTypeComparison, cause)

	assert.Equal(t, placeholderTitle, data["title"])
	assert.Equal(t, placeholderOverview, data["overview"])
	assert.Equal(t, []string{"unidentified switch"}, data["itemNames"])

	require.NotEmpty(t, warnings)
	joined := ""
	for _, w := range warnings {
		joined += w + " "
	}
	assert.Contains(t, joined, "empty")
}

func TestFallback_KeyPointsFromBullets(t *testing.T) {
	g := newTestFallback(t)

	data, _ := g.Generate(context.Background(), "- first point\n- second point", models.ResponseTypeStandardAnswer, nil)

	assert.Equal(t, []string{"first point", "second point"}, data["keyPoints"])
	content := data["content"].(map[string]interface{})
	assert.NotEmpty(t, content["mainAnswer"])
}

func TestFallback_MaterialKeywordHits(t *testing.T) {
	g := newTestFallback(t)

	data, _ := g.Generate(context.Background(), "Housings made of nylon and polycarbonate.", models.ResponseTypeMaterialAnalysis, nil)

	assert.Equal(t, []string{"polycarbonate", "nylon"}, data["materialsAnalyzed"])
}
