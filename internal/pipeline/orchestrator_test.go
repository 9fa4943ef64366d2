package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"switch-pipeline/internal/catalog"
	"switch-pipeline/internal/common/config"
	apperrors "switch-pipeline/internal/common/errors"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/models"
	"switch-pipeline/internal/resolver"
	"switch-pipeline/internal/transform"
	"switch-pipeline/internal/validate"
)

func newTestStore() *catalog.MemoryStore {
	return catalog.NewMemoryStore([]models.CatalogEntry{
		{Name: "Cherry MX Red", Manufacturer: "Cherry", Category: "linear"},
		{Name: "Gateron Yellow", Manufacturer: "Gateron", Category: "linear"},
	})
}

func testPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		MaxRetries:        2,
		MinMarkdownLength: 10,
		MaxMarkdownLength: 100000,
		CatalogCacheTTL:   5 * time.Minute,
	}
}

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	log := logger.NewNoOpLogger()
	cache := catalog.NewCache(newTestStore(), nil, 5*time.Minute, log)
	res := resolver.New(cache, log)
	registry := transform.NewRegistry(res, log)
	validator, err := validate.New()
	require.NoError(t, err)
	fallback := NewFallbackGenerator(res, log)
	return NewOrchestrator(registry, validator, fallback, nil, log, testPipelineConfig())
}

// countingTransformer fails every attempt with a configurable error and
// records how often it was invoked.
type countingTransformer struct {
	calls int
	err   error
}

func (c *countingTransformer) Transform(ctx context.Context, parsed models.ParsedMarkdown) (map[string]interface{}, []string, error) {
	c.calls++
	return nil, nil, c.err
}

func newOrchestratorWithTransformer(t *testing.T, rt models.ResponseType, tr transform.Transformer) *Orchestrator {
	t.Helper()
	o := newTestOrchestrator(t)
	o.registry = transform.NewRegistryWith(map[models.ResponseType]transform.Transformer{rt: tr})
	return o
}

func TestTransform_SingleItemHappyPath(t *testing.T) {
	o := newTestOrchestrator(t)

	content := o.Transform(context.Background(), models.TransformInput{
		Markdown:     "# Cherry MX Red\nLinear switch, 45g actuation.",
		ResponseType: models.ResponseTypeSingleItemInfo,
	})

	assert.Equal(t, models.ResponseTypeSingleItemInfo, content.ResponseType)
	assert.Equal(t, "Cherry MX Red", content.Data["title"])
	assert.NotEmpty(t, content.Data["overview"])
	assert.Equal(t, Version, content.Version)
	assert.False(t, content.GeneratedAt.IsZero())

	_, hasConfidence := content.Metadata["confidence"]
	assert.False(t, hasConfidence)
	_, hasWarnings := content.Metadata["warnings"]
	assert.False(t, hasWarnings)
}

func TestTransform_EmptyMarkdownFallsBack(t *testing.T) {
	o := newTestOrchestrator(t)

	for _, rt := range models.KnownResponseTypes {
		content := o.Transform(context.Background(), models.TransformInput{
			Markdown:     "",
			ResponseType: rt,
		})

		assert.Equal(t, 0.0, content.Metadata["confidence"], "type %s", rt)
		warnings, ok := content.Metadata["warnings"].([]string)
		require.True(t, ok, "type %s", rt)
		found := false
		for _, w := range warnings {
			if strings.Contains(strings.ToLower(w), "empty") {
				found = true
			}
		}
		assert.True(t, found, "warnings should mention empty content for %s: %v", rt, warnings)
	}
}

func TestTransform_TooShortMarkdownFallsBack(t *testing.T) {
	o := newTestOrchestrator(t)

	content := o.Transform(context.Background(), models.TransformInput{
		Markdown:     "short",
		ResponseType: models.ResponseTypeStandardAnswer,
	})

	assert.Equal(t, 0.0, content.Metadata["confidence"])
	assert.Equal(t, "Input markdown failed validation", content.Metadata["error"])
}

func TestTransform_RetryBound(t *testing.T) {
	tr := &countingTransformer{err: errors.New("flaky downstream")}
	o := newOrchestratorWithTransformer(t, models.ResponseTypeSingleItemInfo, tr)

	content := o.Transform(context.Background(), models.TransformInput{
		Markdown:     "# Cherry MX Red\nLinear switch, 45g actuation.",
		ResponseType: models.ResponseTypeSingleItemInfo,
	})

	assert.Equal(t, 3, tr.calls)
	assert.Equal(t, 0.0, content.Metadata["confidence"])
}

func TestTransform_NonRetryableShortCircuits(t *testing.T) {
	tr := &countingTransformer{err: apperrors.NewInsufficientContentError("nothing extractable")}
	o := newOrchestratorWithTransformer(t, models.ResponseTypeSingleItemInfo, tr)

	content := o.Transform(context.Background(), models.TransformInput{
		Markdown:     "# Cherry MX Red\nLinear switch, 45g actuation.",
		ResponseType: models.ResponseTypeSingleItemInfo,
	})

	assert.Equal(t, 1, tr.calls)
	assert.Equal(t, 0.0, content.Metadata["confidence"])
}

func TestTransform_UnknownResponseTypeZeroAttempts(t *testing.T) {
	tr := &countingTransformer{err: errors.New("should never run")}
	o := newOrchestratorWithTransformer(t, models.ResponseTypeSingleItemInfo, tr)

	content := o.Transform(context.Background(), models.TransformInput{
		Markdown:     "# Cherry MX Red\nLinear switch, 45g actuation.",
		ResponseType: models.ResponseType("weather_report"),
	})

	assert.Equal(t, 0, tr.calls)
	assert.Equal(t, 0.0, content.Metadata["confidence"])
	assert.Equal(t, "unknown", content.Data["queryType"])
}

func TestTransform_PanickingTransformerFallsBack(t *testing.T) {
	o := newOrchestratorWithTransformer(t, models.ResponseTypeSingleItemInfo, panickingTransformer{})

	content := o.Transform(context.Background(), models.TransformInput{
		Markdown:     "# Cherry MX Red\nLinear switch, 45g actuation.",
		ResponseType: models.ResponseTypeSingleItemInfo,
	})

	assert.Equal(t, 0.0, content.Metadata["confidence"])
	assert.NotEmpty(t, content.Data["title"])
}

type panickingTransformer struct{}

func (panickingTransformer) Transform(ctx context.Context, parsed models.ParsedMarkdown) (map[string]interface{}, []string, error) {
	panic("boom")
}

func TestTransform_OutputAlwaysValid(t *testing.T) {
	o := newTestOrchestrator(t)
	validator, err := validate.New()
	require.NoError(t, err)

	inputs := []string{"", "short", "# Just a heading with nothing else useful in it"}
	for _, md := range inputs {
		for _, rt := range models.KnownResponseTypes {
			content := o.Transform(context.Background(), models.TransformInput{
				Markdown:     md,
				ResponseType: rt,
			})
			result := validator.Validate(content.Data, rt)
			assert.True(t, result.IsValid, "fallback for %s with input %q must validate: %v", rt, md, result.MissingFields)
		}
	}
}

func TestTransform_Deterministic(t *testing.T) {
	o := newTestOrchestrator(t)
	input := models.TransformInput{
		Markdown:     "# Cherry MX Red vs Gateron Yellow\nTwo linear switches compared in depth.",
		ResponseType: models.ResponseTypeComparison,
	}

	first := o.Transform(context.Background(), input)
	second := o.Transform(context.Background(), input)

	firstJSON, err := json.Marshal(first.Data)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Data)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}
