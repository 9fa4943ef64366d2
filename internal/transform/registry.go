// Package transform holds one response transformer per response type. Each
// transformer consumes the parsed markdown plus the entity resolver and emits
// the type-specific data object. Transformers are deterministic for a fixed
// parse result and catalog snapshot.
package transform

import (
	"context"

	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/models"
	"switch-pipeline/internal/resolver"
)

// Transformer produces the data object for one response type. Warnings flag
// degraded extraction (for example a comparison with a single resolved item)
// without failing the transform.
type Transformer interface {
	Transform(ctx context.Context, parsed models.ParsedMarkdown) (data map[string]interface{}, warnings []string, err error)
}

// Registry maps response types to their transformers.
type Registry struct {
	transformers map[models.ResponseType]Transformer
}

func NewRegistry(res *resolver.Resolver, log logger.Logger) *Registry {
	return &Registry{
		transformers: map[models.ResponseType]Transformer{
			models.ResponseTypeSingleItemInfo:   &SingleItemTransformer{resolver: res, logger: log},
			models.ResponseTypeComparison:       &ComparisonTransformer{resolver: res, logger: log},
			models.ResponseTypeCharacteristics:  &CharacteristicsTransformer{logger: log},
			models.ResponseTypeMaterialAnalysis: &MaterialTransformer{resolver: res, logger: log},
			models.ResponseTypeStandardAnswer:   &StandardTransformer{logger: log},
		},
	}
}

// NewRegistryWith builds a registry from an explicit transformer map. Tests
// use it to substitute failing transformers.
func NewRegistryWith(transformers map[models.ResponseType]Transformer) *Registry {
	return &Registry{transformers: transformers}
}

// ForType returns the transformer for rt, or false for a type outside the
// known enumeration.
func (r *Registry) ForType(rt models.ResponseType) (Transformer, bool) {
	t, ok := r.transformers[rt]
	return t, ok
}
