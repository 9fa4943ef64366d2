// internal/pipeline/fallback.go
package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	apperrors "switch-pipeline/internal/common/errors"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/models"
	"switch-pipeline/internal/resolver"
)

const (
	placeholderOverview = "The assistant's answer could not be fully structured; the original text is preserved below."
	placeholderAnswer   = "The assistant's answer could not be structured into the requested format."
	placeholderTitle    = "Response"
)

var (
	fallbackHeading = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	fallbackBullet  = regexp.MustCompile(`(?m)^\s*[-*+]\s+(.+)$`)
)

// FallbackGenerator synthesizes a degraded but schema-valid data object when
// normal transformation cannot succeed. Generation itself never fails: every
// required field of the target type is filled, with placeholders where the
// markdown offers nothing.
type FallbackGenerator struct {
	resolver *resolver.Resolver
	logger   logger.Logger
}

func NewFallbackGenerator(res *resolver.Resolver, log logger.Logger) *FallbackGenerator {
	return &FallbackGenerator{resolver: res, logger: log}
}

// Generate builds fallback data for responseType from whatever the raw
// markdown yields, and the warnings describing the degradation. The cause's
// message is always included in the warnings.
func (g *FallbackGenerator) Generate(ctx context.Context, raw string, responseType models.ResponseType, cause *apperrors.Classification) (map[string]interface{}, []string) {
	title := fallbackTitle(raw)
	overview := fallbackOverview(raw)

	warnings := []string{"response generated by fallback"}
	if cause != nil {
		message := cause.Message
		if cause.Details != "" {
			message = fmt.Sprintf("%s (%s)", cause.Message, cause.Details)
		}
		warnings = append(warnings, fmt.Sprintf("%s: %s", cause.Code, message))
	}

	data := map[string]interface{}{"title": title}

	switch responseType {
	case models.ResponseTypeSingleItemInfo:
		data["overview"] = overview
		if names := g.scanProducts(ctx, raw); len(names) > 0 {
			data["itemName"] = names[0]
		}
	case models.ResponseTypeComparison:
		data["overview"] = overview
		names := g.scanProducts(ctx, raw)
		if len(names) == 0 {
			names = []string{"unidentified switch"}
			warnings = append(warnings, "no catalog items could be identified for comparison")
		}
		data["itemNames"] = names
	case models.ResponseTypeCharacteristics:
		data["overview"] = overview
		characteristics := knownCharacteristicHits(raw)
		if len(characteristics) == 0 {
			characteristics = []string{"general switch characteristics"}
		}
		data["characteristicsExplained"] = characteristics
	case models.ResponseTypeMaterialAnalysis:
		data["overview"] = overview
		materials := knownMaterialHits(raw)
		if len(materials) == 0 {
			materials = []string{"unspecified materials"}
		}
		data["materialsAnalyzed"] = materials
	default:
		// Includes standard_answer and any type outside the enumeration.
		data["queryType"] = "unknown"
		data["content"] = map[string]interface{}{
			"mainAnswer": fallbackAnswer(raw),
		}
	}

	if points := fallbackKeyPoints(raw); len(points) > 0 {
		data["keyPoints"] = points
	}

	return data, warnings
}

func (g *FallbackGenerator) scanProducts(ctx context.Context, raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return g.resolver.ExtractFromText(ctx, raw)
}

func fallbackTitle(raw string) string {
	if m := fallbackHeading.FindStringSubmatch(raw); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return placeholderTitle
}

func fallbackOverview(raw string) string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		// Preserve the original text, bounded so a huge answer does not
		// balloon the overview field.
		if len(trimmed) > 500 {
			trimmed = trimmed[:500] + "..."
		}
		return trimmed
	}
	return placeholderOverview
}

func fallbackAnswer(raw string) string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}
	return placeholderAnswer
}

func fallbackKeyPoints(raw string) []string {
	var points []string
	for _, m := range fallbackBullet.FindAllStringSubmatch(raw, -1) {
		if point := strings.TrimSpace(m[1]); point != "" {
			points = append(points, point)
		}
	}
	return points
}

// Keyword tables mirror the transformers' domain vocabulary in miniature; the
// fallback only needs enough hits to fill required list fields.
var fallbackCharacteristics = []string{
	"actuation force", "actuation", "tactility", "travel", "spring weight",
	"smoothness", "sound profile", "lubing",
}

var fallbackMaterials = []string{
	"POM", "polycarbonate", "nylon", "UHMWPE", "PBT", "ABS", "aluminum",
	"brass", "silicone", "steel",
}

func knownCharacteristicHits(raw string) []string {
	lower := strings.ToLower(raw)
	var found []string
	for _, name := range fallbackCharacteristics {
		if strings.Contains(lower, name) {
			found = append(found, name)
		}
	}
	return found
}

func knownMaterialHits(raw string) []string {
	lower := strings.ToLower(raw)
	var found []string
	for _, name := range fallbackMaterials {
		if strings.Contains(lower, strings.ToLower(name)) {
			found = append(found, name)
		}
	}
	return found
}
