// internal/transform/characteristics.go
package transform

import (
	"context"
	"strings"

	apperrors "switch-pipeline/internal/common/errors"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/models"
)

// CharacteristicsTransformer builds the characteristics_explanation shape.
// The explained characteristics come from list items first, then section
// titles, then keyword scanning of the raw text.
type CharacteristicsTransformer struct {
	logger logger.Logger
}

func (t *CharacteristicsTransformer) Transform(ctx context.Context, parsed models.ParsedMarkdown) (map[string]interface{}, []string, error) {
	title := extractTitle(parsed)
	if title == "" {
		title = "Switch Characteristics"
	}
	overview := extractOverview(parsed)

	characteristics, details := t.collectCharacteristics(parsed)
	if len(characteristics) == 0 {
		return nil, nil, apperrors.NewInsufficientContentError("no characteristics found in markdown")
	}
	if overview == "" {
		return nil, nil, apperrors.NewInsufficientContentError("markdown yields no overview")
	}

	data := map[string]interface{}{
		"title":                    title,
		"characteristicsExplained": characteristics,
		"overview":                 overview,
	}
	if len(details) > 0 {
		data["details"] = details
	}
	if points := extractKeyPoints(parsed); len(points) > 0 {
		data["keyPoints"] = points
	}

	return data, nil, nil
}

// collectCharacteristics names each explained characteristic and pairs it
// with whatever explanation text the markdown offers, topped up from the
// characteristic notes.
func (t *CharacteristicsTransformer) collectCharacteristics(parsed models.ParsedMarkdown) ([]string, map[string]interface{}) {
	seen := make(map[string]bool)
	var names []string
	details := map[string]interface{}{}
	add := func(name, explanation string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		names = append(names, name)
		if explanation == "" {
			explanation = characteristicNote(name)
		}
		if explanation != "" {
			details[name] = explanation
		}
	}

	for _, item := range allListItems(parsed) {
		name, explanation := splitListItem(item)
		add(name, explanation)
	}

	for _, section := range parsed.Sections {
		if section.Level >= 2 {
			add(section.Title, joinContent(section.Content))
		}
	}

	if len(names) == 0 {
		for _, name := range knownCharacteristicsIn(parsed.Raw) {
			add(name, "")
		}
	}

	return names, details
}

// splitListItem separates "Tactility: the bump you feel" into name and
// explanation. An item without a separator is all name.
func splitListItem(item string) (string, string) {
	for _, sep := range []string{":", " - ", " — "} {
		if idx := strings.Index(item, sep); idx > 0 {
			return strings.TrimSpace(item[:idx]), strings.TrimSpace(item[idx+len(sep):])
		}
	}
	return strings.TrimSpace(item), ""
}
