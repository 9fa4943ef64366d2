// internal/transform/material.go
package transform

import (
	"context"
	"strings"

	apperrors "switch-pipeline/internal/common/errors"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/models"
	"switch-pipeline/internal/resolver"
)

// MaterialTransformer builds the material_analysis shape: the materials the
// markdown discusses, with per-material notes and the switches they relate to.
type MaterialTransformer struct {
	resolver *resolver.Resolver
	logger   logger.Logger
}

func (t *MaterialTransformer) Transform(ctx context.Context, parsed models.ParsedMarkdown) (map[string]interface{}, []string, error) {
	title := extractTitle(parsed)
	if title == "" {
		title = "Material Analysis"
	}
	overview := extractOverview(parsed)
	if overview == "" {
		return nil, nil, apperrors.NewInsufficientContentError("markdown yields no overview")
	}

	materials := knownMaterialsIn(parsed.Raw)
	if len(materials) == 0 {
		return nil, nil, apperrors.NewInsufficientContentError("no known materials mentioned in markdown")
	}

	data := map[string]interface{}{
		"title":             title,
		"materialsAnalyzed": materials,
		"overview":          overview,
	}

	details := map[string]interface{}{}
	for _, material := range materials {
		detail := map[string]interface{}{}
		if body := sectionBodyMatching(parsed, strings.ToLower(material)); body != "" {
			detail["analysis"] = body
		}
		if note := materialNote(material); note != "" {
			detail["note"] = note
		}
		if len(detail) > 0 {
			details[material] = detail
		}
	}
	if len(details) > 0 {
		data["materialDetails"] = details
	}

	var warnings []string
	if items := t.resolver.ExtractFromText(ctx, parsed.Raw); len(items) > 0 {
		data["relatedSwitches"] = items
	} else {
		warnings = append(warnings, "no catalog switches mentioned alongside the materials")
	}

	if points := extractKeyPoints(parsed); len(points) > 0 {
		data["keyPoints"] = points
	}

	return data, warnings, nil
}
