// internal/transform/single_item.go
package transform

import (
	"context"
	"fmt"

	apperrors "switch-pipeline/internal/common/errors"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/models"
	"switch-pipeline/internal/resolver"
)

// SingleItemTransformer builds the single_item_info shape: title and overview
// plus best-effort specifications, sound and feel description, and
// recommendations.
type SingleItemTransformer struct {
	resolver *resolver.Resolver
	logger   logger.Logger
}

func (t *SingleItemTransformer) Transform(ctx context.Context, parsed models.ParsedMarkdown) (map[string]interface{}, []string, error) {
	title := extractTitle(parsed)
	overview := extractOverview(parsed)
	if title == "" || overview == "" {
		return nil, nil, apperrors.NewInsufficientContentError("markdown yields no title or overview")
	}

	var warnings []string
	data := map[string]interface{}{
		"title":    title,
		"overview": overview,
	}

	resolved := t.resolver.Resolve(ctx, title)
	if !resolved.IsValid {
		if names := t.resolver.ExtractFromText(ctx, parsed.Raw); len(names) > 0 {
			resolved = t.resolver.Resolve(ctx, names[0])
		}
	}
	if resolved.IsValid {
		data["itemName"] = resolved.BestMatch
		data["resolution"] = map[string]interface{}{
			"bestMatch":  resolved.BestMatch,
			"confidence": resolved.Confidence,
		}
	} else {
		warnings = append(warnings, fmt.Sprintf("could not resolve %q against the catalog", title))
	}

	if specs := specificationsFromTables(parsed); len(specs) > 0 {
		data["specifications"] = specs
	} else if resolved.IsValid {
		if specs := catalogSpecifications(ctx, t.resolver, resolved.BestMatch); len(specs) > 0 {
			data["specifications"] = specs
		}
	}

	if resolved.IsValid {
		if profile, ok := profileFor(resolved.BestMatch); ok {
			data["soundProfile"] = profile.soundProfile
			data["feelDescription"] = profile.feelDescription
			data["recommendations"] = profile.recommendation
		}
	}

	if points := extractKeyPoints(parsed); len(points) > 0 {
		data["keyPoints"] = points
	}

	return data, warnings, nil
}

// specificationsFromTables flattens two-column tables into a spec map and
// keeps wider tables as row lists under their first header.
func specificationsFromTables(parsed models.ParsedMarkdown) map[string]interface{} {
	specs := map[string]interface{}{}
	for _, table := range parsed.Tables {
		if len(table.Headers) != 2 {
			continue
		}
		keyHeader, valueHeader := table.Headers[0], table.Headers[1]
		for _, row := range table.Rows {
			if key := row[keyHeader]; key != "" {
				specs[key] = row[valueHeader]
			}
		}
	}
	return specs
}

// catalogSpecifications builds a specification block from the resolved
// catalog entry, used when the markdown carries no spec table of its own.
func catalogSpecifications(ctx context.Context, r *resolver.Resolver, name string) map[string]interface{} {
	entry, ok := r.LookupEntry(ctx, name)
	if !ok {
		return nil
	}
	specs := map[string]interface{}{}
	if entry.Manufacturer != "" {
		specs["manufacturer"] = entry.Manufacturer
	}
	if entry.Category != "" {
		specs["category"] = entry.Category
	}
	for attr, value := range entry.NumericAttributes {
		if value != nil {
			specs[attr] = *value
		}
	}
	return specs
}
