// internal/transform/comparison.go
package transform

import (
	"context"
	"fmt"
	"strings"

	apperrors "switch-pipeline/internal/common/errors"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/models"
	"switch-pipeline/internal/resolver"
)

// comparisonAxes are the directly comparative dimensions the analysis block
// always covers, in output order.
var comparisonAxes = []string{"feel", "sound", "build", "performance"}

// ComparisonTransformer builds the comparison shape: the items under
// comparison, per-item specification blocks, and one comparative analysis
// covering all items per axis rather than independent per-item essays.
type ComparisonTransformer struct {
	resolver *resolver.Resolver
	logger   logger.Logger
}

func (t *ComparisonTransformer) Transform(ctx context.Context, parsed models.ParsedMarkdown) (map[string]interface{}, []string, error) {
	title := extractTitle(parsed)
	overview := extractOverview(parsed)
	if title == "" || overview == "" {
		return nil, nil, apperrors.NewInsufficientContentError("markdown yields no title or overview")
	}

	itemNames := t.discoverItems(ctx, parsed)
	if len(itemNames) == 0 {
		return nil, nil, apperrors.NewInsufficientContentError("no catalog items found to compare")
	}

	var warnings []string
	if len(itemNames) == 1 {
		warnings = append(warnings, fmt.Sprintf("only one item resolved for comparison: %s", itemNames[0]))
	}

	data := map[string]interface{}{
		"title":     title,
		"itemNames": itemNames,
		"overview":  overview,
	}

	if specs := t.perItemSpecifications(ctx, parsed, itemNames); len(specs) > 0 {
		data["itemSpecifications"] = specs
	}

	data["comparativeAnalysis"] = t.comparativeAnalysis(parsed, itemNames)

	return data, warnings, nil
}

// discoverItems pulls item mentions from headings, table cells and the raw
// text, resolving each through the catalog and de-duplicating in discovery
// order.
func (t *ComparisonTransformer) discoverItems(ctx context.Context, parsed models.ParsedMarkdown) []string {
	seen := make(map[string]bool)
	var items []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			items = append(items, name)
		}
	}

	for _, section := range parsed.Sections {
		if resolved := t.resolver.Resolve(ctx, section.Title); resolved.IsValid && resolved.Confidence >= 0.7 {
			add(resolved.BestMatch)
		}
	}

	for _, table := range parsed.Tables {
		for _, header := range table.Headers[min(1, len(table.Headers)):] {
			if resolved := t.resolver.Resolve(ctx, header); resolved.IsValid && resolved.Confidence >= 0.7 {
				add(resolved.BestMatch)
			}
		}
		for _, row := range table.Rows {
			if len(table.Headers) == 0 {
				continue
			}
			if resolved := t.resolver.Resolve(ctx, row[table.Headers[0]]); resolved.IsValid && resolved.Confidence >= 0.7 {
				add(resolved.BestMatch)
			}
		}
	}

	for _, name := range t.resolver.ExtractFromText(ctx, parsed.Raw) {
		add(name)
	}

	return items
}

// perItemSpecifications groups specs by item from multi-column tables, then
// tops the blocks up from the catalog: items without a table row get the
// entry's numeric attributes, and every block names the manufacturer when the
// catalog knows it.
func (t *ComparisonTransformer) perItemSpecifications(ctx context.Context, parsed models.ParsedMarkdown, itemNames []string) map[string]interface{} {
	specs := map[string]interface{}{}
	for _, table := range parsed.Tables {
		if len(table.Headers) < 2 {
			continue
		}
		keyHeader := table.Headers[0]
		for _, row := range table.Rows {
			for _, item := range itemNames {
				if !strings.EqualFold(row[keyHeader], item) {
					continue
				}
				itemSpec := map[string]interface{}{}
				for _, header := range table.Headers[1:] {
					if value := row[header]; value != "" {
						itemSpec[header] = value
					}
				}
				if len(itemSpec) > 0 {
					specs[item] = itemSpec
				}
			}
		}
	}

	for _, item := range itemNames {
		if existing, ok := specs[item].(map[string]interface{}); ok {
			if _, has := existing["manufacturer"]; !has {
				if entry, found := t.resolver.LookupEntry(ctx, item); found && entry.Manufacturer != "" {
					existing["manufacturer"] = entry.Manufacturer
				}
			}
			continue
		}
		if folded := catalogSpecifications(ctx, t.resolver, item); len(folded) > 0 {
			specs[item] = folded
		}
	}
	return specs
}

// comparativeAnalysis produces one block per axis referencing all items
// together, sourced from the markdown's own sections when one matches the
// axis and from the knowledge profiles otherwise.
func (t *ComparisonTransformer) comparativeAnalysis(parsed models.ParsedMarkdown, itemNames []string) map[string]interface{} {
	analysis := map[string]interface{}{}
	for _, axis := range comparisonAxes {
		if body := sectionBodyMatching(parsed, axis); body != "" {
			analysis[axis] = body
			continue
		}
		analysis[axis] = profileComparison(axis, itemNames)
	}
	return analysis
}

func sectionBodyMatching(parsed models.ParsedMarkdown, keyword string) string {
	for _, section := range parsed.Sections {
		if strings.Contains(strings.ToLower(section.Title), keyword) {
			if body := joinContent(section.Content); body != "" {
				return body
			}
		}
	}
	return ""
}

func profileComparison(axis string, itemNames []string) string {
	var parts []string
	for _, item := range itemNames {
		profile, ok := profileFor(item)
		if !ok {
			continue
		}
		switch axis {
		case "feel":
			parts = append(parts, fmt.Sprintf("%s: %s", item, profile.feelDescription))
		case "sound":
			parts = append(parts, fmt.Sprintf("%s: %s", item, profile.soundProfile))
		case "performance":
			parts = append(parts, fmt.Sprintf("%s: %s", item, profile.recommendation))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("No direct %s comparison available for %s.", axis, strings.Join(itemNames, " and "))
	}
	return strings.Join(parts, " ")
}
