// internal/transform/standard.go
package transform

import (
	"context"
	"strings"

	apperrors "switch-pipeline/internal/common/errors"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/models"
)

// StandardTransformer builds the standard_answer shape for questions that fit
// none of the structured types. The query type is inferred from the wording.
type StandardTransformer struct {
	logger logger.Logger
}

func (t *StandardTransformer) Transform(ctx context.Context, parsed models.ParsedMarkdown) (map[string]interface{}, []string, error) {
	title := extractTitle(parsed)
	mainAnswer := extractOverview(parsed)
	if title == "" || mainAnswer == "" {
		return nil, nil, apperrors.NewInsufficientContentError("markdown yields no title or answer body")
	}

	content := map[string]interface{}{
		"mainAnswer": mainAnswer,
	}
	if points := extractKeyPoints(parsed); len(points) > 0 {
		content["additionalPoints"] = points
	}

	data := map[string]interface{}{
		"title":     title,
		"queryType": inferQueryType(parsed.Raw),
		"content":   content,
	}

	return data, nil, nil
}

func inferQueryType(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case containsAny(lower, "recommend", "best ", "which should", "suggest"):
		return "recommendation"
	case containsAny(lower, "fix", "problem", "issue", "troubleshoot", "not working"):
		return "troubleshooting"
	case containsAny(lower, "how to", "how do", "guide", "step"):
		return "how_to"
	default:
		return "informational"
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
