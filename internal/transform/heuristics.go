// internal/transform/heuristics.go
package transform

import (
	"regexp"
	"strings"

	"switch-pipeline/internal/models"
)

// emphasisKeywords mark sentences worth surfacing as key points when the
// markdown carries no bulleted lists.
var emphasisKeywords = []string{
	"important", "key", "should", "must", "recommended", "recommend",
	"essential", "note that", "best",
}

var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// extractTitle returns the first significant heading, or the first sentence
// of the first non-empty line when the markdown has no headings.
func extractTitle(parsed models.ParsedMarkdown) string {
	for _, section := range parsed.Sections {
		if title := strings.TrimSpace(section.Title); title != "" {
			return title
		}
	}
	line := firstNonEmptyLine(parsed.Raw)
	if line == "" {
		return ""
	}
	return firstSentence(line)
}

// extractOverview returns the first section's body, or the first paragraph of
// the raw text when no section has content.
func extractOverview(parsed models.ParsedMarkdown) string {
	for _, section := range parsed.Sections {
		if body := joinContent(section.Content); body != "" {
			return body
		}
	}
	return firstParagraph(parsed.Raw)
}

// extractKeyPoints returns all bulleted list items in source order. Without
// lists it falls back to sentences carrying an emphasis keyword.
func extractKeyPoints(parsed models.ParsedMarkdown) []string {
	var points []string
	for _, list := range parsed.Lists {
		if list.Type == models.ListTypeBulleted {
			points = append(points, list.Items...)
		}
	}
	if len(points) > 0 {
		return points
	}

	for _, sentence := range splitSentences(parsed.Raw) {
		lower := strings.ToLower(sentence)
		for _, keyword := range emphasisKeywords {
			if strings.Contains(lower, keyword) {
				points = append(points, sentence)
				break
			}
		}
	}
	return points
}

// allListItems returns every list item, bulleted and numbered, in source order.
func allListItems(parsed models.ParsedMarkdown) []string {
	var items []string
	for _, list := range parsed.Lists {
		items = append(items, list.Items...)
	}
	return items
}

func firstNonEmptyLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(stripMarkdownDecoration(line))
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func firstParagraph(raw string) string {
	var lines []string
	started := false
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(stripMarkdownDecoration(line))
		if trimmed == "" {
			if started {
				break
			}
			continue
		}
		started = true
		lines = append(lines, trimmed)
	}
	return strings.Join(lines, " ")
}

func firstSentence(text string) string {
	if loc := sentenceBoundary.FindStringIndex(text); loc != nil {
		return strings.TrimSpace(text[:loc[0]+1])
	}
	return strings.TrimSpace(text)
}

func splitSentences(text string) []string {
	var sentences []string
	for _, part := range sentenceBoundary.Split(text, -1) {
		trimmed := strings.TrimSpace(stripMarkdownDecoration(part))
		if trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

func joinContent(lines []string) string {
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(stripMarkdownDecoration(line))
		if trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, " ")
}

var markdownDecoration = strings.NewReplacer("**", "", "__", "", "`", "")

// stripMarkdownDecoration drops heading markers, list markers and inline
// emphasis so extracted text reads as plain prose.
func stripMarkdownDecoration(line string) string {
	trimmed := strings.TrimLeft(line, "# \t")
	trimmed = strings.TrimLeft(trimmed, "-*+ \t")
	return markdownDecoration.Replace(trimmed)
}
