// Package markdown converts an LLM's free-form markdown answer into the
// ordered structural representation the response transformers operate on.
// Parsing is total: input without headings, tables or lists yields empty
// collections and the full text in Raw.
package markdown

import (
	"regexp"
	"strings"

	"switch-pipeline/internal/models"
)

var (
	headingPattern  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletPattern   = regexp.MustCompile(`^\s*[-*+]\s+(.*)$`)
	numberedPattern = regexp.MustCompile(`^\s*\d+[.)]\s+(.*)$`)
	// Table separator rows like |---|:---:| carry no data.
	separatorPattern = regexp.MustCompile(`^\s*\|?[\s:|-]+\|?\s*$`)
)

// Parse decomposes markdown into sections, tables and lists, preserving
// source order. Start lines are 1-based and monotonically non-decreasing
// within each collection.
func Parse(raw string) models.ParsedMarkdown {
	lines := strings.Split(raw, "\n")

	parsed := models.ParsedMarkdown{
		Sections: []models.Section{},
		Tables:   []models.Table{},
		Lists:    []models.List{},
		Raw:      raw,
		Metadata: models.MarkdownMetadata{TotalLines: len(lines)},
	}

	var current *models.Section

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			if current != nil {
				parsed.Sections = append(parsed.Sections, *current)
			}
			current = &models.Section{
				Level:     len(m[1]),
				Title:     strings.TrimSpace(m[2]),
				Content:   []string{},
				StartLine: i + 1,
			}
			continue
		}

		if isTableLine(line) {
			table, consumed := parseTable(lines, i)
			if len(table.Headers) > 0 {
				parsed.Tables = append(parsed.Tables, table)
			}
			if current != nil {
				current.Content = append(current.Content, lines[i:i+consumed]...)
			}
			i += consumed - 1
			continue
		}

		if listType, ok := listMarker(line); ok {
			list, consumed := parseList(lines, i, listType)
			parsed.Lists = append(parsed.Lists, list)
			if current != nil {
				current.Content = append(current.Content, lines[i:i+consumed]...)
			}
			i += consumed - 1
			continue
		}

		if current != nil {
			current.Content = append(current.Content, line)
		}
	}

	if current != nil {
		parsed.Sections = append(parsed.Sections, *current)
	}

	return parsed
}

func isTableLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "|") && strings.Count(trimmed, "|") >= 2
}

// parseTable consumes the contiguous run of pipe-delimited lines starting at
// start. The first data row is the header; separator rows are skipped. Returns
// the table and the number of lines consumed.
func parseTable(lines []string, start int) (models.Table, int) {
	table := models.Table{Headers: []string{}, Rows: []map[string]string{}}

	end := start
	for end < len(lines) && isTableLine(lines[end]) {
		end++
	}

	for i := start; i < end; i++ {
		if separatorPattern.MatchString(lines[i]) {
			continue
		}
		cells := splitTableRow(lines[i])
		if len(table.Headers) == 0 {
			table.Headers = cells
			continue
		}
		row := make(map[string]string, len(table.Headers))
		for j, header := range table.Headers {
			if j < len(cells) {
				row[header] = cells[j]
			} else {
				row[header] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, end - start
}

func splitTableRow(line string) []string {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

func listMarker(line string) (models.ListType, bool) {
	if bulletPattern.MatchString(line) {
		return models.ListTypeBulleted, true
	}
	if numberedPattern.MatchString(line) {
		return models.ListTypeNumbered, true
	}
	return "", false
}

// parseList consumes the contiguous run of list lines starting at start. The
// whole run is classified by the first line's marker.
func parseList(lines []string, start int, listType models.ListType) (models.List, int) {
	list := models.List{
		Type:      listType,
		Items:     []string{},
		StartLine: start + 1,
	}

	end := start
	for end < len(lines) {
		if _, ok := listMarker(lines[end]); !ok {
			break
		}
		list.Items = append(list.Items, listItemText(lines[end]))
		end++
	}

	return list, end - start
}

func listItemText(line string) string {
	if m := bulletPattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := numberedPattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(line)
}
