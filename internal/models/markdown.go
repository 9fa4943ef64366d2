// internal/models/markdown.go
package models

// ParsedMarkdown is the order-preserving structural decomposition of one
// markdown document. It is built once per pipeline invocation and never
// mutated afterwards; every transformer reads only this, never raw strings.
type ParsedMarkdown struct {
	Sections []Section        `json:"sections"`
	Tables   []Table          `json:"tables"`
	Lists    []List           `json:"lists"`
	Raw      string           `json:"raw"`
	Metadata MarkdownMetadata `json:"metadata"`
}

// Section is a heading plus the body lines that follow it up to the next
// heading. Level is the number of leading '#' characters.
type Section struct {
	Level     int      `json:"level"`
	Title     string   `json:"title"`
	Content   []string `json:"content"`
	StartLine int      `json:"startLine"`
}

// Table holds a pipe-delimited table as rows of header-keyed fields.
type Table struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// ListType classifies a list by its first line's marker.
type ListType string

const (
	ListTypeBulleted ListType = "bulleted"
	ListTypeNumbered ListType = "numbered"
)

// List is a contiguous run of bullet or numbered lines.
type List struct {
	Type      ListType `json:"type"`
	Items     []string `json:"items"`
	StartLine int      `json:"startLine"`
}

type MarkdownMetadata struct {
	TotalLines int `json:"totalLines"`
}

// HasStructure reports whether the parse found any sections, tables or lists.
func (p *ParsedMarkdown) HasStructure() bool {
	return len(p.Sections) > 0 || len(p.Tables) > 0 || len(p.Lists) > 0
}
