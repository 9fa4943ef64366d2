// internal/models/response.go
package models

import "time"

// ResponseType selects which transformer and required-field set apply to one
// pipeline invocation. The set is closed; anything else fails input validation.
type ResponseType string

const (
	ResponseTypeSingleItemInfo   ResponseType = "single_item_info"
	ResponseTypeComparison       ResponseType = "comparison"
	ResponseTypeCharacteristics  ResponseType = "characteristics_explanation"
	ResponseTypeMaterialAnalysis ResponseType = "material_analysis"
	ResponseTypeStandardAnswer   ResponseType = "standard_answer"
)

// KnownResponseTypes lists every valid ResponseType in a fixed order.
var KnownResponseTypes = []ResponseType{
	ResponseTypeSingleItemInfo,
	ResponseTypeComparison,
	ResponseTypeCharacteristics,
	ResponseTypeMaterialAnalysis,
	ResponseTypeStandardAnswer,
}

// IsKnown reports whether rt is a member of the closed enumeration.
func (rt ResponseType) IsKnown() bool {
	for _, known := range KnownResponseTypes {
		if rt == known {
			return true
		}
	}
	return false
}

// TransformInput is the upstream contract from the LLM-calling collaborator.
type TransformInput struct {
	Markdown     string                 `json:"markdown"`
	ResponseType ResponseType           `json:"responseType"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// StructuredContent is the pipeline's only output shape. Data's keys depend on
// ResponseType; every shape carries at least a title. Metadata carries quality
// signals (confidence, warnings) the HTTP layer may surface to the end user.
type StructuredContent struct {
	ResponseType ResponseType           `json:"responseType"`
	Data         map[string]interface{} `json:"data"`
	Version      string                 `json:"version"`
	GeneratedAt  time.Time              `json:"generatedAt"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}
