// Package validate checks transformer output against the declared shape for
// its response type before it leaves the pipeline.
package validate

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"switch-pipeline/internal/models"
)

// Result reports whether data satisfies its response type's contract and, if
// not, which required fields are missing or malformed.
type Result struct {
	IsValid       bool
	MissingFields []string
}

// Validator holds one compiled JSON schema per response type.
type Validator struct {
	schemas map[models.ResponseType]*gojsonschema.Schema
}

// New compiles the per-type schemas. Compilation happens once at startup; a
// schema that fails to compile is a programming error.
func New() (*Validator, error) {
	v := &Validator{schemas: make(map[models.ResponseType]*gojsonschema.Schema)}
	for responseType, schemaMap := range schemaDefinitions() {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema for %s: %w", responseType, err)
		}
		v.schemas[responseType] = schema
	}
	return v, nil
}

// Validate checks data against the schema for responseType. Unknown response
// types validate against nothing and are reported invalid.
func (v *Validator) Validate(data map[string]interface{}, responseType models.ResponseType) Result {
	schema, ok := v.schemas[responseType]
	if !ok {
		return Result{IsValid: false, MissingFields: []string{"responseType"}}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return Result{IsValid: false, MissingFields: []string{"(document unparseable)"}}
	}
	if result.Valid() {
		return Result{IsValid: true}
	}

	fields := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields = append(fields, fieldFromError(desc))
	}
	return Result{IsValid: false, MissingFields: fields}
}

func fieldFromError(desc gojsonschema.ResultError) string {
	if property, ok := desc.Details()["property"].(string); ok {
		if field := desc.Field(); field != "" && field != "(root)" {
			return field + "." + property
		}
		return property
	}
	return desc.Field()
}

func schemaDefinitions() map[models.ResponseType]map[string]interface{} {
	nonEmptyString := map[string]interface{}{"type": "string", "minLength": 1}
	stringArray := func(minItems int) map[string]interface{} {
		return map[string]interface{}{
			"type":     "array",
			"items":    map[string]interface{}{"type": "string"},
			"minItems": minItems,
		}
	}

	return map[models.ResponseType]map[string]interface{}{
		models.ResponseTypeSingleItemInfo: {
			"type":     "object",
			"required": []string{"title", "overview"},
			"properties": map[string]interface{}{
				"title":    nonEmptyString,
				"overview": nonEmptyString,
			},
		},
		models.ResponseTypeComparison: {
			"type":     "object",
			"required": []string{"title", "itemNames", "overview"},
			"properties": map[string]interface{}{
				"title":     nonEmptyString,
				"itemNames": stringArray(1),
				"overview":  nonEmptyString,
			},
		},
		models.ResponseTypeCharacteristics: {
			"type":     "object",
			"required": []string{"title", "characteristicsExplained", "overview"},
			"properties": map[string]interface{}{
				"title":                    nonEmptyString,
				"characteristicsExplained": stringArray(1),
				"overview":                 nonEmptyString,
			},
		},
		models.ResponseTypeMaterialAnalysis: {
			"type":     "object",
			"required": []string{"title", "materialsAnalyzed", "overview"},
			"properties": map[string]interface{}{
				"title":             nonEmptyString,
				"materialsAnalyzed": stringArray(1),
				"overview":          nonEmptyString,
			},
		},
		models.ResponseTypeStandardAnswer: {
			"type":     "object",
			"required": []string{"title", "queryType", "content"},
			"properties": map[string]interface{}{
				"title":     nonEmptyString,
				"queryType": nonEmptyString,
				"content": map[string]interface{}{
					"type":     "object",
					"required": []string{"mainAnswer"},
					"properties": map[string]interface{}{
						"mainAnswer": nonEmptyString,
					},
				},
			},
		},
	}
}

// MissingFieldsMessage renders missing fields for error details.
func MissingFieldsMessage(fields []string) string {
	return strings.Join(fields, ", ")
}
