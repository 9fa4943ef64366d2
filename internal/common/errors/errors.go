// Package errors provides the standardized error classification used by the
// response pipeline. Classifications are plain values passed between the
// transform stages and the retry orchestrator; they never escape the pipeline
// boundary, which always terminates in a structurally valid response.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Error Codes
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input-stage errors. Never retried.
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodeUnknownResponseType ErrorCode = "UNKNOWN_RESPONSE_TYPE"

	// Transform-stage errors.
	ErrCodeTransformerFailed       ErrorCode = "TRANSFORMER_FAILED"
	ErrCodeInsufficientContent     ErrorCode = "INSUFFICIENT_CONTENT"
	ErrCodeContentValidationFailed ErrorCode = "CONTENT_VALIDATION_FAILED"

	// Output-stage errors.
	ErrCodeInvalidOutputStructure ErrorCode = "INVALID_OUTPUT_STRUCTURE"

	// Catalog errors. Degrade silently; never surfaced as pipeline failures.
	ErrCodeCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"
)

// ==========================
// 2. Classification
// ==========================

// Classification is a structured pipeline error. Retryable controls whether
// the orchestrator attempts the transform again before falling back.
type Classification struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (c *Classification) Error() string {
	return fmt.Sprintf("Classification[%s]: %s", c.Code, c.Message)
}

// ==========================
// 3. Constructors
// ==========================

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *Classification {
	return &Classification{
		Code:      ErrCodeInvalidInput,
		Message:   "Input markdown failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownResponseTypeError creates a non-retryable response type error.
func NewUnknownResponseTypeError(responseType string) *Classification {
	return &Classification{
		Code:      ErrCodeUnknownResponseType,
		Message:   "Unknown response type",
		Details:   fmt.Sprintf("responseType: %s", responseType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransformerFailedError creates a retryable transform error.
func NewTransformerFailedError(responseType string, err error) *Classification {
	return &Classification{
		Code:      ErrCodeTransformerFailed,
		Message:   "Transformer execution failed",
		Details:   fmt.Sprintf("responseType: %s, error: %s", responseType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInsufficientContentError creates a non-retryable content error: retrying
// the same parse over the same markdown cannot produce more content.
func NewInsufficientContentError(details string) *Classification {
	return &Classification{
		Code:      ErrCodeInsufficientContent,
		Message:   "Markdown does not carry enough content for this response type",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewContentValidationFailedError creates a non-retryable content error.
func NewContentValidationFailedError(details string) *Classification {
	return &Classification{
		Code:      ErrCodeContentValidationFailed,
		Message:   "Extracted content failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidOutputStructureError creates a retryable output validation error.
func NewInvalidOutputStructureError(missingFields []string) *Classification {
	return &Classification{
		Code:      ErrCodeInvalidOutputStructure,
		Message:   "Transformer output missing required fields",
		Details:   fmt.Sprintf("missingFields: %v", missingFields),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogUnavailableError creates a catalog refresh error. Retryable is
// false because the cache degrades to its previous snapshot or seed list
// instead of failing the invocation.
func NewCatalogUnavailableError(err error) *Classification {
	return &Classification{
		Code:      ErrCodeCatalogUnavailable,
		Message:   "Catalog store unavailable",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// nonRetryableTransformCodes are the transform failures that short-circuit
// straight to fallback: their cause is the input, not the attempt.
var nonRetryableTransformCodes = map[ErrorCode]bool{
	ErrCodeUnknownResponseType:     true,
	ErrCodeInsufficientContent:     true,
	ErrCodeContentValidationFailed: true,
}

// IsRetryable reports whether the orchestrator should attempt the transform
// again for this classification.
func IsRetryable(c *Classification) bool {
	if c == nil {
		return false
	}
	if nonRetryableTransformCodes[c.Code] {
		return false
	}
	return c.Retryable
}

// Classify wraps an arbitrary error into a Classification. Already-classified
// errors pass through unchanged; anything else becomes a retryable
// TRANSFORMER_FAILED.
func Classify(responseType string, err error) *Classification {
	if err == nil {
		return nil
	}
	if c, ok := err.(*Classification); ok {
		return c
	}
	return NewTransformerFailedError(responseType, err)
}
