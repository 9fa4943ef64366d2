// Package pipeline runs the markdown-to-structured-response transformation:
// input validation, bounded transform retries, output validation, and
// guaranteed fallback. No error ever escapes Transform; every terminal state
// yields a StructuredContent.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"switch-pipeline/internal/common/config"
	apperrors "switch-pipeline/internal/common/errors"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/common/metrics"
	"switch-pipeline/internal/common/observability"
	"switch-pipeline/internal/markdown"
	"switch-pipeline/internal/models"
	"switch-pipeline/internal/transform"
	"switch-pipeline/internal/validate"
)

// Version stamps every StructuredContent this build produces.
const Version = "1.0.0"

// Orchestrator drives one transformation per call. It is stateless between
// invocations; the catalog cache behind the resolver is the only shared
// state.
type Orchestrator struct {
	registry  *transform.Registry
	validator *validate.Validator
	fallback  *FallbackGenerator
	obs       *observability.Observability
	logger    logger.Logger
	cfg       config.PipelineConfig
}

func NewOrchestrator(
	registry *transform.Registry,
	validator *validate.Validator,
	fallback *FallbackGenerator,
	obs *observability.Observability,
	log logger.Logger,
	cfg config.PipelineConfig,
) *Orchestrator {
	return &Orchestrator{
		registry:  registry,
		validator: validator,
		fallback:  fallback,
		obs:       obs,
		logger:    log,
		cfg:       cfg,
	}
}

// Transform turns one markdown answer into a StructuredContent. Input
// validation failures and non-retryable transform failures go straight to
// fallback; retryable failures get up to cfg.MaxRetries immediate retries
// before fallback. The returned content is always schema-valid for its shape.
func (o *Orchestrator) Transform(ctx context.Context, input models.TransformInput) models.StructuredContent {
	requestID := uuid.NewString()
	log := o.logger.WithFields(map[string]interface{}{
		"requestId":    requestID,
		"responseType": string(input.ResponseType),
	})
	start := time.Now()
	defer func() {
		metrics.PipelineDuration.WithLabelValues(string(input.ResponseType)).Observe(time.Since(start).Seconds())
		if o.obs != nil {
			o.obs.RecordDuration(ctx, time.Since(start), string(input.ResponseType))
		}
	}()

	if classification := o.validateInput(input); classification != nil {
		log.Warn("input validation failed", map[string]interface{}{
			"code":    string(classification.Code),
			"details": classification.Details,
		})
		return o.fallbackContent(ctx, input, requestID, classification, log)
	}

	parsed := markdown.Parse(input.Markdown)
	transformer, _ := o.registry.ForType(input.ResponseType)

	maxAttempts := o.cfg.MaxRetries + 1
	var lastFailure *apperrors.Classification

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		metrics.PipelineAttempts.WithLabelValues(string(input.ResponseType)).Inc()

		data, warnings, err := o.runTransformer(ctx, transformer, parsed, input.ResponseType)
		if err == nil {
			result := o.validator.Validate(data, input.ResponseType)
			if !result.IsValid {
				err = apperrors.NewInvalidOutputStructureError(result.MissingFields)
			} else {
				metrics.PipelineTransforms.WithLabelValues(string(input.ResponseType), "success").Inc()
				if o.obs != nil {
					o.obs.RecordInvocation(ctx, string(input.ResponseType), "success")
				}
				log.Info("transform succeeded", map[string]interface{}{
					"attempt": attempt,
				})
				return o.successContent(input, requestID, data, warnings)
			}
		}

		lastFailure = apperrors.Classify(string(input.ResponseType), err)
		log.Warn("transform attempt failed", map[string]interface{}{
			"attempt":   attempt,
			"code":      string(lastFailure.Code),
			"retryable": apperrors.IsRetryable(lastFailure),
			"details":   lastFailure.Details,
		})

		if !apperrors.IsRetryable(lastFailure) {
			break
		}
		// Retry immediately: the failure is attempt-local, not load-related,
		// so a delay buys nothing inside a synchronous request.
	}

	return o.fallbackContent(ctx, input, requestID, lastFailure, log)
}

// runTransformer isolates one transform attempt, converting a panic into a
// retryable classification.
func (o *Orchestrator) runTransformer(ctx context.Context, t transform.Transformer, parsed models.ParsedMarkdown, rt models.ResponseType) (data map[string]interface{}, warnings []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewTransformerFailedError(string(rt), fmt.Errorf("panic: %v", r))
		}
	}()
	return t.Transform(ctx, parsed)
}

func (o *Orchestrator) validateInput(input models.TransformInput) *apperrors.Classification {
	length := len(input.Markdown)
	switch {
	case length == 0:
		return apperrors.NewInvalidInputError("markdown is empty")
	case length < o.cfg.MinMarkdownLength:
		return apperrors.NewInvalidInputError(fmt.Sprintf("markdown too short: %d chars, minimum %d", length, o.cfg.MinMarkdownLength))
	case length > o.cfg.MaxMarkdownLength:
		return apperrors.NewInvalidInputError(fmt.Sprintf("markdown too long: %d chars, maximum %d", length, o.cfg.MaxMarkdownLength))
	}
	if !input.ResponseType.IsKnown() {
		return apperrors.NewUnknownResponseTypeError(string(input.ResponseType))
	}
	return nil
}

func (o *Orchestrator) successContent(input models.TransformInput, requestID string, data map[string]interface{}, warnings []string) models.StructuredContent {
	metadata := map[string]interface{}{
		"requestId": requestID,
	}
	if len(warnings) > 0 {
		metadata["warnings"] = warnings
	}
	return models.StructuredContent{
		ResponseType: input.ResponseType,
		Data:         data,
		Version:      Version,
		GeneratedAt:  time.Now().UTC(),
		Metadata:     metadata,
	}
}

// fallbackContent produces the terminal degraded response. Its metadata
// always carries confidence 0 and the warnings explaining the degradation.
func (o *Orchestrator) fallbackContent(ctx context.Context, input models.TransformInput, requestID string, cause *apperrors.Classification, log logger.Logger) models.StructuredContent {
	code := "UNKNOWN"
	if cause != nil {
		code = string(cause.Code)
	}
	metrics.PipelineFallbacks.WithLabelValues(string(input.ResponseType), code).Inc()
	metrics.PipelineTransforms.WithLabelValues(string(input.ResponseType), "fallback").Inc()
	if o.obs != nil {
		o.obs.RecordInvocation(ctx, string(input.ResponseType), "fallback")
	}

	data, warnings := o.fallback.Generate(ctx, input.Markdown, input.ResponseType, cause)
	log.Info("fallback response generated", map[string]interface{}{
		"code": code,
	})

	metadata := map[string]interface{}{
		"requestId":  requestID,
		"confidence": 0.0,
		"warnings":   warnings,
	}
	if cause != nil {
		metadata["error"] = cause.Message
	}

	return models.StructuredContent{
		ResponseType: input.ResponseType,
		Data:         data,
		Version:      Version,
		GeneratedAt:  time.Now().UTC(),
		Metadata:     metadata,
	}
}
