// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package ability

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/inkwell-cms/inkwell/pkg/capability"
	"github.com/inkwell-cms/inkwell/pkg/errors"
	"github.com/inkwell-cms/inkwell/pkg/schema"
	"github.com/inkwell-cms/inkwell/pkg/telemetry"
)

// Stage names a step of the invocation pipeline. Failures carry the stage
// they died in.
type Stage string

const (
	StageLookup    Stage = "lookup"
	StageValidate  Stage = "validate"
	StageAuthorize Stage = "authorize"
	StageExecute   Stage = "execute"
)

// Invoke runs the full pipeline for one ability call: lookup, input
// validation, authorization, execution. Strictly sequential, terminal on the
// first failure. The pipeline performs no retries and imposes no timeout of
// its own; cancellation belongs to the surrounding transport via ctx.
func (r *Registry) Invoke(ctx context.Context, id ID, raw map[string]any, caller capability.Caller) (any, error) {
	invocationID := uuid.NewString()
	started := time.Now()

	tracer := otel.Tracer("inkwell/ability")
	ctx, span := tracer.Start(ctx, "ability.invoke", trace.WithAttributes(
		telemetry.Ability(string(id), invocationID, callerID(caller))...))
	defer span.End()

	output, err := r.invoke(ctx, id, raw, caller, invocationID)

	r.mu.RLock()
	metrics := r.metrics
	r.mu.RUnlock()
	metrics.RecordInvocation(ctx, string(id), errors.CodeOf(err), time.Since(started))

	if err != nil {
		span.SetStatus(codes.Error, string(errors.CodeOf(err)))
		span.SetAttributes(attribute.String(telemetry.AttrErrorCode, string(errors.CodeOf(err))))
		if stage, ok := failingStage(err); ok {
			span.SetAttributes(attribute.String(telemetry.AttrStage, stage))
		}
		slog.WarnContext(ctx, "ability invocation failed",
			"ability", string(id),
			"invocation_id", invocationID,
			"error", err)
		return nil, err
	}

	slog.DebugContext(ctx, "ability invocation succeeded",
		"ability", string(id),
		"invocation_id", invocationID,
		"duration", time.Since(started))
	return output, nil
}

func (r *Registry) invoke(ctx context.Context, id ID, raw map[string]any, caller capability.Caller, invocationID string) (any, error) {
	def, err := r.Get(id)
	if err != nil {
		return nil, annotate(err, StageLookup, invocationID)
	}

	if raw == nil {
		raw = map[string]any{}
	}
	input, verr := schema.Validate(def.InputSchema, raw)
	if verr != nil {
		ierr := errors.New(errors.CodeInvalidInput, verr.Error(), verr)
		if sv, ok := verr.(*schema.ValidationError); ok {
			ierr.WithContext("field", sv.Path).
				WithContext("violation", string(sv.Violation))
		}
		return nil, annotate(ierr, StageValidate, invocationID)
	}

	// Authorization sees the raw input, not the defaulted copy: a predicate
	// gates on what the caller asked for.
	if err := capability.Authorize(ctx, def.Permission, caller, raw); err != nil {
		return nil, annotate(err, StageAuthorize, invocationID)
	}

	output, err := def.Execute(ctx, caller, input)
	if err != nil {
		// Domain errors pass through verbatim, annotated with the stage.
		return nil, annotate(err, StageExecute, invocationID)
	}
	return output, nil
}

func annotate(err error, stage Stage, invocationID string) error {
	if ie, ok := err.(*errors.InkwellError); ok {
		return ie.WithContext("stage", string(stage)).
			WithContext("invocation_id", invocationID)
	}
	return err
}

func failingStage(err error) (string, bool) {
	ie, ok := err.(*errors.InkwellError)
	if !ok {
		return "", false
	}
	stage, ok := ie.Context["stage"].(string)
	return stage, ok
}

func callerID(caller capability.Caller) string {
	if caller == nil {
		return ""
	}
	return caller.ID()
}
