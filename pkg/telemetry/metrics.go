// SPDX-License-Identifier: Apache-2.0
// Package telemetry provides observability for the ability pipeline:
// slog configuration, OpenTelemetry SDK wiring, and invocation metrics.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/inkwell-cms/inkwell/pkg/errors"
)

// InvocationMetrics tracks ability invocation rates, failures, and latency.
// All methods are nil-safe so wiring metrics stays optional.
type InvocationMetrics struct {
	// invocationCounter tracks total invocations by ability and outcome
	invocationCounter metric.Int64Counter

	// errorCounter tracks failures by ability and error code
	errorCounter metric.Int64Counter

	// durationHistogram tracks end-to-end invocation latency
	durationHistogram metric.Float64Histogram
}

// NewInvocationMetrics creates an invocation metrics tracker with OTEL meters.
func NewInvocationMetrics(ctx context.Context) (*InvocationMetrics, error) {
	meter := otel.Meter("inkwell/ability")

	invocationCounter, err := meter.Int64Counter(
		"inkwell.ability.invocations",
		metric.WithDescription("Total ability invocations by ability id and outcome"),
	)
	if err != nil {
		return nil, err
	}

	errorCounter, err := meter.Int64Counter(
		"inkwell.ability.errors",
		metric.WithDescription("Failed ability invocations by ability id and error code"),
	)
	if err != nil {
		return nil, err
	}

	durationHistogram, err := meter.Float64Histogram(
		"inkwell.ability.duration",
		metric.WithDescription("Ability invocation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &InvocationMetrics{
		invocationCounter: invocationCounter,
		errorCounter:      errorCounter,
		durationHistogram: durationHistogram,
	}, nil
}

// RecordInvocation records one completed invocation. code is empty on
// success.
func (im *InvocationMetrics) RecordInvocation(ctx context.Context, abilityID string, code errors.ErrorCode, elapsed time.Duration) {
	if im == nil {
		return
	}

	outcome := "success"
	if code != "" {
		outcome = "error"
	}

	im.invocationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrAbilityID, abilityID),
			attribute.String("outcome", outcome),
		),
	)
	im.durationHistogram.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(
			attribute.String(AttrAbilityID, abilityID),
			attribute.String("outcome", outcome),
		),
	)
	if code != "" {
		im.errorCounter.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String(AttrAbilityID, abilityID),
				attribute.String(AttrErrorCode, string(code)),
			),
		)
	}
}
