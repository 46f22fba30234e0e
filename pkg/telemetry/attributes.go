// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for Inkwell telemetry. The invocation pipeline and
// metrics share these so spans, metrics and logs stay correlatable.
const (
	AttrAbilityID    = "inkwell.ability.id"
	AttrInvocationID = "inkwell.invocation.id"
	AttrCallerID     = "inkwell.caller.id"
	AttrStage        = "inkwell.invocation.stage"
	AttrErrorCode    = "inkwell.error.code"
)

// Ability returns a standard attribute set for one ability invocation.
func Ability(abilityID, invocationID, callerID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrAbilityID, abilityID),
		attribute.String(AttrInvocationID, invocationID),
		attribute.String(AttrCallerID, callerID),
	}
}
