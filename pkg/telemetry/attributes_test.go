// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import "testing"

func TestAbilityAttributes(t *testing.T) {
	attrs := Ability("posts/create", "inv-1", "agent")
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if string(attrs[0].Key) != AttrAbilityID || attrs[0].Value.AsString() != "posts/create" {
		t.Errorf("unexpected ability attribute: %v", attrs[0])
	}
	if string(attrs[1].Key) != AttrInvocationID || attrs[1].Value.AsString() != "inv-1" {
		t.Errorf("unexpected invocation attribute: %v", attrs[1])
	}
	if string(attrs[2].Key) != AttrCallerID || attrs[2].Value.AsString() != "agent" {
		t.Errorf("unexpected caller attribute: %v", attrs[2])
	}
}
