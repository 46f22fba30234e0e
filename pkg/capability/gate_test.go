// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package capability

import (
	"context"
	"testing"

	"github.com/inkwell-cms/inkwell/pkg/errors"
)

func TestStaticCallerFlatGrant(t *testing.T) {
	caller := NewStaticCaller("agent", "edit_posts")

	if !caller.HasCapability(context.Background(), "edit_posts", GlobalScope) {
		t.Errorf("expected flat grant to allow unscoped check")
	}
	if !caller.HasCapability(context.Background(), "edit_posts", 42) {
		t.Errorf("expected flat grant to cover every resource")
	}
	if caller.HasCapability(context.Background(), "publish_posts", GlobalScope) {
		t.Errorf("expected missing grant to deny")
	}
}

func TestStaticCallerResourceGrant(t *testing.T) {
	caller := NewStaticCaller("agent").GrantForResource("read_post", 7)

	if !caller.HasCapability(context.Background(), "read_post", 7) {
		t.Errorf("expected resource grant to allow its resource")
	}
	if caller.HasCapability(context.Background(), "read_post", 8) {
		t.Errorf("expected resource grant to be scoped")
	}
	if caller.HasCapability(context.Background(), "read_post", GlobalScope) {
		t.Errorf("expected resource grant not to satisfy unscoped check")
	}
}

func TestAuthorizeAllow(t *testing.T) {
	pred := func(ctx context.Context, caller Caller, input map[string]any) error {
		return nil
	}
	if err := Authorize(context.Background(), pred, NewStaticCaller("agent"), nil); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestAuthorizeDeny(t *testing.T) {
	pred := func(ctx context.Context, caller Caller, input map[string]any) error {
		return errors.New(errors.CodePermissionDenied, "missing edit_posts", nil)
	}
	err := Authorize(context.Background(), pred, NewStaticCaller("agent"), nil)
	if !errors.HasCode(err, errors.CodePermissionDenied) {
		t.Fatalf("expected PERMISSION_DENIED, got %v", err)
	}
	// The denial reason must not leak to the caller.
	ie := errors.AsInkwellError(err)
	if ie.Message != "caller is not allowed to perform this operation" {
		t.Errorf("denial leaked predicate detail: %q", ie.Message)
	}
}

func TestAuthorizePanicIsDeny(t *testing.T) {
	pred := func(ctx context.Context, caller Caller, input map[string]any) error {
		panic("predicate bug")
	}
	err := Authorize(context.Background(), pred, NewStaticCaller("agent"), nil)
	if !errors.HasCode(err, errors.CodePermissionDenied) {
		t.Fatalf("expected fail-closed deny, got %v", err)
	}
}

func TestAuthorizeNilPredicateIsDeny(t *testing.T) {
	err := Authorize(context.Background(), nil, NewStaticCaller("agent"), nil)
	if !errors.HasCode(err, errors.CodePermissionDenied) {
		t.Fatalf("expected deny for nil predicate, got %v", err)
	}
}

func TestAuthorizeResourceNotFoundPassesThrough(t *testing.T) {
	pred := func(ctx context.Context, caller Caller, input map[string]any) error {
		return errors.New(errors.CodeResourceNotFound, "post 99 not found", nil)
	}
	err := Authorize(context.Background(), pred, NewStaticCaller("agent"), nil)
	if !errors.HasCode(err, errors.CodeResourceNotFound) {
		t.Fatalf("expected RESOURCE_NOT_FOUND passthrough, got %v", err)
	}
}
