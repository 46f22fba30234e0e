// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package capability

import (
	"context"

	"github.com/inkwell-cms/inkwell/pkg/errors"
)

// Predicate decides whether a caller may invoke an ability with the given
// raw input. nil means allow. Predicates may read the caller's capabilities
// and load referenced resources, but must not perform writes. A predicate
// that needs the target resource to decide returns a RESOURCE_NOT_FOUND
// error when it does not exist; that error reaches the caller verbatim.
type Predicate func(ctx context.Context, caller Caller, input map[string]any) error

// Authorize evaluates a predicate fail-closed. Every failure mode other than
// a missing resource collapses into PERMISSION_DENIED, deliberately without
// detail: a caller learns that it was denied, not why. Decisions are never
// cached since resource state may change between invocations.
func Authorize(ctx context.Context, pred Predicate, caller Caller, input map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = denied()
		}
	}()

	if pred == nil || caller == nil {
		return denied()
	}

	perr := pred(ctx, caller, input)
	if perr == nil {
		return nil
	}
	if errors.HasCode(perr, errors.CodeResourceNotFound) {
		return perr
	}
	return denied()
}

func denied() error {
	return errors.New(errors.CodePermissionDenied, "caller is not allowed to perform this operation", nil)
}
