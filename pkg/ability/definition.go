// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// Package ability implements the ability registry and its invocation
// pipeline: named, schema-described, permission-gated operations that an
// external adapter can enumerate and invoke uniformly.
package ability

import (
	"context"
	"regexp"

	"github.com/inkwell-cms/inkwell/pkg/capability"
	"github.com/inkwell-cms/inkwell/pkg/schema"
)

// ID names an ability, namespaced as <category>/<operation>.
type ID string

var idPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*/[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Valid reports whether the id matches the <category>/<operation> shape.
func (id ID) Valid() bool {
	return idPattern.MatchString(string(id))
}

// Category returns the category half of the id.
func (id ID) Category() string {
	for i := 0; i < len(id); i++ {
		if id[i] == '/' {
			return string(id[:i])
		}
	}
	return string(id)
}

// Operation returns the operation half of the id.
func (id ID) Operation() string {
	for i := 0; i < len(id); i++ {
		if id[i] == '/' {
			return string(id[i+1:])
		}
	}
	return ""
}

// Visibility controls whether an ability is advertised to adapters.
type Visibility string

const (
	// VisibilityPublic abilities are listed and invocable by adapters.
	VisibilityPublic Visibility = "public"
	// VisibilityInternal abilities are invocable but never listed.
	VisibilityInternal Visibility = "internal"
)

// Annotations are informational hints about an ability's side effects.
// They are advertised to adapters, never enforced.
type Annotations struct {
	ReadOnly    bool
	Destructive bool
	Idempotent  bool
}

// ExecuteFunc performs the ability's work against validated input. It may
// perform side effects against the content store. The caller is threaded
// explicitly so execution never reaches for ambient identity.
type ExecuteFunc func(ctx context.Context, caller capability.Caller, input map[string]any) (any, error)

// Definition bundles everything the registry needs to enumerate, validate,
// authorize, and invoke one ability. Definitions are immutable once
// registered; the registry keeps its own copy.
type Definition struct {
	ID           ID
	Label        string
	Description  string
	InputSchema  *schema.Schema
	OutputSchema *schema.Schema
	Permission   capability.Predicate
	Execute      ExecuteFunc
	Annotations  Annotations
	Visibility   Visibility
}

// Category groups abilities for discovery. It has no behavioral effect.
type Category struct {
	ID          string
	Label       string
	Description string
}
