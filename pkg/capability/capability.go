// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// Package capability models caller identity and the permission gate that
// every ability invocation passes through.
package capability

import (
	"context"
	"strings"
)

// GlobalScope is the resource id used for checks that are not scoped to a
// specific resource.
const GlobalScope int64 = 0

// Caller is the identity and capability set of whoever invokes an ability.
// Implementations must be side-effect free: a capability check may be
// evaluated many times per call.
type Caller interface {
	// ID identifies the caller for logs and audit.
	ID() string

	// HasCapability reports whether the caller holds the named capability,
	// optionally scoped to a specific resource (GlobalScope for unscoped).
	HasCapability(ctx context.Context, name string, resourceID int64) bool
}

// StaticCaller is a Caller backed by a fixed grant set. A flat grant covers
// every resource; a resource grant covers exactly one. This is the identity
// model for headless adapters configured at boot.
type StaticCaller struct {
	id             string
	grants         map[string]bool
	resourceGrants map[string]map[int64]bool
}

// NewStaticCaller builds a caller holding the given flat grants.
func NewStaticCaller(id string, grants ...string) *StaticCaller {
	c := &StaticCaller{
		id:             id,
		grants:         make(map[string]bool, len(grants)),
		resourceGrants: make(map[string]map[int64]bool),
	}
	for _, grant := range grants {
		grant = strings.TrimSpace(grant)
		if grant != "" {
			c.grants[grant] = true
		}
	}
	return c
}

// ID returns the caller identifier.
func (c *StaticCaller) ID() string {
	return c.id
}

// Grant adds flat capabilities to the caller.
func (c *StaticCaller) Grant(names ...string) *StaticCaller {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			c.grants[name] = true
		}
	}
	return c
}

// GrantForResource adds a capability scoped to a single resource.
func (c *StaticCaller) GrantForResource(name string, resourceID int64) *StaticCaller {
	name = strings.TrimSpace(name)
	if name == "" {
		return c
	}
	if c.resourceGrants[name] == nil {
		c.resourceGrants[name] = make(map[int64]bool)
	}
	c.resourceGrants[name][resourceID] = true
	return c
}

// HasCapability implements Caller.
func (c *StaticCaller) HasCapability(_ context.Context, name string, resourceID int64) bool {
	if c.grants[name] {
		return true
	}
	if resourceID == GlobalScope {
		return false
	}
	return c.resourceGrants[name][resourceID]
}

var _ Caller = (*StaticCaller)(nil)
