// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// Package content provides the content-management abilities (create, update,
// get, find posts) and the store collaborators they delegate to.
package content

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-cms/inkwell/pkg/errors"
)

// Status is a post's publication state.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusPublish Status = "publish"
	StatusPrivate Status = "private"
	StatusPending Status = "pending"
)

// ValidStatus reports whether s is a known publication state.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusDraft, StatusPublish, StatusPrivate, StatusPending:
		return true
	}
	return false
}

// elevatedStatus reports whether the status implies publication-equivalent
// visibility and therefore needs the publish capability.
func elevatedStatus(s string) bool {
	return Status(s) == StatusPublish || Status(s) == StatusPrivate
}

// Post is the unit of content manipulated by the abilities.
type Post struct {
	ID         int64
	Type       string
	Title      string
	Content    string
	Excerpt    string
	Status     Status
	Categories []int64
	Tags       []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Caps names the capabilities gating operations on one post type.
type Caps struct {
	Create  string
	Edit    string
	Publish string
	Read    string
}

// TypeDescriptor describes a registered post type.
type TypeDescriptor struct {
	Slug   string
	Label  string
	Public bool
	Caps   Caps
}

// GenericType is the built-in post type every deployment carries.
func GenericType() TypeDescriptor {
	return TypeDescriptor{
		Slug:   "generic",
		Label:  "Posts",
		Public: true,
		Caps: Caps{
			Create:  "create_posts",
			Edit:    "edit_posts",
			Publish: "publish_posts",
			Read:    "read_posts",
		},
	}
}

// NewPost carries the typed fields of a create operation.
type NewPost struct {
	Type       string
	Title      string
	Content    string
	Excerpt    string
	Status     Status
	Categories []int64
}

// PostPatch carries a partial update: nil fields stay untouched.
type PostPatch struct {
	Title   *string
	Content *string
	Excerpt *string
	Status  *Status
}

// Empty reports whether the patch changes nothing.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Excerpt == nil && p.Status == nil
}

// Query selects posts for the find ability.
type Query struct {
	Search  string
	Type    string
	Status  Status
	Limit   int
	OrderBy string // date, title, id, modified
	Order   string // ASC, DESC
}

// Store is the content store collaborator. Implementations report missing
// resources with a RESOURCE_NOT_FOUND error and every other failure as a
// STORE_ERROR.
type Store interface {
	CreateResource(ctx context.Context, post NewPost) (int64, error)
	UpdateResource(ctx context.Context, id int64, patch PostPatch) error
	GetResource(ctx context.Context, id int64) (*Post, error)
	QueryResources(ctx context.Context, q Query) ([]*Post, error)
	SetTags(ctx context.Context, id int64, tags []string) error
	ResolveType(slug string) (*TypeDescriptor, error)
}

// TypeSet is an in-memory post type registry, populated at boot.
type TypeSet struct {
	types map[string]TypeDescriptor
}

// NewTypeSet builds a type set holding the given descriptors.
func NewTypeSet(types ...TypeDescriptor) *TypeSet {
	ts := &TypeSet{types: make(map[string]TypeDescriptor, len(types))}
	for _, td := range types {
		ts.types[td.Slug] = td
	}
	return ts
}

// Register adds a post type. Later registrations win; boot-only by
// convention, like ability registration.
func (ts *TypeSet) Register(td TypeDescriptor) {
	ts.types[td.Slug] = td
}

// Resolve returns the descriptor for slug.
func (ts *TypeSet) Resolve(slug string) (*TypeDescriptor, error) {
	td, ok := ts.types[slug]
	if !ok {
		return nil, errors.New(errors.CodeResourceNotFound,
			fmt.Sprintf("post type %q is not registered", slug), nil)
	}
	return &td, nil
}
