// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkwell-cms/inkwell/pkg/ability"
	"github.com/inkwell-cms/inkwell/pkg/capability"
	"github.com/inkwell-cms/inkwell/pkg/errors"
	"github.com/inkwell-cms/inkwell/pkg/schema"
)

const (
	AbilityCreate ability.ID = "posts/create"
	AbilityUpdate ability.ID = "posts/update"
	AbilityGet    ability.ID = "posts/get"
	AbilityFind   ability.ID = "posts/find"
)

const (
	defaultFindLimit = 10
	minFindLimit     = 1
	maxFindLimit     = 50
)

var findOrderings = map[string]bool{
	"date":     true,
	"title":    true,
	"id":       true,
	"modified": true,
}

// RegisterAbilities registers the posts category and the four content
// abilities against the given store. Called once at boot.
func RegisterAbilities(reg *ability.Registry, store Store) error {
	if err := reg.RegisterCategory(ability.Category{
		ID:          "posts",
		Label:       "Posts",
		Description: "Create, update, retrieve and search content",
	}); err != nil {
		return err
	}

	defs := []ability.Definition{
		createDefinition(store),
		updateDefinition(store),
		getDefinition(store),
		findDefinition(store),
	}
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// postOutputSchema is the advertised shape of a single post result. It is
// contract documentation for adapters, not a runtime gate.
func postOutputSchema() *schema.Schema {
	return schema.Object(map[string]*schema.Schema{
		"id":         schema.Integer("Post id"),
		"post_type":  schema.String("Post type slug"),
		"title":      schema.String("Post title"),
		"content":    schema.String("Post body"),
		"excerpt":    schema.String("Post excerpt"),
		"status":     schema.String("Publication status"),
		"categories": schema.Array("Category ids", schema.Integer("")),
		"tags":       schema.Array("Tag names", schema.String("")),
	})
}

func postToOutput(post *Post) map[string]any {
	return map[string]any{
		"id":         post.ID,
		"post_type":  post.Type,
		"title":      post.Title,
		"content":    post.Content,
		"excerpt":    post.Excerpt,
		"status":     string(post.Status),
		"categories": post.Categories,
		"tags":       post.Tags,
	}
}

// --- create -----------------------------------------------------------------

func createDefinition(store Store) ability.Definition {
	inputSchema := schema.Object(map[string]*schema.Schema{
		"title":     schema.String("Post title"),
		"content":   schema.String("Post body").WithDefault(""),
		"excerpt":   schema.String("Post excerpt").WithDefault(""),
		"post_type": schema.String("Target post type").WithDefault("generic"),
		// status is deliberately not enum-constrained: an unknown value
		// falls back to draft instead of erroring.
		"status":     schema.String("Requested publication status").WithDefault(string(StatusDraft)),
		"categories": schema.Array("Category ids to assign", schema.Integer("")),
		"tags":       schema.Array("Tags to assign, by name or id", &schema.Schema{Types: []schema.Kind{schema.KindString, schema.KindInteger}}),
	}, "title")

	return ability.Definition{
		ID:           AbilityCreate,
		Label:        "Create post",
		Description:  "Creates a new post and assigns its categories and tags",
		InputSchema:  inputSchema,
		OutputSchema: postOutputSchema(),
		Annotations:  ability.Annotations{},
		Visibility:   ability.VisibilityPublic,
		Permission:   createPermission(store),
		Execute:      createExecute(store),
	}
}

// createPermission is the two-tier gate: the base create capability of the
// target type, escalated by the publish capability when the requested status
// implies publication-equivalent visibility.
func createPermission(store Store) capability.Predicate {
	return func(ctx context.Context, caller capability.Caller, input map[string]any) error {
		td, err := store.ResolveType(requestedType(input))
		if err != nil {
			return err
		}
		if !caller.HasCapability(ctx, td.Caps.Create, capability.GlobalScope) {
			return errors.New(errors.CodePermissionDenied,
				fmt.Sprintf("missing %s", td.Caps.Create), nil)
		}
		if status, ok := stringField(input, "status"); ok && elevatedStatus(status) {
			if !caller.HasCapability(ctx, td.Caps.Publish, capability.GlobalScope) {
				return errors.New(errors.CodePermissionDenied,
					fmt.Sprintf("missing %s", td.Caps.Publish), nil)
			}
		}
		return nil
	}
}

func createExecute(store Store) ability.ExecuteFunc {
	return func(ctx context.Context, caller capability.Caller, input map[string]any) (any, error) {
		td, err := resolvePublicType(store, requestedType(input))
		if err != nil {
			return nil, err
		}

		status := StatusDraft
		if s, ok := stringField(input, "status"); ok && ValidStatus(s) {
			status = Status(s)
		}

		post := NewPost{
			Type:       td.Slug,
			Title:      mustString(input, "title"),
			Content:    mustString(input, "content"),
			Excerpt:    mustString(input, "excerpt"),
			Status:     status,
			Categories: intList(input, "categories"),
		}

		id, err := store.CreateResource(ctx, post)
		if err != nil {
			return nil, storeErr("create post", err)
		}

		// Tag assignment is a second mutation. When it fails the post
		// already exists; that partial success is surfaced as an error
		// carrying the new id, never hidden.
		if tags := tagList(input); len(tags) > 0 {
			if err := store.SetTags(ctx, id, tags); err != nil {
				return nil, errors.New(errors.CodePartialFailure,
					"post was created but tag assignment failed", err).
					WithContext("post_id", id)
			}
		}

		created, err := store.GetResource(ctx, id)
		if err != nil {
			return nil, storeErr("load created post", err)
		}
		return postToOutput(created), nil
	}
}

// --- update -----------------------------------------------------------------

func updateDefinition(store Store) ability.Definition {
	inputSchema := schema.Object(map[string]*schema.Schema{
		"id":      schema.Integer("Post id"),
		"title":   schema.String("New title"),
		"content": schema.String("New body"),
		"excerpt": schema.String("New excerpt"),
		"status":  schema.String("New publication status"),
	}, "id")

	return ability.Definition{
		ID:           AbilityUpdate,
		Label:        "Update post",
		Description:  "Applies a partial update to an existing post; absent fields stay untouched",
		InputSchema:  inputSchema,
		OutputSchema: postOutputSchema(),
		Annotations:  ability.Annotations{Idempotent: true},
		Visibility:   ability.VisibilityPublic,
		Permission:   updatePermission(store),
		Execute:      updateExecute(store),
	}
}

// updatePermission loads the target post first: a missing post reports
// RESOURCE_NOT_FOUND before any authorization verdict. Status escalation is
// checked against the existing post's type.
func updatePermission(store Store) capability.Predicate {
	return func(ctx context.Context, caller capability.Caller, input map[string]any) error {
		id, ok := intField(input, "id")
		if !ok {
			return errors.New(errors.CodePermissionDenied, "post id is required", nil)
		}
		post, err := store.GetResource(ctx, id)
		if err != nil {
			return err
		}
		td, err := store.ResolveType(post.Type)
		if err != nil {
			return err
		}
		if !caller.HasCapability(ctx, td.Caps.Edit, post.ID) {
			return errors.New(errors.CodePermissionDenied,
				fmt.Sprintf("missing %s", td.Caps.Edit), nil)
		}
		if status, ok := stringField(input, "status"); ok && elevatedStatus(status) {
			if !caller.HasCapability(ctx, td.Caps.Publish, capability.GlobalScope) {
				return errors.New(errors.CodePermissionDenied,
					fmt.Sprintf("missing %s", td.Caps.Publish), nil)
			}
		}
		return nil
	}
}

func updateExecute(store Store) ability.ExecuteFunc {
	return func(ctx context.Context, caller capability.Caller, input map[string]any) (any, error) {
		id, _ := intField(input, "id")

		var patch PostPatch
		if v, ok := stringField(input, "title"); ok {
			patch.Title = &v
		}
		if v, ok := stringField(input, "content"); ok {
			patch.Content = &v
		}
		if v, ok := stringField(input, "excerpt"); ok {
			patch.Excerpt = &v
		}
		// An out-of-enum status is ignored rather than coerced: a patch
		// must never destroy the post's existing state.
		if v, ok := stringField(input, "status"); ok && ValidStatus(v) {
			status := Status(v)
			patch.Status = &status
		}

		if !patch.Empty() {
			if err := store.UpdateResource(ctx, id, patch); err != nil {
				return nil, storeErr("update post", err)
			}
		}

		updated, err := store.GetResource(ctx, id)
		if err != nil {
			return nil, storeErr("load updated post", err)
		}
		return postToOutput(updated), nil
	}
}

// --- get --------------------------------------------------------------------

func getDefinition(store Store) ability.Definition {
	inputSchema := schema.Object(map[string]*schema.Schema{
		"id": schema.Integer("Post id"),
	}, "id")

	return ability.Definition{
		ID:           AbilityGet,
		Label:        "Get post",
		Description:  "Retrieves a single post by id",
		InputSchema:  inputSchema,
		OutputSchema: postOutputSchema(),
		Annotations:  ability.Annotations{ReadOnly: true, Idempotent: true},
		Visibility:   ability.VisibilityPublic,
		Permission:   getPermission(store),
		Execute:      getExecute(store),
	}
}

// getPermission scopes the read capability to the specific post, not just
// its type.
func getPermission(store Store) capability.Predicate {
	return func(ctx context.Context, caller capability.Caller, input map[string]any) error {
		id, ok := intField(input, "id")
		if !ok {
			return errors.New(errors.CodePermissionDenied, "post id is required", nil)
		}
		post, err := store.GetResource(ctx, id)
		if err != nil {
			return err
		}
		td, err := store.ResolveType(post.Type)
		if err != nil {
			return err
		}
		if !caller.HasCapability(ctx, td.Caps.Read, post.ID) {
			return errors.New(errors.CodePermissionDenied,
				fmt.Sprintf("missing %s", td.Caps.Read), nil)
		}
		return nil
	}
}

func getExecute(store Store) ability.ExecuteFunc {
	return func(ctx context.Context, caller capability.Caller, input map[string]any) (any, error) {
		id, _ := intField(input, "id")
		post, err := store.GetResource(ctx, id)
		if err != nil {
			return nil, err
		}
		return postToOutput(post), nil
	}
}

// --- find -------------------------------------------------------------------

func findDefinition(store Store) ability.Definition {
	inputSchema := schema.Object(map[string]*schema.Schema{
		"search":    schema.String("Free-text search over title and body"),
		"post_type": schema.String("Post type to search").WithDefault("generic"),
		// status/orderby/order fall back to their defaults on unknown
		// values; only post_type is strict.
		"status":  schema.String("Publication status filter").WithDefault(string(StatusPublish)),
		"limit":   schema.Integer("Maximum results, clamped to [1, 50]").WithDefault(defaultFindLimit),
		"orderby": schema.String("Sort key: date, title, id, modified").WithDefault("date"),
		"order":   schema.String("Sort direction: ASC or DESC").WithDefault("DESC"),
	})

	return ability.Definition{
		ID:           AbilityFind,
		Label:        "Find posts",
		Description:  "Searches posts; results are filtered to what the caller may read",
		InputSchema:  inputSchema,
		OutputSchema: schema.Array("Matching posts", postOutputSchema()),
		Annotations:  ability.Annotations{ReadOnly: true, Idempotent: true},
		Visibility:   ability.VisibilityPublic,
		Permission:   findPermission(),
		Execute:      findExecute(store),
	}
}

// findPermission always allows: authorization happens per result, after the
// store query, so a caller with no read grants simply gets an empty page.
func findPermission() capability.Predicate {
	return func(ctx context.Context, caller capability.Caller, input map[string]any) error {
		return nil
	}
}

func findExecute(store Store) ability.ExecuteFunc {
	return func(ctx context.Context, caller capability.Caller, input map[string]any) (any, error) {
		td, err := resolvePublicType(store, requestedType(input))
		if err != nil {
			return nil, err
		}

		status := StatusPublish
		if s, ok := stringField(input, "status"); ok && ValidStatus(s) {
			status = Status(s)
		}

		orderBy := "date"
		if s, ok := stringField(input, "orderby"); ok && findOrderings[s] {
			orderBy = s
		}

		order := "DESC"
		if s, ok := stringField(input, "order"); ok {
			if upper := strings.ToUpper(s); upper == "ASC" || upper == "DESC" {
				order = upper
			}
		}

		limit := defaultFindLimit
		if n, ok := intField(input, "limit"); ok {
			limit = int(n)
		}
		if limit < minFindLimit {
			limit = minFindLimit
		}
		if limit > maxFindLimit {
			limit = maxFindLimit
		}

		search, _ := stringField(input, "search")
		posts, err := store.QueryResources(ctx, Query{
			Search:  search,
			Type:    td.Slug,
			Status:  status,
			Limit:   limit,
			OrderBy: orderBy,
			Order:   order,
		})
		if err != nil {
			return nil, storeErr("query posts", err)
		}

		// Capability filtering happens after store-level pagination: the
		// page may shrink below limit, it is never re-queried.
		out := make([]map[string]any, 0, len(posts))
		for _, post := range posts {
			if !caller.HasCapability(ctx, td.Caps.Read, post.ID) {
				continue
			}
			out = append(out, postToOutput(post))
		}
		return out, nil
	}
}

// --- input helpers ----------------------------------------------------------

func requestedType(input map[string]any) string {
	if s, ok := stringField(input, "post_type"); ok {
		return s
	}
	return "generic"
}

func resolvePublicType(store Store, slug string) (*TypeDescriptor, error) {
	td, err := store.ResolveType(slug)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidInput,
			fmt.Sprintf("unknown post type %q", slug), err)
	}
	if !td.Public {
		return nil, errors.New(errors.CodeInvalidInput,
			fmt.Sprintf("post type %q is not available", slug), nil)
	}
	return td, nil
}

func stringField(input map[string]any, key string) (string, bool) {
	v, ok := input[key].(string)
	return v, ok
}

func mustString(input map[string]any, key string) string {
	v, _ := input[key].(string)
	return v
}

func intField(input map[string]any, key string) (int64, bool) {
	switch n := input[key].(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func intList(input map[string]any, key string) []int64 {
	items, ok := input[key].([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		switch n := item.(type) {
		case int:
			out = append(out, int64(n))
		case int64:
			out = append(out, n)
		case float64:
			out = append(out, int64(n))
		}
	}
	return out
}

// tagList normalizes the heterogeneous tags input: names stay names,
// numeric ids become their decimal form for the store to resolve.
func tagList(input map[string]any) []string {
	items, ok := input["tags"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case int:
			out = append(out, fmt.Sprintf("%d", v))
		case int64:
			out = append(out, fmt.Sprintf("%d", v))
		case float64:
			out = append(out, fmt.Sprintf("%d", int64(v)))
		}
	}
	return out
}

func storeErr(op string, err error) error {
	if ie, ok := err.(*errors.InkwellError); ok {
		return ie
	}
	return errors.New(errors.CodeStoreError, op+" failed", err)
}
