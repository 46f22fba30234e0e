// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const seedYAML = `types:
  - slug: recipe
    label: Recipes
    public: true
    caps:
      create: create_recipes
      edit: edit_recipes
      publish: publish_recipes
      read: read_recipes

posts:
  - title: Welcome
    content: First post
    status: publish
    tags: [hello, intro]
  - post_type: recipe
    title: Bread
    status: nonsense
    categories: [4]
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}
	return path
}

func TestLoadSeed(t *testing.T) {
	seed, err := LoadSeed(writeSeed(t, seedYAML))
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	if len(seed.Types) != 1 || seed.Types[0].Slug != "recipe" {
		t.Errorf("unexpected types: %+v", seed.Types)
	}
	if len(seed.Posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(seed.Posts))
	}
	if seed.Posts[0].Title != "Welcome" || len(seed.Posts[0].Tags) != 2 {
		t.Errorf("unexpected first post: %+v", seed.Posts[0])
	}
	if seed.Types[0].Caps.Publish != "publish_recipes" {
		t.Errorf("unexpected caps: %+v", seed.Types[0].Caps)
	}
}

func TestLoadSeedRejectsMissingSlug(t *testing.T) {
	_, err := LoadSeed(writeSeed(t, "types:\n  - label: Broken\n"))
	if err == nil {
		t.Fatal("expected error for type without slug")
	}
}

func TestLoadSeedRejectsMissingTitle(t *testing.T) {
	_, err := LoadSeed(writeSeed(t, "posts:\n  - content: no title\n"))
	if err == nil {
		t.Fatal("expected error for post without title")
	}
}

func TestApplySeed(t *testing.T) {
	ctx := context.Background()
	types := NewTypeSet(GenericType())
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "inkwell.db"), types)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	seed, err := LoadSeed(writeSeed(t, seedYAML))
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	if err := ApplySeed(ctx, store, types, seed); err != nil {
		t.Fatalf("ApplySeed failed: %v", err)
	}

	// The declared type is registered.
	td, err := store.ResolveType("recipe")
	if err != nil {
		t.Fatalf("ResolveType failed: %v", err)
	}
	if td.Caps.Create != "create_recipes" {
		t.Errorf("unexpected recipe caps: %+v", td.Caps)
	}

	// First post lands in generic with its tags.
	posts, err := store.QueryResources(ctx, Query{Type: "generic", Status: StatusPublish, Limit: 10})
	if err != nil {
		t.Fatalf("QueryResources failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "Welcome" {
		t.Fatalf("unexpected generic posts: %v", posts)
	}
	if len(posts[0].Tags) != 2 {
		t.Errorf("expected 2 tags, got %v", posts[0].Tags)
	}

	// Second post's unknown status falls back to draft.
	recipes, err := store.QueryResources(ctx, Query{Type: "recipe", Status: StatusDraft, Limit: 10})
	if err != nil {
		t.Fatalf("QueryResources failed: %v", err)
	}
	if len(recipes) != 1 || recipes[0].Title != "Bread" {
		t.Fatalf("unexpected recipe posts: %v", recipes)
	}
	if len(recipes[0].Categories) != 1 || recipes[0].Categories[0] != 4 {
		t.Errorf("unexpected categories: %v", recipes[0].Categories)
	}
}

func TestApplySeedUnknownType(t *testing.T) {
	ctx := context.Background()
	types := NewTypeSet(GenericType())
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "inkwell.db"), types)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	seed := &SeedFile{Posts: []SeedPost{{Type: "widget", Title: "Orphan"}}}
	if err := ApplySeed(ctx, store, types, seed); err == nil {
		t.Fatal("expected error for unknown post type")
	}
}
