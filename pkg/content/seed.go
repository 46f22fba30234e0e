// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package content

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile declares post types and posts to load into the store at boot.
type SeedFile struct {
	Types []SeedType `yaml:"types"`
	Posts []SeedPost `yaml:"posts"`
}

// SeedType declares one post type.
type SeedType struct {
	Slug   string `yaml:"slug"`
	Label  string `yaml:"label"`
	Public bool   `yaml:"public"`
	Caps   struct {
		Create  string `yaml:"create"`
		Edit    string `yaml:"edit"`
		Publish string `yaml:"publish"`
		Read    string `yaml:"read"`
	} `yaml:"caps"`
}

// SeedPost declares one post.
type SeedPost struct {
	Type       string   `yaml:"post_type"`
	Title      string   `yaml:"title"`
	Content    string   `yaml:"content"`
	Excerpt    string   `yaml:"excerpt"`
	Status     string   `yaml:"status"`
	Categories []int64  `yaml:"categories"`
	Tags       []string `yaml:"tags"`
}

// LoadSeed parses a seed file.
func LoadSeed(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, t := range seed.Types {
		if t.Slug == "" {
			return nil, fmt.Errorf("seed type %d: slug is required", i)
		}
	}
	for i, p := range seed.Posts {
		if p.Title == "" {
			return nil, fmt.Errorf("seed post %d: title is required", i)
		}
	}
	return &seed, nil
}

// ApplySeed registers the declared types and creates the declared posts.
// A seed failure aborts boot; seeding half a catalog is worse than not
// starting.
func ApplySeed(ctx context.Context, store Store, types *TypeSet, seed *SeedFile) error {
	for _, t := range seed.Types {
		label := t.Label
		if label == "" {
			label = t.Slug
		}
		types.Register(TypeDescriptor{
			Slug:   t.Slug,
			Label:  label,
			Public: t.Public,
			Caps: Caps{
				Create:  t.Caps.Create,
				Edit:    t.Caps.Edit,
				Publish: t.Caps.Publish,
				Read:    t.Caps.Read,
			},
		})
	}

	for _, p := range seed.Posts {
		postType := p.Type
		if postType == "" {
			postType = "generic"
		}
		if _, err := store.ResolveType(postType); err != nil {
			return fmt.Errorf("seed post %q: %w", p.Title, err)
		}
		status := StatusDraft
		if ValidStatus(p.Status) {
			status = Status(p.Status)
		}
		id, err := store.CreateResource(ctx, NewPost{
			Type:       postType,
			Title:      p.Title,
			Content:    p.Content,
			Excerpt:    p.Excerpt,
			Status:     status,
			Categories: p.Categories,
		})
		if err != nil {
			return fmt.Errorf("seed post %q: %w", p.Title, err)
		}
		if len(p.Tags) > 0 {
			if err := store.SetTags(ctx, id, p.Tags); err != nil {
				return fmt.Errorf("seed post %q tags: %w", p.Title, err)
			}
		}
	}
	return nil
}
