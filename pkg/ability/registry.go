// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package ability

import (
	"fmt"
	"sync"

	"github.com/inkwell-cms/inkwell/pkg/errors"
	"github.com/inkwell-cms/inkwell/pkg/schema"
	"github.com/inkwell-cms/inkwell/pkg/telemetry"
)

// Registry maps ability ids to definitions. Registration happens once during
// boot; after that the registry is read-only and lookups need no
// coordination. Re-registering an id is an error, not an overwrite: boot
// wiring bugs should surface loudly.
type Registry struct {
	mu            sync.RWMutex
	categories    map[string]Category
	categoryOrder []string
	abilities     map[ID]*Definition
	order         []ID

	metrics *telemetry.InvocationMetrics
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		categories: make(map[string]Category),
		abilities:  make(map[ID]*Definition),
	}
}

// SetMetrics attaches invocation metrics. Call before serving traffic.
func (r *Registry) SetMetrics(m *telemetry.InvocationMetrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = m
}

// RegisterCategory registers a discovery category.
func (r *Registry) RegisterCategory(cat Category) error {
	if cat.ID == "" {
		return errors.New(errors.CodeInvalidDefinition, "category id is required", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.categories[cat.ID]; exists {
		return errors.New(errors.CodeDuplicateCategory,
			fmt.Sprintf("category %q is already registered", cat.ID), nil)
	}
	r.categories[cat.ID] = cat
	r.categoryOrder = append(r.categoryOrder, cat.ID)
	return nil
}

// Register adds an ability definition to the registry.
func (r *Registry) Register(def Definition) error {
	if err := validateDefinition(def); err != nil {
		return err
	}
	if def.Visibility == "" {
		def.Visibility = VisibilityPublic
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.abilities[def.ID]; exists {
		return errors.New(errors.CodeDuplicateAbility,
			fmt.Sprintf("ability %q is already registered", def.ID), nil)
	}
	stored := def
	r.abilities[def.ID] = &stored
	r.order = append(r.order, def.ID)
	return nil
}

// MustRegister registers a definition and panics on error. Boot-phase sugar.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

func validateDefinition(def Definition) error {
	if !def.ID.Valid() {
		return errors.New(errors.CodeInvalidDefinition,
			fmt.Sprintf("ability id %q must be <category>/<operation>", def.ID), nil)
	}
	if def.InputSchema == nil || def.InputSchema.Type != schema.KindObject {
		return errors.New(errors.CodeInvalidDefinition,
			fmt.Sprintf("ability %q needs an object input schema", def.ID), nil)
	}
	if def.Permission == nil {
		return errors.New(errors.CodeInvalidDefinition,
			fmt.Sprintf("ability %q needs a permission predicate", def.ID), nil)
	}
	if def.Execute == nil {
		return errors.New(errors.CodeInvalidDefinition,
			fmt.Sprintf("ability %q needs an execute function", def.ID), nil)
	}
	return nil
}

// Get returns the definition registered under id.
func (r *Registry) Get(id ID) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.abilities[id]
	if !ok {
		return nil, errors.New(errors.CodeAbilityNotFound,
			fmt.Sprintf("ability %q is not registered", id), nil)
	}
	return def, nil
}

// ListFilter narrows a List call. Zero values match everything.
type ListFilter struct {
	Category   string
	Visibility Visibility
}

// List returns a snapshot of matching definitions in registration order.
// The returned slice is independent of the registry: iteration never
// observes later registrations.
func (r *Registry) List(filter ListFilter) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, 0, len(r.order))
	for _, id := range r.order {
		def := r.abilities[id]
		if filter.Category != "" && def.ID.Category() != filter.Category {
			continue
		}
		if filter.Visibility != "" && def.Visibility != filter.Visibility {
			continue
		}
		out = append(out, def)
	}
	return out
}

// Categories returns registered categories in registration order.
func (r *Registry) Categories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, 0, len(r.categoryOrder))
	for _, id := range r.categoryOrder {
		out = append(out, r.categories[id])
	}
	return out
}
