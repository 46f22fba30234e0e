// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema describes and validates ability inputs and outputs with a
// small JSON-Schema-like vocabulary: typed properties, required fields,
// enums, numeric bounds, defaults, and typed array items.
package schema

import (
	"encoding/json"
)

// Kind is the declared type of a schema node.
type Kind string

const (
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
)

// Schema is one node of a schema tree. Object nodes carry Properties, array
// nodes carry Items. Items may declare alternative kinds via Types (e.g. a
// tag list accepting names or numeric ids).
type Schema struct {
	Type        Kind
	Types       []Kind
	Description string
	Properties  map[string]*Schema
	Items       *Schema
	Required    []string
	Enum        []string
	Default     any
	Minimum     *float64
	Maximum     *float64
}

// Object builds an object schema from its properties.
func Object(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: KindObject, Properties: props, Required: required}
}

// String builds a string schema with a description.
func String(desc string) *Schema {
	return &Schema{Type: KindString, Description: desc}
}

// Integer builds an integer schema with a description.
func Integer(desc string) *Schema {
	return &Schema{Type: KindInteger, Description: desc}
}

// Boolean builds a boolean schema with a description.
func Boolean(desc string) *Schema {
	return &Schema{Type: KindBoolean, Description: desc}
}

// Array builds an array schema with the given item schema.
func Array(desc string, items *Schema) *Schema {
	return &Schema{Type: KindArray, Description: desc, Items: items}
}

// WithDefault returns the schema with a default value set.
func (s *Schema) WithDefault(v any) *Schema {
	s.Default = v
	return s
}

// WithEnum returns the schema constrained to the given values.
func (s *Schema) WithEnum(values ...string) *Schema {
	s.Enum = values
	return s
}

// WithBounds returns the schema constrained to [min, max].
func (s *Schema) WithBounds(min, max float64) *Schema {
	s.Minimum = &min
	s.Maximum = &max
	return s
}

// MarshalJSON renders the schema in JSON Schema draft shape so adapters can
// advertise it to external callers verbatim.
func (s *Schema) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)
	if len(s.Types) > 0 {
		out["type"] = s.Types
	} else if s.Type != "" {
		out["type"] = s.Type
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		out["properties"] = s.Properties
	}
	if s.Items != nil {
		out["items"] = s.Items
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Default != nil {
		out["default"] = s.Default
	}
	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		out["maximum"] = *s.Maximum
	}
	return json.Marshal(out)
}
