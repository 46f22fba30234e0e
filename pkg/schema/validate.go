// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"math"
)

// Violation classifies a validation failure.
type Violation string

const (
	MissingRequiredField Violation = "missing_required_field"
	TypeMismatch         Violation = "type_mismatch"
	EnumViolation        Violation = "enum_violation"
	RangeViolation       Violation = "range_violation"
)

// ValidationError reports a single validation failure with the offending
// field path. Validation stops at the first failure.
type ValidationError struct {
	Violation Violation
	Path      string
	Message   string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Path, e.Message, e.Violation)
}

// Validate checks raw against an object schema and returns a normalized copy
// with schema defaults applied. The raw map is never mutated. Properties not
// declared in the schema pass through unchanged (open schema). Out-of-range
// numbers are an error here; clamping, when wanted, is an ability-level
// policy applied after validation.
func Validate(s *Schema, raw map[string]any) (map[string]any, error) {
	if s == nil || s.Type != KindObject {
		return nil, &ValidationError{
			Violation: TypeMismatch,
			Path:      "$",
			Message:   "input schema must be an object schema",
		}
	}

	out := make(map[string]any, len(raw)+len(s.Properties))
	for k, v := range raw {
		out[k] = v
	}

	// Defaults before the required check, so a defaulted field satisfies it.
	for name, prop := range s.Properties {
		if prop.Default == nil {
			continue
		}
		if _, present := out[name]; !present {
			out[name] = prop.Default
		}
	}

	for _, name := range s.Required {
		if _, present := out[name]; !present {
			return nil, &ValidationError{
				Violation: MissingRequiredField,
				Path:      name,
				Message:   fmt.Sprintf("required field %q is missing", name),
			}
		}
	}

	for name, prop := range s.Properties {
		value, present := out[name]
		if !present {
			continue
		}
		if err := validateValue(prop, value, name); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func validateValue(s *Schema, value any, path string) error {
	if !kindMatches(s, value) {
		return &ValidationError{
			Violation: TypeMismatch,
			Path:      path,
			Message:   fmt.Sprintf("expected %s, got %T", expectedKinds(s), value),
		}
	}

	if len(s.Enum) > 0 {
		str, ok := value.(string)
		if ok && !enumContains(s.Enum, str) {
			return &ValidationError{
				Violation: EnumViolation,
				Path:      path,
				Message:   fmt.Sprintf("value %q is not one of %v", str, s.Enum),
			}
		}
	}

	if s.Minimum != nil || s.Maximum != nil {
		if num, ok := numericValue(value); ok {
			if s.Minimum != nil && num < *s.Minimum {
				return &ValidationError{
					Violation: RangeViolation,
					Path:      path,
					Message:   fmt.Sprintf("value %v is below minimum %v", num, *s.Minimum),
				}
			}
			if s.Maximum != nil && num > *s.Maximum {
				return &ValidationError{
					Violation: RangeViolation,
					Path:      path,
					Message:   fmt.Sprintf("value %v is above maximum %v", num, *s.Maximum),
				}
			}
		}
	}

	switch effectiveKind(s, value) {
	case KindArray:
		if s.Items == nil {
			return nil
		}
		items, _ := value.([]any)
		for i, item := range items {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			if err := validateValue(s.Items, item, itemPath); err != nil {
				return err
			}
		}
	case KindObject:
		if len(s.Properties) == 0 {
			return nil
		}
		obj, _ := value.(map[string]any)
		for name, prop := range s.Properties {
			sub, present := obj[name]
			if !present {
				continue
			}
			if err := validateValue(prop, sub, path+"."+name); err != nil {
				return err
			}
		}
	}

	return nil
}

func kindMatches(s *Schema, value any) bool {
	kinds := s.Types
	if len(kinds) == 0 {
		kinds = []Kind{s.Type}
	}
	for _, kind := range kinds {
		if valueIsKind(kind, value) {
			return true
		}
	}
	return false
}

// effectiveKind resolves the kind the value matched when alternatives are
// declared, so container validation descends correctly.
func effectiveKind(s *Schema, value any) Kind {
	if len(s.Types) == 0 {
		return s.Type
	}
	for _, kind := range s.Types {
		if valueIsKind(kind, value) {
			return kind
		}
	}
	return s.Type
}

// valueIsKind applies strict typing: numeric strings never satisfy integer,
// and floats only satisfy integer when they carry no fraction (JSON decoding
// yields float64 for every number).
func valueIsKind(kind Kind, value any) bool {
	switch kind {
	case KindString:
		_, ok := value.(string)
		return ok
	case KindBoolean:
		_, ok := value.(bool)
		return ok
	case KindInteger:
		switch n := value.(type) {
		case int, int32, int64:
			return true
		case float64:
			return n == math.Trunc(n)
		}
		return false
	case KindArray:
		_, ok := value.([]any)
		return ok
	case KindObject:
		_, ok := value.(map[string]any)
		return ok
	}
	return false
}

func expectedKinds(s *Schema) string {
	if len(s.Types) == 0 {
		return string(s.Type)
	}
	out := ""
	for i, kind := range s.Types {
		if i > 0 {
			out += " or "
		}
		out += string(kind)
	}
	return out
}

func enumContains(enum []string, value string) bool {
	for _, v := range enum {
		if v == value {
			return true
		}
	}
	return false
}

func numericValue(value any) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
