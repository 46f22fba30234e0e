// SPDX-License-Identifier: Apache-2.0
package errors

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("disk full")
	ie := New(CodeStoreError, "store rejected the write", cause)

	if ie.Code != CodeStoreError {
		t.Errorf("expected CodeStoreError, got %v", ie.Code)
	}
	if ie.Message != "store rejected the write" {
		t.Errorf("expected message 'store rejected the write', got %q", ie.Message)
	}
	if ie.Err != cause {
		t.Errorf("expected cause to be preserved")
	}
	if !errors.Is(ie, cause) {
		t.Errorf("expected errors.Is to work with wrapped error")
	}
}

func TestWithContext(t *testing.T) {
	ie := New(CodeInvalidInput, "validation failed", nil)
	ie.WithContext("field", "title").
		WithContext("violation", "missing_required_field")

	if ie.Context["field"] != "title" {
		t.Errorf("expected context field to be 'title'")
	}
	if ie.Context["violation"] == nil {
		t.Errorf("expected context violation to be set")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		ie       *InkwellError
		expected string
	}{
		{
			name:     "with cause",
			ie:       New(CodeStoreError, "insert failed", errors.New("constraint violated")),
			expected: "[STORE_ERROR] insert failed: constraint violated",
		},
		{
			name:     "without cause",
			ie:       New(CodeAbilityNotFound, "unknown ability", nil),
			expected: "[ABILITY_NOT_FOUND] unknown ability",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ie.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestAsInkwellError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "already InkwellError",
			err:      New(CodePermissionDenied, "denied", nil),
			expected: CodePermissionDenied,
		},
		{
			name:     "generic error",
			err:      errors.New("generic error"),
			expected: CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ie := AsInkwellError(tt.err)
			if tt.expected == "" {
				if ie != nil {
					t.Errorf("expected nil for nil error")
				}
			} else {
				if ie == nil {
					t.Errorf("expected non-nil InkwellError")
				} else if ie.Code != tt.expected {
					t.Errorf("expected %v, got %v", tt.expected, ie.Code)
				}
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	ie := New(CodeResourceNotFound, "post 42 not found", nil)
	if !HasCode(ie, CodeResourceNotFound) {
		t.Errorf("expected HasCode to match")
	}
	if HasCode(ie, CodePermissionDenied) {
		t.Errorf("expected HasCode to reject other codes")
	}
	if HasCode(errors.New("plain"), CodeInternal) {
		t.Errorf("expected HasCode to reject untyped errors")
	}
}

func TestMarshalJSONLeaksNothing(t *testing.T) {
	ie := New(CodeStoreError, "insert failed", errors.New("sqlite: disk I/O error at offset 4096"))
	ie.WithContext("ability", "posts/create")

	data, err := json.Marshal(ie)
	if err != nil {
		t.Fatalf("unexpected error marshaling: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("unexpected error unmarshaling: %v", err)
	}

	if result["code"] != "STORE_ERROR" {
		t.Errorf("expected code 'STORE_ERROR', got %v", result["code"])
	}
	if _, leaked := result["error"]; leaked {
		t.Errorf("expected cause to be excluded from JSON form")
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{CodeAbilityNotFound, 404},
		{CodeResourceNotFound, 404},
		{CodePermissionDenied, 403},
		{CodeInvalidInput, 400},
		{CodeDuplicateAbility, 409},
		{CodeInternal, 500},
		{CodeStoreError, 500},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			ie := New(tt.code, "test", nil)
			if ie.StatusCode != tt.expected {
				t.Errorf("expected status %d, got %d", tt.expected, ie.StatusCode)
			}
		})
	}
}
