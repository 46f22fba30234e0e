// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed error handling with machine-readable codes
// for the ability registry and its collaborators.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies Inkwell errors for callers and monitoring.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeAbilityNotFound indicates an unknown ability id was invoked.
	CodeAbilityNotFound ErrorCode = "ABILITY_NOT_FOUND"

	// CodeInvalidInput indicates the input failed schema validation.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodePermissionDenied indicates the caller is not authorized.
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// CodeResourceNotFound indicates the target resource does not exist.
	CodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"

	// CodeStoreError indicates the content store rejected an operation.
	CodeStoreError ErrorCode = "STORE_ERROR"

	// CodePartialFailure indicates the primary mutation succeeded but a
	// dependent secondary mutation failed.
	CodePartialFailure ErrorCode = "PARTIAL_FAILURE"

	// CodeDuplicateAbility indicates an ability id was registered twice.
	CodeDuplicateAbility ErrorCode = "DUPLICATE_ABILITY"

	// CodeDuplicateCategory indicates a category id was registered twice.
	CodeDuplicateCategory ErrorCode = "DUPLICATE_CATEGORY"

	// CodeInvalidDefinition indicates a malformed ability definition.
	CodeInvalidDefinition ErrorCode = "INVALID_DEFINITION"
)

// InkwellError is a typed error with machine-readable context.
// It implements the error interface and can be unwrapped with errors.As().
type InkwellError struct {
	Code       ErrorCode
	Message    string
	Err        error
	Context    map[string]interface{}
	StatusCode int // For HTTP-ish adapter responses
}

// Error implements the error interface.
func (e *InkwellError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *InkwellError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
// Cause chains and store internals stay out of the wire form.
func (e *InkwellError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// New creates a new InkwellError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *InkwellError {
	return &InkwellError{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		StatusCode: codeToStatusCode(code),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *InkwellError) WithContext(key string, value interface{}) *InkwellError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// AsInkwellError attempts to convert an error to an InkwellError.
// Returns the error as InkwellError if it is one, or wraps it otherwise.
func AsInkwellError(err error) *InkwellError {
	if err == nil {
		return nil
	}
	if ie, ok := err.(*InkwellError); ok {
		return ie
	}
	return New(CodeInternal, "wrapped error", err)
}

// CodeOf returns the error code of err, or CodeInternal for untyped errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if ie, ok := err.(*InkwellError); ok {
		return ie.Code
	}
	return CodeInternal
}

// HasCode reports whether err is an InkwellError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	ie, ok := err.(*InkwellError)
	return ok && ie.Code == code
}

// codeToStatusCode maps error codes to HTTP status codes.
func codeToStatusCode(code ErrorCode) int {
	switch code {
	case CodeAbilityNotFound, CodeResourceNotFound:
		return 404
	case CodePermissionDenied:
		return 403
	case CodeInvalidInput, CodeInvalidDefinition:
		return 400
	case CodeDuplicateAbility, CodeDuplicateCategory:
		return 409
	default:
		return 500
	}
}
