// Package errors defines the structured error types used outside the
// calculation hot path: settings and profile validation, profile file I/O
// and CLI input parsing.
//
// Calculation itself never returns errors. Invalid parameters are rejected
// when a profile, override or settings value is constructed; degenerate
// geometry silently falls back to the unscaled base value.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeInternal   ErrorType = "internal"
)

// DimensError is a structured error type with context.
type DimensError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
	Profile string
	Field   string
}

// Error implements the error interface.
func (e *DimensError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Profile != "" {
		parts = append(parts, "profile:"+e.Profile)
	}

	if e.Field != "" {
		parts = append(parts, "field:"+e.Field)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *DimensError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *DimensError) Is(target error) bool {
	var t *DimensError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *DimensError) WithContext(key string, value interface{}) *DimensError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithProfile records the profile the error belongs to.
func (e *DimensError) WithProfile(name string) *DimensError {
	e.Profile = name

	return e
}

// WithField records the offending field.
func (e *DimensError) WithField(field string) *DimensError {
	e.Field = field

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *DimensError {
	return &DimensError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string, cause error) *DimensError {
	return &DimensError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *DimensError {
	return &DimensError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *DimensError {
	return &DimensError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsValidationError reports whether err is, or wraps, a validation error.
func IsValidationError(err error) bool {
	var ve ValidationError
	if errors.As(err, &ve) {
		return true
	}

	var de *DimensError
	return errors.As(err, &de) && de.Type == ErrorTypeValidation
}

// HasCode reports whether err or any error it wraps carries code.
func HasCode(err error, code string) bool {
	var de *DimensError
	if errors.As(err, &de) && de.Code == code {
		return true
	}

	var coll *ValidationErrorCollection
	if errors.As(err, &coll) {
		for _, e := range coll.Errors {
			if HasCode(e, code) {
				return true
			}
		}
	}

	return false
}

// Common error codes.
const (
	ErrCodeInvalidParams    = "ERR_INVALID_PARAMS"
	ErrCodeInvalidOverride  = "ERR_INVALID_OVERRIDE"
	ErrCodeInvalidSettings  = "ERR_INVALID_SETTINGS"
	ErrCodeUnknownName      = "ERR_UNKNOWN_NAME"
	ErrCodeProfileNotFound  = "ERR_PROFILE_NOT_FOUND"
	ErrCodeDuplicateProfile = "ERR_DUPLICATE_PROFILE"
	ErrCodeFileNotFound     = "ERR_FILE_NOT_FOUND"
	ErrCodeMalformedFile    = "ERR_MALFORMED_FILE"
	ErrCodeWatchFailed      = "ERR_WATCH_FAILED"
)

// ValidationError interface for field-specific validation errors.
type ValidationError interface {
	error
	Field() string
	Value() interface{}
	Suggestions() []string
}

// FieldValidationError implements ValidationError for specific field errors.
type FieldValidationError struct {
	Code         string
	FieldName    string
	FieldValue   interface{}
	ErrorMessage string
	HelpText     []string
}

// Error implements the error interface.
func (fve *FieldValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", fve.FieldName, fve.ErrorMessage)
}

// Field returns the field name that failed validation.
func (fve *FieldValidationError) Field() string {
	return fve.FieldName
}

// Value returns the invalid value.
func (fve *FieldValidationError) Value() interface{} {
	return fve.FieldValue
}

// Suggestions returns helpful suggestions for fixing the error.
func (fve *FieldValidationError) Suggestions() []string {
	return fve.HelpText
}

// Unwrap exposes the error as a DimensError so HasCode and errors.Is see
// its code.
func (fve *FieldValidationError) Unwrap() error {
	return fve.ToDimensError()
}

// ToDimensError converts the field validation error to a DimensError.
func (fve *FieldValidationError) ToDimensError() *DimensError {
	code := fve.Code
	if code == "" {
		code = "ERR_FIELD_" + strings.ToUpper(fve.FieldName)
	}
	return NewValidationError(code, fve.ErrorMessage).
		WithField(fve.FieldName).
		WithContext("value", fve.FieldValue)
}

// NewFieldValidationError creates a new field validation error.
func NewFieldValidationError(
	code string,
	field string,
	value interface{},
	message string,
	suggestions ...string,
) *FieldValidationError {
	return &FieldValidationError{
		Code:         code,
		FieldName:    field,
		FieldValue:   value,
		ErrorMessage: message,
		HelpText:     suggestions,
	}
}

// ValidationErrorCollection represents a collection of validation errors.
type ValidationErrorCollection struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (vec *ValidationErrorCollection) Error() string {
	if len(vec.Errors) == 0 {
		return "no validation errors"
	}
	if len(vec.Errors) == 1 {
		return vec.Errors[0].Error()
	}

	msgs := make([]string, len(vec.Errors))
	for i, e := range vec.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(vec.Errors), strings.Join(msgs, "; "))
}

// Add adds a validation error to the collection.
func (vec *ValidationErrorCollection) Add(err ValidationError) {
	vec.Errors = append(vec.Errors, err)
}

// AddField adds a field validation error to the collection.
func (vec *ValidationErrorCollection) AddField(
	code string,
	field string,
	value interface{},
	message string,
	suggestions ...string,
) {
	vec.Add(NewFieldValidationError(code, field, value, message, suggestions...))
}

// Merge appends the errors of other, prefixing their fields unless
// prefix is empty.
func (vec *ValidationErrorCollection) Merge(prefix string, other *ValidationErrorCollection) {
	if other == nil {
		return
	}
	for _, e := range other.Errors {
		fe, ok := e.(*FieldValidationError)
		if !ok {
			vec.Add(e)
			continue
		}
		cp := *fe
		if prefix != "" {
			cp.FieldName = prefix + "." + fe.FieldName
		}
		vec.Add(&cp)
	}
}

// Unwrap lets errors.Is and errors.As see every collected error.
func (vec *ValidationErrorCollection) Unwrap() []error {
	out := make([]error, len(vec.Errors))
	for i, e := range vec.Errors {
		out[i] = e
	}
	return out
}

// HasErrors returns true if there are any validation errors.
func (vec *ValidationErrorCollection) HasErrors() bool {
	return len(vec.Errors) > 0
}

// Err returns vec when it holds errors and nil otherwise, so callers can
// return it without a typed-nil interface.
func (vec *ValidationErrorCollection) Err() error {
	if vec.HasErrors() {
		return vec
	}
	return nil
}
