// Package errors provides the typed error surface of the binding engine.
// Every failure is one of two origins: wrapper-originated (descriptor,
// resolution, argument, type errors detected by the engine itself) or
// foreign-originated (an error raised by the called foreign code). All types
// support errors.As/errors.Is and convert to a structured Detail.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// Detail provides structured error information.
// Error Types: "descriptor", "config", "resolution", "argument", "type",
// "instantiation", "allocation", "foreign", "validation", "internal".
type Detail struct {
	// Message is a human-readable error description.
	Message string `json:"message"`

	// Type categorizes the error.
	Type string `json:"type"`

	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Details contains additional error context.
	Details map[string]any `json:"details,omitempty"`

	// Foreign indicates the failure originated inside the foreign runtime
	// rather than in the wrapper.
	Foreign bool `json:"foreign,omitempty"`
}

// Error implements the error interface.
func (d *Detail) Error() string {
	if d == nil {
		return ""
	}
	msg := d.Message
	if d.Type != "" && d.Type != "internal" {
		msg = fmt.Sprintf("%s: %s", d.Type, msg)
	}
	if d.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, d.Code)
	}
	return msg
}

// DetailedError is an interface for error types that can convert themselves
// to a structured Detail. New error types only need to implement this
// interface without modifying ToDetail.
type DetailedError interface {
	error
	ToDetail() *Detail
}

// ToDetail converts a Go error to a structured Detail, recognizing the
// engine's own error types and categorizing anything else as internal.
func ToDetail(err error) *Detail {
	if err == nil {
		return nil
	}

	var d *Detail
	if stdErrors.As(err, &d) {
		return d
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToDetail()
	}

	return &Detail{Message: err.Error(), Type: "internal"}
}

// DescriptorError reports a descriptor string that could not be parsed
// (malformed) or a parsed token the marshaller does not recognize (invalid).
type DescriptorError struct {
	Descriptor string
	Reason     string
	Pos        int
	Invalid    bool
}

// NewMalformedDescriptor creates a parse-time DescriptorError.
func NewMalformedDescriptor(desc string, pos int, reason string) *DescriptorError {
	return &DescriptorError{Descriptor: desc, Pos: pos, Reason: reason}
}

// NewInvalidDescriptor creates a marshal-time DescriptorError for a token the
// type marshaller cannot handle.
func NewInvalidDescriptor(token, reason string) *DescriptorError {
	return &DescriptorError{Descriptor: token, Reason: reason, Invalid: true}
}

func (e *DescriptorError) Error() string {
	if e.Invalid {
		return fmt.Sprintf("invalid type token %q: %s", e.Descriptor, e.Reason)
	}
	return fmt.Sprintf("malformed descriptor %q at offset %d: %s", e.Descriptor, e.Pos, e.Reason)
}

// ToDetail implements DetailedError.
func (e *DescriptorError) ToDetail() *Detail {
	code := "malformed_descriptor"
	if e.Invalid {
		code = "invalid_descriptor"
	}
	return &Detail{Message: e.Error(), Type: "descriptor", Code: code}
}

// ConfigError reports a missing or unusable binding declaration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("binding declaration field %s: %s", e.Field, e.Reason)
}

// ToDetail implements DetailedError.
func (e *ConfigError) ToDetail() *Detail {
	return &Detail{Message: e.Error(), Type: "config", Code: "declaration_invalid"}
}

// ResolutionError reports a class, constructor, method, or field the foreign
// runtime could not find.
type ResolutionError struct {
	Err        error
	Class      string
	Member     string // empty for class resolution
	Descriptor string
	Kind       string // "class", "constructor", "method", "field"
}

func (e *ResolutionError) Error() string {
	switch {
	case e.Member == "" && e.Descriptor == "":
		return fmt.Sprintf("cannot resolve %s %s", e.Kind, e.Class)
	case e.Member == "":
		return fmt.Sprintf("cannot resolve %s %s%s", e.Kind, e.Class, e.Descriptor)
	default:
		return fmt.Sprintf("cannot resolve %s %s.%s %s", e.Kind, e.Class, e.Member, e.Descriptor)
	}
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ToDetail implements DetailedError.
func (e *ResolutionError) ToDetail() *Detail {
	return &Detail{
		Message: e.Error(),
		Type:    "resolution",
		Code:    e.Kind + "_not_found",
		Details: map[string]any{"class": e.Class, "member": e.Member, "descriptor": e.Descriptor},
	}
}

// ArgumentCountError reports a call whose argument count does not match the
// parsed descriptor. No foreign call is issued when this is raised.
type ArgumentCountError struct {
	Class  string
	Member string
	Want   int
	Got    int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("%s.%s expects %d arguments, got %d", e.Class, e.Member, e.Want, e.Got)
}

// ToDetail implements DetailedError.
func (e *ArgumentCountError) ToDetail() *Detail {
	return &Detail{Message: e.Error(), Type: "argument", Code: "argument_count_mismatch"}
}

// TypeMismatchError reports an object argument whose declared class path does
// not match the descriptor's class token.
type TypeMismatchError struct {
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected instance of %s, got %s", e.Want, e.Got)
}

// ToDetail implements DetailedError.
func (e *TypeMismatchError) ToDetail() *Detail {
	return &Detail{
		Message: e.Error(),
		Type:    "type",
		Code:    "class_mismatch",
		Details: map[string]any{"want": e.Want, "got": e.Got},
	}
}

// InstantiationError reports a constructor call that yielded no instance.
type InstantiationError struct {
	Err   error
	Class string
}

func (e *InstantiationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("constructing %s: %v", e.Class, e.Err)
	}
	return fmt.Sprintf("constructing %s: runtime returned no instance", e.Class)
}

func (e *InstantiationError) Unwrap() error {
	return e.Err
}

// ToDetail implements DetailedError.
func (e *InstantiationError) ToDetail() *Detail {
	return &Detail{Message: e.Error(), Type: "instantiation", Code: "construction_failed"}
}

// AllocationError reports a foreign-side buffer or array allocation failure.
type AllocationError struct {
	Err  error
	What string
	Size int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocating %s of size %d: %v", e.What, e.Size, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// ToDetail implements DetailedError.
func (e *AllocationError) ToDetail() *Detail {
	return &Detail{Message: e.Error(), Type: "allocation", Code: "allocation_failed"}
}

// ForeignError wraps an error raised by foreign-side code during a call. It
// is the only error type whose origin is the foreign runtime itself.
type ForeignError struct {
	Err    error
	Op     string
	Class  string
	Member string
}

func (e *ForeignError) Error() string {
	if e.Member != "" {
		return fmt.Sprintf("foreign %s %s.%s: %v", e.Op, e.Class, e.Member, e.Err)
	}
	return fmt.Sprintf("foreign %s %s: %v", e.Op, e.Class, e.Err)
}

func (e *ForeignError) Unwrap() error {
	return e.Err
}

// ToDetail implements DetailedError.
func (e *ForeignError) ToDetail() *Detail {
	return &Detail{Message: e.Error(), Type: "foreign", Code: e.Op + "_raised", Foreign: true}
}
