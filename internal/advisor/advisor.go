// Package advisor is the client side of the machining recommendation API:
// request/response types and an HTTP client for the two upstream endpoints.
package advisor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is returned before any network traffic when a request
	// lacks a workpiece material.
	ErrValidation = errors.New("workpiece material is required")

	// ErrNetwork matches every *NetworkError.
	ErrNetwork = errors.New("recommendation server unreachable")

	// ErrInvalidBody is returned when the server answered with something that
	// is not JSON, or JSON without the expected shape.
	ErrInvalidBody = errors.New("response is not valid JSON")

	// ErrBodyTooLarge is returned when a response exceeds the read limit.
	ErrBodyTooLarge = errors.New("response body too large")
)

// NetworkError reports a request that could not be sent or completed.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// Options lists the selectable values for the recommendation form.
type Options struct {
	Workpieces    []string `json:"workpieces"`
	ToolMaterials []string `json:"tool_materials"`
}

// EmptyOptions is the fallback used when the options endpoint fails, so the
// form still renders with empty selects.
func EmptyOptions() *Options {
	return &Options{Workpieces: []string{}, ToolMaterials: []string{}}
}

// Operations are the machining operations the upstream server understands.
var Operations = []string{"roughing", "finishing"}

// Request is the body of POST /api/recommend. Nil optional fields are sent
// as JSON null so the server picks a default.
type Request struct {
	WorkpieceMaterial string  `json:"workpiece_material"`
	ToolMaterial      *string `json:"tool_material"`
	Operation         *string `json:"operation"`
}

// NewRequest builds a Request from raw form values; blank optional values
// become nil.
func NewRequest(workpiece, tool, operation string) Request {
	return Request{
		WorkpieceMaterial: strings.TrimSpace(workpiece),
		ToolMaterial:      optionalString(tool),
		Operation:         optionalString(operation),
	}
}

// Normalize trims every field and turns blank optional values into nil, so
// they are sent as JSON null.
func (r Request) Normalize() Request {
	n := Request{WorkpieceMaterial: strings.TrimSpace(r.WorkpieceMaterial)}
	if r.ToolMaterial != nil {
		n.ToolMaterial = optionalString(*r.ToolMaterial)
	}
	if r.Operation != nil {
		n.Operation = optionalString(*r.Operation)
	}
	return n
}

// Validate reports ErrValidation when the workpiece material is blank.
func (r Request) Validate() error {
	if strings.TrimSpace(r.WorkpieceMaterial) == "" {
		return ErrValidation
	}
	return nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Optional is a value that may be absent.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] { return Optional[T]{value: v, ok: true} }

// None is the absent value.
func None[T any]() Optional[T] { return Optional[T]{} }

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.value, o.ok }

// IsSet reports whether the value is present.
func (o Optional[T]) IsSet() bool { return o.ok }

// OrElse returns the value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}
