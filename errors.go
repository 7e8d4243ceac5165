/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonschema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Compile failure causes. A *SchemaError returned by Compile wraps exactly
// one of these, so callers can branch with errors.Is.
var (
	ErrMalformedSchema     = errors.New("malformed schema")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrUnsupportedKeyword  = errors.New("unsupported keyword")
	ErrRecursionLimit      = errors.New("recursion limit exceeded")
)

// SchemaError is a compile failure bound to a location inside the schema
// document.
type SchemaError struct {
	// Path locates the offending schema fragment from the document root:
	// string elements are object keys, int elements array indices.
	Path []any
	Err  error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema at ")
	b.WriteString(pointerOrRoot(e.Path))
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func schemaErrorf(path []any, cause error, format string, args ...any) error {
	return &SchemaError{
		Path: copyPath(path),
		Err:  fmt.Errorf("%w: %s", cause, fmt.Sprintf(format, args...)),
	}
}

// ErrorRecord is one reported constraint violation. Validation produces a
// record per violated keyword and never stops at the first one.
type ErrorRecord struct {
	// Path addresses the offending instance fragment from the instance
	// root: string elements are object property names, int elements array
	// indices. An empty path means the instance itself.
	Path []any `json:"path"`
	// Keyword names the violated constraint.
	Keyword string `json:"keyword"`
	// Value is the offending instance fragment.
	Value any `json:"value"`
	// Context carries keyword-specific detail, such as the limit of a
	// violated bound or the name of a missing required property.
	Context map[string]any `json:"context,omitempty"`
}

// Pointer renders the record's path as an RFC 6901 JSON pointer. The root
// path renders as an empty string.
func (r ErrorRecord) Pointer() string {
	return PointerString(r.Path)
}

func (r ErrorRecord) String() string {
	var b strings.Builder
	b.WriteString(pointerOrRoot(r.Path))
	b.WriteString(": ")
	b.WriteString(r.Keyword)
	return b.String()
}

// PointerString renders an instance or schema path as an RFC 6901 JSON
// pointer.
func PointerString(path []any) string {
	if len(path) == 0 {
		return ""
	}
	var b strings.Builder
	for _, seg := range path {
		b.WriteByte('/')
		switch s := seg.(type) {
		case string:
			b.WriteString(escapePointerToken(s))
		case int:
			b.WriteString(strconv.Itoa(s))
		default:
			b.WriteString(fmt.Sprint(seg))
		}
	}
	return b.String()
}

func pointerOrRoot(path []any) string {
	if len(path) == 0 {
		return "<root>"
	}
	return PointerString(path)
}

func escapePointerToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

func copyPath(path []any) []any {
	if len(path) == 0 {
		return nil
	}
	out := make([]any, len(path))
	copy(out, path)
	return out
}
