/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package jsonschema compiles JSON-Schema-like documents into reusable
// validators and reports every constraint violation of an instance as a
// structured record.
//
// A schema compiles once and the resulting Validator may be shared by any
// number of goroutines:
//
//	v, err := jsonschema.Compile(schema)
//	if err != nil {
//		// the schema itself is broken
//	}
//	records := v.Validate(instance) // nil means valid
//
// Schemas and instances are generic Go trees: *document.Map or
// map[string]any for objects, []any for arrays, and string, bool, nil,
// json.Number or any Go numeric type for scalars. The document package
// decodes JSON and YAML text into trees that preserve declaration order,
// which fixes the order violations are reported in.
//
// An instance failing validation is an expected outcome, not a Go error:
// Validate returns the violations and nothing else. Go errors are reserved
// for broken schemas, and those always wrap one of ErrMalformedSchema,
// ErrUnresolvedReference, ErrUnsupportedKeyword or ErrRecursionLimit.
package jsonschema

import (
	"fmt"
)

// Validator is a compiled schema. It is immutable and safe for concurrent
// use; every Validate call runs with its own state.
type Validator struct {
	root check
}

// Compile turns a parsed schema document into a Validator. The schema may
// be an object tree, a boolean literal, or anything in between produced by
// document.Decode or encoding/json.
//
// The returned error, if any, is a *SchemaError locating the offending
// schema fragment.
func Compile(schema any, opts ...CompileOption) (*Validator, error) {
	options := makeCompileOptions(opts...)
	c := newCompiler(options)
	root, err := c.compileRoot(schema)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{root: root}, nil
}

// MustCompile is Compile for schemas known to be valid; it panics on error.
func MustCompile(schema any, opts ...CompileOption) *Validator {
	v, err := Compile(schema, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate walks the instance through the compiled graph and returns one
// ErrorRecord per violated constraint, in schema declaration order. A nil
// result means the instance is valid.
func (v *Validator) Validate(instance any) []ErrorRecord {
	r := &run{active: make(map[activeRef]struct{})}
	v.root.check(r, instance)
	return r.errs
}
