/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonschema

import (
	"reflect"
)

// check is one node of the compiled validator graph. Implementations append
// violations to the run and never stop it.
type check interface {
	check(r *run, v any)
}

// run is the mutable state of a single Validate call.
type run struct {
	path   []any
	errs   []ErrorRecord
	active map[activeRef]struct{}
}

// activeRef marks a reference node currently being evaluated against an
// instance location. Revisiting the pair means structural recursion.
type activeRef struct {
	node *refNode
	loc  uintptr
}

func (r *run) pushPath(seg any) {
	r.path = append(r.path, seg)
}

func (r *run) popPath() {
	r.path = r.path[:len(r.path)-1]
}

func (r *run) record(keyword string, value any, ctx map[string]any) {
	r.errs = append(r.errs, ErrorRecord{
		Path:    copyPath(r.path),
		Keyword: keyword,
		Value:   value,
		Context: ctx,
	})
}

// capture evaluates ck against v and returns the records it produced
// without publishing them. The current path and the active reference set
// are shared with the captured branch.
func (r *run) capture(ck check, v any) []ErrorRecord {
	saved := r.errs
	r.errs = nil
	ck.check(r, v)
	out := r.errs
	r.errs = saved
	return out
}

// location identifies the instance container under validation. Containers
// are keyed by pointer; scalars share the zero location, which is safe
// because validation never descends through a scalar.
func location(v any) uintptr {
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
		return rv.Pointer()
	default:
		return 0
	}
}
