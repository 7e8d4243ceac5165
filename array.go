/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonschema

import (
	"github.com/acronis/go-jsonschema/document"
)

func (c *compiler) compileItems(s *schemaScope, value any) (check, error) {
	if tuple, ok := value.([]any); ok {
		checks := make([]check, len(tuple))
		for i := range tuple {
			ck, err := c.compileNode(tuple[i], s.base, s.at("items", i))
			if err != nil {
				return nil, err
			}
			checks[i] = ck
		}
		return &itemsCheck{tuple: checks}, nil
	}
	ck, err := c.compileNode(value, s.base, s.at("items"))
	if err != nil {
		return nil, err
	}
	return &itemsCheck{single: ck}, nil
}

// itemsCheck applies a single schema to every element or a tuple of
// schemas positionally.
type itemsCheck struct {
	single check
	tuple  []check
}

func (ic *itemsCheck) check(r *run, v any) {
	arr, ok := v.([]any)
	if !ok {
		return
	}
	if ic.single != nil {
		for i := range arr {
			r.pushPath(i)
			ic.single.check(r, arr[i])
			r.popPath()
		}
		return
	}
	for i := 0; i < len(arr) && i < len(ic.tuple); i++ {
		r.pushPath(i)
		ic.tuple[i].check(r, arr[i])
		r.popPath()
	}
}

// compileAdditionalItems constrains the elements past a tuple items form.
// Without that form every element is already covered and the keyword is
// inert.
func (c *compiler) compileAdditionalItems(s *schemaScope, value any) (check, error) {
	rawItems, ok := s.sibling("items")
	if !ok {
		return nil, nil
	}
	tuple, ok := rawItems.([]any)
	if !ok {
		return nil, nil
	}
	if allow, ok := value.(bool); ok {
		if allow {
			return nil, nil
		}
		return &additionalItemsCheck{offset: len(tuple)}, nil
	}
	ck, err := c.compileNode(value, s.base, s.at("additionalItems"))
	if err != nil {
		return nil, err
	}
	return &additionalItemsCheck{offset: len(tuple), child: ck}, nil
}

type additionalItemsCheck struct {
	offset int
	child  check // nil rejects every element past the tuple
}

func (a *additionalItemsCheck) check(r *run, v any) {
	arr, ok := v.([]any)
	if !ok {
		return
	}
	for i := a.offset; i < len(arr); i++ {
		r.pushPath(i)
		if a.child == nil {
			r.record("additionalItems", arr[i], map[string]any{"index": i})
		} else {
			a.child.check(r, arr[i])
		}
		r.popPath()
	}
}

func (c *compiler) compileUniqueItems(s *schemaScope, value any) (check, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, schemaErrorf(s.at("uniqueItems"), ErrMalformedSchema, "uniqueItems must be a boolean")
	}
	if !b {
		return nil, nil
	}
	return uniqueItemsCheck{}, nil
}

// uniqueItemsCheck reports every element that repeats an earlier one, at
// the repeating element's own path.
type uniqueItemsCheck struct{}

func (uniqueItemsCheck) check(r *run, v any) {
	arr, ok := v.([]any)
	if !ok || len(arr) < 2 {
		return
	}
	for i := 1; i < len(arr); i++ {
		for j := 0; j < i; j++ {
			if document.Equal(arr[j], arr[i]) {
				r.pushPath(i)
				r.record("uniqueItems", arr[i], map[string]any{"duplicateOf": j})
				r.popPath()
				break
			}
		}
	}
}
