/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonschema

import (
	"math"
	"regexp"
	"unicode/utf8"

	"github.com/acronis/go-jsonschema/document"
)

var typeNames = map[string]struct{}{
	"array":   {},
	"boolean": {},
	"integer": {},
	"null":    {},
	"number":  {},
	"object":  {},
	"string":  {},
}

func (c *compiler) compileType(s *schemaScope, value any) (check, error) {
	path := s.at("type")
	var types []string
	switch t := value.(type) {
	case string:
		types = []string{t}
	case []any:
		if len(t) == 0 {
			return nil, schemaErrorf(path, ErrMalformedSchema, "type array must not be empty")
		}
		for _, item := range t {
			name, ok := item.(string)
			if !ok {
				return nil, schemaErrorf(path, ErrMalformedSchema, "type array elements must be strings")
			}
			types = append(types, name)
		}
	default:
		return nil, schemaErrorf(path, ErrMalformedSchema, "type must be a string or an array of strings")
	}
	seen := make(map[string]struct{}, len(types))
	for _, name := range types {
		if _, ok := typeNames[name]; !ok {
			return nil, schemaErrorf(path, ErrMalformedSchema, "unknown type %q", name)
		}
		if _, ok := seen[name]; ok {
			return nil, schemaErrorf(path, ErrMalformedSchema, "duplicate type %q", name)
		}
		seen[name] = struct{}{}
	}
	return &typeCheck{types: types, raw: value}, nil
}

type typeCheck struct {
	types []string
	raw   any
}

func (t *typeCheck) check(r *run, v any) {
	for _, name := range t.types {
		if kindMatches(name, v) {
			return
		}
	}
	r.record("type", v, map[string]any{"expected": t.raw})
}

// kindMatches maps Go values onto JSON type names. An integral number is
// both an "integer" and a "number".
func kindMatches(name string, v any) bool {
	switch name {
	case "null":
		return v == nil
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "string":
		_, ok := v.(string)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	case "object":
		_, ok := asObject(v)
		return ok
	case "integer":
		n, ok := asNumber(v)
		return ok && n.integral()
	case "number":
		_, ok := asNumber(v)
		return ok
	}
	return false
}

func (c *compiler) compileEnum(s *schemaScope, value any) (check, error) {
	path := s.at("enum")
	items, ok := value.([]any)
	if !ok {
		return nil, schemaErrorf(path, ErrMalformedSchema, "enum must be an array")
	}
	if len(items) == 0 {
		return nil, schemaErrorf(path, ErrMalformedSchema, "enum must not be empty")
	}
	for i := 1; i < len(items); i++ {
		for j := 0; j < i; j++ {
			if document.Equal(items[i], items[j]) {
				return nil, schemaErrorf(path, ErrMalformedSchema, "enum element %d repeats element %d", i, j)
			}
		}
	}
	return &enumCheck{keyword: "enum", values: items}, nil
}

// enumCheck backs both enum and const; const is an enum of one value.
type enumCheck struct {
	keyword string
	values  []any
}

func (e *enumCheck) check(r *run, v any) {
	for _, allowed := range e.values {
		if document.Equal(v, allowed) {
			return
		}
	}
	r.record(e.keyword, v, nil)
}

func (c *compiler) compileBound(s *schemaScope, keyword string, value any) (check, error) {
	limit, ok := asNumber(value)
	if !ok {
		return nil, schemaErrorf(s.at(keyword), ErrMalformedSchema, "%s must be a number", keyword)
	}
	upper := keyword == "maximum"
	exclusiveKey := "exclusiveMinimum"
	if upper {
		exclusiveKey = "exclusiveMaximum"
	}
	exclusive := false
	if raw, ok := s.sibling(exclusiveKey); ok {
		if b, isBool := raw.(bool); isBool {
			exclusive = b
		}
	}
	return &boundCheck{keyword: keyword, limit: limit, raw: value, exclusive: exclusive, upper: upper}, nil
}

// compileExclusiveBound handles both spellings of exclusiveMinimum and
// exclusiveMaximum: the boolean form folds into the sibling bound, the
// numeric form is a bound of its own.
func (c *compiler) compileExclusiveBound(s *schemaScope, keyword string, value any) (check, error) {
	boundKey := "minimum"
	if keyword == "exclusiveMaximum" {
		boundKey = "maximum"
	}
	if _, ok := value.(bool); ok {
		if _, present := s.sibling(boundKey); !present {
			return nil, schemaErrorf(s.at(keyword), ErrMalformedSchema, "boolean %s requires %s on the same schema", keyword, boundKey)
		}
		return nil, nil
	}
	limit, ok := asNumber(value)
	if !ok {
		return nil, schemaErrorf(s.at(keyword), ErrMalformedSchema, "%s must be a boolean or a number", keyword)
	}
	return &boundCheck{keyword: keyword, limit: limit, raw: value, exclusive: true, upper: keyword == "exclusiveMaximum"}, nil
}

type boundCheck struct {
	keyword   string
	limit     number
	raw       any
	exclusive bool
	upper     bool
}

func (b *boundCheck) check(r *run, v any) {
	n, ok := asNumber(v)
	if !ok {
		return
	}
	cmp := n.cmp(b.limit)
	var violated bool
	if b.upper {
		violated = cmp > 0 || (b.exclusive && cmp == 0)
	} else {
		violated = cmp < 0 || (b.exclusive && cmp == 0)
	}
	if violated {
		r.record(b.keyword, v, map[string]any{"limit": b.raw, "exclusive": b.exclusive})
	}
}

func (c *compiler) compileMultipleOf(s *schemaScope, value any) (check, error) {
	divisor, ok := asNumber(value)
	if !ok || divisor.cmp(number{isInt: true}) <= 0 {
		return nil, schemaErrorf(s.at("multipleOf"), ErrMalformedSchema, "multipleOf must be a number greater than 0")
	}
	return &multipleOfCheck{divisor: divisor, raw: value}, nil
}

type multipleOfCheck struct {
	divisor number
	raw     any
}

func (m *multipleOfCheck) check(r *run, v any) {
	n, ok := asNumber(v)
	if !ok {
		return
	}
	if m.divisor.isInt && n.isInt {
		if n.i%m.divisor.i == 0 {
			return
		}
	} else if math.Mod(n.float(), m.divisor.float()) == 0 {
		return
	}
	r.record("multipleOf", v, map[string]any{"divisor": m.raw})
}

func (c *compiler) compileLength(s *schemaScope, keyword string, value any) (check, error) {
	limit, err := nonNegativeInt(value)
	if err != nil {
		return nil, schemaErrorf(s.at(keyword), ErrMalformedSchema, "%s %v", keyword, err)
	}
	return &lengthCheck{keyword: keyword, limit: limit, upper: keyword == "maxLength"}, nil
}

type lengthCheck struct {
	keyword string
	limit   int
	upper   bool
}

func (l *lengthCheck) check(r *run, v any) {
	s, ok := v.(string)
	if !ok {
		return
	}
	n := utf8.RuneCountInString(s)
	if (l.upper && n > l.limit) || (!l.upper && n < l.limit) {
		r.record(l.keyword, v, map[string]any{"limit": l.limit, "length": n})
	}
}

func (c *compiler) compilePattern(s *schemaScope, value any) (check, error) {
	src, ok := value.(string)
	if !ok {
		return nil, schemaErrorf(s.at("pattern"), ErrMalformedSchema, "pattern must be a string")
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, schemaErrorf(s.at("pattern"), ErrMalformedSchema, "pattern %q: %v", src, err)
	}
	return &patternCheck{source: src, re: re}, nil
}

type patternCheck struct {
	source string
	re     *regexp.Regexp
}

func (p *patternCheck) check(r *run, v any) {
	s, ok := v.(string)
	if !ok {
		return
	}
	if !p.re.MatchString(s) {
		r.record("pattern", v, map[string]any{"pattern": p.source})
	}
}

// extensionCheck adapts a user keyword to the validator graph.
type extensionCheck struct {
	name string
	fn   Check
}

func (e *extensionCheck) check(r *run, v any) {
	if err := e.fn(v); err != nil {
		r.record(e.name, v, map[string]any{"reason": err.Error()})
	}
}
