/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonschema

import (
	"errors"
)

// annotationKeywords are inert metadata keywords. They are accepted and
// skipped even in strict mode.
var annotationKeywords = map[string]struct{}{
	"$schema":     {},
	"$id":         {},
	"id":          {},
	"$comment":    {},
	"title":       {},
	"description": {},
	"default":     {},
	"examples":    {},
	"definitions": {},
	"$defs":       {},
}

// compiler turns one schema document into a validator graph. It owns a
// private registry for the document under compilation and consults the
// shared user registry for everything else.
type compiler struct {
	opts   compileOptions
	root   *Registry
	shared *Registry
	memo   map[string]*refNode
}

func newCompiler(opts compileOptions) *compiler {
	shared := opts.registry
	if shared == nil {
		shared = NewRegistry()
	}
	return &compiler{
		opts:   opts,
		root:   NewRegistry(),
		shared: shared,
		memo:   make(map[string]*refNode),
	}
}

func (c *compiler) compileRoot(schema any) (check, error) {
	base := ""
	if obj, ok := asObject(schema); ok {
		if raw, ok := idValue(obj); ok {
			id, err := canonicalID("", raw)
			if err != nil {
				return nil, schemaErrorf([]any{"$id"}, ErrMalformedSchema, "%v", err)
			}
			base = id
		}
	}
	if err := c.root.Register(base, schema); err != nil {
		return nil, schemaErrorf(nil, ErrMalformedSchema, "%v", err)
	}
	return c.compileNode(schema, base, nil)
}

// compileNode compiles one schema value: a boolean literal, a reference, or
// an object of keywords.
func (c *compiler) compileNode(v any, base string, path []any) (check, error) {
	if allow, ok := v.(bool); ok {
		return booleanCheck(allow), nil
	}
	obj, ok := asObject(v)
	if !ok {
		return nil, schemaErrorf(path, ErrMalformedSchema, "schema must be an object or a boolean, got %s", kindName(v))
	}
	if raw, ok := obj.get("$ref"); ok {
		ref, ok := raw.(string)
		if !ok {
			return nil, schemaErrorf(append(path, "$ref"), ErrMalformedSchema, "$ref must be a string")
		}
		return c.compileRef(ref, base, path)
	}
	return c.compileObject(obj, base, path)
}

func (c *compiler) compileObject(obj object, base string, path []any) (check, error) {
	if raw, ok := idValue(obj); ok {
		id, err := canonicalID(base, raw)
		if err != nil {
			return nil, schemaErrorf(append(path, "$id"), ErrMalformedSchema, "%v", err)
		}
		base = id
	}
	s := &schemaScope{obj: obj, base: base, path: path}
	node := &schemaCheck{}
	var err error
	obj.each(func(key string, value any) {
		if err != nil {
			return
		}
		var ck check
		ck, err = c.compileKeyword(s, key, value)
		if err == nil && ck != nil {
			node.checks = append(node.checks, ck)
		}
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// schemaScope is one schema object under compilation: its keyword bag, the
// base identifier in effect, and its location inside the document.
type schemaScope struct {
	obj  object
	base string
	path []any
}

func (s *schemaScope) sibling(key string) (any, bool) {
	return s.obj.get(key)
}

// at builds the schema path of a keyword or one of its elements.
func (s *schemaScope) at(segs ...any) []any {
	out := make([]any, 0, len(s.path)+len(segs))
	out = append(out, s.path...)
	return append(out, segs...)
}

// compileKeyword dispatches a single keyword to its compiler. A nil check
// with a nil error means the keyword constrains nothing on its own, either
// because it is an annotation or because a sibling keyword consumes it.
func (c *compiler) compileKeyword(s *schemaScope, key string, value any) (check, error) {
	switch key {
	case "type":
		return c.compileType(s, value)
	case "enum":
		return c.compileEnum(s, value)
	case "const":
		return &enumCheck{keyword: "const", values: []any{value}}, nil
	case "minimum", "maximum":
		return c.compileBound(s, key, value)
	case "exclusiveMinimum", "exclusiveMaximum":
		return c.compileExclusiveBound(s, key, value)
	case "multipleOf":
		return c.compileMultipleOf(s, value)
	case "minLength", "maxLength":
		return c.compileLength(s, key, value)
	case "pattern":
		return c.compilePattern(s, value)
	case "format":
		return c.compileFormat(s, value)
	case "items":
		return c.compileItems(s, value)
	case "additionalItems":
		return c.compileAdditionalItems(s, value)
	case "minItems":
		return c.compileCount(s, key, value, false, false)
	case "maxItems":
		return c.compileCount(s, key, value, true, false)
	case "uniqueItems":
		return c.compileUniqueItems(s, value)
	case "properties":
		return c.compileProperties(s, value)
	case "patternProperties":
		return c.compilePatternProperties(s, value)
	case "additionalProperties":
		return c.compileAdditionalProperties(s, key, value, false)
	case "unevaluatedProperties":
		return c.compileAdditionalProperties(s, key, value, true)
	case "required":
		return c.compileRequired(s, value)
	case "dependencies":
		return c.compileDependencies(s, value)
	case "propertyNames":
		return c.compilePropertyNames(s, value)
	case "minProperties":
		return c.compileCount(s, key, value, false, true)
	case "maxProperties":
		return c.compileCount(s, key, value, true, true)
	case "allOf":
		return c.compileAllOf(s, value)
	case "anyOf":
		return c.compileAnyOf(s, value)
	case "oneOf":
		return c.compileOneOf(s, value)
	case "not":
		return c.compileNot(s, value)
	case "if":
		return c.compileIf(s, value)
	case "then", "else":
		return nil, nil // compiled as part of the sibling "if"
	}
	if _, ok := annotationKeywords[key]; ok {
		return nil, nil
	}
	if ext, ok := c.opts.keywords[key]; ok {
		fn, err := ext.Compile(value)
		if err != nil {
			return nil, schemaErrorf(s.at(key), ErrMalformedSchema, "%s: %v", key, err)
		}
		return &extensionCheck{name: key, fn: fn}, nil
	}
	if c.opts.strict {
		return nil, schemaErrorf(s.at(key), ErrUnsupportedKeyword, "%q", key)
	}
	return nil, nil
}

// nonNegativeInt validates the shape shared by the length and count limits.
func nonNegativeInt(value any) (int, error) {
	n, ok := asNumber(value)
	if !ok || !n.integral() {
		return 0, errors.New("must be a non-negative integer")
	}
	limit := n.i
	if !n.isInt {
		limit = int64(n.f)
	}
	if limit < 0 {
		return 0, errors.New("must be a non-negative integer")
	}
	return int(limit), nil
}
