/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/
package jsonschema

import (
	"testing"
)

func Test_Validate_References(t *testing.T) {
	tests := map[string]struct {
		schema       string
		instance     string
		wantKeywords []string
		wantPointers []string
	}{
		"ok, definitions": {
			schema: `{
				"definitions": {"name": {"type": "string", "minLength": 1}},
				"properties": {"first": {"$ref": "#/definitions/name"}}
			}`,
			instance: `{"first": "ada"}`,
		},
		"error, violation reported at instance location": {
			schema: `{
				"definitions": {"name": {"type": "string"}},
				"properties": {"first": {"$ref": "#/definitions/name"}}
			}`,
			instance:     `{"first": 5}`,
			wantKeywords: []string{"type"},
			wantPointers: []string{"/first"},
		},
		"ok, $defs works like definitions": {
			schema: `{
				"$defs": {"name": {"type": "string"}},
				"properties": {"first": {"$ref": "#/$defs/name"}}
			}`,
			instance: `{"first": "ada"}`,
		},
		"error, shared target compiles once and serves two sites": {
			schema: `{
				"definitions": {"name": {"type": "string"}},
				"properties": {
					"first": {"$ref": "#/definitions/name"},
					"last": {"$ref": "#/definitions/name"}
				}
			}`,
			instance:     `{"first": 1, "last": 2}`,
			wantKeywords: []string{"type", "type"},
			wantPointers: []string{"/first", "/last"},
		},
		"ok, escaped pointer tokens": {
			schema: `{
				"definitions": {"a/b": {"type": "integer"}, "c~d": {"type": "string"}},
				"properties": {
					"x": {"$ref": "#/definitions/a~1b"},
					"y": {"$ref": "#/definitions/c~0d"}
				}
			}`,
			instance: `{"x": 1, "y": "s"}`,
		},
		"error, reference into an array": {
			schema: `{
				"definitions": {"pair": {"items": [{"type": "string"}, {"type": "integer"}]}},
				"properties": {"v": {"$ref": "#/definitions/pair/items/1"}}
			}`,
			instance:     `{"v": "not an int"}`,
			wantKeywords: []string{"type"},
			wantPointers: []string{"/v"},
		},
		"ok, reference to the whole document": {
			schema: `{
				"type": "object",
				"properties": {"child": {"$ref": "#"}}
			}`,
			instance: `{"child": {"child": {}}}`,
		},
		"error, sibling keywords next to $ref are ignored": {
			schema: `{
				"definitions": {"any": {}},
				"properties": {"v": {"$ref": "#/definitions/any", "type": "string"}}
			}`,
			instance: `{"v": 5}`,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v := mustCompileJSON(t, tt.schema)
			records := v.Validate(mustDecode(t, tt.instance))
			assertEqual(t, tt.wantKeywords, keywordsOf(records))
			if tt.wantPointers != nil {
				assertEqual(t, tt.wantPointers, pointersOf(records))
			}
		})
	}
}

func Test_Validate_NestedIDRebasing(t *testing.T) {
	v := mustCompileJSON(t, `{
		"$id": "https://example.com/root.json",
		"definitions": {
			"leaf": {
				"$id": "https://example.com/leaf.json",
				"definitions": {"code": {"type": "integer"}},
				"properties": {"code": {"$ref": "#/definitions/code"}}
			}
		},
		"properties": {
			"direct": {"$ref": "https://example.com/leaf.json"},
			"viaPointer": {"$ref": "#/definitions/leaf"}
		}
	}`)

	assertEqual(t, []string(nil), keywordsOf(v.Validate(mustDecode(t, `{"direct": {"code": 1}}`))))

	// Inside leaf.json the fragment "#/definitions/code" must resolve
	// against the embedded $id, not against the root document.
	records := v.Validate(mustDecode(t, `{"direct": {"code": "x"}, "viaPointer": {"code": "y"}}`))
	assertEqual(t, []string{"type", "type"}, keywordsOf(records))
	assertEqual(t, []string{"/direct/code", "/viaPointer/code"}, pointersOf(records))
}

func Test_Compile_ReferenceErrors(t *testing.T) {
	tests := map[string]struct {
		schema  string
		wantErr error
		substr  string
	}{
		"error, dangling local reference": {
			schema:  `{"properties": {"a": {"$ref": "#/definitions/missing"}}}`,
			wantErr: ErrUnresolvedReference,
			substr:  "no fragment",
		},
		"error, unknown document": {
			schema:  `{"properties": {"a": {"$ref": "https://example.com/absent.json#/x"}}}`,
			wantErr: ErrUnresolvedReference,
			substr:  "absent.json",
		},
		"error, $ref must be a string": {
			schema:  `{"properties": {"a": {"$ref": 5}}}`,
			wantErr: ErrMalformedSchema,
			substr:  "$ref must be a string",
		},
		"error, root referring to itself": {
			schema:  `{"$ref": "#"}`,
			wantErr: ErrRecursionLimit,
			substr:  "makes no progress",
		},
		"error, two references forming a cycle": {
			schema: `{
				"definitions": {
					"a": {"$ref": "#/definitions/b"},
					"b": {"$ref": "#/definitions/a"}
				},
				"$ref": "#/definitions/a"
			}`,
			wantErr: ErrRecursionLimit,
			substr:  "makes no progress",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Compile(mustDecode(t, tt.schema))
			assertErrorIs(t, err, tt.wantErr)
			assertErrorContains(t, err, tt.substr)
		})
	}
}

func Test_Compile_ReferenceChainDepthLimit(t *testing.T) {
	schema := mustDecode(t, `{
		"definitions": {
			"a": {"$ref": "#/definitions/b"},
			"b": {"$ref": "#/definitions/c"},
			"c": {"$ref": "#/definitions/d"},
			"d": {"type": "integer"}
		},
		"$ref": "#/definitions/a"
	}`)

	_, err := Compile(schema)
	assertNoError(t, err)

	_, err = Compile(schema, WithMaxReferenceDepth(2))
	assertErrorIs(t, err, ErrRecursionLimit)
}

func Test_Validate_RecursiveSchema(t *testing.T) {
	v := mustCompileJSON(t, `{
		"type": "object",
		"properties": {
			"value": {"type": "integer"},
			"children": {"items": {"$ref": "#"}}
		},
		"required": ["value"]
	}`)

	assertEqual(t, []string(nil), keywordsOf(v.Validate(mustDecode(t, `{"value": 1}`))))

	deep := mustDecode(t, `{"value": 1, "children": [
		{"value": 2, "children": [
			{"value": 3, "children": [
				{"value": 4, "children": [
					{"value": 5, "children": [{"value": 6}]}
				]}
			]}
		]}
	]}`)
	assertEqual(t, []string(nil), keywordsOf(v.Validate(deep)))

	records := v.Validate(mustDecode(t, `{"value": 1, "children": [{"value": 2, "children": [{"value": "three"}]}]}`))
	assertEqual(t, []string{"type"}, keywordsOf(records))
	assertEqual(t, []string{"/children/0/children/0/value"}, pointersOf(records))
}

func Test_Validate_CyclicInstanceTerminates(t *testing.T) {
	v := mustCompileJSON(t, `{
		"type": "object",
		"properties": {"children": {"items": {"$ref": "#"}}}
	}`)

	cyclic := map[string]any{}
	cyclic["children"] = []any{cyclic}

	records := v.Validate(cyclic)
	assertEqual(t, 1, len(records))
	assertEqual(t, "$ref", records[0].Keyword)
	assertEqual(t, RecursionLimitReason, records[0].Context["reason"])
	assertEqual(t, []string{"/children/0/children/0"}, pointersOf(records))
}

func Test_Validate_SharedSubtreeIsNotACycle(t *testing.T) {
	v := mustCompileJSON(t, `{
		"definitions": {"node": {"type": "object"}},
		"properties": {
			"a": {"$ref": "#/definitions/node"},
			"b": {"$ref": "#/definitions/node"}
		}
	}`)

	shared := map[string]any{"x": 1}
	instance := map[string]any{"a": shared, "b": shared}
	assertEqual(t, []string(nil), keywordsOf(v.Validate(instance)))
}

func Test_Registry(t *testing.T) {
	types := mustDecode(t, `{
		"$id": "https://example.com/types.json",
		"definitions": {"port": {"type": "integer", "minimum": 1, "maximum": 65535}}
	}`)
	registry := NewRegistry()
	assertNoError(t, registry.Register("https://example.com/types.json", types))

	err := registry.Register("https://example.com/types.json", types)
	assertErrorContains(t, err, "already registered")

	v, err := Compile(mustDecode(t, `{
		"$id": "https://example.com/service.json",
		"properties": {
			"port": {"$ref": "types.json#/definitions/port"}
		}
	}`), WithRegistry(registry))
	assertNoError(t, err)

	assertEqual(t, []string(nil), keywordsOf(v.Validate(mustDecode(t, `{"port": 8080}`))))

	records := v.Validate(mustDecode(t, `{"port": 0}`))
	assertEqual(t, []string{"minimum"}, keywordsOf(records))
	assertEqual(t, []string{"/port"}, pointersOf(records))
}

func Test_Registry_EmbeddedAnchors(t *testing.T) {
	registry := NewRegistry()
	assertNoError(t, registry.Register("https://example.com/bundle.json", mustDecode(t, `{
		"$id": "https://example.com/bundle.json",
		"definitions": {
			"inner": {
				"$id": "https://example.com/inner.json",
				"type": "string"
			}
		}
	}`)))

	v, err := Compile(mustDecode(t, `{
		"properties": {"name": {"$ref": "https://example.com/inner.json"}}
	}`), WithRegistry(registry))
	assertNoError(t, err)

	records := v.Validate(mustDecode(t, `{"name": 5}`))
	assertEqual(t, []string{"type"}, keywordsOf(records))
}
