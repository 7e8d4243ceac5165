/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/
package jsonschema

import (
	"encoding/json"
	"testing"
)

func Test_PointerString(t *testing.T) {
	tests := map[string]struct {
		path []any
		want string
	}{
		"empty path is the whole document": {path: nil, want: ""},
		"property names and indices":       {path: []any{"users", 1, "email"}, want: "/users/1/email"},
		"slash escapes to tilde one":       {path: []any{"a/b"}, want: "/a~1b"},
		"tilde escapes to tilde zero":      {path: []any{"a~b"}, want: "/a~0b"},
		"tilde before slash":               {path: []any{"~/"}, want: "/~0~1"},
		"empty property name":              {path: []any{""}, want: "/"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assertEqual(t, tt.want, PointerString(tt.path))
		})
	}
}

func Test_ErrorRecord_Pointer(t *testing.T) {
	rec := ErrorRecord{Path: []any{"items", 0, "a/b"}, Keyword: "type"}
	assertEqual(t, "/items/0/a~1b", rec.Pointer())
	assertEqual(t, "", ErrorRecord{Keyword: "type"}.Pointer())
}

func Test_ErrorRecord_String(t *testing.T) {
	assertEqual(t, "<root>: type", ErrorRecord{Keyword: "type"}.String())
	assertEqual(t, "/age: minimum", ErrorRecord{Path: []any{"age"}, Keyword: "minimum"}.String())
}

func Test_ErrorRecord_JSON(t *testing.T) {
	rec := ErrorRecord{
		Path:    []any{"users", 1, "email"},
		Keyword: "format",
		Value:   "nope",
		Context: map[string]any{"format": "email"},
	}
	out, err := json.Marshal(rec)
	assertNoError(t, err)
	assertEqual(t,
		`{"path":["users",1,"email"],"keyword":"format","value":"nope","context":{"format":"email"}}`,
		string(out))

	out, err = json.Marshal(ErrorRecord{Path: []any{"id"}, Keyword: "required", Value: nil})
	assertNoError(t, err)
	assertEqual(t, `{"path":["id"],"keyword":"required","value":null}`, string(out))
}

func Test_SchemaError_Error(t *testing.T) {
	err := &SchemaError{Path: []any{"properties", "a", "type"}, Err: ErrMalformedSchema}
	assertEqual(t, "schema at /properties/a/type: malformed schema", err.Error())
	assertErrorIs(t, err, ErrMalformedSchema)

	root := &SchemaError{Err: ErrUnresolvedReference}
	assertEqual(t, "schema at <root>: unresolved reference", root.Error())
}
