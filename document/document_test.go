package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodePreservesKeyOrder(t *testing.T) {
	v, err := Decode([]byte(`{"zebra": 1, "alpha": {"b": true, "a": null}, "mike": [1, "2", 3.5]}`))
	require.NoError(t, err)

	m, ok := v.(*Map)
	require.True(t, ok)

	var keys []string
	for p := m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	require.Equal(t, []string{"zebra", "alpha", "mike"}, keys)

	nested, ok := m.Get("alpha")
	require.True(t, ok)
	nm, ok := nested.(*Map)
	require.True(t, ok)
	keys = nil
	for p := nm.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	require.Equal(t, []string{"b", "a"}, keys)

	arr, ok := m.Get("mike")
	require.True(t, ok)
	require.Equal(t, []any{json.Number("1"), "2", json.Number("3.5")}, arr)
}

func TestDecodeScalars(t *testing.T) {
	for input, want := range map[string]any{
		`"text"`: "text",
		`true`:   true,
		`false`:  false,
		`null`:   nil,
		`42`:     json.Number("42"),
		`-0.5`:   json.Number("-0.5"),
	} {
		v, err := Decode([]byte(input))
		require.NoError(t, err, input)
		require.Equal(t, want, v, input)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := Decode([]byte(`{"a": `))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid JSON")
}

func TestDecodeKeepsExactNumberText(t *testing.T) {
	v, err := Decode([]byte(`{"big": 9007199254740993}`))
	require.NoError(t, err)
	m := v.(*Map)
	raw, _ := m.Get("big")
	n, ok := raw.(json.Number)
	require.True(t, ok)
	i, err := n.Int64()
	require.NoError(t, err)
	require.Equal(t, int64(9007199254740993), i)
}

func TestDialect(t *testing.T) {
	data := []byte(`{"$schema": "http://json-schema.org/draft-04/schema#", "type": "object"}`)
	require.Equal(t, "http://json-schema.org/draft-04/schema#", Dialect(data))
	require.Equal(t, "", Dialect([]byte(`{"type": "object"}`)))
}

func TestDecodeYAML(t *testing.T) {
	data := []byte(`
zebra: 1
alpha:
  flag: true
  none: null
  pi: 3.14
items:
  - one
  - 2
`)
	v, err := DecodeYAML(data)
	require.NoError(t, err)
	m, ok := v.(*Map)
	require.True(t, ok)

	var keys []string
	for p := m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	require.Equal(t, []string{"zebra", "alpha", "items"}, keys)

	raw, _ := m.Get("alpha")
	nested := raw.(*Map)
	flag, _ := nested.Get("flag")
	require.Equal(t, true, flag)
	none, _ := nested.Get("none")
	require.Nil(t, none)
	pi, _ := nested.Get("pi")
	require.Equal(t, json.Number("3.14"), pi)

	items, _ := m.Get("items")
	require.Equal(t, []any{"one", json.Number("2")}, items)
}

func TestDecodeYAMLAnchor(t *testing.T) {
	v, err := DecodeYAML([]byte("base: &a {x: 1}\ncopy: *a\n"))
	require.NoError(t, err)
	m := v.(*Map)
	cp, _ := m.Get("copy")
	cpm := cp.(*Map)
	x, _ := cpm.Get("x")
	require.Equal(t, json.Number("1"), x)
}

func TestDecodeYAMLRejectsNonScalarKey(t *testing.T) {
	_, err := DecodeYAML([]byte("? [a, b]\n: 1\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "non-scalar mapping key")
}

func TestPlain(t *testing.T) {
	v, err := Decode([]byte(`{"a": 1, "b": [2.5, {"c": true}], "d": "x"}`))
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"a": int64(1),
		"b": []any{2.5, map[string]any{"c": true}},
		"d": "x",
	}, Plain(v))
}

func TestTokens(t *testing.T) {
	tokens, err := Tokens("/a~1b/c~0d/0")
	require.NoError(t, err)
	require.Equal(t, []string{"a/b", "c~d", "0"}, tokens)

	tokens, err = Tokens("")
	require.NoError(t, err)
	require.Empty(t, tokens)

	_, err = Tokens("a/b")
	require.Error(t, err)
}

func TestPointer(t *testing.T) {
	doc, err := Decode([]byte(`{"a": {"b/c": [10, {"~": "found"}]}}`))
	require.NoError(t, err)

	v, err := Pointer(doc, "/a/b~1c/1/~0")
	require.NoError(t, err)
	require.Equal(t, "found", v)

	v, err = Pointer(doc, "")
	require.NoError(t, err)
	require.Equal(t, doc, v)

	_, err = Pointer(doc, "/a/missing")
	require.Error(t, err)
	_, err = Pointer(doc, "/a/b~1c/2")
	require.Error(t, err)
	_, err = Pointer(doc, "/a/b~1c/01")
	require.Error(t, err)
	_, err = Pointer(doc, "/a/b~1c/-")
	require.Error(t, err)
}

func TestPointerPlainMap(t *testing.T) {
	doc := map[string]any{"a": []any{map[string]any{"b": 7}}}
	v, err := Pointer(doc, "/a/0/b")
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestEqual(t *testing.T) {
	ordered, err := Decode([]byte(`{"a": 1, "b": [true, "x", 2.5]}`))
	require.NoError(t, err)
	plain := map[string]any{"a": 1.0, "b": []any{true, "x", 2.5}}

	require.True(t, Equal(ordered, plain))
	require.True(t, Equal(plain, ordered))
	require.True(t, Equal(json.Number("2"), 2))
	require.True(t, Equal(int64(2), 2.0))
	require.False(t, Equal(2, "2"))
	require.False(t, Equal(true, 1))
	require.False(t, Equal(nil, false))
	require.False(t, Equal(map[string]any{"a": 1}, map[string]any{"a": 1, "b": 2}))
	require.False(t, Equal([]any{1, 2}, []any{2, 1}))
}

func TestDigest(t *testing.T) {
	a, err := Decode([]byte(`{"type": "object", "required": ["a"]}`))
	require.NoError(t, err)
	b, err := Decode([]byte(`{"type": "object", "required": ["a"]}`))
	require.NoError(t, err)
	c, err := Decode([]byte(`{"required": ["a"], "type": "object"}`))
	require.NoError(t, err)

	require.Equal(t, Digest(a), Digest(b))
	require.NotEqual(t, Digest(a), Digest(c))
	require.NotEqual(t, Digest(true), Digest(false))
	require.NotEqual(t, Digest([]any{json.Number("1")}), Digest([]any{"1"}))
}
