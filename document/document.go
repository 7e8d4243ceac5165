// Package document decodes JSON and YAML text into the generic trees the
// jsonschema package compiles and validates: *Map for objects (declaration
// order preserved), []any for arrays, json.Number for numbers, and string,
// bool and nil for the remaining scalars.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Map is an object node of a decoded document. Key order matches the
// declaration order in the source text.
type Map = orderedmap.OrderedMap[string, any]

// NewMap constructs an empty object node.
func NewMap() *Map {
	return orderedmap.New[string, any]()
}

// Decode parses JSON bytes into a document tree.
func Decode(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("decode document: invalid JSON")
	}
	return fromJSON(gjson.ParseBytes(data)), nil
}

// Dialect returns the root $schema value of a raw JSON document, or an
// empty string when the document does not declare one.
func Dialect(data []byte) string {
	return gjson.GetBytes(data, "$schema").String()
}

func fromJSON(r gjson.Result) any {
	switch {
	case r.IsObject():
		m := NewMap()
		r.ForEach(func(k, v gjson.Result) bool {
			m.Set(k.String(), fromJSON(v))
			return true
		})
		return m
	case r.IsArray():
		items := r.Array()
		out := make([]any, 0, len(items))
		for i := range items {
			out = append(out, fromJSON(items[i]))
		}
		return out
	}
	switch r.Type {
	case gjson.String:
		return r.String()
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.True:
		return true
	case gjson.False:
		return false
	default:
		return nil
	}
}

// DecodeYAML parses YAML bytes into the same tree shape as Decode. Mapping
// keys must be scalars; anchors and aliases are expanded.
func DecodeYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode YAML document: %w", err)
	}
	if root.Kind == 0 {
		return nil, nil
	}
	d := yamlDecoder{aliases: make(map[*yaml.Node]struct{})}
	v, err := d.node(&root)
	if err != nil {
		return nil, fmt.Errorf("decode YAML document: %w", err)
	}
	return v, nil
}

type yamlDecoder struct {
	aliases map[*yaml.Node]struct{}
}

func (d *yamlDecoder) node(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.node(n.Content[0])
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("non-scalar mapping key at line %d", key.Line)
			}
			v, err := d.node(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key.Value, v)
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := d.node(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.AliasNode:
		if _, ok := d.aliases[n.Alias]; ok {
			return nil, fmt.Errorf("cyclic alias %q at line %d", n.Value, n.Line)
		}
		d.aliases[n.Alias] = struct{}{}
		v, err := d.node(n.Alias)
		delete(d.aliases, n.Alias)
		return v, err
	case yaml.ScalarNode:
		return d.scalar(n)
	default:
		return nil, fmt.Errorf("unsupported YAML node kind %d at line %d", n.Kind, n.Line)
	}
}

func (d *yamlDecoder) scalar(n *yaml.Node) (any, error) {
	switch n.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}
		return json.Number(strconv.FormatInt(i, 10)), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		return n.Value, nil
	}
}

// Plain converts a document tree into encoding/json-natural Go values:
// map[string]any for objects, int64 or float64 for numbers. Values already
// in that shape pass through unchanged.
func Plain(v any) any {
	switch t := v.(type) {
	case *Map:
		out := make(map[string]any, t.Len())
		for p := t.Oldest(); p != nil; p = p.Next() {
			out[p.Key] = Plain(p.Value)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Plain(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Plain(t[i])
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return string(t)
	default:
		return v
	}
}
