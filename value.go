/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonschema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/acronis/go-jsonschema/document"
)

// object is a uniform view over the two accepted object forms: ordered maps
// produced by the document package and plain maps produced by encoding/json.
type object struct {
	om *document.Map
	m  map[string]any
}

func asObject(v any) (object, bool) {
	switch t := v.(type) {
	case *document.Map:
		return object{om: t}, true
	case map[string]any:
		return object{m: t}, true
	}
	return object{}, false
}

func (o object) len() int {
	if o.om != nil {
		return o.om.Len()
	}
	return len(o.m)
}

func (o object) get(key string) (any, bool) {
	if o.om != nil {
		return o.om.Get(key)
	}
	v, ok := o.m[key]
	return v, ok
}

// each visits entries in declaration order for ordered maps and in sorted
// key order for plain maps, so a validation run is deterministic either way.
func (o object) each(fn func(key string, value any)) {
	if o.om != nil {
		for p := o.om.Oldest(); p != nil; p = p.Next() {
			fn(p.Key, p.Value)
		}
		return
	}
	keys := make([]string, 0, len(o.m))
	for k := range o.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(k, o.m[k])
	}
}

// number is a numeric value in exact form: integers stay integers so that
// bounds and multiples never suffer float rounding.
type number struct {
	i     int64
	f     float64
	isInt bool
}

func asNumber(v any) (number, bool) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return number{i: i, isInt: true}, true
		}
		f, err := t.Float64()
		if err != nil {
			return number{}, false
		}
		return number{f: f}, true
	case int:
		return number{i: int64(t), isInt: true}, true
	case int8:
		return number{i: int64(t), isInt: true}, true
	case int16:
		return number{i: int64(t), isInt: true}, true
	case int32:
		return number{i: int64(t), isInt: true}, true
	case int64:
		return number{i: t, isInt: true}, true
	case uint:
		return number{i: int64(t), isInt: true}, true
	case uint8:
		return number{i: int64(t), isInt: true}, true
	case uint16:
		return number{i: int64(t), isInt: true}, true
	case uint32:
		return number{i: int64(t), isInt: true}, true
	case uint64:
		if t > math.MaxInt64 {
			return number{f: float64(t)}, true
		}
		return number{i: int64(t), isInt: true}, true
	case float32:
		return number{f: float64(t)}, true
	case float64:
		return number{f: t}, true
	}
	return number{}, false
}

func (n number) float() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

// integral reports whether the value is a mathematical integer.
func (n number) integral() bool {
	if n.isInt {
		return true
	}
	return !math.IsInf(n.f, 0) && !math.IsNaN(n.f) && n.f == math.Trunc(n.f)
}

// cmp compares two numbers exactly and returns -1, 0 or 1.
func (n number) cmp(m number) int {
	if n.isInt && m.isInt {
		switch {
		case n.i < m.i:
			return -1
		case n.i > m.i:
			return 1
		}
		return 0
	}
	a, b := n.float(), m.float()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// kindName names a value's JSON kind for error messages.
func kindName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	}
	if _, ok := asObject(v); ok {
		return "object"
	}
	if _, ok := asNumber(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
