package document

import (
	"encoding/json"
	"math"
)

// Equal reports deep equality of two document trees. Numbers compare by
// numeric value regardless of representation, objects regardless of form
// and key order.
func Equal(a, b any) bool {
	if an, ok := num(a); ok {
		bn, ok := num(b)
		return ok && numEqual(an, bn)
	}
	switch at := a.(type) {
	case nil:
		return b == nil
	case bool:
		bt, ok := b.(bool)
		return ok && at == bt
	case string:
		bt, ok := b.(string)
		return ok && at == bt
	case []any:
		bt, ok := b.([]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !Equal(at[i], bt[i]) {
				return false
			}
		}
		return true
	}
	am, ok := entries(a)
	if !ok {
		return false
	}
	bm, ok := entries(b)
	if !ok || len(am) != len(bm) {
		return false
	}
	for k, av := range am {
		bv, ok := bm[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

func entries(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case *Map:
		out := make(map[string]any, t.Len())
		for p := t.Oldest(); p != nil; p = p.Next() {
			out[p.Key] = p.Value
		}
		return out, true
	case map[string]any:
		return t, true
	}
	return nil, false
}

type numval struct {
	i     int64
	f     float64
	isInt bool
}

func num(v any) (numval, bool) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return numval{i: i, isInt: true}, true
		}
		f, err := t.Float64()
		if err != nil {
			return numval{}, false
		}
		return numval{f: f}, true
	case int:
		return numval{i: int64(t), isInt: true}, true
	case int8:
		return numval{i: int64(t), isInt: true}, true
	case int16:
		return numval{i: int64(t), isInt: true}, true
	case int32:
		return numval{i: int64(t), isInt: true}, true
	case int64:
		return numval{i: t, isInt: true}, true
	case uint:
		return numval{i: int64(t), isInt: true}, true
	case uint8:
		return numval{i: int64(t), isInt: true}, true
	case uint16:
		return numval{i: int64(t), isInt: true}, true
	case uint32:
		return numval{i: int64(t), isInt: true}, true
	case uint64:
		if t > math.MaxInt64 {
			return numval{f: float64(t)}, true
		}
		return numval{i: int64(t), isInt: true}, true
	case float32:
		return numval{f: float64(t)}, true
	case float64:
		return numval{f: t}, true
	}
	return numval{}, false
}

func (n numval) float() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

func numEqual(a, b numval) bool {
	if a.isInt && b.isInt {
		return a.i == b.i
	}
	return a.float() == b.float()
}
