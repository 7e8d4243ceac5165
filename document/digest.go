package document

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/zeebo/xxh3"
)

const (
	tagNull byte = iota
	tagFalse
	tagTrue
	tagInt
	tagFloat
	tagString
	tagArray
	tagObject
)

// Digest returns a 64-bit fingerprint of a document tree. The fingerprint
// covers structure, values and iteration order, so trees must carry the
// same declarations in the same order to collide. Plain maps hash in sorted
// key order.
func Digest(v any) uint64 {
	h := xxh3.New()
	writeValue(h, v)
	return h.Sum64()
}

func writeValue(h *xxh3.Hasher, v any) {
	switch t := v.(type) {
	case nil:
		h.Write([]byte{tagNull})
	case bool:
		if t {
			h.Write([]byte{tagTrue})
		} else {
			h.Write([]byte{tagFalse})
		}
	case string:
		writeString(h, tagString, t)
	case []any:
		writeHeader(h, tagArray, len(t))
		for i := range t {
			writeValue(h, t[i])
		}
	case *Map:
		writeHeader(h, tagObject, t.Len())
		for p := t.Oldest(); p != nil; p = p.Next() {
			writeString(h, tagString, p.Key)
			writeValue(h, p.Value)
		}
	case map[string]any:
		writeHeader(h, tagObject, len(t))
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeString(h, tagString, k)
			writeValue(h, t[k])
		}
	default:
		if n, ok := num(v); ok {
			var buf [9]byte
			if n.isInt {
				buf[0] = tagInt
				binary.LittleEndian.PutUint64(buf[1:], uint64(n.i))
			} else {
				buf[0] = tagFloat
				binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(n.f))
			}
			h.Write(buf[:])
			return
		}
		writeString(h, tagString, fmt.Sprintf("%T:%v", v, v))
	}
}

func writeHeader(h *xxh3.Hasher, tag byte, n int) {
	var buf [9]byte
	buf[0] = tag
	binary.LittleEndian.PutUint64(buf[1:], uint64(n))
	h.Write(buf[:])
}

func writeString(h *xxh3.Hasher, tag byte, s string) {
	writeHeader(h, tag, len(s))
	h.Write([]byte(s))
}
