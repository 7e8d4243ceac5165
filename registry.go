/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonschema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonreference"

	"github.com/acronis/go-jsonschema/document"
)

// Registry holds pre-fetched schema documents for cross-document reference
// resolution. Compilation never touches the network or the filesystem:
// every document a schema refers to must be registered up front.
//
// Register all documents before the first Compile call that uses the
// Registry; after that it is safe for concurrent readers.
type Registry struct {
	docs    map[string]any
	anchors map[string]anchorEntry
}

type anchorEntry struct {
	value any
	base  string
	path  []any
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		docs:    make(map[string]any),
		anchors: make(map[string]anchorEntry),
	}
}

// Register adds a parsed schema document under its base identifier. The
// document is scanned for nested $id declarations so references can target
// embedded schemas directly.
func (r *Registry) Register(id string, doc any) error {
	base, err := canonicalID("", id)
	if err != nil {
		return fmt.Errorf("register %q: %w", id, err)
	}
	if _, ok := r.docs[base]; ok {
		return fmt.Errorf("register %q: already registered", id)
	}
	r.docs[base] = doc
	r.scanAnchors(doc, base, nil)
	return nil
}

// scanAnchors walks the document and indexes every embedded schema that
// declares its own identifier. Keywords that carry data rather than
// subschemas are skipped so instance values never register anchors.
func (r *Registry) scanAnchors(v any, base string, path []any) {
	if arr, ok := v.([]any); ok {
		for i := range arr {
			r.scanAnchors(arr[i], base, append(path, i))
		}
		return
	}
	obj, ok := asObject(v)
	if !ok {
		return
	}
	cur := base
	if raw, ok := idValue(obj); ok {
		if id, err := canonicalID(base, raw); err == nil && id != base {
			cur = id
			r.anchors[id] = anchorEntry{value: v, base: id, path: copyPath(path)}
		}
	}
	obj.each(func(key string, item any) {
		if dataKeyword(key) {
			return
		}
		r.scanAnchors(item, cur, append(path, key))
	})
}

func dataKeyword(key string) bool {
	switch key {
	case "enum", "const", "default", "examples":
		return true
	}
	return false
}

func idValue(obj object) (string, bool) {
	for _, key := range []string{"$id", "id"} {
		if raw, ok := obj.get(key); ok {
			if s, ok := raw.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// resolve maps a canonical identifier to the schema fragment it names, the
// base identifier in effect at that fragment, and the fragment's location
// inside its document.
func (r *Registry) resolve(id string) (any, string, []any, error) {
	if doc, ok := r.docs[id]; ok {
		return doc, id, nil, nil
	}
	if a, ok := r.anchors[id]; ok {
		return a.value, a.base, a.path, nil
	}
	base, frag := splitFragment(id)
	if frag == "" {
		return nil, "", nil, fmt.Errorf("%w: unknown document %q", ErrUnresolvedReference, id)
	}
	var root any
	var rootBase string
	var rootPath []any
	if doc, ok := r.docs[base]; ok {
		root, rootBase = doc, base
	} else if a, ok := r.anchors[base]; ok {
		root, rootBase, rootPath = a.value, a.base, a.path
	} else {
		return nil, "", nil, fmt.Errorf("%w: %q names unknown document %q", ErrUnresolvedReference, id, base)
	}
	tokens, err := document.Tokens(frag)
	if err != nil {
		return nil, "", nil, fmt.Errorf("%w: %q: %v", ErrUnresolvedReference, id, err)
	}
	cur, curBase := root, rootBase
	path := copyPath(rootPath)
	for _, tok := range tokens {
		next, seg, ok := descend(cur, tok)
		if !ok {
			return nil, "", nil, fmt.Errorf("%w: %q has no fragment %q", ErrUnresolvedReference, id, frag)
		}
		cur = next
		path = append(path, seg)
		if obj, ok := asObject(cur); ok {
			if raw, ok := idValue(obj); ok {
				if nb, err := canonicalID(curBase, raw); err == nil {
					curBase = nb
				}
			}
		}
	}
	return cur, curBase, path, nil
}

// hasDocument reports whether the base document an identifier points into is
// present, regardless of whether the fragment inside it resolves.
func (r *Registry) hasDocument(id string) bool {
	base, _ := splitFragment(id)
	if _, ok := r.docs[base]; ok {
		return true
	}
	_, ok := r.anchors[base]
	return ok
}

func descend(v any, tok string) (any, any, bool) {
	if obj, ok := asObject(v); ok {
		val, ok := obj.get(tok)
		return val, tok, ok
	}
	if arr, ok := v.([]any); ok {
		idx, err := document.ArrayIndex(tok)
		if err != nil || idx >= len(arr) {
			return nil, nil, false
		}
		return arr[idx], idx, true
	}
	return nil, nil, false
}

func splitFragment(id string) (string, string) {
	if i := strings.Index(id, "#"); i >= 0 {
		return id[:i], id[i+1:]
	}
	return id, ""
}

// canonicalID resolves ref against base per RFC 3986 and returns the
// canonical identifier. An empty or bare "#" fragment is normalized away.
func canonicalID(base, ref string) (string, error) {
	child, err := gojsonreference.NewJsonReference(ref)
	if err != nil {
		return "", fmt.Errorf("parse reference %q: %v", ref, err)
	}
	if base == "" {
		return normalizeID(child.String()), nil
	}
	parent, err := gojsonreference.NewJsonReference(base)
	if err != nil {
		return "", fmt.Errorf("parse base %q: %v", base, err)
	}
	full, err := parent.Inherits(child)
	if err != nil {
		return "", fmt.Errorf("resolve %q against %q: %v", ref, base, err)
	}
	return normalizeID(full.String()), nil
}

func normalizeID(id string) string {
	return strings.TrimSuffix(id, "#")
}
