package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Tokens splits an RFC 6901 JSON pointer into its decoded reference tokens.
// The empty pointer yields no tokens.
func Tokens(pointer string) ([]string, error) {
	if pointer == "" {
		return nil, nil
	}
	if pointer[0] != '/' {
		return nil, fmt.Errorf("invalid JSON pointer %q: must start with /", pointer)
	}
	raw := strings.Split(pointer[1:], "/")
	tokens := make([]string, len(raw))
	for i, tok := range raw {
		tok = strings.ReplaceAll(tok, "~1", "/")
		tokens[i] = strings.ReplaceAll(tok, "~0", "~")
	}
	return tokens, nil
}

// ArrayIndex parses a reference token as an RFC 6901 array index: a
// non-negative decimal without leading zeros.
func ArrayIndex(token string) (int, error) {
	if token == "" || token[0] < '0' || token[0] > '9' {
		return 0, fmt.Errorf("invalid array index %q", token)
	}
	if len(token) > 1 && token[0] == '0' {
		return 0, fmt.Errorf("array index %q has a leading zero", token)
	}
	idx, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid array index %q", token)
	}
	return idx, nil
}

// Pointer resolves an RFC 6901 JSON pointer against a document tree.
func Pointer(doc any, pointer string) (any, error) {
	tokens, err := Tokens(pointer)
	if err != nil {
		return nil, err
	}
	cur := doc
	for _, tok := range tokens {
		switch t := cur.(type) {
		case *Map:
			v, ok := t.Get(tok)
			if !ok {
				return nil, fmt.Errorf("resolve pointer %q: missing key %q", pointer, tok)
			}
			cur = v
		case map[string]any:
			v, ok := t[tok]
			if !ok {
				return nil, fmt.Errorf("resolve pointer %q: missing key %q", pointer, tok)
			}
			cur = v
		case []any:
			idx, err := ArrayIndex(tok)
			if err != nil {
				return nil, fmt.Errorf("resolve pointer %q: %w", pointer, err)
			}
			if idx >= len(t) {
				return nil, fmt.Errorf("resolve pointer %q: index %d out of range", pointer, idx)
			}
			cur = t[idx]
		default:
			return nil, fmt.Errorf("resolve pointer %q: cannot descend into %T with token %q", pointer, cur, tok)
		}
	}
	return cur, nil
}
