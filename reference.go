/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonschema

import (
	"errors"
)

// RecursionLimitReason is the Context["reason"] value of the record emitted
// when validation stops following a reference cycle at the same instance
// location.
const RecursionLimitReason = "recursion limit exceeded"

// refNode is a reference in the validator graph. Its delegate is linked
// after the target compiles, which is what lets self-referential schemas
// form cycles in the graph instead of diverging during compilation.
type refNode struct {
	id       string
	delegate check
}

func (n *refNode) check(r *run, v any) {
	key := activeRef{node: n, loc: location(v)}
	if _, ok := r.active[key]; ok {
		r.record("$ref", v, map[string]any{"reason": RecursionLimitReason, "ref": n.id})
		return
	}
	r.active[key] = struct{}{}
	n.delegate.check(r, v)
	delete(r.active, key)
}

// compileRef resolves and compiles a reference target exactly once per
// canonical identifier. The memo entry is created before the target
// compiles so that a target referring back to it links against the
// placeholder instead of recursing.
func (c *compiler) compileRef(ref, base string, path []any) (check, error) {
	id, err := canonicalID(base, ref)
	if err != nil {
		return nil, schemaErrorf(append(path, "$ref"), ErrMalformedSchema, "%v", err)
	}
	if node, ok := c.memo[id]; ok {
		return node, nil
	}
	node := &refNode{id: id}
	c.memo[id] = node
	target, targetBase, targetPath, err := c.resolve(id)
	if err != nil {
		return nil, &SchemaError{Path: copyPath(append(path, "$ref")), Err: err}
	}
	delegate, err := c.compileNode(target, targetBase, targetPath)
	if err != nil {
		return nil, err
	}
	node.delegate = delegate
	if err := c.checkProgress(node, path); err != nil {
		return nil, err
	}
	return node, nil
}

// resolve consults the document under compilation first, then the shared
// registry. When the local document exists but the fragment does not, the
// local error is final; falling through to the shared registry would turn a
// precise fragment miss into an unknown-document report.
func (c *compiler) resolve(id string) (any, string, []any, error) {
	v, base, path, err := c.root.resolve(id)
	if err == nil {
		return v, base, path, nil
	}
	if !errors.Is(err, ErrUnresolvedReference) || c.root.hasDocument(id) {
		return nil, "", nil, err
	}
	return c.shared.resolve(id)
}

// checkProgress rejects reference chains that can never reach a concrete
// schema, such as a document whose root is a reference to itself.
func (c *compiler) checkProgress(node *refNode, path []any) error {
	d := node.delegate
	for depth := 0; ; depth++ {
		next, ok := d.(*refNode)
		if !ok {
			return nil
		}
		if next == node || depth >= c.opts.maxRefDepth {
			return schemaErrorf(append(path, "$ref"), ErrRecursionLimit, "reference chain through %q makes no progress", node.id)
		}
		if next.delegate == nil {
			// Still linking further up the chain; the outer call checks it.
			return nil
		}
		d = next.delegate
	}
}
