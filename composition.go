/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonschema

// schemaCheck is the conjunction of every constraining keyword of one
// schema object, in declaration order.
type schemaCheck struct {
	checks []check
}

func (s *schemaCheck) check(r *run, v any) {
	for _, ck := range s.checks {
		ck.check(r, v)
	}
}

// booleanCheck is a boolean-literal schema: true accepts everything, false
// rejects everything.
type booleanCheck bool

func (b booleanCheck) check(r *run, v any) {
	if !bool(b) {
		r.record("schema", v, map[string]any{"reason": "schema allows nothing"})
	}
}

func (c *compiler) compileApplicatorList(s *schemaScope, keyword string, value any) ([]check, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, schemaErrorf(s.at(keyword), ErrMalformedSchema, "%s must be an array of schemas", keyword)
	}
	if len(items) == 0 {
		return nil, schemaErrorf(s.at(keyword), ErrMalformedSchema, "%s must not be empty", keyword)
	}
	checks := make([]check, len(items))
	for i := range items {
		ck, err := c.compileNode(items[i], s.base, s.at(keyword, i))
		if err != nil {
			return nil, err
		}
		checks[i] = ck
	}
	return checks, nil
}

func (c *compiler) compileAllOf(s *schemaScope, value any) (check, error) {
	branches, err := c.compileApplicatorList(s, "allOf", value)
	if err != nil {
		return nil, err
	}
	return &allOfCheck{branches: branches}, nil
}

// allOfCheck runs every branch against the shared run, so an allOf is
// indistinguishable from the concatenation of its branches.
type allOfCheck struct {
	branches []check
}

func (a *allOfCheck) check(r *run, v any) {
	for _, b := range a.branches {
		b.check(r, v)
	}
}

func (c *compiler) compileAnyOf(s *schemaScope, value any) (check, error) {
	branches, err := c.compileApplicatorList(s, "anyOf", value)
	if err != nil {
		return nil, err
	}
	return &anyOfCheck{branches: branches}, nil
}

type anyOfCheck struct {
	branches []check
}

func (a *anyOfCheck) check(r *run, v any) {
	captured := make([][]ErrorRecord, len(a.branches))
	for i, b := range a.branches {
		captured[i] = r.capture(b, v)
		if captured[i] == nil {
			return
		}
	}
	r.record("anyOf", v, map[string]any{"branches": len(a.branches)})
	for i := range captured {
		r.errs = append(r.errs, withBranch(captured[i], i)...)
	}
}

func (c *compiler) compileOneOf(s *schemaScope, value any) (check, error) {
	branches, err := c.compileApplicatorList(s, "oneOf", value)
	if err != nil {
		return nil, err
	}
	return &oneOfCheck{branches: branches}, nil
}

type oneOfCheck struct {
	branches []check
}

func (o *oneOfCheck) check(r *run, v any) {
	captured := make([][]ErrorRecord, len(o.branches))
	var passed []int
	for i, b := range o.branches {
		captured[i] = r.capture(b, v)
		if captured[i] == nil {
			passed = append(passed, i)
		}
	}
	switch len(passed) {
	case 1:
		return
	case 0:
		r.record("oneOf", v, map[string]any{"branches": len(o.branches)})
		for i := range captured {
			r.errs = append(r.errs, withBranch(captured[i], i)...)
		}
	default:
		r.record("oneOf", v, map[string]any{"conflicting": passed})
	}
}

// withBranch tags captured branch records with the branch index that
// produced them. Records that already carry a branch tag from a nested
// combinator keep their own.
func withBranch(records []ErrorRecord, branch int) []ErrorRecord {
	for i := range records {
		if _, ok := records[i].Context["branch"]; ok {
			continue
		}
		ctx := make(map[string]any, len(records[i].Context)+1)
		for k, val := range records[i].Context {
			ctx[k] = val
		}
		ctx["branch"] = branch
		records[i].Context = ctx
	}
	return records
}

func (c *compiler) compileNot(s *schemaScope, value any) (check, error) {
	child, err := c.compileNode(value, s.base, s.at("not"))
	if err != nil {
		return nil, err
	}
	return &notCheck{child: child}, nil
}

type notCheck struct {
	child check
}

func (n *notCheck) check(r *run, v any) {
	if r.capture(n.child, v) == nil {
		r.record("not", v, nil)
	}
}

// compileIf builds the conditional applicator. A lone if with no then or
// else constrains nothing.
func (c *compiler) compileIf(s *schemaScope, value any) (check, error) {
	cond, err := c.compileNode(value, s.base, s.at("if"))
	if err != nil {
		return nil, err
	}
	node := &condCheck{cond: cond}
	if raw, ok := s.sibling("then"); ok {
		node.then, err = c.compileNode(raw, s.base, s.at("then"))
		if err != nil {
			return nil, err
		}
	}
	if raw, ok := s.sibling("else"); ok {
		node.els, err = c.compileNode(raw, s.base, s.at("else"))
		if err != nil {
			return nil, err
		}
	}
	if node.then == nil && node.els == nil {
		return nil, nil
	}
	return node, nil
}

type condCheck struct {
	cond check
	then check
	els  check
}

func (cc *condCheck) check(r *run, v any) {
	if r.capture(cc.cond, v) == nil {
		if cc.then != nil {
			cc.then.check(r, v)
		}
		return
	}
	if cc.els != nil {
		cc.els.check(r, v)
	}
}
