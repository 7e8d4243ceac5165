/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonschema

import (
	"regexp"
)

func (c *compiler) compileProperties(s *schemaScope, value any) (check, error) {
	obj, ok := asObject(value)
	if !ok {
		return nil, schemaErrorf(s.at("properties"), ErrMalformedSchema, "properties must be an object")
	}
	node := &propertiesCheck{props: make(map[string]check, obj.len())}
	var err error
	obj.each(func(name string, sub any) {
		if err != nil {
			return
		}
		var ck check
		ck, err = c.compileNode(sub, s.base, s.at("properties", name))
		if err == nil {
			node.props[name] = ck
		}
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

type propertiesCheck struct {
	props map[string]check
}

func (p *propertiesCheck) check(r *run, v any) {
	obj, ok := asObject(v)
	if !ok {
		return
	}
	obj.each(func(key string, value any) {
		child, ok := p.props[key]
		if !ok {
			return
		}
		r.pushPath(key)
		child.check(r, value)
		r.popPath()
	})
}

func (c *compiler) compilePatternProperties(s *schemaScope, value any) (check, error) {
	obj, ok := asObject(value)
	if !ok {
		return nil, schemaErrorf(s.at("patternProperties"), ErrMalformedSchema, "patternProperties must be an object")
	}
	node := &patternPropertiesCheck{}
	var err error
	obj.each(func(src string, sub any) {
		if err != nil {
			return
		}
		re, reErr := regexp.Compile(src)
		if reErr != nil {
			err = schemaErrorf(s.at("patternProperties", src), ErrMalformedSchema, "pattern %q: %v", src, reErr)
			return
		}
		var ck check
		ck, err = c.compileNode(sub, s.base, s.at("patternProperties", src))
		if err == nil {
			node.patterns = append(node.patterns, patternProperty{source: src, re: re, child: ck})
		}
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

type patternProperty struct {
	source string
	re     *regexp.Regexp
	child  check
}

type patternPropertiesCheck struct {
	patterns []patternProperty
}

func (p *patternPropertiesCheck) check(r *run, v any) {
	obj, ok := asObject(v)
	if !ok {
		return
	}
	obj.each(func(key string, value any) {
		for i := range p.patterns {
			if p.patterns[i].re.MatchString(key) {
				r.pushPath(key)
				p.patterns[i].child.check(r, value)
				r.popPath()
			}
		}
	})
}

// coveredSet is the compile-time property coverage used by
// additionalProperties and unevaluatedProperties.
type coveredSet struct {
	names    map[string]struct{}
	patterns []*regexp.Regexp
}

func (cs *coveredSet) covers(key string) bool {
	if _, ok := cs.names[key]; ok {
		return true
	}
	for _, re := range cs.patterns {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}

// compileAdditionalProperties backs both additionalProperties and
// unevaluatedProperties. The former covers the sibling properties and
// patternProperties; the latter additionally gathers coverage declared
// inside sibling applicator keywords, a static approximation that never
// depends on which branches matched at run time.
func (c *compiler) compileAdditionalProperties(s *schemaScope, keyword string, value any, deep bool) (check, error) {
	covered := &coveredSet{names: make(map[string]struct{})}
	if err := c.gatherCovered(covered, s.obj, s.path, deep); err != nil {
		return nil, err
	}
	node := &additionalPropertiesCheck{keyword: keyword, covered: covered}
	if allow, ok := value.(bool); ok {
		if allow {
			return nil, nil
		}
		return node, nil
	}
	ck, err := c.compileNode(value, s.base, s.at(keyword))
	if err != nil {
		return nil, err
	}
	node.child = ck
	return node, nil
}

func (c *compiler) gatherCovered(cs *coveredSet, obj object, path []any, deep bool) error {
	if raw, ok := obj.get("properties"); ok {
		if po, ok := asObject(raw); ok {
			po.each(func(name string, _ any) {
				cs.names[name] = struct{}{}
			})
		}
	}
	if raw, ok := obj.get("patternProperties"); ok {
		if po, ok := asObject(raw); ok {
			var err error
			po.each(func(src string, _ any) {
				if err != nil {
					return
				}
				re, reErr := regexp.Compile(src)
				if reErr != nil {
					err = schemaErrorf(append(path, "patternProperties", src), ErrMalformedSchema, "pattern %q: %v", src, reErr)
					return
				}
				cs.patterns = append(cs.patterns, re)
			})
			if err != nil {
				return err
			}
		}
	}
	if !deep {
		return nil
	}
	for _, key := range []string{"allOf", "anyOf", "oneOf"} {
		raw, ok := obj.get(key)
		if !ok {
			continue
		}
		subs, ok := raw.([]any)
		if !ok {
			continue
		}
		for i := range subs {
			if so, ok := asObject(subs[i]); ok {
				if err := c.gatherCovered(cs, so, append(path, key, i), deep); err != nil {
					return err
				}
			}
		}
	}
	for _, key := range []string{"if", "then", "else"} {
		raw, ok := obj.get(key)
		if !ok {
			continue
		}
		if so, ok := asObject(raw); ok {
			if err := c.gatherCovered(cs, so, append(path, key), deep); err != nil {
				return err
			}
		}
	}
	return nil
}

type additionalPropertiesCheck struct {
	keyword string
	covered *coveredSet
	child   check // nil rejects every uncovered property
}

func (a *additionalPropertiesCheck) check(r *run, v any) {
	obj, ok := asObject(v)
	if !ok {
		return
	}
	obj.each(func(key string, value any) {
		if a.covered.covers(key) {
			return
		}
		r.pushPath(key)
		if a.child == nil {
			r.record(a.keyword, value, nil)
		} else {
			a.child.check(r, value)
		}
		r.popPath()
	})
}

func (c *compiler) compileRequired(s *schemaScope, value any) (check, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, schemaErrorf(s.at("required"), ErrMalformedSchema, "required must be an array of strings")
	}
	if len(items) == 0 {
		return nil, schemaErrorf(s.at("required"), ErrMalformedSchema, "required must not be empty")
	}
	names := make([]string, len(items))
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		name, ok := items[i].(string)
		if !ok {
			return nil, schemaErrorf(s.at("required", i), ErrMalformedSchema, "required elements must be strings")
		}
		if _, ok := seen[name]; ok {
			return nil, schemaErrorf(s.at("required", i), ErrMalformedSchema, "duplicate required property %q", name)
		}
		seen[name] = struct{}{}
		names[i] = name
	}
	return &requiredCheck{names: names}, nil
}

type requiredCheck struct {
	names []string
}

func (rc *requiredCheck) check(r *run, v any) {
	obj, ok := asObject(v)
	if !ok {
		return
	}
	for _, name := range rc.names {
		if _, ok := obj.get(name); !ok {
			r.record("required", v, map[string]any{"property": name})
		}
	}
}

func (c *compiler) compileDependencies(s *schemaScope, value any) (check, error) {
	obj, ok := asObject(value)
	if !ok {
		return nil, schemaErrorf(s.at("dependencies"), ErrMalformedSchema, "dependencies must be an object")
	}
	node := &dependenciesCheck{}
	var err error
	obj.each(func(trigger string, raw any) {
		if err != nil {
			return
		}
		dep := dependency{trigger: trigger}
		if items, ok := raw.([]any); ok {
			for i := range items {
				name, nameOk := items[i].(string)
				if !nameOk {
					err = schemaErrorf(s.at("dependencies", trigger, i), ErrMalformedSchema, "property dependencies must be strings")
					return
				}
				dep.names = append(dep.names, name)
			}
		} else {
			dep.schema, err = c.compileNode(raw, s.base, s.at("dependencies", trigger))
			if err != nil {
				return
			}
		}
		node.deps = append(node.deps, dep)
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// dependency is one dependencies entry: either a list of property names
// that must accompany the trigger, or a schema the whole object must
// satisfy when the trigger is present.
type dependency struct {
	trigger string
	names   []string
	schema  check
}

type dependenciesCheck struct {
	deps []dependency
}

func (d *dependenciesCheck) check(r *run, v any) {
	obj, ok := asObject(v)
	if !ok {
		return
	}
	for i := range d.deps {
		dep := &d.deps[i]
		if _, ok := obj.get(dep.trigger); !ok {
			continue
		}
		if dep.schema != nil {
			dep.schema.check(r, v)
			continue
		}
		for _, name := range dep.names {
			if _, ok := obj.get(name); !ok {
				r.record("dependencies", v, map[string]any{"dependency": dep.trigger, "property": name})
			}
		}
	}
}

func (c *compiler) compilePropertyNames(s *schemaScope, value any) (check, error) {
	ck, err := c.compileNode(value, s.base, s.at("propertyNames"))
	if err != nil {
		return nil, err
	}
	return &propertyNamesCheck{child: ck}, nil
}

// propertyNamesCheck validates each property name as a string instance at
// the property's own path.
type propertyNamesCheck struct {
	child check
}

func (p *propertyNamesCheck) check(r *run, v any) {
	obj, ok := asObject(v)
	if !ok {
		return
	}
	obj.each(func(key string, _ any) {
		r.pushPath(key)
		p.child.check(r, key)
		r.popPath()
	})
}

func (c *compiler) compileCount(s *schemaScope, keyword string, value any, upper, objects bool) (check, error) {
	limit, err := nonNegativeInt(value)
	if err != nil {
		return nil, schemaErrorf(s.at(keyword), ErrMalformedSchema, "%s %v", keyword, err)
	}
	return &countCheck{keyword: keyword, limit: limit, upper: upper, objects: objects}, nil
}

// countCheck backs minItems, maxItems, minProperties and maxProperties.
type countCheck struct {
	keyword string
	limit   int
	upper   bool
	objects bool
}

func (cc *countCheck) check(r *run, v any) {
	n := -1
	if cc.objects {
		if obj, ok := asObject(v); ok {
			n = obj.len()
		}
	} else if arr, ok := v.([]any); ok {
		n = len(arr)
	}
	if n < 0 {
		return
	}
	if (cc.upper && n > cc.limit) || (!cc.upper && n < cc.limit) {
		r.record(cc.keyword, v, map[string]any{"limit": cc.limit, "count": n})
	}
}
