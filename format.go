/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonschema

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// FormatFunc reports whether a string satisfies a named format.
type FormatFunc func(s string) bool

// builtinFormats are the formats known out of the box. Format checking is
// advisory unless WithFormatAssertion is set; unknown formats are skipped
// unless WithStrict is set.
var builtinFormats = map[string]FormatFunc{
	"date-time": isDateTime,
	"email":     isEmail,
	"hostname":  isHostname,
	"ipv4":      isIPv4,
	"ipv6":      isIPv6,
	"uri":       isURI,
}

func (c *compiler) compileFormat(s *schemaScope, value any) (check, error) {
	name, ok := value.(string)
	if !ok {
		return nil, schemaErrorf(s.at("format"), ErrMalformedSchema, "format must be a string")
	}
	fn, ok := c.opts.formats[name]
	if !ok {
		fn, ok = builtinFormats[name]
	}
	if !ok {
		if c.opts.strict {
			return nil, schemaErrorf(s.at("format"), ErrUnsupportedKeyword, "format %q", name)
		}
		return nil, nil
	}
	if !c.opts.assertFormats {
		return nil, nil
	}
	return &formatCheck{name: name, fn: fn}, nil
}

type formatCheck struct {
	name string
	fn   FormatFunc
}

func (f *formatCheck) check(r *run, v any) {
	s, ok := v.(string)
	if !ok {
		return
	}
	if !f.fn(s) {
		r.record("format", v, map[string]any{"format": f.name})
	}
}

func isDateTime(s string) bool {
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	// Reject display names and angle brackets, only the bare address form.
	return err == nil && addr.Address == s
}

var hostnameLabel = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

func isHostname(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if s == "" || len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if !hostnameLabel.MatchString(label) {
			return false
		}
	}
	return true
}

func isIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && strings.Count(s, ".") == 3 && !strings.Contains(s, ":")
}

func isIPv6(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && strings.Contains(s, ":")
}

func isURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}
