// Package formats provides format checkers beyond the builtin set.
package formats

import (
	"github.com/blang/semver/v4"
	"github.com/google/uuid"

	"github.com/acronis/go-jsonschema"
)

// UUID reports whether s is a canonical RFC 4122 UUID. Only the 36-rune
// hyphenated form is accepted; uuid.Parse alone also takes URNs and bare
// hex.
func UUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// SemVer reports whether s is a strict semantic version, without a leading
// v and with all three numbers present.
func SemVer(s string) bool {
	_, err := semver.Parse(s)
	return err == nil
}

// Options returns compile options registering every checker in the
// package.
func Options() []jsonschema.CompileOption {
	return []jsonschema.CompileOption{
		jsonschema.WithFormat("uuid", UUID),
		jsonschema.WithFormat("semver", SemVer),
	}
}
