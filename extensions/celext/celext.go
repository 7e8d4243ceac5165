// Package celext adds an expression keyword to schema compilation. The
// keyword's value is a CEL expression evaluated with the instance bound to
// the variable "self"; the expression must evaluate to a boolean, and false
// marks the instance as violating.
package celext

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/acronis/go-jsonschema"
	"github.com/acronis/go-jsonschema/document"
)

// KeywordName is the schema keyword the extension registers.
const KeywordName = "x-validate"

// New builds the extension keyword. Register it with
// jsonschema.WithKeyword.
func New() (jsonschema.Keyword, error) {
	env, err := cel.NewEnv(cel.Variable("self", cel.DynType))
	if err != nil {
		return nil, fmt.Errorf("build CEL environment: %w", err)
	}
	return &keyword{env: env}, nil
}

// MustNew is New for programs that register the keyword unconditionally.
func MustNew() jsonschema.Keyword {
	k, err := New()
	if err != nil {
		panic(err)
	}
	return k
}

type keyword struct {
	env *cel.Env
}

func (k *keyword) Name() string {
	return KeywordName
}

func (k *keyword) Compile(value any) (jsonschema.Check, error) {
	src, ok := value.(string)
	if !ok {
		return nil, errors.New("expression must be a string")
	}
	ast, issues := k.env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression %q: %w", src, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression %q must evaluate to bool, got %s", src, ast.OutputType())
	}
	prg, err := k.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build program for %q: %w", src, err)
	}
	return func(instance any) error {
		out, _, err := prg.Eval(map[string]any{"self": document.Plain(instance)})
		if err != nil {
			return fmt.Errorf("evaluate %q: %v", src, err)
		}
		if out.Value() != true {
			return fmt.Errorf("expression %q not satisfied", src)
		}
		return nil
	}, nil
}
