package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acronis/go-jsonschema"
	"github.com/acronis/go-jsonschema/extensions/celext"
	"github.com/acronis/go-jsonschema/extensions/formats"
)

const (
	strictFlag        = "strict"
	assertFormatsFlag = "assert-formats"
	maxRefDepthFlag   = "max-ref-depth"
	refFlag           = "ref"
)

// AddCompileFlags registers the flags shared by every command that compiles
// a schema.
func AddCompileFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(strictFlag, false, "fail on unknown keywords and formats")
	cmd.Flags().Bool(assertFormatsFlag, false, "report format violations as errors")
	cmd.Flags().Int(maxRefDepthFlag, jsonschema.DefaultMaxReferenceDepth, "maximum reference indirections to follow")
	cmd.Flags().StringArray(refFlag, nil, "register an extra schema document, as id=path or path (uses the document $id)")
}

// CompileOptions assembles compile options from the command flags. The
// expression keyword and the extra format checkers are always available.
func CompileOptions(cmd *cobra.Command) ([]jsonschema.CompileOption, error) {
	strict, err := cmd.Flags().GetBool(strictFlag)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", strictFlag, err)
	}
	assert, err := cmd.Flags().GetBool(assertFormatsFlag)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", assertFormatsFlag, err)
	}
	depth, err := cmd.Flags().GetInt(maxRefDepthFlag)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", maxRefDepthFlag, err)
	}
	refs, err := cmd.Flags().GetStringArray(refFlag)
	if err != nil {
		return nil, fmt.Errorf("get %s flag: %w", refFlag, err)
	}

	expr, err := celext.New()
	if err != nil {
		return nil, err
	}
	opts := []jsonschema.CompileOption{
		jsonschema.WithStrict(strict),
		jsonschema.WithFormatAssertion(assert),
		jsonschema.WithMaxReferenceDepth(depth),
		jsonschema.WithKeyword(expr),
	}
	opts = append(opts, formats.Options()...)

	if len(refs) > 0 {
		registry := jsonschema.NewRegistry()
		for _, ref := range refs {
			id, path, found := strings.Cut(ref, "=")
			if !found {
				id, path = "", ref
			}
			doc, err := ReadDocument(path)
			if err != nil {
				return nil, err
			}
			if id == "" {
				declared, ok := DocumentID(doc)
				if !ok {
					return nil, fmt.Errorf("document %s declares no $id, register it as id=%s", path, path)
				}
				id = declared
			}
			if err := registry.Register(id, doc); err != nil {
				return nil, err
			}
		}
		opts = append(opts, jsonschema.WithRegistry(registry))
	}
	return opts, nil
}
