package checkcmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/acronis/go-stacktrace"
	"github.com/spf13/cobra"

	"github.com/acronis/go-jsonschema"
	"github.com/acronis/go-jsonschema/internal/app/command"
)

func New(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "check that schema documents compile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compileOpts, err := command.CompileOptions(cmd)
			if err != nil {
				return command.WrapError(err)
			}

			return command.WrapError(execute(ctx, args, compileOpts))
		},
	}

	command.AddCompileFlags(cmd)
	return cmd
}

func execute(_ context.Context, schemaPaths []string, opts []jsonschema.CompileOption) error {
	st := stacktrace.StackTrace{}
	for _, path := range schemaPaths {
		schema, err := command.ReadDocument(path)
		if err != nil {
			return err
		}
		if _, err := jsonschema.Compile(schema, opts...); err != nil {
			var schemaErr *jsonschema.SchemaError
			if errors.As(err, &schemaErr) {
				slog.Error("Schema is broken",
					slog.String("schema", path),
					slog.String("pointer", jsonschema.PointerString(schemaErr.Path)),
				)
			}
			_ = st.Append(stacktrace.NewWrapped("schema does not compile", err,
				stacktrace.WithInfo("schema", path),
				stacktrace.WithType("compile")))
			continue
		}
		slog.Info("Schema compiled", slog.String("schema", path))
	}
	if len(st.List) > 0 {
		return &st
	}

	slog.Info("No errors found")

	return nil
}
