package validatecmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acronis/go-stacktrace"
	"github.com/spf13/cobra"

	"github.com/acronis/go-jsonschema"
	"github.com/acronis/go-jsonschema/internal/app/command"
)

type ValidateOptions struct {
	SchemaPath string
}

func New(ctx context.Context) *cobra.Command {
	validateOpts := ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "validate instance documents against a schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compileOpts, err := command.CompileOptions(cmd)
			if err != nil {
				return command.WrapError(err)
			}

			return command.WrapError(execute(ctx, validateOpts.SchemaPath, args, compileOpts))
		},
	}

	cmd.Flags().StringVarP(&validateOpts.SchemaPath, "schema", "s", "", "Path to the schema document.")
	_ = cmd.MarkFlagRequired("schema")
	command.AddCompileFlags(cmd)
	return cmd
}

func execute(_ context.Context, schemaPath string, instancePaths []string, opts []jsonschema.CompileOption) error {
	schema, err := command.ReadDocument(schemaPath)
	if err != nil {
		return err
	}
	v, err := jsonschema.Compile(schema, opts...)
	if err != nil {
		return fmt.Errorf("compile %s: %w", schemaPath, err)
	}
	slog.Info("Schema compiled", slog.String("schema", schemaPath))

	st := stacktrace.StackTrace{}
	for _, path := range instancePaths {
		instance, err := command.ReadDocument(path)
		if err != nil {
			return err
		}
		records := v.Validate(instance)
		if records == nil {
			slog.Info("Instance is valid", slog.String("instance", path))
			continue
		}
		for i := range records {
			slog.Error("Violation",
				slog.String("instance", path),
				slog.String("pointer", records[i].Pointer()),
				slog.String("keyword", records[i].Keyword),
			)
		}
		_ = st.Append(recordsAsStackTrace(path, records))
	}
	if len(st.List) > 0 {
		return &st
	}

	slog.Info("No errors found")

	return nil
}

func recordsAsStackTrace(path string, records []jsonschema.ErrorRecord) *stacktrace.StackTrace {
	st := stacktrace.New("instance is invalid",
		stacktrace.WithInfo("instance", path),
		stacktrace.WithType("validation"))
	for i := range records {
		_ = st.Append(stacktrace.New(records[i].Keyword,
			stacktrace.WithInfo("pointer", records[i].Pointer())))
	}
	return st
}
