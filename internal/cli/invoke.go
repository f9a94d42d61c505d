package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/Yaksh36/mcp-server-bedrock-image/internal/errors"
)

type invokeOptions struct {
	paramsFile string
}

func newInvokeCmd(a *app) *cobra.Command {
	opts := &invokeOptions{}

	cmd := &cobra.Command{
		Use:   "invoke <operation> [params-json]",
		Short: "Run any operation with JSON parameters",
		Long: `Run a named operation exactly as the HTTP server would and print the JSON result.
Parameters come from the second argument, from --params-file, or from stdin
with --params-file -. Use "bedrock-image tools" to list operations.

Examples:
  bedrock-image invoke remove_background '{"image_path":"cat.jpg"}'
  bedrock-image invoke outpaint --params-file outpaint.json
  echo '{"image_path":"a.png","logo_path":"l.png","output_path":"b.png"}' | bedrock-image invoke compose_branded --params-file -`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.paramsFile, "params-file", "f", "", "read parameters from a file, or - for stdin")

	return cmd
}

func runInvoke(cmd *cobra.Command, a *app, opts *invokeOptions, args []string) error {
	name := args[0]

	raw, err := invokeParams(cmd, opts, args)
	if err != nil {
		return err
	}
	if len(raw) > 0 && !json.Valid(raw) {
		return apperrors.NewInvalidParameterError("parameters are not valid JSON", nil)
	}

	svc, err := a.service(cmd.Context(), needsBackend(name))
	if err != nil {
		return err
	}

	result, err := svc.Handle(cmd.Context(), name, raw)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

func invokeParams(cmd *cobra.Command, opts *invokeOptions, args []string) ([]byte, error) {
	switch {
	case len(args) == 2 && opts.paramsFile != "":
		return nil, fmt.Errorf("pass parameters as an argument or with --params-file, not both")
	case len(args) == 2:
		return []byte(args[1]), nil
	case opts.paramsFile == "-":
		return io.ReadAll(cmd.InOrStdin())
	case opts.paramsFile != "":
		data, err := os.ReadFile(opts.paramsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read params file: %w", err)
		}
		return data, nil
	default:
		return nil, nil
	}
}
