package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/dispatch"
)

type generateOptions struct {
	core           bool
	negativePrompt string
	aspectRatio    string
	seed           int64
	filename       string
	outputDir      string
	json           bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate an image from a text prompt",
		Long: `Generate an image with Stable Image Ultra, or Stable Image Core with --core.
Generated images are saved as PNG in the storage directory.

Examples:
  bedrock-image generate "a lighthouse at dusk, oil painting"
  bedrock-image generate "product shot of a watch" --core --aspect-ratio 16:9
  bedrock-image generate "a red fox" --seed 42 --filename fox --output-dir ./out`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&opts.core, "core", false, "use the faster Stable Image Core model")
	cmd.Flags().StringVarP(&opts.negativePrompt, "negative-prompt", "n", "", "what to keep out of the image")
	cmd.Flags().StringVar(&opts.aspectRatio, "aspect-ratio", "", "aspect ratio such as 1:1 or 16:9")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&opts.filename, "filename", "", "output name without extension (default random)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "output directory (default storage directory)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

func runGenerate(cmd *cobra.Command, a *app, opts *generateOptions, prompt string) error {
	params := dispatch.GenerateParams{
		Prompt:         prompt,
		NegativePrompt: opts.negativePrompt,
		AspectRatio:    opts.aspectRatio,
		OutputParams: dispatch.OutputParams{
			Filename:  opts.filename,
			OutputDir: opts.outputDir,
		},
	}
	if cmd.Flags().Changed("seed") {
		seed := opts.seed
		params.Seed = &seed
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}

	op := dispatch.OpGenerateImage
	if opts.core {
		op = dispatch.OpGenerateImageCore
	}

	svc, err := a.service(cmd.Context(), true)
	if err != nil {
		return err
	}

	result, err := svc.Handle(cmd.Context(), op, raw)
	if err != nil {
		return err
	}

	if opts.json {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	for _, p := range result.Paths {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
	}
	return nil
}
