package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Yaksh36/mcp-server-bedrock-image/internal/utils"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/dispatch"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/quadrant"
)

// variantFlag validates --variant at parse time
type variantFlag struct {
	value quadrant.Variant
}

var _ pflag.Value = (*variantFlag)(nil)

func (f *variantFlag) String() string { return string(f.value) }

func (f *variantFlag) Set(s string) error {
	v, err := quadrant.ParseVariant(s)
	if err != nil {
		return err
	}
	f.value = v
	return nil
}

func (f *variantFlag) Type() string { return "variant" }

type composeOptions struct {
	output    string
	outputDir string
	variant   variantFlag
	scale     float64
	json      bool
}

func newComposeCmd(a *app) *cobra.Command {
	opts := &composeOptions{}

	cmd := &cobra.Command{
		Use:   "compose <image> <logo>",
		Short: "Blend a logo into the least busy part of an image",
		Long: `Analyze a 3x3 grid over the image, pick the cell with the lowest complexity
and blend the logo at the centre of that cell.

Images and logos may be local paths, http(s) URLs or azblob://container/blob
references. The result is written as PNG, or lossless WebP for a .webp output.

Examples:
  bedrock-image compose photo.jpg logo.png
  bedrock-image compose photo.jpg logo.png -o out/photo.png --scale 0.12
  bedrock-image compose https://example.com/a.jpg logo-light.png --variant light`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default <output-dir>/<name>_branded.png)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "directory for the default output path (default storage directory)")
	cmd.Flags().Var(&opts.variant, "variant", "logo variant to report: auto, light or dark (default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "logo width as a fraction of image width, in (0, 1] (default from config)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

func runCompose(cmd *cobra.Command, a *app, opts *composeOptions, args []string) error {
	imageSource, logoSource := args[0], args[1]

	output := opts.output
	if output == "" {
		dir := opts.outputDir
		if dir == "" {
			dir = a.cfg.Storage.Directory
		}
		output = utils.BrandedOutputPath(imageSource, dir, "_branded")
	}

	params := dispatch.ComposeParams{
		ImagePath:   imageSource,
		LogoPath:    logoSource,
		OutputPath:  output,
		LogoVariant: string(opts.variant.value),
	}
	if cmd.Flags().Changed("scale") {
		scale := opts.scale
		params.LogoScale = &scale
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}

	svc, err := a.service(cmd.Context(), false)
	if err != nil {
		return err
	}

	result, err := svc.Handle(cmd.Context(), dispatch.OpComposeBranded, raw)
	if err != nil {
		return err
	}

	if opts.json {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (logo variant: %s)\n", result.Path, result.LogoVariant)
	return nil
}
