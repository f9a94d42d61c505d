package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/imageio"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/processing"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/quadrant"
)

type analyzeOptions struct {
	overlay string
	json    bool
}

// analyzeReport is the JSON shape printed by analyze --json
type analyzeReport struct {
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Cells     []quadrant.Record  `json:"cells"`
	Placement quadrant.Placement `json:"placement"`
	Overlay   string             `json:"overlay,omitempty"`
}

func newAnalyzeCmd(a *app) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Score the 3x3 placement grid of an image",
		Long: `Print the complexity and brightness of every grid cell, the cell a logo
would be placed in and the recommended logo variant.

Examples:
  bedrock-image analyze photo.jpg
  bedrock-image analyze photo.jpg --json
  bedrock-image analyze photo.jpg --overlay photo_grid.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, a, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.overlay, "overlay", "", "write a debug image with the grid and chosen cell drawn on it")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")

	return cmd
}

func runAnalyze(cmd *cobra.Command, a *app, opts *analyzeOptions, source string) error {
	resolver, err := a.resolver()
	if err != nil {
		return err
	}
	path, cleanup, err := resolver.Resolve(cmd.Context(), source)
	if err != nil {
		return err
	}
	defer cleanup()

	img, err := imageio.LoadNRGBA(path)
	if err != nil {
		return err
	}

	analyzer := quadrant.New()
	cells := analyzer.Analyze(img)
	report := analyzeReport{
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		Cells:     cells,
		Placement: quadrant.Select(cells),
	}
	a.logger.Debug("analysis complete", "source", source, "row", report.Placement.Row, "col", report.Placement.Col)

	if opts.overlay != "" {
		saved, err := imageio.SaveLossless(processing.PlacementOverlay(img, report.Placement), opts.overlay)
		if err != nil {
			return err
		}
		report.Overlay = saved
	}

	if opts.json {
		return writeJSON(cmd.OutOrStdout(), report)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%dx%d)\n\n", source, report.Width, report.Height)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tCOL\tCOMPLEXITY\tBRIGHTNESS\t")
	for _, c := range cells {
		marker := ""
		if c.Row == report.Placement.Row && c.Col == report.Placement.Col {
			marker = "*"
		}
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.2f\t%s\n", c.Row, c.Col, c.Complexity, c.AvgBrightness, marker)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nbest cell: row %d, col %d (logo variant: %s)\n",
		report.Placement.Row, report.Placement.Col, report.Placement.Variant)
	if report.Overlay != "" {
		fmt.Fprintf(out, "overlay: %s\n", report.Overlay)
	}
	return nil
}
