// Package compositor places a logo on the calmest region of an image.
package compositor

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"

	apperrors "github.com/Yaksh36/mcp-server-bedrock-image/internal/errors"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/imageio"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/quadrant"
)

// Defaults used when a caller does not override them
const (
	DefaultScale  = 0.08
	DefaultMargin = 10
)

// Compositor scales a logo, picks its position with the quadrant analyzer and blends it in
type Compositor struct {
	analyzer *quadrant.Analyzer
	config   Config
}

// Config holds configuration for composition
type Config struct {
	// Margin is the minimum distance in pixels between the logo and the image edge
	Margin int
	// Filter is the resampling filter used to scale the logo.
	// The zero value behaves like imaging.NearestNeighbor.
	Filter imaging.ResampleFilter
}

// DefaultConfig returns a 10 pixel margin and Lanczos resampling
func DefaultConfig() Config {
	return Config{
		Margin: DefaultMargin,
		Filter: imaging.Lanczos,
	}
}

// New creates a new Compositor with default configuration
func New() *Compositor {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a new Compositor with custom configuration
func NewWithConfig(config Config) *Compositor {
	return &Compositor{
		analyzer: quadrant.New(),
		config:   config,
	}
}

// SetAnalyzer allows setting a custom quadrant analyzer
func (c *Compositor) SetAnalyzer(analyzer *quadrant.Analyzer) {
	c.analyzer = analyzer
}

// Options describes one composition
type Options struct {
	ImagePath  string
	LogoPath   string
	OutputPath string
	// Variant is "auto" (or empty), "light" or "dark"
	Variant string
	// Scale is the logo width as a fraction of the image width, in (0, 1]
	Scale float64
}

// Result describes a written composition
type Result struct {
	// Path is the absolute path of the written image
	Path string `json:"path"`
	// Anchor is the area covered by the scaled logo
	Anchor    image.Rectangle    `json:"anchor"`
	Placement quadrant.Placement `json:"placement"`
	// Variant is the explicit variant if one was requested, otherwise the recommendation
	Variant quadrant.Variant `json:"logo_variant"`
}

// Validate checks options without touching the filesystem
func (o Options) Validate() (quadrant.Variant, error) {
	if !(o.Scale > 0 && o.Scale <= 1) {
		return "", apperrors.NewInvalidParameterError(
			fmt.Sprintf("logo scale must be in (0, 1], got %v", o.Scale), nil)
	}

	variant := quadrant.VariantAuto
	if strings.TrimSpace(o.Variant) != "" {
		v, err := quadrant.ParseVariant(o.Variant)
		if err != nil {
			return "", apperrors.NewInvalidParameterError("invalid logo variant", err)
		}
		variant = v
	}

	if o.OutputPath == "" {
		return "", apperrors.NewInvalidParameterError("output path is required", nil)
	}

	return variant, nil
}

// Compose blends the logo onto the image and writes the result losslessly to
// opts.OutputPath. The variant is advisory: the same logo file is used either way.
func (c *Compositor) Compose(opts Options) (Result, error) {
	variant, err := opts.Validate()
	if err != nil {
		return Result{}, err
	}

	src, err := imageio.LoadNRGBA(opts.ImagePath)
	if err != nil {
		return Result{}, err
	}
	// Opaque base so the blend uses the logo alpha alone
	imageio.Flatten(src)

	logo, err := imageio.LoadNRGBA(opts.LogoPath)
	if err != nil {
		return Result{}, err
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	logoW, logoH := LogoSize(w, logo.Bounds().Dx(), logo.Bounds().Dy(), opts.Scale)
	scaled := imaging.Resize(logo, logoW, logoH, c.config.Filter)

	placement := c.analyzer.FindBestPlacement(src)
	if variant == quadrant.VariantAuto {
		variant = placement.Variant
	}

	grid := c.analyzer.Grid(bounds)
	x := placement.Col*grid.CellWidth + floorDiv(grid.CellWidth-logoW, 2)
	y := placement.Row*grid.CellHeight + floorDiv(grid.CellHeight-logoH, 2)
	x = clampAnchor(x, logoW, w, c.config.Margin)
	y = clampAnchor(y, logoH, h, c.config.Margin)
	anchor := image.Rect(x, y, x+logoW, y+logoH)

	out := imaging.Overlay(src, scaled, anchor.Min, 1.0)

	path, err := imageio.SaveLossless(imageio.Flatten(out), opts.OutputPath)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Path:      path,
		Anchor:    anchor,
		Placement: placement,
		Variant:   variant,
	}, nil
}

// LogoSize returns the scaled logo dimensions for an image of width imgW.
// Aspect ratio is preserved and neither side drops below one pixel.
func LogoSize(imgW, logoW, logoH int, scale float64) (int, int) {
	newW := int(math.Round(float64(imgW) * scale))
	if newW < 1 {
		newW = 1
	}
	if logoW <= 0 || logoH <= 0 {
		return newW, 1
	}
	newH := int(math.Round(float64(logoH) * float64(newW) / float64(logoW)))
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}

// clampAnchor keeps pos at least margin pixels inside [0, extent-size].
// When the logo is too large for the margin, it falls back to the plain image bounds.
func clampAnchor(pos, size, extent, margin int) int {
	lo, hi := margin, extent-size-margin
	if hi < lo {
		lo, hi = 0, extent-size
		if hi < 0 {
			hi = 0
		}
	}
	if pos < lo {
		return lo
	}
	if pos > hi {
		return hi
	}
	return pos
}

// floorDiv divides rounding toward negative infinity
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
