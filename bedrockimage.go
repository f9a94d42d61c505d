// Package bedrockimage places logos on photographs where they interfere least
// with the picture, and recommends a light or dark logo for the spot.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		bedrockimage "github.com/Yaksh36/mcp-server-bedrock-image"
//	)
//
//	func main() {
//		imager := bedrockimage.New()
//
//		// Inspect the calmest cell of the 3x3 grid
//		best, err := imager.FindBestLogoQuadrant("photo.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("row=%d col=%d variant=%s\n", best.Row, best.Col, best.Variant)
//
//		// Blend the logo in at 8% of the image width
//		path, err := imager.ComposeBrandedImage("photo.jpg", "logo.png", "out/photo_branded.png", "auto", 0.08)
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println("saved", path)
//	}
//
// The package consists of three main components:
//
// 1. Quadrant (pkg/quadrant): scores each cell of a 3x3 grid for complexity and brightness
// 2. Selector (pkg/quadrant): picks the least complex cell and a logo variant for it
// 3. Compositor (pkg/compositor): scales, positions and blends the logo, then writes the result
//
// Complexity is the population standard deviation of the unweighted per-pixel
// channel average, so a flat region scores exactly zero. Brightness below 128
// recommends the light logo, anything else the dark one.
package bedrockimage

import (
	"image"

	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/compositor"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/imageio"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/quadrant"
)

// Version of the library
const Version = "1.0.0"

// BrandImager provides a high-level interface for placement analysis and composition
type BrandImager struct {
	analyzer   *quadrant.Analyzer
	compositor *compositor.Compositor
}

// New creates a new BrandImager with default configuration
func New() *BrandImager {
	return NewWithConfig(compositor.DefaultConfig())
}

// NewWithConfig creates a new BrandImager with custom composition settings
func NewWithConfig(compositorConfig compositor.Config) *BrandImager {
	analyzer := quadrant.New()
	c := compositor.NewWithConfig(compositorConfig)
	c.SetAnalyzer(analyzer)

	return &BrandImager{
		analyzer:   analyzer,
		compositor: c,
	}
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	CellWidth   int     `json:"cell_width"`
	CellHeight  int     `json:"cell_height"`
}

// LoadImage loads an image from file
func (b *BrandImager) LoadImage(path string) (image.Image, error) {
	return imageio.Load(path)
}

// SaveImage writes img losslessly and returns the absolute path
func (b *BrandImager) SaveImage(img image.Image, path string) (string, error) {
	return imageio.SaveLossless(img, path)
}

// AnalyzeImage scores the nine grid cells of img in row-major order
func (b *BrandImager) AnalyzeImage(img image.Image) []quadrant.Record {
	return b.analyzer.Analyze(img)
}

// AnalyzeQuadrants loads the image at path and scores its nine grid cells
func (b *BrandImager) AnalyzeQuadrants(path string) ([]quadrant.Record, error) {
	img, err := b.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return b.analyzer.Analyze(img), nil
}

// FindBestLogoQuadrant returns the least complex cell of the image at path
// together with the recommended logo variant
func (b *BrandImager) FindBestLogoQuadrant(path string) (quadrant.Placement, error) {
	records, err := b.AnalyzeQuadrants(path)
	if err != nil {
		return quadrant.Placement{}, err
	}
	return quadrant.Select(records), nil
}

// ComposeBrandedImage blends the logo onto the image and returns the absolute output path
func (b *BrandImager) ComposeBrandedImage(imagePath, logoPath, outputPath, variant string, scale float64) (string, error) {
	res, err := b.Compose(compositor.Options{
		ImagePath:  imagePath,
		LogoPath:   logoPath,
		OutputPath: outputPath,
		Variant:    variant,
		Scale:      scale,
	})
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// Compose is ComposeBrandedImage with the full placement report
func (b *BrandImager) Compose(opts compositor.Options) (compositor.Result, error) {
	return b.compositor.Compose(opts)
}

// GetImageInfo returns basic information about an image and its analysis grid
func (b *BrandImager) GetImageInfo(img image.Image) ImageInfo {
	bounds := img.Bounds()
	grid := b.analyzer.Grid(bounds)

	info := ImageInfo{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		CellWidth:  grid.CellWidth,
		CellHeight: grid.CellHeight,
	}
	if info.Height > 0 {
		info.AspectRatio = float64(info.Width) / float64(info.Height)
	}
	return info
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
