// Package processing resolves image sources to local files and renders placement debug overlays.
package processing

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/quadrant"
)

// PlacementOverlay draws the analysis grid over img, outlines the selected cell
// and marks the cell centre where a logo would be anchored.
func PlacementOverlay(img image.Image, placement quadrant.Placement) *image.NRGBA {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()
	grid := quadrant.NewGrid(nrgba.Bounds())

	// Colors
	gridColor := color.NRGBA{0, 170, 255, 255} // grid lines
	pickColor := color.NRGBA{0, 255, 0, 255}   // selected cell
	markColor := color.NRGBA{255, 0, 0, 255}   // cell centre
	stroke := int(math.Max(2, 0.004*float64(min(w, h))))
	cross := int(math.Max(4, 0.02*float64(min(w, h))))

	for i := 1; i < quadrant.GridSize; i++ {
		drawVLine(nrgba, i*grid.CellWidth, 0, h, gridColor)
		drawHLine(nrgba, i*grid.CellHeight, 0, w, gridColor)
	}

	cell := grid.Cell(placement.Row, placement.Col)
	drawRect(nrgba, cell, pickColor, stroke)

	cx := cell.Min.X + cell.Dx()/2
	cy := cell.Min.Y + cell.Dy()/2
	drawHLine(nrgba, cy, cx-cross, cx+cross, markColor)
	drawVLine(nrgba, cx, cy-cross, cy+cross, markColor)

	return nrgba
}

func drawRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA, stroke int) {
	if r.Empty() {
		return
	}
	for s := 0; s < stroke; s++ {
		drawHLine(img, r.Min.Y+s, r.Min.X, r.Max.X, c)
		drawHLine(img, r.Max.Y-1-s, r.Min.X, r.Max.X, c)
		drawVLine(img, r.Min.X+s, r.Min.Y, r.Max.Y, c)
		drawVLine(img, r.Max.X-1-s, r.Min.Y, r.Max.Y, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0 = max(x0, 0)
	x1 = min(x1, img.Bounds().Dx())
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	y0 = max(y0, 0)
	y1 = min(y1, img.Bounds().Dy())
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
