// Package quadrant scores a 3x3 grid over an image for logo placement.
//
// Each cell gets a brightness (mean of the unweighted per-pixel channel average)
// and a complexity (population standard deviation of the same value). The
// selector picks the calmest cell and recommends a logo variant for it.
package quadrant

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"
)

// GridSize is the number of rows and columns in the analysis grid
const GridSize = 3

// Record holds the scores of one grid cell
type Record struct {
	Row           int     `json:"row"`
	Col           int     `json:"col"`
	Complexity    float64 `json:"complexity"`
	AvgBrightness float64 `json:"avg_brightness"`
}

// Grid describes how an image is split into cells.
// Cell sizes use integer division, so when a dimension is not a multiple of
// GridSize the trailing remainder pixels belong to no cell.
type Grid struct {
	Bounds     image.Rectangle
	CellWidth  int
	CellHeight int
}

// NewGrid computes the grid for the given image bounds
func NewGrid(bounds image.Rectangle) Grid {
	return Grid{
		Bounds:     bounds,
		CellWidth:  bounds.Dx() / GridSize,
		CellHeight: bounds.Dy() / GridSize,
	}
}

// Cell returns the rectangle covered by cell (row, col)
func (g Grid) Cell(row, col int) image.Rectangle {
	x0 := g.Bounds.Min.X + col*g.CellWidth
	y0 := g.Bounds.Min.Y + row*g.CellHeight
	return image.Rect(x0, y0, x0+g.CellWidth, y0+g.CellHeight)
}

// Analyzer computes per-cell complexity and brightness
type Analyzer struct{}

// New creates a new Analyzer
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze returns exactly GridSize*GridSize records in row-major order.
// Alpha is ignored: channels are read non-premultiplied and averaged as-is.
func (a *Analyzer) Analyze(img image.Image) []Record {
	src := imaging.Clone(img)
	grid := NewGrid(src.Bounds())

	records := make([]Record, 0, GridSize*GridSize)
	sums := make([]float64, 0, grid.CellWidth*grid.CellHeight)

	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			sums = channelSums(src, grid.Cell(row, col), sums[:0])
			records = append(records, scoreCell(row, col, sums))
		}
	}

	return records
}

// Grid returns the cell geometry Analyze uses for an image with the given bounds
func (a *Analyzer) Grid(bounds image.Rectangle) Grid {
	return NewGrid(bounds)
}

// FindBestPlacement analyzes img and selects the least complex cell
func (a *Analyzer) FindBestPlacement(img image.Image) Placement {
	return Select(a.Analyze(img))
}

// channelSums appends R+G+B for every pixel of rect to dst.
// Sums are kept as integers in float64 so a uniform cell has exactly zero spread.
func channelSums(img *image.NRGBA, rect image.Rectangle, dst []float64) []float64 {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		i := img.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			sum := int(img.Pix[i]) + int(img.Pix[i+1]) + int(img.Pix[i+2])
			dst = append(dst, float64(sum))
			i += 4
		}
	}
	return dst
}

func scoreCell(row, col int, sums []float64) Record {
	record := Record{Row: row, Col: col}

	// Images narrower or shorter than the grid produce empty cells
	if len(sums) == 0 {
		return record
	}

	mean, variance := stat.PopMeanVariance(sums, nil)
	record.AvgBrightness = mean / 3
	record.Complexity = math.Sqrt(variance) / 3

	return record
}
