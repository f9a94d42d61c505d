package quadrant

import (
	"fmt"
	"strings"
)

// Variant names the logo artwork suited to a background
type Variant string

const (
	VariantAuto  Variant = "auto"
	VariantLight Variant = "light"
	VariantDark  Variant = "dark"
)

// BrightnessThreshold splits dark from light backgrounds.
// Brightness exactly 128 selects the dark logo.
const BrightnessThreshold = 128.0

// ParseVariant accepts "auto", "light" or "dark" (case-insensitive)
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantAuto, VariantLight, VariantDark:
		return v, nil
	default:
		return "", fmt.Errorf("invalid logo variant %q (valid: auto, light, dark)", s)
	}
}

// RecommendVariant returns the light logo for dark backgrounds and the dark logo otherwise
func RecommendVariant(avgBrightness float64) Variant {
	if avgBrightness < BrightnessThreshold {
		return VariantLight
	}
	return VariantDark
}

// Placement is the selected cell plus the recommended logo variant
type Placement struct {
	Record
	Variant Variant `json:"logo_variant"`
}

// Select returns the record with the lowest complexity, ties going to the
// earliest record in row-major order. It panics unless given exactly
// GridSize*GridSize records, which only a programming error can cause.
func Select(records []Record) Placement {
	if len(records) != GridSize*GridSize {
		panic(fmt.Sprintf("quadrant: Select needs %d records, got %d", GridSize*GridSize, len(records)))
	}

	best := records[0]
	for _, r := range records[1:] {
		if r.Complexity < best.Complexity {
			best = r
		}
	}

	return Placement{
		Record:  best,
		Variant: RecommendVariant(best.AvgBrightness),
	}
}
