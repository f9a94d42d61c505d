package quadrant

import (
	"testing"
)

func gridOf(complexities ...float64) []Record {
	records := make([]Record, 0, len(complexities))
	for i, c := range complexities {
		records = append(records, Record{Row: i / GridSize, Col: i % GridSize, Complexity: c, AvgBrightness: 200})
	}
	return records
}

func TestSelectLowestComplexity(t *testing.T) {
	records := gridOf(9, 8, 7, 6, 0.5, 4, 3, 2, 1)

	best := Select(records)
	if best.Row != 1 || best.Col != 1 {
		t.Errorf("Expected center cell, got (%d,%d)", best.Row, best.Col)
	}
	if best.Variant != VariantDark {
		t.Errorf("Expected dark logo on bright background, got %s", best.Variant)
	}
}

func TestSelectTieGoesToFirst(t *testing.T) {
	records := gridOf(5, 5, 1, 5, 5, 1, 1, 5, 5)

	best := Select(records)
	if best.Row != 0 || best.Col != 2 {
		t.Errorf("Expected first minimum at (0,2), got (%d,%d)", best.Row, best.Col)
	}
}

func TestSelectPanicsOnWrongLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for a short record list")
		}
	}()
	Select(gridOf(1, 2, 3))
}

func TestRecommendVariant(t *testing.T) {
	tests := []struct {
		brightness float64
		want       Variant
	}{
		{0, VariantLight},
		{127.999, VariantLight},
		{128, VariantDark},
		{255, VariantDark},
	}

	for _, tt := range tests {
		if got := RecommendVariant(tt.brightness); got != tt.want {
			t.Errorf("RecommendVariant(%v) = %s, want %s", tt.brightness, got, tt.want)
		}
	}
}

func TestParseVariant(t *testing.T) {
	valid := map[string]Variant{
		"auto":   VariantAuto,
		"Light":  VariantLight,
		" DARK ": VariantDark,
	}
	for input, want := range valid {
		got, err := ParseVariant(input)
		if err != nil {
			t.Errorf("ParseVariant(%q) returned error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseVariant(%q) = %s, want %s", input, got, want)
		}
	}

	for _, input := range []string{"", "medium", "lightish"} {
		if _, err := ParseVariant(input); err == nil {
			t.Errorf("ParseVariant(%q) should fail", input)
		}
	}
}
