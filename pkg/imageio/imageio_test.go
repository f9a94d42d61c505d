package imageio

import (
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	apperrors "github.com/Yaksh36/mcp-server-bedrock-image/internal/errors"
)

func createTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 7), uint8(y * 5), 90, 128})
		}
	}
	return img
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	if !apperrors.IsType(err, apperrors.ErrorTypeDecode) {
		t.Errorf("Expected decode error, got %v", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !apperrors.IsType(err, apperrors.ErrorTypeDecode) {
		t.Errorf("Expected decode error, got %v", err)
	}
}

func TestSaveLosslessPNGRoundTrip(t *testing.T) {
	src := createTestImage(20, 10)
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.png")

	abs, err := SaveLossless(src, path)
	if err != nil {
		t.Fatalf("SaveLossless failed: %v", err)
	}
	if !filepath.IsAbs(abs) {
		t.Errorf("Expected absolute path, got %s", abs)
	}

	got, err := LoadNRGBA(abs)
	if err != nil {
		t.Fatalf("LoadNRGBA failed: %v", err)
	}
	if got.Bounds() != src.Bounds() {
		t.Fatalf("Bounds changed: %v -> %v", src.Bounds(), got.Bounds())
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			if got.NRGBAAt(x, y) != src.NRGBAAt(x, y) {
				t.Fatalf("Pixel (%d,%d) changed: %v -> %v", x, y, src.NRGBAAt(x, y), got.NRGBAAt(x, y))
			}
		}
	}
}

func TestSaveLosslessWebP(t *testing.T) {
	src := Flatten(createTestImage(16, 16))
	path := filepath.Join(t.TempDir(), "out.webp")

	abs, err := SaveLossless(src, path)
	if err != nil {
		t.Fatalf("SaveLossless failed: %v", err)
	}

	got, err := LoadNRGBA(abs)
	if err != nil {
		t.Fatalf("LoadNRGBA failed: %v", err)
	}
	if got.NRGBAAt(5, 7) != src.NRGBAAt(5, 7) {
		t.Errorf("Lossless WebP changed pixel: %v -> %v", src.NRGBAAt(5, 7), got.NRGBAAt(5, 7))
	}
}

func TestSaveLosslessLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	for i := 0; i < 2; i++ {
		if _, err := SaveLossless(createTestImage(4, 4), path); err != nil {
			t.Fatalf("SaveLossless failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.png" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only out.png, got %v", names)
	}
}

func TestSaveLosslessParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := SaveLossless(createTestImage(4, 4), filepath.Join(blocker, "out.png"))
	if !apperrors.IsType(err, apperrors.ErrorTypeFilesystem) {
		t.Errorf("Expected filesystem error, got %v", err)
	}
}

func TestFlatten(t *testing.T) {
	img := Flatten(createTestImage(3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			c := img.NRGBAAt(x, y)
			if c.A != 255 || c.B != 90 {
				t.Errorf("Unexpected flattened pixel at (%d,%d): %v", x, y, c)
			}
		}
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"a.png":       FormatPNG,
		"a.WEBP":      FormatWebP,
		"a.jpg":       FormatPNG,
		"noextension": FormatPNG,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestSaveBase64Image(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "generated")
	payload := []byte("\x89PNG fake bytes")

	path, err := SaveBase64Image(base64.StdEncoding.EncodeToString(payload), dir, "sunset")
	if err != nil {
		t.Fatalf("SaveBase64Image failed: %v", err)
	}
	if filepath.Base(path) != "sunset.png" {
		t.Errorf("Expected sunset.png, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(payload) {
		t.Errorf("Payload mismatch")
	}
}

func TestSaveBase64ImageGeneratesName(t *testing.T) {
	img := createTestImage(2, 2)
	var buf strings.Builder
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	if err := imaging.Encode(enc, img, imaging.PNG); err != nil {
		t.Fatal(err)
	}
	enc.Close()

	path, err := SaveBase64Image(buf.String(), t.TempDir(), "")
	if err != nil {
		t.Fatalf("SaveBase64Image failed: %v", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), ".png")
	if len(name) != 36 {
		t.Errorf("Expected a UUID file name, got %s", name)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Saved image should decode: %v", err)
	}
}

func TestSaveBase64ImageInvalid(t *testing.T) {
	_, err := SaveBase64Image("%%%", t.TempDir(), "x")
	if !apperrors.IsType(err, apperrors.ErrorTypeBackend) {
		t.Errorf("Expected backend error, got %v", err)
	}
}

func TestSaveMetadata(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	meta := map[string]any{"prompt": "a lighthouse", "model": "ultra"}
	path, err := SaveMetadata(meta, t.TempDir(), "lighthouse")
	if err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}
	if filepath.Base(path) != "lighthouse_metadata.json" {
		t.Errorf("Unexpected metadata file name: %s", path)
	}
	if _, ok := meta["timestamp"]; ok {
		t.Error("Caller map should not be modified")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Metadata is not valid JSON: %v", err)
	}
	if doc["timestamp"] != "2026-03-01T11:00:00Z" {
		t.Errorf("Unexpected timestamp: %v", doc["timestamp"])
	}
	if doc["prompt"] != "a lighthouse" {
		t.Errorf("Unexpected prompt: %v", doc["prompt"])
	}
}
