package cli_test

import (
	"bytes"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/Yaksh36/mcp-server-bedrock-image/internal/cli"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/dispatch"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/types"
)

// setupEnv isolates config and storage from the host and returns fixture paths
func setupEnv(t *testing.T) (imagePath, logoPath, storageDir string) {
	t.Helper()

	dir := t.TempDir()
	storageDir = filepath.Join(dir, "storage")
	t.Setenv("HOME", dir)
	t.Setenv("IMAGE_STORAGE_DIRECTORY", storageDir)
	t.Setenv("SAVE_METADATA", "false")
	t.Setenv("BEDROCK_AUTH_MODE", "")
	t.Setenv("AZURE_STORAGE_ACCOUNT", "")
	t.Setenv("AZURE_STORAGE_KEY", "")

	// Dark left half, light right half
	img := imaging.New(300, 300, color.NRGBA{10, 10, 10, 255})
	for y := 0; y < 300; y++ {
		for x := 150; x < 300; x++ {
			img.SetNRGBA(x, y, color.NRGBA{245, 245, 245, 255})
		}
	}
	imagePath = filepath.Join(dir, "photo.png")
	if err := imaging.Save(img, imagePath); err != nil {
		t.Fatal(err)
	}

	logoPath = filepath.Join(dir, "logo.png")
	if err := imaging.Save(imaging.New(80, 40, color.NRGBA{255, 0, 0, 255}), logoPath); err != nil {
		t.Fatal(err)
	}

	return imagePath, logoPath, storageDir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := cli.NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--quiet"}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "bedrock-image ") {
		t.Errorf("Unexpected version output: %q", out)
	}
}

func TestToolsCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "tools", "--json")
	if err != nil {
		t.Fatalf("tools failed: %v", err)
	}

	var ops []dispatch.Operation
	if err := json.Unmarshal([]byte(out), &ops); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if len(ops) != 10 {
		t.Errorf("Expected 10 operations, got %d", len(ops))
	}

	table, err := run(t, "", "tools")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(table, dispatch.OpComposeBranded) || !strings.Contains(table, "local") {
		t.Errorf("Table missing compose_branded row:\n%s", table)
	}
}

func TestComposeCommand(t *testing.T) {
	imagePath, logoPath, _ := setupEnv(t)
	output := filepath.Join(t.TempDir(), "branded.png")

	out, err := run(t, "", "compose", imagePath, logoPath, "-o", output, "--scale", "0.2", "--json")
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}

	var result types.ToolResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if result.Path != output {
		t.Errorf("Expected %s, got %s", output, result.Path)
	}
	if result.LogoVariant != "light" {
		t.Errorf("Expected light variant for the dark corner, got %q", result.LogoVariant)
	}

	img, err := imaging.Open(output)
	if err != nil {
		t.Fatalf("Output not readable: %v", err)
	}
	// Logo is 60x30 centred on cell (0,0) at (50,50)
	r, g, b, _ := img.At(50, 50).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("Expected logo pixel at cell centre, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestComposeDefaultOutput(t *testing.T) {
	imagePath, logoPath, storageDir := setupEnv(t)

	out, err := run(t, "", "compose", imagePath, logoPath)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}

	want := filepath.Join(storageDir, "photo_branded.png")
	if !strings.Contains(out, want) {
		t.Errorf("Expected output to mention %s, got %q", want, out)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("Expected %s to exist: %v", want, err)
	}
}

func TestComposeInvalidVariant(t *testing.T) {
	imagePath, logoPath, _ := setupEnv(t)

	if _, err := run(t, "", "compose", imagePath, logoPath, "--variant", "sepia"); err == nil {
		t.Error("Expected an error for an unknown variant")
	}
}

func TestComposeInvalidScale(t *testing.T) {
	imagePath, logoPath, storageDir := setupEnv(t)

	if _, err := run(t, "", "compose", imagePath, logoPath, "--scale", "0"); err == nil {
		t.Error("Expected an error for scale 0")
	}
	if _, err := os.Stat(filepath.Join(storageDir, "photo_branded.png")); !os.IsNotExist(err) {
		t.Error("No output should be written for invalid parameters")
	}
}

func TestAnalyzeCommand(t *testing.T) {
	imagePath, _, _ := setupEnv(t)
	overlay := filepath.Join(t.TempDir(), "grid.png")

	out, err := run(t, "", "analyze", imagePath, "--json", "--overlay", overlay)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var report struct {
		Width     int `json:"width"`
		Cells     []json.RawMessage
		Placement struct {
			Row     int    `json:"row"`
			Col     int    `json:"col"`
			Variant string `json:"logo_variant"`
		} `json:"placement"`
		Overlay string `json:"overlay"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if report.Width != 300 || len(report.Cells) != 9 {
		t.Errorf("Unexpected report: width=%d cells=%d", report.Width, len(report.Cells))
	}
	if report.Placement.Row != 0 || report.Placement.Col != 0 || report.Placement.Variant != "light" {
		t.Errorf("Unexpected placement: %+v", report.Placement)
	}
	if _, err := os.Stat(overlay); err != nil {
		t.Errorf("Overlay not written: %v", err)
	}
}

func TestAnalyzeTable(t *testing.T) {
	imagePath, _, _ := setupEnv(t)

	out, err := run(t, "", "analyze", imagePath)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.Contains(out, "best cell: row 0, col 0 (logo variant: light)") {
		t.Errorf("Unexpected table output:\n%s", out)
	}
}

func TestInvokeComposeFromStdin(t *testing.T) {
	imagePath, logoPath, _ := setupEnv(t)
	output := filepath.Join(t.TempDir(), "out.png")

	params, _ := json.Marshal(dispatch.ComposeParams{ImagePath: imagePath, LogoPath: logoPath, OutputPath: output})
	out, err := run(t, string(params), "invoke", dispatch.OpComposeBranded, "--params-file", "-")
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}

	var result types.ToolResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if result.Status != types.StatusSuccess || result.Path != output {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestInvokeErrors(t *testing.T) {
	setupEnv(t)

	if _, err := run(t, "", "invoke", "no_such_op", "{}"); err == nil {
		t.Error("Expected an error for an unknown operation")
	}
	if _, err := run(t, "", "invoke", dispatch.OpComposeBranded, "{oops"); err == nil {
		t.Error("Expected an error for invalid JSON")
	}
	if _, err := run(t, "", "invoke", dispatch.OpComposeBranded, "{}", "--params-file", "x.json"); err == nil {
		t.Error("Expected an error when parameters are given twice")
	}
}

func TestGenerateWithoutBearerToken(t *testing.T) {
	setupEnv(t)
	t.Setenv("BEDROCK_AUTH_MODE", "bearer")
	t.Setenv("AWS_BEARER_TOKEN_BEDROCK", "")

	_, err := run(t, "", "generate", "a lighthouse")
	if err == nil || !strings.Contains(err.Error(), "backend client") {
		t.Errorf("Expected a backend client error, got %v", err)
	}
}

func TestInvalidConfigFile(t *testing.T) {
	setupEnv(t)

	if _, err := run(t, "", "--config", filepath.Join(t.TempDir(), "missing.json"), "tools"); err == nil {
		t.Error("Expected an error for a missing config file")
	}
}
