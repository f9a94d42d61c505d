package types

import (
	"encoding/json"
	"strings"
	"testing"

	apperrors "github.com/Yaksh36/mcp-server-bedrock-image/internal/errors"
)

func TestGenerateRequestBody(t *testing.T) {
	seed := int64(42)
	req := &GenerateRequest{Prompt: "a red fox", AspectRatio: "16:9", Seed: &seed}
	req.Normalize()

	if err := req.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}

	expected := map[string]any{
		"prompt":        "a red fox",
		"mode":          "text-to-image",
		"output_format": "png",
		"aspect_ratio":  "16:9",
		"seed":          float64(42),
	}
	for k, v := range expected {
		if body[k] != v {
			t.Errorf("%s = %v, want %v", k, body[k], v)
		}
	}
	if _, ok := body["negative_prompt"]; ok {
		t.Error("Empty negative_prompt should be omitted")
	}
}

func TestGenerateRequestKeepsZeroSeed(t *testing.T) {
	seed := int64(0)
	data, err := json.Marshal(&GenerateRequest{Prompt: "x", Seed: &seed})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"seed":0`) {
		t.Errorf("Seed 0 should be sent, got %s", data)
	}
}

func TestOutpaintRequestAlwaysSendsSides(t *testing.T) {
	req := &OutpaintRequest{Image: "aGk=", Prompt: "more sky", Top: 128}
	req.Normalize()

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"left":0`, `"right":0`, `"top":128`, `"bottom":0`, `"output_format":"png"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected %s in %s", key, data)
		}
	}
}

func TestValidateMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		missing []string
	}{
		{"generate", &GenerateRequest{}, []string{"prompt"}},
		{"remove background", &RemoveBackgroundRequest{}, []string{"image"}},
		{"style transfer", &StyleTransferRequest{Prompt: "x"}, []string{"image", "style_image"}},
		{"recolor", &RecolorRequest{Image: "x", Prompt: "x"}, []string{"select_prompt", "recolor_prompt"}},
		{"outpaint", &OutpaintRequest{Prompt: "x"}, []string{"image"}},
		{"search replace", &SearchReplaceRequest{Image: "x", Prompt: "x"}, []string{"search_prompt"}},
		{"upscale fast", &UpscaleFastRequest{}, []string{"image"}},
		{"upscale creative", &UpscaleCreativeRequest{Image: "x"}, []string{"prompt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize()
			err := tt.req.Validate()
			if !apperrors.IsType(err, apperrors.ErrorTypeInvalidParameter) {
				t.Fatalf("Expected invalid parameter error, got %v", err)
			}
			for _, field := range tt.missing {
				if !strings.Contains(err.Error(), field+" is required") {
					t.Errorf("Expected %q to be reported, got %v", field, err)
				}
			}
		})
	}
}

func TestValidatePromptLength(t *testing.T) {
	long := strings.Repeat("é", MaxPromptLength+1)

	if err := (&GenerateRequest{Prompt: strings.Repeat("é", MaxPromptLength)}).Validate(); err != nil {
		t.Errorf("Prompt at the limit should pass: %v", err)
	}
	if err := (&GenerateRequest{Prompt: long}).Validate(); err == nil {
		t.Error("Prompt over the limit should fail")
	}
	if err := (&UpscaleCreativeRequest{Image: "x", Prompt: "x", NegativePrompt: long}).Validate(); err == nil {
		t.Error("Negative prompt over the limit should fail")
	}
}

func TestOutpaintRejectsNegativeSides(t *testing.T) {
	err := (&OutpaintRequest{Image: "x", Prompt: "x", Left: -1}).Validate()
	if err == nil || !strings.Contains(err.Error(), "left must not be negative") {
		t.Errorf("Expected negative side error, got %v", err)
	}
}

func TestImageResponseDecode(t *testing.T) {
	raw := `{"images":["aGVsbG8="],"seeds":[1234],"finish_reasons":[null]}`

	var resp ImageResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(resp.Images) != 1 || resp.Seeds[0] != 1234 {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if len(resp.FinishReasons) != 1 || resp.FinishReasons[0] != "" {
		t.Errorf("Null finish reason should decode as empty, got %+v", resp.FinishReasons)
	}
}
