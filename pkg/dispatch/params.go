package dispatch

// OutputParams are accepted by every operation that stores backend images
type OutputParams struct {
	// Filename is the output name without extension; a UUID is used when empty
	Filename string `json:"filename,omitempty"`
	// OutputDir overrides the configured storage directory
	OutputDir string `json:"output_dir,omitempty"`
}

type GenerateParams struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	AspectRatio    string `json:"aspect_ratio,omitempty"`
	Seed           *int64 `json:"seed,omitempty"`
	OutputParams
}

type RemoveBackgroundParams struct {
	ImagePath string `json:"image_path"`
	OutputParams
}

type StyleTransferParams struct {
	Prompt         string `json:"prompt"`
	ImagePath      string `json:"image_path"`
	StyleImagePath string `json:"style_image_path"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	OutputParams
}

type RecolorParams struct {
	ImagePath     string `json:"image_path"`
	Prompt        string `json:"prompt"`
	SelectPrompt  string `json:"select_prompt"`
	RecolorPrompt string `json:"recolor_prompt"`
	OutputParams
}

type OutpaintParams struct {
	ImagePath string `json:"image_path"`
	Prompt    string `json:"prompt"`
	Left      int    `json:"left,omitempty"`
	Right     int    `json:"right,omitempty"`
	Top       int    `json:"top,omitempty"`
	Bottom    int    `json:"bottom,omitempty"`
	OutputParams
}

type SearchReplaceParams struct {
	ImagePath    string `json:"image_path"`
	Prompt       string `json:"prompt"`
	SearchPrompt string `json:"search_prompt"`
	OutputParams
}

type UpscaleFastParams struct {
	ImagePath string `json:"image_path"`
	OutputParams
}

type UpscaleCreativeParams struct {
	ImagePath      string `json:"image_path"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	OutputParams
}

// ComposeParams places a logo on an image. Unset variant and scale fall back to the configured defaults.
type ComposeParams struct {
	ImagePath   string   `json:"image_path"`
	LogoPath    string   `json:"logo_path"`
	OutputPath  string   `json:"output_path"`
	LogoVariant string   `json:"logo_variant,omitempty"`
	LogoScale   *float64 `json:"logo_scale,omitempty"`
}
