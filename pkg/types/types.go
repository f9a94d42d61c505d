// Package types holds the request and response bodies exchanged with the image backend.
package types

import (
	"fmt"
	"strings"

	apperrors "github.com/Yaksh36/mcp-server-bedrock-image/internal/errors"
)

const (
	// MaxPromptLength is the longest prompt the backend accepts
	MaxPromptLength = 10000
	// DefaultOutputFormat is requested when a caller leaves output_format empty
	DefaultOutputFormat = "png"
	// ModeTextToImage is the only generation mode exposed
	ModeTextToImage = "text-to-image"
)

// Request is a backend request body
type Request interface {
	// Normalize fills defaults for optional fields
	Normalize()
	// Validate reports missing required fields and out-of-range values
	Validate() error
}

// Format selects the encoding of returned images
type Format struct {
	OutputFormat string `json:"output_format"`
}

// Normalize defaults the output format to PNG
func (f *Format) Normalize() {
	if f.OutputFormat == "" {
		f.OutputFormat = DefaultOutputFormat
	}
}

// GenerateRequest is the text-to-image body shared by the Ultra and Core models
type GenerateRequest struct {
	Prompt         string `json:"prompt"`
	Mode           string `json:"mode"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	AspectRatio    string `json:"aspect_ratio,omitempty"`
	Seed           *int64 `json:"seed,omitempty"`
	Format
}

func (r *GenerateRequest) Normalize() {
	r.Format.Normalize()
	if r.Mode == "" {
		r.Mode = ModeTextToImage
	}
}

func (r *GenerateRequest) Validate() error {
	var v validator
	v.prompt("prompt", r.Prompt)
	v.optionalPrompt("negative_prompt", r.NegativePrompt)
	return v.err()
}

// RemoveBackgroundRequest removes the background of an image
type RemoveBackgroundRequest struct {
	Image string `json:"image"`
	Format
}

func (r *RemoveBackgroundRequest) Validate() error {
	var v validator
	v.required("image", r.Image)
	return v.err()
}

// StyleTransferRequest applies the style of StyleImage to Image
type StyleTransferRequest struct {
	Prompt         string `json:"prompt"`
	Image          string `json:"image"`
	StyleImage     string `json:"style_image"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Format
}

func (r *StyleTransferRequest) Validate() error {
	var v validator
	v.prompt("prompt", r.Prompt)
	v.required("image", r.Image)
	v.required("style_image", r.StyleImage)
	v.optionalPrompt("negative_prompt", r.NegativePrompt)
	return v.err()
}

// RecolorRequest recolours the element matched by SelectPrompt
type RecolorRequest struct {
	Image         string `json:"image"`
	Prompt        string `json:"prompt"`
	SelectPrompt  string `json:"select_prompt"`
	RecolorPrompt string `json:"recolor_prompt"`
	Format
}

func (r *RecolorRequest) Validate() error {
	var v validator
	v.required("image", r.Image)
	v.prompt("prompt", r.Prompt)
	v.prompt("select_prompt", r.SelectPrompt)
	v.prompt("recolor_prompt", r.RecolorPrompt)
	return v.err()
}

// OutpaintRequest extends an image by the given number of pixels per side
type OutpaintRequest struct {
	Image  string `json:"image"`
	Prompt string `json:"prompt"`
	Left   int    `json:"left"`
	Right  int    `json:"right"`
	Top    int    `json:"top"`
	Bottom int    `json:"bottom"`
	Format
}

func (r *OutpaintRequest) Validate() error {
	var v validator
	v.required("image", r.Image)
	v.prompt("prompt", r.Prompt)
	v.nonNegative("left", r.Left)
	v.nonNegative("right", r.Right)
	v.nonNegative("top", r.Top)
	v.nonNegative("bottom", r.Bottom)
	return v.err()
}

// SearchReplaceRequest replaces the object matched by SearchPrompt with Prompt
type SearchReplaceRequest struct {
	Image        string `json:"image"`
	Prompt       string `json:"prompt"`
	SearchPrompt string `json:"search_prompt"`
	Format
}

func (r *SearchReplaceRequest) Validate() error {
	var v validator
	v.required("image", r.Image)
	v.prompt("prompt", r.Prompt)
	v.prompt("search_prompt", r.SearchPrompt)
	return v.err()
}

// UpscaleFastRequest upscales an image 4x
type UpscaleFastRequest struct {
	Image string `json:"image"`
	Format
}

func (r *UpscaleFastRequest) Validate() error {
	var v validator
	v.required("image", r.Image)
	return v.err()
}

// UpscaleCreativeRequest upscales an image guided by a prompt
type UpscaleCreativeRequest struct {
	Image          string `json:"image"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Format
}

func (r *UpscaleCreativeRequest) Validate() error {
	var v validator
	v.required("image", r.Image)
	v.prompt("prompt", r.Prompt)
	v.optionalPrompt("negative_prompt", r.NegativePrompt)
	return v.err()
}

// ImageResponse is the body returned by every Stability model
type ImageResponse struct {
	Images        []string `json:"images"`
	Seeds         []int64  `json:"seeds,omitempty"`
	FinishReasons []string `json:"finish_reasons,omitempty"`
}

// ToolResult is what a dispatched operation returns to its caller
type ToolResult struct {
	Status      string   `json:"status"`
	Paths       []string `json:"paths,omitempty"`
	Seeds       []int64  `json:"seeds,omitempty"`
	Path        string   `json:"path,omitempty"`
	LogoVariant string   `json:"logo_variant,omitempty"`
}

// StatusSuccess marks a completed operation
const StatusSuccess = "success"

type validator struct {
	problems []string
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.problems = append(v.problems, fmt.Sprintf("%s is required", field))
	}
}

func (v *validator) prompt(field, value string) {
	v.required(field, value)
	v.optionalPrompt(field, value)
}

func (v *validator) optionalPrompt(field, value string) {
	if n := len([]rune(value)); n > MaxPromptLength {
		v.problems = append(v.problems, fmt.Sprintf("%s is %d characters, maximum is %d", field, n, MaxPromptLength))
	}
}

func (v *validator) nonNegative(field string, value int) {
	if value < 0 {
		v.problems = append(v.problems, fmt.Sprintf("%s must not be negative", field))
	}
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return apperrors.NewInvalidParameterError(strings.Join(v.problems, "; "), nil)
}
