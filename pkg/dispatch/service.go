// Package dispatch exposes the image tools as named operations taking JSON parameters.
package dispatch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Yaksh36/mcp-server-bedrock-image/internal/config"
	apperrors "github.com/Yaksh36/mcp-server-bedrock-image/internal/errors"
	"github.com/Yaksh36/mcp-server-bedrock-image/internal/utils"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/client"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/compositor"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/imageio"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/processing"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/types"
)

// Operation names are part of the public contract
const (
	OpGenerateImage     = "generate_image"
	OpGenerateImageCore = "generate_image_core"
	OpRemoveBackground  = "remove_background"
	OpStyleTransfer     = "style_transfer"
	OpSearchAndRecolor  = "search_and_recolor"
	OpOutpaint          = "outpaint"
	OpSearchAndReplace  = "search_and_replace"
	OpUpscaleFast       = "upscale_fast"
	OpUpscaleCreative   = "upscale_creative"
	OpComposeBranded    = "compose_branded"
)

// Operation describes one named tool
type Operation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Backend is false for operations that run locally
	Backend bool `json:"backend"`
}

type handlerFunc func(ctx context.Context, raw json.RawMessage) (*types.ToolResult, error)

// Options wires a Service. Only Config is required; Client may be nil when
// only local operations are used.
type Options struct {
	Config     *config.Config
	Client     *client.Client
	Compositor *compositor.Compositor
	Resolver   *processing.Resolver
	Logger     hclog.Logger
}

// Service runs named operations
type Service struct {
	config     *config.Config
	client     *client.Client
	compositor *compositor.Compositor
	resolver   *processing.Resolver
	logger     hclog.Logger

	ops      []Operation
	handlers map[string]handlerFunc
}

// NewService creates a service with every operation registered
func NewService(opts Options) *Service {
	s := &Service{
		config:     opts.Config,
		client:     opts.Client,
		compositor: opts.Compositor,
		resolver:   opts.Resolver,
		logger:     opts.Logger,
		handlers:   map[string]handlerFunc{},
	}
	if s.config == nil {
		s.config = config.Default()
	}
	if s.compositor == nil {
		s.compositor = compositor.New()
	}
	if s.resolver == nil {
		s.resolver = processing.NewResolver(nil)
	}
	if s.logger == nil {
		s.logger = hclog.NewNullLogger()
	}

	s.register(OpGenerateImage, "High-quality image generation (Stable Image Ultra)", true, s.generate("ultra"))
	s.register(OpGenerateImageCore, "Faster generation (Stable Image Core)", true, s.generate("core"))
	s.register(OpRemoveBackground, "Remove image background", true, s.removeBackground)
	s.register(OpStyleTransfer, "Apply style from a reference image", true, s.styleTransfer)
	s.register(OpSearchAndRecolor, "Recolor specific elements", true, s.searchAndRecolor)
	s.register(OpOutpaint, "Extend image in any direction", true, s.outpaint)
	s.register(OpSearchAndReplace, "Replace objects in an image", true, s.searchAndReplace)
	s.register(OpUpscaleFast, "4x resolution enhancement", true, s.upscaleFast)
	s.register(OpUpscaleCreative, "Up to 4K creative upscale", true, s.upscaleCreative)
	s.register(OpComposeBranded, "Overlay logo with composition-aware placement", false, s.composeBranded)

	return s
}

func (s *Service) register(name, description string, backend bool, h handlerFunc) {
	s.ops = append(s.ops, Operation{Name: name, Description: description, Backend: backend})
	s.handlers[name] = h
}

// Operations lists the registered operations in a stable order
func (s *Service) Operations() []Operation {
	out := make([]Operation, len(s.ops))
	copy(out, s.ops)
	return out
}

// Handle runs the operation called name with JSON parameters raw
func (s *Service) Handle(ctx context.Context, name string, raw json.RawMessage) (*types.ToolResult, error) {
	h, ok := s.handlers[name]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("unknown operation %q", name), nil)
	}

	logger := s.logger.With("op", name)
	logger.Debug("dispatching operation")
	start := time.Now()

	result, err := h(ctx, raw)
	if err != nil {
		logger.Error("operation failed", "duration", time.Since(start), "error", err)
		return nil, err
	}

	logger.Info("operation complete", "duration", time.Since(start), "paths", len(result.Paths), "path", result.Path)
	return result, nil
}

func (s *Service) generate(model string) handlerFunc {
	return func(ctx context.Context, raw json.RawMessage) (*types.ToolResult, error) {
		p, err := decodeParams[GenerateParams](raw)
		if err != nil {
			return nil, err
		}

		req := &types.GenerateRequest{
			Prompt:         p.Prompt,
			NegativePrompt: p.NegativePrompt,
			AspectRatio:    p.AspectRatio,
			Seed:           p.Seed,
		}
		resp, paths, err := s.invoke(ctx, model, req, p.OutputParams)
		if err != nil {
			return nil, err
		}

		if s.config.Storage.SaveMetadata {
			meta := map[string]any{
				"prompt": p.Prompt,
				"model":  model,
				"seeds":  resp.Seeds,
			}
			if p.NegativePrompt != "" {
				meta["negative_prompt"] = p.NegativePrompt
			}
			if path, err := imageio.SaveMetadata(meta, s.outputDir(p.OutputParams), s.filename(p.OutputParams)); err != nil {
				s.logger.Warn("failed to save metadata", "op", "generate", "model", model, "error", err)
			} else {
				s.logger.Debug("saved metadata", "path", path)
			}
		}

		return &types.ToolResult{Status: types.StatusSuccess, Paths: paths, Seeds: resp.Seeds}, nil
	}
}

func (s *Service) removeBackground(ctx context.Context, raw json.RawMessage) (*types.ToolResult, error) {
	p, err := decodeParams[RemoveBackgroundParams](raw)
	if err != nil {
		return nil, err
	}
	image, err := s.readImageB64(ctx, "image_path", p.ImagePath)
	if err != nil {
		return nil, err
	}
	return s.invokeResult(ctx, "remove_background", &types.RemoveBackgroundRequest{Image: image}, p.OutputParams)
}

func (s *Service) styleTransfer(ctx context.Context, raw json.RawMessage) (*types.ToolResult, error) {
	p, err := decodeParams[StyleTransferParams](raw)
	if err != nil {
		return nil, err
	}
	image, err := s.readImageB64(ctx, "image_path", p.ImagePath)
	if err != nil {
		return nil, err
	}
	style, err := s.readImageB64(ctx, "style_image_path", p.StyleImagePath)
	if err != nil {
		return nil, err
	}
	return s.invokeResult(ctx, "style_transfer", &types.StyleTransferRequest{
		Prompt:         p.Prompt,
		Image:          image,
		StyleImage:     style,
		NegativePrompt: p.NegativePrompt,
	}, p.OutputParams)
}

func (s *Service) searchAndRecolor(ctx context.Context, raw json.RawMessage) (*types.ToolResult, error) {
	p, err := decodeParams[RecolorParams](raw)
	if err != nil {
		return nil, err
	}
	image, err := s.readImageB64(ctx, "image_path", p.ImagePath)
	if err != nil {
		return nil, err
	}
	return s.invokeResult(ctx, "recolor", &types.RecolorRequest{
		Image:         image,
		Prompt:        p.Prompt,
		SelectPrompt:  p.SelectPrompt,
		RecolorPrompt: p.RecolorPrompt,
	}, p.OutputParams)
}

func (s *Service) outpaint(ctx context.Context, raw json.RawMessage) (*types.ToolResult, error) {
	p, err := decodeParams[OutpaintParams](raw)
	if err != nil {
		return nil, err
	}
	image, err := s.readImageB64(ctx, "image_path", p.ImagePath)
	if err != nil {
		return nil, err
	}
	return s.invokeResult(ctx, "outpaint", &types.OutpaintRequest{
		Image:  image,
		Prompt: p.Prompt,
		Left:   p.Left,
		Right:  p.Right,
		Top:    p.Top,
		Bottom: p.Bottom,
	}, p.OutputParams)
}

func (s *Service) searchAndReplace(ctx context.Context, raw json.RawMessage) (*types.ToolResult, error) {
	p, err := decodeParams[SearchReplaceParams](raw)
	if err != nil {
		return nil, err
	}
	image, err := s.readImageB64(ctx, "image_path", p.ImagePath)
	if err != nil {
		return nil, err
	}
	return s.invokeResult(ctx, "search_replace", &types.SearchReplaceRequest{
		Image:        image,
		Prompt:       p.Prompt,
		SearchPrompt: p.SearchPrompt,
	}, p.OutputParams)
}

func (s *Service) upscaleFast(ctx context.Context, raw json.RawMessage) (*types.ToolResult, error) {
	p, err := decodeParams[UpscaleFastParams](raw)
	if err != nil {
		return nil, err
	}
	image, err := s.readImageB64(ctx, "image_path", p.ImagePath)
	if err != nil {
		return nil, err
	}
	return s.invokeResult(ctx, "upscale_fast", &types.UpscaleFastRequest{Image: image}, p.OutputParams)
}

func (s *Service) upscaleCreative(ctx context.Context, raw json.RawMessage) (*types.ToolResult, error) {
	p, err := decodeParams[UpscaleCreativeParams](raw)
	if err != nil {
		return nil, err
	}
	image, err := s.readImageB64(ctx, "image_path", p.ImagePath)
	if err != nil {
		return nil, err
	}
	return s.invokeResult(ctx, "upscale_creative", &types.UpscaleCreativeRequest{
		Image:          image,
		Prompt:         p.Prompt,
		NegativePrompt: p.NegativePrompt,
	}, p.OutputParams)
}

func (s *Service) composeBranded(ctx context.Context, raw json.RawMessage) (*types.ToolResult, error) {
	p, err := decodeParams[ComposeParams](raw)
	if err != nil {
		return nil, err
	}

	opts := compositor.Options{
		OutputPath: p.OutputPath,
		Variant:    p.LogoVariant,
		Scale:      s.config.Compose.LogoScale,
	}
	if opts.Variant == "" {
		opts.Variant = s.config.Compose.LogoVariant
	}
	if p.LogoScale != nil {
		opts.Scale = *p.LogoScale
	}
	// Reject bad parameters before fetching anything
	if _, err := opts.Validate(); err != nil {
		return nil, err
	}

	imagePath, cleanupImage, err := s.resolve(ctx, "image_path", p.ImagePath)
	if err != nil {
		return nil, err
	}
	defer cleanupImage()

	logoPath, cleanupLogo, err := s.resolve(ctx, "logo_path", p.LogoPath)
	if err != nil {
		return nil, err
	}
	defer cleanupLogo()

	opts.ImagePath, opts.LogoPath = imagePath, logoPath
	res, err := s.compositor.Compose(opts)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("logo placed", "path", res.Path, "row", res.Placement.Row, "col", res.Placement.Col,
		"complexity", res.Placement.Complexity, "variant", res.Variant)

	return &types.ToolResult{Status: types.StatusSuccess, Path: res.Path, LogoVariant: string(res.Variant)}, nil
}

func (s *Service) invokeResult(ctx context.Context, model string, req types.Request, out OutputParams) (*types.ToolResult, error) {
	_, paths, err := s.invoke(ctx, model, req, out)
	if err != nil {
		return nil, err
	}
	return &types.ToolResult{Status: types.StatusSuccess, Paths: paths}, nil
}

// invoke sends req to the named model and stores every returned image
func (s *Service) invoke(ctx context.Context, model string, req types.Request, out OutputParams) (*types.ImageResponse, []string, error) {
	if s.client == nil {
		return nil, nil, apperrors.NewBackendError("backend client is not configured", nil)
	}

	modelID, err := s.config.ModelID(model)
	if err != nil {
		return nil, nil, apperrors.NewInternalError("model table is incomplete", err)
	}

	start := time.Now()
	resp, err := s.client.Invoke(ctx, modelID, req)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("model invoked", "model", modelID, "images", len(resp.Images), "duration", time.Since(start))

	dir := s.outputDir(out)
	name := s.filename(out)
	paths := make([]string, 0, len(resp.Images))
	for i, img := range resp.Images {
		filename := name
		if filename != "" && i > 0 {
			filename = name + "_" + strconv.Itoa(i)
		}
		path, err := imageio.SaveBase64Image(img, dir, filename)
		if err != nil {
			return nil, nil, err
		}
		paths = append(paths, path)
	}

	return resp, paths, nil
}

func (s *Service) outputDir(out OutputParams) string {
	if out.OutputDir != "" {
		return out.OutputDir
	}
	return s.config.Storage.Directory
}

func (s *Service) filename(out OutputParams) string {
	return utils.SanitizeFilename(out.Filename)
}

func (s *Service) resolve(ctx context.Context, field, source string) (string, func(), error) {
	if source == "" {
		return "", func() {}, apperrors.NewInvalidParameterError(field+" is required", nil)
	}
	return s.resolver.Resolve(ctx, source)
}

// readImageB64 resolves source and returns the file contents base64-encoded
func (s *Service) readImageB64(ctx context.Context, field, source string) (string, error) {
	path, cleanup, err := s.resolve(ctx, field, source)
	if err != nil {
		return "", err
	}
	defer cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperrors.NewDecodeError(fmt.Sprintf("cannot read %s", field), err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// decodeParams parses raw strictly; unknown fields are rejected
func decodeParams[T any](raw json.RawMessage) (*T, error) {
	var p T
	if len(bytes.TrimSpace(raw)) == 0 {
		return &p, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, apperrors.NewInvalidParameterError("invalid parameters", err)
	}
	return &p, nil
}
