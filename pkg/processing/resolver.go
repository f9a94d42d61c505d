package processing

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	apperrors "github.com/Yaksh36/mcp-server-bedrock-image/internal/errors"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/storage"
)

// maxDownloadSize caps remote sources at 64 MiB
const maxDownloadSize = 64 << 20

// Resolver turns a source reference into a local file path.
// Plain paths pass through; http(s) URLs and azblob:// references are downloaded to temporary files.
type Resolver struct {
	httpClient *http.Client
	blobs      storage.BlobStore
	tempDir    string
}

// NewResolver creates a resolver. blobs may be nil when blob storage is not configured.
func NewResolver(blobs storage.BlobStore) *Resolver {
	return &Resolver{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		blobs: blobs,
	}
}

// SetHTTPClient replaces the client used for URL downloads
func (r *Resolver) SetHTTPClient(client *http.Client) {
	r.httpClient = client
}

// SetTempDir sets where downloads are written; empty means os.TempDir()
func (r *Resolver) SetTempDir(dir string) {
	r.tempDir = dir
}

// Resolve returns a local path for source and a cleanup func that removes any
// temporary download. cleanup is never nil.
func (r *Resolver) Resolve(ctx context.Context, source string) (string, func(), error) {
	noop := func() {}

	switch {
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		data, ext, err := r.download(ctx, source)
		if err != nil {
			return "", noop, err
		}
		return r.writeTemp(data, ext)

	case storage.IsBlobSource(source):
		if r.blobs == nil {
			return "", noop, apperrors.NewInvalidParameterError("blob storage is not configured (set AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY)", nil)
		}
		container, blob, err := storage.ParseBlobSource(source)
		if err != nil {
			return "", noop, apperrors.NewInvalidParameterError("invalid blob source", err)
		}
		data, err := r.blobs.Download(ctx, container, blob)
		if err != nil {
			return "", noop, apperrors.NewDecodeError(fmt.Sprintf("cannot fetch %s", source), err)
		}
		return r.writeTemp(data, path.Ext(blob))

	default:
		return source, noop, nil
	}
}

// download fetches an image URL and returns its bytes and a file extension
func (r *Resolver) download(ctx context.Context, imageURL string) ([]byte, string, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil || parsedURL.Host == "" {
		return nil, "", apperrors.NewInvalidParameterError(fmt.Sprintf("invalid URL: %s", imageURL), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", apperrors.NewInvalidParameterError("failed to create request", err)
	}
	req.Header.Set("User-Agent", "bedrock-image/1.0")
	req.Header.Set("Accept", "image/png, image/jpeg, image/webp, image/*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", apperrors.NewDecodeError("failed to download image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", apperrors.NewDecodeError(fmt.Sprintf("failed to download image: HTTP %d", resp.StatusCode), nil)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", apperrors.NewDecodeError(fmt.Sprintf("URL does not point to an image (Content-Type: %s)", contentType), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, "", apperrors.NewDecodeError("failed to read image data", err)
	}
	if len(data) > maxDownloadSize {
		return nil, "", apperrors.NewDecodeError(fmt.Sprintf("image exceeds %d bytes", maxDownloadSize), nil)
	}

	ext := path.Ext(parsedURL.Path)
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		ext = exts[0]
	}
	return data, ext, nil
}

func (r *Resolver) writeTemp(data []byte, ext string) (string, func(), error) {
	f, err := os.CreateTemp(r.tempDir, "bedrock-image-*"+ext)
	if err != nil {
		return "", func() {}, apperrors.NewFilesystemError("cannot create temporary file", err)
	}
	name := f.Name()
	cleanup := func() { os.Remove(name) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", func() {}, apperrors.NewFilesystemError("cannot write temporary file", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, apperrors.NewFilesystemError("cannot write temporary file", err)
	}
	return name, cleanup, nil
}
