// Package imageio decodes source images and persists results without leaving partial files behind.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	apperrors "github.com/Yaksh36/mcp-server-bedrock-image/internal/errors"
)

// Load decodes an image file with WebP support.
// Missing, corrupt and unsupported files all yield an input_decode error.
func Load(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("cannot read image %s", path), err)
	}

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("cannot decode image %s", path), err)
	}
	return img, nil
}

// Decode reads an image from r, falling back to the explicit WebP decoder
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	// Try standard image.Decode first
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	// Try WebP decode
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// LoadNRGBA decodes path into a fresh NRGBA copy with origin (0,0).
// Images without alpha come out fully opaque.
func LoadNRGBA(path string) (*image.NRGBA, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}

// Flatten drops transparency in place, keeping the colour channels as they are
func Flatten(img *image.NRGBA) *image.NRGBA {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

// Format is a lossless output encoding
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// FormatForPath returns lossless WebP for ".webp" paths and PNG for everything else
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		return FormatWebP
	}
	return FormatPNG
}

// Encode writes img to w losslessly in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatWebP:
		return webp.Encode(w, img, &webp.Options{Lossless: true})
	default:
		return imaging.Encode(w, img, imaging.PNG)
	}
}

// SaveLossless encodes img into path and returns the absolute path.
// Parent directories are created and an existing file is replaced. The image is
// written to a temporary file in the target directory and renamed into place,
// so the path either holds a complete image or is left untouched.
func SaveLossless(img image.Image, path string) (string, error) {
	format := FormatForPath(path)
	return writeAtomic(path, func(w io.Writer) error {
		return Encode(w, img, format)
	})
}

// WriteFileAtomic writes data into path the same way SaveLossless does
func WriteFileAtomic(path string, data []byte) (string, error) {
	return writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func writeAtomic(path string, write func(io.Writer) error) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", apperrors.NewFilesystemError(fmt.Sprintf("cannot resolve output path %s", path), err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.NewFilesystemError(fmt.Sprintf("cannot create directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(abs)+".*.tmp")
	if err != nil {
		return "", apperrors.NewFilesystemError(fmt.Sprintf("cannot create temporary file in %s", dir), err)
	}
	tmpName := tmp.Name()

	fail := func(msg string, cause error) (string, error) {
		tmp.Close()
		os.Remove(tmpName)
		return "", apperrors.NewFilesystemError(msg, cause)
	}

	if err := write(tmp); err != nil {
		return fail(fmt.Sprintf("cannot write %s", abs), err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fail(fmt.Sprintf("cannot set permissions on %s", abs), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", apperrors.NewFilesystemError(fmt.Sprintf("cannot flush %s", abs), err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		os.Remove(tmpName)
		return "", apperrors.NewFilesystemError(fmt.Sprintf("cannot move output into %s", abs), err)
	}

	return abs, nil
}
