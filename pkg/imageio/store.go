package imageio

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Yaksh36/mcp-server-bedrock-image/internal/errors"
)

// now is replaced in tests
var now = time.Now

// SaveBase64Image decodes a base64 payload returned by the backend and writes it
// to "<dir>/<filename>.png". An empty filename gets a random UUID.
func SaveBase64Image(b64, dir, filename string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return "", apperrors.NewBackendError("image payload is not valid base64", err)
	}

	name := baseName(filename) + ".png"
	return WriteFileAtomic(filepath.Join(dir, name), data)
}

// SaveMetadata writes meta as indented JSON to "<dir>/<filename>_metadata.json",
// adding a UTC RFC3339 "timestamp" field. An empty filename gets a random UUID.
func SaveMetadata(meta map[string]any, dir, filename string) (string, error) {
	doc := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		doc[k] = v
	}
	doc["timestamp"] = now().UTC().Format(time.RFC3339Nano)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", apperrors.NewInternalError("cannot encode metadata", err)
	}

	name := fmt.Sprintf("%s_metadata.json", baseName(filename))
	return WriteFileAtomic(filepath.Join(dir, name), data)
}

func baseName(filename string) string {
	if filename == "" {
		return uuid.NewString()
	}
	return filename
}
