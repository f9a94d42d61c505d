// Package storage fetches source images held in Azure Blob Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// Scheme prefixes sources that live in blob storage: azblob://<container>/<blob>
const Scheme = "azblob://"

type BlobStore interface {
	Download(ctx context.Context, container, blob string) ([]byte, error)
}

type azureStorage struct {
	client *azblob.Client
}

// NewAzureStorage connects to https://<accountName>.blob.core.windows.net with a shared key
func NewAzureStorage(accountName string, accountKey string) (BlobStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid storage credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &azureStorage{client: client}, nil
}

func (s *azureStorage) Download(ctx context.Context, container, blob string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	body := resp.Body
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s/%s: %w", container, blob, err)
	}
	return data, nil
}

// IsBlobSource reports whether source uses the azblob:// scheme
func IsBlobSource(source string) bool {
	return strings.HasPrefix(source, Scheme)
}

// ParseBlobSource splits azblob://<container>/<blob> into its parts
func ParseBlobSource(source string) (container, blob string, err error) {
	if !IsBlobSource(source) {
		return "", "", fmt.Errorf("not a blob source: %s", source)
	}

	rest := strings.TrimPrefix(source, Scheme)
	container, blob, ok := strings.Cut(rest, "/")
	if !ok || container == "" || blob == "" {
		return "", "", fmt.Errorf("blob source must look like %s<container>/<blob>, got %s", Scheme, source)
	}
	return container, blob, nil
}
