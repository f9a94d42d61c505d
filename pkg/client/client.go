// Package client invokes Stability models on Bedrock through a pluggable transport.
package client

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "github.com/Yaksh36/mcp-server-bedrock-image/internal/errors"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/types"
)

// Transport sends one JSON body to a model and returns the raw JSON response.
// awsruntime.Client uses the AWS credential chain; bearer.Client uses an API key.
type Transport interface {
	Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error)
}

// TransportFunc adapts a function to Transport
type TransportFunc func(ctx context.Context, modelID string, body []byte) ([]byte, error)

// Invoke calls f
func (f TransportFunc) Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	return f(ctx, modelID, body)
}

// Client encodes typed requests and decodes image responses
type Client struct {
	transport Transport
}

// New creates a client over the given transport
func New(transport Transport) *Client {
	return &Client{transport: transport}
}

// Invoke normalizes and validates req, sends it to modelID and decodes the images
func (c *Client) Invoke(ctx context.Context, modelID string, req types.Request) (*types.ImageResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal request", err)
	}

	raw, err := c.InvokeRaw(ctx, modelID, body)
	if err != nil {
		return nil, err
	}

	var resp types.ImageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, apperrors.NewBackendError(fmt.Sprintf("failed to parse response from %s", modelID), err)
	}
	if len(resp.Images) == 0 {
		return nil, apperrors.NewBackendError(fmt.Sprintf("no images in response from %s", modelID), nil)
	}

	return &resp, nil
}

// InvokeRaw sends an already encoded body. Transport failures become backend errors.
func (c *Client) InvokeRaw(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	raw, err := c.transport.Invoke(ctx, modelID, body)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeBackend) {
			return nil, err
		}
		return nil, apperrors.NewBackendError(fmt.Sprintf("invoke %s failed", modelID), err)
	}
	return raw, nil
}
