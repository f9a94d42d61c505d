// Package bearer invokes Bedrock models over HTTPS with a Bedrock API key.
package bearer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrMissingToken is returned when no API key is configured
var ErrMissingToken = errors.New("bearer token required: set AWS_BEARER_TOKEN_BEDROCK")

type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func NewClient(endpoint, token string) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if endpoint == "" {
		return nil, fmt.Errorf("bedrock endpoint is required")
	}

	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		token:    token,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}, nil
}

// SetHTTPClient replaces the underlying HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// Invoke posts body to {endpoint}/model/{modelID}/invoke
func (c *Client) Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}

	endpoint := fmt.Sprintf("%s/model/%s/invoke", c.endpoint, url.PathEscape(modelID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
