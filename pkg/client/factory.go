package client

import (
	"context"
	"fmt"

	"github.com/Yaksh36/mcp-server-bedrock-image/internal/config"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/awsruntime"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/bearer"
)

// NewTransport builds the transport selected by cfg.AuthMode
func NewTransport(ctx context.Context, cfg config.BackendConfig) (Transport, error) {
	switch cfg.AuthMode {
	case config.AuthModeSDK:
		c, err := awsruntime.NewClient(ctx, cfg.Region)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.AuthModeBearer:
		c, err := bearer.NewClient(cfg.Endpoint, cfg.BearerToken)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("invalid auth mode %q: must be %q or %q", cfg.AuthMode, config.AuthModeSDK, config.AuthModeBearer)
	}
}

// FromConfig builds a Client with the transport selected by cfg.AuthMode
func FromConfig(ctx context.Context, cfg config.BackendConfig) (*Client, error) {
	transport, err := NewTransport(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(transport), nil
}
