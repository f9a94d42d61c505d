// Package awsruntime invokes Bedrock models with credentials from the AWS default chain.
package awsruntime

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const contentTypeJSON = "application/json"

// API is the subset of the Bedrock runtime client used here
type API interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type Client struct {
	api API
}

// NewClient loads the default AWS configuration (environment, shared files,
// IAM roles, STS) for region and builds a Bedrock runtime client from it.
func NewClient(ctx context.Context, region string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return NewWithAPI(bedrockruntime.NewFromConfig(cfg)), nil
}

// NewWithAPI wraps an existing runtime client
func NewWithAPI(api API) *Client {
	return &Client{api: api}
}

func (c *Client) Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        body,
		ContentType: aws.String(contentTypeJSON),
		Accept:      aws.String(contentTypeJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("InvokeModel %s: %w", modelID, err)
	}
	if out == nil || len(out.Body) == 0 {
		return nil, fmt.Errorf("InvokeModel %s: empty response body", modelID)
	}
	return out.Body, nil
}
