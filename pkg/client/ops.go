package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// OperationParams are the parameters for one gateway operation.
type OperationParams struct {
	Container string   `json:"container,omitempty"`
	Project   string   `json:"project,omitempty"`
	Services  []string `json:"services,omitempty"`
	All       bool     `json:"all,omitempty"`
	Tail      int      `json:"tail,omitempty"`
}

// OperationResult is the raw result of one gateway operation.
type OperationResult struct {
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Invoke performs one operation through the gateway.
func (c *Client) Invoke(ctx context.Context, operation string, params OperationParams) (*OperationResult, error) {
	url := fmt.Sprintf("%s/v1/ops/%s", c.baseURL, operation)

	var result OperationResult
	if _, err := c.post(ctx, url, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
