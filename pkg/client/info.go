package client

import (
	"context"

	"github.com/darmiel/dockgate/internal/buildinfo"
)

// Health is the gateway health as reported by /healthz.
type Health struct {
	Status           string `json:"status"`
	ConfigLastReload string `json:"config_last_reload"`
	ConfigFailing    string `json:"config_failing_since,omitempty"`
	ConfigLastError  string `json:"config_last_error,omitempty"`
	AuditFailures    uint64 `json:"audit_failures"`
	PendingOutcomes  int    `json:"pending_outcomes"`
}

// GetHealth fetches /healthz.
func (c *Client) GetHealth(ctx context.Context) (*Health, error) {
	var health Health
	if _, err := c.get(ctx, c.baseURL+"/healthz", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetAbout fetches the build information of the remote gateway.
func (c *Client) GetAbout(ctx context.Context) (*buildinfo.Info, error) {
	var info buildinfo.Info
	if _, err := c.get(ctx, c.baseURL+"/v1/about", &info); err != nil {
		return nil, err
	}
	return &info, nil
}
