package client

import (
	"context"
	"fmt"

	"github.com/darmiel/dockgate/internal/core"
)

// ListAudits retrieves the most recent audit records.
func (c *Client) ListAudits(ctx context.Context, limit uint) ([]core.AuditRecord, error) {
	url := fmt.Sprintf("%s/v1/admin/audit?limit=%d", c.baseURL, limit)

	var records []core.AuditRecord
	if _, err := c.get(ctx, url, &records); err != nil {
		return nil, err
	}
	return records, nil
}
