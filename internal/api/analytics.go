package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkordes/tripkit/internal/domain"
)

// GetCostBreakdown fetches the server-computed cost aggregate for a trip.
// The breakdown is derived data: the client never mutates it, only refetches.
func (c *Client) GetCostBreakdown(ctx context.Context, tripID string) (domain.CostBreakdown, error) {
	var resp domain.CostBreakdown
	path := "/analytics/trips/" + url.PathEscape(tripID) + "/cost-breakdown"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return domain.CostBreakdown{}, err
	}
	return resp, nil
}
