package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkordes/tripkit/internal/domain"
)

// ListActivities returns all activities under one day plan.
// A day with nothing scheduled is an empty slice, not an error.
func (c *Client) ListActivities(ctx context.Context, dayPlanID string) ([]domain.Activity, error) {
	var resp []domain.Activity
	if err := c.do(ctx, http.MethodGet, "/dayplans/"+url.PathEscape(dayPlanID)+"/activities", nil, &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		resp = []domain.Activity{}
	}
	return resp, nil
}

// CreateActivity adds an activity to the given day plan.
func (c *Client) CreateActivity(ctx context.Context, dayPlanID string, req domain.ActivityCreateRequest) (domain.Activity, error) {
	var resp domain.Activity
	if err := c.do(ctx, http.MethodPost, "/dayplans/"+url.PathEscape(dayPlanID)+"/activities", req, &resp); err != nil {
		return domain.Activity{}, err
	}
	return resp, nil
}

// UpdateActivity replaces an existing activity's fields.
func (c *Client) UpdateActivity(ctx context.Context, id string, req domain.ActivityCreateRequest) (domain.Activity, error) {
	var resp domain.Activity
	if err := c.do(ctx, http.MethodPut, "/activities/"+url.PathEscape(id), req, &resp); err != nil {
		return domain.Activity{}, err
	}
	return resp, nil
}

// DeleteActivity removes an activity.
func (c *Client) DeleteActivity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/activities/"+url.PathEscape(id), nil, nil)
}

// ToggleActivityCompletion flips the done flag server-side and returns the
// updated activity.
func (c *Client) ToggleActivityCompletion(ctx context.Context, id string) (domain.Activity, error) {
	var resp domain.Activity
	if err := c.do(ctx, http.MethodPatch, "/activities/"+url.PathEscape(id)+"/toggle-completion", nil, &resp); err != nil {
		return domain.Activity{}, err
	}
	return resp, nil
}
