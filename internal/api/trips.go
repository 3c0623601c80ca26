package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkordes/tripkit/internal/domain"
)

// ListTrips returns one page of the caller's trips.
func (c *Client) ListTrips(ctx context.Context, page, size int) (domain.TripPage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(size))

	var resp domain.TripPage
	if err := c.do(ctx, http.MethodGet, "/trips?"+q.Encode(), nil, &resp); err != nil {
		return domain.TripPage{}, err
	}
	return resp, nil
}

// GetTrip returns a single trip by ID.
// Returns an error wrapping domain.ErrNotFound when the trip does not exist.
func (c *Client) GetTrip(ctx context.Context, id string) (domain.Trip, error) {
	var resp domain.Trip
	if err := c.do(ctx, http.MethodGet, "/trips/"+url.PathEscape(id), nil, &resp); err != nil {
		return domain.Trip{}, err
	}
	return resp, nil
}

// CreateTrip submits a new trip and returns the server's copy, IDs assigned.
func (c *Client) CreateTrip(ctx context.Context, req domain.TripCreateRequest) (domain.Trip, error) {
	var resp domain.Trip
	if err := c.do(ctx, http.MethodPost, "/trips", req, &resp); err != nil {
		return domain.Trip{}, err
	}
	return resp, nil
}

// UpdateTrip replaces an existing trip's fields.
func (c *Client) UpdateTrip(ctx context.Context, id string, req domain.TripCreateRequest) (domain.Trip, error) {
	var resp domain.Trip
	if err := c.do(ctx, http.MethodPut, "/trips/"+url.PathEscape(id), req, &resp); err != nil {
		return domain.Trip{}, err
	}
	return resp, nil
}

// DeleteTrip removes a trip. The server returns an empty body.
func (c *Client) DeleteTrip(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/trips/"+url.PathEscape(id), nil, nil)
}
