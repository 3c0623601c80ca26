package planner

import (
	"context"
	"fmt"

	"github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripkit/internal/domain"
	"github.com/pkordes/tripkit/internal/querycache"
)

// Trips returns one cached page of the trip list.
func (p *Planner) Trips(ctx context.Context, page, size int) (domain.TripPage, error) {
	return querycache.GetAs(ctx, p.cache, querycache.KeyTrips(page, size), func(ctx context.Context) (domain.TripPage, error) {
		return p.api.ListTrips(ctx, page, size)
	})
}

// Trip returns one cached trip. An empty id is "not yet ready", not a failure
// (the caller may still be resolving it).
func (p *Planner) Trip(ctx context.Context, id string) (domain.Trip, error) {
	if id == "" {
		return domain.Trip{}, querycache.ErrNotReady
	}
	return querycache.GetAs(ctx, p.cache, querycache.KeyTrip(id), func(ctx context.Context) (domain.Trip, error) {
		return p.api.GetTrip(ctx, id)
	})
}

// TripDays returns every calendar date of a trip, first day through last day
// inclusive. The calendar view renders one column per entry.
func (p *Planner) TripDays(ctx context.Context, id string) ([]types.Date, error) {
	trip, err := p.Trip(ctx, id)
	if err != nil {
		return nil, err
	}
	return trip.Days(), nil
}

// CreateTrip validates and submits a new trip, then invalidates every cached
// page of the trip list so the next listing includes it.
func (p *Planner) CreateTrip(ctx context.Context, req domain.TripCreateRequest) (domain.Trip, error) {
	if err := req.Validate(); err != nil {
		return domain.Trip{}, err
	}
	trip, err := p.api.CreateTrip(ctx, req)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("planner.Planner.CreateTrip: %w", err)
	}
	p.cache.InvalidatePrefix(querycache.TripsPrefix)
	return trip, nil
}

// UpdateTrip validates and submits changes to an existing trip, then
// invalidates the trip itself and every cached list page.
func (p *Planner) UpdateTrip(ctx context.Context, id string, req domain.TripCreateRequest) (domain.Trip, error) {
	if err := req.Validate(); err != nil {
		return domain.Trip{}, err
	}
	trip, err := p.api.UpdateTrip(ctx, id, req)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("planner.Planner.UpdateTrip: %w", err)
	}
	p.cache.Invalidate(querycache.KeyTrip(id))
	p.cache.InvalidatePrefix(querycache.TripsPrefix)
	return trip, nil
}

// DeleteTrip removes a trip and drops everything cached under it.
func (p *Planner) DeleteTrip(ctx context.Context, id string) error {
	if err := p.api.DeleteTrip(ctx, id); err != nil {
		return fmt.Errorf("planner.Planner.DeleteTrip: %w", err)
	}
	p.cache.Invalidate(querycache.KeyTrip(id), querycache.KeyCostBreakdown(id))
	p.cache.InvalidatePrefix(querycache.TripsPrefix)
	return nil
}
