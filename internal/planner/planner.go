// Package planner is the view-model layer between the CLI and the transport.
// It owns the cache keys: reads go through the query cache, mutations validate
// first, call the API, then declare exactly which keys they invalidated.
// No HTTP lives here — the planner depends on the API interface, not the
// concrete client.
package planner

import (
	"context"

	"github.com/pkordes/tripkit/internal/domain"
	"github.com/pkordes/tripkit/internal/querycache"
)

// API defines the remote operations the planner depends on. api.Client
// implements it; defining the interface here (in the consumer package) lets
// planner tests inject a mock without any HTTP server.
type API interface {
	ListTrips(ctx context.Context, page, size int) (domain.TripPage, error)
	GetTrip(ctx context.Context, id string) (domain.Trip, error)
	CreateTrip(ctx context.Context, req domain.TripCreateRequest) (domain.Trip, error)
	UpdateTrip(ctx context.Context, id string, req domain.TripCreateRequest) (domain.Trip, error)
	DeleteTrip(ctx context.Context, id string) error
	ListActivities(ctx context.Context, dayPlanID string) ([]domain.Activity, error)
	CreateActivity(ctx context.Context, dayPlanID string, req domain.ActivityCreateRequest) (domain.Activity, error)
	UpdateActivity(ctx context.Context, id string, req domain.ActivityCreateRequest) (domain.Activity, error)
	DeleteActivity(ctx context.Context, id string) error
	ToggleActivityCompletion(ctx context.Context, id string) (domain.Activity, error)
	GetCostBreakdown(ctx context.Context, tripID string) (domain.CostBreakdown, error)
}

// Planner composes the API client with the query cache.
type Planner struct {
	api   API
	cache *querycache.Cache
}

// New constructs a Planner backed by the provided API and cache.
func New(api API, cache *querycache.Cache) *Planner {
	return &Planner{api: api, cache: cache}
}
