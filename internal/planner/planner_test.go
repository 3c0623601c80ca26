package planner_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripkit/internal/domain"
	"github.com/pkordes/tripkit/internal/planner"
	"github.com/pkordes/tripkit/internal/querycache"
)

// mockAPI is a hand-written test double for planner.API.
// Each method is a function field — set only the ones your test needs.
type mockAPI struct {
	listTrips        func(ctx context.Context, page, size int) (domain.TripPage, error)
	getTrip          func(ctx context.Context, id string) (domain.Trip, error)
	createTrip       func(ctx context.Context, req domain.TripCreateRequest) (domain.Trip, error)
	updateTrip       func(ctx context.Context, id string, req domain.TripCreateRequest) (domain.Trip, error)
	deleteTrip       func(ctx context.Context, id string) error
	listActivities   func(ctx context.Context, dayPlanID string) ([]domain.Activity, error)
	createActivity   func(ctx context.Context, dayPlanID string, req domain.ActivityCreateRequest) (domain.Activity, error)
	updateActivity   func(ctx context.Context, id string, req domain.ActivityCreateRequest) (domain.Activity, error)
	deleteActivity   func(ctx context.Context, id string) error
	toggleActivity   func(ctx context.Context, id string) (domain.Activity, error)
	getCostBreakdown func(ctx context.Context, tripID string) (domain.CostBreakdown, error)
}

func (m *mockAPI) ListTrips(ctx context.Context, page, size int) (domain.TripPage, error) {
	return m.listTrips(ctx, page, size)
}
func (m *mockAPI) GetTrip(ctx context.Context, id string) (domain.Trip, error) {
	return m.getTrip(ctx, id)
}
func (m *mockAPI) CreateTrip(ctx context.Context, req domain.TripCreateRequest) (domain.Trip, error) {
	return m.createTrip(ctx, req)
}
func (m *mockAPI) UpdateTrip(ctx context.Context, id string, req domain.TripCreateRequest) (domain.Trip, error) {
	return m.updateTrip(ctx, id, req)
}
func (m *mockAPI) DeleteTrip(ctx context.Context, id string) error {
	return m.deleteTrip(ctx, id)
}
func (m *mockAPI) ListActivities(ctx context.Context, dayPlanID string) ([]domain.Activity, error) {
	return m.listActivities(ctx, dayPlanID)
}
func (m *mockAPI) CreateActivity(ctx context.Context, dayPlanID string, req domain.ActivityCreateRequest) (domain.Activity, error) {
	return m.createActivity(ctx, dayPlanID, req)
}
func (m *mockAPI) UpdateActivity(ctx context.Context, id string, req domain.ActivityCreateRequest) (domain.Activity, error) {
	return m.updateActivity(ctx, id, req)
}
func (m *mockAPI) DeleteActivity(ctx context.Context, id string) error {
	return m.deleteActivity(ctx, id)
}
func (m *mockAPI) ToggleActivityCompletion(ctx context.Context, id string) (domain.Activity, error) {
	return m.toggleActivity(ctx, id)
}
func (m *mockAPI) GetCostBreakdown(ctx context.Context, tripID string) (domain.CostBreakdown, error) {
	return m.getCostBreakdown(ctx, tripID)
}

// compile-time check: mockAPI must satisfy planner.API.
var _ planner.API = (*mockAPI)(nil)

// ---- helpers ---------------------------------------------------------------

func newPlanner(api planner.API) *planner.Planner {
	return planner.New(api, querycache.New(nil))
}

func date(y int, m time.Month, d int) types.Date {
	return types.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func tripFixture() domain.Trip {
	budget := 200.0
	return domain.Trip{
		ID:        "t-1",
		Title:     "Japan 2025",
		StartDate: date(2025, 4, 1),
		EndDate:   date(2025, 4, 10),
		Budget:    &budget,
		Owner:     domain.User{ID: "u-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: domain.RoleUser},
		Tags:      []domain.Tag{},
	}
}

// ---- Trips -----------------------------------------------------------------

func TestPlanner_Trips_CachesPerPage(t *testing.T) {
	var calls atomic.Int64
	api := &mockAPI{
		listTrips: func(_ context.Context, page, size int) (domain.TripPage, error) {
			calls.Add(1)
			return domain.TripPage{Content: []domain.Trip{tripFixture()}, TotalElements: 1}, nil
		},
	}
	p := newPlanner(api)

	first, err := p.Trips(context.Background(), 0, 10)
	require.NoError(t, err)
	second, err := p.Trips(context.Background(), 0, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), calls.Load(), "same page must be served from cache")

	_, err = p.Trips(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load(), "a different page is a different key")
}

func TestPlanner_Trip_EmptyIDIsNotReady(t *testing.T) {
	called := false
	api := &mockAPI{
		getTrip: func(_ context.Context, _ string) (domain.Trip, error) {
			called = true
			return domain.Trip{}, nil
		},
	}
	p := newPlanner(api)

	_, err := p.Trip(context.Background(), "")

	assert.ErrorIs(t, err, querycache.ErrNotReady)
	assert.False(t, called, "a missing parameter must not issue a fetch")
}

func TestPlanner_TripDays_InclusiveRange(t *testing.T) {
	api := &mockAPI{
		getTrip: func(_ context.Context, id string) (domain.Trip, error) {
			trip := tripFixture()
			trip.ID = id
			trip.EndDate = date(2025, 4, 3)
			return trip, nil
		},
	}
	p := newPlanner(api)

	days, err := p.TripDays(context.Background(), "t-1")

	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, date(2025, 4, 1), days[0])
	assert.Equal(t, date(2025, 4, 3), days[2])
}

func TestPlanner_CreateTrip_InvalidNeverReachesAPI(t *testing.T) {
	called := false
	api := &mockAPI{
		createTrip: func(_ context.Context, _ domain.TripCreateRequest) (domain.Trip, error) {
			called = true
			return domain.Trip{}, nil
		},
	}
	p := newPlanner(api)

	_, err := p.CreateTrip(context.Background(), domain.TripCreateRequest{
		Title:     "Backwards",
		StartDate: date(2025, 4, 10),
		EndDate:   date(2025, 4, 1),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, called)
}

func TestPlanner_CreateTrip_InvalidatesListPages(t *testing.T) {
	var listCalls atomic.Int64
	trips := []domain.Trip{tripFixture()}
	api := &mockAPI{
		listTrips: func(_ context.Context, _, _ int) (domain.TripPage, error) {
			listCalls.Add(1)
			return domain.TripPage{Content: trips, TotalElements: int64(len(trips))}, nil
		},
		createTrip: func(_ context.Context, req domain.TripCreateRequest) (domain.Trip, error) {
			created := tripFixture()
			created.ID = "t-2"
			created.Title = req.Title
			trips = append(trips, created)
			return created, nil
		},
	}
	p := newPlanner(api)

	page, err := p.Trips(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)

	_, err = p.CreateTrip(context.Background(), domain.TripCreateRequest{
		Title:     "Japan 2025",
		StartDate: date(2025, 4, 1),
		EndDate:   date(2025, 4, 10),
	})
	require.NoError(t, err)

	page, err = p.Trips(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Len(t, page.Content, 2, "a listing after create must reflect the new trip")
	assert.Equal(t, int64(2), listCalls.Load())
}

func TestPlanner_DeleteTrip_InvalidatesTripAndList(t *testing.T) {
	var getCalls atomic.Int64
	api := &mockAPI{
		getTrip: func(_ context.Context, id string) (domain.Trip, error) {
			getCalls.Add(1)
			return tripFixture(), nil
		},
		deleteTrip: func(_ context.Context, _ string) error { return nil },
	}
	p := newPlanner(api)

	_, err := p.Trip(context.Background(), "t-1")
	require.NoError(t, err)

	require.NoError(t, p.DeleteTrip(context.Background(), "t-1"))

	_, err = p.Trip(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), getCalls.Load(), "the cached trip must be dropped on delete")
}

// ---- Activities ------------------------------------------------------------

func TestPlanner_Activities_EmptyDayPlanIsNotReady(t *testing.T) {
	p := newPlanner(&mockAPI{})

	_, err := p.Activities(context.Background(), "")

	assert.ErrorIs(t, err, querycache.ErrNotReady)
}

func TestPlanner_CreateActivity_ListReflectsNewItem(t *testing.T) {
	stored := []domain.Activity{}
	api := &mockAPI{
		listActivities: func(_ context.Context, dayPlanID string) ([]domain.Activity, error) {
			return append([]domain.Activity(nil), stored...), nil
		},
		createActivity: func(_ context.Context, _ string, req domain.ActivityCreateRequest) (domain.Activity, error) {
			a := domain.Activity{ID: "a-1", Title: req.Title, Tags: []domain.Tag{}}
			stored = append(stored, a)
			return a, nil
		},
	}
	p := newPlanner(api)

	before, err := p.Activities(context.Background(), "dp-1")
	require.NoError(t, err)
	require.Empty(t, before)

	_, err = p.CreateActivity(context.Background(), "t-1", "dp-1", domain.ActivityCreateRequest{Title: "Dinner"})
	require.NoError(t, err)

	after, err := p.Activities(context.Background(), "dp-1")
	require.NoError(t, err)
	assert.Len(t, after, 1, "reading after create must reflect the new item without a full cache clear")
}

func TestPlanner_CreateActivity_InvalidatesCostBreakdown(t *testing.T) {
	var costCalls atomic.Int64
	api := &mockAPI{
		getTrip: func(_ context.Context, _ string) (domain.Trip, error) { return tripFixture(), nil },
		getCostBreakdown: func(_ context.Context, _ string) (domain.CostBreakdown, error) {
			costCalls.Add(1)
			return domain.CostBreakdown{}, nil
		},
		listActivities: func(_ context.Context, _ string) ([]domain.Activity, error) {
			return []domain.Activity{}, nil
		},
		createActivity: func(_ context.Context, _ string, req domain.ActivityCreateRequest) (domain.Activity, error) {
			return domain.Activity{ID: "a-1", Title: req.Title}, nil
		},
	}
	p := newPlanner(api)

	_, err := p.CostSummary(context.Background(), "t-1")
	require.NoError(t, err)
	require.Equal(t, int64(1), costCalls.Load())

	_, err = p.CreateActivity(context.Background(), "t-1", "dp-1", domain.ActivityCreateRequest{Title: "Dinner"})
	require.NoError(t, err)

	_, err = p.CostSummary(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), costCalls.Load(), "costs derive from activities, so they refetch after a mutation")
}

// ---- Costs -----------------------------------------------------------------

// TestPlanner_CostSummary_WarningBand covers the worked example: 160.50 spent
// of a 200 budget is 80.25%, inside the warning band (>80, ≤100).
func TestPlanner_CostSummary_WarningBand(t *testing.T) {
	api := &mockAPI{
		getTrip: func(_ context.Context, _ string) (domain.Trip, error) { return tripFixture(), nil },
		getCostBreakdown: func(_ context.Context, _ string) (domain.CostBreakdown, error) {
			return domain.CostBreakdown{
				TotalCost: 160.50,
				CostByCategory: map[domain.ActivityCategory]float64{
					domain.CategoryDining:      120.50,
					domain.CategorySightseeing: 40.00,
				},
				TotalActivities:    2,
				ActivitiesWithCost: 2,
			}, nil
		},
	}
	p := newPlanner(api)

	summary, err := p.CostSummary(context.Background(), "t-1")

	require.NoError(t, err)
	assert.True(t, summary.HasBudget)
	assert.InDelta(t, 80.25, summary.UsedPercent, 0.0001)
	assert.InDelta(t, 39.50, summary.Remaining, 0.0001)
	assert.Equal(t, planner.BudgetWarning, summary.Status)
}

func TestPlanner_CostSummary_NoBudget(t *testing.T) {
	api := &mockAPI{
		getTrip: func(_ context.Context, _ string) (domain.Trip, error) {
			trip := tripFixture()
			trip.Budget = nil
			return trip, nil
		},
		getCostBreakdown: func(_ context.Context, _ string) (domain.CostBreakdown, error) {
			return domain.CostBreakdown{TotalCost: 500}, nil
		},
	}
	p := newPlanner(api)

	summary, err := p.CostSummary(context.Background(), "t-1")

	require.NoError(t, err)
	assert.False(t, summary.HasBudget)
	assert.Zero(t, summary.UsedPercent)
	assert.Equal(t, planner.BudgetOK, summary.Status)
}

func TestClassifyBudget_Bands(t *testing.T) {
	assert.Equal(t, planner.BudgetOK, planner.ClassifyBudget(0))
	assert.Equal(t, planner.BudgetOK, planner.ClassifyBudget(80))
	assert.Equal(t, planner.BudgetWarning, planner.ClassifyBudget(80.01))
	assert.Equal(t, planner.BudgetWarning, planner.ClassifyBudget(100))
	assert.Equal(t, planner.BudgetOver, planner.ClassifyBudget(100.01))
}
