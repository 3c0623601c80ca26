package planner

import (
	"context"
	"fmt"

	"github.com/pkordes/tripkit/internal/domain"
	"github.com/pkordes/tripkit/internal/querycache"
)

// Activities returns the cached activity list of one day plan. An empty
// dayPlanID is "not yet ready" — the required parameter is absent, so no
// fetch is issued and no error is raised beyond the sentinel.
func (p *Planner) Activities(ctx context.Context, dayPlanID string) ([]domain.Activity, error) {
	if dayPlanID == "" {
		return nil, querycache.ErrNotReady
	}
	return querycache.GetAs(ctx, p.cache, querycache.KeyActivities(dayPlanID), func(ctx context.Context) ([]domain.Activity, error) {
		return p.api.ListActivities(ctx, dayPlanID)
	})
}

// CreateActivity validates and submits a new activity under dayPlanID, then
// invalidates that day's list and the owning trip's cost breakdown (costs are
// derived from activities). tripID may be empty when unknown.
func (p *Planner) CreateActivity(ctx context.Context, tripID, dayPlanID string, req domain.ActivityCreateRequest) (domain.Activity, error) {
	if dayPlanID == "" {
		return domain.Activity{}, querycache.ErrNotReady
	}
	if err := req.Validate(); err != nil {
		return domain.Activity{}, err
	}
	activity, err := p.api.CreateActivity(ctx, dayPlanID, req)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("planner.Planner.CreateActivity: %w", err)
	}
	p.invalidateActivities(tripID, dayPlanID)
	return activity, nil
}

// UpdateActivity validates and submits changes to an existing activity.
func (p *Planner) UpdateActivity(ctx context.Context, tripID, dayPlanID, activityID string, req domain.ActivityCreateRequest) (domain.Activity, error) {
	if err := req.Validate(); err != nil {
		return domain.Activity{}, err
	}
	activity, err := p.api.UpdateActivity(ctx, activityID, req)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("planner.Planner.UpdateActivity: %w", err)
	}
	p.invalidateActivities(tripID, dayPlanID)
	return activity, nil
}

// DeleteActivity removes an activity from its day plan.
func (p *Planner) DeleteActivity(ctx context.Context, tripID, dayPlanID, activityID string) error {
	if err := p.api.DeleteActivity(ctx, activityID); err != nil {
		return fmt.Errorf("planner.Planner.DeleteActivity: %w", err)
	}
	p.invalidateActivities(tripID, dayPlanID)
	return nil
}

// ToggleCompletion flips an activity's done flag.
func (p *Planner) ToggleCompletion(ctx context.Context, tripID, dayPlanID, activityID string) (domain.Activity, error) {
	activity, err := p.api.ToggleActivityCompletion(ctx, activityID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("planner.Planner.ToggleCompletion: %w", err)
	}
	p.invalidateActivities(tripID, dayPlanID)
	return activity, nil
}

// invalidateActivities declares the keys affected by any activity mutation.
func (p *Planner) invalidateActivities(tripID, dayPlanID string) {
	keys := []string{querycache.KeyActivities(dayPlanID)}
	if tripID != "" {
		keys = append(keys, querycache.KeyCostBreakdown(tripID))
	}
	p.cache.Invalidate(keys...)
}
