package planner

import (
	"context"
	"fmt"

	"github.com/pkordes/tripkit/internal/domain"
	"github.com/pkordes/tripkit/internal/querycache"
)

// BudgetStatus classifies how much of a trip's budget the planned costs use.
type BudgetStatus string

const (
	// BudgetOK: at most 80% of the budget is committed.
	BudgetOK BudgetStatus = "ok"
	// BudgetWarning: more than 80% but still within budget.
	BudgetWarning BudgetStatus = "warning"
	// BudgetOver: the budget is exceeded.
	BudgetOver BudgetStatus = "over"
)

// ClassifyBudget maps a budget-used percentage to its status band.
// Thresholds are exclusive: exactly 80% is still ok, exactly 100% is still
// warning.
func ClassifyBudget(usedPercent float64) BudgetStatus {
	switch {
	case usedPercent > 100:
		return BudgetOver
	case usedPercent > 80:
		return BudgetWarning
	default:
		return BudgetOK
	}
}

// CostSummary is the assembled cost view for one trip: the server-computed
// breakdown plus the budget math the costs screen renders.
type CostSummary struct {
	Trip      domain.Trip
	Breakdown domain.CostBreakdown

	// HasBudget is false when the trip has no budget; the percentage and
	// remaining amount are zero and the status is ok in that case.
	HasBudget   bool
	UsedPercent float64
	Remaining   float64
	Status      BudgetStatus
}

// CostSummary fetches the trip and its cost breakdown (both cached) and
// derives the budget figures. An empty tripID is "not yet ready".
func (p *Planner) CostSummary(ctx context.Context, tripID string) (CostSummary, error) {
	if tripID == "" {
		return CostSummary{}, querycache.ErrNotReady
	}
	trip, err := p.Trip(ctx, tripID)
	if err != nil {
		return CostSummary{}, fmt.Errorf("planner.Planner.CostSummary: %w", err)
	}
	breakdown, err := querycache.GetAs(ctx, p.cache, querycache.KeyCostBreakdown(tripID), func(ctx context.Context) (domain.CostBreakdown, error) {
		return p.api.GetCostBreakdown(ctx, tripID)
	})
	if err != nil {
		return CostSummary{}, fmt.Errorf("planner.Planner.CostSummary: %w", err)
	}

	summary := CostSummary{Trip: trip, Breakdown: breakdown, Status: BudgetOK}
	if trip.Budget != nil && *trip.Budget > 0 {
		summary.HasBudget = true
		summary.UsedPercent = breakdown.TotalCost / *trip.Budget * 100
		summary.Remaining = *trip.Budget - breakdown.TotalCost
		summary.Status = ClassifyBudget(summary.UsedPercent)
	}
	return summary, nil
}
