package domain

// CostBreakdown is the server-computed cost aggregate for one trip.
// It is read-only on the client: never mutated locally, always refetched.
// CostByDay is keyed by ISO date ("2006-01-02").
type CostBreakdown struct {
	TotalCost          float64                      `json:"totalCost"`
	CostByCategory     map[ActivityCategory]float64 `json:"costByCategory"`
	CostByDay          map[string]float64           `json:"costByDay"`
	TotalActivities    int                          `json:"totalActivities"`
	ActivitiesWithCost int                          `json:"activitiesWithCost"`
}
