// Package domain contains the data contracts exchanged with the trip planner
// API. These types are the only vocabulary other packages may use to describe
// server data — nothing ad-hoc crosses the transport boundary.
//
// Field names and JSON tags mirror the remote API exactly (camelCase).
// Entities are immutable snapshots from the client's perspective: mutation is
// always a round-trip to the server followed by cache invalidation.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime/types"
)

// Trip is the top-level aggregate: a planned journey with an inclusive
// date-only range. The server owns it; the client holds a read replica.
type Trip struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	StartDate     types.Date `json:"startDate"`
	EndDate       types.Date `json:"endDate"`
	Destination   string     `json:"destination,omitempty"`
	Budget        *float64   `json:"budget,omitempty"`
	IsPublic      bool       `json:"isPublic"`
	CoverImageURL string     `json:"coverImageUrl,omitempty"`
	Owner         User       `json:"owner"`
	Tags          []Tag      `json:"tags"`
	MemberCount   int        `json:"memberCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Days returns every calendar date of the trip, start through end inclusive.
// A one-day trip (start == end) yields a single entry.
func (t Trip) Days() []types.Date {
	var days []types.Date
	for d := t.StartDate.Time; !d.After(t.EndDate.Time); d = d.AddDate(0, 0, 1) {
		days = append(days, types.Date{Time: d})
	}
	return days
}

// TripPage is the paginated list envelope the server returns for GET /trips.
type TripPage struct {
	Content       []Trip `json:"content"`
	TotalElements int64  `json:"totalElements"`
}

// TripCreateRequest is the body for creating or updating a trip.
// Validate must pass before the request is handed to the transport client.
type TripCreateRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	StartDate     types.Date `json:"startDate"`
	EndDate       types.Date `json:"endDate"`
	Destination   string     `json:"destination,omitempty"`
	Budget        *float64   `json:"budget,omitempty"`
	IsPublic      bool       `json:"isPublic"`
	CoverImageURL string     `json:"coverImageUrl,omitempty"`
	TagNames      []string   `json:"tagNames,omitempty"`
}

// Validate enforces the client-side business rules for trip submission.
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - StartDate and EndDate are required and StartDate must not be after
//     EndDate (a one-day trip is valid).
//   - Budget, if set, must not be negative.
func (r TripCreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrValidation)
	}
	if r.StartDate.Time.After(r.EndDate.Time) {
		return fmt.Errorf("%w: endDate must not be before startDate", ErrValidation)
	}
	if r.Budget != nil && *r.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrValidation)
	}
	return nil
}
