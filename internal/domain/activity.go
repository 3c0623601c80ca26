package domain

import (
	"fmt"
	"strings"
	"time"
)

// ActivityCategory is the closed set of categories an activity may carry.
// The server rejects anything outside this enumeration, so the client
// validates before submission.
type ActivityCategory string

const (
	CategoryTransportation ActivityCategory = "TRANSPORTATION"
	CategoryAccommodation  ActivityCategory = "ACCOMMODATION"
	CategoryDining         ActivityCategory = "DINING"
	CategorySightseeing    ActivityCategory = "SIGHTSEEING"
	CategoryEntertainment  ActivityCategory = "ENTERTAINMENT"
	CategoryShopping       ActivityCategory = "SHOPPING"
	CategoryOutdoor        ActivityCategory = "OUTDOOR"
	CategoryCultural       ActivityCategory = "CULTURAL"
	CategoryRelaxation     ActivityCategory = "RELAXATION"
	CategoryBusiness       ActivityCategory = "BUSINESS"
	CategoryOther          ActivityCategory = "OTHER"
)

// Categories returns all activity categories in display order.
func Categories() []ActivityCategory {
	return []ActivityCategory{
		CategoryTransportation,
		CategoryAccommodation,
		CategoryDining,
		CategorySightseeing,
		CategoryEntertainment,
		CategoryShopping,
		CategoryOutdoor,
		CategoryCultural,
		CategoryRelaxation,
		CategoryBusiness,
		CategoryOther,
	}
}

// Valid reports whether c is a member of the closed enumeration.
func (c ActivityCategory) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Activity is one scheduled item within a day plan. Times are optional
// time-of-day strings ("15:04" or "15:04:05"); an activity belongs to
// exactly one day plan, referenced externally by its ID.
type Activity struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	StartTime   string           `json:"startTime,omitempty"`
	EndTime     string           `json:"endTime,omitempty"`
	Location    string           `json:"location,omitempty"`
	Cost        *float64         `json:"cost,omitempty"`
	Category    ActivityCategory `json:"category,omitempty"`
	BookingURL  string           `json:"bookingUrl,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	IsCompleted bool             `json:"isCompleted"`
	Tags        []Tag            `json:"tags"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ActivityCreateRequest is the body for creating or updating an activity.
// Validate must pass before the request is handed to the transport client.
type ActivityCreateRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	StartTime   string           `json:"startTime,omitempty"`
	EndTime     string           `json:"endTime,omitempty"`
	Location    string           `json:"location,omitempty"`
	Cost        *float64         `json:"cost,omitempty"`
	Category    ActivityCategory `json:"category,omitempty"`
	BookingURL  string           `json:"bookingUrl,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	TagNames    []string         `json:"tagNames,omitempty"`
}

// Validate enforces the client-side business rules for activity submission.
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - Cost, if set, must not be negative.
//   - Category, if set, must be a member of the closed enumeration.
//   - StartTime/EndTime, if set, must parse as times of day, and EndTime
//     must not be before StartTime when both are present.
func (r ActivityCreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if r.Cost != nil && *r.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", ErrValidation)
	}
	if r.Category != "" && !r.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, r.Category)
	}
	start, err := parseTimeOfDay(r.StartTime)
	if err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrValidation, err)
	}
	end, err := parseTimeOfDay(r.EndTime)
	if err != nil {
		return fmt.Errorf("%w: endTime: %v", ErrValidation, err)
	}
	if r.StartTime != "" && r.EndTime != "" && end.Before(start) {
		return fmt.Errorf("%w: endTime must not be before startTime", ErrValidation)
	}
	return nil
}

// parseTimeOfDay parses "15:04" or "15:04:05". An empty string is valid
// (the field is optional) and parses to the zero time.
func parseTimeOfDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time of day %q", s)
}
