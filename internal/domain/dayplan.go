package domain

import "github.com/oapi-codegen/runtime/types"

// DayPlan groups the activities scheduled for one calendar date of a trip.
// The client never creates day plans directly; it lists and creates
// activities under an existing day plan's ID.
type DayPlan struct {
	ID         string     `json:"id"`
	Date       types.Date `json:"date"`
	Notes      string     `json:"notes,omitempty"`
	Activities []Activity `json:"activities"`
}
