package querycache

import "fmt"

// Cache keys. One logical resource/query maps to exactly one key so that
// coalescing and invalidation agree on identity. TripsPrefix exists because
// the trip list is cached per page: list mutations invalidate every page.
const TripsPrefix = "trips"

// KeyTrips identifies one page of the trip list.
func KeyTrips(page, size int) string {
	return fmt.Sprintf("%s?page=%d&size=%d", TripsPrefix, page, size)
}

// KeyTrip identifies a single trip.
func KeyTrip(id string) string {
	return "trip:" + id
}

// KeyActivities identifies the activity list of one day plan.
func KeyActivities(dayPlanID string) string {
	return "activities:" + dayPlanID
}

// KeyCostBreakdown identifies a trip's cost aggregate.
func KeyCostBreakdown(tripID string) string {
	return "cost-breakdown:" + tripID
}
