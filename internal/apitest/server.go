// Package apitest provides an in-process fake of the remote trip planner API
// for integration-style tests. It implements the same HTTP/JSON surface the
// real server exposes — bearer auth, the trips/activities/analytics resources,
// Spring-style page envelopes — backed by in-memory maps, and counts requests
// per route so tests can assert on coalescing and invalidation behavior.
//
// It deliberately implements nothing beyond what the client assumes.
package apitest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripkit/internal/domain"
)

// Server is the fake API. Create one per test with New and defer Close.
type Server struct {
	URL string

	hs  *httptest.Server
	log *slog.Logger

	mu          sync.Mutex
	users       map[string]credential       // email → password + identity
	tokens      map[string]string           // bearer token → user email
	trips       map[string]domain.Trip      // trip ID → trip
	tripOrder   []string                    // creation order for stable listing
	activities  map[string][]domain.Activity // day plan ID → activities
	activityDay map[string]string           // activity ID → day plan ID
	dayPlanTrip map[string]string           // day plan ID → trip ID
	requests    map[string]int              // "METHOD path" → count
}

type credential struct {
	password string
	user     domain.User
}

// New starts the fake server. log may be nil.
func New(log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		log:         log,
		users:       make(map[string]credential),
		tokens:      make(map[string]string),
		trips:       make(map[string]domain.Trip),
		activities:  make(map[string][]domain.Activity),
		activityDay: make(map[string]string),
		dayPlanTrip: make(map[string]string),
		requests:    make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(s.countRequests)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signin", s.handleSignIn)
		r.Post("/signup", s.handleSignUp)
	})
	r.Group(func(r chi.Router) {
		r.Use(s.requireBearer)
		r.Get("/trips", s.handleListTrips)
		r.Post("/trips", s.handleCreateTrip)
		r.Get("/trips/{tripID}", s.handleGetTrip)
		r.Put("/trips/{tripID}", s.handleUpdateTrip)
		r.Delete("/trips/{tripID}", s.handleDeleteTrip)
		r.Get("/dayplans/{dayPlanID}/activities", s.handleListActivities)
		r.Post("/dayplans/{dayPlanID}/activities", s.handleCreateActivity)
		r.Put("/activities/{activityID}", s.handleUpdateActivity)
		r.Delete("/activities/{activityID}", s.handleDeleteActivity)
		r.Patch("/activities/{activityID}/toggle-completion", s.handleToggleActivity)
		r.Get("/analytics/trips/{tripID}/cost-breakdown", s.handleCostBreakdown)
	})

	s.hs = httptest.NewServer(r)
	s.URL = s.hs.URL
	return s
}

// Close shuts the fake server down.
func (s *Server) Close() { s.hs.Close() }

// Client returns an HTTP client wired to the fake server.
func (s *Server) Client() *http.Client { return s.hs.Client() }

// ---- seeding & assertions --------------------------------------------------

// SeedUser registers an account that can sign in.
func (s *Server) SeedUser(email, password string, user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = credential{password: password, user: user}
}

// SeedToken installs a pre-authorized bearer token, so a test can skip the
// sign-in round-trip.
func (s *Server) SeedToken(token, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = email
}

// RevokeTokens invalidates every issued token; subsequent authenticated
// requests fail with 401. Used to simulate server-side session expiry.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// SeedTrip installs a trip directly.
func (s *Server) SeedTrip(trip domain.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[trip.ID] = trip
	s.tripOrder = append(s.tripOrder, trip.ID)
}

// SeedDayPlan links a day plan to a trip so the cost breakdown can aggregate
// its activities.
func (s *Server) SeedDayPlan(dayPlanID, tripID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dayPlanTrip[dayPlanID] = tripID
	if _, ok := s.activities[dayPlanID]; !ok {
		s.activities[dayPlanID] = []domain.Activity{}
	}
}

// RequestCount returns how many requests hit "METHOD path" so far, e.g.
// ("GET", "/trips/abc").
func (s *Server) RequestCount(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+path]
}

// ---- middleware ------------------------------------------------------------

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		s.log.Debug("fake api request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if ok {
			s.mu.Lock()
			_, ok = s.tokens[token]
			s.mu.Unlock()
		}
		if !ok {
			writeJSON(w, http.StatusUnauthorized, domain.MessageResponse{Message: "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---- auth ------------------------------------------------------------------

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.MessageResponse{Message: "Malformed request body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.users[req.Email]
	if !ok || cred.password != req.Password {
		writeJSON(w, http.StatusBadRequest, domain.MessageResponse{Message: "Invalid email or password"})
		return
	}
	token := "fake-" + uuid.NewString()
	s.tokens[token] = req.Email
	writeJSON(w, http.StatusOK, domain.AuthResponse{
		Token:     token,
		Type:      "Bearer",
		ID:        cred.user.ID,
		Email:     cred.user.Email,
		FirstName: cred.user.FirstName,
		LastName:  cred.user.LastName,
		Role:      cred.user.Role,
	})
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.MessageResponse{Message: "Malformed request body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		writeJSON(w, http.StatusBadRequest, domain.MessageResponse{Message: "Email is already in use"})
		return
	}
	s.users[req.Email] = credential{
		password: req.Password,
		user: domain.User{
			ID:        uuid.NewString(),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Role:      domain.RoleUser,
		},
	}
	writeJSON(w, http.StatusOK, domain.MessageResponse{Message: "User registered successfully!"})
}

// ---- trips -----------------------------------------------------------------

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		size = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	content := []domain.Trip{}
	start := page * size
	for i := start; i < len(s.tripOrder) && i < start+size; i++ {
		content = append(content, s.trips[s.tripOrder[i]])
	}
	writeJSON(w, http.StatusOK, domain.TripPage{
		Content:       content,
		TotalElements: int64(len(s.tripOrder)),
	})
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip, ok := s.trips[chi.URLParam(r, "tripID")]
	if !ok {
		writeJSON(w, http.StatusNotFound, domain.MessageResponse{Message: "Trip not found"})
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req domain.TripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.MessageResponse{Message: "Malformed request body"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, domain.MessageResponse{Message: "Title is required"})
		return
	}
	if req.StartDate.Time.After(req.EndDate.Time) {
		writeJSON(w, http.StatusBadRequest, domain.MessageResponse{Message: "Start date must be before end date"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	trip := tripFromRequest(uuid.NewString(), req)
	s.trips[trip.ID] = trip
	s.tripOrder = append(s.tripOrder, trip.ID)
	writeJSON(w, http.StatusOK, trip)
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	var req domain.TripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.MessageResponse{Message: "Malformed request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "tripID")
	existing, ok := s.trips[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, domain.MessageResponse{Message: "Trip not found"})
		return
	}
	updated := tripFromRequest(id, req)
	updated.Owner = existing.Owner
	updated.CreatedAt = existing.CreatedAt
	s.trips[id] = updated
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "tripID")
	if _, ok := s.trips[id]; !ok {
		writeJSON(w, http.StatusNotFound, domain.MessageResponse{Message: "Trip not found"})
		return
	}
	delete(s.trips, id)
	for i, tid := range s.tripOrder {
		if tid == id {
			s.tripOrder = append(s.tripOrder[:i], s.tripOrder[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func tripFromRequest(id string, req domain.TripCreateRequest) domain.Trip {
	tags := []domain.Tag{}
	for _, name := range req.TagNames {
		tags = append(tags, domain.Tag{ID: uuid.NewString(), Name: name})
	}
	return domain.Trip{
		ID:            id,
		Title:         req.Title,
		Description:   req.Description,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Destination:   req.Destination,
		Budget:        req.Budget,
		IsPublic:      req.IsPublic,
		CoverImageURL: req.CoverImageURL,
		Tags:          tags,
		MemberCount:   1,
	}
}

// ---- activities ------------------------------------------------------------

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.activities[chi.URLParam(r, "dayPlanID")]
	if list == nil {
		list = []domain.Activity{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var req domain.ActivityCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.MessageResponse{Message: "Malformed request body"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, domain.MessageResponse{Message: "Title is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	dayPlanID := chi.URLParam(r, "dayPlanID")
	activity := activityFromRequest(uuid.NewString(), req)
	s.activities[dayPlanID] = append(s.activities[dayPlanID], activity)
	s.activityDay[activity.ID] = dayPlanID
	writeJSON(w, http.StatusOK, activity)
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	var req domain.ActivityCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.MessageResponse{Message: "Malformed request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "activityID")
	dayPlanID, ok := s.activityDay[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, domain.MessageResponse{Message: "Activity not found"})
		return
	}
	updated := activityFromRequest(id, req)
	for i, a := range s.activities[dayPlanID] {
		if a.ID == id {
			updated.IsCompleted = a.IsCompleted
			s.activities[dayPlanID][i] = updated
			break
		}
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "activityID")
	dayPlanID, ok := s.activityDay[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, domain.MessageResponse{Message: "Activity not found"})
		return
	}
	delete(s.activityDay, id)
	list := s.activities[dayPlanID]
	for i, a := range list {
		if a.ID == id {
			s.activities[dayPlanID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleActivity(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "activityID")
	dayPlanID, ok := s.activityDay[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, domain.MessageResponse{Message: "Activity not found"})
		return
	}
	for i, a := range s.activities[dayPlanID] {
		if a.ID == id {
			a.IsCompleted = !a.IsCompleted
			s.activities[dayPlanID][i] = a
			writeJSON(w, http.StatusOK, a)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, domain.MessageResponse{Message: "Activity not found"})
}

func activityFromRequest(id string, req domain.ActivityCreateRequest) domain.Activity {
	tags := []domain.Tag{}
	for _, name := range req.TagNames {
		tags = append(tags, domain.Tag{ID: uuid.NewString(), Name: name})
	}
	return domain.Activity{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Cost:        req.Cost,
		Category:    req.Category,
		BookingURL:  req.BookingURL,
		Notes:       req.Notes,
		Tags:        tags,
	}
}

// ---- analytics -------------------------------------------------------------

// handleCostBreakdown aggregates costs over every activity whose day plan is
// linked to the trip, the same way the real analytics endpoint does.
func (s *Server) handleCostBreakdown(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tripID := chi.URLParam(r, "tripID")
	if _, ok := s.trips[tripID]; !ok {
		writeJSON(w, http.StatusNotFound, domain.MessageResponse{Message: "Trip not found"})
		return
	}

	breakdown := domain.CostBreakdown{
		CostByCategory: map[domain.ActivityCategory]float64{},
		CostByDay:      map[string]float64{},
	}
	for dayPlanID, linkedTrip := range s.dayPlanTrip {
		if linkedTrip != tripID {
			continue
		}
		for _, a := range s.activities[dayPlanID] {
			breakdown.TotalActivities++
			if a.Cost == nil {
				continue
			}
			breakdown.ActivitiesWithCost++
			breakdown.TotalCost += *a.Cost
			if a.Category != "" {
				breakdown.CostByCategory[a.Category] += *a.Cost
			}
			breakdown.CostByDay[dayPlanID] += *a.Cost
		}
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// ---- shared ----------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding these fixture types cannot fail, and the status is already out.
	_ = json.NewEncoder(w).Encode(v)
}
