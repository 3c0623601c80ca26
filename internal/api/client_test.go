package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripkit/internal/api"
	"github.com/pkordes/tripkit/internal/domain"
)

// staticTokens is a TokenSource returning a fixed token (or none).
type staticTokens struct {
	token string
}

func (s *staticTokens) Token() (string, bool) { return s.token, s.token != "" }

var _ api.TokenSource = (*staticTokens)(nil)

// countingUnauthorized records how many times the client reported a 401.
type countingUnauthorized struct {
	calls atomic.Int64
}

func (c *countingUnauthorized) Unauthorized() { c.calls.Add(1) }

var _ api.UnauthorizedHandler = (*countingUnauthorized)(nil)

// newClient wires a Client against a stub handler and returns it with the
// unauthorized recorder.
func newClient(t *testing.T, h http.HandlerFunc, token string) (*api.Client, *countingUnauthorized) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	rec := &countingUnauthorized{}
	return api.NewClient(srv.URL, srv.Client(), &staticTokens{token: token}, rec, nil), rec
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// ---- headers ---------------------------------------------------------------

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		writeJSON(t, w, http.StatusOK, domain.TripPage{Content: []domain.Trip{}})
	}, "tok-99")

	_, err := c.ListTrips(context.Background(), 0, 10)

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-99", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_NoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(t, w, http.StatusOK, domain.MessageResponse{Message: "ok"})
	}, "")

	_, err := c.SignUp(context.Background(), domain.SignupRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "pw",
	})

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

// ---- status mapping --------------------------------------------------------

func TestClient_Unauthorized_ReportsAndRejects(t *testing.T) {
	c, rec := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "tok-expired")

	_, err := c.GetTrip(context.Background(), "t-1")

	// The caller's error handling still runs: the call is rejected with the
	// typed sentinel, and the handler was notified exactly once.
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, int64(1), rec.calls.Load())
}

func TestClient_NotFound_MapsToSentinel(t *testing.T) {
	c, rec := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "Trip not found"})
	}, "tok")

	_, err := c.GetTrip(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, rec.calls.Load())
}

func TestClient_ValidationFailure_SurfacesServerMessage(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"message": "Start date must be before end date"})
	}, "tok")

	_, err := c.CreateTrip(context.Background(), domain.TripCreateRequest{Title: "X"})

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Start date must be before end date", apiErr.Message)
}

func TestClient_ErrorEnvelopeFallback(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	}, "tok")

	_, err := c.ListTrips(context.Background(), 0, 10)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestClient_DecodeMismatch_IsAnError(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("<html>not json</html>"))
	}, "tok")

	_, err := c.GetTrip(context.Background(), "t-1")

	require.Error(t, err, "a contract mismatch must not be silently swallowed")
}

func TestClient_NetworkFailure_Surfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := api.NewClient(srv.URL, srv.Client(), nil, nil, nil)
	srv.Close() // connection refused from here on

	_, err := client.ListTrips(context.Background(), 0, 10)

	require.Error(t, err)
}

// ---- resource methods ------------------------------------------------------

func TestClient_ListActivities_EmptyDayIsEmptySlice(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dayplans/dp-1/activities", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []domain.Activity{})
	}, "tok")

	activities, err := c.ListActivities(context.Background(), "dp-1")

	require.NoError(t, err)
	require.NotNil(t, activities)
	assert.Empty(t, activities)
}

func TestClient_DeleteTrip_AcceptsEmptyBody(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}, "tok")

	require.NoError(t, c.DeleteTrip(context.Background(), "t-1"))
}

func TestClient_ToggleActivityCompletion_Path(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/activities/a-1/toggle-completion", r.URL.Path)
		writeJSON(t, w, http.StatusOK, domain.Activity{ID: "a-1", Title: "Dinner", IsCompleted: true})
	}, "tok")

	activity, err := c.ToggleActivityCompletion(context.Background(), "a-1")

	require.NoError(t, err)
	assert.True(t, activity.IsCompleted)
}

func TestClient_ListTrips_PageParams(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("size"))
		writeJSON(t, w, http.StatusOK, domain.TripPage{TotalElements: 51})
	}, "tok")

	page, err := c.ListTrips(context.Background(), 2, 25)

	require.NoError(t, err)
	assert.Equal(t, int64(51), page.TotalElements)
}
