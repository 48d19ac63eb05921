package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/farewatch/internal/domain"
	"github.com/pkordes/farewatch/internal/handler"
	"github.com/pkordes/farewatch/internal/service"
)

// mockRouteServicer is a test double for handler.RouteServicer.
// Set only the method fields your test needs.
type mockRouteServicer struct {
	list             func(ctx context.Context) ([]domain.Route, error)
	get              func(ctx context.Context, id uuid.UUID) (domain.Route, error)
	create           func(ctx context.Context, in service.NewRouteInput) (domain.Route, error)
	update           func(ctx context.Context, id uuid.UUID, in service.NewRouteInput) (domain.Route, error)
	delete           func(ctx context.Context, id uuid.UUID) error
	setNotifications func(ctx context.Context, id uuid.UUID, enabled bool) (domain.Route, error)
	manualUpdate     func(ctx context.Context, id uuid.UUID) (domain.Route, error)
	history          func(ctx context.Context, id uuid.UUID) ([]domain.HistoryEntry, error)
}

func (m *mockRouteServicer) List(ctx context.Context) ([]domain.Route, error) {
	return m.list(ctx)
}
func (m *mockRouteServicer) Get(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	return m.get(ctx, id)
}
func (m *mockRouteServicer) Create(ctx context.Context, in service.NewRouteInput) (domain.Route, error) {
	return m.create(ctx, in)
}
func (m *mockRouteServicer) Update(ctx context.Context, id uuid.UUID, in service.NewRouteInput) (domain.Route, error) {
	return m.update(ctx, id, in)
}
func (m *mockRouteServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockRouteServicer) SetNotifications(ctx context.Context, id uuid.UUID, enabled bool) (domain.Route, error) {
	return m.setNotifications(ctx, id, enabled)
}
func (m *mockRouteServicer) ManualUpdate(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	return m.manualUpdate(ctx, id)
}
func (m *mockRouteServicer) History(ctx context.Context, id uuid.UUID) ([]domain.HistoryEntry, error) {
	return m.history(ctx, id)
}

// compile-time check: mockRouteServicer must satisfy handler.RouteServicer.
var _ handler.RouteServicer = (*mockRouteServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mock into the chi router.
// This mirrors exactly how main.go wires it in production.
func newHTTPHandler(svc handler.RouteServicer) http.Handler {
	return handler.NewServer(svc, nil, nil).Routes()
}

func routeFixture() domain.Route {
	now := time.Now().UTC()
	return domain.Route{
		ID:             uuid.New(),
		Origin:         "HEL",
		Destination:    "BKK",
		DepartureDate:  time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		StayMinDays:    14,
		StayMaxDays:    21,
		PriorityStay:   true,
		TargetPrice:    decimal.NewFromInt(550),
		TrackingPerDay: 4,
		History:        []domain.HistoryEntry{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func routeRequestBody() map[string]any {
	return map[string]any{
		"origin":                     "HEL",
		"destination":                "BKK",
		"departure_date":             "2026-11-20",
		"stay_min_days":              14,
		"stay_max_days":              21,
		"target_price":               "550",
		"tracking_frequency_per_day": 4,
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// ---- POST /api/routes ------------------------------------------------------

func TestCreateRoute_201(t *testing.T) {
	fixture := routeFixture()
	svc := &mockRouteServicer{
		create: func(_ context.Context, in service.NewRouteInput) (domain.Route, error) {
			assert.Equal(t, "HEL", in.Origin)
			assert.Equal(t, time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC), in.DepartureDate)
			return fixture, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/routes", jsonBody(t, routeRequestBody()))
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got domain.Route
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, fixture.ID, got.ID)
}

func TestCreateRoute_422(t *testing.T) {
	svc := &mockRouteServicer{
		create: func(_ context.Context, _ service.NewRouteInput) (domain.Route, error) {
			return domain.Route{}, fmt.Errorf("service.RouteService.Create: %w: origin must be a 3-letter IATA code", domain.ErrValidation)
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/routes", jsonBody(t, routeRequestBody()))
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, "origin must be a 3-letter IATA code", body.Error.Message)
}

func TestCreateRoute_400_badJSON(t *testing.T) {
	svc := &mockRouteServicer{}
	req := httptest.NewRequest(http.MethodPost, "/api/routes", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRoute_400_badDate(t *testing.T) {
	svc := &mockRouteServicer{}
	body := routeRequestBody()
	body["departure_date"] = "20/11/2026"

	req := httptest.NewRequest(http.MethodPost, "/api/routes", jsonBody(t, body))
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- GET /api/routes -------------------------------------------------------

func TestListRoutes_200(t *testing.T) {
	fixture := routeFixture()
	svc := &mockRouteServicer{
		list: func(_ context.Context) ([]domain.Route, error) {
			return []domain.Route{fixture}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/routes", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Route
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, fixture.ID, got[0].ID)
}

// ---- GET /api/routes/{id} --------------------------------------------------

func TestGetRoute_404(t *testing.T) {
	svc := &mockRouteServicer{
		get: func(_ context.Context, _ uuid.UUID) (domain.Route, error) {
			return domain.Route{}, fmt.Errorf("service.RouteService.Get: %w", domain.ErrNotFound)
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/routes/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRoute_400_badID(t *testing.T) {
	svc := &mockRouteServicer{}
	req := httptest.NewRequest(http.MethodGet, "/api/routes/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- DELETE /api/routes/{id} -----------------------------------------------

func TestDeleteRoute_204(t *testing.T) {
	fixture := routeFixture()
	var deleted uuid.UUID
	svc := &mockRouteServicer{
		delete: func(_ context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/routes/"+fixture.ID.String(), nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, fixture.ID, deleted)
}

// ---- POST /api/routes/{id}/update ------------------------------------------

func TestUpdateRoutePrice_200(t *testing.T) {
	fixture := routeFixture()
	fixture.AppendObservation(time.Now().UTC(), decimal.NewFromInt(480))
	svc := &mockRouteServicer{
		manualUpdate: func(_ context.Context, id uuid.UUID) (domain.Route, error) {
			assert.Equal(t, fixture.ID, id)
			return fixture, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/routes/"+fixture.ID.String()+"/update", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Route
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.History, 1)
}

// ---- PUT /api/routes/{id}/notifications --------------------------------------

func TestSetRouteNotifications_200(t *testing.T) {
	fixture := routeFixture()
	fixture.NotificationsEnabled = true
	svc := &mockRouteServicer{
		setNotifications: func(_ context.Context, id uuid.UUID, enabled bool) (domain.Route, error) {
			assert.True(t, enabled)
			return fixture, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/api/routes/"+fixture.ID.String()+"/notifications", jsonBody(t, map[string]any{"enabled": true}))
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// ---- GET /api/routes/{id}/history --------------------------------------------

func TestGetRouteHistory_200(t *testing.T) {
	entries := []domain.HistoryEntry{
		{Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), Price: decimal.NewFromInt(640)},
	}
	svc := &mockRouteServicer{
		history: func(_ context.Context, _ uuid.UUID) ([]domain.HistoryEntry, error) {
			return entries, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/routes/"+uuid.NewString()+"/history", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.HistoryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.True(t, got[0].Price.Equal(decimal.NewFromInt(640)))
}
