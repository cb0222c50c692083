package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository/memory"
	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testAPI struct {
	server *httptest.Server
	tokens security.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	store.AddPrincipal(domain.Principal{ID: 1, IsAdmin: true})
	store.AddPrincipal(domain.Principal{ID: 7})
	store.AddPrincipal(domain.Principal{ID: 8})
	store.AddPrincipal(domain.Principal{ID: 9, Disabled: true})
	store.AddTransport(domain.Transport{
		ID:            1,
		OwnerID:       8,
		CanBeRented:   true,
		TransportType: domain.TransportTypeCar,
		Identifier:    "A001AA",
		Latitude:      10,
		Longitude:     10,
		MinutePrice:   decimal.NewFromInt(2),
		DayPrice:      decimal.NewFromInt(50),
	})
	store.AddTransport(domain.Transport{
		ID:            2,
		OwnerID:       8,
		CanBeRented:   true,
		TransportType: domain.TransportTypeScooter,
		Identifier:    "S-2",
		Latitude:      50,
		Longitude:     50,
		DayPrice:      decimal.NewFromInt(3),
	})

	tokens := security.NewTokenManager(testSecret, time.Hour)
	handler := NewRentalHandler(
		service.NewAvailabilityService(store.Transports),
		service.NewRentService(store.Repositories(), store),
		service.NewHistoryService(store.Repositories()),
	)
	router := NewRouter(handler, NewAuthMiddleware(security.NewPrincipalResolver(tokens, store.Principals)))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testAPI{server: srv, tokens: tokens}
}

// do sends a request as userID (0 for anonymous) and decodes a JSON reply.
func (a *testAPI) do(t *testing.T, method, path string, userID int32, body string) (int, any) {
	t.Helper()
	req, err := http.NewRequest(method, a.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if userID != 0 {
		token, err := a.tokens.GenerateAccessToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	var out any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealthAndPublicRoutes(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.do(t, http.MethodGet, "/healthz", 0, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.(map[string]any)["status"])

	code, body = api.do(t, http.MethodGet, "/api/Rent/Transport", 0, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body, 2)

	code, body = api.do(t, http.MethodGet, "/api/Rent/Transport?lat=50&long=50&radius=1&type=Scooter", 0, "")
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, body, 1)
	assert.Equal(t, "S-2", body.([]any)[0].(map[string]any)["identifier"])

	code, body = api.do(t, http.MethodGet, "/api/Rent/Transport?latitude=0&longitude=0&radius=1", 0, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, body)

	code, _ = api.do(t, http.MethodGet, "/api/Rent/Transport?type=Boat", 0, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(t, http.MethodGet, "/api/Rent/Transport?lat=1&long=1&radius=-1", 0, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(t, http.MethodGet, "/api/Rent/Transport?radius=abc", 0, "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAuthMiddleware(t *testing.T) {
	api := newTestAPI(t)

	code, _ := api.do(t, http.MethodGet, "/api/Rent/MyHistory", 0, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = api.do(t, http.MethodGet, "/api/Rent/MyHistory", 404, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = api.do(t, http.MethodGet, "/api/Rent/MyHistory", 9, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, body := api.do(t, http.MethodGet, "/api/Rent/MyHistory", 7, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, body)
}

func TestRentRoutes(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.do(t, http.MethodPost, "/api/Rent/New/1?rentType=Minutes&duration=30", 7, "")
	require.Equal(t, http.StatusCreated, code, body)
	rent := body.(map[string]any)
	assert.Equal(t, "60", rent["final_price"])
	assert.Equal(t, "ACTIVE", rent["status"])
	rentID := int(rent["id"].(float64))

	code, _ = api.do(t, http.MethodPost, "/api/Rent/New/1?rentType=Minutes&duration=30", 1, "")
	assert.Equal(t, http.StatusConflict, code)

	code, body = api.do(t, http.MethodPost, "/api/Rent/New/2", 7, `{"rentType":"Days","duration":2}`)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "504", body.(map[string]any)["final_price"])

	code, _ = api.do(t, http.MethodPost, "/api/Rent/New/2", 7, `{"rentType":"Days","duration":2,"extra":true}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(t, http.MethodPost, "/api/Rent/New/1?rentType=Minutes", 7, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(t, http.MethodGet, fmt.Sprintf("/api/Rent/%d", rentID), 8, "")
	assert.Equal(t, http.StatusOK, code, "owner may view")

	code, _ = api.do(t, http.MethodGet, fmt.Sprintf("/api/Rent/%d", rentID), 1, "")
	assert.Equal(t, http.StatusOK, code, "admin may view")

	code, _ = api.do(t, http.MethodGet, "/api/Rent/99999999999", 7, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(t, http.MethodGet, "/api/Rent/500", 7, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = api.do(t, http.MethodGet, "/api/Rent/TransportHistory/1", 8, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body, 1)

	code, _ = api.do(t, http.MethodGet, "/api/Rent/TransportHistory/1", 7, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(t, http.MethodPost, fmt.Sprintf("/api/Rent/End/%d?lat=1", rentID), 7, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = api.do(t, http.MethodPost, fmt.Sprintf("/api/Rent/End/%d?lat=1&long=2", rentID), 7, "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "COMPLETED", body.(map[string]any)["status"])

	code, _ = api.do(t, http.MethodPost, fmt.Sprintf("/api/Rent/End/%d?latitude=1&longitude=2", rentID), 7, "")
	assert.Equal(t, http.StatusConflict, code)

	code, body = api.do(t, http.MethodGet, "/api/Rent/MyHistory", 7, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body, 2)
}

func TestAdminRoutes(t *testing.T) {
	api := newTestAPI(t)

	code, _ := api.do(t, http.MethodPost, "/api/Admin/Rent", 7, `{"transportId":1,"rentType":"Minutes","duration":5,"renterUserId":7}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(t, http.MethodPost, "/api/Admin/Rent", 1, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := api.do(t, http.MethodPost, "/api/Admin/Rent", 1, `{"transportId":1,"rentType":"Minutes","duration":5,"renterUserId":7}`)
	require.Equal(t, http.StatusCreated, code, body)
	rent := body.(map[string]any)
	assert.Equal(t, float64(7), rent["renter_user_id"])
	rentID := int(rent["id"].(float64))

	code, _ = api.do(t, http.MethodGet, fmt.Sprintf("/api/Admin/Rent/%d", rentID), 7, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(t, http.MethodGet, fmt.Sprintf("/api/Admin/Rent/%d", rentID), 1, "")
	assert.Equal(t, http.StatusOK, code)

	code, body = api.do(t, http.MethodGet, "/api/Admin/UserHistory/7", 1, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body, 1)

	code, body = api.do(t, http.MethodGet, "/api/Admin/TransportHistory/1", 1, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body, 1)

	code, _ = api.do(t, http.MethodGet, "/api/Admin/TransportHistory/404", 1, "")
	assert.Equal(t, http.StatusNotFound, code)

	update := `{"transportId":2,"rentType":"Days","renterUserId":7,` +
		`"startTime":"2024-06-01T10:00:00Z","endTime":"2024-06-03T10:00:00Z",` +
		`"priceOfUnit":"252","finalPrice":504}`
	code, body = api.do(t, http.MethodPut, fmt.Sprintf("/api/Admin/Rent/%d", rentID), 1, update)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, float64(2), body.(map[string]any)["transport_id"])

	// The open rent took the availability lock with it.
	code, body = api.do(t, http.MethodGet, "/api/Rent/Transport", 0, "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body, 1)
	assert.Equal(t, float64(1), body.([]any)[0].(map[string]any)["id"])

	backwards := `{"transportId":2,"rentType":"Days","renterUserId":7,` +
		`"startTime":"2024-06-03T10:00:00Z","endTime":"2024-06-01T10:00:00Z",` +
		`"priceOfUnit":"1","finalPrice":"1"}`
	code, _ = api.do(t, http.MethodPut, fmt.Sprintf("/api/Admin/Rent/%d", rentID), 1, backwards)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(t, http.MethodDelete, fmt.Sprintf("/api/Admin/Rent/%d", rentID), 1, "")
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = api.do(t, http.MethodGet, fmt.Sprintf("/api/Admin/Rent/%d", rentID), 1, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = api.do(t, http.MethodGet, "/api/Rent/Transport", 0, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body, 2)
}

func TestAdminEndRoute(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.do(t, http.MethodPost, "/api/Rent/New/1?rentType=Days&duration=1", 7, "")
	require.Equal(t, http.StatusCreated, code, body)
	rentID := int(body.(map[string]any)["id"].(float64))

	code, _ = api.do(t, http.MethodPost, fmt.Sprintf("/api/Admin/Rent/End/%d?lat=3&long=4", rentID), 7, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, body = api.do(t, http.MethodPost, fmt.Sprintf("/api/Admin/Rent/End/%d?lat=3&long=4", rentID), 1, "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "COMPLETED", body.(map[string]any)["status"])
}

func TestAdminDeleteThroughEndPath(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.do(t, http.MethodPost, "/api/Rent/New/1?rentType=Minutes&duration=15", 7, "")
	require.Equal(t, http.StatusCreated, code, body)
	rentID := int(body.(map[string]any)["id"].(float64))

	code, _ = api.do(t, http.MethodDelete, fmt.Sprintf("/api/Admin/Rent/End/%d", rentID), 7, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(t, http.MethodDelete, fmt.Sprintf("/api/Admin/Rent/End/%d", rentID), 1, "")
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = api.do(t, http.MethodGet, fmt.Sprintf("/api/Admin/Rent/%d", rentID), 1, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.do(t, http.MethodDelete, fmt.Sprintf("/api/Admin/Rent/End/%d", rentID), 1, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = api.do(t, http.MethodGet, "/api/Rent/Transport", 0, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body, 2)
}

func TestNonFiniteCoordinates(t *testing.T) {
	api := newTestAPI(t)

	for _, query := range []string{
		"lat=NaN&long=10&radius=5",
		"lat=10&long=Inf&radius=5",
		"lat=10&long=10&radius=NaN",
		"latitude=-Inf&longitude=10&radius=5",
		"lat=10&long=10&radius=Infinity",
	} {
		code, _ := api.do(t, http.MethodGet, "/api/Rent/Transport?"+query, 0, "")
		assert.Equal(t, http.StatusBadRequest, code, query)
	}

	code, body := api.do(t, http.MethodPost, "/api/Rent/New/1?rentType=Minutes&duration=15", 7, "")
	require.Equal(t, http.StatusCreated, code, body)
	rentID := int(body.(map[string]any)["id"].(float64))

	for _, query := range []string{"lat=NaN&long=4", "lat=3&long=-Inf", "latitude=Inf&longitude=4"} {
		code, _ = api.do(t, http.MethodPost, fmt.Sprintf("/api/Rent/End/%d?%s", rentID, query), 7, "")
		assert.Equal(t, http.StatusBadRequest, code, query)
		code, _ = api.do(t, http.MethodPost, fmt.Sprintf("/api/Admin/Rent/End/%d?%s", rentID, query), 1, "")
		assert.Equal(t, http.StatusBadRequest, code, query)
	}

	code, body = api.do(t, http.MethodGet, fmt.Sprintf("/api/Rent/%d", rentID), 7, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ACTIVE", body.(map[string]any)["status"])

	code, body = api.do(t, http.MethodPost, fmt.Sprintf("/api/Rent/End/%d?lat=3&long=4", rentID), 7, "")
	require.Equal(t, http.StatusOK, code, body)

	// The listing still encodes once the transport is back with real coordinates.
	code, body = api.do(t, http.MethodGet, "/api/Rent/Transport?type=Car", 0, "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body, 1)
	assert.Equal(t, float64(3), body.([]any)[0].(map[string]any)["latitude"])
}
