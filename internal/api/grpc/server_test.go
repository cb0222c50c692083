package grpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	api "vehicle-rental-backend/internal/api/grpc"
	"vehicle-rental-backend/internal/api/grpc/interceptor"
	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository/memory"
	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type harness struct {
	client *api.RentalServiceClient
	tokens security.TokenManager
}

func newHarness(t *testing.T) *harness {
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
		TransportType: domain.TransportTypeBike,
		Identifier:    "B-2",
		Latitude:      50,
		Longitude:     50,
		MinutePrice:   decimal.NewFromInt(1),
	})

	tokens := security.NewTokenManager(testSecret, time.Hour)
	auth := interceptor.NewAuthInterceptor(security.NewPrincipalResolver(tokens, store.Principals))
	handler := api.NewRentalHandler(
		service.NewAvailabilityService(store.Transports),
		service.NewRentService(store.Repositories(), store),
		service.NewHistoryService(store.Repositories()),
	)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptor.RequestID(), auth.Unary()))
	api.RegisterRentalServiceServer(srv, handler)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &harness{client: api.NewRentalServiceClient(conn), tokens: tokens}
}

func (h *harness) as(t *testing.T, userID int32) context.Context {
	t.Helper()
	token, err := h.tokens.GenerateAccessToken(userID)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func msg(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func rentOf(t *testing.T, resp *structpb.Struct) map[string]any {
	t.Helper()
	rent, ok := resp.AsMap()["rent"].(map[string]any)
	require.True(t, ok, "response has no rent: %v", resp.AsMap())
	return rent
}

func TestListAvailableTransports_Public(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.Call(context.Background(), "ListAvailableTransports", msg(t, map[string]any{"type": "All"}))
	require.NoError(t, err)
	assert.Len(t, resp.AsMap()["transports"], 2)

	resp, err = h.client.Call(context.Background(), "ListAvailableTransports", msg(t, map[string]any{
		"latitude": 10, "longitude": 10, "radius": 1,
	}))
	require.NoError(t, err)
	items := resp.AsMap()["transports"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "A001AA", items[0].(map[string]any)["identifier"])

	_, err = h.client.Call(context.Background(), "ListAvailableTransports", msg(t, map[string]any{"type": "Boat"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestAuthentication(t *testing.T) {
	h := newHarness(t)
	req := msg(t, map[string]any{"rent_id": 1})

	_, err := h.client.Call(context.Background(), "GetRent", req)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	bad := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer nope")
	_, err = h.client.Call(bad, "GetRent", req)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = h.client.Call(h.as(t, 404), "GetRent", req)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = h.client.Call(h.as(t, 9), "GetRent", req)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestRentLifecycle(t *testing.T) {
	h := newHarness(t)
	renter := h.as(t, 7)

	resp, err := h.client.Call(renter, "CreateRent", msg(t, map[string]any{
		"transport_id": 1, "rent_type": "Minutes", "duration": 30,
	}))
	require.NoError(t, err)
	rent := rentOf(t, resp)
	assert.Equal(t, "60", rent["final_price"])
	assert.Equal(t, "2", rent["price_of_unit"])
	assert.Equal(t, "ACTIVE", rent["status"])
	rentID := rent["id"].(float64)

	_, err = h.client.Call(h.as(t, 1), "CreateRent", msg(t, map[string]any{
		"transport_id": 1, "rent_type": "Minutes", "duration": 5,
	}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	resp, err = h.client.Call(h.as(t, 8), "GetRent", msg(t, map[string]any{"rent_id": rentID}))
	require.NoError(t, err, "owner may view")
	assert.Equal(t, rentID, rentOf(t, resp)["id"])

	resp, err = h.client.Call(h.as(t, 8), "ListTransportRents", msg(t, map[string]any{"transport_id": 1}))
	require.NoError(t, err)
	assert.Len(t, resp.AsMap()["rents"], 1)

	_, err = h.client.Call(h.as(t, 8), "EndRent", msg(t, map[string]any{
		"rent_id": rentID, "latitude": 11, "longitude": 12,
	}))
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	resp, err = h.client.Call(renter, "EndRent", msg(t, map[string]any{
		"rent_id": rentID, "latitude": 11, "longitude": 12,
	}))
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", rentOf(t, resp)["status"])

	_, err = h.client.Call(renter, "EndRent", msg(t, map[string]any{
		"rent_id": rentID, "latitude": 11, "longitude": 12,
	}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	resp, err = h.client.Call(renter, "ListMyRents", &structpb.Struct{})
	require.NoError(t, err)
	assert.Len(t, resp.AsMap()["rents"], 1)

	resp, err = h.client.Call(context.Background(), "ListAvailableTransports", msg(t, map[string]any{
		"latitude": 11, "longitude": 12, "radius": 0.5,
	}))
	require.NoError(t, err)
	assert.Len(t, resp.AsMap()["transports"], 1, "transport is back at the drop-off point")
}

func TestCreateRent_InvalidRequests(t *testing.T) {
	h := newHarness(t)
	ctx := h.as(t, 7)

	tests := []struct {
		name   string
		fields map[string]any
		code   codes.Code
	}{
		{"missing transport", map[string]any{"rent_type": "Minutes", "duration": 1}, codes.InvalidArgument},
		{"fractional duration", map[string]any{"transport_id": 1, "rent_type": "Minutes", "duration": 1.5}, codes.InvalidArgument},
		{"bad rent type", map[string]any{"transport_id": 1, "rent_type": "Weeks", "duration": 1}, codes.InvalidArgument},
		{"zero duration", map[string]any{"transport_id": 1, "rent_type": "Days", "duration": 0}, codes.InvalidArgument},
		{"unknown transport", map[string]any{"transport_id": 99, "rent_type": "Days", "duration": 1}, codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.client.Call(ctx, "CreateRent", msg(t, tt.fields))
			assert.Equal(t, tt.code, status.Code(err))
		})
	}

	_, err := h.client.Call(h.as(t, 8), "CreateRent", msg(t, map[string]any{
		"transport_id": 2, "rent_type": "Minutes", "duration": 1,
	}))
	assert.Equal(t, codes.PermissionDenied, status.Code(err), "owner cannot rent own transport")
}

func TestAdminOperations(t *testing.T) {
	h := newHarness(t)
	admin := h.as(t, 1)

	_, err := h.client.Call(h.as(t, 7), "AdminCreateRent", msg(t, map[string]any{
		"transport_id": 2, "rent_type": "Days", "duration": 1, "renter_user_id": 7,
	}))
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	resp, err := h.client.Call(admin, "AdminCreateRent", msg(t, map[string]any{
		"transport_id": 2, "rent_type": "Minutes", "duration": 10, "renter_user_id": 7,
	}))
	require.NoError(t, err)
	rent := rentOf(t, resp)
	assert.Equal(t, float64(7), rent["renter_user_id"])
	rentID := rent["id"].(float64)

	resp, err = h.client.Call(admin, "AdminListUserRents", msg(t, map[string]any{"user_id": 7}))
	require.NoError(t, err)
	assert.Len(t, resp.AsMap()["rents"], 1)

	resp, err = h.client.Call(admin, "AdminUpdateRent", msg(t, map[string]any{
		"rent_id":        rentID,
		"rent_type":      "Minutes",
		"transport_id":   2,
		"renter_user_id": 7,
		"start_time":     "2024-06-01T10:00:00Z",
		"end_time":       "2024-06-01T11:00:00Z",
		"price_of_unit":  "1.5",
		"final_price":    90,
	}))
	require.NoError(t, err)
	rent = rentOf(t, resp)
	assert.Equal(t, "90", rent["final_price"])
	assert.Equal(t, "2024-06-01T11:00:00Z", rent["end_time"])

	_, err = h.client.Call(admin, "AdminUpdateRent", msg(t, map[string]any{
		"rent_id":        rentID,
		"rent_type":      "Minutes",
		"transport_id":   2,
		"renter_user_id": 7,
		"start_time":     "yesterday",
		"end_time":       "2024-06-01T11:00:00Z",
		"price_of_unit":  "1.5",
		"final_price":    "90",
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	resp, err = h.client.Call(admin, "AdminListTransportRents", msg(t, map[string]any{"transport_id": 2}))
	require.NoError(t, err)
	assert.Len(t, resp.AsMap()["rents"], 1)

	_, err = h.client.Call(admin, "AdminDeleteRent", msg(t, map[string]any{"rent_id": rentID}))
	require.NoError(t, err)

	_, err = h.client.Call(admin, "AdminGetRent", msg(t, map[string]any{"rent_id": rentID}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	resp, err = h.client.Call(context.Background(), "ListAvailableTransports", msg(t, map[string]any{"type": "Bike"}))
	require.NoError(t, err)
	assert.Len(t, resp.AsMap()["transports"], 1, "deleting an open rent releases the transport")
}
