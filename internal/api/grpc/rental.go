package grpc

import (
	"context"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"

	"google.golang.org/protobuf/types/known/structpb"
)

type RentalHandler struct {
	availability service.AvailabilityService
	rents        service.RentService
	history      service.HistoryService
}

var _ RentalServiceServer = (*RentalHandler)(nil)

func NewRentalHandler(availability service.AvailabilityService, rents service.RentService, history service.HistoryService) *RentalHandler {
	return &RentalHandler{availability: availability, rents: rents, history: history}
}

func (h *RentalHandler) ListAvailableTransports(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	filter, err := MapProtoToAvailabilityFilter(req)
	if err != nil {
		return nil, toStatus(err)
	}
	transports, err := h.availability.ListAvailable(ctx, filter)
	if err != nil {
		return nil, toStatus(err)
	}
	return transportsResponse(transports)
}

func (h *RentalHandler) GetRent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rentID, err := int32Field(req, "rent_id")
	if err != nil {
		return nil, err
	}
	rent, err := h.rents.GetRent(ctx, p, rentID)
	if err != nil {
		return nil, toStatus(err)
	}
	return rentResponse(rent)
}

func (h *RentalHandler) CreateRent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	terms, err := MapProtoToRentTerms(req)
	if err != nil {
		return nil, err
	}
	rent, err := h.rents.CreateRent(ctx, p, domain.StandardCreateRentRequest{RentTerms: terms})
	if err != nil {
		return nil, toStatus(err)
	}
	return rentResponse(rent)
}

func (h *RentalHandler) EndRent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	endReq, err := MapProtoToEndRentRequest(req)
	if err != nil {
		return nil, err
	}
	rent, err := h.rents.EndRent(ctx, p, endReq)
	if err != nil {
		return nil, toStatus(err)
	}
	return rentResponse(rent)
}

func (h *RentalHandler) ListMyRents(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rents, err := h.history.ByRenter(ctx, p)
	if err != nil {
		return nil, toStatus(err)
	}
	return rentsResponse(rents)
}

func (h *RentalHandler) ListTransportRents(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	transportID, err := int32Field(req, "transport_id")
	if err != nil {
		return nil, err
	}
	rents, err := h.history.ByTransportForOwner(ctx, p, transportID)
	if err != nil {
		return nil, toStatus(err)
	}
	return rentsResponse(rents)
}

func (h *RentalHandler) AdminGetRent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rentID, err := int32Field(req, "rent_id")
	if err != nil {
		return nil, err
	}
	rent, err := h.rents.AdminGetRent(ctx, p, rentID)
	if err != nil {
		return nil, toStatus(err)
	}
	return rentResponse(rent)
}

func (h *RentalHandler) AdminCreateRent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	terms, err := MapProtoToRentTerms(req)
	if err != nil {
		return nil, err
	}
	renterID, err := int32Field(req, "renter_user_id")
	if err != nil {
		return nil, err
	}
	rent, err := h.rents.CreateRent(ctx, p, domain.AdminCreateRentRequest{RentTerms: terms, RenterUserID: renterID})
	if err != nil {
		return nil, toStatus(err)
	}
	return rentResponse(rent)
}

func (h *RentalHandler) AdminEndRent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	endReq, err := MapProtoToEndRentRequest(req)
	if err != nil {
		return nil, err
	}
	rent, err := h.rents.AdminEndRent(ctx, p, endReq)
	if err != nil {
		return nil, toStatus(err)
	}
	return rentResponse(rent)
}

func (h *RentalHandler) AdminUpdateRent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rentID, err := int32Field(req, "rent_id")
	if err != nil {
		return nil, err
	}
	override, err := MapProtoToRentOverride(req)
	if err != nil {
		return nil, err
	}
	rent, err := h.rents.AdminUpdateRent(ctx, p, rentID, override)
	if err != nil {
		return nil, toStatus(err)
	}
	return rentResponse(rent)
}

func (h *RentalHandler) AdminDeleteRent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rentID, err := int32Field(req, "rent_id")
	if err != nil {
		return nil, err
	}
	if err := h.rents.AdminDeleteRent(ctx, p, rentID); err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"rent_id": rentID, "deleted": true})
}

func (h *RentalHandler) AdminListUserRents(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := int32Field(req, "user_id")
	if err != nil {
		return nil, err
	}
	rents, err := h.history.AdminByRenter(ctx, p, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return rentsResponse(rents)
}

func (h *RentalHandler) AdminListTransportRents(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	transportID, err := int32Field(req, "transport_id")
	if err != nil {
		return nil, err
	}
	rents, err := h.history.AdminByTransport(ctx, p, transportID)
	if err != nil {
		return nil, toStatus(err)
	}
	return rentsResponse(rents)
}
