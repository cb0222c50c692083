package http

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20

// RentalHandler serves the rent routes of the JSON API.
type RentalHandler struct {
	availability service.AvailabilityService
	rents        service.RentService
	history      service.HistoryService
}

func NewRentalHandler(availability service.AvailabilityService, rents service.RentService, history service.HistoryService) *RentalHandler {
	return &RentalHandler{availability: availability, rents: rents, history: history}
}

// RentRequest is the body of POST /api/Rent/New/{transportId} and
// POST /api/Admin/Rent.
type RentRequest struct {
	TransportID  int32  `json:"transportId"`
	RentType     string `json:"rentType"`
	Duration     int32  `json:"duration"`
	RenterUserID int32  `json:"renterUserId,omitempty"`
}

// RentOverrideRequest is the body of PUT /api/Admin/Rent/{rentId}.
type RentOverrideRequest struct {
	TransportID  int32           `json:"transportId"`
	RentType     string          `json:"rentType"`
	RenterUserID int32           `json:"renterUserId"`
	StartTime    time.Time       `json:"startTime"`
	EndTime      time.Time       `json:"endTime"`
	PriceOfUnit  decimal.Decimal `json:"priceOfUnit"`
	FinalPrice   decimal.Decimal `json:"finalPrice"`
}

func (h *RentalHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListAvailable serves GET /api/Rent/Transport.
func (h *RentalHandler) handleListAvailable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.AvailabilityFilter

	if typ := q.Get("type"); typ != "" && typ != "All" {
		tt, err := domain.ParseTransportType(typ)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		filter.Type = &tt
	}

	lat, err := optionalFloat(q.Get("lat"), q.Get("latitude"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "lat must be a number")
		return
	}
	long, err := optionalFloat(q.Get("long"), q.Get("longitude"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "long must be a number")
		return
	}
	radius, err := optionalFloat(q.Get("radius"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "radius must be a number")
		return
	}
	if lat != nil && long != nil && radius != nil {
		filter.Center = &domain.Point{Latitude: *lat, Longitude: *long}
		filter.Radius = radius
	}

	transports, err := h.availability.ListAvailable(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, transports)
}

func (h *RentalHandler) handleGetRent(w http.ResponseWriter, r *http.Request) {
	rentID, ok := pathID(w, r, "rentId")
	if !ok {
		return
	}
	rent, err := h.rents.GetRent(r.Context(), principal(r), rentID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rent)
}

// handleCreateRent serves POST /api/Rent/New/{transportId}. Terms come from
// the JSON body or, when there is none, the rentType and duration query
// parameters. The path id always wins.
func (h *RentalHandler) handleCreateRent(w http.ResponseWriter, r *http.Request) {
	transportID, ok := pathID(w, r, "transportId")
	if !ok {
		return
	}

	var req RentRequest
	empty, err := decodeBody(w, r, &req)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}
	if empty {
		q := r.URL.Query()
		req.RentType = q.Get("rentType")
		d, err := strconv.ParseInt(q.Get("duration"), 10, 32)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "duration must be an integer")
			return
		}
		req.Duration = int32(d)
	}

	rent, err := h.rents.CreateRent(r.Context(), principal(r), domain.StandardCreateRentRequest{
		RentTerms: domain.RentTerms{
			TransportID: transportID,
			RentType:    domain.RentType(req.RentType),
			Duration:    req.Duration,
		},
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, rent)
}

func (h *RentalHandler) handleEndRent(w http.ResponseWriter, r *http.Request) {
	req, ok := endRentRequest(w, r)
	if !ok {
		return
	}
	rent, err := h.rents.EndRent(r.Context(), principal(r), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rent)
}

func (h *RentalHandler) handleMyHistory(w http.ResponseWriter, r *http.Request) {
	rents, err := h.history.ByRenter(r.Context(), principal(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, nonNil(rents))
}

func (h *RentalHandler) handleTransportHistory(w http.ResponseWriter, r *http.Request) {
	transportID, ok := pathID(w, r, "transportId")
	if !ok {
		return
	}
	rents, err := h.history.ByTransportForOwner(r.Context(), principal(r), transportID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, nonNil(rents))
}

func (h *RentalHandler) handleAdminGetRent(w http.ResponseWriter, r *http.Request) {
	rentID, ok := pathID(w, r, "rentId")
	if !ok {
		return
	}
	rent, err := h.rents.AdminGetRent(r.Context(), principal(r), rentID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rent)
}

func (h *RentalHandler) handleAdminUserHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	rents, err := h.history.AdminByRenter(r.Context(), principal(r), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, nonNil(rents))
}

func (h *RentalHandler) handleAdminTransportHistory(w http.ResponseWriter, r *http.Request) {
	transportID, ok := pathID(w, r, "transportId")
	if !ok {
		return
	}
	rents, err := h.history.AdminByTransport(r.Context(), principal(r), transportID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, nonNil(rents))
}

func (h *RentalHandler) handleAdminCreateRent(w http.ResponseWriter, r *http.Request) {
	var req RentRequest
	empty, err := decodeBody(w, r, &req)
	if err != nil || empty {
		respondError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}

	rent, err := h.rents.CreateRent(r.Context(), principal(r), domain.AdminCreateRentRequest{
		RentTerms: domain.RentTerms{
			TransportID: req.TransportID,
			RentType:    domain.RentType(req.RentType),
			Duration:    req.Duration,
		},
		RenterUserID: req.RenterUserID,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, rent)
}

func (h *RentalHandler) handleAdminEndRent(w http.ResponseWriter, r *http.Request) {
	req, ok := endRentRequest(w, r)
	if !ok {
		return
	}
	rent, err := h.rents.AdminEndRent(r.Context(), principal(r), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rent)
}

func (h *RentalHandler) handleAdminUpdateRent(w http.ResponseWriter, r *http.Request) {
	rentID, ok := pathID(w, r, "rentId")
	if !ok {
		return
	}
	var req RentOverrideRequest
	empty, err := decodeBody(w, r, &req)
	if err != nil || empty {
		respondError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}

	rent, err := h.rents.AdminUpdateRent(r.Context(), principal(r), rentID, domain.RentOverride{
		RentType:     domain.RentType(req.RentType),
		TransportID:  req.TransportID,
		RenterUserID: req.RenterUserID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		PriceOfUnit:  req.PriceOfUnit,
		FinalPrice:   req.FinalPrice,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rent)
}

func (h *RentalHandler) handleAdminDeleteRent(w http.ResponseWriter, r *http.Request) {
	rentID, ok := pathID(w, r, "rentId")
	if !ok {
		return
	}
	if err := h.rents.AdminDeleteRent(r.Context(), principal(r), rentID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// principal is set by AuthMiddleware on every route that reaches here.
func principal(r *http.Request) *domain.Principal {
	p, _ := security.PrincipalFromContext(r.Context())
	return p
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, name+" must be a 32-bit integer")
		return 0, false
	}
	return int32(id), true
}

func endRentRequest(w http.ResponseWriter, r *http.Request) (domain.EndRentRequest, bool) {
	rentID, ok := pathID(w, r, "rentId")
	if !ok {
		return domain.EndRentRequest{}, false
	}
	q := r.URL.Query()
	lat, err := optionalFloat(q.Get("lat"), q.Get("latitude"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "lat must be a number")
		return domain.EndRentRequest{}, false
	}
	long, err := optionalFloat(q.Get("long"), q.Get("longitude"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "long must be a number")
		return domain.EndRentRequest{}, false
	}
	if lat == nil || long == nil {
		respondError(w, r, http.StatusBadRequest, "lat and long are required")
		return domain.EndRentRequest{}, false
	}
	return domain.EndRentRequest{RentID: rentID, Latitude: *lat, Longitude: *long}, true
}

var errNotFinite = errors.New("not a finite number")

// optionalFloat parses the first non-empty value. NaN and infinities are
// rejected since they cannot be stored or encoded as JSON.
func optionalFloat(values ...string) (*float64, error) {
	for _, v := range values {
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errNotFinite
		}
		return &f, nil
	}
	return nil, nil
}

// decodeBody reports empty=true when the request carries no body.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) (empty bool, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func nonNil(rents []domain.Rent) []domain.Rent {
	if rents == nil {
		return []domain.Rent{}
	}
	return rents
}
