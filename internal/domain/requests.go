package domain

import "math"

// RentTerms are the fields every create-rent request carries.
type RentTerms struct {
	TransportID int32    `json:"transport_id"`
	RentType    RentType `json:"rent_type"`
	Duration    int32    `json:"duration"`
}

// CreateRentRequest is implemented only by StandardCreateRentRequest and
// AdminCreateRentRequest. The API layer picks the variant from the route the
// caller used; the ledger re-checks the caller's role for the admin one.
type CreateRentRequest interface {
	Terms() RentTerms
	isCreateRentRequest()
}

// StandardCreateRentRequest rents a transport for the calling principal.
type StandardCreateRentRequest struct {
	RentTerms
}

func (r StandardCreateRentRequest) Terms() RentTerms {
	return r.RentTerms
}

func (StandardCreateRentRequest) isCreateRentRequest() {}

// AdminCreateRentRequest rents a transport on behalf of RenterUserID.
type AdminCreateRentRequest struct {
	RentTerms
	RenterUserID int32 `json:"renter_user_id"`
}

func (r AdminCreateRentRequest) Terms() RentTerms {
	return r.RentTerms
}

func (AdminCreateRentRequest) isCreateRentRequest() {}

// EndRentRequest carries the drop-off point of the vehicle.
type EndRentRequest struct {
	RentID    int32   `json:"rent_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate requires a finite drop-off point.
func (r EndRentRequest) Validate() error {
	if !finite(r.Latitude) || !finite(r.Longitude) {
		return NewValidationError("latitude and longitude must be finite numbers")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
