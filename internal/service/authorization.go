package service

import "vehicle-rental-backend/internal/domain"

// CanViewRent allows admins, the renter and the owner of the rented
// transport.
func CanViewRent(p *domain.Principal, rent *domain.Rent, transportOwnerID int32) bool {
	return p.IsAdmin || p.ID == rent.RenterUserID || p.ID == transportOwnerID
}

// CanCreateRent rejects renting one's own transport. For the admin variant
// the explicit renter is checked, not the admin.
func CanCreateRent(p *domain.Principal, transportOwnerID int32, req domain.CreateRentRequest) bool {
	return EffectiveRenter(p, req) != transportOwnerID
}

// CanEndRent allows admins and the renter. Owners cannot end a rent of
// their transport.
func CanEndRent(p *domain.Principal, rent *domain.Rent) bool {
	return p.IsAdmin || p.ID == rent.RenterUserID
}

func CanAdminister(p *domain.Principal) bool {
	return p.IsAdmin
}

func EffectiveRenter(p *domain.Principal, req domain.CreateRentRequest) int32 {
	if admin, ok := req.(domain.AdminCreateRentRequest); ok {
		return admin.RenterUserID
	}
	return p.ID
}
