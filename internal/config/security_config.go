package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

const rentalService = "/rental.v1.RentalService/"

// EndpointSecurityConfig maps methods to their required security level.
// Admin-only methods need an access token here; the admin role itself is
// checked by the rent ledger.
var EndpointSecurityConfig = map[string]SecurityLevel{
	rentalService + "ListAvailableTransports": SecurityPublic,

	rentalService + "GetRent":            SecurityAccess,
	rentalService + "CreateRent":         SecurityAccess,
	rentalService + "EndRent":            SecurityAccess,
	rentalService + "ListMyRents":        SecurityAccess,
	rentalService + "ListTransportRents": SecurityAccess,

	rentalService + "AdminGetRent":            SecurityAccess,
	rentalService + "AdminCreateRent":         SecurityAccess,
	rentalService + "AdminEndRent":            SecurityAccess,
	rentalService + "AdminUpdateRent":         SecurityAccess,
	rentalService + "AdminDeleteRent":         SecurityAccess,
	rentalService + "AdminListUserRents":      SecurityAccess,
	rentalService + "AdminListTransportRents": SecurityAccess,
}

// GetSecurityLevel returns the security level for a given method
func GetSecurityLevel(method string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
