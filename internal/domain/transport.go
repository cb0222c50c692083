package domain

import "github.com/shopspring/decimal"

type TransportType string

const (
	TransportTypeCar     TransportType = "Car"
	TransportTypeBike    TransportType = "Bike"
	TransportTypeScooter TransportType = "Scooter"
)

// ParseTransportType accepts the exact names used by the catalog.
func ParseTransportType(s string) (TransportType, error) {
	switch t := TransportType(s); t {
	case TransportTypeCar, TransportTypeBike, TransportTypeScooter:
		return t, nil
	}
	return "", NewValidationError("invalid transport type")
}

type Transport struct {
	ID            int32         `json:"id"`
	OwnerID       int32         `json:"owner_id"`
	CanBeRented   bool          `json:"can_be_rented"`
	TransportType TransportType `json:"transport_type"`
	Model         string        `json:"model"`
	Color         string        `json:"color"`
	Identifier    string        `json:"identifier"`
	Description   string        `json:"description"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	// Prices are optional in the catalog; a missing price reads as zero.
	MinutePrice decimal.Decimal `json:"minute_price"`
	DayPrice    decimal.Decimal `json:"day_price"`
}

// Point is a latitude/longitude pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AvailabilityFilter narrows the set of rentable transports. Center and
// Radius only take effect together.
type AvailabilityFilter struct {
	Type   *TransportType
	Center *Point
	Radius *float64
}

// HasArea reports whether the circle filter applies.
func (f AvailabilityFilter) HasArea() bool {
	return f.Center != nil && f.Radius != nil
}

// Matches evaluates the filter against a transport using the planar circle
// approximation over raw latitude/longitude degrees.
func (f AvailabilityFilter) Matches(t Transport) bool {
	if !t.CanBeRented {
		return false
	}
	if f.Type != nil && t.TransportType != *f.Type {
		return false
	}
	if f.HasArea() {
		dLat := t.Latitude - f.Center.Latitude
		dLong := t.Longitude - f.Center.Longitude
		r := *f.Radius
		if dLat*dLat+dLong*dLong > r*r {
			return false
		}
	}
	return true
}

// Validate rejects a negative radius and any non-finite coordinate.
func (f AvailabilityFilter) Validate() error {
	if f.Radius != nil {
		if !finite(*f.Radius) {
			return NewValidationError("radius must be a finite number")
		}
		if *f.Radius < 0 {
			return NewValidationError("radius must not be negative")
		}
	}
	if f.Center != nil && (!finite(f.Center.Latitude) || !finite(f.Center.Longitude)) {
		return NewValidationError("latitude and longitude must be finite numbers")
	}
	return nil
}
