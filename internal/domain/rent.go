package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentType string

const (
	RentTypeMinutes RentType = "Minutes"
	RentTypeDays    RentType = "Days"
)

func (t RentType) Valid() bool {
	return t == RentTypeMinutes || t == RentTypeDays
}

type RentStatus string

const (
	RentStatusActive    RentStatus = "ACTIVE"
	RentStatusCompleted RentStatus = "COMPLETED"
	// RentStatusOverdue marks an active rent whose scheduled window elapsed
	// without a recorded termination.
	RentStatusOverdue RentStatus = "OVERDUE"
)

type Rent struct {
	ID           int32      `json:"id"`
	RentType     RentType   `json:"rent_type"`
	TransportID  int32      `json:"transport_id"`
	RenterUserID int32      `json:"renter_user_id"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`
	Status       RentStatus `json:"status"`
	// Price snapshot taken at creation time. Never recomputed on read.
	PriceOfUnit decimal.Decimal `json:"price_of_unit"`
	FinalPrice  decimal.Decimal `json:"final_price"`
	CreatedOn   time.Time       `json:"created_on"`
	UpdatedOn   time.Time       `json:"updated_on"`
}

// IsOpen reports whether termination has not been recorded yet.
func (r *Rent) IsOpen() bool {
	return r.Status == RentStatusActive || r.Status == RentStatusOverdue
}

// RentOverride carries every mutable field of a rent for the administrative
// override path.
type RentOverride struct {
	RentType     RentType        `json:"rent_type"`
	TransportID  int32           `json:"transport_id"`
	RenterUserID int32           `json:"renter_user_id"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	PriceOfUnit  decimal.Decimal `json:"price_of_unit"`
	FinalPrice   decimal.Decimal `json:"final_price"`
}

func (o RentOverride) Validate() error {
	if !o.RentType.Valid() {
		return NewValidationError("invalid rent type")
	}
	if o.EndTime.Before(o.StartTime) {
		return NewValidationError("end time must not be before start time")
	}
	if o.PriceOfUnit.IsNegative() || o.FinalPrice.IsNegative() {
		return NewValidationError("prices must not be negative")
	}
	return nil
}
