package utils

import (
	"time"

	"github.com/shopspring/decimal"

	"vehicle-rental-backend/internal/domain"
)

// DayRateMultiplier is applied on top of dayPrice * duration for day rents.
// Its meaning is undocumented upstream and it is kept as observed.
const DayRateMultiplier = 84

// Quote is the price snapshot of a rent request.
type Quote struct {
	UnitPrice  decimal.Decimal
	FinalPrice decimal.Decimal
}

// QuoteRent computes the unit and final price for a rent of the given type
// and duration. It is pure: the same inputs always give the same quote.
func QuoteRent(minutePrice, dayPrice decimal.Decimal, rentType domain.RentType, duration int32) (Quote, error) {
	if duration <= 0 {
		return Quote{}, domain.NewValidationError(domain.MsgDurationPositive)
	}

	units := decimal.NewFromInt32(duration)
	switch rentType {
	case domain.RentTypeMinutes:
		return Quote{
			UnitPrice:  minutePrice,
			FinalPrice: minutePrice.Mul(units),
		}, nil
	case domain.RentTypeDays:
		return Quote{
			UnitPrice:  dayPrice,
			FinalPrice: dayPrice.Mul(units).Mul(decimal.NewFromInt(DayRateMultiplier)),
		}, nil
	default:
		return Quote{}, domain.NewValidationError(domain.MsgInvalidRentType)
	}
}

// QuoteTransport quotes a rent against a transport's current prices.
func QuoteTransport(t *domain.Transport, rentType domain.RentType, duration int32) (Quote, error) {
	return QuoteRent(t.MinutePrice, t.DayPrice, rentType, duration)
}

// ScheduledEnd returns start advanced by duration units of rentType.
func ScheduledEnd(start time.Time, rentType domain.RentType, duration int32) (time.Time, error) {
	if duration <= 0 {
		return time.Time{}, domain.NewValidationError(domain.MsgDurationPositive)
	}

	switch rentType {
	case domain.RentTypeMinutes:
		return start.Add(time.Duration(duration) * time.Minute), nil
	case domain.RentTypeDays:
		// Fixed 24h days, independent of DST shifts in the caller's zone.
		return start.Add(time.Duration(duration) * 24 * time.Hour), nil
	default:
		return time.Time{}, domain.NewValidationError(domain.MsgInvalidRentType)
	}
}
