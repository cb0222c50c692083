package domain

import "github.com/shopspring/decimal"

// Principal is the authenticated actor behind a request. It is owned by the
// account subsystem and only read here.
type Principal struct {
	ID       int32           `json:"id"`
	IsAdmin  bool            `json:"is_admin"`
	Disabled bool            `json:"disabled"`
	Balance  decimal.Decimal `json:"balance"`
}
