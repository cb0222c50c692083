package grpc

import (
	"math"
	"time"

	"vehicle-rental-backend/internal/domain"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func MapDomainTransportToProto(t domain.Transport) map[string]any {
	return map[string]any{
		"id":             t.ID,
		"owner_id":       t.OwnerID,
		"can_be_rented":  t.CanBeRented,
		"transport_type": string(t.TransportType),
		"model":          t.Model,
		"color":          t.Color,
		"identifier":     t.Identifier,
		"description":    t.Description,
		"latitude":       t.Latitude,
		"longitude":      t.Longitude,
		"minute_price":   t.MinutePrice.String(),
		"day_price":      t.DayPrice.String(),
	}
}

func MapDomainRentToProto(r *domain.Rent) map[string]any {
	return map[string]any{
		"id":             r.ID,
		"rent_type":      string(r.RentType),
		"transport_id":   r.TransportID,
		"renter_user_id": r.RenterUserID,
		"start_time":     r.StartTime.UTC().Format(time.RFC3339Nano),
		"end_time":       r.EndTime.UTC().Format(time.RFC3339Nano),
		"status":         string(r.Status),
		"price_of_unit":  r.PriceOfUnit.String(),
		"final_price":    r.FinalPrice.String(),
	}
}

func rentResponse(r *domain.Rent) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"rent": MapDomainRentToProto(r)})
}

func rentsResponse(rents []domain.Rent) (*structpb.Struct, error) {
	items := make([]any, 0, len(rents))
	for i := range rents {
		items = append(items, MapDomainRentToProto(&rents[i]))
	}
	return structpb.NewStruct(map[string]any{"rents": items})
}

func transportsResponse(transports []domain.Transport) (*structpb.Struct, error) {
	items := make([]any, 0, len(transports))
	for _, t := range transports {
		items = append(items, MapDomainTransportToProto(t))
	}
	return structpb.NewStruct(map[string]any{"transports": items})
}

func invalidField(name, reason string) error {
	return status.Errorf(codes.InvalidArgument, "%s %s", name, reason)
}

func field(req *structpb.Struct, name string) (*structpb.Value, bool) {
	v, ok := req.GetFields()[name]
	if !ok {
		return nil, false
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, false
	}
	return v, true
}

func numberField(req *structpb.Struct, name string) (*float64, error) {
	v, ok := field(req, name)
	if !ok {
		return nil, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || math.IsNaN(n.NumberValue) || math.IsInf(n.NumberValue, 0) {
		return nil, invalidField(name, "must be a number")
	}
	f := n.NumberValue
	return &f, nil
}

func requiredNumber(req *structpb.Struct, name string) (float64, error) {
	f, err := numberField(req, name)
	if err != nil {
		return 0, err
	}
	if f == nil {
		return 0, invalidField(name, "is required")
	}
	return *f, nil
}

// int32Field reads a required whole number that fits an int32.
func int32Field(req *structpb.Struct, name string) (int32, error) {
	f, err := requiredNumber(req, name)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, invalidField(name, "must be a 32-bit integer")
	}
	return int32(f), nil
}

func stringField(req *structpb.Struct, name string) (string, bool, error) {
	v, ok := field(req, name)
	if !ok {
		return "", false, nil
	}
	s, isString := v.GetKind().(*structpb.Value_StringValue)
	if !isString {
		return "", false, invalidField(name, "must be a string")
	}
	return s.StringValue, true, nil
}

func timeField(req *structpb.Struct, name string) (time.Time, error) {
	s, ok, err := stringField(req, name)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, invalidField(name, "is required")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, invalidField(name, "must be an RFC 3339 timestamp")
	}
	return t.UTC(), nil
}

// decimalField accepts a decimal string or a JSON number.
func decimalField(req *structpb.Struct, name string) (decimal.Decimal, error) {
	v, ok := field(req, name)
	if !ok {
		return decimal.Zero, invalidField(name, "is required")
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		d, err := decimal.NewFromString(k.StringValue)
		if err != nil {
			return decimal.Zero, invalidField(name, "must be a decimal")
		}
		return d, nil
	case *structpb.Value_NumberValue:
		if math.IsNaN(k.NumberValue) || math.IsInf(k.NumberValue, 0) {
			return decimal.Zero, invalidField(name, "must be a decimal")
		}
		return decimal.NewFromFloat(k.NumberValue), nil
	}
	return decimal.Zero, invalidField(name, "must be a decimal")
}

func MapProtoToRentTerms(req *structpb.Struct) (domain.RentTerms, error) {
	transportID, err := int32Field(req, "transport_id")
	if err != nil {
		return domain.RentTerms{}, err
	}
	rentType, _, err := stringField(req, "rent_type")
	if err != nil {
		return domain.RentTerms{}, err
	}
	duration, err := int32Field(req, "duration")
	if err != nil {
		return domain.RentTerms{}, err
	}
	return domain.RentTerms{
		TransportID: transportID,
		RentType:    domain.RentType(rentType),
		Duration:    duration,
	}, nil
}

func MapProtoToEndRentRequest(req *structpb.Struct) (domain.EndRentRequest, error) {
	rentID, err := int32Field(req, "rent_id")
	if err != nil {
		return domain.EndRentRequest{}, err
	}
	lat, err := requiredNumber(req, "latitude")
	if err != nil {
		return domain.EndRentRequest{}, err
	}
	long, err := requiredNumber(req, "longitude")
	if err != nil {
		return domain.EndRentRequest{}, err
	}
	return domain.EndRentRequest{RentID: rentID, Latitude: lat, Longitude: long}, nil
}

func MapProtoToRentOverride(req *structpb.Struct) (domain.RentOverride, error) {
	var o domain.RentOverride
	rentType, _, err := stringField(req, "rent_type")
	if err != nil {
		return o, err
	}
	o.RentType = domain.RentType(rentType)
	if o.TransportID, err = int32Field(req, "transport_id"); err != nil {
		return o, err
	}
	if o.RenterUserID, err = int32Field(req, "renter_user_id"); err != nil {
		return o, err
	}
	if o.StartTime, err = timeField(req, "start_time"); err != nil {
		return o, err
	}
	if o.EndTime, err = timeField(req, "end_time"); err != nil {
		return o, err
	}
	if o.PriceOfUnit, err = decimalField(req, "price_of_unit"); err != nil {
		return o, err
	}
	if o.FinalPrice, err = decimalField(req, "final_price"); err != nil {
		return o, err
	}
	return o, nil
}

// MapProtoToAvailabilityFilter reads the optional type, latitude, longitude
// and radius fields. The circle applies only when all three are present.
func MapProtoToAvailabilityFilter(req *structpb.Struct) (domain.AvailabilityFilter, error) {
	var f domain.AvailabilityFilter
	typ, ok, err := stringField(req, "type")
	if err != nil {
		return f, err
	}
	if ok && typ != "" && typ != "All" {
		tt, err := domain.ParseTransportType(typ)
		if err != nil {
			return f, err
		}
		f.Type = &tt
	}

	lat, err := numberField(req, "latitude")
	if err != nil {
		return f, err
	}
	long, err := numberField(req, "longitude")
	if err != nil {
		return f, err
	}
	radius, err := numberField(req, "radius")
	if err != nil {
		return f, err
	}
	if lat != nil && long != nil && radius != nil {
		f.Center = &domain.Point{Latitude: *lat, Longitude: *long}
		f.Radius = radius
	}
	return f, nil
}
