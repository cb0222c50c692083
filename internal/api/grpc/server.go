package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name. Messages are
// google.protobuf.Struct values, so clients need no generated code.
const ServiceName = "rental.v1.RentalService"

// RentalServiceServer is the server API for rental.v1.RentalService.
type RentalServiceServer interface {
	ListAvailableTransports(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateRent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EndRent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMyRents(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTransportRents(context.Context, *structpb.Struct) (*structpb.Struct, error)

	AdminGetRent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AdminCreateRent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AdminEndRent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AdminUpdateRent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AdminDeleteRent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AdminListUserRents(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AdminListTransportRents(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(srv RentalServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func methodHandler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RentalServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(RentalServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FullMethod returns the "/service/method" path of a RentalService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

var RentalService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RentalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodHandler("ListAvailableTransports", RentalServiceServer.ListAvailableTransports),
		methodHandler("GetRent", RentalServiceServer.GetRent),
		methodHandler("CreateRent", RentalServiceServer.CreateRent),
		methodHandler("EndRent", RentalServiceServer.EndRent),
		methodHandler("ListMyRents", RentalServiceServer.ListMyRents),
		methodHandler("ListTransportRents", RentalServiceServer.ListTransportRents),
		methodHandler("AdminGetRent", RentalServiceServer.AdminGetRent),
		methodHandler("AdminCreateRent", RentalServiceServer.AdminCreateRent),
		methodHandler("AdminEndRent", RentalServiceServer.AdminEndRent),
		methodHandler("AdminUpdateRent", RentalServiceServer.AdminUpdateRent),
		methodHandler("AdminDeleteRent", RentalServiceServer.AdminDeleteRent),
		methodHandler("AdminListUserRents", RentalServiceServer.AdminListUserRents),
		methodHandler("AdminListTransportRents", RentalServiceServer.AdminListTransportRents),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rental/v1/rental.proto",
}

func RegisterRentalServiceServer(s grpc.ServiceRegistrar, srv RentalServiceServer) {
	s.RegisterService(&RentalService_ServiceDesc, srv)
}

// RentalServiceClient calls RentalService methods by name.
type RentalServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRentalServiceClient(cc grpc.ClientConnInterface) *RentalServiceClient {
	return &RentalServiceClient{cc: cc}
}

func (c *RentalServiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
