package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified name of the inventory read service.
const ServiceName = "inventory.v1.Inventory"

const (
	GetProductFullMethod       = "/" + ServiceName + "/GetProduct"
	TotalQuantityFullMethod    = "/" + ServiceName + "/TotalQuantity"
	QuantityExtremesFullMethod = "/" + ServiceName + "/QuantityExtremes"
	TotalValueFullMethod       = "/" + ServiceName + "/TotalValue"
)

// InventoryServer is the server API for the inventory read service.
// Messages are protobuf well-known types.
type InventoryServer interface {
	GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error)
	TotalQuantity(ctx context.Context, req *emptypb.Empty) (*wrapperspb.Int64Value, error)
	QuantityExtremes(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	TotalValue(ctx context.Context, req *emptypb.Empty) (*wrapperspb.DoubleValue, error)
}

// RegisterInventoryServer registers srv with the given registrar.
func RegisterInventoryServer(s grpc.ServiceRegistrar, srv InventoryServer) {
	s.RegisterService(&InventoryServiceDesc, srv)
}

// InventoryServiceDesc is the grpc.ServiceDesc for the inventory read service.
var InventoryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InventoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProduct",
			Handler: unary(GetProductFullMethod, func(srv InventoryServer, ctx context.Context, req *wrapperspb.Int64Value) (any, error) {
				return srv.GetProduct(ctx, req)
			}),
		},
		{
			MethodName: "TotalQuantity",
			Handler: unary(TotalQuantityFullMethod, func(srv InventoryServer, ctx context.Context, req *emptypb.Empty) (any, error) {
				return srv.TotalQuantity(ctx, req)
			}),
		},
		{
			MethodName: "QuantityExtremes",
			Handler: unary(QuantityExtremesFullMethod, func(srv InventoryServer, ctx context.Context, req *emptypb.Empty) (any, error) {
				return srv.QuantityExtremes(ctx, req)
			}),
		},
		{
			MethodName: "TotalValue",
			Handler: unary(TotalValueFullMethod, func(srv InventoryServer, ctx context.Context, req *emptypb.Empty) (any, error) {
				return srv.TotalValue(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventory/v1/inventory.proto",
}

// unary adapts a typed method to a grpc.MethodHandler, running it through the server interceptor chain.
func unary[Req any](fullMethod string, call func(InventoryServer, context.Context, *Req) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InventoryServer), ctx, req.(*Req))
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		return interceptor(ctx, in, info, handler)
	}
}
