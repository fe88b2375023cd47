package grpc

import (
	"context"
	"fmt"

	"github.com/abgdnv/inventory/internal/inventory/service"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls the inventory read service and converts replies back into service DTOs.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id int, opts ...grpc.CallOption) (*service.ProductDto, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetProductFullMethod, wrapperspb.Int64(int64(id)), out, opts...); err != nil {
		return nil, err
	}
	fields := out.GetFields()
	return &service.ProductDto{
		ID:       int(fields["id"].GetNumberValue()),
		Name:     fields["name"].GetStringValue(),
		Quantity: int(fields["quantity"].GetNumberValue()),
		Price:    fields["price"].GetNumberValue(),
	}, nil
}

// TotalQuantity returns the number of units across the inventory.
func (c *Client) TotalQuantity(ctx context.Context, opts ...grpc.CallOption) (int, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, TotalQuantityFullMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return 0, err
	}
	return int(out.GetValue()), nil
}

// QuantityExtremes returns the lowest and highest stock level.
func (c *Client) QuantityExtremes(ctx context.Context, opts ...grpc.CallOption) (*service.StockExtremesDto, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, QuantityExtremesFullMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	fields := out.GetFields()
	minV, okMin := fields["min"]
	maxV, okMax := fields["max"]
	if !okMin || !okMax {
		return nil, fmt.Errorf("malformed extremes reply: %v", out.AsMap())
	}
	return &service.StockExtremesDto{
		Min: int(minV.GetNumberValue()),
		Max: int(maxV.GetNumberValue()),
	}, nil
}

// TotalValue returns the value of the inventory.
func (c *Client) TotalValue(ctx context.Context, opts ...grpc.CallOption) (float64, error) {
	out := new(wrapperspb.DoubleValue)
	if err := c.cc.Invoke(ctx, TotalValueFullMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}
