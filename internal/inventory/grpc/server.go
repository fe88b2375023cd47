// Package grpc provides a read-only gRPC server and client for the inventory service.
package grpc

import (
	"context"
	"errors"
	"log/slog"

	perrors "github.com/abgdnv/inventory/internal/inventory/errors"
	"github.com/abgdnv/inventory/internal/inventory/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ProductReader is the subset of the product service exposed over gRPC.
type ProductReader interface {
	FindByID(ctx context.Context, id int) (*service.ProductDto, error)
	TotalQuantity(ctx context.Context) (int, error)
	StockExtremes(ctx context.Context) (*service.StockExtremesDto, error)
	TotalValue(ctx context.Context) (float64, error)
}

type Server struct {
	service ProductReader
}

func NewServer(service ProductReader) *Server {
	return &Server{service: service}
}

func (s *Server) GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	id := req.GetValue()
	if id < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "invalid product ID: %d", id)
	}
	logger := slog.With(slog.Int64("product_id", id))
	product, err := s.service.FindByID(ctx, int(id))
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return nil, status.Errorf(codes.NotFound, "product with id %d not found", id)
		}
		logger.Error("service.FindByID failed", slog.Any("error", err))
		return nil, status.Errorf(codes.Internal, "internal server error")
	}

	return structpb.NewStruct(map[string]any{
		"id":       product.ID,
		"name":     product.Name,
		"quantity": product.Quantity,
		"price":    product.Price,
	})
}

func (s *Server) TotalQuantity(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	total, err := s.service.TotalQuantity(ctx)
	if err != nil {
		slog.Error("service.TotalQuantity failed", slog.Any("error", err))
		return nil, status.Errorf(codes.Internal, "internal server error")
	}
	return wrapperspb.Int64(int64(total)), nil
}

func (s *Server) QuantityExtremes(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	extremes, err := s.service.StockExtremes(ctx)
	if err != nil {
		if errors.Is(err, perrors.ErrEmptyInventory) {
			return nil, status.Error(codes.FailedPrecondition, "inventory is empty")
		}
		slog.Error("service.StockExtremes failed", slog.Any("error", err))
		return nil, status.Errorf(codes.Internal, "internal server error")
	}
	return structpb.NewStruct(map[string]any{
		"min": extremes.Min,
		"max": extremes.Max,
	})
}

func (s *Server) TotalValue(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.DoubleValue, error) {
	value, err := s.service.TotalValue(ctx)
	if err != nil {
		slog.Error("service.TotalValue failed", slog.Any("error", err))
		return nil, status.Errorf(codes.Internal, "internal server error")
	}
	return wrapperspb.Double(value), nil
}
