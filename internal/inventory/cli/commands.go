package cli

import (
	"context"
	"fmt"
	"strconv"

	invgrpc "github.com/abgdnv/inventory/internal/inventory/grpc"
	"github.com/spf13/cobra"
)

type runFunc func(cmd *cobra.Command, call func(ctx context.Context, c *invgrpc.Client) (any, error)) error

func newProductCmd(run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q: %w", args[0], err)
			}
			return run(cmd, func(ctx context.Context, c *invgrpc.Client) (any, error) {
				product, err := c.GetProduct(ctx, id)
				return product, err
			})
		},
	}
}

func newTotalCmd(run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Show the number of units in stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, c *invgrpc.Client) (any, error) {
				total, err := c.TotalQuantity(ctx)
				return total, err
			})
		},
	}
}

func newExtremesCmd(run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "extremes",
		Short: "Show the lowest and highest stock level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, c *invgrpc.Client) (any, error) {
				extremes, err := c.QuantityExtremes(ctx)
				return extremes, err
			})
		},
	}
}

func newValueCmd(run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "value",
		Short: "Show the total inventory value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, c *invgrpc.Client) (any, error) {
				value, err := c.TotalValue(ctx)
				return value, err
			})
		},
	}
}
