// Package cli implements inventory-cli, a command line client for the gRPC read API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abgdnv/inventory/internal/config"
	invgrpc "github.com/abgdnv/inventory/internal/inventory/grpc"
	"github.com/abgdnv/inventory/internal/platform/client"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

// Dialer opens a connection to the inventory gRPC server.
type Dialer func(target string, cfg config.ClientConfig) (*grpc.ClientConn, error)

// Options lets callers replace how configuration is loaded and how the server is dialled.
type Options struct {
	LoadConfig func() (*config.Config, error)
	Dial       Dialer
}

// DefaultOptions reads config.yaml, .env and the environment and dials with the resilient client.
func DefaultOptions() Options {
	return Options{
		LoadConfig: config.Load,
		Dial: func(target string, cfg config.ClientConfig) (*grpc.ClientConn, error) {
			return client.NewConn(target, cfg)
		},
	}
}

// NewRootCmd builds the inventory-cli command tree.
func NewRootCmd(opts Options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:           "inventory-cli",
		Short:         "Query the inventory service over gRPC",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&addr, "addr", "", "server address (default localhost:<grpc.port>)")

	run := func(cmd *cobra.Command, call func(ctx context.Context, c *invgrpc.Client) (any, error)) error {
		cfg, err := opts.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		target := addr
		if target == "" {
			target = fmt.Sprintf("localhost:%d", cfg.GRPCServer.Port)
		}
		conn, err := opts.Dial(target, cfg.Client)
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close() }()

		out, err := call(cmd.Context(), invgrpc.NewClient(conn))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	cmd.AddCommand(newProductCmd(run))
	cmd.AddCommand(newTotalCmd(run))
	cmd.AddCommand(newExtremesCmd(run))
	cmd.AddCommand(newValueCmd(run))
	return cmd
}

// Execute runs inventory-cli with the default options.
func Execute(ctx context.Context) error {
	return NewRootCmd(DefaultOptions()).ExecuteContext(ctx)
}
