package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var (
	flagHealthAddr    string
	flagHealthService string
	flagHealthTimeout time.Duration
)

// healthCmd probes grpc.health.v1 on a running server; usable as a container
// healthcheck.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Query the gRPC health service of a running server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), flagHealthTimeout)
		defer cancel()

		st, err := probeHealth(ctx, flagHealthAddr, flagHealthService)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), st)
		if st != healthpb.HealthCheckResponse_SERVING {
			return fmt.Errorf("service %q is %s", flagHealthService, st)
		}
		return nil
	},
}

func probeHealth(ctx context.Context, target, service string, opts ...grpc.DialOption) (healthpb.HealthCheckResponse_ServingStatus, error) {
	if len(opts) == 0 {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("dial %s: %w", target, err)
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check: %w", err)
	}
	return resp.GetStatus(), nil
}

func init() {
	healthCmd.Flags().StringVar(&flagHealthAddr, "addr", "localhost:9090", "gRPC address of the server")
	healthCmd.Flags().StringVar(&flagHealthService, "service", "", "Service name to check (empty means the whole server)")
	healthCmd.Flags().DurationVar(&flagHealthTimeout, "timeout", 3*time.Second, "Probe timeout")
	rootCmd.AddCommand(healthCmd)
}
