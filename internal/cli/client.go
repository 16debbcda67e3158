package cli

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nemanja-m/gridexec/internal/shared/wire"
)

const queryTimeout = 5 * time.Second

// fetchStatus queries the daemon at address for its status snapshot.
func fetchStatus(address string) (*wire.StatusResponse, error) {
	conn, err := grpc.NewClient(
		address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(wire.Codec{})),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to worker daemon: %w", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	resp := new(wire.StatusResponse)
	if err := conn.Invoke(ctx, wire.MethodStatus, &wire.StatusRequest{}, resp); err != nil {
		return nil, fmt.Errorf("failed to query worker daemon: %w", err)
	}
	return resp, nil
}
