// ==================================
// File: internal/entropy/rpc.go
// ==================================
package entropy

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// RPCSource feeds a Window from a live Solana RPC endpoint. Fetched
// block hashes are cached in the window, so the expiry semantics stay
// identical to the on-chain sysvar.
type RPCSource struct {
	client *rpc.Client
	window *Window
	logger *zap.Logger
}

// NewRPCSource wraps an RPC endpoint into a Source.
func NewRPCSource(endpoint string, logger *zap.Logger) *RPCSource {
	return &RPCSource{
		client: rpc.New(endpoint),
		window: NewWindow(DefaultWindowSize),
		logger: logger.Named("entropy"),
	}
}

// CurrentSlot fetches the finalized slot with retry.
func (s *RPCSource) CurrentSlot(ctx context.Context) (uint64, error) {
	return backoff.Retry(ctx, func() (uint64, error) {
		return s.client.GetSlot(ctx, rpc.CommitmentFinalized)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(15*time.Second),
	)
}

// Fetch pulls the block hash for a slot into the window. Skipped
// slots (no block produced) are a permanent failure for that slot.
func (s *RPCSource) Fetch(ctx context.Context, slot uint64) error {
	if _, ok := s.window.SlotHash(slot); ok {
		return nil
	}
	hash, err := backoff.Retry(ctx, func() (solana.Hash, error) {
		block, err := s.client.GetBlock(ctx, slot)
		if err != nil {
			return solana.Hash{}, err
		}
		if block == nil {
			return solana.Hash{}, backoff.Permanent(fmt.Errorf("slot %d has no block", slot))
		}
		return block.Blockhash, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("fetch block hash for slot %d: %w", slot, err)
	}

	s.window.Record(slot, hash)
	s.logger.Debug("Recorded slot hash",
		zap.Uint64("slot", slot),
		zap.String("hash", hash.String()))
	return nil
}

// SlotHash implements Source from the cached window.
func (s *RPCSource) SlotHash(slot uint64) (solana.Hash, bool) {
	return s.window.SlotHash(slot)
}
