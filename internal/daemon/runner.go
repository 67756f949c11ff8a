// ==================================
// File: internal/daemon/runner.go
// ==================================

// Package daemon wires the game engine to a slot clock. With an RPC
// endpoint configured the clock follows the live chain and entropy
// comes from real block hashes; without one the daemon runs a local
// simulation on a synthetic clock, which is how the test wallets in
// the roster get exercised.
package daemon

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hashfarm/hashfarm/internal/config"
	"github.com/hashfarm/hashfarm/internal/engine"
	"github.com/hashfarm/hashfarm/internal/entropy"
	"github.com/hashfarm/hashfarm/internal/events"
	"github.com/hashfarm/hashfarm/internal/export"
	"github.com/hashfarm/hashfarm/internal/ledger"
	"github.com/hashfarm/hashfarm/internal/logger"
	"github.com/hashfarm/hashfarm/internal/state"
	"github.com/hashfarm/hashfarm/internal/wallet"
)

const (
	claimEverySlots   = 10
	boosterEverySlots = 50

	// Local simulation faucet amounts.
	faucetLamports    = 10_000_000_000
	faucetMicrotokens = 10_000_000_000
)

// Runner owns the daemon's moving parts: config, engine, event bus,
// slot clock and the simulated player roster.
type Runner struct {
	logger *zap.Logger
	cfg    *config.Config

	bus    *events.Bus
	eng    *engine.Engine
	gs     *state.GlobalState
	tokens *ledger.Memory
	sol    *ledger.Memory

	win     *entropy.Window
	rpc     *entropy.RPCSource
	history *export.History

	authority solana.PrivateKey
	players   map[string]*state.Player
	wallets   map[string]*wallet.Wallet

	slots chan uint64
}

func NewRunner(log *zap.Logger) *Runner {
	return &Runner{
		logger:  log.Named("daemon"),
		players: make(map[string]*state.Player),
		slots:   make(chan uint64, 1),
	}
}

// Initialize loads configuration and assembles the engine.
func (r *Runner) Initialize(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	r.cfg = cfg

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     100,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	r.logger = log.Named("daemon")

	r.tokens = ledger.NewMemory()
	r.sol = ledger.NewMemory()
	r.bus = events.NewBus(log, cfg.EventBufferSize)

	auth := wallet.Generate()
	r.authority = auth.PrivateKey
	r.gs = state.NewGlobalState(
		auth.PublicKey,
		wallet.Generate().PublicKey,
		wallet.Generate().PublicKey,
		wallet.Generate().PublicKey,
		cfg.StartSlot,
		cfg.TotalSupply,
		cfg.RewardRate,
		cfg.StakingLockupSlots,
		cfg.TokenRewardRate,
	)
	if err := r.tokens.MintTo(r.gs.RewardsVault, cfg.TotalSupply); err != nil {
		return fmt.Errorf("fund rewards vault: %w", err)
	}

	var src entropy.Source
	if cfg.RPCEndpoint != "" {
		r.rpc = entropy.NewRPCSource(cfg.RPCEndpoint, log)
		src = r.rpc
	} else {
		r.win = entropy.NewWindow(entropy.DefaultWindowSize)
		src = r.win
	}

	opts := []engine.Option{engine.WithBus(r.bus)}
	if len(cfg.AllowList) > 0 {
		allowed := make([]solana.PublicKey, 0, len(cfg.AllowList))
		for _, raw := range cfg.AllowList {
			key, err := solana.PublicKeyFromBase58(raw)
			if err != nil {
				return fmt.Errorf("allow_list entry %q: %w", raw, err)
			}
			allowed = append(allowed, key)
		}
		opts = append(opts, engine.WithAllowList(allowed))
	}
	r.eng = engine.New(r.tokens, r.sol, src, log, opts...)

	if cfg.WalletsFile != "" {
		r.wallets, err = wallet.LoadWallets(cfg.WalletsFile)
		if err != nil {
			return fmt.Errorf("load wallets: %w", err)
		}
		for name, w := range r.wallets {
			if err := r.sol.MintTo(w.PublicKey, faucetLamports); err != nil {
				return err
			}
			if err := r.tokens.MintTo(w.PublicKey, faucetMicrotokens); err != nil {
				return err
			}
			r.logger.Info("Wallet funded", zap.String("name", name))
		}
	}

	r.history = export.NewHistory(log)
	r.subscribeTelemetry()
	return nil
}

// subscribeTelemetry logs and records every game event that crosses
// the bus.
func (r *Runner) subscribeTelemetry() {
	log := r.logger.Named("events")
	for _, typ := range []events.EventType{
		events.FarmPurchased, events.FarmUpgraded,
		events.CardStaked, events.CardUnstaked, events.CardDiscarded,
		events.BoosterOpened, events.CardsRecycled,
		events.RewardsClaimed, events.TokensStaked, events.TokensUnstaked,
	} {
		r.bus.SubscribeFunc(typ, func(_ context.Context, ev events.Event) error {
			r.history.Append(ev)
			log.Info("Game event",
				zap.String("type", string(ev.Type())),
				zap.Uint64("slot", ev.Base().Slot),
				zap.String("player", ev.Base().Player.String()))
			return nil
		})
	}
}

// Run drives the slot clock until the context is cancelled or a
// termination signal arrives.
func (r *Runner) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.runClock(ctx) })
	g.Go(func() error { return r.runSlots(ctx) })

	err := g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if busErr := r.bus.Shutdown(shutdownCtx); busErr != nil {
		r.logger.Warn("Event bus shutdown", zap.Error(busErr))
	}

	if r.history.Len() > 0 {
		if _, expErr := r.history.Export(export.Options{
			Format:    export.FormatCSV,
			OutputDir: "exports",
		}); expErr != nil {
			r.logger.Warn("History export failed", zap.Error(expErr))
		}
	}

	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// runClock produces slot numbers, either from the chain or from a
// local ticker starting at the configured start slot.
func (r *Runner) runClock(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(r.cfg.SlotInterval) * time.Millisecond)
	defer ticker.Stop()

	slot := r.cfg.StartSlot
	for {
		select {
		case <-ctx.Done():
			close(r.slots)
			return ctx.Err()
		case <-ticker.C:
		}

		if r.rpc != nil {
			current, err := r.rpc.CurrentSlot(ctx)
			if err != nil {
				r.logger.Warn("Slot fetch failed", zap.Error(err))
				continue
			}
			if current <= slot {
				continue
			}
			slot = current
		} else {
			slot++
			r.win.Record(slot, syntheticHash(slot))
		}

		select {
		case r.slots <- slot:
		default:
			// Consumer is behind; skipping a slot is harmless, the
			// accumulators catch up on the next one.
		}
	}
}

// runSlots applies per-slot work: keeping the reward pools current,
// backfilling entropy, and stepping the simulated players.
func (r *Runner) runSlots(ctx context.Context) error {
	for slot := range r.slots {
		if r.rpc != nil {
			if err := r.rpc.Fetch(ctx, slot); err != nil {
				r.logger.Debug("Entropy fetch failed",
					zap.Uint64("slot", slot), zap.Error(err))
			}
		}

		if err := r.eng.UpdatePool(r.gs, r.authority.PublicKey(), slot); err != nil {
			return err
		}

		for name, w := range r.wallets {
			r.stepPlayer(name, w, slot)
		}

		if slot%claimEverySlots == 0 {
			r.logger.Info("Pool state",
				zap.Uint64("slot", slot),
				zap.Uint64("total_hashpower", r.gs.TotalHashpower),
				zap.Uint64("cumulative_rewards", r.gs.CumulativeRewards),
				zap.Uint64("burned", r.gs.BurnedTokens))
		}
	}
	return nil
}

// stepPlayer runs one wallet's scripted behavior for a slot. Failed
// preconditions are the engine saying "not yet", so they only log.
func (r *Runner) stepPlayer(name string, w *wallet.Wallet, slot uint64) {
	p, ok := r.players[name]
	if !ok {
		created, err := r.eng.PurchaseInitialFarm(r.gs, nil, w.PublicKey, nil, slot)
		if err != nil {
			r.logger.Debug("Purchase skipped", zap.String("wallet", name), zap.Error(err))
			return
		}
		r.players[name] = created
		return
	}

	if p.IsPending() {
		if _, err := r.eng.SettleOpenBooster(r.gs, p, slot); err != nil {
			r.logger.Debug("Booster settle skipped", zap.String("wallet", name), zap.Error(err))
		}
		return
	}

	// Stake the first card that fits, one per slot.
	for i := uint8(0); i < p.CardCount; i++ {
		if p.IsCardStaked(i) {
			continue
		}
		if err := r.eng.StakeCard(r.gs, p, i, slot); err == nil {
			return
		}
		break
	}

	if slot%boosterEverySlots == 0 {
		if err := r.eng.OpenBoosterCommit(r.gs, p, slot); err != nil {
			r.logger.Debug("Booster commit skipped", zap.String("wallet", name), zap.Error(err))
		}
		return
	}

	if slot%claimEverySlots == 0 {
		if _, err := r.eng.ClaimRewards(r.gs, p, slot); err != nil {
			r.logger.Debug("Claim skipped", zap.String("wallet", name), zap.Error(err))
		}
	}
}

func syntheticHash(slot uint64) solana.Hash {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], slot)
	return solana.Hash(sha256.Sum256(buf[:]))
}
