// ==================================
// File: internal/export/export.go
// ==================================

// Package export records game events and writes filtered history
// files for offline analysis.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hashfarm/hashfarm/internal/events"
)

// Format represents the export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Options configures an export run. Zero values leave a filter open.
type Options struct {
	Format       Format
	FromSlot     uint64
	ToSlot       uint64
	TypeFilter   events.EventType
	PlayerFilter string // base58 wallet
	OutputDir    string
}

// Record is one exported event row.
type Record struct {
	Type   string    `json:"type"`
	Player string    `json:"player"`
	Slot   uint64    `json:"slot"`
	Time   time.Time `json:"time"`
	Detail string    `json:"detail,omitempty"`
}

// History is a thread-safe in-memory event log fed from the bus.
type History struct {
	mu      sync.Mutex
	records []Record
	logger  *zap.Logger
}

// NewHistory creates an empty history.
func NewHistory(log *zap.Logger) *History {
	return &History{logger: log.Named("export")}
}

// Append converts an event into a row and stores it.
func (h *History) Append(ev events.Event) {
	base := ev.Base()
	rec := Record{
		Type:   string(ev.Type()),
		Player: base.Player.String(),
		Slot:   base.Slot,
		Time:   base.EventTime,
		Detail: detailOf(ev),
	}

	h.mu.Lock()
	h.records = append(h.records, rec)
	h.mu.Unlock()
}

// Len reports the number of recorded events.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

// detailOf renders the type-specific payload of the events that carry
// one; the rest export with an empty detail column.
func detailOf(ev events.Event) string {
	switch e := ev.(type) {
	case events.FarmPurchasedEvent:
		return fmt.Sprintf("farm_type=%d initial_cards=%d", e.FarmType, e.InitialCards)
	case events.FarmUpgradedEvent:
		return fmt.Sprintf("farm_type=%d", e.NewFarmType)
	case events.CardStakedEvent:
		return fmt.Sprintf("index=%d card_id=%d", e.CardIndex, e.CardID)
	case events.CardUnstakedEvent:
		return fmt.Sprintf("index=%d card_id=%d", e.CardIndex, e.CardID)
	case events.CardDiscardedEvent:
		return fmt.Sprintf("index=%d", e.CardIndex)
	case events.BoosterOpenedEvent:
		return fmt.Sprintf("card_ids=%v", e.CardIDs)
	case events.CardsRecycledEvent:
		return fmt.Sprintf("recycled=%d upgrades=%d", e.TotalRecycled, e.SuccessfulUpgrades)
	case events.RewardsClaimedEvent:
		return fmt.Sprintf("amount=%d", e.Amount)
	case events.TokensStakedEvent:
		return fmt.Sprintf("amount=%d", e.Amount)
	case events.TokensUnstakedEvent:
		return fmt.Sprintf("amount=%d", e.Amount)
	}
	return ""
}

// Export writes the filtered history and returns the written path.
func (h *History) Export(opts Options) (string, error) {
	filtered := h.filter(opts)
	if len(filtered) == 0 {
		return "", fmt.Errorf("no events match the export criteria")
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Slot < filtered[j].Slot
	})

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	outputPath := filepath.Join(opts.OutputDir, h.filename(opts))

	var err error
	switch opts.Format {
	case FormatCSV:
		err = writeCSV(filtered, outputPath)
	case FormatJSON:
		err = writeJSON(filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", opts.Format)
	}
	if err != nil {
		return "", err
	}

	h.logger.Info("History exported",
		zap.String("path", outputPath),
		zap.Int("events", len(filtered)))
	return outputPath, nil
}

func (h *History) filter(opts Options) []Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Record, 0, len(h.records))
	for _, rec := range h.records {
		if opts.FromSlot > 0 && rec.Slot < opts.FromSlot {
			continue
		}
		if opts.ToSlot > 0 && rec.Slot > opts.ToSlot {
			continue
		}
		if opts.TypeFilter != "" && rec.Type != string(opts.TypeFilter) {
			continue
		}
		if opts.PlayerFilter != "" && rec.Player != opts.PlayerFilter {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (h *History) filename(opts Options) string {
	name := "events_" + time.Now().UTC().Format("20060102_150405")
	if opts.TypeFilter != "" {
		name += "_" + string(opts.TypeFilter)
	}
	return name + "." + string(opts.Format)
}

func writeCSV(records []Record, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"slot", "time", "type", "player", "detail"}); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatUint(rec.Slot, 10),
			rec.Time.UTC().Format(time.RFC3339),
			rec.Type,
			rec.Player,
			rec.Detail,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(records []Record, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
