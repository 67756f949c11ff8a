// ==================================
// File: internal/export/export_test.go
// ==================================
package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hashfarm/hashfarm/internal/events"
)

func testEvent(typ events.EventType, player solana.PublicKey, slot uint64) events.BaseEvent {
	return events.BaseEvent{
		EventType: typ,
		EventTime: time.Now().UTC(),
		Slot:      slot,
		Player:    player,
	}
}

func seededHistory(t *testing.T) (*History, solana.PublicKey, solana.PublicKey) {
	t.Helper()
	h := NewHistory(zap.NewNop())
	alice := solana.NewWallet().PublicKey()
	bob := solana.NewWallet().PublicKey()

	h.Append(events.FarmPurchasedEvent{
		BaseEvent:    testEvent(events.FarmPurchased, alice, 10),
		FarmType:     1,
		InitialCards: 3,
	})
	h.Append(events.CardStakedEvent{
		BaseEvent: testEvent(events.CardStaked, alice, 12),
		CardIndex: 0,
		CardID:    1,
	})
	h.Append(events.RewardsClaimedEvent{
		BaseEvent: testEvent(events.RewardsClaimed, bob, 20),
		Amount:    600,
	})
	return h, alice, bob
}

func TestExportCSV(t *testing.T) {
	h, _, _ := seededHistory(t)
	dir := t.TempDir()

	path, err := h.Export(Options{Format: FormatCSV, OutputDir: dir})
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + three events
	assert.Equal(t, []string{"slot", "time", "type", "player", "detail"}, rows[0])
	assert.Equal(t, "10", rows[1][0])
	assert.Equal(t, string(events.FarmPurchased), rows[1][2])
	assert.Equal(t, "farm_type=1 initial_cards=3", rows[1][4])
	assert.Equal(t, "amount=600", rows[3][4])
}

func TestExportJSONWithFilters(t *testing.T) {
	h, alice, _ := seededHistory(t)
	dir := t.TempDir()

	path, err := h.Export(Options{
		Format:       FormatJSON,
		OutputDir:    dir,
		PlayerFilter: alice.String(),
		FromSlot:     11,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []Record
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, string(events.CardStaked), records[0].Type)
	assert.Equal(t, uint64(12), records[0].Slot)
}

func TestExportNoMatches(t *testing.T) {
	h := NewHistory(zap.NewNop())
	_, err := h.Export(Options{Format: FormatCSV, OutputDir: t.TempDir()})
	assert.Error(t, err)
}
