package ledger

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTransfer(t *testing.T) {
	m := NewMemory()
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()

	require.NoError(t, m.MintTo(a, 100))
	require.NoError(t, m.Transfer(a, b, 40))
	assert.Equal(t, uint64(60), m.Balance(a))
	assert.Equal(t, uint64(40), m.Balance(b))

	err := m.Transfer(a, b, 61)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, uint64(60), m.Balance(a), "failed transfer must move nothing")
	assert.Equal(t, uint64(40), m.Balance(b))
}

func TestMemoryZeroAmountsAreNoops(t *testing.T) {
	m := NewMemory()
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()

	require.NoError(t, m.Transfer(a, b, 0))
	require.NoError(t, m.Burn(a, 0))
	assert.Zero(t, m.Balance(a))
	assert.Zero(t, m.Burned())
}

func TestMemoryBurn(t *testing.T) {
	m := NewMemory()
	a := solana.NewWallet().PublicKey()
	require.NoError(t, m.MintTo(a, 50))
	require.NoError(t, m.Burn(a, 20))
	assert.Equal(t, uint64(30), m.Balance(a))
	assert.Equal(t, uint64(20), m.Burned())

	assert.ErrorIs(t, m.Burn(a, 31), ErrInsufficientFunds)
	assert.Equal(t, uint64(30), m.Balance(a))
}
