package wallet

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWalletRoundTrip(t *testing.T) {
	gen := Generate()
	w, err := NewWallet(gen.PrivateKey.String())
	require.NoError(t, err)
	assert.Equal(t, gen.PublicKey, w.PublicKey)
}

func TestNewWalletRejectsGarbage(t *testing.T) {
	_, err := NewWallet("not-base58!!!")
	assert.Error(t, err)

	_, err = NewWallet("abc") // decodes but wrong length
	assert.Error(t, err)
}

func TestLoadWallets(t *testing.T) {
	a, b := Generate(), Generate()
	body := fmt.Sprintf("Name,PrivateKey\nalice,%s\nbob,%s\nbroken,zzz\n",
		a.PrivateKey.String(), b.PrivateKey.String())

	path := filepath.Join(t.TempDir(), "wallets.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	wallets, err := LoadWallets(path)
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	assert.Equal(t, a.PublicKey, wallets["alice"].PublicKey)
	assert.Equal(t, b.PublicKey, wallets["bob"].PublicKey)
}
