package fs

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

func newTestDevnetStore(t *testing.T) *DevnetStoreAdapter {
	t.Helper()
	cfg := &config.RuntimeConfig{
		DataDir: filepath.Join(t.TempDir(), ".govlock"),
	}
	return NewDevnetStoreAdapter(cfg)
}

func TestDevnetStore_LoadMissing(t *testing.T) {
	store := newTestDevnetStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrDevnetNotInitialized)
}

func TestDevnetStore_SaveAndLoad(t *testing.T) {
	store := newTestDevnetStore(t)
	ctx := context.Background()
	deployer := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

	state := &models.DevnetState{
		Addresses: models.DevnetAddresses{Deployer: deployer},
		Chain: models.ChainState{
			ChainID:   31337,
			Block:     12,
			Timestamp: 1_700_000_012,
			BlockTime: 1,
			Balances:  map[common.Address]*big.Int{deployer: big.NewInt(1000)},
		},
		Box: models.BoxState{Owner: deployer, Value: big.NewInt(42)},
	}

	require.NoError(t, store.Save(ctx, state))
	assert.FileExists(t, store.Path())

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), loaded.Chain.Block)
	assert.Equal(t, int64(1000), loaded.Chain.Balances[deployer].Int64())
	assert.Equal(t, int64(42), loaded.Box.Value.Int64())
	assert.Equal(t, deployer, loaded.Addresses.Deployer)

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestDevnetStore_Corrupt(t *testing.T) {
	store := newTestDevnetStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	_, err := store.Load(context.Background())
	assert.ErrorContains(t, err, "failed to parse devnet state file")
}

func TestDevnetStore_Delete(t *testing.T) {
	store := newTestDevnetStore(t)
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx), "deleting a missing file is not an error")
	require.NoError(t, store.Save(ctx, &models.DevnetState{}))
	require.NoError(t, store.Delete(ctx))
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrDevnetNotInitialized)
}
