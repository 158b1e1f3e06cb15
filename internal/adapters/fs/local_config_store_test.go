package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govlock/internal/domain/config"
)

func newTestLocalConfigStore(t *testing.T) *LocalConfigStoreAdapter {
	t.Helper()
	return NewLocalConfigStoreAdapter(&config.RuntimeConfig{
		DataDir: filepath.Join(t.TempDir(), ".govlock"),
	})
}

func TestLocalConfigStore_LoadMissing(t *testing.T) {
	store := newTestLocalConfigStore(t)

	assert.False(t, store.Exists())
	local, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLocalConfig(), local)
}

func TestLocalConfigStore_SaveNormalizes(t *testing.T) {
	store := newTestLocalConfigStore(t)
	ctx := context.Background()

	local := &config.LocalConfig{
		From:     " alice ",
		RPCURL:   "http://localhost:8545\n",
		Governor: "0x70997970c51812dc3a010c7d01b50e0d17dc79c8",
	}
	require.NoError(t, store.Save(ctx, local))
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", local.Governor)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.From)
	assert.Equal(t, "http://localhost:8545", loaded.RPCURL)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", loaded.Governor)

	entries, err := os.ReadDir(filepath.Dir(store.GetPath()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalConfigStore_RejectsBadGovernor(t *testing.T) {
	store := newTestLocalConfigStore(t)
	ctx := context.Background()

	err := store.Save(ctx, &config.LocalConfig{Governor: "governor.eth"})
	assert.ErrorContains(t, err, "is not an address")
	assert.False(t, store.Exists())

	require.NoError(t, os.MkdirAll(filepath.Dir(store.GetPath()), 0755))
	require.NoError(t, os.WriteFile(store.GetPath(), []byte(`{"governor":"0x1234"}`), 0644))
	_, err = store.Load(ctx)
	assert.ErrorContains(t, err, "invalid local config")
}
