package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestProvider_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Provider(SetupViper(dir, nil))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, ".govlock"), cfg.DataDir)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
	assert.Empty(t, cfg.ConfigSource)
	assert.Equal(t, uint64(1), cfg.Governor.VotingDelay)
	assert.Equal(t, uint64(5), cfg.Governor.VotingPeriod)
	assert.Equal(t, uint64(2), cfg.Governor.Quorum)
	assert.Equal(t, uint64(2), cfg.Timelock.MinDelay)
	assert.Equal(t, uint64(42), cfg.Devnet.BoxInitialValue)
	assert.Equal(t, cfg.Accounts["deployer"], cfg.Devnet.Deployer)
}

func TestProvider_GovlockFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GUARDIAN_ADDRESS", "0x90F79bf6EB2c4f870365E785982E1f101E93b906")
	writeFile(t, dir, ".env", "GOVLOCK_RPC_URL=http://localhost:8545\nDAVE=0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65\n")
	writeFile(t, dir, ConfigFileName, `
[governor]
voting_period = 20
quorum_numerator = 4
guardian = "${GUARDIAN_ADDRESS}"

[timelock]
min_delay = 3600

[remote]
governor = "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"

[accounts]
dave = "${DAVE}"
`)
	t.Cleanup(func() {
		os.Unsetenv("GOVLOCK_RPC_URL")
		os.Unsetenv("DAVE")
	})

	cfg, err := Provider(SetupViper(dir, nil))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.ConfigSource)
	assert.Equal(t, uint64(20), cfg.Governor.VotingPeriod)
	assert.Equal(t, uint64(1), cfg.Governor.VotingDelay, "unset keys keep their defaults")
	assert.Equal(t, uint64(4), cfg.Governor.QuorumNumerator)
	assert.Equal(t, "0x90F79bf6EB2c4f870365E785982E1f101E93b906", cfg.Governor.Guardian)
	assert.Equal(t, uint64(3600), cfg.Timelock.MinDelay)
	assert.Equal(t, "0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65", cfg.Accounts["dave"])
	assert.Contains(t, cfg.Accounts, "alice", "default accounts are kept")
	assert.Equal(t, "http://localhost:8545", cfg.RPCURL)
	assert.Equal(t, "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0", cfg.RemoteGovernor)
}

func TestProvider_UnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, "[governor]\nvoting_periods = 20\n")

	_, err := Provider(SetupViper(dir, nil))
	assert.ErrorContains(t, err, "unknown keys in govlock.toml: governor.voting_periods")
}

func TestProvider_InvalidToml(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, "[governor\n")

	_, err := Provider(SetupViper(dir, nil))
	assert.ErrorContains(t, err, "failed to parse govlock.toml")
}

func TestProvider_EnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GOVLOCK_NON_INTERACTIVE", "true")
	t.Setenv("GOVLOCK_DATA_DIR", filepath.Join(dir, "state"))
	t.Setenv("GOVLOCK_PRIVATE_KEY", "0x01")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("from", "", "")
	cmd.Flags().Bool("json", false, "")
	require.NoError(t, cmd.Flags().Set("from", "alice"))
	require.NoError(t, cmd.Flags().Set("json", "true"))

	cfg, err := Provider(SetupViper(dir, cmd))
	require.NoError(t, err)

	assert.True(t, cfg.NonInteractive)
	assert.True(t, cfg.JSON)
	assert.Equal(t, "alice", cfg.From)
	assert.Equal(t, filepath.Join(dir, "state"), cfg.DataDir)
	assert.Equal(t, "0x01", cfg.PrivateKey)
}

func TestProvider_LocalConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".govlock"), 0755))
	writeFile(t, filepath.Join(dir, ".govlock"), "config.local.json", `{"from":"bob","rpc_url":"http://node:8545"}`)

	cfg, err := Provider(SetupViper(dir, nil))
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.From)
	assert.Equal(t, "http://node:8545", cfg.RPCURL)

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("from", "", "")
	require.NoError(t, cmd.Flags().Set("from", "carol"))

	cfg, err = Provider(SetupViper(dir, cmd))
	require.NoError(t, err)
	assert.Equal(t, "carol", cfg.From, "flags win over local config")
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ConfigFileName, "")
	nested := filepath.Join(root, "proposals", "2026")
	require.NoError(t, os.MkdirAll(nested, 0755))

	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(nested))

	found, err := FindProjectRoot()
	require.NoError(t, err)

	expected, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}
