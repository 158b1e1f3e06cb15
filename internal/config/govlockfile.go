package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/govlock/internal/domain/config"
)

// ConfigFileName is the project configuration file.
const ConfigFileName = "govlock.toml"

// loadEnvFiles loads .env files from the project root. Variables already set
// in the environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// LoadGovlockFile decodes path over the defaults. A missing file yields the
// defaults and an empty source. Unknown keys are rejected.
func LoadGovlockFile(path string) (config.GovlockFileConfig, string, error) {
	cfg := config.DefaultGovlockFileConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, "", nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, "", fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return cfg, "", fmt.Errorf("unknown keys in %s: %s", filepath.Base(path), strings.Join(keys, ", "))
	}

	expandEnv(&cfg)
	return cfg, path, nil
}

// expandEnv expands ${VAR} references in the string settings that commonly
// carry addresses, URLs or keys.
func expandEnv(cfg *config.GovlockFileConfig) {
	cfg.Governor.Guardian = os.ExpandEnv(cfg.Governor.Guardian)
	cfg.Timelock.Admin = os.ExpandEnv(cfg.Timelock.Admin)
	cfg.Devnet.Deployer = os.ExpandEnv(cfg.Devnet.Deployer)
	cfg.Remote.RPCURL = os.ExpandEnv(cfg.Remote.RPCURL)
	cfg.Remote.Governor = os.ExpandEnv(cfg.Remote.Governor)
	cfg.Remote.PrivateKey = os.ExpandEnv(cfg.Remote.PrivateKey)
	for name, address := range cfg.Accounts {
		cfg.Accounts[name] = os.ExpandEnv(address)
	}
}
