package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// LocalConfigFileName is read by viper as the lowest precedence config source
const LocalConfigFileName = "config.local.json"

// LocalConfigStoreAdapter keeps per-checkout defaults next to devnet.json.
type LocalConfigStoreAdapter struct {
	configPath string
}

// NewLocalConfigStoreAdapter creates a new LocalConfigStoreAdapter
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{
		configPath: filepath.Join(cfg.DataDir, LocalConfigFileName),
	}
}

// Exists checks if the config file exists
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.configPath)
	return !os.IsNotExist(err)
}

// Load reads the local defaults. A missing file yields empty defaults.
func (s *LocalConfigStoreAdapter) Load(_ context.Context) (*config.LocalConfig, error) {
	data, err := os.ReadFile(s.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.DefaultLocalConfig(), nil
		}
		return nil, fmt.Errorf("failed to read local config: %w", err)
	}

	local := config.DefaultLocalConfig()
	if err := json.Unmarshal(data, local); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", s.configPath, err)
	}
	if err := normalizeLocalConfig(local); err != nil {
		return nil, fmt.Errorf("invalid local config %s: %w", s.configPath, err)
	}
	return local, nil
}

// Save writes the local defaults with the governor address checksummed.
func (s *LocalConfigStoreAdapter) Save(_ context.Context, local *config.LocalConfig) error {
	normalized := *local
	if err := normalizeLocalConfig(&normalized); err != nil {
		return err
	}

	data, err := json.MarshalIndent(&normalized, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal local config: %w", err)
	}
	if err := writeFileAtomic(s.configPath, data); err != nil {
		return fmt.Errorf("failed to write local config: %w", err)
	}
	*local = normalized
	return nil
}

// GetPath returns the path to the config file
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.configPath
}

// normalizeLocalConfig trims every value and checksums the governor address.
// From stays as written since it may be an account alias.
func normalizeLocalConfig(local *config.LocalConfig) error {
	local.From = strings.TrimSpace(local.From)
	local.RPCURL = strings.TrimSpace(local.RPCURL)
	local.Governor = strings.TrimSpace(local.Governor)
	if local.Governor == "" {
		return nil
	}
	if !common.IsHexAddress(local.Governor) {
		return fmt.Errorf("governor %q is not an address", local.Governor)
	}
	local.Governor = common.HexToAddress(local.Governor).Hex()
	return nil
}

var _ usecase.LocalConfigStore = (*LocalConfigStoreAdapter)(nil)
