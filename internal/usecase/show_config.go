package usecase

import (
	"context"

	"github.com/trebuchet-org/govlock/internal/domain/config"
)

// ShowConfigResult contains the result of showing configuration
type ShowConfigResult struct {
	Config       *config.LocalConfig   `json:"local"`
	ConfigPath   string                `json:"localPath"`
	Exists       bool                  `json:"exists"`
	ConfigSource string                `json:"configSource,omitempty"`
	Governor     config.GovernorConfig `json:"governor"`
	Timelock     config.TimelockConfig `json:"timelock"`
	Devnet       config.DevnetConfig   `json:"devnet"`
	Accounts     map[string]string     `json:"accounts"`
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	config *config.RuntimeConfig
	store  LocalConfigStore
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, store LocalConfigStore) *ShowConfig {
	return &ShowConfig{
		config: cfg,
		store:  store,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	exists := uc.store.Exists()

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &ShowConfigResult{
		Config:       local,
		ConfigPath:   uc.store.GetPath(),
		Exists:       exists,
		ConfigSource: uc.config.ConfigSource,
		Governor:     uc.config.Governor,
		Timelock:     uc.config.Timelock,
		Devnet:       uc.config.Devnet,
		Accounts:     uc.config.Accounts,
	}, nil
}
