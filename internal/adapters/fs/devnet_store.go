package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// DevnetStoreAdapter implements DevnetRepository using the file system
type DevnetStoreAdapter struct {
	statePath string
}

// NewDevnetStoreAdapter creates a new DevnetStoreAdapter
func NewDevnetStoreAdapter(cfg *config.RuntimeConfig) *DevnetStoreAdapter {
	return &DevnetStoreAdapter{
		statePath: filepath.Join(cfg.DataDir, "devnet.json"),
	}
}

// Path returns the location of the state file.
func (s *DevnetStoreAdapter) Path() string {
	return s.statePath
}

// Load reads the devnet state from disk.
func (s *DevnetStoreAdapter) Load(_ context.Context) (*models.DevnetState, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrDevnetNotInitialized
		}
		return nil, fmt.Errorf("failed to read devnet state file: %w", err)
	}

	var state models.DevnetState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse devnet state file %s: %w", s.statePath, err)
	}
	return &state, nil
}

// Save writes the devnet state to disk. The file is replaced atomically so
// an interrupted write never leaves a truncated state behind.
func (s *DevnetStoreAdapter) Save(_ context.Context, state *models.DevnetState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal devnet state: %w", err)
	}
	if err := writeFileAtomic(s.statePath, data); err != nil {
		return fmt.Errorf("failed to write devnet state file: %w", err)
	}
	return nil
}

// Delete removes the devnet state file from disk.
func (s *DevnetStoreAdapter) Delete(_ context.Context) error {
	err := os.Remove(s.statePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete devnet state file: %w", err)
	}
	return nil
}

// Ensure DevnetStoreAdapter implements DevnetRepository
var _ usecase.DevnetRepository = (*DevnetStoreAdapter)(nil)
