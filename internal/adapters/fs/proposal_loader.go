package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"github.com/trebuchet-org/govlock/internal/usecase"
	"gopkg.in/yaml.v3"
)

// ProposalLoaderAdapter reads proposal drafts from YAML files. JSON files
// load as well since YAML is a superset of JSON.
type ProposalLoaderAdapter struct {
	projectRoot string
}

// NewProposalLoaderAdapter creates a new ProposalLoaderAdapter. Relative
// paths resolve against the project root.
func NewProposalLoaderAdapter(cfg *config.RuntimeConfig) *ProposalLoaderAdapter {
	return &ProposalLoaderAdapter{projectRoot: cfg.ProjectRoot}
}

// Load reads and decodes the draft at path. Unknown keys are rejected.
func (l *ProposalLoaderAdapter) Load(_ context.Context, path string) (*models.ProposalDraft, error) {
	if !filepath.IsAbs(path) && l.projectRoot != "" {
		if _, err := os.Stat(path); err != nil {
			path = filepath.Join(l.projectRoot, path)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read proposal file: %w", err)
	}

	var draft models.ProposalDraft
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&draft); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("proposal file %s is empty", path)
		}
		return nil, fmt.Errorf("failed to parse proposal file %s: %w", path, err)
	}
	if len(draft.Actions) == 0 {
		return nil, fmt.Errorf("proposal file %s has no actions", path)
	}
	return &draft, nil
}

// Ensure ProposalLoaderAdapter implements ProposalLoader
var _ usecase.ProposalLoader = (*ProposalLoaderAdapter)(nil)
