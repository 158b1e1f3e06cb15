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

func writeProposal(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProposalLoader_Load(t *testing.T) {
	dir := t.TempDir()
	loader := NewProposalLoaderAdapter(&config.RuntimeConfig{ProjectRoot: dir})
	ctx := context.Background()

	t.Run("yaml", func(t *testing.T) {
		path := writeProposal(t, dir, "store.yaml", `
description: "Proposal #1: store 555 in the Box!"
actions:
  - target: box
    signature: setValue(uint256)
    args: ["555"]
  - target: alice
    value: "1000000000000000000"
  - target: "0x5FC8d32690cc91D4c39d9d3abcBD16989F875707"
    calldata: "0x55241077"
`)
		draft, err := loader.Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "Proposal #1: store 555 in the Box!", draft.Description)
		require.Len(t, draft.Actions, 3)
		assert.Equal(t, "box", draft.Actions[0].Target)
		assert.Equal(t, "setValue(uint256)", draft.Actions[0].Signature)
		assert.Equal(t, []string{"555"}, draft.Actions[0].Args)
		assert.Equal(t, "1000000000000000000", draft.Actions[1].Value)
		assert.Equal(t, "0x55241077", draft.Actions[2].Calldata)
	})

	t.Run("json relative to project root", func(t *testing.T) {
		writeProposal(t, dir, "store.json", `{"description": "json", "actions": [{"target": "box", "signature": "getValue()"}]}`)
		draft, err := loader.Load(ctx, "store.json")
		require.NoError(t, err)
		assert.Equal(t, "json", draft.Description)
		assert.Len(t, draft.Actions, 1)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := writeProposal(t, dir, "typo.yaml", "description: x\nactions:\n  - target: box\n    sig: setValue(uint256)\n")
		_, err := loader.Load(ctx, path)
		assert.ErrorContains(t, err, "failed to parse proposal file")
	})

	t.Run("no actions", func(t *testing.T) {
		path := writeProposal(t, dir, "empty-actions.yaml", "description: nothing to do\n")
		_, err := loader.Load(ctx, path)
		assert.ErrorContains(t, err, "has no actions")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeProposal(t, dir, "empty.yaml", "")
		_, err := loader.Load(ctx, path)
		assert.ErrorContains(t, err, "is empty")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(ctx, filepath.Join(dir, "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read proposal file")
	})
}
