package usecase

import (
	"context"
	"fmt"
)

// AdvanceChainParams contains parameters for moving the devnet clock.
// Seconds is added to the next block; Timestamp pins it instead.
type AdvanceChainParams struct {
	Blocks    uint64
	Seconds   uint64
	Timestamp uint64
}

// AdvanceChain mines empty blocks and moves time forward
type AdvanceChain struct {
	workspace *Workspace
}

// NewAdvanceChain creates a new AdvanceChain use case
func NewAdvanceChain(workspace *Workspace) *AdvanceChain {
	return &AdvanceChain{workspace: workspace}
}

// Run executes the advance chain use case
func (uc *AdvanceChain) Run(ctx context.Context, params AdvanceChainParams) (*ChainClock, error) {
	if params.Seconds > 0 && params.Timestamp > 0 {
		return nil, fmt.Errorf("seconds and timestamp are mutually exclusive")
	}
	blocks := params.Blocks
	if blocks == 0 && (params.Seconds > 0 || params.Timestamp > 0) {
		blocks = 1
	}

	d, buf, err := uc.workspace.open(ctx)
	if err != nil {
		return nil, err
	}
	if params.Timestamp > 0 {
		if err := d.Sim.SetNextBlockTimestamp(params.Timestamp); err != nil {
			return nil, err
		}
	}
	d.Sim.IncreaseTime(params.Seconds)
	d.Sim.Mine(blocks)
	uc.workspace.log.Debug("chain advanced", "blocks", blocks, "block", d.Sim.BlockNumber(), "timestamp", d.Sim.Timestamp())

	if err := uc.workspace.commit(ctx, d, buf); err != nil {
		return nil, err
	}
	clock := clockOf(d)
	return &clock, nil
}
