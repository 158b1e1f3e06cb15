package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/govlock/internal/devnet"
)

// ExecuteProposalParams contains parameters for executing a proposal.
// WaitForETA mines the execution block at the proposal's ETA when the
// timelock delay has not elapsed yet.
type ExecuteProposalParams struct {
	ProposalRef string
	WaitForETA  bool
}

// ExecuteProposal executes a queued proposal through the timelock
type ExecuteProposal struct {
	workspace *Workspace
}

// NewExecuteProposal creates a new ExecuteProposal use case
func NewExecuteProposal(workspace *Workspace) *ExecuteProposal {
	return &ExecuteProposal{workspace: workspace}
}

// Run executes the execute proposal use case
func (uc *ExecuteProposal) Run(ctx context.Context, params ExecuteProposalParams) (*TransitionResult, error) {
	d, buf, err := uc.workspace.open(ctx)
	if err != nil {
		return nil, err
	}
	p, err := uc.workspace.resolveProposal(ctx, d, params.ProposalRef, "Select a proposal to execute")
	if err != nil {
		return nil, err
	}

	if params.WaitForETA && p.Queued() {
		next := d.Sim.Timestamp() + d.Sim.BlockTime()
		if p.ETA > next {
			if err := d.Sim.SetNextBlockTimestamp(p.ETA); err != nil {
				return nil, err
			}
			uc.workspace.sink.Info(fmt.Sprintf("Advancing to ETA %d", p.ETA))
		}
	}

	err = uc.workspace.transactOn(ctx, d, func(ctx context.Context, d *devnet.Devnet) error {
		return d.Governor.Execute(ctx, d.Sim, p.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute proposal: %w", err)
	}
	if err := uc.workspace.commit(ctx, d, buf); err != nil {
		return nil, err
	}

	state, err := d.Governor.State(ctx, d.Sim, p.ID)
	if err != nil {
		return nil, err
	}
	return &TransitionResult{ProposalID: p.ID, State: state, Clock: clockOf(d)}, nil
}
