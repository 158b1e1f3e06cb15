package usecase

import (
	"context"

	"github.com/trebuchet-org/govlock/internal/devnet"
)

// ShowProposalParams contains parameters for showing a proposal
type ShowProposalParams struct {
	ProposalRef string
}

// ShowProposal reads a proposal, its votes and its timelock operation
type ShowProposal struct {
	workspace *Workspace
}

// NewShowProposal creates a new ShowProposal use case
func NewShowProposal(workspace *Workspace) *ShowProposal {
	return &ShowProposal{workspace: workspace}
}

// Run executes the show proposal use case
func (uc *ShowProposal) Run(ctx context.Context, params ShowProposalParams) (*ProposalDetails, error) {
	var details *ProposalDetails
	err := uc.workspace.view(ctx, func(d *devnet.Devnet) error {
		p, err := uc.workspace.resolveProposal(ctx, d, params.ProposalRef, "Select a proposal")
		if err != nil {
			return err
		}
		state, err := d.Governor.State(ctx, d.Sim, p.ID)
		if err != nil {
			return err
		}
		details = &ProposalDetails{
			Proposal: p,
			State:    state,
			Votes:    d.Governor.Votes(p.ID),
			Clock:    clockOf(d),
		}
		if p.VoteStart < d.Sim.BlockNumber() {
			if details.Quorum, err = d.Governor.Quorum(ctx, p.VoteStart); err != nil {
				return err
			}
		}
		if p.Queued() {
			if op, err := d.Timelock.Operation(p.TimelockID); err == nil {
				details.Operation = op
				details.OperationState = d.Timelock.OperationState(d.Sim, p.TimelockID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}
