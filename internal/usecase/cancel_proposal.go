package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/devnet"
)

// CancelProposalParams contains parameters for canceling a proposal
type CancelProposalParams struct {
	ProposalRef string
	Sender      string
}

// CancelProposal cancels a proposal as its proposer or the guardian
type CancelProposal struct {
	workspace *Workspace
}

// NewCancelProposal creates a new CancelProposal use case
func NewCancelProposal(workspace *Workspace) *CancelProposal {
	return &CancelProposal{workspace: workspace}
}

// Run executes the cancel proposal use case
func (uc *CancelProposal) Run(ctx context.Context, params CancelProposalParams) (*TransitionResult, error) {
	sender, err := uc.workspace.account(params.Sender)
	if err != nil {
		return nil, err
	}

	var id common.Hash
	d, err := uc.workspace.transact(ctx, func(ctx context.Context, d *devnet.Devnet) error {
		p, err := uc.workspace.resolveProposal(ctx, d, params.ProposalRef, "Select a proposal to cancel")
		if err != nil {
			return err
		}
		id = p.ID
		return d.Governor.Cancel(ctx, d.Sim, sender, p.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel proposal: %w", err)
	}

	state, err := d.Governor.State(ctx, d.Sim, id)
	if err != nil {
		return nil, err
	}
	return &TransitionResult{ProposalID: id, State: state, Clock: clockOf(d)}, nil
}
