package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/govlock/internal/devnet"
)

// QueueProposalParams contains parameters for queueing a proposal
type QueueProposalParams struct {
	ProposalRef string
}

// QueueProposal schedules a succeeded proposal on the timelock
type QueueProposal struct {
	workspace *Workspace
}

// NewQueueProposal creates a new QueueProposal use case
func NewQueueProposal(workspace *Workspace) *QueueProposal {
	return &QueueProposal{workspace: workspace}
}

// Run executes the queue proposal use case
func (uc *QueueProposal) Run(ctx context.Context, params QueueProposalParams) (*QueueResult, error) {
	result := &QueueResult{}
	d, err := uc.workspace.transact(ctx, func(ctx context.Context, d *devnet.Devnet) error {
		p, err := uc.workspace.resolveProposal(ctx, d, params.ProposalRef, "Select a proposal to queue")
		if err != nil {
			return err
		}
		result.ProposalID = p.ID
		result.OperationID, err = d.Governor.Queue(ctx, d.Sim, p.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to queue proposal: %w", err)
	}

	p, err := d.Governor.Proposal(result.ProposalID)
	if err != nil {
		return nil, err
	}
	result.ETA = p.ETA
	result.Clock = clockOf(d)
	return result, nil
}
