package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/trebuchet-org/govlock/internal/devnet"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// CastVoteParams contains parameters for casting a vote
type CastVoteParams struct {
	ProposalRef string
	Voter       string
	Support     string
	Reason      string
}

// CastVote casts a vote on an active proposal
type CastVote struct {
	workspace *Workspace
}

// NewCastVote creates a new CastVote use case
func NewCastVote(workspace *Workspace) *CastVote {
	return &CastVote{workspace: workspace}
}

// Run executes the cast vote use case
func (uc *CastVote) Run(ctx context.Context, params CastVoteParams) (*VoteResult, error) {
	support, err := models.ParseVoteType(params.Support)
	if err != nil {
		return nil, err
	}
	voter, err := uc.workspace.account(params.Voter)
	if err != nil {
		return nil, err
	}

	result := &VoteResult{Voter: voter, Support: support}
	d, err := uc.workspace.transact(ctx, func(ctx context.Context, d *devnet.Devnet) error {
		p, err := uc.workspace.resolveProposal(ctx, d, params.ProposalRef, "Select a proposal to vote on")
		if err != nil {
			return err
		}
		result.ProposalID = p.ID

		var weight *big.Int
		if params.Reason != "" {
			weight, err = d.Governor.CastVoteWithReason(ctx, d.Sim, voter, p.ID, support, params.Reason)
		} else {
			weight, err = d.Governor.CastVote(ctx, d.Sim, voter, p.ID, support)
		}
		result.Weight = weight
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cast vote: %w", err)
	}

	if result.State, err = d.Governor.State(ctx, d.Sim, result.ProposalID); err != nil {
		return nil, err
	}
	result.Clock = clockOf(d)
	return result, nil
}
