package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/devnet"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// Use case result types

// ProposalSummary is a proposal with its derived state
type ProposalSummary struct {
	ID          common.Hash          `json:"id"`
	Description string               `json:"description"`
	Proposer    common.Address       `json:"proposer"`
	State       models.ProposalState `json:"state"`
	VoteStart   uint64               `json:"voteStart"`
	VoteEnd     uint64               `json:"voteEnd"`
	For         *big.Int             `json:"forVotes"`
	Against     *big.Int             `json:"againstVotes"`
	Abstain     *big.Int             `json:"abstainVotes"`
	ETA         uint64               `json:"eta,omitempty"`
}

// ProposalDetails is everything known about one proposal
type ProposalDetails struct {
	Proposal       *models.Proposal      `json:"proposal"`
	State          models.ProposalState  `json:"state"`
	Quorum         *big.Int              `json:"quorum,omitempty"`
	Votes          []*models.VoteRecord  `json:"votes"`
	Operation      *models.Operation     `json:"operation,omitempty"`
	OperationState models.OperationState `json:"operationState,omitempty"`
	Clock          ChainClock            `json:"clock"`
}

// ChainClock is the block number and timestamp of the devnet head
type ChainClock struct {
	Block     uint64 `json:"block"`
	Timestamp uint64 `json:"timestamp"`
}

// VoteResult is the outcome of a cast vote
type VoteResult struct {
	ProposalID common.Hash          `json:"proposalId"`
	Voter      common.Address       `json:"voter"`
	Support    models.VoteType      `json:"support"`
	Weight     *big.Int             `json:"weight"`
	State      models.ProposalState `json:"state"`
	Clock      ChainClock           `json:"clock"`
}

// QueueResult is the outcome of queueing a proposal
type QueueResult struct {
	ProposalID  common.Hash `json:"proposalId"`
	OperationID common.Hash `json:"operationId"`
	ETA         uint64      `json:"eta"`
	Clock       ChainClock  `json:"clock"`
}

// TransitionResult is the outcome of executing or canceling a proposal
type TransitionResult struct {
	ProposalID common.Hash          `json:"proposalId"`
	State      models.ProposalState `json:"state"`
	Clock      ChainClock           `json:"clock"`
}

func clockOf(d *devnet.Devnet) ChainClock {
	return ChainClock{Block: d.Sim.BlockNumber(), Timestamp: d.Sim.Timestamp()}
}

func summarize(ctx context.Context, d *devnet.Devnet, proposals []*models.Proposal) ([]*ProposalSummary, error) {
	out := make([]*ProposalSummary, 0, len(proposals))
	for _, p := range proposals {
		state, err := d.Governor.State(ctx, d.Sim, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &ProposalSummary{
			ID:          p.ID,
			Description: p.Description,
			Proposer:    p.Proposer,
			State:       state,
			VoteStart:   p.VoteStart,
			VoteEnd:     p.VoteEnd,
			For:         p.ForVotes,
			Against:     p.AgainstVotes,
			Abstain:     p.AbstainVotes,
			ETA:         p.ETA,
		})
	}
	return out, nil
}
