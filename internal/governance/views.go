package governance

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

func (g *Governor) Address() common.Address { return g.address }
func (g *Governor) Name() string            { return g.cfg.Name }
func (g *Governor) Config() Config          { return g.cfg }

// Timelock returns the executor of queued proposals.
func (g *Governor) Timelock() Timelock { return g.timelock }

// Settings returns the governance-controlled parameters.
func (g *Governor) Settings() models.GovernorSettings {
	return g.store.Settings()
}

// Proposal returns a copy of the proposal record.
func (g *Governor) Proposal(id common.Hash) (*models.Proposal, error) {
	p, ok := g.store.Proposal(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProposalNotFound, id.Hex())
	}
	return p, nil
}

// Proposals returns every proposal in creation order.
func (g *Governor) Proposals() []*models.Proposal {
	return g.store.Proposals()
}

// Votes returns the votes cast on a proposal in the order they were cast.
func (g *Governor) Votes(id common.Hash) []*models.VoteRecord {
	return g.store.Votes(id)
}

// HasVoted reports whether account voted on the proposal.
func (g *Governor) HasVoted(id common.Hash, account common.Address) bool {
	_, ok := g.store.Vote(id, account)
	return ok
}

// ProposalVotes returns the against, for and abstain tallies.
func (g *Governor) ProposalVotes(id common.Hash) (against, forVotes, abstain *big.Int, err error) {
	p, err := g.Proposal(id)
	if err != nil {
		return nil, nil, nil, err
	}
	return p.AgainstVotes, p.ForVotes, p.AbstainVotes, nil
}

// Quorum returns the quorum for a proposal snapshotted at block.
func (g *Governor) Quorum(ctx context.Context, block uint64) (*big.Int, error) {
	return g.quorum.Quorum(ctx, block)
}

// GetVotes returns the voting power of account at block.
func (g *Governor) GetVotes(ctx context.Context, account common.Address, block uint64) (*big.Int, error) {
	return g.votes.GetVotes(ctx, account, block)
}

// HashProposal returns the id Propose would assign.
func (g *Governor) HashProposal(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) common.Hash {
	return HashProposal(targets, values, calldatas, descriptionHash)
}
