package governance

import (
	"math/big"

	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// countVote adds weight to the bucket selected by support.
func countVote(p *models.Proposal, support models.VoteType, weight *big.Int) {
	bucket := func(v **big.Int) {
		if *v == nil {
			*v = new(big.Int)
		}
		(*v).Add(*v, weight)
	}
	switch support {
	case models.VoteAgainst:
		bucket(&p.AgainstVotes)
	case models.VoteFor:
		bucket(&p.ForVotes)
	case models.VoteAbstain:
		bucket(&p.AbstainVotes)
	}
}

// voteSucceeded is the simple majority rule: strictly more for than against.
func voteSucceeded(p *models.Proposal) bool {
	return chain.ValueOrZero(p.ForVotes).Cmp(chain.ValueOrZero(p.AgainstVotes)) > 0
}

// quorumReached counts for, against and abstain towards the quorum.
// Reaching the quorum exactly is enough.
func quorumReached(p *models.Proposal, quorum *big.Int) bool {
	return p.TotalVotes().Cmp(quorum) >= 0
}
