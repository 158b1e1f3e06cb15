package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RemoteProposal is the view of a proposal read from a deployed Governor.
// Quorum is nil while the snapshot block is not yet final.
type RemoteProposal struct {
	ID       common.Hash   `json:"id"`
	State    ProposalState `json:"state"`
	Snapshot uint64        `json:"snapshot"`
	Deadline uint64        `json:"deadline"`
	Against  *big.Int      `json:"againstVotes"`
	For      *big.Int      `json:"forVotes"`
	Abstain  *big.Int      `json:"abstainVotes"`
	Quorum   *big.Int      `json:"quorum,omitempty"`
}

// VotingPower is an account's votes and the total supply at a block.
type VotingPower struct {
	Account common.Address `json:"account"`
	Block   uint64         `json:"block"`
	Votes   *big.Int       `json:"votes"`
	Supply  *big.Int       `json:"supply"`
}
