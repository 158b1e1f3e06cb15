package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// GovernorSettings are the governance-controlled Governor parameters.
type GovernorSettings struct {
	VotingDelay       uint64   `json:"votingDelay"`
	VotingPeriod      uint64   `json:"votingPeriod"`
	ProposalThreshold *big.Int `json:"proposalThreshold"`
}

// GovernorState is the persisted state of a Governor.
type GovernorState struct {
	Settings  GovernorSettings `json:"settings"`
	Proposals []*Proposal      `json:"proposals"`
	Votes     []*VoteRecord    `json:"votes"`
}

// TimelockState is the persisted state of a Timelock.
type TimelockState struct {
	MinDelay   uint64                           `json:"minDelay"`
	Operations []*Operation                     `json:"operations"`
	Roles      map[common.Hash][]common.Address `json:"roles"`
}
