package models

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ProposalState is the derived lifecycle state of a proposal.
// The numeric values match the Governor ABI enum.
type ProposalState uint8

const (
	ProposalPending ProposalState = iota
	ProposalActive
	ProposalCanceled
	ProposalDefeated
	ProposalSucceeded
	ProposalQueued
	ProposalExpired
	ProposalExecuted
)

var proposalStateNames = [...]string{
	ProposalPending:   "pending",
	ProposalActive:    "active",
	ProposalCanceled:  "canceled",
	ProposalDefeated:  "defeated",
	ProposalSucceeded: "succeeded",
	ProposalQueued:    "queued",
	ProposalExpired:   "expired",
	ProposalExecuted:  "executed",
}

func (s ProposalState) String() string {
	if int(s) < len(proposalStateNames) {
		return proposalStateNames[s]
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

func (s ProposalState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ProposalState) UnmarshalText(text []byte) error {
	parsed, err := ParseProposalState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s ProposalState) IsTerminal() bool {
	switch s {
	case ProposalCanceled, ProposalDefeated, ProposalExpired, ProposalExecuted:
		return true
	}
	return false
}

// ParseProposalState parses the lowercase state name.
func ParseProposalState(name string) (ProposalState, error) {
	for i, n := range proposalStateNames {
		if n == name {
			return ProposalState(i), nil
		}
	}
	return 0, fmt.Errorf("unknown proposal state %q", name)
}

// VoteType is the support value of a vote.
type VoteType uint8

const (
	VoteAgainst VoteType = iota
	VoteFor
	VoteAbstain
)

func (v VoteType) String() string {
	switch v {
	case VoteAgainst:
		return "against"
	case VoteFor:
		return "for"
	case VoteAbstain:
		return "abstain"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(v))
	}
}

// Valid reports whether v is one of against, for or abstain.
func (v VoteType) Valid() bool {
	return v <= VoteAbstain
}

// ParseVoteType accepts "for", "against", "abstain" or their numeric values.
func ParseVoteType(s string) (VoteType, error) {
	switch s {
	case "against", "0":
		return VoteAgainst, nil
	case "for", "1":
		return VoteFor, nil
	case "abstain", "2":
		return VoteAbstain, nil
	}
	return 0, fmt.Errorf("unknown vote type %q", s)
}

// Proposal is the stored record of a governance proposal.
type Proposal struct {
	// Identification
	ID              common.Hash    `json:"id"`
	Proposer        common.Address `json:"proposer"`
	DescriptionHash common.Hash    `json:"descriptionHash"`
	Description     string         `json:"description,omitempty"`

	// Calls
	Targets   []common.Address `json:"targets"`
	Values    []*big.Int       `json:"values"`
	Calldatas []hexutil.Bytes  `json:"calldatas"`

	// Voting window (block numbers)
	CreatedBlock uint64 `json:"createdBlock"`
	VoteStart    uint64 `json:"voteStart"`
	VoteEnd      uint64 `json:"voteEnd"`

	// Tally
	ForVotes     *big.Int `json:"forVotes"`
	AgainstVotes *big.Int `json:"againstVotes"`
	AbstainVotes *big.Int `json:"abstainVotes"`

	// Timelock
	TimelockID common.Hash `json:"timelockId,omitempty"`
	ETA        uint64      `json:"eta,omitempty"`

	Canceled bool `json:"canceled"`
	Executed bool `json:"executed"`
}

// Queued reports whether the proposal was handed to the timelock.
func (p *Proposal) Queued() bool {
	return p.TimelockID != (common.Hash{})
}

// TotalVotes returns for + against + abstain.
func (p *Proposal) TotalVotes() *big.Int {
	total := new(big.Int)
	for _, v := range []*big.Int{p.ForVotes, p.AgainstVotes, p.AbstainVotes} {
		if v != nil {
			total.Add(total, v)
		}
	}
	return total
}

// Clone returns a deep copy of the proposal.
func (p *Proposal) Clone() *Proposal {
	c := *p
	c.Targets = append([]common.Address(nil), p.Targets...)
	c.Values = make([]*big.Int, len(p.Values))
	for i, v := range p.Values {
		c.Values[i] = cloneInt(v)
	}
	c.Calldatas = make([]hexutil.Bytes, len(p.Calldatas))
	for i, d := range p.Calldatas {
		c.Calldatas[i] = append(hexutil.Bytes(nil), d...)
	}
	c.ForVotes = cloneInt(p.ForVotes)
	c.AgainstVotes = cloneInt(p.AgainstVotes)
	c.AbstainVotes = cloneInt(p.AbstainVotes)
	return &c
}

// VoteRecord is the vote of one account on one proposal.
type VoteRecord struct {
	ProposalID common.Hash    `json:"proposalId"`
	Voter      common.Address `json:"voter"`
	Support    VoteType       `json:"support"`
	Weight     *big.Int       `json:"weight"`
	Reason     string         `json:"reason,omitempty"`
	Block      uint64         `json:"block"`
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
