package simchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"github.com/trebuchet-org/govlock/internal/governance"
	"github.com/trebuchet-org/govlock/internal/timelock"
)

var (
	parsedGovernorABI = mustParseABI(governorABI)
	parsedTimelockABI = mustParseABI(timelockABI)
)

// ProposalIDToInt converts a proposal id to its uint256 ABI form.
func ProposalIDToInt(id common.Hash) *big.Int {
	return new(big.Int).SetBytes(id[:])
}

// GovernorContract exposes a Governor through its Solidity ABI so that
// proposals and accounts can call it like the deployed contract.
type GovernorContract struct {
	governor *governance.Governor
	calls    *dispatcher
}

// NewGovernorContract wraps g.
func NewGovernorContract(g *governance.Governor) *GovernorContract {
	c := &GovernorContract{governor: g}
	proposalID := func(arg any) common.Hash { return common.BigToHash(arg.(*big.Int)) }
	proposal := func(arg any) (*models.Proposal, error) {
		return g.Proposal(proposalID(arg))
	}

	c.calls = &dispatcher{
		abi: parsedGovernorABI,
		handlers: map[string]handler{
			"name": func(context.Context, Msg, []any) ([]any, error) { return []any{g.Name()}, nil },
			"votingDelay": func(context.Context, Msg, []any) ([]any, error) {
				return []any{new(big.Int).SetUint64(g.Settings().VotingDelay)}, nil
			},
			"votingPeriod": func(context.Context, Msg, []any) ([]any, error) {
				return []any{new(big.Int).SetUint64(g.Settings().VotingPeriod)}, nil
			},
			"proposalThreshold": func(context.Context, Msg, []any) ([]any, error) {
				return []any{new(big.Int).Set(chain.ValueOrZero(g.Settings().ProposalThreshold))}, nil
			},
			"quorum": func(ctx context.Context, _ Msg, args []any) ([]any, error) {
				block, err := uint64Arg(args[0])
				if err != nil {
					return nil, err
				}
				q, err := g.Quorum(ctx, block)
				return []any{q}, err
			},
			"state": func(ctx context.Context, msg Msg, args []any) ([]any, error) {
				state, err := g.State(ctx, msg.Clock, proposalID(args[0]))
				return []any{uint8(state)}, err
			},
			"proposalSnapshot": func(_ context.Context, _ Msg, args []any) ([]any, error) {
				p, err := proposal(args[0])
				if err != nil {
					return nil, err
				}
				return []any{new(big.Int).SetUint64(p.VoteStart)}, nil
			},
			"proposalDeadline": func(_ context.Context, _ Msg, args []any) ([]any, error) {
				p, err := proposal(args[0])
				if err != nil {
					return nil, err
				}
				return []any{new(big.Int).SetUint64(p.VoteEnd)}, nil
			},
			"hasVoted": func(_ context.Context, _ Msg, args []any) ([]any, error) {
				return []any{g.HasVoted(proposalID(args[0]), args[1].(common.Address))}, nil
			},
			"proposalVotes": func(_ context.Context, _ Msg, args []any) ([]any, error) {
				against, forVotes, abstain, err := g.ProposalVotes(proposalID(args[0]))
				return []any{against, forVotes, abstain}, err
			},
			"hashProposal": func(_ context.Context, _ Msg, args []any) ([]any, error) {
				id := g.HashProposal(args[0].([]common.Address), args[1].([]*big.Int), args[2].([][]byte), args[3].([32]byte))
				return []any{ProposalIDToInt(id)}, nil
			},
			"propose": func(ctx context.Context, msg Msg, args []any) ([]any, error) {
				id, err := g.Propose(ctx, msg.Clock, msg.Sender, args[0].([]common.Address), args[1].([]*big.Int), args[2].([][]byte), args[3].(string))
				return []any{ProposalIDToInt(id)}, err
			},
			"castVote": func(ctx context.Context, msg Msg, args []any) ([]any, error) {
				weight, err := g.CastVote(ctx, msg.Clock, msg.Sender, proposalID(args[0]), models.VoteType(args[1].(uint8)))
				return []any{weight}, err
			},
			"castVoteWithReason": func(ctx context.Context, msg Msg, args []any) ([]any, error) {
				weight, err := g.CastVoteWithReason(ctx, msg.Clock, msg.Sender, proposalID(args[0]), models.VoteType(args[1].(uint8)), args[2].(string))
				return []any{weight}, err
			},
			"setVotingDelay": func(ctx context.Context, msg Msg, args []any) ([]any, error) {
				delay, err := uint64Arg(args[0])
				if err != nil {
					return nil, err
				}
				return nil, g.SetVotingDelay(ctx, msg.Clock, msg.Sender, delay)
			},
			"setVotingPeriod": func(ctx context.Context, msg Msg, args []any) ([]any, error) {
				period, err := uint64Arg(args[0])
				if err != nil {
					return nil, err
				}
				return nil, g.SetVotingPeriod(ctx, msg.Clock, msg.Sender, period)
			},
			"setProposalThreshold": func(ctx context.Context, msg Msg, args []any) ([]any, error) {
				return nil, g.SetProposalThreshold(ctx, msg.Clock, msg.Sender, args[0].(*big.Int))
			},
		},
	}
	return c
}

func (c *GovernorContract) Address() common.Address { return c.governor.Address() }
func (c *GovernorContract) ABI() *abi.ABI           { return parsedGovernorABI }

func (c *GovernorContract) Call(ctx context.Context, msg Msg, input []byte) ([]byte, error) {
	return c.calls.dispatch(ctx, msg, input)
}

// TimelockContract exposes a timelock Scheduler through its Solidity ABI.
// It accepts plain value transfers.
type TimelockContract struct {
	scheduler *timelock.Scheduler
	calls     *dispatcher
}

// NewTimelockContract wraps s.
func NewTimelockContract(s *timelock.Scheduler) *TimelockContract {
	c := &TimelockContract{scheduler: s}
	id := func(arg any) common.Hash { return common.Hash(arg.([32]byte)) }

	c.calls = &dispatcher{
		abi:     parsedTimelockABI,
		receive: true,
		handlers: map[string]handler{
			"getMinDelay": func(context.Context, Msg, []any) ([]any, error) {
				return []any{new(big.Int).SetUint64(s.MinDelay())}, nil
			},
			"getTimestamp": func(_ context.Context, _ Msg, args []any) ([]any, error) {
				return []any{new(big.Int).SetUint64(s.Timestamp(id(args[0])))}, nil
			},
			"isOperation": func(_ context.Context, _ Msg, args []any) ([]any, error) {
				return []any{s.IsOperation(id(args[0]))}, nil
			},
			"isOperationPending": func(_ context.Context, _ Msg, args []any) ([]any, error) {
				return []any{s.IsOperationPending(id(args[0]))}, nil
			},
			"isOperationReady": func(_ context.Context, msg Msg, args []any) ([]any, error) {
				return []any{s.IsOperationReady(msg.Clock, id(args[0]))}, nil
			},
			"isOperationDone": func(_ context.Context, _ Msg, args []any) ([]any, error) {
				return []any{s.IsOperationDone(id(args[0]))}, nil
			},
			"hasRole": func(_ context.Context, _ Msg, args []any) ([]any, error) {
				return []any{s.HasRole(id(args[0]), args[1].(common.Address))}, nil
			},
			"grantRole": func(ctx context.Context, msg Msg, args []any) ([]any, error) {
				return nil, s.GrantRole(ctx, msg.Clock, msg.Sender, id(args[0]), args[1].(common.Address))
			},
			"revokeRole": func(ctx context.Context, msg Msg, args []any) ([]any, error) {
				return nil, s.RevokeRole(ctx, msg.Clock, msg.Sender, id(args[0]), args[1].(common.Address))
			},
			"cancel": func(ctx context.Context, msg Msg, args []any) ([]any, error) {
				return nil, s.Cancel(ctx, msg.Clock, msg.Sender, id(args[0]))
			},
			"updateDelay": func(ctx context.Context, msg Msg, args []any) ([]any, error) {
				delay, err := uint64Arg(args[0])
				if err != nil {
					return nil, err
				}
				return nil, s.UpdateDelay(ctx, msg.Clock, msg.Sender, delay)
			},
		},
	}
	return c
}

func (c *TimelockContract) Address() common.Address { return c.scheduler.Address() }
func (c *TimelockContract) ABI() *abi.ABI           { return parsedTimelockABI }

func (c *TimelockContract) Call(ctx context.Context, msg Msg, input []byte) ([]byte, error) {
	return c.calls.dispatch(ctx, msg, input)
}
