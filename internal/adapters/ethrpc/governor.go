package ethrpc

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

var governorABI = mustParseABI(`[
	{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"token","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"state","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"proposalSnapshot","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"proposalDeadline","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"proposalVotes","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[{"name":"againstVotes","type":"uint256"},{"name":"forVotes","type":"uint256"},{"name":"abstainVotes","type":"uint256"}]},
	{"type":"function","name":"quorum","stateMutability":"view","inputs":[{"name":"timepoint","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"hasVoted","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"},{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"castVoteWithReason","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"},{"name":"support","type":"uint8"},{"name":"reason","type":"string"}],"outputs":[{"name":"","type":"uint256"}]}
]`)

// GovernorClient reads and votes on a deployed OpenZeppelin-style Governor.
type GovernorClient struct {
	backend  Backend
	governor common.Address
	clock    *HeadClock
	log      *slog.Logger
}

func NewGovernorClient(backend Backend, governor common.Address, log *slog.Logger) *GovernorClient {
	return &GovernorClient{
		backend:  backend,
		governor: governor,
		clock:    NewHeadClock(backend),
		log:      log.With("component", "GovernorClient"),
	}
}

// Name returns the Governor name.
func (g *GovernorClient) Name(ctx context.Context) (string, error) {
	out, err := call(ctx, g.backend, governorABI, g.governor, nil, "name")
	if err != nil {
		return "", err
	}
	return out[0].(string), nil
}

// Token returns the voting token of the Governor.
func (g *GovernorClient) Token(ctx context.Context) (common.Address, error) {
	out, err := call(ctx, g.backend, governorABI, g.governor, nil, "token")
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

// Proposal reads state, window, tally and quorum of id.
func (g *GovernorClient) Proposal(ctx context.Context, id common.Hash) (*models.RemoteProposal, error) {
	pid := new(big.Int).SetBytes(id[:])
	p := &models.RemoteProposal{ID: id}

	out, err := call(ctx, g.backend, governorABI, g.governor, nil, "state", pid)
	if err != nil {
		return nil, err
	}
	p.State = models.ProposalState(out[0].(uint8))

	if out, err = call(ctx, g.backend, governorABI, g.governor, nil, "proposalSnapshot", pid); err != nil {
		return nil, err
	}
	p.Snapshot = out[0].(*big.Int).Uint64()

	if out, err = call(ctx, g.backend, governorABI, g.governor, nil, "proposalDeadline", pid); err != nil {
		return nil, err
	}
	p.Deadline = out[0].(*big.Int).Uint64()

	if out, err = call(ctx, g.backend, governorABI, g.governor, nil, "proposalVotes", pid); err != nil {
		return nil, err
	}
	p.Against, p.For, p.Abstain = out[0].(*big.Int), out[1].(*big.Int), out[2].(*big.Int)

	head, err := g.clock.Now(ctx)
	if err != nil {
		return nil, err
	}
	if p.Snapshot < head.BlockNumber() {
		if out, err = call(ctx, g.backend, governorABI, g.governor, nil, "quorum", new(big.Int).SetUint64(p.Snapshot)); err != nil {
			return nil, err
		}
		p.Quorum = out[0].(*big.Int)
	}
	return p, nil
}

// HasVoted reports whether account voted on id.
func (g *GovernorClient) HasVoted(ctx context.Context, id common.Hash, account common.Address) (bool, error) {
	out, err := call(ctx, g.backend, governorABI, g.governor, nil, "hasVoted", new(big.Int).SetBytes(id[:]), account)
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

// CastVote sends castVoteWithReason through invoker.
func (g *GovernorClient) CastVote(ctx context.Context, invoker chain.Callable, id common.Hash, support models.VoteType, reason string) error {
	if !support.Valid() {
		return fmt.Errorf("invalid vote type %d", support)
	}
	input, err := governorABI.Pack("castVoteWithReason", new(big.Int).SetBytes(id[:]), uint8(support), reason)
	if err != nil {
		return fmt.Errorf("failed to pack castVoteWithReason: %w", err)
	}
	g.log.Debug("casting remote vote", "governor", g.governor.Hex(), "proposal", id.Hex(), "support", support)
	if _, err := invoker.Invoke(ctx, g.governor, nil, input); err != nil {
		return fmt.Errorf("failed to cast vote: %w", err)
	}
	return nil
}
