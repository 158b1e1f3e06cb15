package ethrpc

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/governance"
)

var votesABI = mustParseABI(`[
	{"type":"function","name":"getPastVotes","stateMutability":"view","inputs":[{"name":"account","type":"address"},{"name":"timepoint","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getPastTotalSupply","stateMutability":"view","inputs":[{"name":"timepoint","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]}
]`)

// VotesReader reads historical voting power from an IVotes token.
type VotesReader struct {
	backend Backend
	token   common.Address
	log     *slog.Logger
}

// NewVotesReader reads votes of the token at address token.
func NewVotesReader(backend Backend, token common.Address, log *slog.Logger) *VotesReader {
	return &VotesReader{backend: backend, token: token, log: log.With("component", "VotesReader")}
}

// GetVotes returns getPastVotes(account, block).
func (r *VotesReader) GetVotes(ctx context.Context, account common.Address, block uint64) (*big.Int, error) {
	r.log.Debug("reading past votes", "token", r.token.Hex(), "account", account.Hex(), "block", block)
	out, err := call(ctx, r.backend, votesABI, r.token, nil, "getPastVotes", account, new(big.Int).SetUint64(block))
	if err != nil {
		return nil, err
	}
	return asBig(out)
}

// GetTotalSupply returns getPastTotalSupply(block).
func (r *VotesReader) GetTotalSupply(ctx context.Context, block uint64) (*big.Int, error) {
	out, err := call(ctx, r.backend, votesABI, r.token, nil, "getPastTotalSupply", new(big.Int).SetUint64(block))
	if err != nil {
		return nil, err
	}
	return asBig(out)
}

func asBig(out []any) (*big.Int, error) {
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected output length %d", len(out))
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected output type %T", out[0])
	}
	return v, nil
}

var _ governance.VotingPowerSource = (*VotesReader)(nil)
