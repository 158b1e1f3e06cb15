package governance

import (
	"context"
	"fmt"
	"math/big"

	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/config"
)

// QuorumPolicy returns the minimum participation for a proposal whose
// snapshot is block. Implementations must be deterministic for past blocks.
type QuorumPolicy interface {
	Quorum(ctx context.Context, block uint64) (*big.Int, error)
}

// FixedQuorum is a constant vote count.
type FixedQuorum struct {
	Votes *big.Int
}

func (q FixedQuorum) Quorum(context.Context, uint64) (*big.Int, error) {
	if q.Votes == nil {
		return new(big.Int), nil
	}
	return new(big.Int).Set(q.Votes), nil
}

// FractionQuorum is Numerator/Denominator of the total supply at the
// snapshot block, rounded down.
type FractionQuorum struct {
	Numerator   uint64
	Denominator uint64
	Supply      VotingPowerSource
}

func (q FractionQuorum) Quorum(ctx context.Context, block uint64) (*big.Int, error) {
	if q.Denominator == 0 || q.Numerator > q.Denominator {
		return nil, fmt.Errorf("%w: quorum fraction %d/%d", domain.ErrInvalidSetting, q.Numerator, q.Denominator)
	}
	supply, err := q.Supply.GetTotalSupply(ctx, block)
	if err != nil {
		return nil, fmt.Errorf("failed to read total supply at block %d: %w", block, err)
	}
	quorum := new(big.Int).Mul(supply, new(big.Int).SetUint64(q.Numerator))
	return quorum.Div(quorum, new(big.Int).SetUint64(q.Denominator)), nil
}

// NewQuorumPolicy picks the quorum policy described by cfg. A non-zero
// numerator selects a supply fraction, otherwise the fixed quorum applies.
func NewQuorumPolicy(cfg config.GovernorConfig, supply VotingPowerSource) QuorumPolicy {
	if cfg.QuorumNumerator > 0 {
		denominator := cfg.QuorumDenominator
		if denominator == 0 {
			denominator = 100
		}
		return FractionQuorum{Numerator: cfg.QuorumNumerator, Denominator: denominator, Supply: supply}
	}
	return FixedQuorum{Votes: new(big.Int).SetUint64(cfg.Quorum)}
}
