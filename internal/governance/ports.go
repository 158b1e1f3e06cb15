package governance

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// VotingPowerSource reports historical voting power.
type VotingPowerSource interface {
	GetVotes(ctx context.Context, account common.Address, block uint64) (*big.Int, error)
	GetTotalSupply(ctx context.Context, block uint64) (*big.Int, error)
}

// Timelock is the part of the timelock scheduler the Governor drives.
// *timelock.Scheduler implements it.
type Timelock interface {
	Address() common.Address
	MinDelay() uint64
	ScheduleBatch(ctx context.Context, clock chain.Clock, caller common.Address, calls []chain.Call, predecessor, salt common.Hash, delay uint64) (common.Hash, error)
	ExecuteBatch(ctx context.Context, clock chain.Clock, caller common.Address, calls []chain.Call, predecessor, salt common.Hash) error
	Cancel(ctx context.Context, clock chain.Clock, caller common.Address, id common.Hash) error
	OperationState(clock chain.Clock, id common.Hash) models.OperationState
}
