// Package chain defines the ledger capabilities the governance core consumes:
// a clock for block number and timestamp, a callable for dispatching calls to
// arbitrary targets, and an optional journal for atomic batches.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Clock exposes the current block number and block timestamp (unix seconds).
type Clock interface {
	BlockNumber() uint64
	Timestamp() uint64
}

// Callable dispatches a call with attached native value to a target address.
// Implementations wrap domain.ErrUnderlyingCallReverted when the call fails.
type Callable interface {
	Invoke(ctx context.Context, target common.Address, value *big.Int, payload []byte) ([]byte, error)
}

// Journal is implemented by ledgers that can roll back state changes.
// RevertToSnapshot discards every change made after the matching Snapshot.
type Journal interface {
	Snapshot() int
	RevertToSnapshot(id int)
}

// Call is a single (target, value, calldata) triple.
type Call struct {
	Target common.Address `json:"target"`
	Value  *big.Int       `json:"value"`
	Data   hexutil.Bytes  `json:"data"`
}

// FixedClock is a Clock pinned to a block number and timestamp.
type FixedClock struct {
	Block uint64
	Time  uint64
}

func (c FixedClock) BlockNumber() uint64 { return c.Block }
func (c FixedClock) Timestamp() uint64   { return c.Time }

// ValueOrZero returns v, or a fresh zero when v is nil.
func ValueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// IsUint256 reports whether v fits a Solidity uint256. nil counts as zero.
func IsUint256(v *big.Int) bool {
	return v == nil || (v.Sign() >= 0 && v.BitLen() <= 256)
}

// CheckedAdd adds two timestamps or block numbers, reporting false on overflow.
func CheckedAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum >= a
}

// Journaled is state that a Journal captures on Snapshot and puts back on
// RevertToSnapshot. CaptureState must return a deep copy.
type Journaled interface {
	CaptureState() any
	RestoreState(state any)
}
