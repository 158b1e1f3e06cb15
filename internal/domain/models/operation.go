package models

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/govlock/internal/chain"
)

// OperationState is the status of a timelock operation.
// Ready is never stored; it is derived from Waiting and the clock.
type OperationState uint8

const (
	OperationUnset OperationState = iota
	OperationWaiting
	OperationReady
	OperationDone
	OperationCanceled
)

func (s OperationState) String() string {
	switch s {
	case OperationUnset:
		return "unset"
	case OperationWaiting:
		return "waiting"
	case OperationReady:
		return "ready"
	case OperationDone:
		return "done"
	case OperationCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Operation is a scheduled timelock operation (one call or a batch).
type Operation struct {
	ID          common.Hash    `json:"id"`
	Calls       []chain.Call   `json:"calls"`
	Predecessor common.Hash    `json:"predecessor,omitempty"`
	Salt        common.Hash    `json:"salt"`
	ReadyAt     uint64         `json:"readyAt"`
	Status      OperationState `json:"status"`
	Batch       bool           `json:"batch"`
}

// StateAt derives the operation state at the given timestamp.
func (o *Operation) StateAt(timestamp uint64) OperationState {
	if o == nil {
		return OperationUnset
	}
	if o.Status == OperationWaiting && timestamp >= o.ReadyAt {
		return OperationReady
	}
	return o.Status
}

// Clone returns a deep copy of the operation.
func (o *Operation) Clone() *Operation {
	c := *o
	c.Calls = make([]chain.Call, len(o.Calls))
	for i, call := range o.Calls {
		c.Calls[i] = chain.Call{
			Target: call.Target,
			Value:  new(big.Int).Set(chain.ValueOrZero(call.Value)),
			Data:   append(hexutil.Bytes(nil), call.Data...),
		}
	}
	return &c
}
