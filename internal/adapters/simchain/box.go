package simchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

var parsedBoxABI = mustParseABI(boxABI)

// Box is the governed target: an Ownable value store.
type Box struct {
	address common.Address
	state   models.BoxState
	clock   chain.Clock
	events  domain.EventSink
	calls   *dispatcher
}

// NewBox deploys a Box holding initial, owned by owner.
func NewBox(address, owner common.Address, initial *big.Int, clock chain.Clock, events domain.EventSink) *Box {
	return RestoreBox(address, models.BoxState{Owner: owner, Value: initial}, clock, events)
}

// RestoreBox recreates a Box from a persisted state.
func RestoreBox(address common.Address, state models.BoxState, clock chain.Clock, events domain.EventSink) *Box {
	b := &Box{address: address, clock: clock, events: events}
	b.RestoreState(state)
	b.calls = &dispatcher{
		abi: parsedBoxABI,
		handlers: map[string]handler{
			"getValue": func(context.Context, Msg, []any) ([]any, error) { return []any{b.Value()}, nil },
			"owner":    func(context.Context, Msg, []any) ([]any, error) { return []any{b.state.Owner}, nil },
			"setValue": func(_ context.Context, msg Msg, args []any) ([]any, error) {
				return nil, b.SetValue(msg.Sender, args[0].(*big.Int))
			},
			"transferOwnership": func(_ context.Context, msg Msg, args []any) ([]any, error) {
				return nil, b.TransferOwnership(msg.Sender, args[0].(common.Address))
			},
		},
	}
	return b
}

func (b *Box) Address() common.Address { return b.address }
func (b *Box) ABI() *abi.ABI           { return parsedBoxABI }
func (b *Box) Owner() common.Address   { return b.state.Owner }

func (b *Box) Call(ctx context.Context, msg Msg, input []byte) ([]byte, error) {
	return b.calls.dispatch(ctx, msg, input)
}

// Value returns the stored value.
func (b *Box) Value() *big.Int {
	return new(big.Int).Set(chain.ValueOrZero(b.state.Value))
}

// SetValue stores v. Only the owner may call it.
func (b *Box) SetValue(caller common.Address, v *big.Int) error {
	if caller != b.state.Owner {
		return errNotOwner
	}
	b.state.Value = new(big.Int).Set(v)
	b.events.Emit(domain.ValueChangedEvent{
		EventMeta: domain.EventMeta{Emitter: b.address, Block: b.clock.BlockNumber(), Timestamp: b.clock.Timestamp()},
		Value:     new(big.Int).Set(v),
	})
	return nil
}

// TransferOwnership hands the Box to newOwner.
func (b *Box) TransferOwnership(caller, newOwner common.Address) error {
	if caller != b.state.Owner {
		return errNotOwner
	}
	if newOwner == (common.Address{}) {
		return Revert("Ownable: new owner is the zero address")
	}
	b.state.Owner = newOwner
	return nil
}

// Export returns a copy of the persisted state.
func (b *Box) Export() models.BoxState {
	return models.BoxState{Owner: b.state.Owner, Value: b.Value()}
}

// CaptureState implements chain.Journaled.
func (b *Box) CaptureState() any {
	return b.Export()
}

// RestoreState implements chain.Journaled.
func (b *Box) RestoreState(state any) {
	s := state.(models.BoxState)
	b.state = models.BoxState{Owner: s.Owner, Value: new(big.Int).Set(chain.ValueOrZero(s.Value))}
}
