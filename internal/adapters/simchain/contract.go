package simchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/chain"
)

// Msg is the call context seen by a contract.
type Msg struct {
	Sender common.Address
	Value  *big.Int
	Clock  chain.Clock
}

// Contract is code living at an address of the simulator.
type Contract interface {
	Address() common.Address
	ABI() *abi.ABI
	Call(ctx context.Context, msg Msg, input []byte) ([]byte, error)
}

// Revert builds the error returned by a reverting contract.
func Revert(format string, args ...any) error {
	return fmt.Errorf("execution reverted: "+format, args...)
}

// uint64Arg narrows a uint256 argument, reverting when it does not fit.
func uint64Arg(arg any) (uint64, error) {
	v := arg.(*big.Int)
	if !v.IsUint64() {
		return 0, Revert("value out of range: %s", v)
	}
	return v.Uint64(), nil
}

type handler func(ctx context.Context, msg Msg, args []any) ([]any, error)

// dispatcher routes calldata to handlers by ABI method name.
type dispatcher struct {
	abi      *abi.ABI
	handlers map[string]handler
	receive  bool
}

func mustParseABI(definition string) *abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(fmt.Sprintf("invalid contract ABI: %v", err))
	}
	return &parsed
}

func (d *dispatcher) dispatch(ctx context.Context, msg Msg, input []byte) ([]byte, error) {
	if len(input) == 0 {
		if d.receive {
			return nil, nil
		}
		return nil, Revert("contract does not accept plain transfers")
	}
	if len(input) < 4 {
		return nil, Revert("calldata shorter than a selector")
	}
	method, err := d.abi.MethodById(input[:4])
	if err != nil {
		return nil, Revert("function selector 0x%x not recognized", input[:4])
	}
	if msg.Value != nil && msg.Value.Sign() > 0 && !method.IsPayable() {
		return nil, Revert("%s is not payable", method.Name)
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, Revert("invalid arguments for %s: %v", method.Name, err)
	}
	h, ok := d.handlers[method.Name]
	if !ok {
		return nil, Revert("%s is not implemented", method.Name)
	}
	out, err := h(ctx, msg, args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(out...)
}

// Pack encodes a call to method of contract.
func Pack(c Contract, method string, args ...any) ([]byte, error) {
	return c.ABI().Pack(method, args...)
}

// Unpack decodes the return data of method.
func Unpack(c Contract, method string, data []byte) ([]any, error) {
	return c.ABI().Unpack(method, data)
}

var errNotOwner = errors.New("execution reverted: Ownable: caller is not the owner")
