package timelock

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/trebuchet-org/govlock/internal/chain"
)

var (
	addressTy, _      = abi.NewType("address", "", nil)
	uint256Ty, _      = abi.NewType("uint256", "", nil)
	bytesTy, _        = abi.NewType("bytes", "", nil)
	bytes32Ty, _      = abi.NewType("bytes32", "", nil)
	addressArrayTy, _ = abi.NewType("address[]", "", nil)
	uint256ArrayTy, _ = abi.NewType("uint256[]", "", nil)
	bytesArrayTy, _   = abi.NewType("bytes[]", "", nil)

	operationArgs = abi.Arguments{
		{Type: addressTy}, {Type: uint256Ty}, {Type: bytesTy}, {Type: bytes32Ty}, {Type: bytes32Ty},
	}
	operationBatchArgs = abi.Arguments{
		{Type: addressArrayTy}, {Type: uint256ArrayTy}, {Type: bytesArrayTy}, {Type: bytes32Ty}, {Type: bytes32Ty},
	}
)

// HashOperation returns keccak256(abi.encode(target, value, data, predecessor, salt)).
func HashOperation(call chain.Call, predecessor, salt common.Hash) common.Hash {
	packed, err := operationArgs.Pack(
		call.Target,
		chain.ValueOrZero(call.Value),
		[]byte(call.Data),
		[32]byte(predecessor),
		[32]byte(salt),
	)
	if err != nil {
		// Only reachable with malformed abi types.
		panic(err)
	}
	return crypto.Keccak256Hash(packed)
}

// HashOperationBatch returns keccak256(abi.encode(targets, values, payloads, predecessor, salt)).
func HashOperationBatch(calls []chain.Call, predecessor, salt common.Hash) common.Hash {
	targets, values, payloads := SplitCalls(calls)
	packed, err := operationBatchArgs.Pack(targets, values, payloads, [32]byte(predecessor), [32]byte(salt))
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(packed)
}

// SplitCalls returns the targets, values and payloads of calls as parallel slices.
func SplitCalls(calls []chain.Call) ([]common.Address, []*big.Int, [][]byte) {
	targets := lo.Map(calls, func(c chain.Call, _ int) common.Address { return c.Target })
	values := lo.Map(calls, func(c chain.Call, _ int) *big.Int { return chain.ValueOrZero(c.Value) })
	payloads := lo.Map(calls, func(c chain.Call, _ int) []byte { return []byte(c.Data) })
	return targets, values, payloads
}
