package governance

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/govlock/internal/chain"
)

var proposalArgs = func() abi.Arguments {
	addresses, _ := abi.NewType("address[]", "", nil)
	uints, _ := abi.NewType("uint256[]", "", nil)
	payloads, _ := abi.NewType("bytes[]", "", nil)
	hash, _ := abi.NewType("bytes32", "", nil)
	return abi.Arguments{{Type: addresses}, {Type: uints}, {Type: payloads}, {Type: hash}}
}()

// HashDescription returns keccak256 of the proposal description.
func HashDescription(description string) common.Hash {
	return crypto.Keccak256Hash([]byte(description))
}

// HashProposal returns keccak256(abi.encode(targets, values, calldatas, descriptionHash)),
// the id a Governor assigns to a proposal.
func HashProposal(targets []common.Address, values []*big.Int, calldatas [][]byte, descriptionHash common.Hash) common.Hash {
	normalized := make([]*big.Int, len(values))
	for i, v := range values {
		normalized[i] = chain.ValueOrZero(v)
	}
	if targets == nil {
		targets = []common.Address{}
	}
	if calldatas == nil {
		calldatas = [][]byte{}
	}
	packed, err := proposalArgs.Pack(targets, normalized, calldatas, [32]byte(descriptionHash))
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(packed)
}
