package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/domain/config"
)

// ChainState is the persisted clock and native balances of the devnet.
type ChainState struct {
	ChainID       uint64                      `json:"chainId"`
	Block         uint64                      `json:"block"`
	Timestamp     uint64                      `json:"timestamp"`
	BlockTime     uint64                      `json:"blockTime"`
	TimeOffset    uint64                      `json:"timeOffset,omitempty"`
	NextTimestamp uint64                      `json:"nextTimestamp,omitempty"`
	Balances      map[common.Address]*big.Int `json:"balances"`
	Nonces        map[common.Address]uint64   `json:"nonces,omitempty"`
}

// Checkpoint is a value recorded from a block onwards.
type Checkpoint struct {
	Block uint64   `json:"block"`
	Value *big.Int `json:"value"`
}

// NFTState is the persisted state of the voting NFT.
type NFTState struct {
	Name        string                          `json:"name"`
	Symbol      string                          `json:"symbol"`
	Owner       common.Address                  `json:"owner"`
	NextTokenID uint64                          `json:"nextTokenId"`
	Owners      map[uint64]common.Address       `json:"owners"`
	Votes       map[common.Address][]Checkpoint `json:"votes"`
	Supply      []Checkpoint                    `json:"supply"`
}

// BoxState is the persisted state of the governed Box.
type BoxState struct {
	Owner common.Address `json:"owner"`
	Value *big.Int       `json:"value"`
}

// DevnetAddresses are the deployed contract addresses.
type DevnetAddresses struct {
	Deployer common.Address `json:"deployer"`
	NFT      common.Address `json:"nft"`
	Timelock common.Address `json:"timelock"`
	Box      common.Address `json:"box"`
	Governor common.Address `json:"governor"`
}

// DevnetState is everything needed to resume a devnet.
type DevnetState struct {
	GovernorConfig config.GovernorConfig `json:"governorConfig"`
	TimelockConfig config.TimelockConfig `json:"timelockConfig"`
	Addresses      DevnetAddresses       `json:"addresses"`
	Chain          ChainState            `json:"chain"`
	NFT            NFTState              `json:"nft"`
	Box            BoxState              `json:"box"`
	Governor       GovernorState         `json:"governor"`
	Timelock       TimelockState         `json:"timelock"`
}
