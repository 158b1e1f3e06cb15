package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/adapters/simchain"
	"github.com/trebuchet-org/govlock/internal/devnet"
)

// MintVotesParams contains parameters for minting voting NFTs
type MintVotesParams struct {
	To    string
	Count int
}

// MintVotesResult reports the minted tokens and the new balance
type MintVotesResult struct {
	Account  common.Address `json:"account"`
	TokenIDs []uint64       `json:"tokenIds"`
	Votes    *big.Int       `json:"votes"`
	Clock    ChainClock     `json:"clock"`
}

// MintVotes mints voting NFTs from the collection owner, one transaction per
// token
type MintVotes struct {
	workspace *Workspace
}

// NewMintVotes creates a new MintVotes use case
func NewMintVotes(workspace *Workspace) *MintVotes {
	return &MintVotes{workspace: workspace}
}

// Run executes the mint votes use case
func (uc *MintVotes) Run(ctx context.Context, params MintVotesParams) (*MintVotesResult, error) {
	if params.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", params.Count)
	}
	to, err := uc.workspace.account(params.To)
	if err != nil {
		return nil, err
	}

	d, buf, err := uc.workspace.open(ctx)
	if err != nil {
		return nil, err
	}
	result := &MintVotesResult{Account: to}
	for i := 0; i < params.Count; i++ {
		next := d.NFT.TotalSupply().Uint64()
		err := uc.workspace.transactOn(ctx, d, func(ctx context.Context, d *devnet.Devnet) error {
			data, err := simchain.Pack(d.NFT, "safeMint", to)
			if err != nil {
				return err
			}
			_, err = d.Sim.Caller(d.NFT.Owner()).Invoke(ctx, d.Addresses.NFT, nil, data)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to mint token %d: %w", i+1, err)
		}
		result.TokenIDs = append(result.TokenIDs, next)
	}
	if err := uc.workspace.commit(ctx, d, buf); err != nil {
		return nil, err
	}

	result.Votes = d.NFT.BalanceOf(to)
	result.Clock = clockOf(d)
	return result, nil
}
