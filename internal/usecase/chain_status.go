package usecase

import (
	"context"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/devnet"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"github.com/trebuchet-org/govlock/internal/timelock"
)

// Holder is an account with voting power
type Holder struct {
	Account common.Address `json:"account"`
	Alias   string         `json:"alias,omitempty"`
	Votes   *big.Int       `json:"votes"`
	Balance *big.Int       `json:"balance"`
}

// ChainStatusResult is an overview of the devnet
type ChainStatusResult struct {
	ChainID      uint64                  `json:"chainId"`
	Clock        ChainClock              `json:"clock"`
	Addresses    models.DevnetAddresses  `json:"addresses"`
	GovernorName string                  `json:"governorName"`
	Settings     models.GovernorSettings `json:"settings"`
	Quorum       *big.Int                `json:"quorum"`
	MinDelay     uint64                  `json:"minDelay"`
	Proposers    []common.Address        `json:"proposers"`
	Executors    []common.Address        `json:"executors"`
	BoxValue     *big.Int                `json:"boxValue"`
	BoxOwner     common.Address          `json:"boxOwner"`
	TotalSupply  *big.Int                `json:"totalSupply"`
	Holders      []Holder                `json:"holders"`
	Proposals    map[string]int          `json:"proposals"`
}

// ChainStatus summarizes the devnet and its governance contracts
type ChainStatus struct {
	workspace *Workspace
}

// NewChainStatus creates a new ChainStatus use case
func NewChainStatus(workspace *Workspace) *ChainStatus {
	return &ChainStatus{workspace: workspace}
}

// Run executes the chain status use case
func (uc *ChainStatus) Run(ctx context.Context) (*ChainStatusResult, error) {
	var result *ChainStatusResult
	err := uc.workspace.view(ctx, func(d *devnet.Devnet) error {
		block := d.Sim.BlockNumber()
		past := uint64(0)
		if block > 0 {
			past = block - 1
		}
		quorum, err := d.Governor.Quorum(ctx, past)
		if err != nil {
			return err
		}
		counts, err := proposalCounts(ctx, d)
		if err != nil {
			return err
		}

		result = &ChainStatusResult{
			ChainID:      d.Sim.ChainID(),
			Clock:        clockOf(d),
			Addresses:    d.Addresses,
			GovernorName: d.Governor.Name(),
			Settings:     d.Governor.Settings(),
			Quorum:       quorum,
			MinDelay:     d.Timelock.MinDelay(),
			Proposers:    d.Timelock.RoleMembers(timelock.ProposerRole),
			Executors:    d.Timelock.RoleMembers(timelock.ExecutorRole),
			BoxValue:     d.Box.Value(),
			BoxOwner:     d.Box.Owner(),
			TotalSupply:  d.NFT.TotalSupply(),
			Proposals:    counts,
		}

		seen := make(map[common.Address]bool)
		for _, owner := range d.Export().NFT.Owners {
			if seen[owner] {
				continue
			}
			seen[owner] = true
			result.Holders = append(result.Holders, Holder{
				Account: owner,
				Alias:   uc.workspace.alias(owner),
				Votes:   d.NFT.BalanceOf(owner),
				Balance: d.Sim.BalanceOf(owner),
			})
		}
		sort.Slice(result.Holders, func(i, j int) bool {
			if c := result.Holders[i].Votes.Cmp(result.Holders[j].Votes); c != 0 {
				return c > 0
			}
			return result.Holders[i].Account.Cmp(result.Holders[j].Account) < 0
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// proposalCounts counts proposals per state name.
func proposalCounts(ctx context.Context, d *devnet.Devnet) (map[string]int, error) {
	summaries, err := summarize(ctx, d, d.Governor.Proposals())
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, s := range summaries {
		counts[s.State.String()]++
	}
	return counts, nil
}
