package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/trebuchet-org/govlock/internal/devnet"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// InitDevnetParams contains parameters for deploying the devnet
type InitDevnetParams struct {
	Force bool
}

// InitDevnetResult describes the deployed devnet
type InitDevnetResult struct {
	Addresses models.DevnetAddresses `json:"addresses"`
	Deployer  common.Address         `json:"deployer"`
	Funded    []common.Address       `json:"funded"`
	Clock     ChainClock             `json:"clock"`
	Events    int                    `json:"events"`
}

// InitDevnet deploys NFT, Timelock, Box and Governor on a fresh devnet
type InitDevnet struct {
	workspace *Workspace
}

// NewInitDevnet creates a new InitDevnet use case
func NewInitDevnet(workspace *Workspace) *InitDevnet {
	return &InitDevnet{workspace: workspace}
}

// initialBalance funds every configured account like a local dev node does.
var initialBalance = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(params.Ether))

// Run executes the init devnet use case
func (uc *InitDevnet) Run(ctx context.Context, p InitDevnetParams) (*InitDevnetResult, error) {
	ws := uc.workspace
	_, err := ws.repo.Load(ctx)
	switch {
	case err == nil && !p.Force:
		return nil, domain.ErrDevnetExists
	case err != nil && !errors.Is(err, domain.ErrDevnetNotInitialized):
		return nil, err
	}

	deployer, err := ws.account("deployer")
	if err != nil {
		return nil, fmt.Errorf("no deployer account configured: %w", err)
	}
	devnetCfg := ws.config.Devnet
	devnetCfg.Deployer = deployer.Hex()

	ws.sink.OnProgress(ctx, ProgressEvent{Stage: "deploying", Message: "Deploying governance contracts", Spinner: true})
	buf := &eventBuffer{}
	d, err := devnet.Deploy(ctx, devnet.Config{
		Governor: ws.config.Governor,
		Timelock: ws.config.Timelock,
		Devnet:   devnetCfg,
	}, buf, ws.log)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy devnet: %w", err)
	}

	result := &InitDevnetResult{Addresses: d.Addresses, Deployer: deployer, Events: len(buf.events)}
	funded := map[common.Address]bool{deployer: true}
	d.Sim.SetBalance(deployer, initialBalance)
	for _, address := range ws.config.Accounts {
		if !common.IsHexAddress(address) {
			continue
		}
		account := common.HexToAddress(address)
		if !funded[account] {
			d.Sim.SetBalance(account, initialBalance)
			funded[account] = true
		}
	}
	for account := range funded {
		result.Funded = append(result.Funded, account)
	}

	if err := ws.journal.Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset event journal: %w", err)
	}
	if err := ws.commit(ctx, d, buf); err != nil {
		return nil, err
	}
	result.Clock = clockOf(d)
	return result, nil
}
