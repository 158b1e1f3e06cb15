// Package devnet deploys the governance contracts on a simulated chain in the
// same order as the reference deployment and persists the result.
package devnet

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/adapters/simchain"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"github.com/trebuchet-org/govlock/internal/governance"
	"github.com/trebuchet-org/govlock/internal/timelock"
)

// NFT metadata of the voting collection.
const (
	NFTName   = "MyNFT"
	NFTSymbol = "MNFT"
)

// Config is the deployment input.
type Config struct {
	Governor config.GovernorConfig
	Timelock config.TimelockConfig
	Devnet   config.DevnetConfig
}

// Devnet is a deployed governance system on a simulator.
type Devnet struct {
	Sim       *simchain.Simulator
	NFT       *simchain.VotesNFT
	Box       *simchain.Box
	Governor  *governance.Governor
	Timelock  *timelock.Scheduler
	Addresses models.DevnetAddresses

	cfg           Config
	governorStore *governance.MemoryStore
	timelockStore *timelock.MemoryStore
}

// Deploy deploys NFT, Timelock, Box and Governor. The timelock is deployed
// before the Governor, so the Governor's future address is granted the
// proposer role up front, and the Box is handed to the timelock before the
// Governor exists.
func Deploy(ctx context.Context, cfg Config, sink domain.EventSink, log *slog.Logger) (*Devnet, error) {
	deployer, err := parseAddress(cfg.Devnet.Deployer, "devnet deployer")
	if err != nil {
		return nil, err
	}
	if deployer == (common.Address{}) {
		return nil, fmt.Errorf("devnet deployer is not configured")
	}
	guardian, err := parseAddress(cfg.Governor.Guardian, "governor guardian")
	if err != nil {
		return nil, err
	}
	admin, err := parseAddress(cfg.Timelock.Admin, "timelock admin")
	if err != nil {
		return nil, err
	}
	if cfg.Governor.VotingPeriod == 0 {
		return nil, fmt.Errorf("%w: voting period must be positive", domain.ErrInvalidSetting)
	}

	sim := simchain.NewSimulator(cfg.Devnet.ChainID, cfg.Devnet.GenesisTime, cfg.Devnet.BlockTime, sink, log)
	d := &Devnet{Sim: sim, cfg: cfg}
	d.Addresses = models.DevnetAddresses{
		Deployer: deployer,
		NFT:      sim.AddressAt(deployer, 0),
		Timelock: sim.AddressAt(deployer, 1),
		Box:      sim.AddressAt(deployer, 2),
		// nonce 3 is the ownership transfer
		Governor: sim.AddressAt(deployer, 4),
	}

	steps := []struct {
		name string
		run  func(ctx context.Context) error
	}{
		{"deploy " + NFTName, func(context.Context) error {
			sim.UseNonce(deployer)
			d.NFT = simchain.NewVotesNFT(d.Addresses.NFT, NFTName, NFTSymbol, deployer, sim)
			sim.Register(d.NFT)
			return nil
		}},
		{"deploy TimeLock", func(context.Context) error {
			sim.UseNonce(deployer)
			d.timelockStore = timelock.NewMemoryStore(nil)
			d.newTimelock(log)
			executors := []common.Address{d.Addresses.Governor}
			if cfg.Timelock.OpenExecutor {
				executors = []common.Address{{}}
			}
			d.Timelock.Initialize(sim, timelock.Params{
				MinDelay:  cfg.Timelock.MinDelay,
				Proposers: []common.Address{d.Addresses.Governor},
				Executors: executors,
				Admin:     admin,
			})
			return nil
		}},
		{"deploy Box", func(context.Context) error {
			sim.UseNonce(deployer)
			d.Box = simchain.NewBox(d.Addresses.Box, deployer, new(big.Int).SetUint64(cfg.Devnet.BoxInitialValue), sim, sim)
			sim.Register(d.Box)
			return nil
		}},
		{"transfer Box ownership", func(ctx context.Context) error {
			sim.UseNonce(deployer)
			data, err := simchain.Pack(d.Box, "transferOwnership", d.Addresses.Timelock)
			if err != nil {
				return err
			}
			_, err = sim.Caller(deployer).Invoke(ctx, d.Addresses.Box, nil, data)
			return err
		}},
		{"deploy " + cfg.Governor.Name, func(context.Context) error {
			sim.UseNonce(deployer)
			d.governorStore = governance.NewMemoryStore(&models.GovernorState{Settings: models.GovernorSettings{
				VotingDelay:       cfg.Governor.VotingDelay,
				VotingPeriod:      cfg.Governor.VotingPeriod,
				ProposalThreshold: new(big.Int).SetUint64(cfg.Governor.ProposalThreshold),
			}})
			d.newGovernor(guardian, log)
			return nil
		}},
	}
	for _, step := range steps {
		if err := sim.Transact(ctx, step.run); err != nil {
			return nil, fmt.Errorf("failed to %s: %w", step.name, err)
		}
	}
	return d, nil
}

// Restore rebuilds a devnet from a persisted state.
func Restore(state *models.DevnetState, sink domain.EventSink, log *slog.Logger) (*Devnet, error) {
	guardian, err := parseAddress(state.GovernorConfig.Guardian, "governor guardian")
	if err != nil {
		return nil, err
	}
	chainState := state.Chain
	sim := simchain.NewSimulator(chainState.ChainID, chainState.Timestamp, chainState.BlockTime, sink, log)
	sim.RestoreChain(chainState)

	d := &Devnet{
		Sim:       sim,
		Addresses: state.Addresses,
		cfg: Config{
			Governor: state.GovernorConfig,
			Timelock: state.TimelockConfig,
		},
	}
	d.NFT = simchain.RestoreVotesNFT(state.Addresses.NFT, state.NFT, sim)
	sim.Register(d.NFT)

	timelockState := state.Timelock
	d.timelockStore = timelock.NewMemoryStore(&timelockState)
	d.newTimelock(log)

	d.Box = simchain.RestoreBox(state.Addresses.Box, state.Box, sim, sim)
	sim.Register(d.Box)

	governorState := state.Governor
	d.governorStore = governance.NewMemoryStore(&governorState)
	d.newGovernor(guardian, log)
	return d, nil
}

func (d *Devnet) newTimelock(log *slog.Logger) {
	d.Timelock = timelock.NewScheduler(d.Addresses.Timelock, d.timelockStore, d.Sim.Caller(d.Addresses.Timelock), d.Sim, log)
	d.Sim.Register(simchain.NewTimelockContract(d.Timelock))
	d.Sim.Track(d.timelockStore)
}

func (d *Devnet) newGovernor(guardian common.Address, log *slog.Logger) {
	d.Governor = governance.NewGovernor(
		d.Addresses.Governor,
		governance.Config{
			Name:                  d.cfg.Governor.Name,
			GracePeriod:           d.cfg.Governor.GracePeriod,
			RejectZeroWeightVotes: d.cfg.Governor.RejectZeroWeightVotes,
			Guardian:              guardian,
		},
		d.governorStore,
		d.NFT,
		governance.NewQuorumPolicy(d.cfg.Governor, d.NFT),
		d.Timelock,
		d.Sim,
		log,
	)
	d.Sim.Register(simchain.NewGovernorContract(d.Governor))
	d.Sim.Track(d.governorStore)
}

// Export returns the persisted form of the devnet.
func (d *Devnet) Export() *models.DevnetState {
	return &models.DevnetState{
		GovernorConfig: d.cfg.Governor,
		TimelockConfig: d.cfg.Timelock,
		Addresses:      d.Addresses,
		Chain:          d.Sim.Export(),
		NFT:            d.NFT.Export(),
		Box:            d.Box.Export(),
		Governor:       *d.governorStore.Export(),
		Timelock:       *d.timelockStore.Export(),
	}
}

// Transact runs fn as one devnet transaction.
func (d *Devnet) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.Sim.Transact(ctx, fn)
}

func parseAddress(s, what string) (common.Address, error) {
	if s == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid %s address %q", what, s)
	}
	return common.HexToAddress(s), nil
}
