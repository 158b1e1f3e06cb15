package governance

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// Setting names carried by GovernorSettingChanged events.
const (
	SettingVotingDelay       = "votingDelay"
	SettingVotingPeriod      = "votingPeriod"
	SettingProposalThreshold = "proposalThreshold"
)

// SetVotingDelay changes the voting delay of future proposals.
// Only the executor (the timelock) may call it.
func (g *Governor) SetVotingDelay(ctx context.Context, clock chain.Clock, caller common.Address, delay uint64) error {
	if err := g.onlyGovernance(caller); err != nil {
		return err
	}
	return g.updateSettings(clock, SettingVotingDelay, new(big.Int).SetUint64(delay), func(s *models.GovernorSettings) *big.Int {
		old := new(big.Int).SetUint64(s.VotingDelay)
		s.VotingDelay = delay
		return old
	})
}

// SetVotingPeriod changes the voting period of future proposals. It must be positive.
func (g *Governor) SetVotingPeriod(ctx context.Context, clock chain.Clock, caller common.Address, period uint64) error {
	if err := g.onlyGovernance(caller); err != nil {
		return err
	}
	if period == 0 {
		return fmt.Errorf("%w: voting period must be positive", domain.ErrInvalidSetting)
	}
	return g.updateSettings(clock, SettingVotingPeriod, new(big.Int).SetUint64(period), func(s *models.GovernorSettings) *big.Int {
		old := new(big.Int).SetUint64(s.VotingPeriod)
		s.VotingPeriod = period
		return old
	})
}

// SetProposalThreshold changes the voting power needed to propose.
func (g *Governor) SetProposalThreshold(ctx context.Context, clock chain.Clock, caller common.Address, threshold *big.Int) error {
	if err := g.onlyGovernance(caller); err != nil {
		return err
	}
	if threshold == nil || !chain.IsUint256(threshold) {
		return fmt.Errorf("%w: proposal threshold must be a uint256", domain.ErrInvalidSetting)
	}
	return g.updateSettings(clock, SettingProposalThreshold, new(big.Int).Set(threshold), func(s *models.GovernorSettings) *big.Int {
		old := chain.ValueOrZero(s.ProposalThreshold)
		s.ProposalThreshold = new(big.Int).Set(threshold)
		return old
	})
}

// updateSettings applies a change the caller has already been authorized for.
func (g *Governor) updateSettings(clock chain.Clock, name string, value *big.Int, apply func(*models.GovernorSettings) *big.Int) error {
	settings := g.store.Settings()
	old := apply(&settings)
	g.store.SetSettings(settings)

	g.events.Emit(domain.SettingChangedEvent{
		EventMeta: g.meta(clock),
		Setting:   name,
		OldValue:  old,
		NewValue:  value,
	})
	g.log.Debug("setting changed", "setting", name, "old", old, "new", value)
	return nil
}

func (g *Governor) onlyGovernance(caller common.Address) error {
	if caller != g.timelock.Address() {
		return fmt.Errorf("%w: %s is not the governance executor", domain.ErrUnauthorized, caller.Hex())
	}
	return nil
}
