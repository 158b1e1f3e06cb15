// Package governance implements a Governor: proposals are created by holders
// above the proposal threshold, voted on during a block window, and handed to
// a timelock for delayed execution once they succeed.
package governance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// Config holds the Governor parameters that governance cannot change.
type Config struct {
	Name string
	// GracePeriod is how long (seconds) a ready operation can wait before the
	// proposal expires. Zero disables expiry.
	GracePeriod           uint64
	RejectZeroWeightVotes bool
	// Guardian may cancel any proposal besides its proposer.
	Guardian common.Address
}

// Governor is the proposal lifecycle engine. It is not safe for concurrent use.
type Governor struct {
	address  common.Address
	cfg      Config
	store    Store
	votes    VotingPowerSource
	quorum   QuorumPolicy
	timelock Timelock
	events   domain.EventSink
	log      *slog.Logger
}

// NewGovernor creates a Governor living at address.
func NewGovernor(
	address common.Address,
	cfg Config,
	store Store,
	votes VotingPowerSource,
	quorum QuorumPolicy,
	timelock Timelock,
	events domain.EventSink,
	log *slog.Logger,
) *Governor {
	if events == nil {
		events = domain.NopEventSink{}
	}
	return &Governor{
		address:  address,
		cfg:      cfg,
		store:    store,
		votes:    votes,
		quorum:   quorum,
		timelock: timelock,
		events:   events,
		log:      log.With("component", "Governor"),
	}
}

// Propose creates a proposal and returns its id.
func (g *Governor) Propose(
	ctx context.Context,
	clock chain.Clock,
	proposer common.Address,
	targets []common.Address,
	values []*big.Int,
	calldatas [][]byte,
	description string,
) (common.Hash, error) {
	current := clock.BlockNumber()
	settings := g.store.Settings()

	snapshot := uint64(0)
	if current > 0 {
		snapshot = current - 1
	}
	proposerVotes, err := g.votes.GetVotes(ctx, proposer, snapshot)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to read proposer votes: %w", err)
	}
	threshold := chain.ValueOrZero(settings.ProposalThreshold)
	if proposerVotes.Cmp(threshold) < 0 {
		return common.Hash{}, fmt.Errorf("%w: %s has %s, threshold is %s",
			domain.ErrInsufficientProposerVotes, proposer.Hex(), proposerVotes, threshold)
	}

	if len(targets) == 0 || len(targets) != len(values) || len(targets) != len(calldatas) {
		return common.Hash{}, fmt.Errorf("%w: targets=%d values=%d calldatas=%d",
			domain.ErrInvalidProposalLength, len(targets), len(values), len(calldatas))
	}

	for i, v := range values {
		if !chain.IsUint256(v) {
			return common.Hash{}, fmt.Errorf("%w: value %d is %s", domain.ErrValueOutOfRange, i, v)
		}
	}

	descriptionHash := HashDescription(description)
	id := HashProposal(targets, values, calldatas, descriptionHash)
	if _, exists := g.store.Proposal(id); exists {
		return common.Hash{}, fmt.Errorf("%w: %s", domain.ErrProposalAlreadyExists, id.Hex())
	}

	voteStart := current + settings.VotingDelay
	p := &models.Proposal{
		ID:              id,
		Proposer:        proposer,
		DescriptionHash: descriptionHash,
		Description:     description,
		Targets:         targets,
		Values:          lo.Map(values, func(v *big.Int, _ int) *big.Int { return chain.ValueOrZero(v) }),
		Calldatas:       lo.Map(calldatas, func(d []byte, _ int) hexutil.Bytes { return d }),
		CreatedBlock:    current,
		VoteStart:       voteStart,
		VoteEnd:         voteStart + settings.VotingPeriod,
		ForVotes:        new(big.Int),
		AgainstVotes:    new(big.Int),
		AbstainVotes:    new(big.Int),
	}
	g.store.PutProposal(p)

	g.events.Emit(domain.ProposalCreatedEvent{
		EventMeta:       g.meta(clock),
		ProposalID:      id,
		Proposer:        proposer,
		Targets:         p.Targets,
		Values:          p.Values,
		Calldatas:       p.Calldatas,
		DescriptionHash: descriptionHash,
		Description:     description,
		VoteStart:       p.VoteStart,
		VoteEnd:         p.VoteEnd,
	})
	g.log.Debug("proposal created", "id", id.Hex(), "proposer", proposer.Hex(), "voteStart", p.VoteStart, "voteEnd", p.VoteEnd)
	return id, nil
}

// State derives the lifecycle state of a proposal from its record, the
// clock and the timelock. It never mutates anything.
func (g *Governor) State(ctx context.Context, clock chain.Clock, id common.Hash) (models.ProposalState, error) {
	p, ok := g.store.Proposal(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrProposalNotFound, id.Hex())
	}
	return g.state(ctx, clock, p)
}

func (g *Governor) state(ctx context.Context, clock chain.Clock, p *models.Proposal) (models.ProposalState, error) {
	if p.Executed {
		return models.ProposalExecuted, nil
	}
	if p.Canceled {
		return models.ProposalCanceled, nil
	}

	current := clock.BlockNumber()
	if current < p.VoteStart {
		return models.ProposalPending, nil
	}
	if current < p.VoteEnd {
		return models.ProposalActive, nil
	}

	quorum, err := g.quorum.Quorum(ctx, p.VoteStart)
	if err != nil {
		return 0, fmt.Errorf("failed to compute quorum: %w", err)
	}
	if !voteSucceeded(p) || !quorumReached(p, quorum) {
		return models.ProposalDefeated, nil
	}
	if !p.Queued() {
		return models.ProposalSucceeded, nil
	}

	switch g.timelock.OperationState(clock, p.TimelockID) {
	case models.OperationDone:
		return models.ProposalExecuted, nil
	case models.OperationWaiting, models.OperationReady:
		if g.cfg.GracePeriod > 0 {
			// An expiry past the end of time never arrives.
			if expiry, ok := chain.CheckedAdd(p.ETA, g.cfg.GracePeriod); ok && clock.Timestamp() >= expiry {
				return models.ProposalExpired, nil
			}
		}
		return models.ProposalQueued, nil
	default:
		return models.ProposalCanceled, nil
	}
}

// CastVote records the vote of voter and returns the weight counted.
func (g *Governor) CastVote(ctx context.Context, clock chain.Clock, voter common.Address, id common.Hash, support models.VoteType) (*big.Int, error) {
	return g.CastVoteWithReason(ctx, clock, voter, id, support, "")
}

// CastVoteWithReason is CastVote with a free-form reason attached to the event.
func (g *Governor) CastVoteWithReason(ctx context.Context, clock chain.Clock, voter common.Address, id common.Hash, support models.VoteType, reason string) (*big.Int, error) {
	p, ok := g.store.Proposal(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProposalNotFound, id.Hex())
	}
	state, err := g.state(ctx, clock, p)
	if err != nil {
		return nil, err
	}
	if state != models.ProposalActive {
		return nil, fmt.Errorf("%w: proposal %s is %s", domain.ErrVotingClosed, id.Hex(), state)
	}
	if _, voted := g.store.Vote(id, voter); voted {
		return nil, fmt.Errorf("%w: %s on %s", domain.ErrAlreadyVoted, voter.Hex(), id.Hex())
	}
	if !support.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidVoteType, uint8(support))
	}

	weight, err := g.votes.GetVotes(ctx, voter, p.VoteStart)
	if err != nil {
		return nil, fmt.Errorf("failed to read votes of %s: %w", voter.Hex(), err)
	}
	if weight.Sign() == 0 && g.cfg.RejectZeroWeightVotes {
		return nil, fmt.Errorf("%w: %s at block %d", domain.ErrZeroVotingPower, voter.Hex(), p.VoteStart)
	}

	countVote(p, support, weight)
	g.store.PutProposal(p)
	g.store.PutVote(&models.VoteRecord{
		ProposalID: id,
		Voter:      voter,
		Support:    support,
		Weight:     weight,
		Reason:     reason,
		Block:      clock.BlockNumber(),
	})

	g.events.Emit(domain.VoteCastEvent{
		EventMeta:  g.meta(clock),
		ProposalID: id,
		Voter:      voter,
		Support:    uint8(support),
		Weight:     new(big.Int).Set(weight),
		Reason:     reason,
	})
	g.log.Debug("vote cast", "id", id.Hex(), "voter", voter.Hex(), "support", support, "weight", weight)
	return weight, nil
}

// Queue schedules a succeeded proposal in the timelock and returns the
// operation id.
func (g *Governor) Queue(ctx context.Context, clock chain.Clock, id common.Hash) (common.Hash, error) {
	p, ok := g.store.Proposal(id)
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %s", domain.ErrProposalNotFound, id.Hex())
	}
	state, err := g.state(ctx, clock, p)
	if err != nil {
		return common.Hash{}, err
	}
	if state != models.ProposalSucceeded {
		return common.Hash{}, unexpectedState(id, state, models.ProposalSucceeded)
	}

	delay := g.timelock.MinDelay()
	opID, err := g.timelock.ScheduleBatch(ctx, clock, g.address, proposalCalls(p), common.Hash{}, p.DescriptionHash, delay)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to queue proposal %s: %w", id.Hex(), err)
	}

	p.TimelockID = opID
	p.ETA = clock.Timestamp() + delay
	g.store.PutProposal(p)

	g.events.Emit(domain.ProposalQueuedEvent{
		EventMeta:   g.meta(clock),
		ProposalID:  id,
		OperationID: opID,
		ETA:         p.ETA,
	})
	g.log.Debug("proposal queued", "id", id.Hex(), "operation", opID.Hex(), "eta", p.ETA)
	return opID, nil
}

// Execute runs a queued proposal through the timelock.
func (g *Governor) Execute(ctx context.Context, clock chain.Clock, id common.Hash) error {
	p, ok := g.store.Proposal(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrProposalNotFound, id.Hex())
	}
	state, err := g.state(ctx, clock, p)
	if err != nil {
		return err
	}
	switch state {
	case models.ProposalQueued:
	case models.ProposalExecuted:
		return fmt.Errorf("%w: %w: %s", domain.ErrAlreadyExecuted, domain.ErrOperationAlreadyDone, id.Hex())
	default:
		return unexpectedState(id, state, models.ProposalQueued)
	}
	if g.timelock.OperationState(clock, p.TimelockID) != models.OperationReady {
		return fmt.Errorf("%w: %w: proposal %s is ready at %d, now %d",
			domain.ErrTimelockNotReady, domain.ErrOperationNotReady, id.Hex(), p.ETA, clock.Timestamp())
	}

	if err := g.timelock.ExecuteBatch(ctx, clock, g.address, proposalCalls(p), common.Hash{}, p.DescriptionHash); err != nil {
		if errors.Is(err, domain.ErrUnderlyingCallReverted) {
			return fmt.Errorf("%w: %w", domain.ErrBatchExecutionFailed, err)
		}
		return fmt.Errorf("failed to execute proposal %s: %w", id.Hex(), err)
	}

	// The calls may have written to the store, so work on a fresh copy.
	if current, ok := g.store.Proposal(id); ok {
		p = current
	}
	p.Executed = true
	g.store.PutProposal(p)

	g.events.Emit(domain.ProposalExecutedEvent{EventMeta: g.meta(clock), ProposalID: id})
	g.log.Debug("proposal executed", "id", id.Hex())
	return nil
}

// Cancel cancels a proposal that has not been executed. Only the proposer or
// the guardian may cancel.
func (g *Governor) Cancel(ctx context.Context, clock chain.Clock, caller common.Address, id common.Hash) error {
	p, ok := g.store.Proposal(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrProposalNotFound, id.Hex())
	}
	state, err := g.state(ctx, clock, p)
	if err != nil {
		return err
	}
	switch state {
	case models.ProposalExecuted:
		return fmt.Errorf("%w: %w: %s", domain.ErrAlreadyExecuted, domain.ErrCannotCancelExecuted, id.Hex())
	case models.ProposalCanceled:
		return unexpectedState(id, state)
	}
	if caller != p.Proposer && (g.cfg.Guardian == (common.Address{}) || caller != g.cfg.Guardian) {
		return fmt.Errorf("%w: %s may not cancel proposal %s", domain.ErrUnauthorized, caller.Hex(), id.Hex())
	}

	if p.Queued() {
		switch g.timelock.OperationState(clock, p.TimelockID) {
		case models.OperationWaiting, models.OperationReady:
			if err := g.timelock.Cancel(ctx, clock, g.address, p.TimelockID); err != nil {
				return fmt.Errorf("failed to cancel timelock operation: %w", err)
			}
		}
	}

	p.Canceled = true
	g.store.PutProposal(p)
	g.events.Emit(domain.ProposalCanceledEvent{EventMeta: g.meta(clock), ProposalID: id})
	g.log.Debug("proposal canceled", "id", id.Hex(), "by", caller.Hex())
	return nil
}

func (g *Governor) meta(clock chain.Clock) domain.EventMeta {
	return domain.EventMeta{Emitter: g.address, Block: clock.BlockNumber(), Timestamp: clock.Timestamp()}
}

func unexpectedState(id common.Hash, current models.ProposalState, expected ...models.ProposalState) error {
	return &domain.UnexpectedStateError{
		ProposalID: id,
		Current:    current,
		Expected:   lo.Map(expected, func(s models.ProposalState, _ int) fmt.Stringer { return s }),
	}
}

func proposalCalls(p *models.Proposal) []chain.Call {
	calls := make([]chain.Call, len(p.Targets))
	for i := range p.Targets {
		calls[i] = chain.Call{Target: p.Targets[i], Value: p.Values[i], Data: p.Calldatas[i]}
	}
	return calls
}
