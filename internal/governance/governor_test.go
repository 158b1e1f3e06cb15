package governance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"github.com/trebuchet-org/govlock/internal/timelock"
)

var (
	governorAddr = common.HexToAddress("0x00000000000000000000000000000000000060e5")
	timelockAddr = common.HexToAddress("0x00000000000000000000000000000000000071e1")
	boxAddr      = common.HexToAddress("0x0000000000000000000000000000000000000b0c")
	brokenAddr   = common.HexToAddress("0x00000000000000000000000000000000000000ff")

	proposer = common.HexToAddress("0x1111111111111111111111111111111111111111")
	alice    = common.HexToAddress("0x2222222222222222222222222222222222222222")
	bob      = common.HexToAddress("0x3333333333333333333333333333333333333333")
	nobody   = common.HexToAddress("0x4444444444444444444444444444444444444444")
	guardian = common.HexToAddress("0x5555555555555555555555555555555555555555")
)

type checkpoint struct {
	block uint64
	votes int64
}

// fakeVotes keeps per-account vote checkpoints.
type fakeVotes struct {
	checkpoints map[common.Address][]checkpoint
}

func (f *fakeVotes) set(account common.Address, block uint64, votes int64) {
	if f.checkpoints == nil {
		f.checkpoints = make(map[common.Address][]checkpoint)
	}
	f.checkpoints[account] = append(f.checkpoints[account], checkpoint{block, votes})
}

func (f *fakeVotes) GetVotes(_ context.Context, account common.Address, block uint64) (*big.Int, error) {
	votes := int64(0)
	for _, c := range f.checkpoints[account] {
		if c.block <= block {
			votes = c.votes
		}
	}
	return big.NewInt(votes), nil
}

func (f *fakeVotes) GetTotalSupply(ctx context.Context, block uint64) (*big.Int, error) {
	total := new(big.Int)
	for account := range f.checkpoints {
		v, _ := f.GetVotes(ctx, account, block)
		total.Add(total, v)
	}
	return total, nil
}

// boxLedger stores the last 32-byte word sent to the box address.
type boxLedger struct {
	value     *big.Int
	snapshots []*big.Int
}

func (l *boxLedger) Invoke(_ context.Context, to common.Address, _ *big.Int, payload []byte) ([]byte, error) {
	switch to {
	case boxAddr:
		l.value = new(big.Int).SetBytes(payload)
		return nil, nil
	case brokenAddr:
		return nil, errors.New("execution reverted: Ownable: caller is not the owner")
	}
	return nil, nil
}

func (l *boxLedger) Snapshot() int {
	l.snapshots = append(l.snapshots, new(big.Int).Set(l.value))
	return len(l.snapshots) - 1
}

func (l *boxLedger) RevertToSnapshot(id int) {
	l.value = l.snapshots[id]
	l.snapshots = l.snapshots[:id]
}

type fixture struct {
	governor  *Governor
	scheduler *timelock.Scheduler
	votes     *fakeVotes
	ledger    *boxLedger
	clock     *chain.FixedClock
	events    []domain.Event
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := &fixture{
		votes:  &fakeVotes{},
		ledger: &boxLedger{value: big.NewInt(42)},
		clock:  &chain.FixedClock{Block: 10, Time: 1_000},
	}
	f.votes.set(proposer, 0, 6)
	f.votes.set(alice, 0, 1)
	f.votes.set(bob, 0, 1)

	sink := domain.EventSinkFunc(func(e domain.Event) { f.events = append(f.events, e) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f.scheduler = timelock.NewScheduler(timelockAddr, timelock.NewMemoryStore(nil), f.ledger, sink, logger)
	f.scheduler.Initialize(f.clock, timelock.Params{
		MinDelay:  2,
		Proposers: []common.Address{governorAddr},
		Executors: []common.Address{{}},
	})

	store := NewMemoryStore(&models.GovernorState{Settings: models.GovernorSettings{
		VotingDelay:       1,
		VotingPeriod:      5,
		ProposalThreshold: big.NewInt(2),
	}})
	f.governor = NewGovernor(governorAddr, cfg, store, f.votes, FixedQuorum{Votes: big.NewInt(2)}, f.scheduler, sink, logger)
	f.events = nil
	return f
}

func (f *fixture) at(block uint64) chain.Clock {
	return chain.FixedClock{Block: block, Time: f.clock.Time + (block - f.clock.Block)}
}

func (f *fixture) advance(blocks, seconds uint64) {
	f.clock.Block += blocks
	f.clock.Time += seconds
}

func (f *fixture) state(t *testing.T, clock chain.Clock, id common.Hash) models.ProposalState {
	t.Helper()
	state, err := f.governor.State(context.Background(), clock, id)
	require.NoError(t, err)
	return state
}

func storeCalldata(v int64) []byte {
	return common.LeftPadBytes(big.NewInt(v).Bytes(), 32)
}

func (f *fixture) propose(t *testing.T, description string, targets ...common.Address) common.Hash {
	t.Helper()
	if len(targets) == 0 {
		targets = []common.Address{boxAddr}
	}
	values := make([]*big.Int, len(targets))
	calldatas := make([][]byte, len(targets))
	for i := range targets {
		values[i] = big.NewInt(0)
		calldatas[i] = storeCalldata(555)
	}
	id, err := f.governor.Propose(context.Background(), f.clock, proposer, targets, values, calldatas, description)
	require.NoError(t, err)
	return id
}

// passed drives a fresh proposal to Succeeded with two for votes.
func (f *fixture) passed(t *testing.T, description string, targets ...common.Address) common.Hash {
	t.Helper()
	ctx := context.Background()
	id := f.propose(t, description, targets...)
	f.advance(1, 1)
	_, err := f.governor.CastVote(ctx, f.clock, alice, id, models.VoteFor)
	require.NoError(t, err)
	_, err = f.governor.CastVote(ctx, f.clock, bob, id, models.VoteFor)
	require.NoError(t, err)
	f.advance(5, 5)
	require.Equal(t, models.ProposalSucceeded, f.state(t, f.clock, id))
	return id
}

func TestGovernor_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{Name: "MyNFTGovernor", GracePeriod: 14 * 24 * 3600})

	id := f.propose(t, "Store 555 in the Box")
	p, err := f.governor.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), p.VoteStart)
	assert.Equal(t, uint64(16), p.VoteEnd)
	assert.Equal(t, HashDescription("Store 555 in the Box"), p.DescriptionHash)
	assert.Equal(t, models.ProposalPending, f.state(t, f.clock, id))

	f.advance(1, 1)
	assert.Equal(t, models.ProposalActive, f.state(t, f.clock, id))

	weight, err := f.governor.CastVote(ctx, f.clock, alice, id, models.VoteFor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), weight.Int64())

	// One vote is below the quorum of two.
	assert.Equal(t, models.ProposalDefeated, f.state(t, f.at(p.VoteEnd), id))

	_, err = f.governor.CastVoteWithReason(ctx, f.clock, bob, id, models.VoteFor, "ship it")
	require.NoError(t, err)
	assert.Equal(t, models.ProposalSucceeded, f.state(t, f.at(p.VoteEnd), id))

	f.advance(5, 5)
	assert.Equal(t, models.ProposalSucceeded, f.state(t, f.clock, id))

	opID, err := f.governor.Queue(ctx, f.clock, id)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalQueued, f.state(t, f.clock, id))
	assert.True(t, f.scheduler.IsOperationPending(opID))

	p, err = f.governor.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, opID, p.TimelockID)
	assert.Equal(t, f.clock.Time+2, p.ETA)

	err = f.governor.Execute(ctx, f.clock, id)
	assert.ErrorIs(t, err, domain.ErrOperationNotReady)
	assert.ErrorIs(t, err, domain.ErrTimelockNotReady)
	assert.Equal(t, int64(42), f.ledger.value.Int64())

	f.advance(1, 2)
	require.NoError(t, f.governor.Execute(ctx, f.clock, id))
	assert.Equal(t, int64(555), f.ledger.value.Int64())
	assert.Equal(t, models.ProposalExecuted, f.state(t, f.clock, id))
	assert.True(t, f.scheduler.IsOperationDone(opID))

	err = f.governor.Execute(ctx, f.clock, id)
	assert.ErrorIs(t, err, domain.ErrOperationAlreadyDone)
	assert.ErrorIs(t, err, domain.ErrAlreadyExecuted)

	names := make([]string, 0, len(f.events))
	for _, e := range f.events {
		names = append(names, e.ContractEventName())
	}
	assert.Equal(t, []string{
		"ProposalCreated", "VoteCast", "VoteCast",
		"CallScheduled", "ProposalQueued",
		"CallExecuted", "ProposalExecuted",
	}, names)
}

func TestPropose(t *testing.T) {
	ctx := context.Background()
	one := []*big.Int{big.NewInt(0)}
	targets := []common.Address{boxAddr}
	calldatas := [][]byte{storeCalldata(1)}

	t.Run("below threshold", func(t *testing.T) {
		f := newFixture(t, Config{})
		_, err := f.governor.Propose(ctx, f.clock, alice, targets, one, calldatas, "x")
		assert.ErrorIs(t, err, domain.ErrInsufficientProposerVotes)
	})

	t.Run("threshold read at the previous block", func(t *testing.T) {
		f := newFixture(t, Config{})
		f.votes.set(nobody, f.clock.Block, 5)
		_, err := f.governor.Propose(ctx, f.clock, nobody, targets, one, calldatas, "x")
		assert.ErrorIs(t, err, domain.ErrInsufficientProposerVotes)

		f.advance(1, 1)
		_, err = f.governor.Propose(ctx, f.clock, nobody, targets, one, calldatas, "x")
		assert.NoError(t, err)
	})

	t.Run("invalid length", func(t *testing.T) {
		f := newFixture(t, Config{})
		_, err := f.governor.Propose(ctx, f.clock, proposer, nil, nil, nil, "x")
		assert.ErrorIs(t, err, domain.ErrInvalidProposalLength)
		_, err = f.governor.Propose(ctx, f.clock, proposer, targets, nil, calldatas, "x")
		assert.ErrorIs(t, err, domain.ErrInvalidProposalLength)
	})

	t.Run("same inputs give the same id", func(t *testing.T) {
		f := newFixture(t, Config{})
		id, err := f.governor.Propose(ctx, f.clock, proposer, targets, one, calldatas, "x")
		require.NoError(t, err)
		assert.Equal(t, HashProposal(targets, one, calldatas, HashDescription("x")), id)

		_, err = f.governor.Propose(ctx, f.clock, proposer, targets, one, calldatas, "x")
		assert.ErrorIs(t, err, domain.ErrProposalAlreadyExists)

		other, err := f.governor.Propose(ctx, f.clock, proposer, targets, one, calldatas, "y")
		require.NoError(t, err)
		assert.NotEqual(t, id, other)
	})

	t.Run("values outside uint256", func(t *testing.T) {
		f := newFixture(t, Config{})
		wrapped := new(big.Int).Lsh(big.NewInt(1), 256)
		for name, v := range map[string]*big.Int{"negative": big.NewInt(-1), "2^256": wrapped} {
			_, err := f.governor.Propose(ctx, f.clock, proposer, targets, []*big.Int{v}, calldatas, "x")
			assert.ErrorIs(t, err, domain.ErrValueOutOfRange, name)
		}
		assert.Empty(t, f.governor.Proposals())

		// 2^256 would pack to the same id as zero.
		_, err := f.governor.Propose(ctx, f.clock, proposer, targets, one, calldatas, "x")
		require.NoError(t, err)

		maxUint := new(big.Int).Sub(wrapped, big.NewInt(1))
		_, err = f.governor.Propose(ctx, f.clock, proposer, targets, []*big.Int{maxUint}, calldatas, "x")
		assert.NoError(t, err)
	})

	t.Run("canceled ids cannot be reused", func(t *testing.T) {
		f := newFixture(t, Config{})
		id, err := f.governor.Propose(ctx, f.clock, proposer, targets, one, calldatas, "x")
		require.NoError(t, err)
		require.NoError(t, f.governor.Cancel(ctx, f.clock, proposer, id))

		_, err = f.governor.Propose(ctx, f.clock, proposer, targets, one, calldatas, "x")
		assert.ErrorIs(t, err, domain.ErrProposalAlreadyExists)
	})
}

func TestState_Boundaries(t *testing.T) {
	f := newFixture(t, Config{})
	id := f.propose(t, "boundaries")
	p, err := f.governor.Proposal(id)
	require.NoError(t, err)

	assert.Equal(t, models.ProposalPending, f.state(t, f.at(p.VoteStart-1), id))
	assert.Equal(t, models.ProposalActive, f.state(t, f.at(p.VoteStart), id))
	assert.Equal(t, models.ProposalActive, f.state(t, f.at(p.VoteEnd-1), id))
	assert.Equal(t, models.ProposalDefeated, f.state(t, f.at(p.VoteEnd), id))
}

func TestState_NotFound(t *testing.T) {
	f := newFixture(t, Config{})
	_, err := f.governor.State(context.Background(), f.clock, common.HexToHash("0x01"))
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCastVote(t *testing.T) {
	ctx := context.Background()

	t.Run("closed before voting starts", func(t *testing.T) {
		f := newFixture(t, Config{})
		id := f.propose(t, "early")
		_, err := f.governor.CastVote(ctx, f.clock, alice, id, models.VoteFor)
		assert.ErrorIs(t, err, domain.ErrVotingClosed)
	})

	t.Run("closed after voting ends", func(t *testing.T) {
		f := newFixture(t, Config{})
		id := f.propose(t, "late")
		f.advance(6, 6)
		_, err := f.governor.CastVote(ctx, f.clock, alice, id, models.VoteFor)
		assert.ErrorIs(t, err, domain.ErrVotingClosed)
	})

	t.Run("one vote per account", func(t *testing.T) {
		f := newFixture(t, Config{})
		id := f.propose(t, "twice")
		f.advance(1, 1)
		_, err := f.governor.CastVote(ctx, f.clock, alice, id, models.VoteAgainst)
		require.NoError(t, err)
		_, err = f.governor.CastVote(ctx, f.clock, alice, id, models.VoteFor)
		assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

		against, forVotes, _, err := f.governor.ProposalVotes(id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), against.Int64())
		assert.Equal(t, int64(0), forVotes.Int64())
		assert.True(t, f.governor.HasVoted(id, alice))
		assert.False(t, f.governor.HasVoted(id, bob))
	})

	t.Run("invalid support", func(t *testing.T) {
		f := newFixture(t, Config{})
		id := f.propose(t, "support")
		f.advance(1, 1)
		_, err := f.governor.CastVote(ctx, f.clock, alice, id, models.VoteType(3))
		assert.ErrorIs(t, err, domain.ErrInvalidVoteType)
		assert.False(t, f.governor.HasVoted(id, alice))
	})

	t.Run("zero weight consumes the slot", func(t *testing.T) {
		f := newFixture(t, Config{})
		id := f.propose(t, "zero")
		f.advance(1, 1)
		weight, err := f.governor.CastVote(ctx, f.clock, nobody, id, models.VoteFor)
		require.NoError(t, err)
		assert.Equal(t, 0, weight.Sign())
		_, err = f.governor.CastVote(ctx, f.clock, nobody, id, models.VoteFor)
		assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	})

	t.Run("zero weight rejected by policy", func(t *testing.T) {
		f := newFixture(t, Config{RejectZeroWeightVotes: true})
		id := f.propose(t, "zero")
		f.advance(1, 1)
		_, err := f.governor.CastVote(ctx, f.clock, nobody, id, models.VoteFor)
		assert.ErrorIs(t, err, domain.ErrZeroVotingPower)
		assert.False(t, f.governor.HasVoted(id, nobody))
	})

	t.Run("weight is read at vote start", func(t *testing.T) {
		f := newFixture(t, Config{})
		id := f.propose(t, "snapshot")
		f.advance(2, 2)
		f.votes.set(alice, f.clock.Block, 50)

		weight, err := f.governor.CastVote(ctx, f.clock, alice, id, models.VoteFor)
		require.NoError(t, err)
		assert.Equal(t, int64(1), weight.Int64())

		votes := f.governor.Votes(id)
		require.Len(t, votes, 1)
		assert.Equal(t, alice, votes[0].Voter)
		assert.Equal(t, f.clock.Block, votes[0].Block)
	})
}

func TestQuorumBoundary(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		votes   map[common.Address]models.VoteType
		success bool
	}{
		{"for plus abstain reaches quorum", map[common.Address]models.VoteType{alice: models.VoteFor, bob: models.VoteAbstain}, true},
		{"tie is defeated", map[common.Address]models.VoteType{alice: models.VoteFor, bob: models.VoteAgainst}, false},
		{"below quorum", map[common.Address]models.VoteType{alice: models.VoteFor}, false},
		{"no votes", map[common.Address]models.VoteType{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, Config{})
			id := f.propose(t, tc.name)
			f.advance(1, 1)
			for voter, support := range tc.votes {
				_, err := f.governor.CastVote(ctx, f.clock, voter, id, support)
				require.NoError(t, err)
			}
			f.advance(5, 5)
			expected := models.ProposalDefeated
			if tc.success {
				expected = models.ProposalSucceeded
			}
			assert.Equal(t, expected, f.state(t, f.clock, id))
		})
	}
}

func TestQueue_RequiresSucceeded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})
	id := f.propose(t, "not yet")

	_, err := f.governor.Queue(ctx, f.clock, id)
	assert.ErrorIs(t, err, domain.ErrUnexpectedProposalState)

	var stateErr *domain.UnexpectedStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.ProposalPending, stateErr.Current)

	err = f.governor.Execute(ctx, f.clock, id)
	assert.ErrorIs(t, err, domain.ErrUnexpectedProposalState)
}

func TestExecute_BatchFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})
	id := f.passed(t, "partially broken", boxAddr, brokenAddr)

	_, err := f.governor.Queue(ctx, f.clock, id)
	require.NoError(t, err)
	f.advance(1, 2)

	err = f.governor.Execute(ctx, f.clock, id)
	assert.ErrorIs(t, err, domain.ErrBatchExecutionFailed)
	assert.ErrorIs(t, err, domain.ErrUnderlyingCallReverted)
	assert.Equal(t, int64(42), f.ledger.value.Int64(), "box write must be rolled back")
	assert.Equal(t, models.ProposalQueued, f.state(t, f.clock, id))
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("only proposer or guardian", func(t *testing.T) {
		f := newFixture(t, Config{Guardian: guardian})
		id := f.propose(t, "cancel me")

		assert.ErrorIs(t, f.governor.Cancel(ctx, f.clock, alice, id), domain.ErrUnauthorized)
		require.NoError(t, f.governor.Cancel(ctx, f.clock, guardian, id))
		assert.Equal(t, models.ProposalCanceled, f.state(t, f.clock, id))
	})

	t.Run("queued proposal cancels its operation", func(t *testing.T) {
		f := newFixture(t, Config{})
		id := f.passed(t, "queued cancel")
		opID, err := f.governor.Queue(ctx, f.clock, id)
		require.NoError(t, err)

		require.NoError(t, f.governor.Cancel(ctx, f.clock, proposer, id))
		assert.Equal(t, models.ProposalCanceled, f.state(t, f.clock, id))
		assert.Equal(t, models.OperationCanceled, f.scheduler.OperationState(f.clock, opID))

		f.advance(1, 2)
		assert.Equal(t, models.ProposalCanceled, f.state(t, f.clock, id))
		assert.ErrorIs(t, f.governor.Execute(ctx, f.clock, id), domain.ErrUnexpectedProposalState)
		_, err = f.governor.Queue(ctx, f.clock, id)
		assert.ErrorIs(t, err, domain.ErrUnexpectedProposalState)
		assert.ErrorIs(t, f.governor.Cancel(ctx, f.clock, proposer, id), domain.ErrUnexpectedProposalState)
	})

	t.Run("voting closed after cancel", func(t *testing.T) {
		f := newFixture(t, Config{})
		id := f.propose(t, "cancel then vote")
		require.NoError(t, f.governor.Cancel(ctx, f.clock, proposer, id))
		f.advance(1, 1)
		_, err := f.governor.CastVote(ctx, f.clock, alice, id, models.VoteFor)
		assert.ErrorIs(t, err, domain.ErrVotingClosed)
	})

	t.Run("executed proposals cannot be canceled", func(t *testing.T) {
		f := newFixture(t, Config{})
		id := f.passed(t, "done")
		_, err := f.governor.Queue(ctx, f.clock, id)
		require.NoError(t, err)
		f.advance(1, 2)
		require.NoError(t, f.governor.Execute(ctx, f.clock, id))

		err = f.governor.Cancel(ctx, f.clock, proposer, id)
		assert.ErrorIs(t, err, domain.ErrAlreadyExecuted)
		assert.Equal(t, models.ProposalExecuted, f.state(t, f.clock, id))
	})

	t.Run("operation canceled at the timelock", func(t *testing.T) {
		f := newFixture(t, Config{})
		id := f.passed(t, "timelock cancel")
		opID, err := f.governor.Queue(ctx, f.clock, id)
		require.NoError(t, err)

		require.NoError(t, f.scheduler.Cancel(ctx, f.clock, governorAddr, opID))
		assert.Equal(t, models.ProposalCanceled, f.state(t, f.clock, id))
	})
}

func TestState_Expired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{GracePeriod: 100})
	id := f.passed(t, "slow")
	_, err := f.governor.Queue(ctx, f.clock, id)
	require.NoError(t, err)
	p, err := f.governor.Proposal(id)
	require.NoError(t, err)

	f.advance(1, 2)
	assert.Equal(t, models.ProposalQueued, f.state(t, f.clock, id))

	f.clock.Time = p.ETA + 99
	assert.Equal(t, models.ProposalQueued, f.state(t, f.clock, id))

	f.clock.Time = p.ETA + 100
	assert.Equal(t, models.ProposalExpired, f.state(t, f.clock, id))
	assert.ErrorIs(t, f.governor.Execute(ctx, f.clock, id), domain.ErrUnexpectedProposalState)
}

func TestState_GracePeriodNeverExpires(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{GracePeriod: math.MaxUint64})
	id := f.passed(t, "forever")
	_, err := f.governor.Queue(ctx, f.clock, id)
	require.NoError(t, err)
	p, err := f.governor.Proposal(id)
	require.NoError(t, err)

	f.clock.Time = p.ETA
	assert.Equal(t, models.ProposalQueued, f.state(t, f.clock, id))
	require.NoError(t, f.governor.Execute(ctx, f.clock, id))
	assert.Equal(t, int64(555), f.ledger.value.Int64())
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})

	assert.ErrorIs(t, f.governor.SetVotingDelay(ctx, f.clock, proposer, 3), domain.ErrUnauthorized)
	assert.ErrorIs(t, f.governor.SetVotingPeriod(ctx, f.clock, timelockAddr, 0), domain.ErrInvalidSetting)
	assert.ErrorIs(t, f.governor.SetVotingPeriod(ctx, f.clock, proposer, 0), domain.ErrUnauthorized)
	assert.ErrorIs(t, f.governor.SetProposalThreshold(ctx, f.clock, proposer, big.NewInt(-1)), domain.ErrUnauthorized)
	assert.ErrorIs(t, f.governor.SetProposalThreshold(ctx, f.clock, timelockAddr, big.NewInt(-1)), domain.ErrInvalidSetting)
	assert.Empty(t, f.events)

	require.NoError(t, f.governor.SetVotingDelay(ctx, f.clock, timelockAddr, 3))
	require.NoError(t, f.governor.SetVotingPeriod(ctx, f.clock, timelockAddr, 10))
	require.NoError(t, f.governor.SetProposalThreshold(ctx, f.clock, timelockAddr, big.NewInt(0)))

	settings := f.governor.Settings()
	assert.Equal(t, uint64(3), settings.VotingDelay)
	assert.Equal(t, uint64(10), settings.VotingPeriod)
	assert.Equal(t, int64(0), settings.ProposalThreshold.Int64())

	require.Len(t, f.events, 3)
	changed := f.events[0].(domain.SettingChangedEvent)
	assert.Equal(t, SettingVotingDelay, changed.Setting)
	assert.Equal(t, int64(1), changed.OldValue.Int64())

	// A zero threshold lets anyone propose, with the new window.
	id, err := f.governor.Propose(ctx, f.clock, nobody, []common.Address{boxAddr}, []*big.Int{nil}, [][]byte{storeCalldata(1)}, "open")
	require.NoError(t, err)
	p, err := f.governor.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, f.clock.Block+3, p.VoteStart)
	assert.Equal(t, f.clock.Block+13, p.VoteEnd)
}

func TestMemoryStore_ExportRestore(t *testing.T) {
	f := newFixture(t, Config{})
	id := f.passed(t, "persist")

	store := f.governor.store.(*MemoryStore)
	restored := NewMemoryStore(store.Export())

	p, ok := restored.Proposal(id)
	require.True(t, ok)
	assert.Equal(t, int64(2), p.ForVotes.Int64())
	assert.Len(t, restored.Votes(id), 2)
	assert.Equal(t, store.Export(), restored.Export())
}
