package simchain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govlock/internal/domain"
)

var (
	deployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	alice    = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	boxAddr  = common.HexToAddress("0x00000000000000000000000000000000000b0c00")
	nftAddr  = common.HexToAddress("0x000000000000000000000000000000000000f700")
)

type recorder struct {
	events []domain.Event
}

func (r *recorder) Emit(e domain.Event) { r.events = append(r.events, e) }

func newTestSimulator(t *testing.T) (*Simulator, *recorder) {
	t.Helper()
	rec := &recorder{}
	sim := NewSimulator(31337, 1_700_000_000, 1, rec, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return sim, rec
}

func TestSimulator_Clock(t *testing.T) {
	sim, _ := newTestSimulator(t)

	sim.Mine(3)
	assert.Equal(t, uint64(3), sim.BlockNumber())
	assert.Equal(t, uint64(1_700_000_003), sim.Timestamp())

	sim.IncreaseTime(10)
	assert.Equal(t, uint64(1_700_000_003), sim.Timestamp(), "applies to the next block")
	sim.Mine(1)
	assert.Equal(t, uint64(1_700_000_014), sim.Timestamp())

	require.Error(t, sim.SetNextBlockTimestamp(1_700_000_014))
	require.NoError(t, sim.SetNextBlockTimestamp(1_700_000_100))
	sim.Mine(2)
	assert.Equal(t, uint64(6), sim.BlockNumber())
	assert.Equal(t, uint64(1_700_000_101), sim.Timestamp())
}

func TestSimulator_TransactMinesOneBlock(t *testing.T) {
	sim, rec := newTestSimulator(t)
	box := NewBox(boxAddr, deployer, big.NewInt(42), sim, sim)
	sim.Register(box)

	err := sim.Transact(context.Background(), func(ctx context.Context) error {
		return box.SetValue(deployer, big.NewInt(7))
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), sim.BlockNumber())
	assert.Equal(t, int64(7), box.Value().Int64())

	require.Len(t, rec.events, 1)
	changed := rec.events[0].(domain.ValueChangedEvent)
	assert.Equal(t, uint64(1), changed.Block)
	assert.Equal(t, boxAddr, changed.Emitter)
}

func TestSimulator_TransactRevertsOnError(t *testing.T) {
	sim, rec := newTestSimulator(t)
	box := NewBox(boxAddr, deployer, big.NewInt(42), sim, sim)
	sim.Register(box)
	sim.SetBalance(deployer, big.NewInt(100))

	boom := errors.New("boom")
	err := sim.Transact(context.Background(), func(ctx context.Context) error {
		require.NoError(t, box.SetValue(deployer, big.NewInt(7)))
		_, err := sim.Caller(deployer).Invoke(ctx, alice, big.NewInt(60), nil)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(1), sim.BlockNumber(), "failed transactions still mine")
	assert.Equal(t, int64(42), box.Value().Int64())
	assert.Equal(t, int64(100), sim.BalanceOf(deployer).Int64())
	assert.Equal(t, int64(0), sim.BalanceOf(alice).Int64())
	assert.Empty(t, rec.events)
}

func TestCaller_Invoke(t *testing.T) {
	ctx := context.Background()
	sim, _ := newTestSimulator(t)
	box := NewBox(boxAddr, deployer, big.NewInt(42), sim, sim)
	sim.Register(box)
	sim.SetBalance(deployer, big.NewInt(10))

	t.Run("abi call from owner", func(t *testing.T) {
		data, err := Pack(box, "setValue", big.NewInt(555))
		require.NoError(t, err)
		_, err = sim.Caller(deployer).Invoke(ctx, boxAddr, nil, data)
		require.NoError(t, err)
		assert.Equal(t, int64(555), box.Value().Int64())

		getValue, err := Pack(box, "getValue")
		require.NoError(t, err)
		out, err := sim.Caller(alice).Call(ctx, boxAddr, getValue)
		require.NoError(t, err)
		values, err := Unpack(box, "getValue", out)
		require.NoError(t, err)
		assert.Equal(t, int64(555), values[0].(*big.Int).Int64())
	})

	t.Run("non owner reverts", func(t *testing.T) {
		data, err := Pack(box, "setValue", big.NewInt(1))
		require.NoError(t, err)
		_, err = sim.Caller(alice).Invoke(ctx, boxAddr, nil, data)
		assert.ErrorIs(t, err, domain.ErrUnderlyingCallReverted)
		assert.ErrorContains(t, err, "Ownable: caller is not the owner")
	})

	t.Run("value to non payable function reverts and refunds", func(t *testing.T) {
		data, err := Pack(box, "setValue", big.NewInt(1))
		require.NoError(t, err)
		_, err = sim.Caller(deployer).Invoke(ctx, boxAddr, big.NewInt(5), data)
		assert.ErrorIs(t, err, domain.ErrUnderlyingCallReverted)
		assert.Equal(t, int64(10), sim.BalanceOf(deployer).Int64())
		assert.Equal(t, int64(555), box.Value().Int64())
	})

	t.Run("unknown selector reverts", func(t *testing.T) {
		_, err := sim.Caller(deployer).Invoke(ctx, boxAddr, nil, []byte{1, 2, 3, 4})
		assert.ErrorIs(t, err, domain.ErrUnderlyingCallReverted)
	})

	t.Run("plain transfer to account", func(t *testing.T) {
		_, err := sim.Caller(deployer).Invoke(ctx, alice, big.NewInt(4), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(6), sim.BalanceOf(deployer).Int64())
		assert.Equal(t, int64(4), sim.BalanceOf(alice).Int64())

		_, err = sim.Caller(alice).Invoke(ctx, deployer, big.NewInt(5), nil)
		assert.ErrorIs(t, err, domain.ErrUnderlyingCallReverted)
	})

	t.Run("negative value reverts", func(t *testing.T) {
		before := sim.BalanceOf(deployer)
		_, err := sim.Caller(deployer).Invoke(ctx, alice, big.NewInt(-100), nil)
		assert.ErrorIs(t, err, domain.ErrUnderlyingCallReverted)
		assert.ErrorContains(t, err, "negative value")
		assert.Equal(t, before.Int64(), sim.BalanceOf(deployer).Int64())
		assert.Equal(t, int64(4), sim.BalanceOf(alice).Int64())
	})
}

func TestSimulator_NestedSnapshots(t *testing.T) {
	sim, _ := newTestSimulator(t)
	box := NewBox(boxAddr, deployer, big.NewInt(1), sim, sim)
	sim.Register(box)

	outer := sim.Snapshot()
	require.NoError(t, box.SetValue(deployer, big.NewInt(2)))
	inner := sim.Snapshot()
	require.NoError(t, box.SetValue(deployer, big.NewInt(3)))

	sim.RevertToSnapshot(inner)
	assert.Equal(t, int64(2), box.Value().Int64())
	sim.RevertToSnapshot(outer)
	assert.Equal(t, int64(1), box.Value().Int64())
}

func TestSimulator_ExportRestore(t *testing.T) {
	sim, _ := newTestSimulator(t)
	sim.Mine(5)
	sim.SetBalance(alice, big.NewInt(9))
	sim.UseNonce(deployer)
	sim.IncreaseTime(30)

	restored, _ := newTestSimulator(t)
	restored.RestoreChain(sim.Export())
	assert.Equal(t, sim.Export(), restored.Export())
	assert.Equal(t, sim.NextAddress(deployer), restored.NextAddress(deployer))

	restored.Mine(1)
	assert.Equal(t, sim.Timestamp()+31, restored.Timestamp())
}
