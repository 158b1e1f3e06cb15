package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/config"
)

var (
	box      = common.HexToAddress("0x5FC8d32690cc91D4c39d9d3abcBD16989F875707")
	timelock = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(&config.RuntimeConfig{DataDir: filepath.Join(t.TempDir(), ".govlock")}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	store.now = func() time.Time { return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleEvents() []domain.Event {
	return []domain.Event{
		domain.MinDelayChangeEvent{EventMeta: domain.EventMeta{Emitter: timelock, Block: 2, Timestamp: 1_700_000_002}, OldDuration: 0, NewDuration: 2},
		domain.ValueChangedEvent{EventMeta: domain.EventMeta{Emitter: box, Block: 3, Timestamp: 1_700_000_003}, Value: big.NewInt(42)},
		domain.ValueChangedEvent{EventMeta: domain.EventMeta{Emitter: box, Block: 9, Timestamp: 1_700_000_020}, Value: big.NewInt(555)},
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestStore_AppendList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Append(ctx, sampleEvents()))

	records, err := store.List(ctx, domain.EventFilter{})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "MinDelayChange", records[0].Name)
	assert.Equal(t, int64(1), records[0].Seq)
	assert.Equal(t, int64(3), records[2].Seq)
	assert.NotEmpty(t, records[0].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)
	assert.Equal(t, box, records[1].Emitter)
	assert.Equal(t, uint64(3), records[1].Block)
	assert.Equal(t, uint64(1_700_000_003), records[1].Timestamp)
	assert.Equal(t, "ValueChanged: value=42", records[1].Summary)
	assert.True(t, store.now().Equal(records[1].RecordedAt))

	var payload struct {
		Value *big.Int `json:"value"`
	}
	require.NoError(t, json.Unmarshal(records[2].Payload, &payload))
	assert.Equal(t, int64(555), payload.Value.Int64())
}

func TestStore_Filters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Append(ctx, sampleEvents()))

	tests := []struct {
		name   string
		filter domain.EventFilter
		blocks []uint64
	}{
		{"by name", domain.EventFilter{Name: "valuechanged"}, []uint64{3, 9}},
		{"by emitter", domain.EventFilter{Emitter: timelock.Hex()}, []uint64{2}},
		{"lowercase emitter", domain.EventFilter{Emitter: "0x5fc8d32690cc91d4c39d9d3abcbd16989f875707"}, []uint64{3, 9}},
		{"from block", domain.EventFilter{FromBlock: 3}, []uint64{3, 9}},
		{"limit keeps latest", domain.EventFilter{Limit: 2}, []uint64{3, 9}},
		{"no match", domain.EventFilter{Name: "VoteCast"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := store.List(ctx, tt.filter)
			require.NoError(t, err)
			var blocks []uint64
			for _, r := range records {
				blocks = append(blocks, r.Block)
			}
			assert.Equal(t, tt.blocks, blocks)
		})
	}

	_, err := store.List(ctx, domain.EventFilter{Emitter: "box"})
	assert.ErrorContains(t, err, "invalid emitter")
}

func TestStore_ClearAndReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), ".govlock")
	cfg := &config.RuntimeConfig{DataDir: dir}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	first := NewStore(cfg, log)
	require.NoError(t, first.Append(ctx, sampleEvents()))
	require.NoError(t, first.Close())

	second := NewStore(cfg, log)
	defer second.Close()
	records, err := second.List(ctx, domain.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 3, "events persist and migrations are not reapplied")

	require.NoError(t, second.Clear(ctx))
	records, err = second.List(ctx, domain.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, second.Append(ctx, sampleEvents()[:1]))
	records, err = second.List(ctx, domain.EventFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(4), records[0].Seq, "sequence keeps increasing after a clear")
}

func TestStore_AppendNothing(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Append(context.Background(), nil))
	assert.NoFileExists(t, store.path)
}

func TestUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (x INTEGER);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (x INTEGER);\n", upMigration(content))
	assert.Equal(t, "SELECT 1;", upMigration("SELECT 1;"))
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	sink.Emit(sampleEvents()[1])

	out := buf.String()
	assert.Contains(t, out, "msg=ValueChanged")
	assert.Contains(t, out, "block=3")
	assert.Contains(t, out, box.Hex())
	assert.Contains(t, out, "component=Events")
}
