// Package simchain is an in-process ledger for the governance contracts: it
// owns the clock, native balances and the contracts deployed at each
// address, and runs one transaction per mined block.
package simchain

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

type snapshot struct {
	balances map[common.Address]*big.Int
	tracked  []any
	events   int
}

// Simulator is the devnet ledger. Transact and Read are safe for concurrent
// use; every other method must run inside them or before the simulator is
// shared.
type Simulator struct {
	mu sync.Mutex

	chainID       uint64
	block         uint64
	timestamp     uint64
	blockTime     uint64
	timeOffset    uint64
	nextTimestamp uint64

	balances  map[common.Address]*big.Int
	nonces    map[common.Address]uint64
	contracts map[common.Address]Contract
	tracked   []chain.Journaled
	snapshots []snapshot

	sink    domain.EventSink
	pending []domain.Event
	inTx    bool

	log *slog.Logger
}

// NewSimulator starts a chain at block 0 with the given genesis time.
func NewSimulator(chainID, genesisTime, blockTime uint64, sink domain.EventSink, log *slog.Logger) *Simulator {
	if sink == nil {
		sink = domain.NopEventSink{}
	}
	if blockTime == 0 {
		blockTime = 1
	}
	return &Simulator{
		chainID:   chainID,
		timestamp: genesisTime,
		blockTime: blockTime,
		balances:  make(map[common.Address]*big.Int),
		nonces:    make(map[common.Address]uint64),
		contracts: make(map[common.Address]Contract),
		sink:      sink,
		log:       log.With("component", "Simulator"),
	}
}

// Clock

func (s *Simulator) BlockNumber() uint64 { return s.block }
func (s *Simulator) Timestamp() uint64   { return s.timestamp }
func (s *Simulator) ChainID() uint64     { return s.chainID }
func (s *Simulator) BlockTime() uint64   { return s.blockTime }

// Mine mines n empty blocks.
func (s *Simulator) Mine(n uint64) {
	for i := uint64(0); i < n; i++ {
		s.mineBlock()
	}
}

func (s *Simulator) mineBlock() {
	s.block++
	switch {
	case s.nextTimestamp > 0:
		s.timestamp = s.nextTimestamp
		s.nextTimestamp = 0
	default:
		s.timestamp += s.blockTime + s.timeOffset
	}
	s.timeOffset = 0
}

// IncreaseTime moves the timestamp of the next mined block forward by seconds.
func (s *Simulator) IncreaseTime(seconds uint64) {
	s.timeOffset += seconds
}

// SetNextBlockTimestamp pins the timestamp of the next mined block.
func (s *Simulator) SetNextBlockTimestamp(ts uint64) error {
	if ts <= s.timestamp {
		return fmt.Errorf("timestamp %d is not after the current block timestamp %d", ts, s.timestamp)
	}
	s.nextTimestamp = ts
	return nil
}

// Balances

func (s *Simulator) BalanceOf(account common.Address) *big.Int {
	return new(big.Int).Set(chain.ValueOrZero(s.balances[account]))
}

func (s *Simulator) SetBalance(account common.Address, amount *big.Int) {
	s.balances[account] = new(big.Int).Set(amount)
}

func (s *Simulator) transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return Revert("negative value %s", amount)
	}
	balance := chain.ValueOrZero(s.balances[from])
	if balance.Cmp(amount) < 0 {
		return Revert("insufficient balance: %s has %s, needs %s", from.Hex(), balance, amount)
	}
	s.balances[from] = new(big.Int).Sub(balance, amount)
	s.balances[to] = new(big.Int).Add(chain.ValueOrZero(s.balances[to]), amount)
	return nil
}

// Contracts

// NextAddress returns the address the next contract deployed by deployer
// gets, as CREATE would assign it.
func (s *Simulator) NextAddress(deployer common.Address) common.Address {
	return crypto.CreateAddress(deployer, s.nonces[deployer])
}

// AddressAt returns the CREATE address of deployer at nonce.
func (s *Simulator) AddressAt(deployer common.Address, nonce uint64) common.Address {
	return crypto.CreateAddress(deployer, nonce)
}

// UseNonce consumes and returns the current nonce of account.
func (s *Simulator) UseNonce(account common.Address) uint64 {
	n := s.nonces[account]
	s.nonces[account] = n + 1
	return n
}

// Register places c at its address. Contracts that carry journaled state are
// tracked for snapshots.
func (s *Simulator) Register(c Contract) {
	s.contracts[c.Address()] = c
	if j, ok := c.(chain.Journaled); ok {
		s.Track(j)
	}
	s.log.Debug("contract registered", "address", c.Address().Hex())
}

// Track adds state that snapshots capture and reverts restore.
func (s *Simulator) Track(j chain.Journaled) {
	s.tracked = append(s.tracked, j)
}

// Contract returns the contract at address.
func (s *Simulator) Contract(address common.Address) (Contract, bool) {
	c, ok := s.contracts[address]
	return c, ok
}

// Journal

// Snapshot captures balances and all tracked state.
func (s *Simulator) Snapshot() int {
	snap := snapshot{
		balances: make(map[common.Address]*big.Int, len(s.balances)),
		tracked:  make([]any, len(s.tracked)),
		events:   len(s.pending),
	}
	for k, v := range s.balances {
		snap.balances[k] = new(big.Int).Set(v)
	}
	for i, j := range s.tracked {
		snap.tracked[i] = j.CaptureState()
	}
	s.snapshots = append(s.snapshots, snap)
	return len(s.snapshots) - 1
}

// RevertToSnapshot restores the state captured by Snapshot(id) and drops the
// events emitted since. Later snapshots are discarded.
func (s *Simulator) RevertToSnapshot(id int) {
	if id < 0 || id >= len(s.snapshots) {
		return
	}
	snap := s.snapshots[id]
	s.balances = maps.Clone(snap.balances)
	for i, state := range snap.tracked {
		s.tracked[i].RestoreState(state)
	}
	if snap.events <= len(s.pending) {
		s.pending = s.pending[:snap.events]
	}
	s.snapshots = s.snapshots[:id]
}

func (s *Simulator) discardSnapshot(id int) {
	if id >= 0 && id < len(s.snapshots) {
		s.snapshots = s.snapshots[:id]
	}
}

// Events

// Emit implements domain.EventSink. Inside a transaction events are held back
// until the transaction succeeds.
func (s *Simulator) Emit(event domain.Event) {
	if s.inTx {
		s.pending = append(s.pending, event)
		return
	}
	s.sink.Emit(event)
}

// SetEventSink replaces the sink receiving committed events.
func (s *Simulator) SetEventSink(sink domain.EventSink) {
	s.sink = sink
}

// Transactions

// Transact mines a block and runs fn as its single transaction. When fn fails
// every state change and event of the transaction is reverted; the block is
// still mined.
func (s *Simulator) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mineBlock()
	s.inTx = true
	id := s.Snapshot()
	err := fn(ctx)
	if err != nil {
		s.RevertToSnapshot(id)
	}
	s.discardSnapshot(id)
	s.inTx = false

	events := s.pending
	s.pending = nil
	if err != nil {
		s.log.Debug("transaction reverted", "block", s.block, "error", err)
		return err
	}
	for _, e := range events {
		s.sink.Emit(e)
	}
	s.log.Debug("transaction mined", "block", s.block, "timestamp", s.timestamp, "events", len(events))
	return nil
}

// Read runs fn against the current state without mining.
func (s *Simulator) Read(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx)
}

// Caller returns a Callable whose calls are sent by from.
func (s *Simulator) Caller(from common.Address) *Caller {
	return &Caller{sim: s, from: from}
}

// Caller dispatches calls from a fixed sender. It implements chain.Callable
// and chain.Journal.
type Caller struct {
	sim  *Simulator
	from common.Address
}

// Invoke moves value to target and runs its code, if any. A failing call
// reverts its own effects and wraps domain.ErrUnderlyingCallReverted.
func (c *Caller) Invoke(ctx context.Context, target common.Address, value *big.Int, payload []byte) ([]byte, error) {
	s := c.sim
	id := s.Snapshot()
	out, err := c.invoke(ctx, target, value, payload)
	if err != nil {
		s.RevertToSnapshot(id)
		return nil, fmt.Errorf("%w: %w", domain.ErrUnderlyingCallReverted, err)
	}
	s.discardSnapshot(id)
	return out, nil
}

func (c *Caller) invoke(ctx context.Context, target common.Address, value *big.Int, payload []byte) ([]byte, error) {
	s := c.sim
	if err := s.transfer(c.from, target, value); err != nil {
		return nil, err
	}
	contract, ok := s.contracts[target]
	if !ok {
		return nil, nil
	}
	return contract.Call(ctx, Msg{Sender: c.from, Value: chain.ValueOrZero(value), Clock: s}, payload)
}

// Call runs a read-only call. State changes made by the callee are discarded.
func (c *Caller) Call(ctx context.Context, target common.Address, payload []byte) ([]byte, error) {
	s := c.sim
	id := s.Snapshot()
	defer s.RevertToSnapshot(id)
	return c.invoke(ctx, target, nil, payload)
}

func (c *Caller) Snapshot() int           { return c.sim.Snapshot() }
func (c *Caller) RevertToSnapshot(id int) { c.sim.RevertToSnapshot(id) }

// Export returns the persisted chain state.
func (s *Simulator) Export() models.ChainState {
	state := models.ChainState{
		ChainID:       s.chainID,
		Block:         s.block,
		Timestamp:     s.timestamp,
		BlockTime:     s.blockTime,
		TimeOffset:    s.timeOffset,
		NextTimestamp: s.nextTimestamp,
		Balances:      make(map[common.Address]*big.Int, len(s.balances)),
		Nonces:        maps.Clone(s.nonces),
	}
	for k, v := range s.balances {
		state.Balances[k] = new(big.Int).Set(v)
	}
	return state
}

// RestoreChain resets the clock and balances from a persisted state.
func (s *Simulator) RestoreChain(state models.ChainState) {
	s.chainID = state.ChainID
	s.block = state.Block
	s.timestamp = state.Timestamp
	s.blockTime = state.BlockTime
	s.timeOffset = state.TimeOffset
	s.nextTimestamp = state.NextTimestamp
	s.balances = make(map[common.Address]*big.Int, len(state.Balances))
	for k, v := range state.Balances {
		s.balances[k] = new(big.Int).Set(v)
	}
	s.nonces = maps.Clone(state.Nonces)
	if s.nonces == nil {
		s.nonces = make(map[common.Address]uint64)
	}
}

var (
	_ chain.Clock      = (*Simulator)(nil)
	_ chain.Journal    = (*Simulator)(nil)
	_ chain.Callable   = (*Caller)(nil)
	_ chain.Journal    = (*Caller)(nil)
	_ domain.EventSink = (*Simulator)(nil)
)
