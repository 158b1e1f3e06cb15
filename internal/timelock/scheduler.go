// Package timelock implements a TimelockController style scheduler: calls are
// scheduled by proposers, become ready after a minimum delay and are executed
// at most once by executors.
package timelock

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// Params are the constructor arguments of a timelock.
type Params struct {
	MinDelay  uint64
	Proposers []common.Address
	// Executors may contain the zero address to open execution to anyone.
	Executors []common.Address
	// Admin is an optional extra admin next to the timelock itself.
	Admin common.Address
}

// Scheduler holds timelocked operations and dispatches them through a Callable
// once their delay has passed. It is not safe for concurrent use.
type Scheduler struct {
	address  common.Address
	store    Store
	callable chain.Callable
	events   domain.EventSink
	log      *slog.Logger

	inFlight map[common.Hash]bool
}

// NewScheduler creates a scheduler living at address. Calls are dispatched
// through callable with the scheduler as sender.
func NewScheduler(address common.Address, store Store, callable chain.Callable, events domain.EventSink, log *slog.Logger) *Scheduler {
	if events == nil {
		events = domain.NopEventSink{}
	}
	return &Scheduler{
		address:  address,
		store:    store,
		callable: callable,
		events:   events,
		log:      log.With("component", "Timelock"),
		inFlight: make(map[common.Hash]bool),
	}
}

// Initialize grants the constructor roles and sets the minimum delay.
func (s *Scheduler) Initialize(clock chain.Clock, params Params) {
	s.grant(clock, DefaultAdminRole, s.address, s.address)
	if params.Admin != (common.Address{}) {
		s.grant(clock, DefaultAdminRole, params.Admin, s.address)
	}
	for _, p := range params.Proposers {
		s.grant(clock, ProposerRole, p, s.address)
		s.grant(clock, CancellerRole, p, s.address)
	}
	for _, e := range params.Executors {
		s.grant(clock, ExecutorRole, e, s.address)
	}
	s.store.SetMinDelay(params.MinDelay)
	s.events.Emit(domain.MinDelayChangeEvent{
		EventMeta:   s.meta(clock),
		NewDuration: params.MinDelay,
	})
}

// Address returns the timelock address.
func (s *Scheduler) Address() common.Address {
	return s.address
}

// Schedule schedules a single call.
func (s *Scheduler) Schedule(ctx context.Context, clock chain.Clock, caller common.Address, call chain.Call, predecessor, salt common.Hash, delay uint64) (common.Hash, error) {
	id := HashOperation(call, predecessor, salt)
	if err := s.schedule(clock, caller, id, []chain.Call{call}, predecessor, salt, delay, false); err != nil {
		return common.Hash{}, err
	}
	return id, nil
}

// ScheduleBatch schedules calls that execute atomically in order.
func (s *Scheduler) ScheduleBatch(ctx context.Context, clock chain.Clock, caller common.Address, calls []chain.Call, predecessor, salt common.Hash, delay uint64) (common.Hash, error) {
	if len(calls) == 0 {
		return common.Hash{}, fmt.Errorf("%w: empty batch", domain.ErrInvalidOperationLength)
	}
	id := HashOperationBatch(calls, predecessor, salt)
	if err := s.schedule(clock, caller, id, calls, predecessor, salt, delay, true); err != nil {
		return common.Hash{}, err
	}
	return id, nil
}

func (s *Scheduler) schedule(clock chain.Clock, caller common.Address, id common.Hash, calls []chain.Call, predecessor, salt common.Hash, delay uint64, batch bool) error {
	if err := s.checkRole(ProposerRole, caller); err != nil {
		return err
	}
	if existing, ok := s.store.Operation(id); ok && existing.Status != models.OperationUnset {
		return fmt.Errorf("%w: %s is %s", domain.ErrOperationAlreadyScheduled, id.Hex(), existing.Status)
	}
	if minDelay := s.store.MinDelay(); delay < minDelay {
		return fmt.Errorf("%w: got %d, need at least %d", domain.ErrDelayTooShort, delay, minDelay)
	}
	for i, call := range calls {
		if !chain.IsUint256(call.Value) {
			return fmt.Errorf("%w: call %d value is %s", domain.ErrValueOutOfRange, i, call.Value)
		}
	}
	readyAt, ok := chain.CheckedAdd(clock.Timestamp(), delay)
	if !ok {
		return fmt.Errorf("%w: %d seconds from %d", domain.ErrDelayOverflow, delay, clock.Timestamp())
	}

	op := (&models.Operation{
		ID:          id,
		Calls:       calls,
		Predecessor: predecessor,
		Salt:        salt,
		ReadyAt:     readyAt,
		Status:      models.OperationWaiting,
		Batch:       batch,
	}).Clone()
	s.store.PutOperation(op)

	for i, call := range op.Calls {
		s.events.Emit(domain.CallScheduledEvent{
			EventMeta:   s.meta(clock),
			OperationID: id,
			Index:       i,
			Target:      call.Target,
			Value:       call.Value,
			Data:        call.Data,
			Predecessor: predecessor,
			Delay:       delay,
		})
	}
	s.log.Debug("operation scheduled", "id", id.Hex(), "calls", len(calls), "readyAt", op.ReadyAt)
	return nil
}

// Execute runs a ready single-call operation.
func (s *Scheduler) Execute(ctx context.Context, clock chain.Clock, caller common.Address, call chain.Call, predecessor, salt common.Hash) error {
	return s.execute(ctx, clock, caller, HashOperation(call, predecessor, salt), []chain.Call{call}, predecessor)
}

// ExecuteBatch runs a ready batch. Either every call succeeds and the
// operation is marked done, or the operation stays pending.
func (s *Scheduler) ExecuteBatch(ctx context.Context, clock chain.Clock, caller common.Address, calls []chain.Call, predecessor, salt common.Hash) error {
	if len(calls) == 0 {
		return fmt.Errorf("%w: empty batch", domain.ErrInvalidOperationLength)
	}
	return s.execute(ctx, clock, caller, HashOperationBatch(calls, predecessor, salt), calls, predecessor)
}

func (s *Scheduler) execute(ctx context.Context, clock chain.Clock, caller common.Address, id common.Hash, calls []chain.Call, predecessor common.Hash) error {
	if err := s.checkRole(ExecutorRole, caller); err != nil {
		return err
	}
	if s.inFlight[id] {
		return fmt.Errorf("%w: %s is already executing", domain.ErrOperationNotReady, id.Hex())
	}

	op, ok := s.store.Operation(id)
	if !ok {
		return fmt.Errorf("%w: %s is not scheduled", domain.ErrOperationNotReady, id.Hex())
	}
	switch state := op.StateAt(clock.Timestamp()); state {
	case models.OperationReady:
	case models.OperationDone:
		return fmt.Errorf("%w: %s", domain.ErrOperationAlreadyDone, id.Hex())
	case models.OperationWaiting:
		return fmt.Errorf("%w: %s is ready at %d, now %d", domain.ErrOperationNotReady, id.Hex(), op.ReadyAt, clock.Timestamp())
	default:
		return fmt.Errorf("%w: %s is %s", domain.ErrOperationNotReady, id.Hex(), state)
	}
	if predecessor != (common.Hash{}) && !s.IsOperationDone(predecessor) {
		return fmt.Errorf("%w: %s", domain.ErrPredecessorNotDone, predecessor.Hex())
	}

	s.inFlight[id] = true
	defer delete(s.inFlight, id)

	journal, journaled := s.callable.(chain.Journal)
	snapshot := 0
	if journaled {
		snapshot = journal.Snapshot()
	}

	executed := make([]domain.Event, 0, len(calls))
	for i, call := range calls {
		if _, err := s.callable.Invoke(ctx, call.Target, chain.ValueOrZero(call.Value), call.Data); err != nil {
			if journaled {
				journal.RevertToSnapshot(snapshot)
			}
			s.log.Debug("operation call failed", "id", id.Hex(), "index", i, "target", call.Target.Hex(), "error", err)
			return &domain.CallRevertedError{Index: i, Target: call.Target, Err: err}
		}
		executed = append(executed, domain.CallExecutedEvent{
			EventMeta:   s.meta(clock),
			OperationID: id,
			Index:       i,
			Target:      call.Target,
			Value:       call.Value,
			Data:        call.Data,
		})
	}

	// Calls may have touched the store (e.g. updateDelay), so reload first.
	if current, ok := s.store.Operation(id); ok {
		op = current
	}
	op.Status = models.OperationDone
	s.store.PutOperation(op)

	for _, e := range executed {
		s.events.Emit(e)
	}
	s.log.Debug("operation executed", "id", id.Hex(), "calls", len(calls))
	return nil
}

// Cancel cancels a pending operation.
func (s *Scheduler) Cancel(ctx context.Context, clock chain.Clock, caller common.Address, id common.Hash) error {
	if err := s.checkRole(CancellerRole, caller); err != nil {
		return err
	}
	if s.inFlight[id] {
		return fmt.Errorf("%w: %s is executing", domain.ErrCannotCancelExecuted, id.Hex())
	}
	op, ok := s.store.Operation(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrOperationNotFound, id.Hex())
	}
	switch op.Status {
	case models.OperationDone:
		return fmt.Errorf("%w: %s", domain.ErrCannotCancelExecuted, id.Hex())
	case models.OperationCanceled:
		return fmt.Errorf("%w: %s is canceled", domain.ErrOperationNotPending, id.Hex())
	}

	op.Status = models.OperationCanceled
	s.store.PutOperation(op)
	s.events.Emit(domain.OperationCanceledEvent{EventMeta: s.meta(clock), OperationID: id})
	s.log.Debug("operation canceled", "id", id.Hex())
	return nil
}

// UpdateDelay changes the minimum delay. Only the timelock itself may call it,
// so the change has to go through a scheduled operation.
func (s *Scheduler) UpdateDelay(ctx context.Context, clock chain.Clock, caller common.Address, newDelay uint64) error {
	if caller != s.address {
		return fmt.Errorf("%w: caller %s is not the timelock", domain.ErrUnauthorized, caller.Hex())
	}
	old := s.store.MinDelay()
	s.store.SetMinDelay(newDelay)
	s.events.Emit(domain.MinDelayChangeEvent{EventMeta: s.meta(clock), OldDuration: old, NewDuration: newDelay})
	return nil
}

// GrantRole grants role to account. The caller needs the admin role.
func (s *Scheduler) GrantRole(ctx context.Context, clock chain.Clock, caller common.Address, role common.Hash, account common.Address) error {
	if err := s.checkRole(DefaultAdminRole, caller); err != nil {
		return err
	}
	s.grant(clock, role, account, caller)
	return nil
}

// RevokeRole revokes role from account. The caller needs the admin role.
func (s *Scheduler) RevokeRole(ctx context.Context, clock chain.Clock, caller common.Address, role common.Hash, account common.Address) error {
	if err := s.checkRole(DefaultAdminRole, caller); err != nil {
		return err
	}
	if !s.store.HasRole(role, account) {
		return nil
	}
	s.store.SetRole(role, account, false)
	s.events.Emit(domain.RoleEvent{EventMeta: s.meta(clock), Role: role, Account: account, Sender: caller})
	return nil
}

func (s *Scheduler) grant(clock chain.Clock, role common.Hash, account, sender common.Address) {
	if s.store.HasRole(role, account) {
		return
	}
	s.store.SetRole(role, account, true)
	s.events.Emit(domain.RoleEvent{EventMeta: s.meta(clock), Granted: true, Role: role, Account: account, Sender: sender})
}

func (s *Scheduler) checkRole(role common.Hash, caller common.Address) error {
	if s.store.HasRole(role, caller) {
		return nil
	}
	if role == ExecutorRole && s.store.HasRole(role, common.Address{}) {
		return nil
	}
	return fmt.Errorf("%w: %s is missing %s", domain.ErrUnauthorized, caller.Hex(), RoleName(role))
}

func (s *Scheduler) meta(clock chain.Clock) domain.EventMeta {
	return domain.EventMeta{Emitter: s.address, Block: clock.BlockNumber(), Timestamp: clock.Timestamp()}
}

// Views

// HasRole reports whether account holds role.
func (s *Scheduler) HasRole(role common.Hash, account common.Address) bool {
	return s.store.HasRole(role, account)
}

// RoleMembers lists the accounts holding role.
func (s *Scheduler) RoleMembers(role common.Hash) []common.Address {
	return s.store.RoleMembers(role)
}

// MinDelay returns the current minimum delay in seconds.
func (s *Scheduler) MinDelay() uint64 {
	return s.store.MinDelay()
}

// Operation returns a copy of the stored operation.
func (s *Scheduler) Operation(id common.Hash) (*models.Operation, error) {
	op, ok := s.store.Operation(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOperationNotFound, id.Hex())
	}
	return op, nil
}

// Operations returns every known operation.
func (s *Scheduler) Operations() []*models.Operation {
	return s.store.Operations()
}

// OperationState derives the state of id at the clock's timestamp.
func (s *Scheduler) OperationState(clock chain.Clock, id common.Hash) models.OperationState {
	op, ok := s.store.Operation(id)
	if !ok {
		return models.OperationUnset
	}
	return op.StateAt(clock.Timestamp())
}

// IsOperation reports whether id was ever scheduled.
func (s *Scheduler) IsOperation(id common.Hash) bool {
	op, ok := s.store.Operation(id)
	return ok && op.Status != models.OperationUnset
}

// IsOperationPending reports whether id is waiting or ready.
func (s *Scheduler) IsOperationPending(id common.Hash) bool {
	op, ok := s.store.Operation(id)
	return ok && op.Status == models.OperationWaiting
}

// IsOperationReady reports whether id can be executed now.
func (s *Scheduler) IsOperationReady(clock chain.Clock, id common.Hash) bool {
	return s.OperationState(clock, id) == models.OperationReady
}

// IsOperationDone reports whether id was executed.
func (s *Scheduler) IsOperationDone(id common.Hash) bool {
	op, ok := s.store.Operation(id)
	return ok && op.Status == models.OperationDone
}

// Timestamp returns the ready time of id, or 0 when unknown.
func (s *Scheduler) Timestamp(id common.Hash) uint64 {
	op, ok := s.store.Operation(id)
	if !ok {
		return 0
	}
	return op.ReadyAt
}

// HashOperation returns the id Schedule would assign.
func (s *Scheduler) HashOperation(call chain.Call, predecessor, salt common.Hash) common.Hash {
	return HashOperation(call, predecessor, salt)
}

// HashOperationBatch returns the id ScheduleBatch would assign.
func (s *Scheduler) HashOperationBatch(calls []chain.Call, predecessor, salt common.Hash) common.Hash {
	return HashOperationBatch(calls, predecessor, salt)
}
