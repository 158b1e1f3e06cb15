package timelock

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// Store persists timelock operations, roles and the minimum delay.
type Store interface {
	Operation(id common.Hash) (*models.Operation, bool)
	PutOperation(op *models.Operation)
	Operations() []*models.Operation

	MinDelay() uint64
	SetMinDelay(delay uint64)

	HasRole(role common.Hash, account common.Address) bool
	SetRole(role common.Hash, account common.Address, granted bool)
	RoleMembers(role common.Hash) []common.Address
}

// MemoryStore is an in-memory Store. Records are copied on the way in and out.
type MemoryStore struct {
	operations map[common.Hash]*models.Operation
	roles      map[common.Hash]map[common.Address]bool
	minDelay   uint64
}

// NewMemoryStore creates a store, optionally seeded from a persisted state.
func NewMemoryStore(state *models.TimelockState) *MemoryStore {
	s := &MemoryStore{
		operations: make(map[common.Hash]*models.Operation),
		roles:      make(map[common.Hash]map[common.Address]bool),
	}
	if state != nil {
		s.restore(state)
	}
	return s
}

func (s *MemoryStore) Operation(id common.Hash) (*models.Operation, bool) {
	op, ok := s.operations[id]
	if !ok {
		return nil, false
	}
	return op.Clone(), true
}

func (s *MemoryStore) PutOperation(op *models.Operation) {
	s.operations[op.ID] = op.Clone()
}

// Operations returns all operations ordered by ready time, then id.
func (s *MemoryStore) Operations() []*models.Operation {
	ops := lo.MapToSlice(s.operations, func(_ common.Hash, op *models.Operation) *models.Operation {
		return op.Clone()
	})
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].ReadyAt != ops[j].ReadyAt {
			return ops[i].ReadyAt < ops[j].ReadyAt
		}
		return ops[i].ID.Cmp(ops[j].ID) < 0
	})
	return ops
}

func (s *MemoryStore) MinDelay() uint64         { return s.minDelay }
func (s *MemoryStore) SetMinDelay(delay uint64) { s.minDelay = delay }

func (s *MemoryStore) HasRole(role common.Hash, account common.Address) bool {
	return s.roles[role][account]
}

func (s *MemoryStore) SetRole(role common.Hash, account common.Address, granted bool) {
	if !granted {
		delete(s.roles[role], account)
		return
	}
	if s.roles[role] == nil {
		s.roles[role] = make(map[common.Address]bool)
	}
	s.roles[role][account] = true
}

func (s *MemoryStore) RoleMembers(role common.Hash) []common.Address {
	members := lo.Keys(s.roles[role])
	sort.Slice(members, func(i, j int) bool { return members[i].Cmp(members[j]) < 0 })
	return members
}

// Export returns the persisted form of the store.
func (s *MemoryStore) Export() *models.TimelockState {
	state := &models.TimelockState{
		MinDelay:   s.minDelay,
		Operations: s.Operations(),
		Roles:      make(map[common.Hash][]common.Address, len(s.roles)),
	}
	for role := range s.roles {
		if members := s.RoleMembers(role); len(members) > 0 {
			state.Roles[role] = members
		}
	}
	return state
}

func (s *MemoryStore) restore(state *models.TimelockState) {
	s.minDelay = state.MinDelay
	s.operations = make(map[common.Hash]*models.Operation, len(state.Operations))
	for _, op := range state.Operations {
		s.operations[op.ID] = op.Clone()
	}
	s.roles = make(map[common.Hash]map[common.Address]bool, len(state.Roles))
	for role, members := range state.Roles {
		for _, m := range members {
			s.SetRole(role, m, true)
		}
	}
}

// CaptureState implements chain.Journaled.
func (s *MemoryStore) CaptureState() any {
	return s.Export()
}

// RestoreState implements chain.Journaled.
func (s *MemoryStore) RestoreState(state any) {
	s.restore(state.(*models.TimelockState))
}

var (
	_ Store           = (*MemoryStore)(nil)
	_ chain.Journaled = (*MemoryStore)(nil)
)
