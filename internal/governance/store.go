package governance

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// Store persists proposals, vote records and the governance settings.
type Store interface {
	Proposal(id common.Hash) (*models.Proposal, bool)
	PutProposal(p *models.Proposal)
	// Proposals returns proposals in creation order.
	Proposals() []*models.Proposal

	Vote(id common.Hash, voter common.Address) (*models.VoteRecord, bool)
	PutVote(v *models.VoteRecord)
	Votes(id common.Hash) []*models.VoteRecord

	Settings() models.GovernorSettings
	SetSettings(settings models.GovernorSettings)
}

// MemoryStore is an in-memory Store that copies records on every access.
type MemoryStore struct {
	proposals map[common.Hash]*models.Proposal
	order     []common.Hash
	votes     map[common.Hash][]*models.VoteRecord
	settings  models.GovernorSettings
}

// NewMemoryStore creates a store seeded from state.
func NewMemoryStore(state *models.GovernorState) *MemoryStore {
	s := &MemoryStore{}
	if state == nil {
		state = &models.GovernorState{}
	}
	s.restore(state)
	return s
}

func (s *MemoryStore) Proposal(id common.Hash) (*models.Proposal, bool) {
	p, ok := s.proposals[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (s *MemoryStore) PutProposal(p *models.Proposal) {
	if _, ok := s.proposals[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.proposals[p.ID] = p.Clone()
}

func (s *MemoryStore) Proposals() []*models.Proposal {
	out := make([]*models.Proposal, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.proposals[id].Clone())
	}
	return out
}

func (s *MemoryStore) Vote(id common.Hash, voter common.Address) (*models.VoteRecord, bool) {
	for _, v := range s.votes[id] {
		if v.Voter == voter {
			return cloneVote(v), true
		}
	}
	return nil, false
}

func (s *MemoryStore) PutVote(v *models.VoteRecord) {
	for i, existing := range s.votes[v.ProposalID] {
		if existing.Voter == v.Voter {
			s.votes[v.ProposalID][i] = cloneVote(v)
			return
		}
	}
	s.votes[v.ProposalID] = append(s.votes[v.ProposalID], cloneVote(v))
}

func (s *MemoryStore) Votes(id common.Hash) []*models.VoteRecord {
	out := make([]*models.VoteRecord, 0, len(s.votes[id]))
	for _, v := range s.votes[id] {
		out = append(out, cloneVote(v))
	}
	return out
}

func (s *MemoryStore) Settings() models.GovernorSettings {
	return cloneSettings(s.settings)
}

func (s *MemoryStore) SetSettings(settings models.GovernorSettings) {
	s.settings = cloneSettings(settings)
}

// Export returns the persisted form of the store.
func (s *MemoryStore) Export() *models.GovernorState {
	state := &models.GovernorState{
		Settings:  s.Settings(),
		Proposals: s.Proposals(),
		Votes:     []*models.VoteRecord{},
	}
	for _, id := range s.order {
		state.Votes = append(state.Votes, s.Votes(id)...)
	}
	return state
}

func (s *MemoryStore) restore(state *models.GovernorState) {
	s.proposals = make(map[common.Hash]*models.Proposal, len(state.Proposals))
	s.order = make([]common.Hash, 0, len(state.Proposals))
	s.votes = make(map[common.Hash][]*models.VoteRecord)
	for _, p := range state.Proposals {
		s.PutProposal(p)
	}
	for _, v := range state.Votes {
		s.PutVote(v)
	}
	s.SetSettings(state.Settings)
}

// CaptureState implements chain.Journaled.
func (s *MemoryStore) CaptureState() any {
	return s.Export()
}

// RestoreState implements chain.Journaled.
func (s *MemoryStore) RestoreState(state any) {
	s.restore(state.(*models.GovernorState))
}

func cloneVote(v *models.VoteRecord) *models.VoteRecord {
	c := *v
	if v.Weight != nil {
		c.Weight = new(big.Int).Set(v.Weight)
	}
	return &c
}

func cloneSettings(s models.GovernorSettings) models.GovernorSettings {
	if s.ProposalThreshold != nil {
		s.ProposalThreshold = new(big.Int).Set(s.ProposalThreshold)
	}
	return s
}

var (
	_ Store           = (*MemoryStore)(nil)
	_ chain.Journaled = (*MemoryStore)(nil)
)
