package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// DevnetRepository persists the devnet between invocations.
// Load returns domain.ErrDevnetNotInitialized when nothing was saved yet.
type DevnetRepository interface {
	Load(ctx context.Context) (*models.DevnetState, error)
	Save(ctx context.Context, state *models.DevnetState) error
	Delete(ctx context.Context) error
}

// LocalConfigStore handles local config persistence
type LocalConfigStore interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}

// EventJournal stores committed contract events in emission order
type EventJournal interface {
	Append(ctx context.Context, events []domain.Event) error
	List(ctx context.Context, filter domain.EventFilter) ([]*models.EventRecord, error)
	Clear(ctx context.Context) error
}

// ProposalLoader reads proposal drafts from files
type ProposalLoader interface {
	Load(ctx context.Context, path string) (*models.ProposalDraft, error)
}

// CalldataEncoder encodes a call from a function signature such as
// "setValue(uint256)" and its string arguments
type CalldataEncoder interface {
	Encode(signature string, args []string) ([]byte, error)
}

// ProposalSelector handles interactive selection of proposals
type ProposalSelector interface {
	SelectProposal(ctx context.Context, proposals []*ProposalSummary, prompt string) (*ProposalSummary, error)
}

// RemoteTarget identifies a deployed Governor
type RemoteTarget struct {
	RPCURL     string
	ChainID    uint64
	Governor   common.Address
	PrivateKey string
}

// RemoteConnector opens sessions against deployed Governors
type RemoteConnector interface {
	Connect(ctx context.Context, target RemoteTarget) (RemoteSession, error)
}

// RemoteSession reads from and votes on one deployed Governor
type RemoteSession interface {
	ChainID() uint64
	Head(ctx context.Context) (chain.FixedClock, error)
	Proposal(ctx context.Context, id common.Hash) (*models.RemoteProposal, error)
	VotingPower(ctx context.Context, account common.Address, block uint64) (*models.VotingPower, error)
	CastVote(ctx context.Context, id common.Hash, support models.VoteType, reason string) (common.Address, error)
	Close()
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
