package app

import (
	"github.com/trebuchet-org/govlock/internal/adapters/journal"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Devnet lifecycle
	InitDevnet   *usecase.InitDevnet
	MintVotes    *usecase.MintVotes
	AdvanceChain *usecase.AdvanceChain
	ChainStatus  *usecase.ChainStatus
	ListEvents   *usecase.ListEvents

	// Governance
	CreateProposal  *usecase.CreateProposal
	CastVote        *usecase.CastVote
	QueueProposal   *usecase.QueueProposal
	ExecuteProposal *usecase.ExecuteProposal
	CancelProposal  *usecase.CancelProposal
	ShowProposal    *usecase.ShowProposal
	ListProposals   *usecase.ListProposals
	Remote          *usecase.RemoteGovernance

	// Local config
	ShowConfig   *usecase.ShowConfig
	SetConfig    *usecase.SetConfig
	RemoveConfig *usecase.RemoveConfig

	journal *journal.Store
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	initDevnet *usecase.InitDevnet,
	mintVotes *usecase.MintVotes,
	advanceChain *usecase.AdvanceChain,
	chainStatus *usecase.ChainStatus,
	listEvents *usecase.ListEvents,
	createProposal *usecase.CreateProposal,
	castVote *usecase.CastVote,
	queueProposal *usecase.QueueProposal,
	executeProposal *usecase.ExecuteProposal,
	cancelProposal *usecase.CancelProposal,
	showProposal *usecase.ShowProposal,
	listProposals *usecase.ListProposals,
	remote *usecase.RemoteGovernance,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
	journal *journal.Store,
) (*App, error) {
	return &App{
		Config:          cfg,
		InitDevnet:      initDevnet,
		MintVotes:       mintVotes,
		AdvanceChain:    advanceChain,
		ChainStatus:     chainStatus,
		ListEvents:      listEvents,
		CreateProposal:  createProposal,
		CastVote:        castVote,
		QueueProposal:   queueProposal,
		ExecuteProposal: executeProposal,
		CancelProposal:  cancelProposal,
		ShowProposal:    showProposal,
		ListProposals:   listProposals,
		Remote:          remote,
		ShowConfig:      showConfig,
		SetConfig:       setConfig,
		RemoveConfig:    removeConfig,
		journal:         journal,
	}, nil
}

// Close releases the event journal
func (a *App) Close() error {
	return a.journal.Close()
}
