//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/govlock/internal/adapters"
	"github.com/trebuchet-org/govlock/internal/config"
	"github.com/trebuchet-org/govlock/internal/logging"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewWorkspace,
		usecase.NewInitDevnet,
		usecase.NewMintVotes,
		usecase.NewAdvanceChain,
		usecase.NewChainStatus,
		usecase.NewListEvents,
		usecase.NewCreateProposal,
		usecase.NewCastVote,
		usecase.NewQueueProposal,
		usecase.NewExecuteProposal,
		usecase.NewCancelProposal,
		usecase.NewShowProposal,
		usecase.NewListProposals,
		usecase.NewRemoteGovernance,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil
}
