package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/govlock/internal/adapters/abi"
	"github.com/trebuchet-org/govlock/internal/adapters/ethrpc"
	"github.com/trebuchet-org/govlock/internal/adapters/fs"
	"github.com/trebuchet-org/govlock/internal/adapters/interactive"
	"github.com/trebuchet-org/govlock/internal/adapters/journal"
	"github.com/trebuchet-org/govlock/internal/adapters/progress"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewDevnetStoreAdapter,
	wire.Bind(new(usecase.DevnetRepository), new(*fs.DevnetStoreAdapter)),

	fs.NewProposalLoaderAdapter,
	wire.Bind(new(usecase.ProposalLoader), new(*fs.ProposalLoaderAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),
)

// JournalSet provides the SQLite event journal and the log notifier
var JournalSet = wire.NewSet(
	journal.NewStore,
	wire.Bind(new(usecase.EventJournal), new(*journal.Store)),

	journal.NewLogSink,
	wire.Bind(new(domain.EventSink), new(*journal.LogSink)),
)

// ABISet provides calldata encoding
var ABISet = wire.NewSet(
	abi.NewCalldataEncoder,
	wire.Bind(new(usecase.CalldataEncoder), new(*abi.CalldataEncoder)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ProposalSelector), new(*interactive.SelectorAdapter)),
)

// RemoteSet provides JSON-RPC access to deployed Governors
var RemoteSet = wire.NewSet(
	ethrpc.NewConnector,
	wire.Bind(new(usecase.RemoteConnector), new(*ethrpc.Connector)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	progress.NewProgressSink,

	FSSet,
	JournalSet,
	ABISet,
	InteractiveSet,
	RemoteSet,
)
