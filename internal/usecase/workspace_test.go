package usecase_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// memoryRepository round-trips through JSON like the file store does.
type memoryRepository struct {
	data  []byte
	saves int
}

func (r *memoryRepository) Load(context.Context) (*models.DevnetState, error) {
	if r.data == nil {
		return nil, domain.ErrDevnetNotInitialized
	}
	var state models.DevnetState
	if err := json.Unmarshal(r.data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *memoryRepository) Save(_ context.Context, state *models.DevnetState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	r.data = data
	r.saves++
	return nil
}

func (r *memoryRepository) Delete(context.Context) error {
	r.data = nil
	return nil
}

type memoryJournal struct {
	events    []domain.Event
	appendErr error
}

func (j *memoryJournal) Append(_ context.Context, events []domain.Event) error {
	if j.appendErr != nil {
		return j.appendErr
	}
	j.events = append(j.events, events...)
	return nil
}

func (j *memoryJournal) List(_ context.Context, filter domain.EventFilter) ([]*models.EventRecord, error) {
	var out []*models.EventRecord
	for i, e := range j.events {
		if filter.Name != "" && e.ContractEventName() != filter.Name {
			continue
		}
		out = append(out, &models.EventRecord{Seq: int64(i + 1), Name: e.ContractEventName(), Block: e.EmittedAt().Block})
	}
	return out, nil
}

func (j *memoryJournal) Clear(context.Context) error {
	j.events = nil
	return nil
}

func (j *memoryJournal) names() []string {
	names := make([]string, len(j.events))
	for i, e := range j.events {
		names[i] = e.ContractEventName()
	}
	return names
}

// MockProposalSelector is a mock implementation of ProposalSelector
type MockProposalSelector struct {
	mock.Mock
}

func (m *MockProposalSelector) SelectProposal(ctx context.Context, proposals []*usecase.ProposalSummary, prompt string) (*usecase.ProposalSummary, error) {
	args := m.Called(ctx, proposals, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ProposalSummary), args.Error(1)
}

// MockCalldataEncoder is a mock implementation of CalldataEncoder
type MockCalldataEncoder struct {
	mock.Mock
}

func (m *MockCalldataEncoder) Encode(signature string, args []string) ([]byte, error) {
	called := m.Called(signature, args)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).([]byte), called.Error(1)
}

// MockProposalLoader is a mock implementation of ProposalLoader
type MockProposalLoader struct {
	mock.Mock
}

func (m *MockProposalLoader) Load(ctx context.Context, path string) (*models.ProposalDraft, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProposalDraft), args.Error(1)
}

type harness struct {
	cfg      *config.RuntimeConfig
	repo     *memoryRepository
	journal  *memoryJournal
	selector *MockProposalSelector
	encoder  *MockCalldataEncoder
	loader   *MockProposalLoader
	notified []domain.Event

	init    *usecase.InitDevnet
	mint    *usecase.MintVotes
	propose *usecase.CreateProposal
	vote    *usecase.CastVote
	queue   *usecase.QueueProposal
	execute *usecase.ExecuteProposal
	cancel  *usecase.CancelProposal
	show    *usecase.ShowProposal
	list    *usecase.ListProposals
	advance *usecase.AdvanceChain
	status  *usecase.ChainStatus
	events  *usecase.ListEvents
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	defaults := config.DefaultGovlockFileConfig()
	h := &harness{
		cfg: &config.RuntimeConfig{
			NonInteractive: true,
			Governor:       defaults.Governor,
			Timelock:       defaults.Timelock,
			Devnet:         defaults.Devnet,
			Accounts:       defaults.Accounts,
		},
		repo:     &memoryRepository{},
		journal:  &memoryJournal{},
		selector: &MockProposalSelector{},
		encoder:  &MockCalldataEncoder{},
		loader:   &MockProposalLoader{},
	}
	notify := domain.EventSinkFunc(func(e domain.Event) { h.notified = append(h.notified, e) })
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ws := usecase.NewWorkspace(h.cfg, h.repo, h.journal, notify, h.selector, usecase.NopProgress{}, log)

	h.init = usecase.NewInitDevnet(ws)
	h.mint = usecase.NewMintVotes(ws)
	h.propose = usecase.NewCreateProposal(ws, h.loader, h.encoder)
	h.vote = usecase.NewCastVote(ws)
	h.queue = usecase.NewQueueProposal(ws)
	h.execute = usecase.NewExecuteProposal(ws)
	h.cancel = usecase.NewCancelProposal(ws)
	h.show = usecase.NewShowProposal(ws)
	h.list = usecase.NewListProposals(ws)
	h.advance = usecase.NewAdvanceChain(ws)
	h.status = usecase.NewChainStatus(ws)
	h.events = usecase.NewListEvents(ws)
	return h
}

// setValueCalldata encodes Box.setValue(v).
func setValueCalldata(t *testing.T, v int64) []byte {
	t.Helper()
	uint256, err := abi.NewType("uint256", "", nil)
	require.NoError(t, err)
	args, err := abi.Arguments{{Type: uint256}}.Pack(big.NewInt(v))
	require.NoError(t, err)
	selector := common.FromHex("0x55241077")
	return append(selector, args...)
}

// deployed initializes a devnet where deployer holds 6 votes and alice and
// bob one each.
func (h *harness) deployed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := h.init.Run(ctx, usecase.InitDevnetParams{})
	require.NoError(t, err)
	for name, count := range map[string]int{"deployer": 6, "alice": 1, "bob": 1} {
		_, err := h.mint.Run(ctx, usecase.MintVotesParams{To: name, Count: count})
		require.NoError(t, err)
	}
}

// proposeBox submits "store v in the Box" as deployer.
func (h *harness) proposeBox(t *testing.T, v int64, description string) *usecase.ProposalSummary {
	t.Helper()
	args := []string{big.NewInt(v).String()}
	h.encoder.On("Encode", "setValue(uint256)", args).Return(setValueCalldata(t, v), nil).Once()
	summary, err := h.propose.Run(context.Background(), usecase.CreateProposalParams{
		Description: description,
		Actions: []models.ProposalAction{
			{Target: "box", Signature: "setValue(uint256)", Args: args},
		},
	})
	require.NoError(t, err)
	return summary
}
