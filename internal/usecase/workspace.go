package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/govlock/internal/devnet"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// Workspace loads the persisted devnet, runs transactions against it and
// saves the result together with the events they emitted.
type Workspace struct {
	config   *config.RuntimeConfig
	repo     DevnetRepository
	journal  EventJournal
	notify   domain.EventSink
	selector ProposalSelector
	sink     ProgressSink
	log      *slog.Logger
}

// NewWorkspace creates a Workspace. notify receives every committed event
// after it has been journaled.
func NewWorkspace(
	cfg *config.RuntimeConfig,
	repo DevnetRepository,
	journal EventJournal,
	notify domain.EventSink,
	selector ProposalSelector,
	sink ProgressSink,
	log *slog.Logger,
) *Workspace {
	return &Workspace{
		config:   cfg,
		repo:     repo,
		journal:  journal,
		notify:   notify,
		selector: selector,
		sink:     sink,
		log:      log.With("component", "Workspace"),
	}
}

type eventBuffer struct {
	events []domain.Event
}

func (b *eventBuffer) Emit(e domain.Event) { b.events = append(b.events, e) }

func (w *Workspace) open(ctx context.Context) (*devnet.Devnet, *eventBuffer, error) {
	state, err := w.repo.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	buf := &eventBuffer{}
	d, err := devnet.Restore(state, buf, w.log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore devnet: %w", err)
	}
	return d, buf, nil
}

// commit saves d and journals the buffered events. A journal failure after
// the save is logged, not returned.
func (w *Workspace) commit(ctx context.Context, d *devnet.Devnet, buf *eventBuffer) error {
	w.sink.OnProgress(ctx, ProgressEvent{Stage: "saving", Message: "Saving devnet state"})
	if err := w.repo.Save(ctx, d.Export()); err != nil {
		return fmt.Errorf("failed to save devnet: %w", err)
	}
	if len(buf.events) == 0 {
		return nil
	}
	if err := w.journal.Append(ctx, buf.events); err != nil {
		// The devnet is already saved, so the command itself went through.
		w.log.Warn("failed to journal events", "count", len(buf.events), "error", err)
	}
	for _, e := range buf.events {
		w.notify.Emit(e)
	}
	buf.events = nil
	return nil
}

// view opens the devnet for reading. Nothing is saved.
func (w *Workspace) view(ctx context.Context, fn func(d *devnet.Devnet) error) error {
	d, _, err := w.open(ctx)
	if err != nil {
		return err
	}
	return fn(d)
}

// transact runs fn as one devnet transaction and saves the devnet when it
// succeeds. A failed command leaves the persisted devnet untouched.
func (w *Workspace) transact(ctx context.Context, fn func(ctx context.Context, d *devnet.Devnet) error) (*devnet.Devnet, error) {
	d, buf, err := w.open(ctx)
	if err != nil {
		return nil, err
	}
	if err := w.transactOn(ctx, d, fn); err != nil {
		return nil, err
	}
	return d, w.commit(ctx, d, buf)
}

func (w *Workspace) transactOn(ctx context.Context, d *devnet.Devnet, fn func(ctx context.Context, d *devnet.Devnet) error) error {
	w.sink.OnProgress(ctx, ProgressEvent{Stage: "transacting", Message: "Mining transaction", Spinner: true})
	err := d.Transact(ctx, func(ctx context.Context) error { return fn(ctx, d) })
	w.sink.OnProgress(ctx, ProgressEvent{Stage: "mined", Message: fmt.Sprintf("Block %d", d.Sim.BlockNumber())})
	return err
}

// account resolves an alias from [accounts], a devnet contract name or a hex
// address. An empty name is the configured sender, then the deployer.
func (w *Workspace) account(name string) (common.Address, error) {
	if name == "" {
		name = w.config.From
	}
	if name == "" {
		name = "deployer"
	}
	if common.IsHexAddress(name) {
		return common.HexToAddress(name), nil
	}
	for alias, address := range w.config.Accounts {
		if strings.EqualFold(alias, name) && common.IsHexAddress(address) {
			return common.HexToAddress(address), nil
		}
	}
	if strings.EqualFold(name, "deployer") && common.IsHexAddress(w.config.Devnet.Deployer) {
		return common.HexToAddress(w.config.Devnet.Deployer), nil
	}
	return common.Address{}, fmt.Errorf("%w: %q", domain.ErrUnknownAccount, name)
}

// target resolves a call target: a devnet contract name, then any account.
func (w *Workspace) target(d *devnet.Devnet, name string) (common.Address, error) {
	switch strings.ToLower(name) {
	case "governor":
		return d.Addresses.Governor, nil
	case "timelock":
		return d.Addresses.Timelock, nil
	case "box":
		return d.Addresses.Box, nil
	case "nft", "token":
		return d.Addresses.NFT, nil
	}
	return w.account(name)
}

// alias returns the configured name of address, if any.
func (w *Workspace) alias(address common.Address) string {
	for name, a := range w.config.Accounts {
		if common.IsHexAddress(a) && common.HexToAddress(a) == address {
			return name
		}
	}
	return ""
}

// resolveProposal finds a proposal by full id, unique hex prefix, decimal
// uint256 id or "latest". An empty reference prompts for a selection.
func (w *Workspace) resolveProposal(ctx context.Context, d *devnet.Devnet, ref, prompt string) (*models.Proposal, error) {
	proposals := d.Governor.Proposals()
	if len(proposals) == 0 {
		return nil, domain.ErrProposalNotFound
	}

	switch {
	case ref == "":
		if w.config.NonInteractive {
			return nil, fmt.Errorf("proposal id is required in non-interactive mode")
		}
		summaries, err := summarize(ctx, d, proposals)
		if err != nil {
			return nil, err
		}
		selected, err := w.selector.SelectProposal(ctx, summaries, prompt)
		if err != nil {
			return nil, err
		}
		return d.Governor.Proposal(selected.ID)
	case ref == "latest":
		return proposals[len(proposals)-1], nil
	case strings.HasPrefix(ref, "0x") && len(ref) == 66:
		return d.Governor.Proposal(common.HexToHash(ref))
	case strings.HasPrefix(ref, "0x"):
		prefix := strings.ToLower(ref)
		matches := lo.Filter(proposals, func(p *models.Proposal, _ int) bool {
			return strings.HasPrefix(strings.ToLower(p.ID.Hex()), prefix)
		})
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("%w: %s", domain.ErrProposalNotFound, ref)
		case 1:
			return matches[0], nil
		}
		return nil, fmt.Errorf("%w: %s matches %d proposals", domain.ErrAmbiguousReference, ref, len(matches))
	}

	n, ok := new(big.Int).SetString(ref, 10)
	if !ok || n.Sign() < 0 || n.BitLen() > 256 {
		return nil, fmt.Errorf("invalid proposal id %q", ref)
	}
	p, err := d.Governor.Proposal(common.BigToHash(n))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrProposalNotFound, ref)
	}
	return p, err
}
