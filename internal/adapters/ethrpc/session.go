package ethrpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// ErrNoSigner is returned when a write is attempted without a private key.
var ErrNoSigner = errors.New("no private key configured")

// Connector opens sessions against deployed governance contracts.
type Connector struct {
	timeout time.Duration
	log     *slog.Logger
}

// NewConnector creates a connector that waits at most cfg.Timeout for mined
// transactions.
func NewConnector(cfg *config.RuntimeConfig, log *slog.Logger) *Connector {
	return &Connector{timeout: cfg.Timeout, log: log}
}

// Connect dials target.RPCURL and resolves the voting token of the Governor.
func (c *Connector) Connect(ctx context.Context, target usecase.RemoteTarget) (usecase.RemoteSession, error) {
	client, chainID, err := Dial(ctx, target.RPCURL, target.ChainID)
	if err != nil {
		return nil, err
	}
	s, err := newSession(ctx, client, chainID, target, c.timeout, c.log)
	if err != nil {
		client.Close()
		return nil, err
	}
	s.close = client.Close
	return s, nil
}

// Session is a connection to one Governor and its token.
type Session struct {
	chainID  uint64
	governor *GovernorClient
	votes    *VotesReader
	clock    *HeadClock
	invoker  *TxInvoker
	close    func()
}

func newSession(ctx context.Context, backend Backend, chainID uint64, target usecase.RemoteTarget, timeout time.Duration, log *slog.Logger) (*Session, error) {
	s := &Session{
		chainID:  chainID,
		governor: NewGovernorClient(backend, target.Governor, log),
		clock:    NewHeadClock(backend),
		close:    func() {},
	}
	token, err := s.governor.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve governor token: %w", err)
	}
	s.votes = NewVotesReader(backend, token, log)
	if target.PrivateKey != "" {
		key, err := ParsePrivateKey(target.PrivateKey)
		if err != nil {
			return nil, err
		}
		s.invoker = NewTxInvoker(backend, key, chainID, timeout, log)
	}
	return s, nil
}

func (s *Session) ChainID() uint64 { return s.chainID }

func (s *Session) Head(ctx context.Context) (chain.FixedClock, error) {
	return s.clock.Now(ctx)
}

func (s *Session) Proposal(ctx context.Context, id common.Hash) (*models.RemoteProposal, error) {
	return s.governor.Proposal(ctx, id)
}

// VotingPower reads votes and supply at block. Block zero means the block
// before the head, the latest one the token can answer for.
func (s *Session) VotingPower(ctx context.Context, account common.Address, block uint64) (*models.VotingPower, error) {
	if block == 0 {
		head, err := s.clock.Now(ctx)
		if err != nil {
			return nil, err
		}
		if head.Block > 0 {
			block = head.Block - 1
		}
	}
	votes, err := s.votes.GetVotes(ctx, account, block)
	if err != nil {
		return nil, err
	}
	supply, err := s.votes.GetTotalSupply(ctx, block)
	if err != nil {
		return nil, err
	}
	return &models.VotingPower{Account: account, Block: block, Votes: votes, Supply: new(big.Int).Set(supply)}, nil
}

// CastVote votes from the configured key and returns its address.
func (s *Session) CastVote(ctx context.Context, id common.Hash, support models.VoteType, reason string) (common.Address, error) {
	if s.invoker == nil {
		return common.Address{}, ErrNoSigner
	}
	return s.invoker.From(), s.governor.CastVote(ctx, s.invoker, id, support, reason)
}

func (s *Session) Close() { s.close() }

var (
	_ usecase.RemoteConnector = (*Connector)(nil)
	_ usecase.RemoteSession   = (*Session)(nil)
)
