package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// RemoteParams identifies a proposal on a deployed Governor
type RemoteParams struct {
	RPCURL     string
	Governor   string
	ProposalID string
	Account    string
}

// RemoteVoteParams contains parameters for voting on a deployed Governor
type RemoteVoteParams struct {
	RemoteParams
	Support string
	Reason  string
}

// RemoteReport is the state of a proposal on a deployed Governor
type RemoteReport struct {
	ChainID  uint64                 `json:"chainId"`
	Head     ChainClock             `json:"head"`
	Proposal *models.RemoteProposal `json:"proposal,omitempty"`
	Power    *models.VotingPower    `json:"power,omitempty"`
	Voter    *common.Address        `json:"voter,omitempty"`
}

// RemoteGovernance inspects and votes on Governors deployed on a real chain
type RemoteGovernance struct {
	config    *config.RuntimeConfig
	connector RemoteConnector
	sink      ProgressSink
}

// NewRemoteGovernance creates a new RemoteGovernance use case
func NewRemoteGovernance(cfg *config.RuntimeConfig, connector RemoteConnector, sink ProgressSink) *RemoteGovernance {
	return &RemoteGovernance{config: cfg, connector: connector, sink: sink}
}

// Inspect reads the proposal and, when an account is given, its voting power
// at the proposal snapshot.
func (uc *RemoteGovernance) Inspect(ctx context.Context, params RemoteParams) (*RemoteReport, error) {
	session, err := uc.connect(ctx, params, false)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	report, err := uc.report(ctx, session, params)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Vote casts a vote with the configured private key.
func (uc *RemoteGovernance) Vote(ctx context.Context, params RemoteVoteParams) (*RemoteReport, error) {
	support, err := models.ParseVoteType(params.Support)
	if err != nil {
		return nil, err
	}
	id, err := parseProposalID(params.ProposalID)
	if err != nil {
		return nil, err
	}
	session, err := uc.connect(ctx, params.RemoteParams, true)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "voting", Message: "Waiting for vote transaction", Spinner: true})
	voter, err := session.CastVote(ctx, id, support, params.Reason)
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "voted", Message: "Vote transaction mined"})
	if err != nil {
		return nil, err
	}

	report, err := uc.report(ctx, session, params.RemoteParams)
	if err != nil {
		return nil, err
	}
	report.Voter = &voter
	return report, nil
}

func (uc *RemoteGovernance) connect(ctx context.Context, params RemoteParams, signer bool) (RemoteSession, error) {
	rpcURL := params.RPCURL
	if rpcURL == "" {
		rpcURL = uc.config.RPCURL
	}
	if rpcURL == "" {
		return nil, fmt.Errorf("an RPC URL is required (--rpc-url or GOVLOCK_RPC_URL)")
	}
	governor := params.Governor
	if governor == "" {
		governor = uc.config.RemoteGovernor
	}
	if !common.IsHexAddress(governor) {
		return nil, fmt.Errorf("invalid governor address %q", governor)
	}
	target := RemoteTarget{RPCURL: rpcURL, Governor: common.HexToAddress(governor)}
	if signer {
		if uc.config.PrivateKey == "" {
			return nil, fmt.Errorf("a private key is required to vote (GOVLOCK_PRIVATE_KEY)")
		}
		target.PrivateKey = uc.config.PrivateKey
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "connecting", Message: "Connecting to " + rpcURL, Spinner: true})
	session, err := uc.connector.Connect(ctx, target)
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "connected", Message: "Connected"})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (uc *RemoteGovernance) report(ctx context.Context, session RemoteSession, params RemoteParams) (*RemoteReport, error) {
	head, err := session.Head(ctx)
	if err != nil {
		return nil, err
	}
	report := &RemoteReport{
		ChainID: session.ChainID(),
		Head:    ChainClock{Block: head.Block, Timestamp: head.Time},
	}

	var snapshot uint64
	if params.ProposalID != "" {
		id, err := parseProposalID(params.ProposalID)
		if err != nil {
			return nil, err
		}
		if report.Proposal, err = session.Proposal(ctx, id); err != nil {
			return nil, err
		}
		if report.Proposal.Snapshot < head.Block {
			snapshot = report.Proposal.Snapshot
		}
	}

	if params.Account != "" {
		if !common.IsHexAddress(params.Account) {
			return nil, fmt.Errorf("invalid account address %q", params.Account)
		}
		if report.Power, err = session.VotingPower(ctx, common.HexToAddress(params.Account), snapshot); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// parseProposalID accepts a 0x-prefixed 32 byte hash or a decimal uint256.
func parseProposalID(ref string) (common.Hash, error) {
	if strings.HasPrefix(ref, "0x") {
		if len(ref) != 66 {
			return common.Hash{}, fmt.Errorf("invalid proposal id %q", ref)
		}
		return common.HexToHash(ref), nil
	}
	n, ok := new(big.Int).SetString(ref, 10)
	if !ok || n.Sign() < 0 || n.BitLen() > 256 {
		return common.Hash{}, fmt.Errorf("invalid proposal id %q", ref)
	}
	return common.BigToHash(n), nil
}
