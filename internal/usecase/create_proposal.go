package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/govlock/internal/chain"
	"github.com/trebuchet-org/govlock/internal/devnet"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// CreateProposalParams contains parameters for creating a proposal.
// When File is set it replaces Actions and, if empty, Description.
type CreateProposalParams struct {
	Proposer    string
	File        string
	Description string
	Actions     []models.ProposalAction
}

// CreateProposal submits a proposal to the devnet Governor
type CreateProposal struct {
	workspace *Workspace
	loader    ProposalLoader
	encoder   CalldataEncoder
}

// NewCreateProposal creates a new CreateProposal use case
func NewCreateProposal(workspace *Workspace, loader ProposalLoader, encoder CalldataEncoder) *CreateProposal {
	return &CreateProposal{workspace: workspace, loader: loader, encoder: encoder}
}

// Run executes the create proposal use case
func (uc *CreateProposal) Run(ctx context.Context, params CreateProposalParams) (*ProposalSummary, error) {
	draft := &models.ProposalDraft{Description: params.Description, Actions: params.Actions}
	if params.File != "" {
		loaded, err := uc.loader.Load(ctx, params.File)
		if err != nil {
			return nil, err
		}
		if draft.Description == "" {
			draft.Description = loaded.Description
		}
		draft.Actions = loaded.Actions
	}
	if strings.TrimSpace(draft.Description) == "" {
		return nil, fmt.Errorf("proposal description is required")
	}

	proposer, err := uc.workspace.account(params.Proposer)
	if err != nil {
		return nil, err
	}

	var id common.Hash
	d, err := uc.workspace.transact(ctx, func(ctx context.Context, d *devnet.Devnet) error {
		targets, values, calldatas, err := uc.encodeActions(d, draft.Actions)
		if err != nil {
			return err
		}
		id, err = d.Governor.Propose(ctx, d.Sim, proposer, targets, values, calldatas, draft.Description)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to propose: %w", err)
	}

	p, err := d.Governor.Proposal(id)
	if err != nil {
		return nil, err
	}
	summaries, err := summarize(ctx, d, []*models.Proposal{p})
	if err != nil {
		return nil, err
	}
	return summaries[0], nil
}

func (uc *CreateProposal) encodeActions(d *devnet.Devnet, actions []models.ProposalAction) ([]common.Address, []*big.Int, [][]byte, error) {
	targets := make([]common.Address, len(actions))
	values := make([]*big.Int, len(actions))
	calldatas := make([][]byte, len(actions))
	for i, action := range actions {
		target, err := uc.workspace.target(d, action.Target)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("action %d: %w", i, err)
		}
		targets[i] = target

		values[i] = new(big.Int)
		if action.Value != "" {
			v, ok := new(big.Int).SetString(action.Value, 0)
			if !ok {
				return nil, nil, nil, fmt.Errorf("action %d: invalid value %q", i, action.Value)
			}
			if !chain.IsUint256(v) {
				return nil, nil, nil, fmt.Errorf("action %d: %w: %s", i, domain.ErrValueOutOfRange, action.Value)
			}
			values[i] = v
		}

		switch {
		case action.Calldata != "" && action.Signature != "":
			return nil, nil, nil, fmt.Errorf("action %d: calldata and signature are mutually exclusive", i)
		case action.Calldata != "":
			data, err := hexutil.Decode(action.Calldata)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("action %d: invalid calldata: %w", i, err)
			}
			calldatas[i] = data
		case action.Signature != "":
			data, err := uc.encoder.Encode(action.Signature, action.Args)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("action %d: %w", i, err)
			}
			calldatas[i] = data
		default:
			calldatas[i] = []byte{}
		}
	}
	return targets, values, calldatas, nil
}
