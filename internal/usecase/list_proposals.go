package usecase

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/govlock/internal/devnet"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/models"
)

// ProposalListResult contains the proposals and a count per state
type ProposalListResult struct {
	Proposals []*ProposalSummary           `json:"proposals"`
	ByState   map[models.ProposalState]int `json:"byState"`
	Clock     ChainClock                   `json:"clock"`
}

// ListProposals lists devnet proposals in creation order
type ListProposals struct {
	workspace *Workspace
}

// NewListProposals creates a new ListProposals use case
func NewListProposals(workspace *Workspace) *ListProposals {
	return &ListProposals{workspace: workspace}
}

// Run executes the list proposals use case
func (uc *ListProposals) Run(ctx context.Context, filter domain.ProposalFilter) (*ProposalListResult, error) {
	var state *models.ProposalState
	if filter.State != "" {
		parsed, err := models.ParseProposalState(strings.ToLower(filter.State))
		if err != nil {
			return nil, err
		}
		state = &parsed
	}

	result := &ProposalListResult{ByState: make(map[models.ProposalState]int)}
	err := uc.workspace.view(ctx, func(d *devnet.Devnet) error {
		proposals := d.Governor.Proposals()
		if filter.Proposer != "" {
			proposer, err := uc.workspace.account(filter.Proposer)
			if err != nil {
				return err
			}
			proposals = lo.Filter(proposals, func(p *models.Proposal, _ int) bool { return p.Proposer == proposer })
		}
		summaries, err := summarize(ctx, d, proposals)
		if err != nil {
			return err
		}
		for _, s := range summaries {
			result.ByState[s.State]++
		}
		if state != nil {
			summaries = lo.Filter(summaries, func(s *ProposalSummary, _ int) bool { return s.State == *state })
		}
		result.Proposals = summaries
		result.Clock = clockOf(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
