package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectProposal selects a proposal from a list
func (s *SelectorAdapter) SelectProposal(ctx context.Context, proposals []*usecase.ProposalSummary, prompt string) (*usecase.ProposalSummary, error) {
	// In non-interactive mode, we can't select
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(proposals) == 0 {
		return nil, fmt.Errorf("no proposals provided for selection")
	}

	if len(proposals) == 1 {
		return proposals[0], nil
	}

	// Newest first
	ordered := make([]*usecase.ProposalSummary, len(proposals))
	for i, p := range proposals {
		ordered[len(proposals)-1-i] = p
	}
	options := formatProposalOptions(ordered)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return ordered[index], nil
}

// formatProposalOptions creates display strings for proposal selection
func formatProposalOptions(proposals []*usecase.ProposalSummary) []string {
	options := make([]string, len(proposals))
	for i, p := range proposals {
		// Format as "0x1234abcd… [Active] description"
		id := p.ID.Hex()
		short := id[:10] + "…"
		description := strings.SplitN(p.Description, "\n", 2)[0]
		if len(description) > 60 {
			description = description[:57] + "..."
		}

		options[i] = fmt.Sprintf("%s %s %s",
			color.New(color.FgWhite, color.Bold).Sprint(short),
			stateColor(p.State).Sprintf("[%s]", p.State),
			description,
		)
	}
	return options
}

func stateColor(state models.ProposalState) *color.Color {
	switch state {
	case models.ProposalActive, models.ProposalPending:
		return color.New(color.FgYellow)
	case models.ProposalSucceeded, models.ProposalQueued:
		return color.New(color.FgCyan)
	case models.ProposalExecuted:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgRed)
	}
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		// Convert to lowercase for case-insensitive search
		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		// First try simple substring match
		if strings.Contains(item, input) {
			return true
		}

		// Then try fuzzy match
		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.ProposalSelector = (*SelectorAdapter)(nil)
