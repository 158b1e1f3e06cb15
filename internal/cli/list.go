package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govlock/internal/cli/render"
	"github.com/trebuchet-org/govlock/internal/domain"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		state    string
		proposer string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List proposals",
		Long: `List all proposals in creation order with their current state and tally.

The list can be filtered by state or proposer.`,
		Example: `  # List all proposals
  govlock list

  # List proposals waiting for execution
  govlock list --state queued`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListProposals.Run(cmd.Context(), domain.ProposalFilter{
				State:    state,
				Proposer: proposer,
			})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func() error {
				return render.NewProposalRenderer(cmd.OutOrStdout(), app.Config.Accounts).RenderList(result)
			})
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Filter by state (pending, active, succeeded, queued, ...)")
	cmd.Flags().StringVar(&proposer, "proposer", "", "Filter by proposer alias or address")

	return cmd
}
