package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govlock/internal/cli/render"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [proposal]",
		Short: "Show a proposal with its votes and timelock operation",
		Long: `Show detailed information about a proposal.

You can reference proposals using:
- Full id: "0x5b3f...c1"
- Unique hex prefix: "0x5b3f"
- Decimal id as returned by the Governor contract
- "latest" for the most recent proposal

Omit the reference to pick one interactively.`,
		Example: `  govlock show latest
  govlock show 0x5b3f`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowProposal.Run(cmd.Context(), usecase.ShowProposalParams{ProposalRef: proposalRef(args)})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func() error {
				return render.NewProposalRenderer(cmd.OutOrStdout(), app.Config.Accounts).RenderDetails(result)
			})
		},
	}
}
