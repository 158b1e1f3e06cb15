package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govlock/internal/cli/render"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// NewVoteCmd creates the vote command
func NewVoteCmd() *cobra.Command {
	var (
		support string
		voters  []string
		reason  string
	)

	cmd := &cobra.Command{
		Use:   "vote [proposal]",
		Short: "Cast votes on an active proposal",
		Long: `Cast votes on an active proposal, one transaction per voter.

The vote weight is the voter's NFT balance at the proposal snapshot block.
Without --voter an interactive session picks voters from [accounts];
otherwise --from (or the deployer) votes.

Proposals are referenced by full id, hex prefix, decimal id or "latest".
Omit the reference to pick one interactively.`,
		Example: `  govlock vote latest --voter alice --voter bob
  govlock vote 0x1234 --support against --reason "too risky"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ref := ""
			if len(args) > 0 {
				ref = args[0]
			}

			if len(voters) == 0 {
				if !app.Config.NonInteractive && !app.Config.JSON && app.Config.From == "" && len(app.Config.Accounts) > 1 {
					if voters, err = SelectAccounts(app.Config.Accounts, "Select voters"); err != nil {
						return err
					}
				} else {
					voters = []string{app.Config.From}
				}
			}

			renderer := render.NewProposalRenderer(cmd.OutOrStdout(), app.Config.Accounts)
			results := make([]*usecase.VoteResult, 0, len(voters))
			for _, voter := range voters {
				result, err := app.CastVote.Run(cmd.Context(), usecase.CastVoteParams{
					ProposalRef: ref,
					Voter:       voter,
					Support:     support,
					Reason:      reason,
				})
				if err != nil {
					return err
				}
				// Later voters vote on the proposal picked for the first one
				ref = result.ProposalID.Hex()
				results = append(results, result)
				if !app.Config.JSON {
					if err := renderer.RenderVote(result); err != nil {
						return err
					}
				}
			}
			if app.Config.JSON {
				return render.NewJSONRenderer[[]*usecase.VoteResult](cmd.OutOrStdout()).Render(results)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&support, "support", "for", "Vote: for, against or abstain")
	cmd.Flags().StringArrayVar(&voters, "voter", nil, "Voting account (repeatable)")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded with the vote")

	return cmd
}
