package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govlock/internal/cli/render"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// NewRemoteCmd creates the remote command group
func NewRemoteCmd() *cobra.Command {
	var params usecase.RemoteParams

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Inspect and vote on a Governor deployed on a real chain",
		Long: `Inspect and vote on a Governor deployed on an Ethereum chain over JSON-RPC.

The node and Governor come from --rpc-url and --governor, the [remote] table
of govlock.toml or GOVLOCK_RPC_URL and GOVLOCK_GOVERNOR. Voting signs with
GOVLOCK_PRIVATE_KEY.`,
	}

	cmd.PersistentFlags().StringVar(&params.RPCURL, "rpc-url", "", "JSON-RPC endpoint")
	cmd.PersistentFlags().StringVar(&params.Governor, "governor", "", "Governor address")

	inspect := &cobra.Command{
		Use:   "inspect <proposal-id>",
		Short: "Show a proposal's state, tally and quorum",
		Example: `  govlock remote inspect 0x5b3f...c1 --account 0x7099...79C8
  govlock remote inspect 4132...711 --rpc-url http://localhost:8545 --governor 0x...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			p := params
			p.ProposalID = args[0]
			report, err := app.Remote.Inspect(cmd.Context(), p)
			if err != nil {
				return err
			}
			return output(cmd, app, report, func() error {
				return render.NewRemoteRenderer(cmd.OutOrStdout()).RenderReport(report)
			})
		},
	}
	inspect.Flags().StringVar(&params.Account, "account", "", "Also show this account's voting power at the snapshot")

	var (
		support string
		reason  string
	)
	vote := &cobra.Command{
		Use:   "vote <proposal-id>",
		Short: "Cast a vote with the configured private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			p := usecase.RemoteVoteParams{RemoteParams: params, Support: support, Reason: reason}
			p.ProposalID = args[0]
			report, err := app.Remote.Vote(cmd.Context(), p)
			if err != nil {
				return err
			}
			return output(cmd, app, report, func() error {
				return render.NewRemoteRenderer(cmd.OutOrStdout()).RenderReport(report)
			})
		},
	}
	vote.Flags().StringVar(&support, "support", "for", "Vote: for, against or abstain")
	vote.Flags().StringVar(&reason, "reason", "", "Reason recorded with the vote")

	cmd.AddCommand(inspect, vote)
	return cmd
}
