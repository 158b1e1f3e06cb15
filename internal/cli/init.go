package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govlock/internal/cli/render"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Deploy the governance contracts on a fresh devnet",
		Long: `Deploy the voting NFT, the Timelock, the Box and the Governor on a new
devnet, in that order, and hand Box ownership to the Timelock.

Every account in [accounts] is funded with 10000 ETH. The event journal is
reset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.InitDevnet.Run(cmd.Context(), usecase.InitDevnetParams{Force: force})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func() error {
				return render.NewChainRenderer(cmd.OutOrStdout()).RenderInit(result)
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing devnet")

	return cmd
}
