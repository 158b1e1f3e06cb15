package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govlock/internal/cli/render"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// NewProposeCmd creates the propose command
func NewProposeCmd() *cobra.Command {
	var (
		file        string
		description string
		target      string
		value       string
		signature   string
		calldata    string
		args        []string
	)

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Submit a proposal to the Governor",
		Long: `Submit a proposal to the devnet Governor.

A single action can be given with flags. Proposals with several actions are
read from a YAML or JSON file:

  description: "Proposal #1: store 555 in the Box!"
  actions:
    - target: box
      signature: setValue(uint256)
      args: ["555"]

Targets are devnet contract names (governor, timelock, box, nft), account
aliases or addresses. The proposer needs at least the proposal threshold in
votes at the previous block.`,
		Example: `  # Store 555 in the Box
  govlock propose -d "Proposal #1: store 555 in the Box!" --target box --signature "setValue(uint256)" --args 555

  # Lengthen the voting period through governance
  govlock propose -d "Longer votes" --target governor --signature "setVotingPeriod(uint256)" --args 20

  # From a file
  govlock propose --file proposals/box.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.CreateProposalParams{
				Proposer:    app.Config.From,
				File:        file,
				Description: description,
			}
			if target != "" {
				if file != "" {
					return fmt.Errorf("--file and --target are mutually exclusive")
				}
				params.Actions = []models.ProposalAction{{
					Target:    target,
					Value:     value,
					Signature: signature,
					Args:      args,
					Calldata:  calldata,
				}}
			} else if file == "" {
				return fmt.Errorf("either --file or --target is required")
			}

			result, err := app.CreateProposal.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return output(cmd, app, result, func() error {
				return render.NewProposalRenderer(cmd.OutOrStdout(), app.Config.Accounts).RenderCreated(result)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Proposal file (YAML or JSON)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Proposal description")
	cmd.Flags().StringVar(&target, "target", "", "Call target: contract name, alias or address")
	cmd.Flags().StringVar(&value, "value", "", "Wei sent with the call")
	cmd.Flags().StringVar(&signature, "signature", "", "Function signature, e.g. setValue(uint256)")
	cmd.Flags().StringSliceVar(&args, "args", nil, "Function arguments")
	cmd.Flags().StringVar(&calldata, "calldata", "", "Raw hex calldata instead of --signature")

	return cmd
}
