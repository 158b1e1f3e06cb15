package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govlock/internal/cli/render"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

func proposalRef(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// NewQueueCmd creates the queue command
func NewQueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue [proposal]",
		Short: "Schedule a succeeded proposal on the timelock",
		Long: `Schedule a succeeded proposal on the timelock with the minimum delay.

The proposal can be executed once the delay has passed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.QueueProposal.Run(cmd.Context(), usecase.QueueProposalParams{ProposalRef: proposalRef(args)})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func() error {
				return render.NewProposalRenderer(cmd.OutOrStdout(), app.Config.Accounts).RenderQueued(result)
			})
		},
	}
}

// NewExecuteCmd creates the execute command
func NewExecuteCmd() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "execute [proposal]",
		Short: "Execute a queued proposal through the timelock",
		Long: `Execute a queued proposal once its timelock delay has passed.

With --wait the execution block is mined at the proposal's ETA when the
delay has not passed yet.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ExecuteProposal.Run(cmd.Context(), usecase.ExecuteProposalParams{
				ProposalRef: proposalRef(args),
				WaitForETA:  wait,
			})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func() error {
				return render.NewProposalRenderer(cmd.OutOrStdout(), app.Config.Accounts).RenderTransition("executed", result)
			})
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Advance the devnet to the proposal ETA first")

	return cmd
}

// NewCancelCmd creates the cancel command
func NewCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [proposal]",
		Short: "Cancel a proposal as its proposer or the guardian",
		Long: `Cancel a proposal that has not been executed.

The sender (--from) must be the proposer or the configured guardian. A
queued proposal's timelock operation is canceled as well.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CancelProposal.Run(cmd.Context(), usecase.CancelProposalParams{
				ProposalRef: proposalRef(args),
				Sender:      app.Config.From,
			})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func() error {
				return render.NewProposalRenderer(cmd.OutOrStdout(), app.Config.Accounts).RenderTransition("canceled", result)
			})
		},
	}
}
