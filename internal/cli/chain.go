package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govlock/internal/cli/render"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// NewMintCmd creates the mint command
func NewMintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint <account> [count]",
		Short: "Mint voting NFTs to an account",
		Long: `Mint voting NFTs to an account, one transaction per token.

Each token carries one vote. Votes count from the block after they were
minted, so mint before proposing or before a proposal's snapshot.`,
		Example: `  govlock mint deployer 6
  govlock mint alice`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			count := 1
			if len(args) == 2 {
				if count, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("invalid count %q", args[1])
				}
			}

			result, err := app.MintVotes.Run(cmd.Context(), usecase.MintVotesParams{To: args[0], Count: count})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func() error {
				return render.NewChainRenderer(cmd.OutOrStdout()).RenderMint(result)
			})
		},
	}
	return cmd
}

// NewMineCmd creates the mine command
func NewMineCmd() *cobra.Command {
	var (
		seconds   uint64
		timestamp uint64
	)

	cmd := &cobra.Command{
		Use:   "mine [blocks]",
		Short: "Mine empty blocks and move time forward",
		Long: `Mine empty blocks on the devnet.

--seconds adds time to the next block; --timestamp pins it. Either one mines
at least one block.`,
		Example: `  # Close the voting period
  govlock mine 5

  # Pass the timelock delay
  govlock mine --seconds 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var blocks uint64
			if len(args) == 1 {
				if blocks, err = strconv.ParseUint(args[0], 10, 64); err != nil {
					return fmt.Errorf("invalid block count %q", args[0])
				}
			} else if seconds == 0 && timestamp == 0 {
				blocks = 1
			}

			result, err := app.AdvanceChain.Run(cmd.Context(), usecase.AdvanceChainParams{
				Blocks:    blocks,
				Seconds:   seconds,
				Timestamp: timestamp,
			})
			if err != nil {
				return err
			}
			return output(cmd, app, result, func() error {
				return render.NewChainRenderer(cmd.OutOrStdout()).RenderClock(result)
			})
		},
	}

	cmd.Flags().Uint64Var(&seconds, "seconds", 0, "Seconds added to the next block")
	cmd.Flags().Uint64Var(&timestamp, "timestamp", 0, "Exact timestamp of the next block")

	return cmd
}

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the devnet clock, contracts and voting power",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ChainStatus.Run(cmd.Context())
			if err != nil {
				return err
			}
			return output(cmd, app, result, func() error {
				return render.NewChainRenderer(cmd.OutOrStdout()).RenderStatus(result)
			})
		},
	}
}

// NewEventsCmd creates the events command
func NewEventsCmd() *cobra.Command {
	var filter domain.EventFilter

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events emitted by the governance contracts",
		Long: `List events from the event journal, oldest first.

The journal keeps every event of committed transactions since the last
'govlock init'.`,
		Example: `  govlock events --name VoteCast
  govlock events --emitter timelock --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			records, err := app.ListEvents.Run(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return output(cmd, app, records, func() error {
				return render.NewEventsRenderer(cmd.OutOrStdout()).RenderEvents(records)
			})
		},
	}

	cmd.Flags().StringVar(&filter.Name, "name", "", "Event name, e.g. ProposalCreated")
	cmd.Flags().StringVar(&filter.Emitter, "emitter", "", "Emitting contract: name or address")
	cmd.Flags().Uint64Var(&filter.FromBlock, "from-block", 0, "First block to include")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "Maximum number of events (latest kept)")

	return cmd
}
