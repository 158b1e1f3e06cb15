package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govlock/internal/app"
	"github.com/trebuchet-org/govlock/internal/cli/render"
	"github.com/trebuchet-org/govlock/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "govlock",
		Short: "Governor and Timelock governance on a local devnet",
		Long: `govlock runs an NFT-weighted Governor with a Timelock on a local devnet.

Proposals are created, voted on, queued on the timelock and executed once
the delay has passed. The devnet is saved under .govlock between commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}

			// Find project root; commands also work outside a project
			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				projectRoot = ""
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a, err := getApp(cmd); err == nil {
				return a.Close()
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")
	rootCmd.PersistentFlags().String("config", "", "Path to govlock.toml")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory for devnet state (default .govlock)")
	rootCmd.PersistentFlags().String("from", "", "Sending account: alias from [accounts] or address")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Governance Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "chain",
		Title: "Devnet Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, c := range []*cobra.Command{
		NewProposeCmd(),
		NewVoteCmd(),
		NewQueueCmd(),
		NewExecuteCmd(),
		NewCancelCmd(),
		NewShowCmd(),
		NewListCmd(),
	} {
		c.GroupID = "main"
		rootCmd.AddCommand(c)
	}

	for _, c := range []*cobra.Command{
		NewInitCmd(),
		NewMintCmd(),
		NewMineCmd(),
		NewStatusCmd(),
		NewEventsCmd(),
	} {
		c.GroupID = "chain"
		rootCmd.AddCommand(c)
	}

	for _, c := range []*cobra.Command{
		NewRemoteCmd(),
		NewConfigCmd(),
	} {
		c.GroupID = "management"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// skipsApp reports whether cmd runs without configuration
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return true
	}
	return false
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	if cmd.Context() == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// output writes result as JSON when --json is set and otherwise calls text
func output[T any](cmd *cobra.Command, a *app.App, result T, text func() error) error {
	if a.Config.JSON {
		return render.NewJSONRenderer[T](cmd.OutOrStdout()).Render(result)
	}
	return text()
}

// Execute runs the root command and prints errors the way commands render them
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), render.FormatError(err.Error()))
		return err
	}
	return nil
}
