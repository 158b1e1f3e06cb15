package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if result.ConfigSource != "" {
		fmt.Fprintf(r.out, "📦 Config source: %s\n", getRelativePath(result.ConfigSource))
	} else {
		fmt.Fprintf(r.out, "📦 Config source: built-in defaults (no govlock.toml)\n")
	}

	fmt.Fprintln(r.out)
	sectionHeaderStyle.Fprintln(r.out, "Governor")
	fmt.Fprintln(r.out, field("Name", result.Governor.Name))
	fmt.Fprintln(r.out, field("Delay", fmt.Sprintf("%d block(s)", result.Governor.VotingDelay)))
	fmt.Fprintln(r.out, field("Period", fmt.Sprintf("%d block(s)", result.Governor.VotingPeriod)))
	fmt.Fprintln(r.out, field("Threshold", result.Governor.ProposalThreshold))
	fmt.Fprintln(r.out, field("Quorum", quorumDescription(result.Governor)))
	fmt.Fprintln(r.out, field("Grace", fmt.Sprintf("%ds", result.Governor.GracePeriod)))
	if result.Governor.Guardian != "" {
		fmt.Fprintln(r.out, field("Guardian", result.Governor.Guardian))
	}

	fmt.Fprintln(r.out)
	sectionHeaderStyle.Fprintln(r.out, "Timelock")
	fmt.Fprintln(r.out, field("Min delay", fmt.Sprintf("%ds", result.Timelock.MinDelay)))

	if len(result.Accounts) > 0 {
		fmt.Fprintln(r.out)
		sectionHeaderStyle.Fprintln(r.out, "Accounts")
		names := make([]string, 0, len(result.Accounts))
		for name := range result.Accounts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(r.out, field(name, result.Accounts[name]))
		}
	}

	fmt.Fprintln(r.out)
	if !result.Exists {
		fmt.Fprintf(r.out, "📋 No local defaults set (%s)\n", getRelativePath(result.ConfigPath))
		return nil
	}
	fmt.Fprintln(r.out, "📋 Local defaults:")
	for _, key := range config.ValidConfigKeys() {
		value := result.Config.Get(key)
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(r.out, "%-10s %s\n", string(key)+":", value)
	}
	fmt.Fprintf(r.out, "📁 config file: %s\n", getRelativePath(result.ConfigPath))

	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	switch result.Key {
	case config.ConfigKeyFrom:
		fmt.Fprintf(r.out, "✅ Removed from (transactions are sent by the deployer)\n")
	default:
		fmt.Fprintf(r.out, "✅ Removed %s from config\n", result.Key)
	}

	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

func quorumDescription(g config.GovernorConfig) string {
	if g.QuorumNumerator > 0 {
		return fmt.Sprintf("%d/%d of supply", g.QuorumNumerator, g.QuorumDenominator)
	}
	return fmt.Sprintf("%d", g.Quorum)
}
