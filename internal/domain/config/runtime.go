package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// From is the default sending account: an alias from [accounts] or an address
	From string

	// Remote governor access
	RPCURL         string
	RemoteGovernor string
	PrivateKey     string

	// Config source tracking
	ConfigSource string // path of govlock.toml, empty when defaults are used

	// Resolved configurations
	Governor GovernorConfig
	Timelock TimelockConfig
	Devnet   DevnetConfig
	Accounts map[string]string
}
