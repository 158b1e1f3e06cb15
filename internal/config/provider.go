package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/govlock/internal/domain/config"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	// Get project root from viper
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			if projectRoot, err = os.Getwd(); err != nil {
				return nil, fmt.Errorf("failed to resolve working directory: %w", err)
			}
		}
	}

	loadEnvFiles(projectRoot)

	configPath := v.GetString("config")
	if configPath == "" {
		configPath = filepath.Join(projectRoot, ConfigFileName)
	} else if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(projectRoot, configPath)
	}
	file, source, err := LoadGovlockFile(configPath)
	if err != nil {
		return nil, err
	}

	dataDir := v.GetString("data_dir")
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(projectRoot, dataDir)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        dataDir,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		From:           v.GetString("from"),
		RPCURL:         firstNonEmpty(v.GetString("rpc_url"), file.Remote.RPCURL),
		RemoteGovernor: firstNonEmpty(v.GetString("governor"), file.Remote.Governor),
		PrivateKey:     firstNonEmpty(v.GetString("private_key"), file.Remote.PrivateKey),
		ConfigSource:   source,
		Governor:       file.Governor,
		Timelock:       file.Timelock,
		Devnet:         file.Devnet,
		Accounts:       file.Accounts,
	}

	if cfg.Devnet.Deployer == "" {
		cfg.Devnet.Deployer = cfg.Accounts["deployer"]
	}

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find govlock.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding govlock.toml
			return "", fmt.Errorf("not in a govlock project (%s not found)", ConfigFileName)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("GOVLOCK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("data_dir", ".govlock")
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)
	v.SetDefault("project_root", projectRoot)

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
				panic(err)
			}
		})
	}

	// Local defaults written by `govlock config set` sit below env and flags
	dataDir := v.GetString("data_dir")
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(v.GetString("project_root"), dataDir)
	}
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(dataDir)
	_ = v.ReadInConfig()

	return v
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
