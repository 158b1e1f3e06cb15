package config

// LocalConfig holds per-checkout defaults stored in .govlock/config.local.json
type LocalConfig struct {
	From     string `json:"from,omitempty"`
	RPCURL   string `json:"rpc_url,omitempty"`
	Governor string `json:"governor,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyFrom     ConfigKey = "from"
	ConfigKeyRPCURL   ConfigKey = "rpc-url"
	ConfigKeyGovernor ConfigKey = "governor"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{}
}

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyFrom,
		ConfigKeyRPCURL,
		ConfigKeyGovernor,
	}
}

// IsValidConfigKey checks if a key is valid
func IsValidConfigKey(key string) bool {
	normalized := NormalizeConfigKey(key)
	for _, validKey := range ValidConfigKeys() {
		if validKey == normalized {
			return true
		}
	}
	return false
}

// NormalizeConfigKey normalizes a config key (e.g., "rpc_url" -> "rpc-url")
func NormalizeConfigKey(key string) ConfigKey {
	switch key {
	case "rpc_url", "rpc":
		return ConfigKeyRPCURL
	case "sender":
		return ConfigKeyFrom
	}
	return ConfigKey(key)
}

// Get returns the value stored under key
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyFrom:
		return c.From
	case ConfigKeyRPCURL:
		return c.RPCURL
	case ConfigKeyGovernor:
		return c.Governor
	}
	return ""
}

// Set stores value under key
func (c *LocalConfig) Set(key ConfigKey, value string) {
	switch key {
	case ConfigKeyFrom:
		c.From = value
	case ConfigKeyRPCURL:
		c.RPCURL = value
	case ConfigKeyGovernor:
		c.Governor = value
	}
}
