package config

// GovernorConfig holds the Governor parameters fixed at deployment.
// Voting delay and period are in blocks; the grace period is in seconds.
type GovernorConfig struct {
	Name              string `toml:"name" json:"name"`
	VotingDelay       uint64 `toml:"voting_delay" json:"votingDelay"`
	VotingPeriod      uint64 `toml:"voting_period" json:"votingPeriod"`
	ProposalThreshold uint64 `toml:"proposal_threshold" json:"proposalThreshold"`

	// Quorum is a fixed vote count. When QuorumNumerator is set the quorum is
	// QuorumNumerator/QuorumDenominator of the total supply instead.
	Quorum            uint64 `toml:"quorum" json:"quorum"`
	QuorumNumerator   uint64 `toml:"quorum_numerator" json:"quorumNumerator,omitempty"`
	QuorumDenominator uint64 `toml:"quorum_denominator" json:"quorumDenominator,omitempty"`

	GracePeriod           uint64 `toml:"grace_period" json:"gracePeriod"`
	RejectZeroWeightVotes bool   `toml:"reject_zero_weight_votes" json:"rejectZeroWeightVotes,omitempty"`
	Guardian              string `toml:"guardian" json:"guardian,omitempty"`
}

// TimelockConfig holds the Timelock parameters fixed at deployment.
type TimelockConfig struct {
	MinDelay     uint64 `toml:"min_delay" json:"minDelay"`
	OpenExecutor bool   `toml:"open_executor" json:"openExecutor"`
	Admin        string `toml:"admin" json:"admin,omitempty"`
}

// DevnetConfig holds the parameters of the local simulated chain.
type DevnetConfig struct {
	ChainID         uint64 `toml:"chain_id" json:"chainId"`
	BlockTime       uint64 `toml:"block_time" json:"blockTime"`
	GenesisTime     uint64 `toml:"genesis_time" json:"genesisTime"`
	BoxInitialValue uint64 `toml:"box_initial_value" json:"boxInitialValue"`
	Deployer        string `toml:"deployer" json:"deployer,omitempty"`
}

// RemoteConfig points the remote commands at a deployed Governor.
type RemoteConfig struct {
	RPCURL     string `toml:"rpc_url"`
	Governor   string `toml:"governor"`
	PrivateKey string `toml:"private_key"`
}

// GovlockFileConfig is the decoded govlock.toml.
type GovlockFileConfig struct {
	Governor GovernorConfig    `toml:"governor"`
	Timelock TimelockConfig    `toml:"timelock"`
	Devnet   DevnetConfig      `toml:"devnet"`
	Remote   RemoteConfig      `toml:"remote"`
	Accounts map[string]string `toml:"accounts"`
}

// DefaultGovlockFileConfig mirrors the reference deployment: a one block voting
// delay, a five block voting period, threshold and quorum of two votes and a
// two second timelock delay.
func DefaultGovlockFileConfig() GovlockFileConfig {
	return GovlockFileConfig{
		Governor: GovernorConfig{
			Name:              "MyNFTGovernor",
			VotingDelay:       1,
			VotingPeriod:      5,
			ProposalThreshold: 2,
			Quorum:            2,
			GracePeriod:       14 * 24 * 60 * 60,
		},
		Timelock: TimelockConfig{
			MinDelay:     2,
			OpenExecutor: true,
		},
		Devnet: DevnetConfig{
			ChainID:         31337,
			BlockTime:       1,
			GenesisTime:     1700000000,
			BoxInitialValue: 42,
		},
		Accounts: map[string]string{
			"deployer": "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
			"alice":    "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
			"bob":      "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
			"carol":    "0x90F79bf6EB2c4f870365E785982E1f101E93b906",
		},
	}
}
