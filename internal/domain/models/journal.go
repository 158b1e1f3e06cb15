package models

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// EventRecord is a committed contract event as stored in the journal.
type EventRecord struct {
	ID         string          `json:"id"`
	Seq        int64           `json:"seq"`
	Name       string          `json:"name"`
	Emitter    common.Address  `json:"emitter"`
	Block      uint64          `json:"block"`
	Timestamp  uint64          `json:"timestamp"`
	Summary    string          `json:"summary"`
	Payload    json.RawMessage `json:"payload"`
	RecordedAt time.Time       `json:"recordedAt"`
}

// ProposalDraft is a proposal described in a file before its calls are
// encoded.
type ProposalDraft struct {
	Description string           `yaml:"description" json:"description"`
	Actions     []ProposalAction `yaml:"actions" json:"actions"`
}

// ProposalAction is one call of a draft. Target is an address, an account
// alias or a devnet contract name. Either Calldata or Signature and Args
// describe the payload; both empty means a plain value transfer.
type ProposalAction struct {
	Target    string   `yaml:"target" json:"target"`
	Value     string   `yaml:"value,omitempty" json:"value,omitempty"`
	Signature string   `yaml:"signature,omitempty" json:"signature,omitempty"`
	Args      []string `yaml:"args,omitempty" json:"args,omitempty"`
	Calldata  string   `yaml:"calldata,omitempty" json:"calldata,omitempty"`
}
