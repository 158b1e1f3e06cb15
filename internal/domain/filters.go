package domain

// EventFilter selects journaled events. Zero values match everything.
type EventFilter struct {
	Name      string
	Emitter   string
	FromBlock uint64
	Limit     int
}

// ProposalFilter selects proposals by lifecycle state name.
type ProposalFilter struct {
	State    string
	Proposer string
}
