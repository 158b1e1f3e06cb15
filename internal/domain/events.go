package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type EventType string

const (
	EventTypeProposalCreated   EventType = "ProposalCreated"
	EventTypeVoteCast          EventType = "VoteCast"
	EventTypeProposalQueued    EventType = "ProposalQueued"
	EventTypeProposalExecuted  EventType = "ProposalExecuted"
	EventTypeProposalCanceled  EventType = "ProposalCanceled"
	EventTypeCallScheduled     EventType = "CallScheduled"
	EventTypeCallExecuted      EventType = "CallExecuted"
	EventTypeOperationCanceled EventType = "Cancelled"
	EventTypeMinDelayChange    EventType = "MinDelayChange"
	EventTypeRoleGranted       EventType = "RoleGranted"
	EventTypeRoleRevoked       EventType = "RoleRevoked"
	EventTypeSettingChanged    EventType = "GovernorSettingChanged"
	EventTypeValueChanged      EventType = "ValueChanged"
)

// Event is implemented by every event emitted by the governance contracts.
type Event interface {
	ContractEventName() string
	EmittedAt() EventMeta
	String() string
}

// EventMeta records where an event was emitted.
type EventMeta struct {
	Emitter   common.Address `json:"emitter"`
	Block     uint64         `json:"block"`
	Timestamp uint64         `json:"timestamp"`
}

func (m EventMeta) EmittedAt() EventMeta { return m }

// ProposalCreatedEvent is emitted by Propose.
type ProposalCreatedEvent struct {
	EventMeta
	ProposalID      common.Hash      `json:"proposalId"`
	Proposer        common.Address   `json:"proposer"`
	Targets         []common.Address `json:"targets"`
	Values          []*big.Int       `json:"values"`
	Calldatas       []hexutil.Bytes  `json:"calldatas"`
	DescriptionHash common.Hash      `json:"descriptionHash"`
	Description     string           `json:"description"`
	VoteStart       uint64           `json:"voteStart"`
	VoteEnd         uint64           `json:"voteEnd"`
}

func (ProposalCreatedEvent) ContractEventName() string { return string(EventTypeProposalCreated) }

func (e ProposalCreatedEvent) String() string {
	return fmt.Sprintf("%s: id=%s, proposer=%s, calls=%d, voteStart=%d, voteEnd=%d",
		e.ContractEventName(), shortHash(e.ProposalID), e.Proposer.Hex(), len(e.Targets), e.VoteStart, e.VoteEnd)
}

// VoteCastEvent is emitted by CastVote.
type VoteCastEvent struct {
	EventMeta
	ProposalID common.Hash    `json:"proposalId"`
	Voter      common.Address `json:"voter"`
	Support    uint8          `json:"support"`
	Weight     *big.Int       `json:"weight"`
	Reason     string         `json:"reason,omitempty"`
}

func (VoteCastEvent) ContractEventName() string { return string(EventTypeVoteCast) }

func (e VoteCastEvent) String() string {
	return fmt.Sprintf("%s: id=%s, voter=%s, support=%d, weight=%s",
		e.ContractEventName(), shortHash(e.ProposalID), e.Voter.Hex(), e.Support, e.Weight)
}

// ProposalQueuedEvent is emitted by Queue.
type ProposalQueuedEvent struct {
	EventMeta
	ProposalID  common.Hash `json:"proposalId"`
	OperationID common.Hash `json:"operationId"`
	ETA         uint64      `json:"eta"`
}

func (ProposalQueuedEvent) ContractEventName() string { return string(EventTypeProposalQueued) }

func (e ProposalQueuedEvent) String() string {
	return fmt.Sprintf("%s: id=%s, operation=%s, eta=%d",
		e.ContractEventName(), shortHash(e.ProposalID), shortHash(e.OperationID), e.ETA)
}

// ProposalExecutedEvent is emitted by Execute.
type ProposalExecutedEvent struct {
	EventMeta
	ProposalID common.Hash `json:"proposalId"`
}

func (ProposalExecutedEvent) ContractEventName() string { return string(EventTypeProposalExecuted) }

func (e ProposalExecutedEvent) String() string {
	return fmt.Sprintf("%s: id=%s", e.ContractEventName(), shortHash(e.ProposalID))
}

// ProposalCanceledEvent is emitted by Cancel.
type ProposalCanceledEvent struct {
	EventMeta
	ProposalID common.Hash `json:"proposalId"`
}

func (ProposalCanceledEvent) ContractEventName() string { return string(EventTypeProposalCanceled) }

func (e ProposalCanceledEvent) String() string {
	return fmt.Sprintf("%s: id=%s", e.ContractEventName(), shortHash(e.ProposalID))
}

// CallScheduledEvent is emitted once per call of a scheduled operation.
type CallScheduledEvent struct {
	EventMeta
	OperationID common.Hash    `json:"operationId"`
	Index       int            `json:"index"`
	Target      common.Address `json:"target"`
	Value       *big.Int       `json:"value"`
	Data        hexutil.Bytes  `json:"data"`
	Predecessor common.Hash    `json:"predecessor"`
	Delay       uint64         `json:"delay"`
}

func (CallScheduledEvent) ContractEventName() string { return string(EventTypeCallScheduled) }

func (e CallScheduledEvent) String() string {
	return fmt.Sprintf("%s: operation=%s, index=%d, target=%s, delay=%d",
		e.ContractEventName(), shortHash(e.OperationID), e.Index, e.Target.Hex(), e.Delay)
}

// CallExecutedEvent is emitted once per call of an executed operation.
type CallExecutedEvent struct {
	EventMeta
	OperationID common.Hash    `json:"operationId"`
	Index       int            `json:"index"`
	Target      common.Address `json:"target"`
	Value       *big.Int       `json:"value"`
	Data        hexutil.Bytes  `json:"data"`
}

func (CallExecutedEvent) ContractEventName() string { return string(EventTypeCallExecuted) }

func (e CallExecutedEvent) String() string {
	return fmt.Sprintf("%s: operation=%s, index=%d, target=%s",
		e.ContractEventName(), shortHash(e.OperationID), e.Index, e.Target.Hex())
}

// OperationCanceledEvent is emitted when a pending operation is canceled.
type OperationCanceledEvent struct {
	EventMeta
	OperationID common.Hash `json:"operationId"`
}

func (OperationCanceledEvent) ContractEventName() string { return string(EventTypeOperationCanceled) }

func (e OperationCanceledEvent) String() string {
	return fmt.Sprintf("%s: operation=%s", e.ContractEventName(), shortHash(e.OperationID))
}

// MinDelayChangeEvent is emitted when the timelock minimum delay changes.
type MinDelayChangeEvent struct {
	EventMeta
	OldDuration uint64 `json:"oldDuration"`
	NewDuration uint64 `json:"newDuration"`
}

func (MinDelayChangeEvent) ContractEventName() string { return string(EventTypeMinDelayChange) }

func (e MinDelayChangeEvent) String() string {
	return fmt.Sprintf("%s: %d -> %d", e.ContractEventName(), e.OldDuration, e.NewDuration)
}

// RoleEvent is emitted when a timelock role is granted or revoked.
type RoleEvent struct {
	EventMeta
	Granted bool           `json:"granted"`
	Role    common.Hash    `json:"role"`
	Account common.Address `json:"account"`
	Sender  common.Address `json:"sender"`
}

func (e RoleEvent) ContractEventName() string {
	if e.Granted {
		return string(EventTypeRoleGranted)
	}
	return string(EventTypeRoleRevoked)
}

func (e RoleEvent) String() string {
	return fmt.Sprintf("%s: role=%s, account=%s, sender=%s",
		e.ContractEventName(), shortHash(e.Role), e.Account.Hex(), e.Sender.Hex())
}

// SettingChangedEvent is emitted when a governance-controlled setting changes.
type SettingChangedEvent struct {
	EventMeta
	Setting  string   `json:"setting"`
	OldValue *big.Int `json:"oldValue"`
	NewValue *big.Int `json:"newValue"`
}

func (SettingChangedEvent) ContractEventName() string { return string(EventTypeSettingChanged) }

func (e SettingChangedEvent) String() string {
	return fmt.Sprintf("%s: %s %s -> %s", e.ContractEventName(), e.Setting, e.OldValue, e.NewValue)
}

// ValueChangedEvent is emitted by the governed Box contract.
type ValueChangedEvent struct {
	EventMeta
	Value *big.Int `json:"value"`
}

func (ValueChangedEvent) ContractEventName() string { return string(EventTypeValueChanged) }

func (e ValueChangedEvent) String() string {
	return fmt.Sprintf("%s: value=%s", e.ContractEventName(), e.Value)
}

func shortHash(h common.Hash) string {
	return h.Hex()[:10] + "..."
}

// EventSink receives emitted events in emission order.
type EventSink interface {
	Emit(event Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(event Event)

func (f EventSinkFunc) Emit(event Event) { f(event) }

// NopEventSink discards events.
type NopEventSink struct{}

func (NopEventSink) Emit(Event) {}
