package domain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for governance and timelock operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrProposalNotFound is returned when no proposal exists for an id
	ErrProposalNotFound = fmt.Errorf("proposal %w", ErrNotFound)

	// ErrOperationNotFound is returned when the timelock has no record of an operation
	ErrOperationNotFound = fmt.Errorf("operation %w", ErrNotFound)

	// ErrUnauthorized is returned when the caller lacks the required role
	ErrUnauthorized = errors.New("unauthorized")

	// Sequencing errors

	ErrVotingClosed              = errors.New("voting is closed")
	ErrAlreadyVoted              = errors.New("vote already cast")
	ErrTimelockNotReady          = errors.New("timelock not ready")
	ErrOperationNotReady         = errors.New("operation is not ready")
	ErrPredecessorNotDone        = errors.New("predecessor operation is not done")
	ErrProposalAlreadyExists     = errors.New("proposal already exists")
	ErrOperationAlreadyScheduled = errors.New("operation already scheduled")
	ErrOperationAlreadyDone      = errors.New("operation already done")
	ErrOperationNotPending       = errors.New("operation is not pending")
	ErrUnexpectedProposalState   = errors.New("unexpected proposal state")

	// Policy errors

	ErrInsufficientProposerVotes = errors.New("proposer votes below proposal threshold")
	ErrDelayTooShort             = errors.New("delay is shorter than the minimum delay")
	ErrInvalidVoteType           = errors.New("invalid vote type")
	ErrInvalidProposalLength     = errors.New("invalid proposal length")
	ErrInvalidOperationLength    = errors.New("invalid operation length")
	ErrZeroVotingPower           = errors.New("voter has no voting power")
	ErrInvalidSetting            = errors.New("invalid governance setting")
	ErrValueOutOfRange           = errors.New("value out of uint256 range")
	ErrDelayOverflow             = errors.New("delay overflows the ready timestamp")

	// Terminal-state errors

	ErrAlreadyExecuted      = errors.New("proposal already executed")
	ErrCannotCancelExecuted = errors.New("cannot cancel an executed operation")

	// External call errors

	ErrUnderlyingCallReverted = errors.New("underlying call reverted")
	ErrBatchExecutionFailed   = errors.New("batch execution failed")
)

// Workspace errors
var (
	ErrDevnetNotInitialized = errors.New("devnet not initialized, run 'govlock init' first")
	ErrDevnetExists         = errors.New("devnet already initialized, use --force to redeploy")
	ErrAmbiguousReference   = errors.New("ambiguous reference")
	ErrUnknownAccount       = errors.New("unknown account")
)

// UnexpectedStateError reports a proposal operation attempted from the wrong state.
type UnexpectedStateError struct {
	ProposalID common.Hash
	Current    fmt.Stringer
	Expected   []fmt.Stringer
}

func (e *UnexpectedStateError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("unexpected proposal state: proposal %s is %s", e.ProposalID.Hex(), e.Current)
	}
	return fmt.Sprintf("unexpected proposal state: proposal %s is %s, expected %v", e.ProposalID.Hex(), e.Current, e.Expected)
}

func (e *UnexpectedStateError) Unwrap() error {
	return ErrUnexpectedProposalState
}

// CallRevertedError describes which call of an operation failed and why.
type CallRevertedError struct {
	Index  int
	Target common.Address
	Err    error
}

func (e *CallRevertedError) Error() string {
	return fmt.Sprintf("call %d to %s reverted: %v", e.Index, e.Target.Hex(), e.Err)
}

func (e *CallRevertedError) Unwrap() []error {
	return []error{ErrUnderlyingCallReverted, e.Err}
}
