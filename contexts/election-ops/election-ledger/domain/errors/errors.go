package errors

import "errors"

var (
	ErrUnauthorized          = errors.New("caller is not authorized for this operation")
	ErrInvalidPhase          = errors.New("operation is not legal in the current election phase")
	ErrAlreadyRegistered     = errors.New("identity is already a registered voter")
	ErrAlreadyVoted          = errors.New("voter has already cast a vote")
	ErrAlreadyDelegated      = errors.New("voter has already delegated")
	ErrSelfDelegation        = errors.New("voter cannot delegate to themselves")
	ErrDelegateNotRegistered = errors.New("delegatee is not a registered voter")
	ErrDelegatedAway         = errors.New("voter has delegated their vote away")
	ErrInvalidCandidate      = errors.New("candidate id is out of range")
	ErrVoterNotFound         = errors.New("voter is not registered")
	ErrOutboxNotFound        = errors.New("outbox record not found")
	ErrCandidateRowNotFound  = errors.New("candidate projection row not found")
)
