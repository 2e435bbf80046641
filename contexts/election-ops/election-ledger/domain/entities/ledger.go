package entities

import (
	"strings"

	domainerrors "pericles/contexts/election-ops/election-ledger/domain/errors"
)

// Identity is the opaque principal identifier supplied by the hosting layer.
// The ledger only compares identities; it never inspects or authenticates them.
type Identity string

func (i Identity) IsZero() bool {
	return strings.TrimSpace(string(i)) == ""
}

// ElectionPhase advances strictly forward: NotStarted -> Ongoing -> Ended.
type ElectionPhase int

const (
	PhaseNotStarted ElectionPhase = iota
	PhaseOngoing
	PhaseEnded
)

func (p ElectionPhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseOngoing:
		return "ongoing"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// NoCandidate is the votedFor sentinel for a voter who has not voted.
const NoCandidate = 0

type Candidate struct {
	ID       int
	Name     string
	Proposal string
	Votes    int
}

type Voter struct {
	Address      Identity
	Name         string
	VotedFor     int
	HasDelegated bool
	Delegate     Identity
}

// Ledger is the single-election aggregate. It owns the candidate list, the
// voter registry, and the phase machine, and is the only mutation path for any
// of them. Every method validates fully before touching state, so a rejected
// call leaves the aggregate untouched. The aggregate itself is not
// goroutine-safe; the application layer serializes access.
type Ledger struct {
	admin      Identity
	phase      ElectionPhase
	candidates []Candidate
	voters     map[Identity]*Voter
	registered map[Identity]bool
}

func NewLedger(admin Identity) *Ledger {
	return &Ledger{
		admin:      admin,
		phase:      PhaseNotStarted,
		voters:     make(map[Identity]*Voter),
		registered: make(map[Identity]bool),
	}
}

func (l *Ledger) Admin() Identity {
	return l.admin
}

func (l *Ledger) Phase() ElectionPhase {
	return l.phase
}

func (l *Ledger) CandidateCount() int {
	return len(l.candidates)
}

func (l *Ledger) VoterCount() int {
	return len(l.voters)
}

func (l *Ledger) IsRegistered(identity Identity) bool {
	return l.registered[identity]
}

func (l *Ledger) requireAdmin(caller Identity) error {
	if caller != l.admin {
		return domainerrors.ErrUnauthorized
	}
	return nil
}

// AddCandidate appends a candidate with the next 1-based id. Candidate ids are
// insertion positions and are never reused or renumbered.
func (l *Ledger) AddCandidate(caller Identity, name string, proposal string) (Candidate, error) {
	if err := l.requireAdmin(caller); err != nil {
		return Candidate{}, err
	}
	if l.phase != PhaseNotStarted {
		return Candidate{}, domainerrors.ErrInvalidPhase
	}
	candidate := Candidate{
		ID:       len(l.candidates) + 1,
		Name:     name,
		Proposal: proposal,
		Votes:    0,
	}
	l.candidates = append(l.candidates, candidate)
	return candidate, nil
}

// RegisterVoter marks an identity as a registered voter. Re-registering an
// already-registered identity is rejected rather than overwritten.
func (l *Ledger) RegisterVoter(caller Identity, address Identity, name string) (Voter, error) {
	if err := l.requireAdmin(caller); err != nil {
		return Voter{}, err
	}
	if l.phase != PhaseNotStarted {
		return Voter{}, domainerrors.ErrInvalidPhase
	}
	if l.registered[address] {
		return Voter{}, domainerrors.ErrAlreadyRegistered
	}
	voter := &Voter{
		Address:      address,
		Name:         name,
		VotedFor:     NoCandidate,
		HasDelegated: false,
		Delegate:     "",
	}
	l.registered[address] = true
	l.voters[address] = voter
	return *voter, nil
}

func (l *Ledger) StartElection(caller Identity) error {
	if err := l.requireAdmin(caller); err != nil {
		return err
	}
	if l.phase != PhaseNotStarted {
		return domainerrors.ErrInvalidPhase
	}
	l.phase = PhaseOngoing
	return nil
}

func (l *Ledger) EndElection(caller Identity) error {
	if err := l.requireAdmin(caller); err != nil {
		return err
	}
	if l.phase != PhaseOngoing {
		return domainerrors.ErrInvalidPhase
	}
	l.phase = PhaseEnded
	return nil
}

// DelegateVote records a single-hop delegation. The ledger never walks
// delegation chains: a delegatee who has themselves delegated is still a valid
// target, and the recorded delegate is exactly the one named here.
func (l *Ledger) DelegateVote(delegator Identity, delegatee Identity) error {
	if l.phase != PhaseOngoing {
		return domainerrors.ErrInvalidPhase
	}
	voter, ok := l.voters[delegator]
	if !ok {
		return domainerrors.ErrVoterNotFound
	}
	if voter.HasDelegated {
		return domainerrors.ErrAlreadyDelegated
	}
	if voter.VotedFor != NoCandidate {
		return domainerrors.ErrAlreadyVoted
	}
	if delegatee == delegator {
		return domainerrors.ErrSelfDelegation
	}
	if !l.registered[delegatee] {
		return domainerrors.ErrDelegateNotRegistered
	}
	voter.HasDelegated = true
	voter.Delegate = delegatee
	return nil
}

// CastVote is the single point of tally mutation. The already-voted check and
// the counter increment happen in one call on the exclusively-owned aggregate,
// so no voter can ever cause two increments.
func (l *Ledger) CastVote(voter Identity, candidateID int) (Candidate, error) {
	record, ok := l.voters[voter]
	if !ok {
		return Candidate{}, domainerrors.ErrUnauthorized
	}
	if l.phase != PhaseOngoing {
		return Candidate{}, domainerrors.ErrInvalidPhase
	}
	if record.VotedFor != NoCandidate {
		return Candidate{}, domainerrors.ErrAlreadyVoted
	}
	if record.HasDelegated {
		return Candidate{}, domainerrors.ErrDelegatedAway
	}
	if candidateID < 1 || candidateID > len(l.candidates) {
		return Candidate{}, domainerrors.ErrInvalidCandidate
	}
	l.candidates[candidateID-1].Votes++
	record.VotedFor = candidateID
	return l.candidates[candidateID-1], nil
}

func (l *Ledger) Candidate(candidateID int) (Candidate, error) {
	if candidateID < 1 || candidateID > len(l.candidates) {
		return Candidate{}, domainerrors.ErrInvalidCandidate
	}
	return l.candidates[candidateID-1], nil
}

// Candidates returns a copy of the candidate list in id order.
func (l *Ledger) Candidates() []Candidate {
	out := make([]Candidate, len(l.candidates))
	copy(out, l.candidates)
	return out
}

// Winner returns the candidate with the strictly greatest tally, ties broken
// by lowest id. With zero votes cast the candidate with id 1 wins at zero
// votes; that degenerate outcome is part of the contract.
func (l *Ledger) Winner() (Candidate, error) {
	if l.phase != PhaseEnded {
		return Candidate{}, domainerrors.ErrInvalidPhase
	}
	if len(l.candidates) == 0 {
		return Candidate{}, domainerrors.ErrInvalidCandidate
	}
	winner := l.candidates[0]
	for _, candidate := range l.candidates[1:] {
		if candidate.Votes > winner.Votes {
			winner = candidate
		}
	}
	return winner, nil
}

// VoterProfile returns the voter record for an identity. Unregistered
// identities get the zero-valued record, not an error; callers that need a
// hard failure should check IsRegistered first.
func (l *Ledger) VoterProfile(identity Identity) Voter {
	if voter, ok := l.voters[identity]; ok {
		return *voter
	}
	return Voter{}
}
