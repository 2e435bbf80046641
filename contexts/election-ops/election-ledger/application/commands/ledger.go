package commands

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "pericles/contexts/election-ops/election-ledger/application"
	"pericles/contexts/election-ops/election-ledger/domain/entities"
	"pericles/contexts/election-ops/election-ledger/ports"
)

// AddCandidateCommand is the write-model input for candidate creation.
type AddCandidateCommand struct {
	Caller   entities.Identity
	Name     string
	Proposal string
}

// RegisterVoterCommand enrolls an identity into the voter registry.
type RegisterVoterCommand struct {
	Caller  entities.Identity
	Address entities.Identity
	Name    string
}

// DelegateVoteCommand records a one-hop delegation from delegator to delegatee.
type DelegateVoteCommand struct {
	Delegator entities.Identity
	Delegatee entities.Identity
}

// CastVoteCommand records a direct vote for a candidate id.
type CastVoteCommand struct {
	Voter       entities.Identity
	CandidateID int
}

// LedgerUseCase orchestrates every mutating election operation: it runs the
// aggregate under the handle's write lock, and on success emits exactly one
// notification envelope through the outbox. A rejected call changes nothing
// and emits nothing.
type LedgerUseCase struct {
	Handle *application.LedgerHandle
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// AddCandidate appends a candidate while the election has not started.
func (uc LedgerUseCase) AddCandidate(ctx context.Context, cmd AddCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	var candidate entities.Candidate
	err := uc.Handle.Write(func(ledger *entities.Ledger) error {
		created, err := ledger.AddCandidate(cmd.Caller, strings.TrimSpace(cmd.Name), strings.TrimSpace(cmd.Proposal))
		if err != nil {
			return err
		}
		candidate = created
		return nil
	})
	if err != nil {
		logger.Warn("candidate add rejected",
			"event", "election_candidate_add_rejected",
			"module", "election-ops/election-ledger",
			"layer", "application",
			"caller", string(cmd.Caller),
			"error", err.Error(),
		)
		return entities.Candidate{}, err
	}
	if err := uc.appendEvent(ctx, TopicCandidateAdded, candidateKey(candidate.ID), map[string]any{
		"id":       candidate.ID,
		"name":     candidate.Name,
		"proposal": candidate.Proposal,
	}); err != nil {
		return entities.Candidate{}, err
	}
	logger.Info("candidate added",
		"event", "election_candidate_added",
		"module", "election-ops/election-ledger",
		"layer", "application",
		"candidate_id", candidate.ID,
		"name", candidate.Name,
	)
	return candidate, nil
}

// RegisterVoter enrolls an identity; re-registration is rejected, never
// overwritten.
func (uc LedgerUseCase) RegisterVoter(ctx context.Context, cmd RegisterVoterCommand) (entities.Voter, error) {
	logger := application.ResolveLogger(uc.Logger)
	var voter entities.Voter
	err := uc.Handle.Write(func(ledger *entities.Ledger) error {
		registered, err := ledger.RegisterVoter(cmd.Caller, cmd.Address, strings.TrimSpace(cmd.Name))
		if err != nil {
			return err
		}
		voter = registered
		return nil
	})
	if err != nil {
		logger.Warn("voter registration rejected",
			"event", "election_voter_register_rejected",
			"module", "election-ops/election-ledger",
			"layer", "application",
			"caller", string(cmd.Caller),
			"address", string(cmd.Address),
			"error", err.Error(),
		)
		return entities.Voter{}, err
	}
	if err := uc.appendEvent(ctx, TopicVoterRegistered, string(voter.Address), map[string]any{
		"address": string(voter.Address),
		"name":    voter.Name,
	}); err != nil {
		return entities.Voter{}, err
	}
	logger.Info("voter registered",
		"event", "election_voter_registered",
		"module", "election-ops/election-ledger",
		"layer", "application",
		"address", string(voter.Address),
	)
	return voter, nil
}

// StartElection moves the phase from NotStarted to Ongoing.
func (uc LedgerUseCase) StartElection(ctx context.Context, caller entities.Identity) error {
	logger := application.ResolveLogger(uc.Logger)
	err := uc.Handle.Write(func(ledger *entities.Ledger) error {
		return ledger.StartElection(caller)
	})
	if err != nil {
		logger.Warn("election start rejected",
			"event", "election_start_rejected",
			"module", "election-ops/election-ledger",
			"layer", "application",
			"caller", string(caller),
			"error", err.Error(),
		)
		return err
	}
	if err := uc.appendEvent(ctx, TopicElectionStarted, "election", map[string]any{}); err != nil {
		return err
	}
	logger.Info("election started",
		"event", "election_started",
		"module", "election-ops/election-ledger",
		"layer", "application",
	)
	return nil
}

// EndElection moves the phase from Ongoing to Ended; tallies become final.
func (uc LedgerUseCase) EndElection(ctx context.Context, caller entities.Identity) error {
	logger := application.ResolveLogger(uc.Logger)
	err := uc.Handle.Write(func(ledger *entities.Ledger) error {
		return ledger.EndElection(caller)
	})
	if err != nil {
		logger.Warn("election end rejected",
			"event", "election_end_rejected",
			"module", "election-ops/election-ledger",
			"layer", "application",
			"caller", string(caller),
			"error", err.Error(),
		)
		return err
	}
	if err := uc.appendEvent(ctx, TopicElectionEnded, "election", map[string]any{}); err != nil {
		return err
	}
	logger.Info("election ended",
		"event", "election_ended",
		"module", "election-ops/election-ledger",
		"layer", "application",
	)
	return nil
}

// DelegateVote records a single-hop delegation. Chains are never resolved.
func (uc LedgerUseCase) DelegateVote(ctx context.Context, cmd DelegateVoteCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	err := uc.Handle.Write(func(ledger *entities.Ledger) error {
		return ledger.DelegateVote(cmd.Delegator, cmd.Delegatee)
	})
	if err != nil {
		logger.Warn("delegation rejected",
			"event", "election_delegation_rejected",
			"module", "election-ops/election-ledger",
			"layer", "application",
			"delegator", string(cmd.Delegator),
			"delegatee", string(cmd.Delegatee),
			"error", err.Error(),
		)
		return err
	}
	if err := uc.appendEvent(ctx, TopicDelegationRecorded, string(cmd.Delegator), map[string]any{
		"delegator": string(cmd.Delegator),
		"delegatee": string(cmd.Delegatee),
	}); err != nil {
		return err
	}
	logger.Info("delegation recorded",
		"event", "election_delegation_recorded",
		"module", "election-ops/election-ledger",
		"layer", "application",
		"delegator", string(cmd.Delegator),
		"delegatee", string(cmd.Delegatee),
	)
	return nil
}

// CastVote increments exactly one candidate tally for a voter who has neither
// voted nor delegated.
func (uc LedgerUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	var candidate entities.Candidate
	err := uc.Handle.Write(func(ledger *entities.Ledger) error {
		tallied, err := ledger.CastVote(cmd.Voter, cmd.CandidateID)
		if err != nil {
			return err
		}
		candidate = tallied
		return nil
	})
	if err != nil {
		logger.Warn("vote rejected",
			"event", "election_vote_rejected",
			"module", "election-ops/election-ledger",
			"layer", "application",
			"voter", string(cmd.Voter),
			"candidate_id", cmd.CandidateID,
			"error", err.Error(),
		)
		return entities.Candidate{}, err
	}
	if err := uc.appendEvent(ctx, TopicVoteCast, string(cmd.Voter), map[string]any{
		"voter":        string(cmd.Voter),
		"candidate_id": cmd.CandidateID,
	}); err != nil {
		return entities.Candidate{}, err
	}
	logger.Info("vote cast",
		"event", "election_vote_cast",
		"module", "election-ops/election-ledger",
		"layer", "application",
		"voter", string(cmd.Voter),
		"candidate_id", cmd.CandidateID,
		"tally", candidate.Votes,
	)
	return candidate, nil
}

func (uc LedgerUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc LedgerUseCase) appendEvent(ctx context.Context, eventType string, partitionKey string, data map[string]any) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newElectionEnvelope(eventID, eventType, partitionKey, uc.now(), data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func candidateKey(candidateID int) string {
	return "candidate-" + strconv.Itoa(candidateID)
}
