package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	electionledger "pericles/contexts/election-ops/election-ledger"
	"pericles/contexts/election-ops/election-ledger/application/commands"
	"pericles/contexts/election-ops/election-ledger/domain/entities"
	domainerrors "pericles/contexts/election-ops/election-ledger/domain/errors"
	"pericles/contexts/election-ops/election-ledger/ports"
)

const admin = entities.Identity("admin-1")

func pendingEnvelopes(t *testing.T, module electionledger.Module) []ports.EventEnvelope {
	t.Helper()
	messages, err := module.Store.ListPendingOutbox(context.Background(), 0)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	envelopes := make([]ports.EventEnvelope, 0, len(messages))
	for _, message := range messages {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			t.Fatalf("decode envelope failed: %v", err)
		}
		envelopes = append(envelopes, envelope)
	}
	return envelopes
}

func TestEveryAcceptedMutationEmitsOneNotification(t *testing.T) {
	module := electionledger.NewInMemoryModule(admin, nil)
	ledger := module.Handler.Ledger
	ctx := context.Background()

	if _, err := ledger.AddCandidate(ctx, commands.AddCandidateCommand{Caller: admin, Name: "Alpha", Proposal: "plan a"}); err != nil {
		t.Fatalf("add candidate failed: %v", err)
	}
	if _, err := ledger.RegisterVoter(ctx, commands.RegisterVoterCommand{Caller: admin, Address: "v1"}); err != nil {
		t.Fatalf("register voter failed: %v", err)
	}
	if _, err := ledger.RegisterVoter(ctx, commands.RegisterVoterCommand{Caller: admin, Address: "v2"}); err != nil {
		t.Fatalf("register voter failed: %v", err)
	}
	if err := ledger.StartElection(ctx, admin); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := ledger.DelegateVote(ctx, commands.DelegateVoteCommand{Delegator: "v2", Delegatee: "v1"}); err != nil {
		t.Fatalf("delegate failed: %v", err)
	}
	if _, err := ledger.CastVote(ctx, commands.CastVoteCommand{Voter: "v1", CandidateID: 1}); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if err := ledger.EndElection(ctx, admin); err != nil {
		t.Fatalf("end failed: %v", err)
	}

	envelopes := pendingEnvelopes(t, module)
	wantTypes := []string{
		commands.TopicCandidateAdded,
		commands.TopicVoterRegistered,
		commands.TopicVoterRegistered,
		commands.TopicElectionStarted,
		commands.TopicDelegationRecorded,
		commands.TopicVoteCast,
		commands.TopicElectionEnded,
	}
	if len(envelopes) != len(wantTypes) {
		t.Fatalf("expected %d notifications, got %d", len(wantTypes), len(envelopes))
	}
	for i, want := range wantTypes {
		if envelopes[i].EventType != want {
			t.Fatalf("notification %d: expected %s, got %s", i, want, envelopes[i].EventType)
		}
	}
}

func TestNotificationSchemas(t *testing.T) {
	module := electionledger.NewInMemoryModule(admin, nil)
	ledger := module.Handler.Ledger
	ctx := context.Background()

	if _, err := ledger.AddCandidate(ctx, commands.AddCandidateCommand{Caller: admin, Name: "Alpha", Proposal: "plan a"}); err != nil {
		t.Fatalf("add candidate failed: %v", err)
	}
	if _, err := ledger.RegisterVoter(ctx, commands.RegisterVoterCommand{Caller: admin, Address: "v1"}); err != nil {
		t.Fatalf("register voter failed: %v", err)
	}
	if err := ledger.StartElection(ctx, admin); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := ledger.CastVote(ctx, commands.CastVoteCommand{Voter: "v1", CandidateID: 1}); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}

	envelopes := pendingEnvelopes(t, module)

	var candidateAdded struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Proposal string `json:"proposal"`
	}
	if err := json.Unmarshal(envelopes[0].Data, &candidateAdded); err != nil {
		t.Fatalf("decode candidate_added failed: %v", err)
	}
	if candidateAdded.ID != 1 || candidateAdded.Name != "Alpha" || candidateAdded.Proposal != "plan a" {
		t.Fatalf("unexpected candidate_added payload: %+v", candidateAdded)
	}

	var voteCast struct {
		Voter       string `json:"voter"`
		CandidateID int    `json:"candidate_id"`
	}
	if err := json.Unmarshal(envelopes[3].Data, &voteCast); err != nil {
		t.Fatalf("decode vote_cast failed: %v", err)
	}
	if voteCast.Voter != "v1" || voteCast.CandidateID != 1 {
		t.Fatalf("unexpected vote_cast payload: %+v", voteCast)
	}
}

func TestRejectedCallsEmitNothingAndChangeNothing(t *testing.T) {
	module := electionledger.NewInMemoryModule(admin, nil)
	ledger := module.Handler.Ledger
	ctx := context.Background()

	if _, err := ledger.AddCandidate(ctx, commands.AddCandidateCommand{Caller: "intruder", Name: "x"}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := ledger.EndElection(ctx, admin); !errors.Is(err, domainerrors.ErrInvalidPhase) {
		t.Fatalf("expected ErrInvalidPhase, got %v", err)
	}
	if _, err := ledger.CastVote(ctx, commands.CastVoteCommand{Voter: "nobody", CandidateID: 1}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if envelopes := pendingEnvelopes(t, module); len(envelopes) != 0 {
		t.Fatalf("rejected calls must emit no notifications, got %d", len(envelopes))
	}
}
