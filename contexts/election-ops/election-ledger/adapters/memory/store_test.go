package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pericles/contexts/election-ops/election-ledger/adapters/memory"
	domainerrors "pericles/contexts/election-ops/election-ledger/domain/errors"
	"pericles/contexts/election-ops/election-ledger/ports"
)

func TestOutboxPreservesAppendOrder(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	ids := []string{"evt-1", "evt-2", "evt-3"}
	for _, id := range ids {
		err := store.AppendOutbox(ctx, ports.EventEnvelope{
			EventID:   id,
			EventType: "election.vote_cast",
		})
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	pending, err := store.ListPendingOutbox(ctx, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending, got %d", len(pending))
	}
	for i, id := range ids {
		if pending[i].OutboxID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, pending[i].OutboxID)
		}
	}

	if err := store.MarkOutboxPublished(ctx, "evt-2", time.Now()); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, err = store.ListPendingOutbox(ctx, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 2 || pending[0].OutboxID != "evt-1" || pending[1].OutboxID != "evt-3" {
		t.Fatalf("unexpected pending set after publish: %+v", pending)
	}

	if err := store.MarkOutboxPublished(ctx, "missing", time.Now()); !errors.Is(err, domainerrors.ErrOutboxNotFound) {
		t.Fatalf("expected ErrOutboxNotFound, got %v", err)
	}
}

func TestListPendingOutboxHonorsLimit(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := store.AppendOutbox(ctx, ports.EventEnvelope{EventID: id}); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}
	pending, err := store.ListPendingOutbox(ctx, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected limit 2, got %d", len(pending))
	}
}

func TestProjectionRows(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	if _, err := store.GetCandidateRow(ctx, 1); !errors.Is(err, domainerrors.ErrCandidateRowNotFound) {
		t.Fatalf("expected ErrCandidateRowNotFound, got %v", err)
	}

	rows := []ports.CandidateRow{
		{CandidateID: 2, Name: "Beta"},
		{CandidateID: 1, Name: "Alpha", Votes: 4},
	}
	for _, row := range rows {
		if err := store.SaveCandidateRow(ctx, row); err != nil {
			t.Fatalf("save candidate row failed: %v", err)
		}
	}
	listed, err := store.ListCandidateRows(ctx)
	if err != nil {
		t.Fatalf("list candidate rows failed: %v", err)
	}
	if len(listed) != 2 || listed[0].CandidateID != 1 || listed[1].CandidateID != 2 {
		t.Fatalf("candidate rows must list in id order: %+v", listed)
	}

	if _, found, err := store.GetVoterRow(ctx, "v1"); err != nil || found {
		t.Fatalf("expected no voter row, found=%v err=%v", found, err)
	}
	if err := store.SaveVoterRow(ctx, ports.VoterRow{Address: "v1", VotedFor: 1}); err != nil {
		t.Fatalf("save voter row failed: %v", err)
	}
	row, found, err := store.GetVoterRow(ctx, "v1")
	if err != nil || !found {
		t.Fatalf("expected voter row, found=%v err=%v", found, err)
	}
	if row.VotedFor != 1 {
		t.Fatalf("unexpected voter row: %+v", row)
	}
}
