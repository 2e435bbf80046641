package workers_test

import (
	"context"
	"encoding/json"
	"testing"

	"pericles/contexts/election-ops/election-ledger/adapters/memory"
	"pericles/contexts/election-ops/election-ledger/application/commands"
	"pericles/contexts/election-ops/election-ledger/application/workers"
	"pericles/contexts/election-ops/election-ledger/ports"
)

type capturingPublisher struct {
	published []ports.EventEnvelope
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	p.published = append(p.published, event)
	return nil
}

type recordingSubscriber struct {
	handlers map[string]func(context.Context, ports.EventEnvelope) error
}

func (s *recordingSubscriber) Subscribe(
	_ context.Context,
	topic string,
	_ string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	if s.handlers == nil {
		s.handlers = make(map[string]func(context.Context, ports.EventEnvelope) error)
	}
	s.handlers[topic] = handler
	return nil
}

func (s *recordingSubscriber) deliver(t *testing.T, topic string, data map[string]any) {
	t.Helper()
	handler, ok := s.handlers[topic]
	if !ok {
		t.Fatalf("no subscription for topic %s", topic)
	}
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	err = handler(context.Background(), ports.EventEnvelope{
		EventID:   "evt",
		EventType: topic,
		Data:      payload,
	})
	if err != nil {
		t.Fatalf("handler for %s failed: %v", topic, err)
	}
}

func TestOutboxRelayPublishesAndMarks(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	for _, id := range []string{"evt-1", "evt-2"} {
		err := store.AppendOutbox(ctx, ports.EventEnvelope{
			EventID:   id,
			EventType: commands.TopicVoteCast,
		})
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		BatchSize: 10,
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.published))
	}
	if publisher.published[0].EventID != "evt-1" || publisher.published[1].EventID != "evt-2" {
		t.Fatalf("publish order must follow append order: %+v", publisher.published)
	}

	pending, err := store.ListPendingOutbox(ctx, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("published rows must leave the pending set, got %d", len(pending))
	}
}

func TestTallyProjectionConsumerBuildsReadModel(t *testing.T) {
	store := memory.NewStore()
	subscriber := &recordingSubscriber{}
	consumer := workers.TallyProjectionConsumer{
		Subscriber:  subscriber,
		Projections: store,
	}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}

	subscriber.deliver(t, commands.TopicCandidateAdded, map[string]any{
		"id": 1, "name": "Alpha", "proposal": "plan a",
	})
	subscriber.deliver(t, commands.TopicVoterRegistered, map[string]any{
		"address": "v1", "name": "Vera",
	})
	subscriber.deliver(t, commands.TopicVoterRegistered, map[string]any{
		"address": "v2",
	})
	subscriber.deliver(t, commands.TopicDelegationRecorded, map[string]any{
		"delegator": "v2", "delegatee": "v1",
	})
	subscriber.deliver(t, commands.TopicVoteCast, map[string]any{
		"voter": "v1", "candidate_id": 1,
	})

	ctx := context.Background()
	candidate, err := store.GetCandidateRow(ctx, 1)
	if err != nil {
		t.Fatalf("get candidate row failed: %v", err)
	}
	if candidate.Name != "Alpha" || candidate.Votes != 1 {
		t.Fatalf("unexpected candidate row: %+v", candidate)
	}

	voter, found, err := store.GetVoterRow(ctx, "v1")
	if err != nil || !found {
		t.Fatalf("expected voter row for v1, found=%v err=%v", found, err)
	}
	if voter.VotedFor != 1 {
		t.Fatalf("unexpected voter row: %+v", voter)
	}

	delegator, found, err := store.GetVoterRow(ctx, "v2")
	if err != nil || !found {
		t.Fatalf("expected voter row for v2, found=%v err=%v", found, err)
	}
	if !delegator.HasDelegated || delegator.Delegate != "v1" {
		t.Fatalf("unexpected delegator row: %+v", delegator)
	}
}

func TestDisabledConsumerSubscribesNothing(t *testing.T) {
	subscriber := &recordingSubscriber{}
	consumer := workers.TallyProjectionConsumer{
		Subscriber:  subscriber,
		Projections: memory.NewStore(),
		Disabled:    true,
	}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}
	if len(subscriber.handlers) != 0 {
		t.Fatalf("disabled consumer must not subscribe, got %d subscriptions", len(subscriber.handlers))
	}
}
