package ports

import (
	"context"
	"encoding/json"
	"time"
)

// EventEnvelope is the wire shape for election notifications. Field names are
// part of the external contract consumed by subscribers (UI, audit log,
// indexer) and must stay stable.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceService string          `json:"source_service"`
	SchemaVersion int             `json:"schema_version"`
	PartitionKey  string          `json:"partition_key"`
	Data          json.RawMessage `json:"data"`
}

type OutboxMessage struct {
	OutboxID    string
	EventType   string
	Payload     []byte
	Status      string // pending, published
	PublishedAt *time.Time
	CreatedAt   time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, EventEnvelope) error) error
}

// CandidateRow is the indexer read-model projection of one candidate tally.
type CandidateRow struct {
	CandidateID int
	Name        string
	Proposal    string
	Votes       int
	UpdatedAt   time.Time
}

// VoterRow mirrors voter status for dashboards; the authoritative record
// stays inside the ledger aggregate.
type VoterRow struct {
	Address      string
	Name         string
	VotedFor     int
	HasDelegated bool
	Delegate     string
	UpdatedAt    time.Time
}

type ProjectionRepository interface {
	SaveCandidateRow(ctx context.Context, row CandidateRow) error
	GetCandidateRow(ctx context.Context, candidateID int) (CandidateRow, error)
	ListCandidateRows(ctx context.Context) ([]CandidateRow, error)
	SaveVoterRow(ctx context.Context, row VoterRow) error
	GetVoterRow(ctx context.Context, address string) (VoterRow, bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
