package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "pericles/contexts/election-ops/election-ledger/domain/errors"
	"pericles/contexts/election-ops/election-ledger/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	seq       uint64
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory adapter behind the outbox and projection ports. It
// doubles as Clock and IDGenerator for in-memory wiring and tests.
type Store struct {
	mu sync.RWMutex

	nextSeq    uint64
	outbox     map[string]outboxRecord
	candidates map[int]ports.CandidateRow
	voters     map[string]ports.VoterRow
}

func NewStore() *Store {
	return &Store{
		outbox:     make(map[string]outboxRecord),
		candidates: make(map[int]ports.CandidateRow),
		voters:     make(map[string]ports.VoterRow),
	}
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	s.outbox[event.EventID] = outboxRecord{
		seq: s.nextSeq,
		message: ports.OutboxMessage{
			OutboxID:  event.EventID,
			EventType: event.EventType,
			Payload:   payload,
			Status:    "pending",
			CreatedAt: time.Now().UTC(),
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]outboxRecord, 0, len(s.outbox))
	for _, record := range s.outbox {
		if !record.published {
			records = append(records, record)
		}
	}
	// Append order is the notification order the ledger established; preserve it.
	sort.Slice(records, func(i, j int) bool {
		return records[i].seq < records[j].seq
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	pending := make([]ports.OutboxMessage, 0, len(records))
	for _, record := range records {
		pending = append(pending, record.message)
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrOutboxNotFound
	}
	record.published = true
	record.message.Status = "published"
	published := publishedAt.UTC()
	record.message.PublishedAt = &published
	s.outbox[strings.TrimSpace(outboxID)] = record
	return nil
}

func (s *Store) SaveCandidateRow(_ context.Context, row ports.CandidateRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[row.CandidateID] = row
	return nil
}

func (s *Store) GetCandidateRow(_ context.Context, candidateID int) (ports.CandidateRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.candidates[candidateID]
	if !ok {
		return ports.CandidateRow{}, domainerrors.ErrCandidateRowNotFound
	}
	return row, nil
}

func (s *Store) ListCandidateRows(_ context.Context) ([]ports.CandidateRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]ports.CandidateRow, 0, len(s.candidates))
	for _, row := range s.candidates {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CandidateID < rows[j].CandidateID
	})
	return rows, nil
}

func (s *Store) SaveVoterRow(_ context.Context, row ports.VoterRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voters[strings.TrimSpace(row.Address)] = row
	return nil
}

func (s *Store) GetVoterRow(_ context.Context, address string) (ports.VoterRow, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.voters[strings.TrimSpace(address)]
	return row, ok, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
