package commands

import (
	"encoding/json"
	"time"

	"pericles/contexts/election-ops/election-ledger/ports"
)

// Notification topics. One event type per mutating ledger operation.
const (
	TopicCandidateAdded     = "election.candidate_added"
	TopicVoterRegistered    = "election.voter_registered"
	TopicElectionStarted    = "election.started"
	TopicDelegationRecorded = "election.delegation_recorded"
	TopicVoteCast           = "election.vote_cast"
	TopicElectionEnded      = "election.ended"
)

func newElectionEnvelope(
	eventID string,
	eventType string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    occurredAt.UTC(),
		SourceService: "election-ledger",
		SchemaVersion: 1,
		PartitionKey:  partitionKey,
		Data:          payload,
	}, nil
}
