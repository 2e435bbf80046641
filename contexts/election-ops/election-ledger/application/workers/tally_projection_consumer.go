package workers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "pericles/contexts/election-ops/election-ledger/application"
	"pericles/contexts/election-ops/election-ledger/application/commands"
	domainerrors "pericles/contexts/election-ops/election-ledger/domain/errors"
	"pericles/contexts/election-ops/election-ledger/ports"
)

const defaultProjectionCG = "election-ledger-projection-cg"

type candidateAddedPayload struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Proposal string `json:"proposal"`
}

type voterRegisteredPayload struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type delegationRecordedPayload struct {
	Delegator string `json:"delegator"`
	Delegatee string `json:"delegatee"`
}

type voteCastPayload struct {
	Voter       string `json:"voter"`
	CandidateID int    `json:"candidate_id"`
}

// TallyProjectionConsumer maintains the candidate/voter read-model rows that
// feed the indexer and audit endpoints. It is a pure follower of the
// notification stream; the ledger aggregate stays authoritative.
type TallyProjectionConsumer struct {
	Subscriber    ports.EventSubscriber
	Projections   ports.ProjectionRepository
	Clock         ports.Clock
	ConsumerGroup string
	Disabled      bool
	Logger        *slog.Logger
}

// Start subscribes the projection to every election notification topic. The
// consumer group can be overridden for environment-specific deployment.
func (c TallyProjectionConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	if c.Disabled {
		logger.Info("tally projection consumer disabled by feature flag",
			"event", "election_projection_disabled",
			"module", "election-ops/election-ledger",
			"layer", "worker",
		)
		return nil
	}
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultProjectionCG
	}
	subscriptions := map[string]func(context.Context, ports.EventEnvelope) error{
		commands.TopicCandidateAdded:     c.handleCandidateAdded,
		commands.TopicVoterRegistered:    c.handleVoterRegistered,
		commands.TopicDelegationRecorded: c.handleDelegationRecorded,
		commands.TopicVoteCast:           c.handleVoteCast,
	}
	for topic, handler := range subscriptions {
		if err := c.Subscriber.Subscribe(ctx, topic, group, handler); err != nil {
			logger.Error("tally projection subscribe failed",
				"event", "election_projection_subscribe_failed",
				"module", "election-ops/election-ledger",
				"layer", "worker",
				"topic", topic,
				"consumer_group", group,
				"error", err.Error(),
			)
			return err
		}
	}
	logger.Info("tally projection subscriptions active",
		"event", "election_projection_started",
		"module", "election-ops/election-ledger",
		"layer", "worker",
		"consumer_group", group,
	)
	return nil
}

func (c TallyProjectionConsumer) handleCandidateAdded(ctx context.Context, event ports.EventEnvelope) error {
	var payload candidateAddedPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}
	return c.Projections.SaveCandidateRow(ctx, ports.CandidateRow{
		CandidateID: payload.ID,
		Name:        payload.Name,
		Proposal:    payload.Proposal,
		Votes:       0,
		UpdatedAt:   c.now(),
	})
}

func (c TallyProjectionConsumer) handleVoterRegistered(ctx context.Context, event ports.EventEnvelope) error {
	var payload voterRegisteredPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}
	return c.Projections.SaveVoterRow(ctx, ports.VoterRow{
		Address:   payload.Address,
		Name:      payload.Name,
		UpdatedAt: c.now(),
	})
}

func (c TallyProjectionConsumer) handleDelegationRecorded(ctx context.Context, event ports.EventEnvelope) error {
	var payload delegationRecordedPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}
	row, found, err := c.Projections.GetVoterRow(ctx, payload.Delegator)
	if err != nil {
		return err
	}
	if !found {
		row = ports.VoterRow{Address: payload.Delegator}
	}
	row.HasDelegated = true
	row.Delegate = payload.Delegatee
	row.UpdatedAt = c.now()
	return c.Projections.SaveVoterRow(ctx, row)
}

func (c TallyProjectionConsumer) handleVoteCast(ctx context.Context, event ports.EventEnvelope) error {
	var payload voteCastPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}
	row, err := c.Projections.GetCandidateRow(ctx, payload.CandidateID)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrCandidateRowNotFound) {
			return err
		}
		row = ports.CandidateRow{CandidateID: payload.CandidateID}
	}
	row.Votes++
	row.UpdatedAt = c.now()
	if err := c.Projections.SaveCandidateRow(ctx, row); err != nil {
		return err
	}

	voter, found, err := c.Projections.GetVoterRow(ctx, payload.Voter)
	if err != nil {
		return err
	}
	if !found {
		voter = ports.VoterRow{Address: payload.Voter}
	}
	voter.VotedFor = payload.CandidateID
	voter.UpdatedAt = c.now()
	return c.Projections.SaveVoterRow(ctx, voter)
}

func (c TallyProjectionConsumer) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
