package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "pericles/contexts/election-ops/election-ledger/domain/errors"
	"pericles/contexts/election-ops/election-ledger/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository is the durable side of the notification contract: the outbox
// rows the relay drains and the candidate/voter read-model rows the
// projection consumer maintains.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Migrate creates or updates the election tables owned by this adapter.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&outboxModel{}, &candidateModel{}, &voterModel{})
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) AppendOutbox(ctx context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	row := outboxModel{
		ID:        strings.TrimSpace(event.EventID),
		EventType: event.EventType,
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			// Same event id appended twice means the envelope already exists;
			// the relay will publish the stored copy.
			return nil
		}
		return r.logError("election_repo_append_outbox_failed", err,
			"event_id", row.ID,
			"event_type", row.EventType,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_outbox_failed", err, "limit", limit)
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, row.toMessage())
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	published := publishedAt.UTC()
	tx := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &published,
		})
	if tx.Error != nil {
		return r.logError("election_repo_mark_published_failed", tx.Error, "outbox_id", strings.TrimSpace(outboxID))
	}
	if tx.RowsAffected == 0 {
		return domainerrors.ErrOutboxNotFound
	}
	return nil
}

func (r *Repository) SaveCandidateRow(ctx context.Context, row ports.CandidateRow) error {
	model := candidateModelFromRow(row)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "candidate_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":       model.Name,
			"proposal":   model.Proposal,
			"votes":      model.Votes,
			"updated_at": model.UpdatedAt,
		}),
	}).Create(&model).Error
	if err != nil {
		return r.logError("election_repo_save_candidate_failed", err, "candidate_id", row.CandidateID)
	}
	return nil
}

func (r *Repository) GetCandidateRow(ctx context.Context, candidateID int) (ports.CandidateRow, error) {
	var model candidateModel
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		First(&model).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CandidateRow{}, domainerrors.ErrCandidateRowNotFound
		}
		return ports.CandidateRow{}, r.logError("election_repo_get_candidate_failed", err, "candidate_id", candidateID)
	}
	return model.toRow(), nil
}

func (r *Repository) ListCandidateRows(ctx context.Context) ([]ports.CandidateRow, error) {
	var models []candidateModel
	err := r.db.WithContext(ctx).
		Order("candidate_id ASC").
		Find(&models).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_candidates_failed", err)
	}
	rows := make([]ports.CandidateRow, 0, len(models))
	for _, model := range models {
		rows = append(rows, model.toRow())
	}
	return rows, nil
}

func (r *Repository) SaveVoterRow(ctx context.Context, row ports.VoterRow) error {
	model := voterModelFromRow(row)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":          model.Name,
			"voted_for":     model.VotedFor,
			"has_delegated": model.HasDelegated,
			"delegate":      model.Delegate,
			"updated_at":    model.UpdatedAt,
		}),
	}).Create(&model).Error
	if err != nil {
		return r.logError("election_repo_save_voter_failed", err, "address", row.Address)
	}
	return nil
}

func (r *Repository) GetVoterRow(ctx context.Context, address string) (ports.VoterRow, bool, error) {
	var model voterModel
	err := r.db.WithContext(ctx).
		Where("address = ?", strings.TrimSpace(address)).
		First(&model).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.VoterRow{}, false, nil
		}
		return ports.VoterRow{}, false, r.logError("election_repo_get_voter_failed", err, "address", strings.TrimSpace(address))
	}
	return model.toRow(), true, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "election-ops/election-ledger",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// SystemClock satisfies ports.Clock with wall-clock time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator satisfies ports.IDGenerator with random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type outboxModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	PublishedAt *time.Time `gorm:"column:published_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (outboxModel) TableName() string {
	return "election_outbox"
}

func (m outboxModel) toMessage() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:    m.ID,
		EventType:   m.EventType,
		Payload:     m.Payload,
		Status:      m.Status,
		PublishedAt: m.PublishedAt,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type candidateModel struct {
	CandidateID int       `gorm:"column:candidate_id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Proposal    string    `gorm:"column:proposal"`
	Votes       int       `gorm:"column:votes"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (candidateModel) TableName() string {
	return "election_candidates"
}

func candidateModelFromRow(row ports.CandidateRow) candidateModel {
	model := candidateModel{
		CandidateID: row.CandidateID,
		Name:        row.Name,
		Proposal:    row.Proposal,
		Votes:       row.Votes,
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = time.Now().UTC()
	}
	return model
}

func (m candidateModel) toRow() ports.CandidateRow {
	return ports.CandidateRow{
		CandidateID: m.CandidateID,
		Name:        m.Name,
		Proposal:    m.Proposal,
		Votes:       m.Votes,
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type voterModel struct {
	Address      string    `gorm:"column:address;primaryKey"`
	Name         string    `gorm:"column:name"`
	VotedFor     int       `gorm:"column:voted_for"`
	HasDelegated bool      `gorm:"column:has_delegated"`
	Delegate     string    `gorm:"column:delegate"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (voterModel) TableName() string {
	return "election_voters"
}

func voterModelFromRow(row ports.VoterRow) voterModel {
	model := voterModel{
		Address:      strings.TrimSpace(row.Address),
		Name:         row.Name,
		VotedFor:     row.VotedFor,
		HasDelegated: row.HasDelegated,
		Delegate:     strings.TrimSpace(row.Delegate),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = time.Now().UTC()
	}
	return model
}

func (m voterModel) toRow() ports.VoterRow {
	return ports.VoterRow{
		Address:      m.Address,
		Name:         m.Name,
		VotedFor:     m.VotedFor,
		HasDelegated: m.HasDelegated,
		Delegate:     m.Delegate,
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}
