package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eventdesk/accessd/internal/database"
	apperrors "github.com/eventdesk/accessd/internal/errors"
	participantDomain "github.com/eventdesk/accessd/internal/participant/domain"
)

// MySQLParticipantRepository implements Participant persistence for MySQL.
type MySQLParticipantRepository struct {
	db *sql.DB
}

// Create inserts a new participant.
func (m *MySQLParticipantRepository) Create(
	ctx context.Context,
	participant *participantDomain.Participant,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO participants (subject_id, email, display_name, created_at)
			  VALUES (?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		participant.SubjectID,
		participant.Email,
		participant.DisplayName,
		participant.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create participant")
	}
	return nil
}

// Get retrieves a participant by subject id. Returns ErrParticipantNotFound
// if the subject is unknown.
func (m *MySQLParticipantRepository) Get(
	ctx context.Context,
	subjectID string,
) (*participantDomain.Participant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT subject_id, email, display_name, created_at
			  FROM participants WHERE subject_id = ?`

	var participant participantDomain.Participant

	err := querier.QueryRowContext(ctx, query, subjectID).Scan(
		&participant.SubjectID,
		&participant.Email,
		&participant.DisplayName,
		&participant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, participantDomain.ErrParticipantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get participant")
	}

	return &participant, nil
}

// GetEmail returns the registered email for a subject id.
func (m *MySQLParticipantRepository) GetEmail(
	ctx context.Context,
	subjectID string,
) (string, error) {
	participant, err := m.Get(ctx, subjectID)
	if err != nil {
		return "", err
	}
	return participant.Email, nil
}

// NewMySQLParticipantRepository creates a new MySQL Participant repository.
func NewMySQLParticipantRepository(db *sql.DB) *MySQLParticipantRepository {
	return &MySQLParticipantRepository{db: db}
}
