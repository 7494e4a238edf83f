// Package repository implements participant directory persistence for
// PostgreSQL and MySQL with transaction support via database.GetTx().
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eventdesk/accessd/internal/database"
	apperrors "github.com/eventdesk/accessd/internal/errors"
	participantDomain "github.com/eventdesk/accessd/internal/participant/domain"
)

// PostgreSQLParticipantRepository implements Participant persistence for PostgreSQL.
type PostgreSQLParticipantRepository struct {
	db *sql.DB
}

// Create inserts a new participant.
func (p *PostgreSQLParticipantRepository) Create(
	ctx context.Context,
	participant *participantDomain.Participant,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO participants (subject_id, email, display_name, created_at)
			  VALUES ($1, $2, $3, $4)`

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
func (p *PostgreSQLParticipantRepository) Get(
	ctx context.Context,
	subjectID string,
) (*participantDomain.Participant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT subject_id, email, display_name, created_at
			  FROM participants WHERE subject_id = $1`

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
func (p *PostgreSQLParticipantRepository) GetEmail(
	ctx context.Context,
	subjectID string,
) (string, error) {
	participant, err := p.Get(ctx, subjectID)
	if err != nil {
		return "", err
	}
	return participant.Email, nil
}

// NewPostgreSQLParticipantRepository creates a new PostgreSQL Participant repository.
func NewPostgreSQLParticipantRepository(db *sql.DB) *PostgreSQLParticipantRepository {
	return &PostgreSQLParticipantRepository{db: db}
}
