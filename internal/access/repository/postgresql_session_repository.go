package repository

import (
	"context"
	"database/sql"
	"errors"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	"github.com/eventdesk/accessd/internal/database"
	apperrors "github.com/eventdesk/accessd/internal/errors"
)

// PostgreSQLSessionRepository implements Session persistence for PostgreSQL.
// Sessions are keyed by the composite (subject_id, fingerprint).
type PostgreSQLSessionRepository struct {
	db *sql.DB
}

// Get retrieves the session for (subject id, fingerprint). Returns
// ErrSessionNotFound if absent. Expiry is not checked here; callers compare
// the TTL themselves.
func (p *PostgreSQLSessionRepository) Get(
	ctx context.Context,
	subjectID, fingerprint string,
) (*accessDomain.Session, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT subject_id, fingerprint, ttl FROM sessions
			  WHERE subject_id = $1 AND fingerprint = $2`

	var session accessDomain.Session

	err := querier.QueryRowContext(ctx, query, subjectID, fingerprint).Scan(
		&session.SubjectID,
		&session.Fingerprint,
		&session.TTL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrSessionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get session")
	}

	return &session, nil
}

// Put stores a session, replacing any existing row for the same key.
func (p *PostgreSQLSessionRepository) Put(
	ctx context.Context,
	session *accessDomain.Session,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO sessions (subject_id, fingerprint, ttl)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (subject_id, fingerprint) DO UPDATE SET ttl = EXCLUDED.ttl`

	_, err := querier.ExecContext(ctx, query, session.SubjectID, session.Fingerprint, session.TTL)
	if err != nil {
		return apperrors.Wrap(err, "failed to put session")
	}
	return nil
}

// Delete removes the session for (subject id, fingerprint). Deleting an
// absent session is not an error.
func (p *PostgreSQLSessionRepository) Delete(
	ctx context.Context,
	subjectID, fingerprint string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM sessions WHERE subject_id = $1 AND fingerprint = $2`

	_, err := querier.ExecContext(ctx, query, subjectID, fingerprint)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete session")
	}
	return nil
}

// NewPostgreSQLSessionRepository creates a new PostgreSQL Session repository.
func NewPostgreSQLSessionRepository(db *sql.DB) *PostgreSQLSessionRepository {
	return &PostgreSQLSessionRepository{db: db}
}
