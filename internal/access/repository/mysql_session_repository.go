package repository

import (
	"context"
	"database/sql"
	"errors"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	"github.com/eventdesk/accessd/internal/database"
	apperrors "github.com/eventdesk/accessd/internal/errors"
)

// MySQLSessionRepository implements Session persistence for MySQL.
type MySQLSessionRepository struct {
	db *sql.DB
}

// Get retrieves the session for (subject id, fingerprint). Returns
// ErrSessionNotFound if absent.
func (m *MySQLSessionRepository) Get(
	ctx context.Context,
	subjectID, fingerprint string,
) (*accessDomain.Session, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT subject_id, fingerprint, ttl FROM sessions
			  WHERE subject_id = ? AND fingerprint = ?`

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
func (m *MySQLSessionRepository) Put(
	ctx context.Context,
	session *accessDomain.Session,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO sessions (subject_id, fingerprint, ttl)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE ttl = VALUES(ttl)`

	_, err := querier.ExecContext(ctx, query, session.SubjectID, session.Fingerprint, session.TTL)
	if err != nil {
		return apperrors.Wrap(err, "failed to put session")
	}
	return nil
}

// Delete removes the session for (subject id, fingerprint). Deleting an
// absent session is not an error.
func (m *MySQLSessionRepository) Delete(
	ctx context.Context,
	subjectID, fingerprint string,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM sessions WHERE subject_id = ? AND fingerprint = ?`

	_, err := querier.ExecContext(ctx, query, subjectID, fingerprint)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete session")
	}
	return nil
}

// NewMySQLSessionRepository creates a new MySQL Session repository.
func NewMySQLSessionRepository(db *sql.DB) *MySQLSessionRepository {
	return &MySQLSessionRepository{db: db}
}
