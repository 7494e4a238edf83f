package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	"github.com/eventdesk/accessd/internal/database"
	apperrors "github.com/eventdesk/accessd/internal/errors"
)

// PostgreSQLVerificationTokenRepository implements VerificationToken
// persistence for PostgreSQL. Tokens are keyed by id with a queryable
// subject_id column for the one-handshake-per-subject cleanup.
type PostgreSQLVerificationTokenRepository struct {
	db *sql.DB
}

// Put stores a verification token.
func (p *PostgreSQLVerificationTokenRepository) Put(
	ctx context.Context,
	token *accessDomain.VerificationToken,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO verification_tokens (id, subject_id, hash, host, fingerprint, created_at, ttl)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.SubjectID,
		token.Hash,
		token.Host,
		token.Fingerprint,
		token.CreatedAt,
		token.TTL,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to put verification token")
	}
	return nil
}

// Get retrieves a token by id. Returns ErrVerificationTokenNotFound if absent.
func (p *PostgreSQLVerificationTokenRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*accessDomain.VerificationToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, subject_id, hash, host, fingerprint, created_at, ttl
			  FROM verification_tokens WHERE id = $1`

	var token accessDomain.VerificationToken

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&token.ID,
		&token.SubjectID,
		&token.Hash,
		&token.Host,
		&token.Fingerprint,
		&token.CreatedAt,
		&token.TTL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrVerificationTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get verification token")
	}

	return &token, nil
}

// Delete removes a token by id. Deleting an absent token is not an error.
func (p *PostgreSQLVerificationTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM verification_tokens WHERE id = $1`

	_, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete verification token")
	}
	return nil
}

// ListBySubject returns every token owned by the subject id.
func (p *PostgreSQLVerificationTokenRepository) ListBySubject(
	ctx context.Context,
	subjectID string,
) ([]*accessDomain.VerificationToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, subject_id, hash, host, fingerprint, created_at, ttl
			  FROM verification_tokens WHERE subject_id = $1 ORDER BY created_at`

	rows, err := querier.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list verification tokens")
	}
	defer func() {
		_ = rows.Close()
	}()

	var tokens []*accessDomain.VerificationToken
	for rows.Next() {
		var token accessDomain.VerificationToken
		err := rows.Scan(
			&token.ID,
			&token.SubjectID,
			&token.Hash,
			&token.Host,
			&token.Fingerprint,
			&token.CreatedAt,
			&token.TTL,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan verification token")
		}
		tokens = append(tokens, &token)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate verification tokens")
	}

	return tokens, nil
}

// NewPostgreSQLVerificationTokenRepository creates a new PostgreSQL
// VerificationToken repository.
func NewPostgreSQLVerificationTokenRepository(db *sql.DB) *PostgreSQLVerificationTokenRepository {
	return &PostgreSQLVerificationTokenRepository{db: db}
}
