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

// MySQLVerificationTokenRepository implements VerificationToken persistence
// for MySQL. Token ids are stored as BINARY(16).
type MySQLVerificationTokenRepository struct {
	db *sql.DB
}

// Put stores a verification token.
func (m *MySQLVerificationTokenRepository) Put(
	ctx context.Context,
	token *accessDomain.VerificationToken,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	query := `INSERT INTO verification_tokens (id, subject_id, hash, host, fingerprint, created_at, ttl)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLVerificationTokenRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*accessDomain.VerificationToken, error) {
	querier := database.GetTx(ctx, m.db)

	binaryID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal token id")
	}

	query := `SELECT id, subject_id, hash, host, fingerprint, created_at, ttl
			  FROM verification_tokens WHERE id = ?`

	var (
		token accessDomain.VerificationToken
		rawID []byte
	)

	err = querier.QueryRowContext(ctx, query, binaryID).Scan(
		&rawID,
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

	token.ID, err = uuid.FromBytes(rawID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}

	return &token, nil
}

// Delete removes a token by id. Deleting an absent token is not an error.
func (m *MySQLVerificationTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	binaryID, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	query := `DELETE FROM verification_tokens WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, binaryID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete verification token")
	}
	return nil
}

// ListBySubject returns every token owned by the subject id.
func (m *MySQLVerificationTokenRepository) ListBySubject(
	ctx context.Context,
	subjectID string,
) ([]*accessDomain.VerificationToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, subject_id, hash, host, fingerprint, created_at, ttl
			  FROM verification_tokens WHERE subject_id = ? ORDER BY created_at`

	rows, err := querier.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list verification tokens")
	}
	defer func() {
		_ = rows.Close()
	}()

	var tokens []*accessDomain.VerificationToken
	for rows.Next() {
		var (
			token accessDomain.VerificationToken
			rawID []byte
		)
		err := rows.Scan(
			&rawID,
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
		token.ID, err = uuid.FromBytes(rawID)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal token id")
		}
		tokens = append(tokens, &token)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate verification tokens")
	}

	return tokens, nil
}

// NewMySQLVerificationTokenRepository creates a new MySQL VerificationToken repository.
func NewMySQLVerificationTokenRepository(db *sql.DB) *MySQLVerificationTokenRepository {
	return &MySQLVerificationTokenRepository{db: db}
}
