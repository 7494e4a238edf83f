// Package repository implements data persistence for access-control entities.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). Auth records and actions profiles store their variable
// parts as JSON columns; sessions and verification tokens are plain rows with
// TTL timestamps checked lazily by the use cases.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	"github.com/eventdesk/accessd/internal/database"
	apperrors "github.com/eventdesk/accessd/internal/errors"
)

// PostgreSQLAuthRecordRepository implements AuthRecord persistence for PostgreSQL.
type PostgreSQLAuthRecordRepository struct {
	db *sql.DB
}

// Get retrieves the auth record for a subject id. Returns ErrRecordNotFound
// if no record exists.
func (p *PostgreSQLAuthRecordRepository) Get(
	ctx context.Context,
	subjectID string,
) (*accessDomain.AuthRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT subject_id, permitted_hosts FROM auth_records WHERE subject_id = $1`

	var (
		record accessDomain.AuthRecord
		hosts  []byte
	)

	err := querier.QueryRowContext(ctx, query, subjectID).Scan(&record.ID, &hosts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get auth record")
	}

	if err := json.Unmarshal(hosts, &record.PermittedHosts); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode permitted hosts")
	}

	return &record, nil
}

// Put stores an auth record, replacing any existing row for the same subject.
func (p *PostgreSQLAuthRecordRepository) Put(
	ctx context.Context,
	record *accessDomain.AuthRecord,
) error {
	querier := database.GetTx(ctx, p.db)

	hosts, err := json.Marshal(record.PermittedHosts)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode permitted hosts")
	}

	query := `INSERT INTO auth_records (subject_id, permitted_hosts)
			  VALUES ($1, $2)
			  ON CONFLICT (subject_id) DO UPDATE SET permitted_hosts = EXCLUDED.permitted_hosts`

	_, err = querier.ExecContext(ctx, query, record.ID, hosts)
	if err != nil {
		return apperrors.Wrap(err, "failed to put auth record")
	}
	return nil
}

// NewPostgreSQLAuthRecordRepository creates a new PostgreSQL AuthRecord repository.
func NewPostgreSQLAuthRecordRepository(db *sql.DB) *PostgreSQLAuthRecordRepository {
	return &PostgreSQLAuthRecordRepository{db: db}
}
