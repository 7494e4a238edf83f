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

// MySQLAuthRecordRepository implements AuthRecord persistence for MySQL.
type MySQLAuthRecordRepository struct {
	db *sql.DB
}

// Get retrieves the auth record for a subject id. Returns ErrRecordNotFound
// if no record exists.
func (m *MySQLAuthRecordRepository) Get(
	ctx context.Context,
	subjectID string,
) (*accessDomain.AuthRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT subject_id, permitted_hosts FROM auth_records WHERE subject_id = ?`

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
func (m *MySQLAuthRecordRepository) Put(
	ctx context.Context,
	record *accessDomain.AuthRecord,
) error {
	querier := database.GetTx(ctx, m.db)

	hosts, err := json.Marshal(record.PermittedHosts)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode permitted hosts")
	}

	query := `INSERT INTO auth_records (subject_id, permitted_hosts)
			  VALUES (?, ?)
			  ON DUPLICATE KEY UPDATE permitted_hosts = VALUES(permitted_hosts)`

	_, err = querier.ExecContext(ctx, query, record.ID, hosts)
	if err != nil {
		return apperrors.Wrap(err, "failed to put auth record")
	}
	return nil
}

// NewMySQLAuthRecordRepository creates a new MySQL AuthRecord repository.
func NewMySQLAuthRecordRepository(db *sql.DB) *MySQLAuthRecordRepository {
	return &MySQLAuthRecordRepository{db: db}
}
