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

// MySQLActionsProfileRepository implements ActionsProfile persistence for MySQL.
type MySQLActionsProfileRepository struct {
	db *sql.DB
}

// Get retrieves a profile by name. The stored actions value is normalized via
// DecodeActions. Returns ErrProfileNotFound if absent.
func (m *MySQLActionsProfileRepository) Get(
	ctx context.Context,
	profile string,
) (*accessDomain.ActionsProfile, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT profile, actions FROM actions_profiles WHERE profile = ?`

	var (
		result accessDomain.ActionsProfile
		raw    []byte
	)

	err := querier.QueryRowContext(ctx, query, profile).Scan(&result.Profile, &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get actions profile")
	}

	actions, err := accessDomain.DecodeActions(raw)
	if err != nil {
		return nil, err
	}
	result.Actions = actions

	return &result, nil
}

// Put stores a profile, replacing any existing row with the same name.
func (m *MySQLActionsProfileRepository) Put(
	ctx context.Context,
	profile *accessDomain.ActionsProfile,
) error {
	querier := database.GetTx(ctx, m.db)

	actions, err := json.Marshal(profile.Actions)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode actions")
	}

	query := `INSERT INTO actions_profiles (profile, actions)
			  VALUES (?, ?)
			  ON DUPLICATE KEY UPDATE actions = VALUES(actions)`

	_, err = querier.ExecContext(ctx, query, profile.Profile, actions)
	if err != nil {
		return apperrors.Wrap(err, "failed to put actions profile")
	}
	return nil
}

// NewMySQLActionsProfileRepository creates a new MySQL ActionsProfile repository.
func NewMySQLActionsProfileRepository(db *sql.DB) *MySQLActionsProfileRepository {
	return &MySQLActionsProfileRepository{db: db}
}
