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

// PostgreSQLActionsProfileRepository implements ActionsProfile persistence for PostgreSQL.
type PostgreSQLActionsProfileRepository struct {
	db *sql.DB
}

// Get retrieves a profile by name. The stored actions value is normalized via
// DecodeActions, which accepts both a JSON list and a JSON string encoding a
// list. Returns ErrProfileNotFound if absent.
func (p *PostgreSQLActionsProfileRepository) Get(
	ctx context.Context,
	profile string,
) (*accessDomain.ActionsProfile, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT profile, actions FROM actions_profiles WHERE profile = $1`

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

// Put stores a profile, replacing any existing row with the same name. The
// actions set is written in the canonical list encoding.
func (p *PostgreSQLActionsProfileRepository) Put(
	ctx context.Context,
	profile *accessDomain.ActionsProfile,
) error {
	querier := database.GetTx(ctx, p.db)

	actions, err := json.Marshal(profile.Actions)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode actions")
	}

	query := `INSERT INTO actions_profiles (profile, actions)
			  VALUES ($1, $2)
			  ON CONFLICT (profile) DO UPDATE SET actions = EXCLUDED.actions`

	_, err = querier.ExecContext(ctx, query, profile.Profile, actions)
	if err != nil {
		return apperrors.Wrap(err, "failed to put actions profile")
	}
	return nil
}

// NewPostgreSQLActionsProfileRepository creates a new PostgreSQL ActionsProfile repository.
func NewPostgreSQLActionsProfileRepository(db *sql.DB) *PostgreSQLActionsProfileRepository {
	return &PostgreSQLActionsProfileRepository{db: db}
}
