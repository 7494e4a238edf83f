package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	accessUseCase "github.com/eventdesk/accessd/internal/access/usecase"
)

// RunCreateProfile creates or replaces a named actions profile. Actions are
// given as a JSON list of operation strings; duplicates are dropped.
func RunCreateProfile(
	ctx context.Context,
	profileRepo accessUseCase.ActionsProfileRepository,
	logger *slog.Logger,
	name string,
	actionsJSON string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating actions profile", slog.String("profile", name))

	if name == "" {
		return fmt.Errorf("profile name is required")
	}

	actions, err := accessDomain.DecodeActions([]byte(actionsJSON))
	if err != nil {
		return fmt.Errorf("failed to parse actions JSON: %w", err)
	}

	if len(actions) == 0 {
		return fmt.Errorf("at least one action is required")
	}

	profile := &accessDomain.ActionsProfile{
		Profile: name,
		Actions: actions,
	}

	if err := profileRepo.Put(ctx, profile); err != nil {
		return fmt.Errorf("failed to create actions profile: %w", err)
	}

	if format == "json" {
		outputJSON(profile, io.Writer)
	} else {
		outputKeyValue(io.Writer, "profile", profile.Profile)
		outputKeyValue(io.Writer, "actions", strings.Join(profile.Actions, ", "))
	}

	logger.Info("actions profile created successfully",
		slog.String("profile", name),
		slog.Int("actions", len(actions)),
	)

	return nil
}
