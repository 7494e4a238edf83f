package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	accessUseCase "github.com/eventdesk/accessd/internal/access/usecase"
	"github.com/eventdesk/accessd/internal/database"
)

// RunCreateAuthRecord creates or replaces the auth record for a subject id.
// The permitted hosts are given as a JSON list of {host, actionsProfile}
// entries. Every referenced actions profile must already exist; the check and
// the write run in one transaction so a record never lands pointing at a
// profile that was deleted in between.
//
// Use the subject id "default" to write the shared fallback record.
func RunCreateAuthRecord(
	ctx context.Context,
	txManager database.TxManager,
	recordRepo accessUseCase.AuthRecordRepository,
	profileRepo accessUseCase.ActionsProfileRepository,
	logger *slog.Logger,
	subjectID string,
	permittedHostsJSON string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating auth record", slog.String("subject_id", subjectID))

	if subjectID == "" {
		return fmt.Errorf("subject id is required")
	}

	var permittedHosts []accessDomain.PermittedHost
	if err := json.Unmarshal([]byte(permittedHostsJSON), &permittedHosts); err != nil {
		return fmt.Errorf("failed to parse permitted hosts JSON: %w", err)
	}

	if len(permittedHosts) == 0 {
		return fmt.Errorf("at least one permitted host is required")
	}

	record := &accessDomain.AuthRecord{
		ID:             subjectID,
		PermittedHosts: permittedHosts,
	}

	err := txManager.WithTx(ctx, func(ctx context.Context) error {
		for _, permitted := range permittedHosts {
			if permitted.Host == "" || permitted.ActionsProfile == "" {
				return fmt.Errorf("permitted host entries need both host and actionsProfile")
			}
			if _, err := profileRepo.Get(ctx, permitted.ActionsProfile); err != nil {
				return fmt.Errorf("actions profile %q: %w", permitted.ActionsProfile, err)
			}
		}
		return recordRepo.Put(ctx, record)
	})
	if err != nil {
		return fmt.Errorf("failed to create auth record: %w", err)
	}

	if format == "json" {
		outputJSON(record, io.Writer)
	} else {
		outputKeyValue(io.Writer, "subject_id", record.ID)
		for _, permitted := range record.PermittedHosts {
			outputKeyValue(io.Writer, "host", fmt.Sprintf("%s (%s)", permitted.Host, permitted.ActionsProfile))
		}
	}

	logger.Info("auth record created successfully",
		slog.String("subject_id", subjectID),
		slog.Int("permitted_hosts", len(permittedHosts)),
	)

	return nil
}
