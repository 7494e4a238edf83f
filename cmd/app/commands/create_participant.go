package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	participantDomain "github.com/eventdesk/accessd/internal/participant/domain"
	participantUseCase "github.com/eventdesk/accessd/internal/participant/usecase"
	customValidation "github.com/eventdesk/accessd/internal/validation"
)

// RunCreateParticipant registers a participant so verification emails can be
// delivered for its subject id.
func RunCreateParticipant(
	ctx context.Context,
	participantRepo participantUseCase.ParticipantRepository,
	logger *slog.Logger,
	subjectID string,
	email string,
	displayName string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating participant", slog.String("subject_id", subjectID))

	if subjectID == "" {
		return fmt.Errorf("subject id is required")
	}

	if err := customValidation.Email.Validate(email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	participant := &participantDomain.Participant{
		SubjectID:   subjectID,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}

	if err := participantRepo.Create(ctx, participant); err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}

	if format == "json" {
		outputJSON(participant, io.Writer)
	} else {
		outputKeyValue(io.Writer, "subject_id", participant.SubjectID)
		outputKeyValue(io.Writer, "email", participant.Email)
	}

	logger.Info("participant created successfully",
		slog.String("subject_id", subjectID),
	)

	return nil
}
