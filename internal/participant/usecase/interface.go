// Package usecase defines the participant directory contracts.
package usecase

import (
	"context"

	participantDomain "github.com/eventdesk/accessd/internal/participant/domain"
)

// ParticipantRepository defines persistence for registered participants.
// Creation happens through the administrative CLI; the coordinator only reads.
type ParticipantRepository interface {
	// Create inserts a new participant. The subject id must be unique.
	Create(ctx context.Context, participant *participantDomain.Participant) error

	// Get retrieves a participant by subject id.
	// Returns ErrParticipantNotFound if absent.
	Get(ctx context.Context, subjectID string) (*participantDomain.Participant, error)

	// GetEmail returns the registered email for a subject id.
	GetEmail(ctx context.Context, subjectID string) (string, error)
}
