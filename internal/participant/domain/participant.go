// Package domain defines the participant directory entities. The directory
// maps subject ids to registered contact details and is the source of truth
// for where verification emails go.
package domain

import (
	"time"

	"github.com/eventdesk/accessd/internal/errors"
)

// ErrParticipantNotFound indicates no participant exists for a subject id.
// A verification handshake cannot start for an unregistered subject.
var ErrParticipantNotFound = errors.Wrap(errors.ErrNotFound, "participant not found")

// Participant is a registered subject with a contact email.
type Participant struct {
	SubjectID   string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}
