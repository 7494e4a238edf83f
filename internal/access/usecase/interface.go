// Package usecase implements the access-control coordination logic: the
// authorization state machine and the verification-email handshake.
package usecase

import (
	"context"

	"github.com/google/uuid"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
)

// AuthRecordRepository defines read access to per-subject auth records.
// Records are written by the administrative tooling, never by the coordinator.
type AuthRecordRepository interface {
	// Get retrieves the auth record for a subject id.
	// Returns ErrRecordNotFound if no record exists.
	Get(ctx context.Context, subjectID string) (*accessDomain.AuthRecord, error)

	// Put stores an auth record. Used by the administrative CLI only.
	Put(ctx context.Context, record *accessDomain.AuthRecord) error
}

// ActionsProfileRepository defines read access to named actions profiles.
type ActionsProfileRepository interface {
	// Get retrieves a profile by name, normalizing the stored actions value.
	// Returns ErrProfileNotFound if absent, ErrProfileInvalidFormat if the
	// stored value is neither a list nor a JSON-encoded string list.
	Get(ctx context.Context, profile string) (*accessDomain.ActionsProfile, error)

	// Put stores a profile. Used by the administrative CLI only.
	Put(ctx context.Context, profile *accessDomain.ActionsProfile) error
}

// SessionRepository defines persistence for device-bound sessions, keyed by
// the composite (subject id, fingerprint).
type SessionRepository interface {
	// Get retrieves the session for (subject id, fingerprint).
	// Returns ErrSessionNotFound if absent.
	Get(ctx context.Context, subjectID, fingerprint string) (*accessDomain.Session, error)

	// Put stores a session, replacing any existing row for the same key.
	Put(ctx context.Context, session *accessDomain.Session) error

	// Delete removes the session for (subject id, fingerprint).
	// Deleting an absent session is not an error.
	Delete(ctx context.Context, subjectID, fingerprint string) error
}

// VerificationTokenRepository defines persistence for one-time verification
// tokens, keyed by token id with a queryable subject-id attribute.
type VerificationTokenRepository interface {
	// Put stores a verification token.
	Put(ctx context.Context, token *accessDomain.VerificationToken) error

	// Get retrieves a token by id. Returns ErrVerificationTokenNotFound if absent.
	Get(ctx context.Context, id uuid.UUID) (*accessDomain.VerificationToken, error)

	// Delete removes a token by id. Deleting an absent token is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListBySubject returns every token owned by the subject id.
	ListBySubject(ctx context.Context, subjectID string) ([]*accessDomain.VerificationToken, error)
}

// ParticipantDirectory resolves a subject id to its registered contact email.
type ParticipantDirectory interface {
	// GetEmail returns the registered email for a subject id.
	// Returns ErrParticipantNotFound if the subject is unknown.
	GetEmail(ctx context.Context, subjectID string) (string, error)
}

// NotificationSender delivers the one-time verification link out of band.
type NotificationSender interface {
	// Send delivers a verification email carrying the callback URL.
	// The location string is a human-readable request-origin hint.
	Send(ctx context.Context, email, callbackURL, location string) error
}

// GeoResolver resolves a client IP to a human-readable location, best effort.
type GeoResolver interface {
	// Resolve returns a location description for the IP. Implementations may
	// fail freely; callers fall back to an unknown-location placeholder.
	Resolve(ctx context.Context, ip string) (string, error)
}

// AccessUseCase is the coordinator's full surface: the authorization state
// machine plus the two verification-handshake operations.
type AccessUseCase interface {
	// Authorize decides whether the caller is authenticated for the requested
	// operation, issuing or refreshing capability tokens as needed. Returns a
	// Decision on the authenticated and needs-verification paths; failures
	// are typed domain errors.
	Authorize(ctx context.Context, input *accessDomain.AuthorizeInput) (*accessDomain.Decision, error)

	// SendVerification starts the email handshake: validates the host/hash
	// binding, creates a fresh verification token (deleting any prior ones
	// for the subject), and delivers the callback link.
	SendVerification(ctx context.Context, input *accessDomain.SendVerificationInput) error

	// CallbackVerification completes the handshake: validates the presented
	// token against its stored fields, deletes it, creates a session, and
	// issues a full-profile capability token.
	CallbackVerification(
		ctx context.Context,
		input *accessDomain.CallbackVerificationInput,
	) (*accessDomain.Decision, error)
}
