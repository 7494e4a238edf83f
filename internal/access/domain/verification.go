package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationToken is the single-use server-side record behind a verification
// email link. At most one token is live per subject at a time: the coordinator
// deletes every token owned by a subject before creating a new one. The token
// is deleted on successful callback before the session is created.
type VerificationToken struct {
	ID          uuid.UUID
	SubjectID   string
	Hash        string
	Host        string
	Fingerprint string
	CreatedAt   time.Time
	TTL         time.Time
}

// IsExpired reports whether the token's TTL has passed at the given instant.
func (t *VerificationToken) IsExpired(now time.Time) bool {
	return !t.TTL.After(now)
}

// MatchCallback checks the callback request fields against the stored token.
// Every field must match exactly; the first mismatch is reported with its
// field-specific error so callers can distinguish a stale link from a replay
// attempt on another device.
func (t *VerificationToken) MatchCallback(hash, host, fingerprint string) error {
	if t.Hash != hash {
		return ErrVerificationHashMismatch
	}
	if t.Host != host {
		return ErrVerificationHostMismatch
	}
	if t.Fingerprint != fingerprint {
		return ErrVerificationFingerprintMismatch
	}
	return nil
}
