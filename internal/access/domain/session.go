package domain

import "time"

// Session records that a subject completed the verification handshake on a
// specific device. Keyed by the composite (subject id, fingerprint), so a
// subject holds one session per device. Sessions are never refreshed; a new token is
// issued on use instead, and expired rows are deleted lazily on the next
// access attempt.
type Session struct {
	SubjectID   string
	Fingerprint string
	TTL         time.Time
}

// IsValid reports whether the session is still live at the given instant.
// Validity is exactly ttl > now.
func (s *Session) IsValid(now time.Time) bool {
	return s.TTL.After(now)
}
