package domain

import (
	"github.com/eventdesk/accessd/internal/errors"
)

// Request and authorization errors. Each error is a distinct value so callers
// can pattern-match the exact failure, while the wrapped base sentinel decides
// the HTTP status class.
var (
	// ErrMissingParameters indicates one of the required request fields
	// (subject id, hash, host, fingerprint, operation) is empty.
	ErrMissingParameters = errors.Wrap(errors.ErrInvalidInput, "missing required parameters")

	// ErrUnknownHost indicates the requested host is not in the host registry.
	// Fatal for the request, not retryable with the same inputs.
	ErrUnknownHost = errors.Wrap(errors.ErrUnauthorized, "unknown host")

	// ErrBadHash indicates the supplied hash does not match the recomputed
	// HMAC for the host's secret.
	ErrBadHash = errors.Wrap(errors.ErrUnauthorized, "hash mismatch")

	// ErrInvalidKeyFormat indicates a host secret that is not a 64-hex-character key.
	ErrInvalidKeyFormat = errors.Wrap(errors.ErrConfig, "invalid hmac key format")

	// ErrHostNotPermitted indicates the subject's auth record does not list the host.
	ErrHostNotPermitted = errors.Wrap(errors.ErrForbidden, "host not permitted for subject")

	// ErrOperationNotAllowed indicates the operation is absent from the
	// host's actions profile.
	ErrOperationNotAllowed = errors.Wrap(errors.ErrForbidden, "operation not allowed")

	// ErrRecordNotFound indicates no auth record exists for a subject id.
	// Lookups fall back to the default record before surfacing a failure.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "auth record not found")

	// ErrNoDefaultRecord indicates the shared default auth record is missing.
	// This is a deployment configuration error, not a per-user failure.
	ErrNoDefaultRecord = errors.Wrap(errors.ErrConfig, "default auth record not found")

	// ErrProfileNotFound indicates the named actions profile does not exist.
	ErrProfileNotFound = errors.Wrap(errors.ErrNotFound, "actions profile not found")

	// ErrProfileInvalidFormat indicates a stored actions value that is neither
	// a list nor a JSON-encoded string list.
	ErrProfileInvalidFormat = errors.Wrap(errors.ErrConfig, "actions profile has invalid format")

	// ErrSessionNotFound indicates no session exists for (subject id, fingerprint).
	ErrSessionNotFound = errors.Wrap(errors.ErrNotFound, "session not found")
)

// Capability token verification errors. Verification checks claims in a fixed
// order and reports the first failure; none of these abort the request. The
// coordinator treats them as "token invalid" and falls through to the slow path.
var (
	ErrTokenSignatureInvalid    = errors.Wrap(errors.ErrUnauthorized, "token signature invalid")
	ErrTokenExpired             = errors.Wrap(errors.ErrUnauthorized, "token expired")
	ErrTokenIssuerMismatch      = errors.Wrap(errors.ErrUnauthorized, "token issuer mismatch")
	ErrTokenVersionMismatch     = errors.Wrap(errors.ErrUnauthorized, "token version mismatch")
	ErrTokenTypeMismatch        = errors.Wrap(errors.ErrUnauthorized, "token type mismatch")
	ErrTokenFingerprintMismatch = errors.Wrap(errors.ErrUnauthorized, "token fingerprint mismatch")
	ErrTokenSubjectMismatch     = errors.Wrap(errors.ErrUnauthorized, "token subject mismatch")
	ErrTokenActionsMissing      = errors.Wrap(errors.ErrUnauthorized, "token actions claim missing")
	ErrTokenActionsMalformed    = errors.Wrap(errors.ErrUnauthorized, "token actions claim malformed")
	ErrTokenOperationNotAllowed = errors.Wrap(errors.ErrUnauthorized, "operation not in token actions")
)

// Verification handshake errors.
var (
	// ErrVerificationTokenNotFound indicates no verification token exists for
	// the supplied token id.
	ErrVerificationTokenNotFound = errors.Wrap(errors.ErrNotFound, "verification token not found")

	// ErrVerificationTokenExpired indicates the verification token's TTL has passed.
	ErrVerificationTokenExpired = errors.Wrap(errors.ErrUnauthorized, "verification token expired")

	// Field-specific mismatches between the callback request and the stored token.
	ErrVerificationHashMismatch        = errors.Wrap(errors.ErrUnauthorized, "verification hash mismatch")
	ErrVerificationHostMismatch        = errors.Wrap(errors.ErrUnauthorized, "verification host mismatch")
	ErrVerificationFingerprintMismatch = errors.Wrap(errors.ErrUnauthorized, "verification fingerprint mismatch")

	// ErrNotificationSendFailed indicates the verification email could not be
	// delivered. Surfaced to the caller so the handshake can be retried.
	ErrNotificationSendFailed = errors.Wrap(errors.ErrUnavailable, "verification notification send failed")
)
