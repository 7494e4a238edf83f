// Package service provides technical services for the access-control core.
//
// It implements the keyed-hash host binding (HMAC-SHA256) and the capability
// token codec (RS256 signed tokens with a fixed claim schema). Both services
// are pure with respect to external stores; all state they need arrives via
// configuration at construction time.
package service

// HashService computes the keyed hash binding a subject id to a host secret.
type HashService interface {
	// ComputeHash returns the lowercase hex HMAC-SHA256 of the subject id
	// keyed by the hex-decoded secret. Fails with ErrInvalidKeyFormat unless
	// the secret is exactly 64 hex characters.
	ComputeHash(subjectID string, secretHex string) (string, error)
}

// TokenCodec creates and verifies signed capability tokens.
type TokenCodec interface {
	// Create issues a signed token for the subject, bound to the device
	// fingerprint and scoped to the given operations set. Expiry is the
	// configured access-token duration from now.
	Create(subjectID string, fingerprint string, operations []string) (string, error)

	// Verify checks a token against the expected subject, fingerprint, and
	// operation. A nil result means the token is valid for the operation.
	// Semantically bad tokens return one of the domain token errors; only
	// configuration problems surface as ErrConfig.
	Verify(token string, subjectID string, fingerprint string, operation string) error
}
