package domain

// Token claim constants shared by the codec and the coordinator.
const (
	// TokenTypeAccess is the fixed token-type claim on every capability token.
	TokenTypeAccess = "access"

	// TokenSchemaVersion is the fixed claim-schema version. Tokens carrying any
	// other version are rejected during verification.
	TokenSchemaVersion = 1
)

// Well-known store keys and sentinel values.
const (
	// DefaultRecordID is the reserved auth-record id used when no
	// participant-specific record exists.
	DefaultRecordID = "default"

	// NoSecret marks a host that does not require a hash check.
	NoSecret = "none"
)

// Verification-flow operations. These are named operations, not free-form
// strings: the narrow token issued at the start of the handshake is scoped to
// exactly these two.
const (
	OperationVerificationSend     = "POST/auth/verificationEmailSend"
	OperationVerificationCallback = "POST/auth/verificationEmailCallback"
)

// VerificationOperations returns the operations set for the narrow token that
// bootstraps the verification handshake.
func VerificationOperations() []string {
	return []string{OperationVerificationSend, OperationVerificationCallback}
}
