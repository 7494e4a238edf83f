package domain

// Status is the tri-state outcome of an authorization attempt. Failures are
// not statuses; they terminate the attempt as typed errors.
type Status string

const (
	// StatusAuthenticated means the caller holds (or was just issued) a valid
	// capability token for the requested operation.
	StatusAuthenticated Status = "authenticated"

	// StatusNeedsVerification means no session exists and the verification
	// handshake must run; the decision carries a token scoped to the
	// verification-flow operations only.
	StatusNeedsVerification Status = "needs-verification"
)

// Decision is the coordinator's answer for one request. Token is empty when
// the caller's own token was accepted on the fast path (the client already
// holds a good one).
type Decision struct {
	Status Status
	Token  string
}

// AuthorizeInput carries the request metadata the coordinator needs.
// Token is the optional bearer capability token.
type AuthorizeInput struct {
	SubjectID   string
	Hash        string
	Host        string
	Fingerprint string
	Operation   string
	Token       string
}

// SendVerificationInput carries the fields for starting the verification
// handshake. ClientIP is optional and only used for the best-effort
// geolocation hint in the notification.
type SendVerificationInput struct {
	SubjectID   string
	Hash        string
	Host        string
	Fingerprint string
	ClientIP    string
}

// CallbackVerificationInput carries the fields presented by the emailed
// callback link.
type CallbackVerificationInput struct {
	SubjectID   string
	Hash        string
	Host        string
	Fingerprint string
	TokenID     string
}
