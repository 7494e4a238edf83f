package dto

import (
	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
)

// DecisionResponse carries the outcome of an authorization or callback
// attempt. Token is omitted on the fast path where the caller's own token was
// accepted.
type DecisionResponse struct {
	Status string `json:"status"`
	Token  string `json:"token,omitempty"`
}

// MapDecisionToResponse converts a domain decision to an API response.
func MapDecisionToResponse(decision *accessDomain.Decision) DecisionResponse {
	return DecisionResponse{
		Status: string(decision.Status),
		Token:  decision.Token,
	}
}

// SendVerificationResponse acknowledges that a verification email was
// dispatched.
type SendVerificationResponse struct {
	Status string `json:"status"`
}
