// Package dto provides data transfer objects for the access API. Field names
// are camelCase on the wire to match the identifiers embedded in verification
// callback links.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/eventdesk/accessd/internal/validation"
)

// AuthorizeRequest contains the request metadata for an authorization
// decision. The capability token travels in the Authorization header, not in
// the body.
type AuthorizeRequest struct {
	SubjectID   string `json:"subjectId"`
	Hash        string `json:"hash"`
	Host        string `json:"host"`
	Fingerprint string `json:"fingerprint"`
	Operation   string `json:"operation"`
}

// Validate checks if the authorize request is valid.
func (r *AuthorizeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SubjectID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Hash,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Host,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Fingerprint,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Operation,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// SendVerificationRequest contains the parameters for starting the
// verification-email handshake.
type SendVerificationRequest struct {
	SubjectID   string `json:"subjectId"`
	Hash        string `json:"hash"`
	Host        string `json:"host"`
	Fingerprint string `json:"fingerprint"`
}

// Validate checks if the send verification request is valid.
func (r *SendVerificationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SubjectID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Hash,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Host,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Fingerprint,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// CallbackVerificationRequest contains the identifiers carried by an emailed
// callback link, posted back by the portal page the link lands on.
type CallbackVerificationRequest struct {
	SubjectID   string `json:"subjectId"`
	Hash        string `json:"hash"`
	Host        string `json:"host"`
	Fingerprint string `json:"fingerprint"`
	Token       string `json:"token"`
}

// Validate checks if the callback verification request is valid.
func (r *CallbackVerificationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SubjectID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Hash,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Host,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Fingerprint,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
