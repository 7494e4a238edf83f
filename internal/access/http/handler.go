// Package http provides HTTP handlers for the access-control API.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	"github.com/eventdesk/accessd/internal/access/http/dto"
	accessUseCase "github.com/eventdesk/accessd/internal/access/usecase"
	"github.com/eventdesk/accessd/internal/httputil"
	customValidation "github.com/eventdesk/accessd/internal/validation"
)

// AccessHandler handles HTTP requests for authorization decisions and the
// verification-email handshake.
type AccessHandler struct {
	useCase accessUseCase.AccessUseCase
	logger  *slog.Logger
}

// NewAccessHandler creates a new access handler with required dependencies.
func NewAccessHandler(useCase accessUseCase.AccessUseCase, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// AuthorizeHandler decides whether the caller is authenticated for an
// operation.
// POST /v1/access/authorize - the optional capability token is read from the
// Authorization header.
// Returns 200 OK with a status of "authenticated" or "needs-verification".
func (h *AccessHandler) AuthorizeHandler(c *gin.Context) {
	var req dto.AuthorizeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &accessDomain.AuthorizeInput{
		SubjectID:   req.SubjectID,
		Hash:        req.Hash,
		Host:        req.Host,
		Fingerprint: req.Fingerprint,
		Operation:   req.Operation,
		Token:       bearerToken(c),
	}

	decision, err := h.useCase.Authorize(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDecisionToResponse(decision))
}

// SendVerificationHandler starts the verification-email handshake.
// POST /v1/access/verification/send - rate limited per client IP.
// Returns 202 Accepted once the email has been dispatched.
func (h *AccessHandler) SendVerificationHandler(c *gin.Context) {
	var req dto.SendVerificationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &accessDomain.SendVerificationInput{
		SubjectID:   req.SubjectID,
		Hash:        req.Hash,
		Host:        req.Host,
		Fingerprint: req.Fingerprint,
		ClientIP:    c.ClientIP(),
	}

	if err := h.useCase.SendVerification(c.Request.Context(), input); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, dto.SendVerificationResponse{Status: "sent"})
}

// CallbackVerificationHandler completes the handshake from an emailed link.
// POST /v1/access/verification/callback
// Returns 200 OK with status "authenticated" and a full-profile token.
func (h *AccessHandler) CallbackVerificationHandler(c *gin.Context) {
	var req dto.CallbackVerificationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &accessDomain.CallbackVerificationInput{
		SubjectID:   req.SubjectID,
		Hash:        req.Hash,
		Host:        req.Host,
		Fingerprint: req.Fingerprint,
		TokenID:     req.Token,
	}

	decision, err := h.useCase.CallbackVerification(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDecisionToResponse(decision))
}

// bearerToken extracts the token from the Authorization header. Returns an
// empty string if the header is absent or not a bearer scheme.
func bearerToken(c *gin.Context) string {
	const prefix = "Bearer "

	header := c.GetHeader("Authorization")
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}

	return ""
}
