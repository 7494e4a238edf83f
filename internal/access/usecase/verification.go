package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	apperrors "github.com/eventdesk/accessd/internal/errors"
)

// unknownLocation is the placeholder used when the client IP cannot be
// resolved to a place name.
const unknownLocation = "an unknown location"

// SendVerification delivers a one-time verification link to the subject's
// registered email.
//
// The flow:
//  1. Every identifying field must be present, and the host/hash binding must
//     hold just as on the authorize path
//  2. The subject must exist in the participant directory; an unknown subject
//     aborts the handshake
//  3. The client IP is resolved to a location hint, best effort
//  4. Prior verification tokens for the subject are deleted, then a fresh one
//     is stored carrying the request's hash, host, and fingerprint
//  5. The callback link embedding the token id is emailed to the subject
func (a *accessUseCase) SendVerification(
	ctx context.Context,
	input *accessDomain.SendVerificationInput,
) error {
	if input.SubjectID == "" || input.Hash == "" || input.Host == "" || input.Fingerprint == "" {
		return accessDomain.ErrMissingParameters
	}
	if err := a.validateHostBinding(input.SubjectID, input.Hash, input.Host); err != nil {
		return err
	}

	email, err := a.participants.GetEmail(ctx, input.SubjectID)
	if err != nil {
		return err
	}

	location := a.resolveLocation(ctx, input.ClientIP)

	if err := a.deleteVerificationTokens(ctx, input.SubjectID); err != nil {
		return err
	}

	now := a.now()
	token := &accessDomain.VerificationToken{
		ID:          uuid.Must(uuid.NewV7()),
		SubjectID:   input.SubjectID,
		Hash:        input.Hash,
		Host:        input.Host,
		Fingerprint: input.Fingerprint,
		CreatedAt:   now,
		TTL:         now.Add(a.config.VerificationTokenDuration),
	}
	if err := a.verificationRepo.Put(ctx, token); err != nil {
		return err
	}

	callbackURL, err := a.buildCallbackURL(input, token.ID)
	if err != nil {
		return err
	}

	if err := a.notifier.Send(ctx, email, callbackURL, location); err != nil {
		return apperrors.Wrap(accessDomain.ErrNotificationSendFailed, err.Error())
	}

	a.logger.Info("verification email sent",
		slog.String("subject_id", input.SubjectID),
		slog.String("host", input.Host))

	return nil
}

// CallbackVerification completes the handshake when the subject follows the
// emailed link.
//
// The flow:
//  1. Every identifying field must be present, and the host/hash binding must
//     hold
//  2. The token id must name a stored, unexpired verification token
//  3. The stored hash, host, and fingerprint must match the callback's; the
//     link only works from the device and host that requested it
//  4. The subject's profile for the original host is resolved
//  5. The token is deleted, then a session is created and a full-profile
//     capability token issued; a replayed link finds no token and fails
func (a *accessUseCase) CallbackVerification(
	ctx context.Context,
	input *accessDomain.CallbackVerificationInput,
) (*accessDomain.Decision, error) {
	if input.SubjectID == "" || input.Hash == "" || input.Host == "" ||
		input.Fingerprint == "" || input.TokenID == "" {
		return nil, accessDomain.ErrMissingParameters
	}
	if err := a.validateHostBinding(input.SubjectID, input.Hash, input.Host); err != nil {
		return nil, err
	}

	tokenID, err := uuid.Parse(input.TokenID)
	if err != nil {
		return nil, accessDomain.ErrVerificationTokenNotFound
	}

	token, err := a.verificationRepo.Get(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if token.SubjectID != input.SubjectID {
		return nil, accessDomain.ErrVerificationTokenNotFound
	}
	if token.IsExpired(a.now()) {
		if err := a.verificationRepo.Delete(ctx, token.ID); err != nil {
			return nil, err
		}
		return nil, accessDomain.ErrVerificationTokenExpired
	}
	if err := token.MatchCallback(input.Hash, input.Host, input.Fingerprint); err != nil {
		return nil, err
	}

	operations, err := a.resolveOperations(ctx, input.SubjectID, token.Host)
	if err != nil {
		return nil, err
	}

	// The token is burned before the session exists. A crash in between
	// forces a new handshake rather than leaving a replayable link.
	if err := a.verificationRepo.Delete(ctx, token.ID); err != nil {
		return nil, err
	}

	session := &accessDomain.Session{
		SubjectID:   input.SubjectID,
		Fingerprint: input.Fingerprint,
		TTL:         a.now().Add(a.config.SessionDuration),
	}
	if err := a.sessionRepo.Put(ctx, session); err != nil {
		return nil, err
	}

	signed, err := a.tokenCodec.Create(input.SubjectID, input.Fingerprint, operations)
	if err != nil {
		return nil, err
	}

	a.logger.Info("verification completed",
		slog.String("subject_id", input.SubjectID),
		slog.String("host", input.Host))

	return &accessDomain.Decision{Status: accessDomain.StatusAuthenticated, Token: signed}, nil
}

// resolveLocation turns the client IP into a human-readable place name,
// falling back to a placeholder when the resolver fails or no IP is known.
func (a *accessUseCase) resolveLocation(ctx context.Context, ip string) string {
	if ip == "" || a.geoResolver == nil {
		return unknownLocation
	}
	location, err := a.geoResolver.Resolve(ctx, ip)
	if err != nil || location == "" {
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("geo lookup failed", slog.String("error", err.Error()))
		}
		return unknownLocation
	}
	return location
}

// buildCallbackURL appends the callback identifiers to the configured base URL.
func (a *accessUseCase) buildCallbackURL(
	input *accessDomain.SendVerificationInput,
	tokenID uuid.UUID,
) (string, error) {
	base, err := url.Parse(a.config.VerificationCallbackBaseURL)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrConfig, "invalid verification callback base url")
	}
	query := base.Query()
	query.Set("subjectId", input.SubjectID)
	query.Set("hash", input.Hash)
	query.Set("fingerprint", input.Fingerprint)
	query.Set("token", tokenID.String())
	base.RawQuery = query.Encode()
	return base.String(), nil
}
