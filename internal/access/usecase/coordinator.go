package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	accessService "github.com/eventdesk/accessd/internal/access/service"
	"github.com/eventdesk/accessd/internal/config"
	apperrors "github.com/eventdesk/accessd/internal/errors"
)

// accessUseCase implements AccessUseCase. All cross-call state lives in the
// injected repositories; the struct itself is immutable after construction
// and safe for concurrent use.
type accessUseCase struct {
	config           *config.Config
	hostRegistry     *accessDomain.HostRegistry
	hashService      accessService.HashService
	tokenCodec       accessService.TokenCodec
	recordRepo       AuthRecordRepository
	profileRepo      ActionsProfileRepository
	sessionRepo      SessionRepository
	verificationRepo VerificationTokenRepository
	participants     ParticipantDirectory
	notifier         NotificationSender
	geoResolver      GeoResolver
	logger           *slog.Logger
	now              func() time.Time
}

// Authorize runs the authorization state machine for one request.
//
// The decision flow:
//  1. Every identifying field must be present
//  2. The host must be registered
//  3. The supplied hash must match the recomputed HMAC (hosts with secret
//     "none" skip this)
//  4. Fast path: a supplied bearer token that verifies cleanly is accepted
//     without touching any store; no new token is issued
//  5. Slow path: the subject's record (or the shared default) must permit the
//     host, and the host's profile must contain the operation
//  6. A live session yields a fresh full-profile token (refresh on use)
//  7. Otherwise the verification handshake begins: prior verification tokens
//     are cleared and a token scoped to the two verification operations is
//     returned with needs-verification status
func (a *accessUseCase) Authorize(
	ctx context.Context,
	input *accessDomain.AuthorizeInput,
) (*accessDomain.Decision, error) {
	// Step 1: input validation
	if input.SubjectID == "" || input.Hash == "" || input.Host == "" ||
		input.Fingerprint == "" || input.Operation == "" {
		return nil, accessDomain.ErrMissingParameters
	}

	// Steps 2-3: host resolution and hash check
	if err := a.validateHostBinding(input.SubjectID, input.Hash, input.Host); err != nil {
		return nil, err
	}

	// Step 4: fast path, no store access
	if input.Token != "" {
		err := a.tokenCodec.Verify(input.Token, input.SubjectID, input.Fingerprint, input.Operation)
		if err == nil {
			// The client already holds a good token; nothing to issue.
			return &accessDomain.Decision{Status: accessDomain.StatusAuthenticated}, nil
		}
		if apperrors.Is(err, apperrors.ErrConfig) {
			return nil, err
		}
		a.logger.Debug("bearer token rejected, falling through to slow path",
			slog.String("subject_id", input.SubjectID),
			slog.String("error", err.Error()))
	}

	// Step 5: re-derive permission from the subject's record and profile
	operations, err := a.resolveOperations(ctx, input.SubjectID, input.Host)
	if err != nil {
		return nil, err
	}
	if !operationAllowed(operations, input.Operation) {
		return nil, accessDomain.ErrOperationNotAllowed
	}

	// Step 6: session check with lazy expiry
	session, err := a.sessionRepo.Get(ctx, input.SubjectID, input.Fingerprint)
	switch {
	case err == nil && session.IsValid(a.now()):
		token, err := a.tokenCodec.Create(input.SubjectID, input.Fingerprint, operations)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("session valid, token refreshed",
			slog.String("subject_id", input.SubjectID))
		return &accessDomain.Decision{Status: accessDomain.StatusAuthenticated, Token: token}, nil

	case err == nil:
		// Expired session rows are removed on the access attempt that finds
		// them; there is no background reaper.
		if err := a.sessionRepo.Delete(ctx, input.SubjectID, input.Fingerprint); err != nil {
			return nil, err
		}
		a.logger.Debug("expired session deleted",
			slog.String("subject_id", input.SubjectID))

	case !errors.Is(err, accessDomain.ErrSessionNotFound):
		return nil, err
	}

	// Step 7: no session, begin the verification handshake
	if err := a.deleteVerificationTokens(ctx, input.SubjectID); err != nil {
		return nil, err
	}

	token, err := a.tokenCodec.Create(
		input.SubjectID,
		input.Fingerprint,
		accessDomain.VerificationOperations(),
	)
	if err != nil {
		return nil, err
	}

	a.logger.Info("verification required",
		slog.String("subject_id", input.SubjectID),
		slog.String("host", input.Host))

	return &accessDomain.Decision{Status: accessDomain.StatusNeedsVerification, Token: token}, nil
}

// validateHostBinding resolves the host and checks the keyed-hash binding.
func (a *accessUseCase) validateHostBinding(subjectID, hash, host string) error {
	entry, ok := a.hostRegistry.Lookup(host)
	if !ok {
		return accessDomain.ErrUnknownHost
	}
	if !entry.RequiresHash() {
		return nil
	}

	expected, err := a.hashService.ComputeHash(subjectID, entry.Secret)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(hash)) != 1 {
		return accessDomain.ErrBadHash
	}
	return nil
}

// resolveOperations resolves the subject's permitted host and its actions
// profile, returning the normalized operations set.
func (a *accessUseCase) resolveOperations(
	ctx context.Context,
	subjectID, host string,
) ([]string, error) {
	record, err := a.resolveAuthRecord(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	permitted, ok := record.FindHost(host)
	if !ok {
		return nil, accessDomain.ErrHostNotPermitted
	}

	profile, err := a.profileRepo.Get(ctx, permitted.ActionsProfile)
	if err != nil {
		return nil, err
	}
	return profile.Actions, nil
}

// resolveAuthRecord looks up the subject's record, falling back to the shared
// default record. A missing default record is a configuration error.
func (a *accessUseCase) resolveAuthRecord(
	ctx context.Context,
	subjectID string,
) (*accessDomain.AuthRecord, error) {
	record, err := a.recordRepo.Get(ctx, subjectID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, accessDomain.ErrRecordNotFound) {
		return nil, err
	}

	record, err = a.recordRepo.Get(ctx, accessDomain.DefaultRecordID)
	if err != nil {
		if errors.Is(err, accessDomain.ErrRecordNotFound) {
			return nil, accessDomain.ErrNoDefaultRecord
		}
		return nil, err
	}
	return record, nil
}

// deleteVerificationTokens removes every verification token owned by the
// subject, guaranteeing at most one live handshake per subject.
func (a *accessUseCase) deleteVerificationTokens(ctx context.Context, subjectID string) error {
	tokens, err := a.verificationRepo.ListBySubject(ctx, subjectID)
	if err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, token := range tokens {
		tokenID := token.ID
		g.Go(func() error {
			return a.verificationRepo.Delete(ctx, tokenID)
		})
	}
	return g.Wait()
}

// operationAllowed reports whether the operation is in the set.
func operationAllowed(operations []string, operation string) bool {
	for _, candidate := range operations {
		if candidate == operation {
			return true
		}
	}
	return false
}

// NewAccessUseCase creates the coordinator with its collaborators. The host
// registry and configuration are loaded once at startup and treated as
// read-only for the process lifetime.
func NewAccessUseCase(
	cfg *config.Config,
	hostRegistry *accessDomain.HostRegistry,
	hashService accessService.HashService,
	tokenCodec accessService.TokenCodec,
	recordRepo AuthRecordRepository,
	profileRepo ActionsProfileRepository,
	sessionRepo SessionRepository,
	verificationRepo VerificationTokenRepository,
	participants ParticipantDirectory,
	notifier NotificationSender,
	geoResolver GeoResolver,
	logger *slog.Logger,
) AccessUseCase {
	return &accessUseCase{
		config:           cfg,
		hostRegistry:     hostRegistry,
		hashService:      hashService,
		tokenCodec:       tokenCodec,
		recordRepo:       recordRepo,
		profileRepo:      profileRepo,
		sessionRepo:      sessionRepo,
		verificationRepo: verificationRepo,
		participants:     participants,
		notifier:         notifier,
		geoResolver:      geoResolver,
		logger:           logger,
		now:              time.Now,
	}
}
