package usecase

import (
	"context"
	"time"

	accessDomain "github.com/eventdesk/accessd/internal/access/domain"
	"github.com/eventdesk/accessd/internal/metrics"
)

// accessUseCaseWithMetrics decorates AccessUseCase with metrics instrumentation.
type accessUseCaseWithMetrics struct {
	next    AccessUseCase
	metrics metrics.BusinessMetrics
}

// NewAccessUseCaseWithMetrics wraps an AccessUseCase with metrics recording.
func NewAccessUseCaseWithMetrics(useCase AccessUseCase, m metrics.BusinessMetrics) AccessUseCase {
	return &accessUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Authorize records metrics for authorization decisions. The status label
// distinguishes the two success outcomes from denials.
func (a *accessUseCaseWithMetrics) Authorize(
	ctx context.Context,
	input *accessDomain.AuthorizeInput,
) (*accessDomain.Decision, error) {
	start := time.Now()
	decision, err := a.next.Authorize(ctx, input)

	status := "error"
	if err == nil {
		switch decision.Status {
		case accessDomain.StatusNeedsVerification:
			status = "needs_verification"
		default:
			status = "authenticated"
		}
	}

	a.metrics.RecordOperation(ctx, "access", "authorize", status)
	a.metrics.RecordDuration(ctx, "access", "authorize", time.Since(start), status)

	return decision, err
}

// SendVerification records metrics for verification email delivery.
func (a *accessUseCaseWithMetrics) SendVerification(
	ctx context.Context,
	input *accessDomain.SendVerificationInput,
) error {
	start := time.Now()
	err := a.next.SendVerification(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "access", "verification_send", status)
	a.metrics.RecordDuration(ctx, "access", "verification_send", time.Since(start), status)

	return err
}

// CallbackVerification records metrics for verification callbacks.
func (a *accessUseCaseWithMetrics) CallbackVerification(
	ctx context.Context,
	input *accessDomain.CallbackVerificationInput,
) (*accessDomain.Decision, error) {
	start := time.Now()
	decision, err := a.next.CallbackVerification(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "access", "verification_callback", status)
	a.metrics.RecordDuration(ctx, "access", "verification_callback", time.Since(start), status)

	return decision, err
}
