package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/netbridge-bank/nb_backend/internal/apperrors"
	portsrepo "github.com/netbridge-bank/nb_backend/internal/core/ports/repositories"
	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
	"github.com/netbridge-bank/nb_backend/internal/dto"
	"github.com/netbridge-bank/nb_backend/internal/middleware"
	"github.com/netbridge-bank/nb_backend/pkg/config"
)

// gateService is the secondary PIN guard: a session-wide gate over dashboard
// interactivity for restricted accounts. It is independent from the 4-digit
// per-transfer PIN; the two use different reference values and scopes.
type gateService struct {
	sessions    *sessionService
	sessionRepo portsrepo.SessionRepository
	gateCode    string
}

// NewGateService creates the dashboard gate service. The reference code and
// the restricted-account set are sourced from configuration.
func NewGateService(cfg *config.Config, sessions portssvc.SessionSvcFacade, sessionRepo portsrepo.SessionRepository) portssvc.GateSvcFacade {
	ss, ok := sessions.(*sessionService)
	if !ok {
		panic("gate service requires the session store service")
	}
	return &gateService{
		sessions:    ss,
		sessionRepo: sessionRepo,
		gateCode:    cfg.DashboardGateCode,
	}
}

var _ portssvc.GateSvcFacade = (*gateService)(nil)

// Status implements portssvc.GateSvcFacade. requiresPin && !pinVerified
// means the dashboard must stay non-interactive.
func (s *gateService) Status(ctx context.Context, identityID string) (dto.GateStatusResponse, error) {
	sess, err := s.sessions.sessionFor(ctx, identityID)
	if err != nil {
		return dto.GateStatusResponse{}, err
	}
	requiresPin, pinVerified := sess.Gate()
	return dto.GateStatusResponse{RequiresPin: requiresPin, PinVerified: pinVerified}, nil
}

// SubmitCode implements portssvc.GateSvcFacade. Only 6-digit entries reach
// this point (binding enforces the length). A match persists the unlocked
// flag so a reload does not re-lock; a mismatch leaves the gate untouched.
// There is no transition back to locked within a session.
func (s *gateService) SubmitCode(ctx context.Context, identityID string, code string) (dto.GateStatusResponse, error) {
	sess, err := s.sessions.sessionFor(ctx, identityID)
	if err != nil {
		return dto.GateStatusResponse{}, err
	}

	requiresPin, pinVerified := sess.Gate()
	if pinVerified {
		// Already unlocked; accept idempotently.
		return dto.GateStatusResponse{RequiresPin: requiresPin, PinVerified: true}, nil
	}

	if code != s.gateCode {
		middleware.GetLoggerFromCtx(ctx).Warn("Dashboard gate code mismatch", slog.String("identity_id", identityID))
		return dto.GateStatusResponse{RequiresPin: requiresPin, PinVerified: false}, apperrors.ErrUnauthorized
	}

	if err := s.sessionRepo.SetPinVerified(ctx, identityID); err != nil {
		return dto.GateStatusResponse{}, fmt.Errorf("failed to persist gate unlock: %w", err)
	}
	sess.Apply(MarkPinVerified{})

	return dto.GateStatusResponse{RequiresPin: requiresPin, PinVerified: true}, nil
}
