package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/netbridge-bank/nb_backend/internal/apperrors"
	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	portsrepo "github.com/netbridge-bank/nb_backend/internal/core/ports/repositories"
	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
	"github.com/netbridge-bank/nb_backend/internal/dto"
	"github.com/netbridge-bank/nb_backend/internal/middleware"
	"github.com/netbridge-bank/nb_backend/internal/utils"
	"github.com/netbridge-bank/nb_backend/pkg/config"
)

var (
	ErrUsernameLength  = errors.New("username must be 3-20 characters")
	ErrUsernameCharset = errors.New("username can only contain lowercase letters, numbers, and underscores")
	ErrNoLinkedEmail   = errors.New("no email linked to this account")
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

const otpTTL = 5 * time.Minute

// authService is the authentication gateway: it owns identity creation,
// credential verification and session seeding.
type authService struct {
	repos    portsrepo.RepositoryProvider
	sessions *sessionService
	notifier portssvc.NotifierSvcFacade
	google   *googleVerifier
	cfg      *config.Config
}

// NewAuthService creates the gateway.
func NewAuthService(cfg *config.Config, repos portsrepo.RepositoryProvider, sessions portssvc.SessionSvcFacade, notifier portssvc.NotifierSvcFacade) portssvc.AuthSvcFacade {
	ss, ok := sessions.(*sessionService)
	if !ok {
		// The gateway seeds sessions directly; only the in-package store fits.
		panic("auth service requires the session store service")
	}
	return &authService{
		repos:    repos,
		sessions: ss,
		notifier: notifier,
		google:   newGoogleVerifier(cfg),
		cfg:      cfg,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Register implements portssvc.AuthSvcFacade. Username shape is validated
// before any ledger call; the handle reservations, identity insert and
// collection seeding happen as one all-or-nothing ledger transaction, so a
// conflict can never leave a usable dangling credential.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.IdentityResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if len(username) < 3 || len(username) > 20 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrUsernameCharset)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	accountNumber, err := utils.NewAccountNumber()
	if err != nil {
		return nil, err
	}

	identity := domain.Identity{
		IdentityID:    uuid.NewString(),
		FullName:      strings.TrimSpace(req.FirstName) + " " + strings.TrimSpace(req.LastName),
		Email:         strings.TrimSpace(req.Email),
		Username:      username,
		Role:          domain.RoleUser,
		AccountNumber: accountNumber,
		Status:        domain.StatusActive,
		TransferPIN:   nil,
		Country:       req.Country,
		KYCStatus:     "pending",
		PasswordHash:  passwordHash,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repos.Identity.CreateIdentityAtomic(ctx, identity, defaultAccounts()); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		logger.Error("Failed to create identity", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	// Fire-and-forget: a relay failure never fails registration.
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.SendWelcomeMessage(sendCtx, identity.FullName, identity.Email, identity.AccountNumber); err != nil {
			logger.Warn("Failed to send welcome message", slog.String("error", err.Error()))
		}
	}()

	resp := dto.ToIdentityResponse(&identity)
	return &resp, nil
}

// Login implements portssvc.AuthSvcFacade. The handle may be a username or
// an account number; both resolve through the same lookup table. On success
// the session is seeded with the hydrated collections and the gate is
// recomputed before any dashboard content can be served.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	handle := strings.ToLower(strings.TrimSpace(req.Username))

	identityID, err := s.repos.Identity.ResolveHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve login handle: %w", err)
	}

	identity, err := s.repos.Identity.FindIdentityByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}

	if identity.Email == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNoLinkedEmail)
	}
	if identity.Status == domain.StatusSuspended {
		return nil, apperrors.ErrSuspended
	}
	if !utils.CheckPasswordHash(req.Password, identity.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return s.establishSession(ctx, identity)
}

// establishSession hydrates the collections, writes a fresh session row
// (a new login always starts gate-locked for restricted accounts) and
// issues the session token.
func (s *authService) establishSession(ctx context.Context, identity *domain.Identity) (*dto.LoginResponse, error) {
	accounts, txns, notifs, err := s.sessions.hydrate(ctx, identity.IdentityID)
	if err != nil {
		return nil, err
	}

	record := domain.SessionRecord{
		SessionID:   uuid.NewString(),
		IdentityID:  identity.IdentityID,
		PinVerified: false,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repos.Session.UpsertSession(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.sessions.seed(*identity, accounts, txns, notifs, false)

	token, err := utils.GenerateJWT(identity.IdentityID, s.cfg.JWTSecret, s.cfg.JWTExpiry, s.cfg.JWTIssuer)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to sign session token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.LoginResponse{Token: token, User: dto.ToIdentityResponse(identity)}, nil
}

// LoginWithGoogle implements portssvc.AuthSvcFacade. Accepts either a One
// Tap ID token or an authorization code; the verified email must belong to
// an existing identity.
func (s *authService) LoginWithGoogle(ctx context.Context, req dto.GoogleSignInRequest) (*dto.LoginResponse, error) {
	email, err := s.google.VerifiedEmail(ctx, req)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Google sign-in rejected", slog.String("error", err.Error()))
		return nil, apperrors.ErrUnauthorized
	}

	identity, err := s.repos.Identity.FindIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load identity by email: %w", err)
	}
	if identity.Status == domain.StatusSuspended {
		return nil, apperrors.ErrSuspended
	}

	return s.establishSession(ctx, identity)
}

// Logout implements portssvc.AuthSvcFacade: invalidates the session row and
// resets all session state to initial.
func (s *authService) Logout(ctx context.Context, identityID string) error {
	if err := s.repos.Session.DeleteSession(ctx, identityID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to delete session row: %w", err)
	}
	s.sessions.manager.Delete(identityID)
	return nil
}

// GetIdentity implements portssvc.AuthSvcFacade.
func (s *authService) GetIdentity(ctx context.Context, identityID string) (*dto.IdentityResponse, error) {
	sess, err := s.sessions.sessionFor(ctx, identityID)
	if err != nil {
		return nil, err
	}
	identity := sess.Identity()
	resp := dto.ToIdentityResponse(&identity)
	return &resp, nil
}

// UpdateProfile implements portssvc.AuthSvcFacade: applies the provided
// fields, persists them and refreshes the session snapshot.
func (s *authService) UpdateProfile(ctx context.Context, identityID string, req dto.UpdateProfileRequest) (*dto.IdentityResponse, error) {
	identity, err := s.repos.Identity.FindIdentityByID(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load identity for update: %w", err)
	}

	if req.PhoneNumber != nil {
		identity.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		identity.Address = *req.Address
	}
	if req.Occupation != nil {
		identity.Occupation = *req.Occupation
	}
	if req.DateOfBirth != nil {
		identity.DateOfBirth = *req.DateOfBirth
	}
	if req.Gender != nil {
		identity.Gender = *req.Gender
	}
	if req.TransferPIN != nil {
		pin := *req.TransferPIN
		identity.TransferPIN = &pin
	}

	if err := s.repos.Identity.UpdateProfile(ctx, *identity); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if sess, ok := s.sessions.manager.Get(identityID); ok {
		sess.Apply(SetIdentity{Identity: *identity})
	}

	resp := dto.ToIdentityResponse(identity)
	return &resp, nil
}

// RequestOTP implements portssvc.AuthSvcFacade: a 6-digit code is stored
// hashed on the session row and relayed to the identity's email.
func (s *authService) RequestOTP(ctx context.Context, identityID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	sess, err := s.sessions.sessionFor(ctx, identityID)
	if err != nil {
		return err
	}
	identity := sess.Identity()

	code, err := utils.NewOTP()
	if err != nil {
		return err
	}
	codeHash, err := utils.HashPassword(code)
	if err != nil {
		return fmt.Errorf("failed to hash otp: %w", err)
	}

	if err := s.repos.Session.SetOTP(ctx, identityID, codeHash, time.Now().UTC().Add(otpTTL)); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.SendOneTimeCode(sendCtx, identity.Email, code); err != nil {
			logger.Warn("Failed to send one-time code", slog.String("error", err.Error()))
		}
	}()
	return nil
}

// VerifyOTP implements portssvc.AuthSvcFacade.
func (s *authService) VerifyOTP(ctx context.Context, identityID string, code string) error {
	row, err := s.repos.Session.FindSessionByIdentity(ctx, identityID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrUnauthorized
		}
		return fmt.Errorf("failed to load session row: %w", err)
	}
	if row.OTPHash == "" || row.OTPExpiry == nil || time.Now().UTC().After(*row.OTPExpiry) {
		return apperrors.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(code, row.OTPHash) {
		return apperrors.ErrUnauthorized
	}
	return nil
}
