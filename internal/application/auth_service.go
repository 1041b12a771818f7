package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
	"github.com/oksasatya/projecthub/pkg/helpers"
)

// DefaultSignInTTL is the lifetime of a sign-in token.
const DefaultSignInTTL = time.Hour

// AuthService runs the sign-in and account confirmation flows.
type AuthService struct {
	Store     repository.Store
	JWT       *helpers.JWTManager
	Hasher    *helpers.PasswordHasher
	SignInTTL time.Duration
	Logger    *logrus.Logger
}

func NewAuthService(store repository.Store, jwt *helpers.JWTManager, hasher *helpers.PasswordHasher, signInTTL time.Duration, logger *logrus.Logger) *AuthService {
	if signInTTL <= 0 {
		signInTTL = DefaultSignInTTL
	}
	if logger == nil {
		logger = helpers.Discard()
	}
	return &AuthService{Store: store, JWT: jwt, Hasher: hasher, SignInTTL: signInTTL, Logger: logger}
}

type SignInResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *entity.User `json:"user"`
}

// SignIn verifies email and password and issues a sign-in token. Unknown
// emails and wrong passwords both fail with ErrAuthenticationFailed.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = normalizeEmail(email)

	creds, err := s.Store.Users().GetCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.Hasher.CompareDummy(password)
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	if !s.Hasher.CompareHashAndPassword(creds.PasswordHash, password) {
		s.Logger.WithField("user_id", creds.UserID).Info("sign-in rejected")
		return nil, ErrAuthenticationFailed
	}

	u, err := s.Store.Users().GetByID(ctx, creds.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	token, exp, err := s.JWT.Issue(u.ID, "", s.SignInTTL)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue sign-in token failed")
		return nil, err
	}
	return &SignInResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Confirm marks the account named by a confirmation code as confirmed.
// Confirming an already confirmed account succeeds.
func (s *AuthService) Confirm(ctx context.Context, code string) error {
	claims, err := s.JWT.Verify(code)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrExpiredConfirmation, err)
	}
	if claims.Purpose != helpers.PurposeConfirm {
		return fmt.Errorf("%w: not a confirmation token", ErrInvalidOrExpiredConfirmation)
	}

	if err := s.Store.Users().SetConfirmed(ctx, claims.Subject); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: account no longer exists", ErrInvalidOrExpiredConfirmation)
		}
		return fmt.Errorf("confirm account: %w", err)
	}
	s.Logger.WithField("user_id", claims.Subject).Info("account confirmed")
	return nil
}
