package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
	"github.com/oksasatya/projecthub/pkg/helpers"
	"github.com/oksasatya/projecthub/pkg/mailer"
)

// DefaultConfirmTTL is the lifetime of a confirmation code.
const DefaultConfirmTTL = 24 * time.Hour

// ConfirmationMailer delivers the confirmation link; *mailer.Dispatcher
// satisfies it.
type ConfirmationMailer interface {
	SendConfirmation(ctx context.Context, m mailer.ConfirmationMail) error
}

// AvatarStorage stores avatar images and returns their public URL.
type AvatarStorage interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// UserDirectory is the searchable copy of user profiles.
type UserDirectory interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]entity.User, error)
}

// UserService owns account creation and profile management. Mailer,
// Avatars and Directory are optional.
type UserService struct {
	Store       repository.Store
	Hasher      *helpers.PasswordHasher
	JWT         *helpers.JWTManager
	ConfirmTTL  time.Duration
	ConfirmLink func(code string) string
	Mailer      ConfirmationMailer
	Avatars     AvatarStorage
	Directory   UserDirectory
	Logger      *logrus.Logger
}

// NewUserService wires the service; confirmLink turns a confirmation code
// into the URL that goes out in the mail.
func NewUserService(store repository.Store, hasher *helpers.PasswordHasher, jwt *helpers.JWTManager, confirmLink func(code string) string, logger *logrus.Logger) *UserService {
	if logger == nil {
		logger = helpers.Discard()
	}
	return &UserService{
		Store:       store,
		Hasher:      hasher,
		JWT:         jwt,
		ConfirmTTL:  DefaultConfirmTTL,
		ConfirmLink: confirmLink,
		Logger:      logger,
	}
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Register creates an account and, in the same transaction, converts every
// pending invite for its email into a membership. If the conversion cannot
// commit, neither does the account. The confirmation mail is sent after
// commit and its failure is only logged.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		ID:    uuid.NewString(),
		Email: normalizeEmail(in.Email),
		Name:  strings.TrimSpace(in.Name),
	}

	var converted int
	err = s.Store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, u, hash); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%w: email already registered", ErrConflict)
			}
			return fmt.Errorf("create user: %w", err)
		}
		n, err := reconcileInvites(ctx, tx, u)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReconciliationFailed, err)
		}
		converted = n
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrConflict), errors.Is(err, ErrReconciliationFailed):
		case errors.Is(err, repository.ErrConflict):
			err = fmt.Errorf("%w: email already registered", ErrConflict)
		case errors.Is(err, repository.ErrSerialization):
			err = fmt.Errorf("%w: %v", ErrReconciliationFailed, err)
		}
		s.Logger.WithError(err).WithField("email", u.Email).Warn("account creation failed")
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "memberships": converted}).Info("account created")
	if err := s.sendConfirmation(ctx, u); err != nil && !errors.Is(err, ErrMailDisabled) {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("confirmation mail dispatch failed")
	}
	s.index(ctx, u)
	return u, nil
}

func (s *UserService) hash(password string) (string, error) {
	h, err := s.Hasher.HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: longer than 72 bytes", ErrInvalidPassword)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

func (s *UserService) sendConfirmation(ctx context.Context, u *entity.User) error {
	if s.Mailer == nil || s.ConfirmLink == nil {
		return ErrMailDisabled
	}
	code, exp, err := s.JWT.Issue(u.ID, helpers.PurposeConfirm, s.ConfirmTTL)
	if err != nil {
		return fmt.Errorf("issue confirmation code: %w", err)
	}
	return s.Mailer.SendConfirmation(ctx, mailer.ConfirmationMail{
		To:        u.Email,
		Name:      u.Name,
		Link:      s.ConfirmLink(code),
		ExpiresAt: exp,
	})
}

// ResendConfirmation queues a fresh confirmation mail. It reports false
// without sending when the account is already confirmed.
func (s *UserService) ResendConfirmation(ctx context.Context, userID string) (bool, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return false, err
	}
	if u.Confirmed {
		return false, nil
	}
	if err := s.sendConfirmation(ctx, u); err != nil {
		if !errors.Is(err, ErrMailDisabled) {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("confirmation mail dispatch failed")
		}
		return false, err
	}
	return true, nil
}

func (s *UserService) index(ctx context.Context, u *entity.User) {
	if s.Directory == nil {
		return
	}
	if err := s.Directory.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfileInput carries optional changes; empty fields are left as is.
type UpdateProfileInput struct {
	Name      string
	AvatarURL string
	Password  string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	var hash string
	if in.Password != "" {
		h, err := s.hash(in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	var u *entity.User
	err := s.Store.WithTx(ctx, func(tx repository.Store) error {
		cur, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if name := strings.TrimSpace(in.Name); name != "" {
			cur.Name = name
		}
		if in.AvatarURL != "" {
			cur.AvatarURL = in.AvatarURL
		}
		if err := tx.Users().Update(ctx, cur); err != nil {
			return err
		}
		if hash != "" {
			if err := tx.Users().UpdatePassword(ctx, userID, hash); err != nil {
				return err
			}
		}
		u = cur
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.index(ctx, u)
	return u, nil
}

// Delete removes the account; its memberships go with it.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.Store.Users().Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if s.Directory != nil {
		if err := s.Directory.Remove(ctx, userID); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("es remove failed")
		}
	}
	s.Logger.WithField("user_id", userID).Info("account deleted")
	return nil
}

// ListProjects returns the projects userID belongs to with the role held in each.
func (s *UserService) ListProjects(ctx context.Context, userID string) ([]entity.Membership, error) {
	ms, err := s.Store.Projects().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ms == nil {
		ms = []entity.Membership{}
	}
	return ms, nil
}

// UploadAvatar stores the image under avatars/<user>/ and points the profile at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, ErrStorageUnavailable
	}
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := s.Avatars.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("avatar upload failed")
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	return s.UpdateProfile(ctx, userID, UpdateProfileInput{AvatarURL: url})
}

// Search looks users up by name or email. Without a directory it returns
// no results.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]entity.User, error) {
	if s.Directory == nil || strings.TrimSpace(q) == "" {
		return []entity.User{}, nil
	}
	return s.Directory.Search(ctx, q, size)
}
