package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"authapi/internal/auth"
	apperrors "authapi/internal/errors"
	"authapi/internal/metrics"
	"authapi/internal/model"
	"authapi/internal/repository"
)

// Session is the result of a successful sign-up or sign-in.
type Session struct {
	User  model.PublicUser
	Token string
}

// AuthService handles authentication operations.
type AuthService interface {
	SignUp(ctx context.Context, name, email, password string, role model.Role) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     *auth.Hasher
	jwtService *auth.JWTService
	log        logrus.FieldLogger
	metrics    *metrics.Metrics
	// compared against on unknown emails so both failure paths cost one bcrypt
	decoyHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher *auth.Hasher,
	jwtService *auth.JWTService,
	log logrus.FieldLogger,
	m *metrics.Metrics,
) (AuthService, error) {
	decoy, err := hasher.Hash("decoy-password-for-unknown-emails")
	if err != nil {
		return nil, fmt.Errorf("prepare decoy hash: %w", err)
	}
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		log:        log,
		metrics:    m,
		decoyHash:  decoy,
	}, nil
}

// SignUp creates a user with a hashed password and opens a session for it.
func (s *authService) SignUp(ctx context.Context, name, email, password string, role model.Role) (*Session, error) {
	if role == "" {
		role = model.RoleUser
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		s.metrics.AuthEvent("sign_up", "duplicate")
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.log.WithError(err).Error("Error hashing password")
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent sign-up; the unique index decides
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.metrics.AuthEvent("sign_up", "duplicate")
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	session, err := s.open(user)
	if err != nil {
		return nil, err
	}

	s.metrics.AuthEvent("sign_up", "success")
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User created successfully")
	return session, nil
}

// SignIn checks credentials and opens a session. Unknown emails and wrong
// passwords both return ErrInvalidCredentials; the wrapped reason is only
// meant for logs.
func (s *authService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		_, _ = s.hasher.Verify(password, s.decoyHash)
		return nil, s.rejectSignIn(email, apperrors.ErrUnknownEmail)
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("Error comparing password")
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, s.rejectSignIn(email, apperrors.ErrInvalidPassword)
	}

	session, err := s.open(user)
	if err != nil {
		return nil, err
	}

	s.metrics.AuthEvent("sign_in", "success")
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User authenticated successfully")
	return session, nil
}

func (s *authService) rejectSignIn(email string, reason error) error {
	s.metrics.AuthEvent("sign_in", "failure")
	s.log.WithFields(logrus.Fields{"email": email, "reason": reason.Error()}).Warn("Sign-in rejected")
	return fmt.Errorf("%w: %w", apperrors.ErrInvalidCredentials, reason)
}

func (s *authService) open(user *model.User) (*Session, error) {
	public := user.Public()
	token, err := s.jwtService.Issue(auth.IdentityFor(public))
	if err != nil {
		s.log.WithError(err).Error("Error issuing token")
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: public, Token: token}, nil
}
