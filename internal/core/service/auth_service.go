package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ilungi/gestora-api/internal/core/domain"
	"github.com/ilungi/gestora-api/internal/core/ports"
)

// resetTokenTTL bounds how long a mailed recovery token stays redeemable.
const resetTokenTTL = 24 * time.Hour

// AuthService implements registration, login, password changes and password
// recovery.
type AuthService struct {
	users     ports.UserRepository
	notifier  ports.Notifier
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, notifier ports.Notifier, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, notifier: notifier, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates a user with the default USER role and returns a token for
// it. The email-existence pre-check here is an optimization only; the unique
// index on users.email is the authoritative guard against the
// check-then-insert race.
func (s *AuthService) Register(ctx context.Context, name, email, password, phone string) (string, *domain.User, error) {
	if email == "" {
		return "", nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if password == "" {
		return "", nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        phone,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return "", nil, err
	}
	return token, created, nil
}

// Login verifies credentials and mints a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ChangePassword verifies the current password, stores the new hash and
// clears the must-change-password flag set by the invite flow.
func (s *AuthService) ChangePassword(ctx context.Context, caller domain.Caller, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}

	user, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.MustChangePassword = false
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

// ForgotPassword issues a recovery token and mails it to the address. An
// unknown address succeeds silently so the endpoint cannot be used to probe
// which emails have accounts. The invite token slot stores the token; only
// one credential token is live per user at a time.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token := generateResetToken()
	expiry := time.Now().UTC().Add(resetTokenTTL)
	user.InviteToken = token
	user.InviteTokenExpiry = &expiry
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.notifier.Enqueue(ports.Notification{
		Kind:      domain.EmailKindPasswordRecovery,
		Recipient: user.Email,
		Subject:   "Password Recovery - Gestora Task Management",
		Body:      passwordRecoveryBody(token),
	})
	return nil
}

// ResetPassword redeems a recovery token. Unknown email, wrong token and
// expired token are indistinguishable to the caller. The token is consumed on
// success.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}

	if token == "" || user.InviteToken == "" || user.InviteToken != token {
		return domain.ErrInvalidCredentials
	}
	if user.InviteTokenExpiry == nil || time.Now().UTC().After(*user.InviteTokenExpiry) {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.MustChangePassword = false
	user.InviteToken = ""
	user.InviteTokenExpiry = nil
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

func passwordRecoveryBody(token string) string {
	return fmt.Sprintf(
		"Hello,\n\n"+
			"You requested a password reset.\n"+
			"Use the following token to reset your password:\n\n"+
			"Token: %s\n\n"+
			"This token expires in 24 hours.\n\n"+
			"Best regards,\nGestora Task Management",
		token,
	)
}

// generateToken signs the identity claims the middleware trusts for the
// token's lifetime: subject email, user id and role. Role changes do not
// invalidate already-issued tokens.
func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":     user.Email,
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
