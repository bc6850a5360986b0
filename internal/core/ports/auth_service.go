package ports

import (
	"context"

	"github.com/ilungi/gestora-api/internal/core/domain"
)

// AuthService implements registration, login, password changes and password
// recovery.
type AuthService interface {
	// Register creates a user with the default USER role and returns the
	// created user together with a freshly minted token.
	Register(ctx context.Context, name, email, password, phone string) (string, *domain.User, error)
	// Login verifies credentials and mints a token carrying subject email,
	// user id and role.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// ChangePassword sets a new password for the authenticated user and
	// clears the must-change-password flag.
	ChangePassword(ctx context.Context, caller domain.Caller, currentPassword, newPassword string) error
	// ForgotPassword issues a time-limited recovery token and mails it to the
	// address. Whether the address has an account is never revealed.
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword redeems a recovery token issued by ForgotPassword and
	// stores the new password.
	ResetPassword(ctx context.Context, email, token, newPassword string) error
}
