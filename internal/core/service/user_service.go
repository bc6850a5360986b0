package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ilungi/gestora-api/internal/core/domain"
	"github.com/ilungi/gestora-api/internal/core/ports"
)

// UserService implements user management. Admin-only operations are guarded
// at the route level by the RBAC middleware.
type UserService struct {
	users      ports.UserRepository
	tasks      ports.TaskRepository
	notifier   ports.Notifier
	adminEmail string
	logger     zerolog.Logger
}

func NewUserService(users ports.UserRepository, tasks ports.TaskRepository, notifier ports.Notifier, adminEmail string, logger zerolog.Logger) *UserService {
	return &UserService{users: users, tasks: tasks, notifier: notifier, adminEmail: adminEmail, logger: logger}
}

// List returns all users with their task membership counts.
func (s *UserService) List(ctx context.Context) ([]*ports.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, users)
}

// Get returns a single user with per-status stats over their assigned tasks.
func (s *UserService) Get(ctx context.Context, id string) (*ports.UserDetail, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.FindByResponsible(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.UserDetail{User: user, TaskStats: *countByStatus(tasks)}, nil
}

// CreateUser is the admin invite path: a temporary password is generated and
// mailed to the new user, the admin address gets a registration alert, and
// the account is flagged to force a password change on first login. The
// pre-check on email existence is an optimization; the unique index is the
// real guard.
func (s *UserService) CreateUser(ctx context.Context, in ports.AdminCreateUserInput) (*domain.User, error) {
	if in.Email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	role := domain.RoleUser
	if r, ok := domain.ParseRole(in.Role); ok {
		role = r
	}

	tempPassword := generateTempPassword()
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:               in.Name,
		Email:              in.Email,
		PasswordHash:       string(hash),
		Phone:              in.Phone,
		Position:           in.Position,
		Role:               role,
		MustChangePassword: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Str("role", string(created.Role)).Msg("user created by admin")

	s.notifier.Enqueue(ports.Notification{
		Kind:      domain.EmailKindWelcome,
		Recipient: created.Email,
		Subject:   "Welcome to Gestora!",
		Body:      welcomeBody(created.Name, created.Email, tempPassword),
		UserID:    created.ID,
	})
	s.notifier.Enqueue(ports.Notification{
		Kind:      domain.EmailKindAdminNewUser,
		Recipient: s.adminEmail,
		Subject:   "New user registered - Gestora",
		Body:      adminNewUserBody(created.Name, created.Email),
	})

	return created, nil
}

// Update patches name, phone and role.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user, rejected while the user is still in any task's
// responsibles set. Reassign first.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	assigned, err := s.tasks.CountByResponsible(ctx, id)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return fmt.Errorf("%w: reassign their tasks first", domain.ErrUserHasTasks)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// ChangeRole sets a new role on the user.
func (s *UserService) ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id).Str("role", string(role)).Msg("user role changed")
	return user, nil
}

// FindByRole lists users holding the given role, with task counts.
func (s *UserService) FindByRole(ctx context.Context, role domain.Role) ([]*ports.UserSummary, error) {
	users, err := s.users.FindByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, users)
}

// UpdateProfile patches the self-editable fields: name and phone.
func (s *UserService) UpdateProfile(ctx context.Context, id, name, phone string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	if phone != "" {
		user.Phone = phone
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword stores a new password hash for the user.
func (s *UserService) UpdatePassword(ctx context.Context, id, newPassword string) (*domain.User, error) {
	if len(newPassword) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)
	user.MustChangePassword = false
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) summarize(ctx context.Context, users []*domain.User) ([]*ports.UserSummary, error) {
	summaries := make([]*ports.UserSummary, 0, len(users))
	for _, u := range users {
		assigned, err := s.tasks.CountByResponsible(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		created, err := s.tasks.CountByCreator(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &ports.UserSummary{User: u, TaskCount: assigned, CreatedTaskCount: created})
	}
	return summaries, nil
}

func welcomeBody(name, email, tempPassword string) string {
	return fmt.Sprintf(
		"Hello %s,\n\n"+
			"Welcome to Gestora!\n\n"+
			"Your access credentials:\n"+
			"Email: %s\n"+
			"Password: %s\n\n"+
			"Please log in and change your password immediately.\n\n"+
			"Best regards,\nThe Gestora Team",
		name, email, tempPassword,
	)
}

func adminNewUserBody(name, email string) string {
	return fmt.Sprintf(
		"Administrator,\n\n"+
			"A new user has been registered:\n\n"+
			"Name: %s\n"+
			"Email: %s\n"+
			"Date: %s\n\n"+
			"Best regards,\nGestora",
		name, email, time.Now().UTC().Format(time.RFC3339),
	)
}
