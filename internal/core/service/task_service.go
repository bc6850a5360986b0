package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ilungi/gestora-api/internal/core/domain"
	"github.com/ilungi/gestora-api/internal/core/ports"
)

// TaskService gates every task read and write by the caller's role and
// responsibility membership, and applies the role-asymmetric mutation rules.
type TaskService struct {
	tasks    ports.TaskRepository
	users    ports.UserRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, notifier ports.Notifier, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, notifier: notifier, logger: logger}
}

// List returns all tasks for admins and the caller's responsible subset
// otherwise. No pagination, persistence order.
func (s *TaskService) List(ctx context.Context, caller domain.Caller) ([]*domain.Task, error) {
	switch caller.Role {
	case domain.RoleAdmin:
		return s.tasks.FindAll(ctx)
	case domain.RoleUser:
		return s.tasks.FindByResponsible(ctx, caller.ID)
	default:
		return nil, fmt.Errorf("list tasks: %w: unknown role %q", domain.ErrForbidden, caller.Role)
	}
}

// Get returns a single task, enforcing the visibility rule: admins see
// everything, non-admins must be in the responsibles set.
func (s *TaskService) Get(ctx context.Context, caller domain.Caller, taskID string) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case domain.RoleAdmin:
		return task, nil
	case domain.RoleUser:
		if !task.IsResponsible(caller.ID) {
			return nil, fmt.Errorf("%w: not authorized to view this task", domain.ErrForbidden)
		}
		return task, nil
	default:
		return nil, fmt.Errorf("get task: %w: unknown role %q", domain.ErrForbidden, caller.Role)
	}
}

// Create is the self-service entry point. A non-admin caller must be part of
// the responsibles set it supplies; an empty set auto-assigns the caller as
// sole responsible. The caller is always recorded as creator.
func (s *TaskService) Create(ctx context.Context, caller domain.Caller, in ports.CreateTaskInput) (*domain.Task, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	if caller.Role != domain.RoleAdmin && len(in.Responsibles) > 0 {
		found := false
		for _, id := range in.Responsibles {
			if id == caller.ID {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: users can only create tasks they are responsible for", domain.ErrForbidden)
		}
	}

	responsibles := in.Responsibles
	if len(responsibles) == 0 {
		responsibles = []string{caller.ID}
	}

	// All-or-nothing: every listed responsible must already exist.
	users, err := s.resolveAll(ctx, responsibles)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:        in.Title,
		Description:  in.Description,
		Status:       statusOrDefault(in.Status),
		CreatedAt:    now,
		DaysToFinish: in.DaysToFinish,
		EndDate:      endDate(now, in.DaysToFinish),
		Responsibles: uniqueIDs(users),
		CreatedBy:    caller.ID,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		s.logger.Error().Err(err).Str("title", in.Title).Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().Str("task_id", created.ID).Str("created_by", caller.ID).Msg("task created")

	s.notifyResponsibles(created, users)
	return created, nil
}

// CreateWithResponsibles is the admin batch-create entry point. The
// responsibles list must be non-empty and resolve completely; a single
// unresolved id fails the whole call and creates nothing. No creator is
// recorded on this path.
func (s *TaskService) CreateWithResponsibles(ctx context.Context, in ports.AdminCreateTaskInput) (*domain.Task, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if len(in.Responsibles) == 0 {
		return nil, fmt.Errorf("%w: at least one responsible is required", domain.ErrValidation)
	}

	users, err := s.resolveAll(ctx, in.Responsibles)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:        in.Title,
		Description:  in.Description,
		Status:       statusOrDefault(in.Status),
		CreatedAt:    now,
		DaysToFinish: in.DaysToFinish,
		EndDate:      endDate(now, in.DaysToFinish),
		Responsibles: uniqueIDs(users),
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		s.logger.Error().Err(err).Str("title", in.Title).Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().Str("task_id", created.ID).Int("responsibles", len(created.Responsibles)).Msg("task created by admin")

	s.notifyResponsibles(created, users)
	return created, nil
}

// Update applies a role-asymmetric patch after the visibility check.
// Non-admin responsibles may change title, description and status; end date
// and responsibles changes from them are silently ignored, not rejected.
// Admins may additionally set the end date and fully replace the
// responsibles set.
func (s *TaskService) Update(ctx context.Context, caller domain.Caller, taskID string, in ports.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.Get(ctx, caller, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		st, ok := domain.ParseTaskStatus(string(*in.Status))
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *in.Status)
		}
		task.Status = st
	}

	var newlyAssigned []*domain.User
	if caller.Role == domain.RoleAdmin {
		if in.EndDate != nil {
			end, perr := time.Parse(time.RFC3339, *in.EndDate)
			if perr != nil {
				return nil, fmt.Errorf("%w: end_date must be RFC 3339", domain.ErrValidation)
			}
			task.EndDate = end.UTC()
		}
		if in.Responsibles != nil {
			users, rerr := s.resolveAll(ctx, in.Responsibles)
			if rerr != nil {
				return nil, rerr
			}
			previous := task.Responsibles
			task.Responsibles = uniqueIDs(users)
			for _, u := range users {
				if !contains(previous, u.ID) {
					newlyAssigned = append(newlyAssigned, u)
				}
			}
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("task_id", taskID).Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().Str("task_id", taskID).Str("caller", caller.ID).Msg("task updated")
	s.notifyResponsibles(task, newlyAssigned)
	return task, nil
}

// UpdateStatus writes a status from the known set without any transition
// guard. The caller must be in the responsibles set; this narrow entry point
// grants no admin bypass.
func (s *TaskService) UpdateStatus(ctx context.Context, caller domain.Caller, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	st, ok := domain.ParseTaskStatus(string(status))
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsResponsible(caller.ID) {
		return nil, fmt.Errorf("%w: only responsibles can update the status of this task", domain.ErrForbidden)
	}

	task.Status = st
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info().Str("task_id", taskID).Str("status", string(status)).Str("caller", caller.ID).Msg("task status updated")
	return task, nil
}

// Delete removes a task. The visibility check runs first; non-admin callers
// must additionally be responsible members.
func (s *TaskService) Delete(ctx context.Context, caller domain.Caller, taskID string) error {
	task, err := s.Get(ctx, caller, taskID)
	if err != nil {
		return err
	}

	if caller.Role != domain.RoleAdmin && !task.IsResponsible(caller.ID) {
		return fmt.Errorf("%w: only responsibles can delete this task", domain.ErrForbidden)
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}

	s.logger.Info().Str("task_id", taskID).Str("caller", caller.ID).Msg("task deleted")
	return nil
}

// Assign adds a user to the responsibles set. Idempotent: re-adding an
// existing member changes nothing and sends no mail.
func (s *TaskService) Assign(ctx context.Context, taskID, userID string) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if task.AddResponsible(user.ID) {
		if err := s.tasks.Update(ctx, task); err != nil {
			return nil, err
		}
		s.notifyResponsibles(task, []*domain.User{user})
	}
	return task, nil
}

// AssignMany adds several users via batch lookup. Ids that do not resolve are
// dropped silently, not reported; this intentionally differs from the
// all-or-nothing create path.
func (s *TaskService) AssignMany(ctx context.Context, taskID string, userIDs []string) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	var added []*domain.User
	for _, u := range users {
		if task.AddResponsible(u.ID) {
			added = append(added, u)
		}
	}

	if len(added) > 0 {
		if err := s.tasks.Update(ctx, task); err != nil {
			return nil, err
		}
		s.notifyResponsibles(task, added)
	}
	return task, nil
}

// Unassign removes a user from the responsibles set. No-op when the user is
// not a member, but both ids must still resolve.
func (s *TaskService) Unassign(ctx context.Context, taskID, userID string) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	task.RemoveResponsible(user.ID)
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// TasksByUser lists the tasks a given user is responsible for.
func (s *TaskService) TasksByUser(ctx context.Context, userID string) ([]*domain.Task, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.tasks.FindByResponsible(ctx, userID)
}

// MyStats returns the caller's task counts grouped by status.
func (s *TaskService) MyStats(ctx context.Context, caller domain.Caller) (*ports.TaskStats, error) {
	tasks, err := s.tasks.FindByResponsible(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return countByStatus(tasks), nil
}

// SystemStats returns system-wide user and task aggregates.
func (s *TaskService) SystemStats(ctx context.Context) (*ports.SystemStats, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ports.SystemStats{
		TotalUsers: int64(len(users)),
		TaskStats:  *countByStatus(tasks),
		TotalTasks: int64(len(tasks)),
	}
	for _, u := range users {
		switch u.Role {
		case domain.RoleAdmin:
			stats.AdminUsers++
		case domain.RoleUser:
			stats.RegularUsers++
		}
	}
	return stats, nil
}

// resolveAll looks up every id individually and fails with the wrapped
// not-found error naming the first id that does not resolve.
func (s *TaskService) resolveAll(ctx context.Context, ids []string) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("responsible %s: %w", id, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// notifyResponsibles fans out one assignment notification per user. Enqueue
// never blocks; failures inside the notifier are logged there and never
// surface here.
func (s *TaskService) notifyResponsibles(task *domain.Task, users []*domain.User) {
	for _, u := range users {
		s.notifier.Enqueue(ports.Notification{
			Kind:      domain.EmailKindTaskAssignment,
			Recipient: u.Email,
			Subject:   "New task assigned - " + task.Title,
			Body:      taskAssignmentBody(u.Name, task),
			TaskID:    task.ID,
			UserID:    u.ID,
		})
	}
}

func taskAssignmentBody(name string, task *domain.Task) string {
	deadline := "not set"
	if !task.EndDate.IsZero() {
		deadline = task.EndDate.Format("02/01/2006 15:04")
	}
	return fmt.Sprintf(
		"Hello %s,\n\n"+
			"You have been assigned as responsible for a task.\n\n"+
			"Title: %s\n"+
			"Description: %s\n"+
			"Status: %s\n"+
			"Deadline: %s\n\n"+
			"Best regards,\nGestora Task Management",
		name, task.Title, task.Description, task.Status, deadline,
	)
}

// statusOrDefault maps unknown or empty status strings to PENDING.
func statusOrDefault(s string) domain.TaskStatus {
	if st, ok := domain.ParseTaskStatus(s); ok {
		return st
	}
	return domain.StatusPending
}

// endDate computes creation-instant + daysToFinish. Zero when daysToFinish is
// not positive.
func endDate(from time.Time, daysToFinish int) time.Time {
	if daysToFinish <= 0 {
		return time.Time{}
	}
	return from.AddDate(0, 0, daysToFinish)
}

func countByStatus(tasks []*domain.Task) *ports.TaskStats {
	stats := &ports.TaskStats{Total: int64(len(tasks))}
	for _, t := range tasks {
		switch t.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusDoing:
			stats.Doing++
		case domain.StatusDone:
			stats.Done++
		}
	}
	return stats
}

func uniqueIDs(users []*domain.User) []string {
	seen := make(map[string]struct{}, len(users))
	ids := make([]string, 0, len(users))
	for _, u := range users {
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		ids = append(ids, u.ID)
	}
	return ids
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
