package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ilungi/gestora-api/internal/core/domain"
	"github.com/ilungi/gestora-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	order []string
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) add(name, email string, role domain.Role) *domain.User {
	r.seq++
	u := &domain.User{
		ID:    fmt.Sprintf("u%d", r.seq),
		Name:  name,
		Email: email,
		Role:  role,
	}
	r.users[u.ID] = u
	r.order = append(r.order, u.ID)
	return cloneUser(u)
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("u%d", r.seq)
	r.users[clone.ID] = cloneUser(clone)
	r.order = append(r.order, clone.ID)
	return clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range r.order {
		if r.users[id].Role == role {
			out = append(out, cloneUser(r.users[id]))
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneUser(r.users[id]))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type stubTaskRepo struct {
	tasks map[string]*domain.Task
	order []string
	seq   int
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	if t == nil {
		return nil
	}
	clone := *t
	clone.Responsibles = append([]string(nil), t.Responsibles...)
	return &clone
}

func (r *stubTaskRepo) add(title string, status domain.TaskStatus, responsibles ...string) *domain.Task {
	t, _ := r.Create(context.Background(), &domain.Task{
		Title:        title,
		Status:       status,
		Responsibles: responsibles,
	})
	return t
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	r.seq++
	clone := cloneTask(t)
	clone.ID = fmt.Sprintf("t%d", r.seq)
	r.tasks[clone.ID] = cloneTask(clone)
	r.order = append(r.order, clone.ID)
	return clone, nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) FindAll(_ context.Context) ([]*domain.Task, error) {
	out := make([]*domain.Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneTask(r.tasks[id]))
	}
	return out, nil
}

func (r *stubTaskRepo) FindByResponsible(_ context.Context, userID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, id := range r.order {
		if r.tasks[id].IsResponsible(userID) {
			out = append(out, cloneTask(r.tasks[id]))
		}
	}
	return out, nil
}

func (r *stubTaskRepo) CountByResponsible(_ context.Context, userID string) (int64, error) {
	tasks, _ := r.FindByResponsible(context.Background(), userID)
	return int64(len(tasks)), nil
}

func (r *stubTaskRepo) CountByCreator(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, t := range r.tasks {
		if t.CreatedBy == userID {
			n++
		}
	}
	return n, nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.tasks[t.ID] = cloneTask(t)
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type stubNotifier struct {
	sent []ports.Notification
}

func (n *stubNotifier) Enqueue(notification ports.Notification) {
	n.sent = append(n.sent, notification)
}

func (n *stubNotifier) recipients() []string {
	out := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.Recipient)
	}
	return out
}

func newTaskFixture() (*TaskService, *stubTaskRepo, *stubUserRepo, *stubNotifier) {
	tasks := newStubTaskRepo()
	users := newStubUserRepo()
	notifier := &stubNotifier{}
	svc := NewTaskService(tasks, users, notifier, zerolog.Nop())
	return svc, tasks, users, notifier
}

// ---------------------------------------------------------------------------
// Visibility
// ---------------------------------------------------------------------------

func TestTaskService_List_RoleFiltered(t *testing.T) {
	svc, tasks, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	bob := users.add("Bob", "bob@example.com", domain.RoleUser)
	admin := users.add("Root", "root@example.com", domain.RoleAdmin)

	tasks.add("one", domain.StatusPending, alice.ID)
	tasks.add("two", domain.StatusPending, bob.ID)
	tasks.add("three", domain.StatusPending, alice.ID, bob.ID)

	got, err := svc.List(context.Background(), domain.Caller{ID: alice.ID, Role: alice.Role})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected alice to see 2 tasks, got %d", len(got))
	}
	for _, task := range got {
		if !task.IsResponsible(alice.ID) {
			t.Fatalf("task %s leaked to non-member", task.ID)
		}
	}

	got, err = svc.List(context.Background(), domain.Caller{ID: admin.ID, Role: admin.Role})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected admin to see all 3 tasks, got %d", len(got))
	}
}

func TestTaskService_Get_Visibility(t *testing.T) {
	svc, tasks, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	mallory := users.add("Mallory", "mallory@example.com", domain.RoleUser)
	admin := users.add("Root", "root@example.com", domain.RoleAdmin)

	task := tasks.add("secret", domain.StatusPending, alice.ID)

	if _, err := svc.Get(context.Background(), domain.Caller{ID: alice.ID, Role: alice.Role}, task.ID); err != nil {
		t.Fatalf("responsible should see the task: %v", err)
	}
	if _, err := svc.Get(context.Background(), domain.Caller{ID: admin.ID, Role: admin.Role}, task.ID); err != nil {
		t.Fatalf("admin should see the task: %v", err)
	}
	if _, err := svc.Get(context.Background(), domain.Caller{ID: mallory.ID, Role: mallory.Role}, task.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), domain.Caller{ID: alice.ID, Role: alice.Role}, "missing"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestTaskService_Create_EmptyResponsiblesAssignsCaller(t *testing.T) {
	svc, _, users, notifier := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)

	task, err := svc.Create(context.Background(), domain.Caller{ID: alice.ID, Role: alice.Role}, ports.CreateTaskInput{
		Title: "self task",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(task.Responsibles) != 1 || task.Responsibles[0] != alice.ID {
		t.Fatalf("expected caller as sole responsible, got %v", task.Responsibles)
	}
	if task.CreatedBy != alice.ID {
		t.Fatalf("expected creator %s, got %s", alice.ID, task.CreatedBy)
	}
	if task.Status != domain.StatusPending {
		t.Fatalf("expected default status PENDING, got %s", task.Status)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Recipient != alice.Email {
		t.Fatalf("expected one notification to creator, got %v", notifier.recipients())
	}
}

func TestTaskService_Create_CallerMustBeMember(t *testing.T) {
	svc, tasks, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	bob := users.add("Bob", "bob@example.com", domain.RoleUser)

	_, err := svc.Create(context.Background(), domain.Caller{ID: alice.ID, Role: alice.Role}, ports.CreateTaskInput{
		Title:        "for bob only",
		Responsibles: []string{bob.ID},
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(tasks.order) != 0 {
		t.Fatalf("no task should have been created")
	}
}

func TestTaskService_Create_TitleRequired(t *testing.T) {
	svc, _, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)

	_, err := svc.Create(context.Background(), domain.Caller{ID: alice.ID, Role: alice.Role}, ports.CreateTaskInput{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTaskService_CreateWithResponsibles_AllOrNothing(t *testing.T) {
	svc, tasks, users, notifier := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)

	_, err := svc.CreateWithResponsibles(context.Background(), ports.AdminCreateTaskInput{
		Title:        "report",
		Responsibles: []string{alice.ID, "ghost"},
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(tasks.order) != 0 {
		t.Fatalf("unresolved id must not create a task")
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("unresolved id must not notify anyone")
	}
}

func TestTaskService_CreateWithResponsibles_Defaults(t *testing.T) {
	svc, _, users, notifier := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	bob := users.add("Bob", "bob@example.com", domain.RoleUser)

	before := time.Now().UTC()
	task, err := svc.CreateWithResponsibles(context.Background(), ports.AdminCreateTaskInput{
		Title:        "report",
		Status:       "NOT_A_STATUS",
		DaysToFinish: 5,
		Responsibles: []string{alice.ID, bob.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if task.Status != domain.StatusPending {
		t.Fatalf("unknown status must default to PENDING, got %s", task.Status)
	}
	if task.CreatedBy != "" {
		t.Fatalf("admin batch-create records no creator, got %q", task.CreatedBy)
	}

	wantEnd := before.AddDate(0, 0, 5)
	if task.EndDate.Before(wantEnd.Add(-time.Minute)) || task.EndDate.After(wantEnd.Add(time.Minute)) {
		t.Fatalf("end date not near creation+5d: %v", task.EndDate)
	}

	if len(notifier.sent) != 2 {
		t.Fatalf("expected 2 notification attempts, got %d", len(notifier.sent))
	}
	for _, n := range notifier.sent {
		if n.Kind != domain.EmailKindTaskAssignment {
			t.Fatalf("unexpected notification kind %q", n.Kind)
		}
		if n.TaskID != task.ID {
			t.Fatalf("notification should carry task id")
		}
	}
}

func TestTaskService_CreateWithResponsibles_RequiresResponsibles(t *testing.T) {
	svc, _, _, _ := newTaskFixture()

	_, err := svc.CreateWithResponsibles(context.Background(), ports.AdminCreateTaskInput{Title: "orphan"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestTaskService_Update_NonAdminFieldsSilentlyDropped(t *testing.T) {
	svc, tasks, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	bob := users.add("Bob", "bob@example.com", domain.RoleUser)

	task := tasks.add("draft", domain.StatusPending, alice.ID)

	title := "final"
	status := domain.StatusDoing
	end := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	updated, err := svc.Update(context.Background(), domain.Caller{ID: alice.ID, Role: alice.Role}, task.ID, ports.UpdateTaskInput{
		Title:        &title,
		Status:       &status,
		EndDate:      &end,
		Responsibles: []string{bob.ID},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != "final" || updated.Status != domain.StatusDoing {
		t.Fatalf("allowed fields must apply: %+v", updated)
	}
	if len(updated.Responsibles) != 1 || updated.Responsibles[0] != alice.ID {
		t.Fatalf("responsibles change by non-admin must be ignored, got %v", updated.Responsibles)
	}
	if !updated.EndDate.IsZero() {
		t.Fatalf("end date change by non-admin must be ignored, got %v", updated.EndDate)
	}
}

func TestTaskService_Update_AdminReplacesResponsibles(t *testing.T) {
	svc, tasks, users, notifier := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	bob := users.add("Bob", "bob@example.com", domain.RoleUser)
	admin := users.add("Root", "root@example.com", domain.RoleAdmin)

	task := tasks.add("draft", domain.StatusPending, alice.ID)

	updated, err := svc.Update(context.Background(), domain.Caller{ID: admin.ID, Role: admin.Role}, task.ID, ports.UpdateTaskInput{
		Responsibles: []string{alice.ID, bob.ID},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Responsibles) != 2 {
		t.Fatalf("expected replacement set of 2, got %v", updated.Responsibles)
	}

	// Only the newly added member gets mail; alice was already assigned.
	if len(notifier.sent) != 1 || notifier.sent[0].Recipient != bob.Email {
		t.Fatalf("expected single notification to bob, got %v", notifier.recipients())
	}
}

// ---------------------------------------------------------------------------
// Status updates
// ---------------------------------------------------------------------------

func TestTaskService_UpdateStatus_ResponsibleSucceeds(t *testing.T) {
	svc, tasks, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	task := tasks.add("work", domain.StatusPending, alice.ID)

	updated, err := svc.UpdateStatus(context.Background(), domain.Caller{ID: alice.ID, Role: alice.Role}, task.ID, domain.StatusDone)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.StatusDone {
		t.Fatalf("expected DONE, got %s", updated.Status)
	}

	persisted, _ := tasks.FindByID(context.Background(), task.ID)
	if persisted.Status != domain.StatusDone {
		t.Fatalf("status not persisted")
	}
}

func TestTaskService_UpdateStatus_NoAdminBypass(t *testing.T) {
	svc, tasks, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	admin := users.add("Root", "root@example.com", domain.RoleAdmin)
	task := tasks.add("work", domain.StatusPending, alice.ID)

	_, err := svc.UpdateStatus(context.Background(), domain.Caller{ID: admin.ID, Role: admin.Role}, task.ID, domain.StatusDone)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("admins without membership must be rejected, got %v", err)
	}

	persisted, _ := tasks.FindByID(context.Background(), task.ID)
	if persisted.Status != domain.StatusPending {
		t.Fatalf("status must be unchanged after rejected update")
	}
}

func TestTaskService_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc, tasks, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	task := tasks.add("work", domain.StatusPending, alice.ID)

	_, err := svc.UpdateStatus(context.Background(), domain.Caller{ID: alice.ID, Role: alice.Role}, task.ID, domain.TaskStatus("BANANA"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}

	persisted, _ := tasks.FindByID(context.Background(), task.ID)
	if persisted.Status != domain.StatusPending {
		t.Fatalf("unknown status must not be persisted, got %s", persisted.Status)
	}
}

func TestTaskService_Update_RejectsUnknownStatus(t *testing.T) {
	svc, tasks, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	task := tasks.add("work", domain.StatusPending, alice.ID)

	bad := domain.TaskStatus("BANANA")
	_, err := svc.Update(context.Background(), domain.Caller{ID: alice.ID, Role: alice.Role}, task.ID, ports.UpdateTaskInput{
		Status: &bad,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}

	persisted, _ := tasks.FindByID(context.Background(), task.ID)
	if persisted.Status != domain.StatusPending {
		t.Fatalf("unknown status must not be persisted, got %s", persisted.Status)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestTaskService_Delete_NonMemberForbidden(t *testing.T) {
	svc, tasks, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	mallory := users.add("Mallory", "mallory@example.com", domain.RoleUser)
	task := tasks.add("keep", domain.StatusPending, alice.ID)

	err := svc.Delete(context.Background(), domain.Caller{ID: mallory.ID, Role: mallory.Role}, task.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := tasks.FindByID(context.Background(), task.ID); err != nil {
		t.Fatalf("task must survive a rejected delete: %v", err)
	}
}

func TestTaskService_Delete_AdminAlways(t *testing.T) {
	svc, tasks, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	admin := users.add("Root", "root@example.com", domain.RoleAdmin)
	task := tasks.add("gone", domain.StatusPending, alice.ID)

	if err := svc.Delete(context.Background(), domain.Caller{ID: admin.ID, Role: admin.Role}, task.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := tasks.FindByID(context.Background(), task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("task should be gone, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Assignment
// ---------------------------------------------------------------------------

func TestTaskService_Assign_Idempotent(t *testing.T) {
	svc, tasks, users, notifier := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	task := tasks.add("shared", domain.StatusPending)

	if _, err := svc.Assign(context.Background(), task.ID, alice.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := svc.Assign(context.Background(), task.ID, alice.ID); err != nil {
		t.Fatalf("re-assign: %v", err)
	}

	persisted, _ := tasks.FindByID(context.Background(), task.ID)
	if len(persisted.Responsibles) != 1 {
		t.Fatalf("expected exactly one membership, got %v", persisted.Responsibles)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("re-assign must not re-notify, got %d notifications", len(notifier.sent))
	}
}

func TestTaskService_AssignMany_SkipsUnresolved(t *testing.T) {
	svc, tasks, users, notifier := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	bob := users.add("Bob", "bob@example.com", domain.RoleUser)
	task := tasks.add("shared", domain.StatusPending)

	updated, err := svc.AssignMany(context.Background(), task.ID, []string{alice.ID, "ghost", bob.ID})
	if err != nil {
		t.Fatalf("assign many: %v", err)
	}
	if len(updated.Responsibles) != 2 {
		t.Fatalf("expected 2 resolved members, got %v", updated.Responsibles)
	}
	if len(notifier.sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifier.sent))
	}
}

func TestTaskService_Unassign_NoOpWhenAbsent(t *testing.T) {
	svc, tasks, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	bob := users.add("Bob", "bob@example.com", domain.RoleUser)
	task := tasks.add("shared", domain.StatusPending, alice.ID)

	updated, err := svc.Unassign(context.Background(), task.ID, bob.ID)
	if err != nil {
		t.Fatalf("unassign of non-member should be a no-op: %v", err)
	}
	if len(updated.Responsibles) != 1 || updated.Responsibles[0] != alice.ID {
		t.Fatalf("membership must be unchanged, got %v", updated.Responsibles)
	}
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

func TestTaskService_MyStats(t *testing.T) {
	svc, tasks, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	bob := users.add("Bob", "bob@example.com", domain.RoleUser)

	tasks.add("a", domain.StatusPending, alice.ID)
	tasks.add("b", domain.StatusDoing, alice.ID)
	tasks.add("c", domain.StatusDone, alice.ID)
	tasks.add("d", domain.StatusDone, alice.ID)
	tasks.add("e", domain.StatusPending, bob.ID)

	stats, err := svc.MyStats(context.Background(), domain.Caller{ID: alice.ID, Role: alice.Role})
	if err != nil {
		t.Fatalf("my stats: %v", err)
	}
	if stats.Total != 4 || stats.Pending != 1 || stats.Doing != 1 || stats.Done != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestTaskService_SystemStats(t *testing.T) {
	svc, tasks, users, _ := newTaskFixture()
	alice := users.add("Alice", "alice@example.com", domain.RoleUser)
	users.add("Bob", "bob@example.com", domain.RoleUser)
	users.add("Root", "root@example.com", domain.RoleAdmin)

	tasks.add("a", domain.StatusPending, alice.ID)
	tasks.add("b", domain.StatusDone, alice.ID)

	stats, err := svc.SystemStats(context.Background())
	if err != nil {
		t.Fatalf("system stats: %v", err)
	}
	if stats.TotalUsers != 3 || stats.AdminUsers != 1 || stats.RegularUsers != 2 {
		t.Fatalf("unexpected user counts: %+v", stats)
	}
	if stats.TotalTasks != 2 || stats.TaskStats.Pending != 1 || stats.TaskStats.Done != 1 {
		t.Fatalf("unexpected task counts: %+v", stats)
	}
}
