package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ilungi/gestora-api/internal/core/domain"
	"github.com/ilungi/gestora-api/internal/core/ports"
)

// stubTaskService lets each test plug in just the method it exercises.
type stubTaskService struct {
	listFn         func(ctx context.Context, caller domain.Caller) ([]*domain.Task, error)
	getFn          func(ctx context.Context, caller domain.Caller, taskID string) (*domain.Task, error)
	createFn       func(ctx context.Context, caller domain.Caller, in ports.CreateTaskInput) (*domain.Task, error)
	updateStatusFn func(ctx context.Context, caller domain.Caller, taskID string, status domain.TaskStatus) (*domain.Task, error)
}

func (s *stubTaskService) List(ctx context.Context, caller domain.Caller) ([]*domain.Task, error) {
	return s.listFn(ctx, caller)
}

func (s *stubTaskService) Get(ctx context.Context, caller domain.Caller, taskID string) (*domain.Task, error) {
	return s.getFn(ctx, caller, taskID)
}

func (s *stubTaskService) Create(ctx context.Context, caller domain.Caller, in ports.CreateTaskInput) (*domain.Task, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubTaskService) CreateWithResponsibles(context.Context, ports.AdminCreateTaskInput) (*domain.Task, error) {
	panic("not wired")
}

func (s *stubTaskService) Update(context.Context, domain.Caller, string, ports.UpdateTaskInput) (*domain.Task, error) {
	panic("not wired")
}

func (s *stubTaskService) UpdateStatus(ctx context.Context, caller domain.Caller, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	return s.updateStatusFn(ctx, caller, taskID, status)
}

func (s *stubTaskService) Delete(context.Context, domain.Caller, string) error {
	panic("not wired")
}

func (s *stubTaskService) Assign(context.Context, string, string) (*domain.Task, error) {
	panic("not wired")
}

func (s *stubTaskService) AssignMany(context.Context, string, []string) (*domain.Task, error) {
	panic("not wired")
}

func (s *stubTaskService) Unassign(context.Context, string, string) (*domain.Task, error) {
	panic("not wired")
}

func (s *stubTaskService) TasksByUser(context.Context, string) ([]*domain.Task, error) {
	panic("not wired")
}

func (s *stubTaskService) MyStats(context.Context, domain.Caller) (*ports.TaskStats, error) {
	panic("not wired")
}

func (s *stubTaskService) SystemStats(context.Context) (*ports.SystemStats, error) {
	panic("not wired")
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asCaller(c echo.Context, id string, role domain.Role) {
	c.Set("user_id", id)
	c.Set("role", string(role))
	c.Set("email", id+"@example.com")
}

func TestTaskHandler_List_PassesCaller(t *testing.T) {
	svc := &stubTaskService{
		listFn: func(_ context.Context, caller domain.Caller) ([]*domain.Task, error) {
			if caller.ID != "u1" || caller.Role != domain.RoleUser {
				t.Fatalf("unexpected caller: %+v", caller)
			}
			return []*domain.Task{{ID: "t1", Title: "one", Responsibles: []string{"u1"}}}, nil
		},
	}
	h := NewTaskHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/tasks", "")
	asCaller(c, "u1", domain.RoleUser)

	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp taskListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Data[0].ID != "t1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestTaskHandler_List_MissingClaims(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{})

	c, _ := newTestContext(t, http.MethodGet, "/tasks", "")

	err := h.List(c)
	var he *echo.HTTPError
	if err == nil || !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestTaskHandler_Create_BindAndValidate(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{})

	c, _ := newTestContext(t, http.MethodPost, "/tasks", `{"description":"no title"}`)
	asCaller(c, "u1", domain.RoleUser)

	err := h.Create(c)
	var he *echo.HTTPError
	if err == nil || !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %v", err)
	}
}

func TestTaskHandler_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{
		updateStatusFn: func(context.Context, domain.Caller, string, domain.TaskStatus) (*domain.Task, error) {
			t.Fatalf("service must not be reached with an out-of-enum status")
			return nil, nil
		},
	})

	c, _ := newTestContext(t, http.MethodPatch, "/tasks/t9/status", `{"status":"BANANA"}`)
	c.SetParamNames("id")
	c.SetParamValues("t9")
	asCaller(c, "u1", domain.RoleUser)

	err := h.UpdateStatus(c)
	var he *echo.HTTPError
	if err == nil || !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %v", err)
	}
}

func TestTaskHandler_UpdateStatus_PassesVerbatim(t *testing.T) {
	var gotStatus domain.TaskStatus
	svc := &stubTaskService{
		updateStatusFn: func(_ context.Context, _ domain.Caller, taskID string, status domain.TaskStatus) (*domain.Task, error) {
			if taskID != "t9" {
				t.Fatalf("unexpected task id %q", taskID)
			}
			gotStatus = status
			return &domain.Task{ID: taskID, Status: status, Responsibles: []string{"u1"}}, nil
		},
	}
	h := NewTaskHandler(svc)

	c, rec := newTestContext(t, http.MethodPatch, "/tasks/t9/status", `{"status":"DONE"}`)
	c.SetParamNames("id")
	c.SetParamValues("t9")
	asCaller(c, "u1", domain.RoleUser)

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotStatus != domain.StatusDone {
		t.Fatalf("expected DONE passed through, got %s", gotStatus)
	}
}
