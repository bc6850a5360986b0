package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ilungi/gestora-api/internal/api/metrics"
	"github.com/ilungi/gestora-api/internal/core/domain"
	"github.com/ilungi/gestora-api/internal/core/ports"
)

// AdminHandler serves the /admin routes. The RBAC middleware guarantees every
// caller here holds the ADMIN role.
type AdminHandler struct {
	tasks ports.TaskService
	users ports.UserService
}

func NewAdminHandler(tasks ports.TaskService, users ports.UserService) *AdminHandler {
	return &AdminHandler{tasks: tasks, users: users}
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Role  *string `json:"role"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN USER"`
}

type dashboardResponse struct {
	Stats *ports.SystemStats   `json:"stats"`
	Users []*ports.UserSummary `json:"users"`
}

// --- Task management ---

// ListTasks handles GET /admin/tasks.
//
// @Summary      List every task in the system
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  taskListResponse
// @Router       /admin/tasks [get]
func (h *AdminHandler) ListTasks(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskListResponse(tasks))
}

// CreateTask handles POST /admin/tasks: the batch-create path with mandatory
// responsibles and all-or-nothing id resolution.
//
// @Summary      Create a task and assign responsibles
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details with responsibles"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/tasks [post]
func (h *AdminHandler) CreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.tasks.CreateWithResponsibles(c.Request().Context(), toAdminCreateTaskInput(req))
	if err != nil {
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues("admin").Inc()
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// TasksByUser handles GET /admin/tasks/user/:userId.
//
// @Summary      List the tasks a user is responsible for
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  taskListResponse
// @Router       /admin/tasks/user/{userId} [get]
func (h *AdminHandler) TasksByUser(c echo.Context) error {
	tasks, err := h.tasks.TasksByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskListResponse(tasks))
}

// Assign handles POST /admin/tasks/:id/assign/:userId. Idempotent.
//
// @Summary      Add a responsible to a task
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Task id"
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  taskResponse
// @Failure      404     {object}  map[string]string
// @Router       /admin/tasks/{id}/assign/{userId} [post]
func (h *AdminHandler) Assign(c echo.Context) error {
	task, err := h.tasks.Assign(c.Request().Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// AssignMultiple handles POST /admin/tasks/:id/assign-multiple. Ids that do
// not resolve are skipped, not rejected.
//
// @Summary      Add several responsibles to a task
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Task id"
// @Param        body  body      assignMultipleRequest  true  "User ids"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/tasks/{id}/assign-multiple [post]
func (h *AdminHandler) AssignMultiple(c echo.Context) error {
	var req assignMultipleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.tasks.AssignMany(c.Request().Context(), c.Param("id"), req.UserIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Unassign handles DELETE /admin/tasks/:id/assign/:userId.
//
// @Summary      Remove a responsible from a task
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Task id"
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  taskResponse
// @Failure      404     {object}  map[string]string
// @Router       /admin/tasks/{id}/assign/{userId} [delete]
func (h *AdminHandler) Unassign(c echo.Context) error {
	task, err := h.tasks.Unassign(c.Request().Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// --- Aggregates ---

// Stats handles GET /admin/stats.
//
// @Summary      System-wide user and task aggregates
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.SystemStats
// @Router       /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.tasks.SystemStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Dashboard handles GET /admin/dashboard: the stats plus the per-user summary
// list the admin UI renders on its landing page.
//
// @Summary      Admin dashboard aggregate
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.tasks.SystemStats(ctx)
	if err != nil {
		return err
	}
	users, err := h.users.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{Stats: stats, Users: users})
}

// --- User management ---

// ListUsers handles GET /admin/users.
//
// @Summary      List all users with task counts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.UserSummary
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser handles GET /admin/users/:id.
//
// @Summary      Get one user with task stats
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200  {object}  ports.UserDetail
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	detail, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// CreateUser handles POST /admin/users. A temporary password is generated and
// mailed to the new user; the admin address gets an alert.
//
// @Summary      Invite a new user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.CreateUser(c.Request().Context(), ports.AdminCreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Position: req.Position,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PUT /admin/users/:id.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	in := ports.UpdateUserInput{Name: req.Name, Phone: req.Phone}
	if req.Role != nil {
		role, ok := domain.ParseRole(*req.Role)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
		}
		in.Role = &role
	}

	user, err := h.users.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /admin/users/:id. Rejected while the user still
// appears in any task's responsibles set.
//
// @Summary      Delete a user
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangeRole handles PATCH /admin/users/:id/role.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id}/role [patch]
func (h *AdminHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	user, err := h.users.ChangeRole(c.Request().Context(), c.Param("id"), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UsersByRole handles GET /admin/users/by-role/:role.
//
// @Summary      List users holding a given role
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role  path      string  true  "ADMIN or USER"
// @Success      200   {array}   ports.UserSummary
// @Failure      400   {object}  map[string]string
// @Router       /admin/users/by-role/{role} [get]
func (h *AdminHandler) UsersByRole(c echo.Context) error {
	role, ok := domain.ParseRole(c.Param("role"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	users, err := h.users.FindByRole(c.Request().Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
