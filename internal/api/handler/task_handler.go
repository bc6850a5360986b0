package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ilungi/gestora-api/internal/api/metrics"
	"github.com/ilungi/gestora-api/internal/core/domain"
	"github.com/ilungi/gestora-api/internal/core/ports"
)

// TaskHandler serves the authenticated, role-scoped task routes. Visibility
// and permission checks live in the service; the handler only resolves the
// caller and shapes the payloads.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /tasks.
//
// @Summary      List tasks visible to the caller
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  taskListResponse
// @Failure      401  {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskListResponse(tasks))
}

// MyTasks handles GET /tasks/my-tasks: the caller's own membership list,
// regardless of role.
//
// @Summary      List tasks the caller is responsible for
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  taskListResponse
// @Router       /tasks/my-tasks [get]
func (h *TaskHandler) MyTasks(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.TasksByUser(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskListResponse(tasks))
}

// MyStats handles GET /tasks/my-stats.
//
// @Summary      Per-status counts for the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.TaskStats
// @Router       /tasks/my-stats [get]
func (h *TaskHandler) MyStats(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	stats, err := h.service.MyStats(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Get handles GET /tasks/:id.
//
// @Summary      Get a single task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Task id"
// @Success      200  {object}  taskResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Create handles POST /tasks: the self-service creation path.
//
// @Summary      Create a task for yourself
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.service.Create(c.Request().Context(), caller, toCreateTaskInput(req))
	if err != nil {
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues("self_service").Inc()
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Update handles PUT /tasks/:id. Which fields actually apply depends on the
// caller's role; disallowed fields are dropped silently.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), toUpdateTaskInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// UpdateStatus handles PATCH /tasks/:id/status. Membership in the
// responsibles set is required for every caller, admins included.
//
// @Summary      Update a task's status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Task id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id}/status [patch]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.service.UpdateStatus(c.Request().Context(), caller, c.Param("id"), domain.TaskStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete handles DELETE /tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id  path  string  true  "Task id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
