package handler

import (
	"time"

	"github.com/ilungi/gestora-api/internal/core/domain"
	"github.com/ilungi/gestora-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateTaskInput(req createTaskRequest) ports.CreateTaskInput {
	return ports.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		DaysToFinish: req.DaysToFinish,
		Responsibles: req.Responsibles,
	}
}

func toAdminCreateTaskInput(req createTaskRequest) ports.AdminCreateTaskInput {
	return ports.AdminCreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		DaysToFinish: req.DaysToFinish,
		Responsibles: req.Responsibles,
	}
}

func toUpdateTaskInput(req updateTaskRequest) ports.UpdateTaskInput {
	in := ports.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		EndDate:      req.EndDate,
		Responsibles: req.Responsibles,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		in.Status = &status
	}
	return in
}

// --- Service result → HTTP response ---

func toTaskResponse(t *domain.Task) taskResponse {
	resp := taskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt.UTC().Format(time.RFC3339),
		DaysToFinish: t.DaysToFinish,
		Responsibles: t.Responsibles,
		CreatedBy:    t.CreatedBy,
	}
	if resp.Responsibles == nil {
		resp.Responsibles = []string{}
	}
	if !t.EndDate.IsZero() {
		resp.EndDate = t.EndDate.UTC().Format(time.RFC3339)
	}
	return resp
}

func toTaskListResponse(tasks []*domain.Task) taskListResponse {
	items := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		items[i] = toTaskResponse(t)
	}
	return taskListResponse{Data: items, Total: len(items)}
}
