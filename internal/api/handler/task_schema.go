package handler

// --- Request types ---

type createTaskRequest struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	DaysToFinish int      `json:"daysToFinish"`
	Responsibles []string `json:"responsibles"`
}

type updateTaskRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Status       *string  `json:"status" validate:"omitempty,oneof=PENDING DOING DONE"`
	EndDate      *string  `json:"endDate"`
	Responsibles []string `json:"responsibles"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING DOING DONE"`
}

type assignMultipleRequest struct {
	UserIDs []string `json:"userIds" validate:"required,min=1"`
}

// --- Response types ---

type taskResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	CreatedAt    string   `json:"createdAt"`
	EndDate      string   `json:"endDate,omitempty"`
	DaysToFinish int      `json:"daysToFinish,omitempty"`
	Responsibles []string `json:"responsibles"`
	CreatedBy    string   `json:"createdBy,omitempty"`
}

type taskListResponse struct {
	Data  []taskResponse `json:"data"`
	Total int            `json:"total"`
}
