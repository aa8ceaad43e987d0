package dto

// Dates are RFC 3339 timestamps or YYYY-MM-DD.
type CreateTaskRequest struct {
	Name         string   `json:"name" binding:"required,max=200"`
	Start        string   `json:"start" binding:"required"`
	End          string   `json:"end"`
	Progress     *int     `json:"progress" binding:"omitempty,min=0,max=100"`
	Type         string   `json:"type" binding:"omitempty,tasktype"`
	AssigneeID   string   `json:"assigneeId"`
	Dependencies []string `json:"dependencies"`
	DisplayOrder *int     `json:"displayOrder"`
}

type UpdateTaskRequest struct {
	Name         *string   `json:"name" binding:"omitempty,max=200"`
	Start        *string   `json:"start"`
	End          *string   `json:"end"`
	Progress     *int      `json:"progress" binding:"omitempty,min=0,max=100"`
	AutoProgress *bool     `json:"autoProgress"`
	Type         *string   `json:"type" binding:"omitempty,tasktype"`
	AssigneeID   *string   `json:"assigneeId"`
	Dependencies *[]string `json:"dependencies"`
	DisplayOrder *int      `json:"displayOrder"`
}
