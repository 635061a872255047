package dto

type TaskItem struct {
	ID            uint64  `json:"id"`
	Title         string  `json:"title"`
	Description   *string `json:"description,omitempty"`
	DueDate       *string `json:"dueDate,omitempty"`
	Status        string  `json:"status"`
	CreatedBySub  string  `json:"createdBySub,omitempty"`
	AssignedToSub *string `json:"assignedToSub,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type TaskListResponse struct {
	Total int        `json:"total"`
	Items []TaskItem `json:"items"`
}

type CreateTaskRequest struct {
	Title         string  `json:"title" binding:"max=255"`
	Description   *string `json:"description" binding:"omitempty,max=65535"`
	DueDate       *string `json:"dueDate" binding:"omitempty,max=64"`
	Status        *string `json:"status" binding:"omitempty,oneof=Pending InProgress Done"`
	AssignedToSub *string `json:"assignedToSub" binding:"omitempty,max=255"`
}

// UpdateTaskRequest carries partial-update fields: a field that is absent
// or null leaves the stored value unchanged.
type UpdateTaskRequest struct {
	Title         *string `json:"title" binding:"omitempty,max=255"`
	Description   *string `json:"description" binding:"omitempty,max=65535"`
	DueDate       *string `json:"dueDate" binding:"omitempty,max=64"`
	Status        *string `json:"status" binding:"omitempty,oneof=Pending InProgress Done"`
	AssignedToSub *string `json:"assignedToSub" binding:"omitempty,max=255"`
}
