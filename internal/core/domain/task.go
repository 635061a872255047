package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusDone       TaskStatus = "Done"
)

type Task struct {
	ID            uint64
	Title         string
	Description   *string
	DueDate       *time.Time
	Status        TaskStatus
	CreatedBySub  string
	AssignedToSub *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateTaskInput struct {
	Title         string
	Description   *string
	DueDate       *time.Time
	Status        TaskStatus
	AssignedToSub *string
}

// UpdateTaskInput carries partial-update fields. A nil pointer means the
// field was absent from the request and must be left unchanged.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	Status        *TaskStatus
	AssignedToSub *string
}

// TaskPage is one page of a filtered listing. Total counts every row
// matching the filter, independent of paging.
type TaskPage struct {
	Total int
	Items []Task
}

// ListTasksQuery is the normalized listing filter. Page and PageSize are
// clamped by the service so the computed offset is never negative.
type ListTasksQuery struct {
	Status   *TaskStatus
	Page     int
	PageSize int
}

// ValidTaskStatus reports whether value is one of the three known statuses.
func ValidTaskStatus(value string) bool {
	switch TaskStatus(value) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}
