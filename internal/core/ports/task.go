package ports

import (
	"context"

	"workops/internal/core/domain"
)

type TaskRepository interface {
	List(ctx context.Context, status *domain.TaskStatus, limit, offset int) (int, []domain.Task, error)
	Get(ctx context.Context, id uint64) (domain.Task, error)
	Insert(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id uint64) (bool, error)
}

type TaskService interface {
	ListTasks(ctx context.Context, query domain.ListTasksQuery) (domain.TaskPage, error)
	GetTask(ctx context.Context, id uint64) (domain.Task, error)
	CreateTask(ctx context.Context, principal domain.Principal, input domain.CreateTaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, id uint64, input domain.UpdateTaskInput) error
	DeleteTask(ctx context.Context, id uint64) error
}

// Broadcaster pushes a status string to every connected realtime client.
// Delivery is best-effort: implementations must never block the caller.
type Broadcaster interface {
	Broadcast(message string)
}
