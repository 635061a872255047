package service

import (
	"context"
	"fmt"
	"strings"

	"workops/internal/core/domain"
	"workops/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// Sentinel creator when the token carries no sub claim.
	unknownSub = "unknown"
)

type TaskService struct {
	taskRepository ports.TaskRepository
	broadcaster    ports.Broadcaster
}

var _ ports.TaskService = (*TaskService)(nil)

func NewTaskService(taskRepository ports.TaskRepository, broadcaster ports.Broadcaster) *TaskService {
	return &TaskService{taskRepository: taskRepository, broadcaster: broadcaster}
}

func (s *TaskService) ListTasks(ctx context.Context, query domain.ListTasksQuery) (domain.TaskPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total, items, err := s.taskRepository.List(ctx, query.Status, pageSize, (page-1)*pageSize)
	if err != nil {
		return domain.TaskPage{}, err
	}

	return domain.TaskPage{Total: total, Items: items}, nil
}

func (s *TaskService) GetTask(ctx context.Context, id uint64) (domain.Task, error) {
	return s.taskRepository.Get(ctx, id)
}

// CreateTask persists a new task. The identity is always server-assigned
// and CreatedBySub always comes from the authenticated principal, never
// from client input.
func (s *TaskService) CreateTask(ctx context.Context, principal domain.Principal, input domain.CreateTaskInput) (domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Task{}, domain.ErrBlankTaskTitle
	}

	status := input.Status
	if status == "" {
		status = domain.TaskStatusPending
	}

	createdBySub := principal.Sub
	if createdBySub == "" {
		createdBySub = unknownSub
	}

	task := domain.Task{
		Title:         title,
		Description:   input.Description,
		DueDate:       input.DueDate,
		Status:        status,
		CreatedBySub:  createdBySub,
		AssignedToSub: input.AssignedToSub,
	}

	if err := s.taskRepository.Insert(ctx, &task); err != nil {
		return domain.Task{}, err
	}

	s.broadcaster.Broadcast(fmt.Sprintf("Task %d created", task.ID))

	return task, nil
}

// UpdateTask overwrites only the fields present in the input; absent
// fields keep their stored value. Updates intentionally do not broadcast.
func (s *TaskService) UpdateTask(ctx context.Context, id uint64, input domain.UpdateTaskInput) error {
	task, err := s.taskRepository.Get(ctx, id)
	if err != nil {
		return err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.AssignedToSub != nil {
		task.AssignedToSub = input.AssignedToSub
	}

	return s.taskRepository.Update(ctx, &task)
}

func (s *TaskService) DeleteTask(ctx context.Context, id uint64) error {
	deleted, err := s.taskRepository.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrTaskNotFound
	}

	s.broadcaster.Broadcast(fmt.Sprintf("Task %d deleted", id))

	return nil
}
