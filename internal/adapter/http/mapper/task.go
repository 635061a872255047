package mapper

import (
	"time"

	"workops/internal/adapter/http/dto"
	"workops/internal/core/domain"
)

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:           task.ID,
		Title:        task.Title,
		Status:       string(task.Status),
		CreatedBySub: task.CreatedBySub,
		CreatedAt:    task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    task.UpdatedAt.Format(time.RFC3339),
	}

	if task.Description != nil {
		value := *task.Description
		item.Description = &value
	}

	if task.DueDate != nil {
		value := task.DueDate.Format(time.RFC3339)
		item.DueDate = &value
	}

	if task.AssignedToSub != nil {
		value := *task.AssignedToSub
		item.AssignedToSub = &value
	}

	return item
}

func ToTaskListResponse(page domain.TaskPage) dto.TaskListResponse {
	return dto.TaskListResponse{
		Total: page.Total,
		Items: ToTaskItems(page.Items),
	}
}
