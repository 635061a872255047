package validation

import (
	"errors"
	"strings"
	"time"

	"workops/internal/adapter/http/dto"
	"workops/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

// Due dates arrive from clients as full timestamps or bare dates.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func BuildCreateTaskInput(req dto.CreateTaskRequest) (domain.CreateTaskInput, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.CreateTaskInput{}, domain.ErrBlankTaskTitle
	}

	status := domain.TaskStatusPending
	if req.Status != nil {
		status = domain.TaskStatus(*req.Status)
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	return domain.CreateTaskInput{
		Title:         title,
		Description:   req.Description,
		DueDate:       dueDate,
		Status:        status,
		AssignedToSub: req.AssignedToSub,
	}, nil
}

func BuildUpdateTaskInput(req dto.UpdateTaskRequest) (domain.UpdateTaskInput, error) {
	var title *string
	if req.Title != nil {
		value := strings.TrimSpace(*req.Title)
		if value == "" {
			// A stored task never ends up with a blank title.
			return domain.UpdateTaskInput{}, domain.ErrBlankTaskTitle
		}
		title = &value
	}

	var status *domain.TaskStatus
	if req.Status != nil {
		value := domain.TaskStatus(*req.Status)
		status = &value
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	return domain.UpdateTaskInput{
		Title:         title,
		Description:   req.Description,
		DueDate:       dueDate,
		Status:        status,
		AssignedToSub: req.AssignedToSub,
	}, nil
}

// parseDueDate normalizes an optional due date to UTC. A nil input stays
// nil.
func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}

	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, *raw); err == nil {
			value := parsed.UTC()
			return &value, nil
		}
	}

	return nil, ErrInvalidTaskPayload
}
