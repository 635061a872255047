// Package client is an offline-capable client for the task API. When the
// server is unreachable, or a call is rejected as unauthenticated, CRUD
// operations fall back transparently to a local mirror of the task list;
// the mirror is reconciled on the next successful online fetch.
package client

import (
	"errors"
	"fmt"
)

// StatusAll disables status filtering.
const StatusAll = "All"

// Task is the client-side task shape. IDs are strings: server identities
// render as decimal digits, offline creations carry a generated uuid
// until the next reconcile replaces them.
type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Status      string  `json:"status"`
	CreatedBy   string  `json:"createdBy,omitempty"`
	AssignedTo  *string `json:"assignedTo,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// CreateTaskInput is the shape accepted by Create. The id, creator, and
// timestamps are never client-supplied online; offline they are filled
// locally until reconciliation.
type CreateTaskInput struct {
	Title       string
	Description *string
	DueDate     *string
	Status      string
	AssignedTo  *string
}

// TaskPatch carries partial-update fields; nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Status      *string
	AssignedTo  *string
}

// Filters reproduces the server's listing surface: a status filter plus
// page/pageSize slicing. Status "" or "All" means unfiltered.
type Filters struct {
	Status   string
	Page     int
	PageSize int
}

// Page is one page of tasks with the filter-wide total.
type Page struct {
	Items    []Task `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

var ErrTaskNotFound = errors.New("task not found")

// APIError is a server-side rejection decoded from the response body.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Kind, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}
