package client

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

// taskWire is the server's task JSON shape.
type taskWire struct {
	ID            uint64  `json:"id"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	DueDate       *string `json:"dueDate"`
	Status        string  `json:"status"`
	CreatedBySub  string  `json:"createdBySub"`
	AssignedToSub *string `json:"assignedToSub"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type listWire struct {
	Total int        `json:"total"`
	Items []taskWire `json:"items"`
}

// taskPayloadWire is the create/update request body. Pointers keep absent
// fields out of the JSON so the server's partial-update semantics hold.
type taskPayloadWire struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	DueDate       *string `json:"dueDate,omitempty"`
	Status        *string `json:"status,omitempty"`
	AssignedToSub *string `json:"assignedToSub,omitempty"`
}

func (w taskWire) toTask() Task {
	return Task{
		ID:          strconv.FormatUint(w.ID, 10),
		Title:       w.Title,
		Description: w.Description,
		DueDate:     w.DueDate,
		Status:      w.Status,
		CreatedBy:   w.CreatedBySub,
		AssignedTo:  w.AssignedToSub,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func (in CreateTaskInput) toWire() taskPayloadWire {
	wire := taskPayloadWire{
		Title:         &in.Title,
		Description:   in.Description,
		DueDate:       in.DueDate,
		AssignedToSub: in.AssignedTo,
	}
	if in.Status != "" {
		status := in.Status
		wire.Status = &status
	}
	return wire
}

func (p TaskPatch) toWire() taskPayloadWire {
	return taskPayloadWire{
		Title:         p.Title,
		Description:   p.Description,
		DueDate:       p.DueDate,
		Status:        p.Status,
		AssignedToSub: p.AssignedTo,
	}
}

// decodeAPIError maps a rejection body onto APIError. The server speaks
// two envelopes: {"error":{"code","message"}} for domain errors and
// {"error","message","path"} for auth denials.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var domainBody struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &domainBody); err == nil && domainBody.Error.Message != "" {
		apiErr.Message = domainBody.Error.Message
		return apiErr
	}

	var authBody struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &authBody); err == nil && authBody.Error != "" {
		apiErr.Kind = authBody.Error
		if authBody.Message != "" {
			apiErr.Message = authBody.Message
		}
		return apiErr
	}

	return apiErr
}
