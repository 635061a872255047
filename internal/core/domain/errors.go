package domain

import "errors"

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrBlankTaskTitle = errors.New("task title is blank")
)
