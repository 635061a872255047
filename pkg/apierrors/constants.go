package apierrors

const (
	MsgFailListTasks      = "errorListTasks"
	MsgFailGetTask        = "failGetTask"
	MsgFailCreateTask     = "failCreateTask"
	MsgFailUpdateTask     = "failUpdateTask"
	MsgFailDeleteTask     = "failDeleteTask"
	MsgInvalidTaskID      = "invalidTaskID"
	MsgInvalidTaskPayload = "invalidTaskPayload"
	MsgTitleRequired      = "titleRequired"
	MsgTaskNotFound       = "taskNotFound"
	MsgUnauthorized       = "unauthorized"
	MsgForbidden          = "forbidden"
)
