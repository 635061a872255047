package apierrors

// AuthErr is the body shape for 401/403 responses: the error kind, a
// translated message, and the request path that was denied.
type AuthErr struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

const (
	AuthErrUnauthorized = "unauthorized"
	AuthErrForbidden    = "forbidden"
)

// CreateAuthError builds the structured denial body with a translated
// message.
func CreateAuthError(kind, msgKey, lang, path string) AuthErr {
	return AuthErr{
		Error:   kind,
		Message: GetTransErrorMsg(msgKey, lang),
		Path:    path,
	}
}
