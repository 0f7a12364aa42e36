package response

// Error is the single error kind the API surfaces: an HTTP status, a
// message, and an optional list of structured field errors.
type Error struct {
	Status  int
	Message string
	Errors  []string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(status int, message string, fieldErrors ...string) *Error {
	return &Error{Status: status, Message: message, Errors: fieldErrors}
}

// Shorthands for the taxonomy in use across the handlers.
// 498 marks a malformed token, 501 a downstream operation that could
// not complete.
func BadRequest(message string, fieldErrors ...string) *Error {
	return NewError(400, message, fieldErrors...)
}

func Unauthorized(message string) *Error { return NewError(401, message) }
func Forbidden(message string) *Error    { return NewError(403, message) }
func NotFound(message string) *Error     { return NewError(404, message) }
func Conflict(message string) *Error     { return NewError(409, message) }

func UnprocessableEntity(message string, fieldErrors ...string) *Error {
	return NewError(422, message, fieldErrors...)
}

func MalformedToken(message string) *Error { return NewError(498, message) }
func NotImplemented(message string) *Error { return NewError(501, message) }
