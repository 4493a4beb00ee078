package apperr

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// ConflictError reports a state conflict, e.g. subscribing an address that is
// already active.
type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

func NewConflict(msg string) *ConflictError {
	return &ConflictError{Message: msg}
}

func NewConflictWrap(msg string, err error) *ConflictError {
	return &ConflictError{Message: msg, Err: err}
}

type NotFoundError struct {
	Message string
	Err     error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func NewNotFound(msg string) *NotFoundError {
	return &NotFoundError{Message: msg}
}

func NewNotFoundWrap(msg string, err error) *NotFoundError {
	return &NotFoundError{Message: msg, Err: err}
}
