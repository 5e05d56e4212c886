// Package apperrors defines the error classes the HTTP layer understands and the ledger
// sentinels that are joined into them.
package apperrors

import "errors"

// Error classes. The error middleware picks the HTTP status from these.
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")
	ErrValidationFailed      = errors.New("validation failed")
	ErrBadRequest            = errors.New("bad request")
)

// Ledger errors
var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrStudentNotFound  = errors.New("student not found")
	ErrBranchNotFound   = errors.New("branch not found")
	ErrBranchRequired   = errors.New("branch is required")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrInvalidAmount    = errors.New("amount is not a valid decimal")
	ErrInvalidPeriod    = errors.New("invalid billing period")
	ErrInvalidMethod    = errors.New("invalid payment method")
	ErrMissingKeyFields = errors.New("studentId, subject, month and year are required")
)

var notFoundErrors = []error{ErrResourceNotFound, ErrPaymentNotFound, ErrStudentNotFound, ErrBranchNotFound}

// CustomError carries a message that is safe to return to clients. Field names the
// request field a validation failure refers to.
type CustomError struct {
	Err     error
	Message string
	Field   string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails attaches extra context rendered in the error response
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

func classify(class, cause error, message string) *CustomError {
	err := class
	if cause != nil && !errors.Is(cause, class) {
		err = errors.Join(class, cause)
	}
	return &CustomError{Err: err, Message: message}
}

// NewNotFoundError reports a missing payment, student or branch. Callers can match either
// cause or ErrResourceNotFound.
func NewNotFoundError(cause error, message string) error {
	return classify(ErrResourceNotFound, cause, message)
}

// NewAlreadyExistsError reports a create on an id that is taken
func NewAlreadyExistsError(message string) error {
	return classify(ErrResourceAlreadyExists, nil, message)
}

// NewConflictError reports a write that lost a race it could not recover from
func NewConflictError(message string) error {
	return classify(ErrConflict, nil, message)
}

// NewBadRequestError reports a request that cannot be interpreted
func NewBadRequestError(message string) error {
	return classify(ErrBadRequest, nil, message)
}

// NewValidationError reports an invalid input field. cause may be nil.
func NewValidationError(field string, cause error, message string) *CustomError {
	err := classify(ErrValidationFailed, cause, message)
	err.Field = field
	return err
}

// IsNotFound reports whether err is any kind of not-found error.
func IsNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
