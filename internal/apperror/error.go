package apperror

import "errors"

type Code string

const (
	CodeValidation Code = "validation"
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	CodeInternal   Code = "internal"
)

// ErrDataIntegrity marks a stored record that breaks a schema invariant,
// e.g. an employee whose department cannot be resolved.
var ErrDataIntegrity = errors.New("data integrity violation")

type Error struct {
	Code    Code
	Message string
	// Fields holds per-field messages for CodeValidation errors.
	Fields map[string][]string
}

func (e *Error) Error() string {
	return e.Message
}

func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func Validation(fields map[string][]string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func GetCode(err error) Code {
	if err == nil {
		return ""
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return CodeInternal
}

func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// FieldsOf returns the per-field messages carried by err, or nil.
func FieldsOf(err error) map[string][]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
