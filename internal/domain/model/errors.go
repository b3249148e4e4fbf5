package model

import (
	"errors"
	"fmt"
)

// ErrValidation базовая ошибка для всех ошибок валидации вопросов и сессий
var ErrValidation = errors.New("validation failed")

// ValidationError описывает, какое поле не прошло проверку
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func validationErrorf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
