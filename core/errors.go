// Package core предоставляет базовые типы и систему ошибок ядра.
package core

import (
	"errors"
	"fmt"
)

// ErrorKind классификация доменных ошибок
type ErrorKind string

const (
	// ErrorKindValidation некорректные или отсутствующие поля команды
	ErrorKindValidation ErrorKind = "VALIDATION"
	// ErrorKindNotFound агрегат по указанному идентификатору не существует
	ErrorKindNotFound ErrorKind = "NOT_FOUND"
	// ErrorKindBusinessRule нарушение бизнес-правила (недопустимый переход состояния)
	ErrorKindBusinessRule ErrorKind = "BUSINESS_RULE"
	// ErrorKindConflict конфликт оптимистичной блокировки по версии агрегата
	ErrorKindConflict ErrorKind = "CONFLICT"
	// ErrorKindInternal неожиданная ошибка, трактуется как дефект
	ErrorKindInternal ErrorKind = "INTERNAL"
)

// DomainError базовый тип доменной ошибки с классификацией
type DomainError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error реализует интерфейс error
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap возвращает причину ошибки
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is проверяет, соответствует ли ошибка классификации
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// NewValidationError создает ошибку валидации команды
func NewValidationError(message string) *DomainError {
	return &DomainError{Kind: ErrorKindValidation, Message: message}
}

// NewNotFoundError создает ошибку отсутствия агрегата
func NewNotFoundError(message string) *DomainError {
	return &DomainError{Kind: ErrorKindNotFound, Message: message}
}

// NewBusinessRuleError создает ошибку нарушения бизнес-правила
func NewBusinessRuleError(message string) *DomainError {
	return &DomainError{Kind: ErrorKindBusinessRule, Message: message}
}

// NewConflictError создает ошибку конфликта версий
func NewConflictError(message string) *DomainError {
	return &DomainError{Kind: ErrorKindConflict, Message: message}
}

// NewInternalError создает ошибку-дефект
func NewInternalError(message string) *DomainError {
	return &DomainError{Kind: ErrorKindInternal, Message: message}
}

// Wrap оборачивает существующую ошибку с классификацией
func Wrap(err error, kind ErrorKind, message string) *DomainError {
	if err == nil {
		return nil
	}
	return &DomainError{Kind: kind, Message: message, Cause: err}
}

// KindOf возвращает классификацию ошибки.
// Ошибки без классификации считаются внутренними дефектами.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrorKindInternal
}
