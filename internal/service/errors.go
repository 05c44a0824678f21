package service

import "fmt"

// здесь происходит проверка ошибок бизнес-логики

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

const CodeUnauthenticated = "UNAUTHENTICATED"
const CodeValidation = "VALIDATION_ERROR"
const CodeNotFound = "NOT_FOUND"
const CodeForbidden = "FORBIDDEN"
const CodeAlreadyOffered = "ALREADY_OFFERED"
const CodeCapacityExceeded = "CAPACITY_EXCEEDED"
const CodeInvalidTransition = "INVALID_TRANSITION"
const CodeAlreadyRated = "ALREADY_RATED"
const CodeVersionConflict = "VERSION_CONFLICT"

func NewUnauthenticated() *BusinessError {
	return &BusinessError{
		Code:    CodeUnauthenticated,
		Message: "операция требует аутентификации",
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewNotFound(resource, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewForbidden(reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeForbidden,
		Message: reason,
	}
}

func NewAlreadyOffered(taskID string) *BusinessError {
	return &BusinessError{
		Code:    CodeAlreadyOffered,
		Message: "предложение помощи по этой задаче уже существует",
		Details: map[string]any{"task_id": taskID},
	}
}

func NewCapacityExceeded(taskID string, max int) *BusinessError {
	return &BusinessError{
		Code:    CodeCapacityExceeded,
		Message: "у задачи уже набрано максимальное число волонтёров",
		Details: map[string]any{
			"task_id":        taskID,
			"max_volunteers": max,
		},
	}
}

func NewInvalidTransition(from, to string) *BusinessError {
	return &BusinessError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("переход %s -> %s недопустим", from, to),
		Details: map[string]any{
			"from": from,
			"to":   to,
		},
	}
}

func NewAlreadyRated(taskID string) *BusinessError {
	return &BusinessError{
		Code:    CodeAlreadyRated,
		Message: "оценка по этой задаче уже оставлена",
		Details: map[string]any{"task_id": taskID},
	}
}

func NewVersionConflict(resource, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeVersionConflict,
		Message: fmt.Sprintf("%s %s изменён(а) параллельно, повторите операцию", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}
