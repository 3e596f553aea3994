package entities

import (
	"errors"
	"fmt"
)

// Доменные ошибки сервиса заметок.
var (
	// ErrNotFoundOrForbidden возвращается, когда заметка отсутствует либо
	// у актора нет требуемого права. Случаи намеренно неразличимы,
	// чтобы не раскрывать существование чужих заметок.
	ErrNotFoundOrForbidden = errors.New("note not found or access denied")

	ErrVersionNotFound    = errors.New("version not found")
	ErrReminderNotFound   = errors.New("reminder not found")
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrConflict сигнализирует о гонке конкурентных обновлений;
	// вызывающая сторона должна повторить всю операцию чтение-изменение-запись.
	ErrConflict = errors.New("concurrent update conflict")

	ErrShareNotFound = errors.New("shared note not found")
	ErrShareExpired  = errors.New("share link has expired")
)

// ValidationError описывает некорректное входное значение с указанием поля.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// IsValidation сообщает, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
