// Package repositories определяет интерфейсы хранилища для сервиса заметок.
package repositories

import (
	"context"
	"errors"
	"time"

	"thinkboard/internal/notes/domain/entities"
)

// ErrDuplicateShareToken возвращается при нарушении уникальности
// токена доступа; генерация должна повториться с новым токеном.
var ErrDuplicateShareToken = errors.New("share token already exists")

// Поля сортировки, допустимые в поиске.
const (
	SortByLastModified = "lastModified"
	SortByCreatedAt    = "createdAt"
	SortByTitle        = "title"
	SortByPriority     = "priority"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// SearchFilter описывает критерии поиска заметок владельца.
// Интерпретация фильтра - забота слоя хранилища; бизнес-логика
// оперирует только этим значением.
type SearchFilter struct {
	// Text - подстрочный поиск по заголовку и содержимому.
	Text string
	// Tags - совпадение хотя бы по одному тегу (OR).
	Tags        []string
	Category    *entities.Category
	Priority    *entities.Priority
	IsFavorite  *bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time

	SortBy    string
	SortOrder string

	// Page нумеруется с единицы.
	Page  int
	Limit int
}

// Offset возвращает смещение выборки для текущей страницы.
func (f *SearchFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ReminderView - проекция напоминания вместе с заметкой-носителем,
// используется в списках "сегодня" и "предстоящие".
type ReminderView struct {
	ReminderID   string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ReminderDate time.Time `json:"reminderDate"`
	IsCompleted  bool      `json:"isCompleted"`
	NoteID       string    `json:"noteId"`
	NoteTitle    string    `json:"noteTitle"`
}

// DueReminder - напоминание, попавшее в окно отправки уведомлений.
type DueReminder struct {
	NoteID    string
	NoteTitle string
	OwnerID   string
	Reminder  entities.Reminder
}

// NoteRepository - хранилище агрегатов заметок.
//
// Save выполняет оптимистичную проверку: запись проходит только если
// ревизия агрегата в хранилище совпадает с note.Revision; иначе
// возвращается entities.ErrConflict. Успешный Save увеличивает
// note.Revision.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) error
	GetByID(ctx context.Context, noteID string) (*entities.Note, error)
	Save(ctx context.Context, note *entities.Note) error
	Delete(ctx context.Context, noteID string) error

	Search(ctx context.Context, ownerID string, filter *SearchFilter) ([]*entities.Note, int, error)
	DistinctTags(ctx context.Context, ownerID string) ([]string, error)
	ListSharedWith(ctx context.Context, userID string, limit, offset int) ([]*entities.Note, int, error)

	FindByShareToken(ctx context.Context, token string) (*entities.Note, error)

	UpcomingReminders(ctx context.Context, ownerID string, from time.Time, limit int) ([]ReminderView, error)
	RemindersBetween(ctx context.Context, ownerID string, from, to time.Time) ([]ReminderView, error)

	DueReminders(ctx context.Context, from, to time.Time) ([]DueReminder, error)
	MarkReminderSent(ctx context.Context, noteID, reminderID string) error
}
