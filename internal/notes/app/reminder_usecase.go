package app

import (
	"context"
	"fmt"
	"time"

	"thinkboard/internal/notes/domain/entities"
	"thinkboard/internal/notes/ports/repositories"
	"thinkboard/internal/notes/ports/services"
)

// defaultUpcomingLimit - размер списка предстоящих напоминаний по умолчанию.
const defaultUpcomingLimit = 10

// ReminderParams - параметры создания напоминания.
type ReminderParams struct {
	Title        string
	Description  string
	ReminderDate time.Time
}

// ReminderUseCase представляет собой бизнес-логику работы с напоминаниями.
type ReminderUseCase struct {
	notes repositories.NoteRepository
	clock services.Clock
}

// NewReminderUseCase создает новый экземпляр ReminderUseCase.
func NewReminderUseCase(notes repositories.NoteRepository, clock services.Clock) *ReminderUseCase {
	return &ReminderUseCase{
		notes: notes,
		clock: clock,
	}
}

// Add добавляет напоминание к заметке. Требует права записи.
func (uc *ReminderUseCase) Add(ctx context.Context, actorID, noteID string, params ReminderParams) (*entities.Reminder, error) {
	reminder, err := newReminder(params, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	_, err = mutateNote(ctx, uc.notes, actorID, noteID, canWriteGate, func(note *entities.Note) error {
		note.Reminders = append(note.Reminders, *reminder)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reminder, nil
}

// SetCompleted помечает напоминание выполненным или невыполненным.
// Выполненное напоминание выпадает из окна отправки планировщика.
func (uc *ReminderUseCase) SetCompleted(ctx context.Context, actorID, noteID, reminderID string, completed bool) (*entities.Reminder, error) {
	var updated entities.Reminder

	_, err := mutateNote(ctx, uc.notes, actorID, noteID, canWriteGate, func(note *entities.Note) error {
		reminder, err := note.ReminderByID(reminderID)
		if err != nil {
			return err
		}
		reminder.IsCompleted = completed
		updated = *reminder
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// Upcoming возвращает предстоящие невыполненные напоминания владельца,
// отсортированные по возрастанию даты. Чистое чтение.
func (uc *ReminderUseCase) Upcoming(ctx context.Context, ownerID string, limit int) ([]repositories.ReminderView, error) {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}

	reminders, err := uc.notes.UpcomingReminders(ctx, ownerID, uc.clock.Now(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming reminders: %w", err)
	}

	return reminders, nil
}

// Today возвращает все напоминания владельца за текущие сутки,
// отсортированные по возрастанию даты. Чистое чтение.
func (uc *ReminderUseCase) Today(ctx context.Context, ownerID string) ([]repositories.ReminderView, error) {
	now := uc.clock.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24*time.Hour - time.Nanosecond)

	reminders, err := uc.notes.RemindersBetween(ctx, ownerID, startOfDay, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to list today reminders: %w", err)
	}

	return reminders, nil
}
