package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"thinkboard/internal/notes/domain/entities"
	"thinkboard/internal/notes/ports/repositories"
	"thinkboard/pkg/logger"
)

// UpcomingReminders возвращает предстоящие невыполненные напоминания
// владельца, отсортированные по возрастанию даты.
func (r *NoteRepository) UpcomingReminders(ctx context.Context, ownerID string, from time.Time, limit int) ([]repositories.ReminderView, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.UpcomingReminders"))

	rows, err := r.pool.Query(ctx,
		`SELECT rem->>'id', rem->>'title', COALESCE(rem->>'description', ''),
                (rem->>'reminderDate')::timestamptz, (rem->>'isCompleted')::boolean,
                n.id, n.title
         FROM notes n, jsonb_array_elements(n.reminders) rem
         WHERE n.owner_id = $1
           AND (rem->>'reminderDate')::timestamptz >= $2
           AND (rem->>'isCompleted')::boolean = false
         ORDER BY (rem->>'reminderDate')::timestamptz ASC
         LIMIT $3`,
		ownerID, from, limit,
	)
	if err != nil {
		log.Error(ctx, "failed to list upcoming reminders", zap.Error(err))
		return nil, fmt.Errorf("failed to list upcoming reminders: %w", err)
	}
	defer rows.Close()

	return scanReminderViews(rows)
}

// RemindersBetween возвращает напоминания владельца в интервале дат
// включительно, вне зависимости от выполненности.
func (r *NoteRepository) RemindersBetween(ctx context.Context, ownerID string, from, to time.Time) ([]repositories.ReminderView, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.RemindersBetween"))

	rows, err := r.pool.Query(ctx,
		`SELECT rem->>'id', rem->>'title', COALESCE(rem->>'description', ''),
                (rem->>'reminderDate')::timestamptz, (rem->>'isCompleted')::boolean,
                n.id, n.title
         FROM notes n, jsonb_array_elements(n.reminders) rem
         WHERE n.owner_id = $1
           AND (rem->>'reminderDate')::timestamptz >= $2
           AND (rem->>'reminderDate')::timestamptz <= $3
         ORDER BY (rem->>'reminderDate')::timestamptz ASC`,
		ownerID, from, to,
	)
	if err != nil {
		log.Error(ctx, "failed to list reminders", zap.Error(err))
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	return scanReminderViews(rows)
}

// DueReminders возвращает напоминания всех заметок, попавшие в окно
// отправки: дата в [from, to], не выполнены и еще не отправлены.
func (r *NoteRepository) DueReminders(ctx context.Context, from, to time.Time) ([]repositories.DueReminder, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.DueReminders"))

	rows, err := r.pool.Query(ctx,
		`SELECT n.id, n.title, n.owner_id, rem
         FROM notes n, jsonb_array_elements(n.reminders) rem
         WHERE (rem->>'reminderDate')::timestamptz >= $1
           AND (rem->>'reminderDate')::timestamptz <= $2
           AND (rem->>'isCompleted')::boolean = false
           AND (rem->>'notificationSent')::boolean = false
         ORDER BY (rem->>'reminderDate')::timestamptz ASC`,
		from, to,
	)
	if err != nil {
		log.Error(ctx, "failed to scan due reminders", zap.Error(err))
		return nil, fmt.Errorf("failed to scan due reminders: %w", err)
	}
	defer rows.Close()

	due := make([]repositories.DueReminder, 0)
	for rows.Next() {
		var item repositories.DueReminder
		var raw []byte
		if err := rows.Scan(&item.NoteID, &item.NoteTitle, &item.OwnerID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan due reminder: %w", err)
		}
		if err := json.Unmarshal(raw, &item.Reminder); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reminder: %w", err)
		}
		due = append(due, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return due, nil
}

// MarkReminderSent атомарно помечает одно напоминание отправленным.
// Точечное обновление повышает ревизию агрегата: конкурентное полное
// сохранение заметки, прочитавшее строку до установки флага, получает
// ErrConflict, перечитывает агрегат и не может сбросить флаг обратно.
// Сам планировщик ревизию не проверяет - установка флага идемпотентна.
func (r *NoteRepository) MarkReminderSent(ctx context.Context, noteID, reminderID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.MarkReminderSent"))

	result, err := r.pool.Exec(ctx,
		`UPDATE notes
         SET reminders = (
                 SELECT jsonb_agg(
                     CASE WHEN rem->>'id' = $2
                          THEN jsonb_set(rem, '{notificationSent}', 'true')
                          ELSE rem
                     END)
                 FROM jsonb_array_elements(reminders) rem),
             revision = revision + 1
         WHERE id = $1
           AND EXISTS (
                 SELECT 1 FROM jsonb_array_elements(reminders) rem
                 WHERE rem->>'id' = $2)`,
		noteID, reminderID,
	)
	if err != nil {
		log.Error(ctx, "failed to mark reminder sent", zap.Error(err))
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entities.ErrReminderNotFound
	}

	return nil
}

// scanReminderViews читает строки проекций напоминаний.
func scanReminderViews(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]repositories.ReminderView, error) {
	views := make([]repositories.ReminderView, 0)
	for rows.Next() {
		var view repositories.ReminderView
		if err := rows.Scan(&view.ReminderID, &view.Title, &view.Description,
			&view.ReminderDate, &view.IsCompleted, &view.NoteID, &view.NoteTitle); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return views, nil
}
