// Package scheduler реализует фоновую отправку уведомлений о напоминаниях.
//
// Планировщик - единственный компонент, устанавливающий флаг
// notificationSent. Флаг ставится только после успешной отправки,
// поэтому доставка at-least-once: неудавшаяся отправка остается в окне
// и повторяется на следующем тике. Установленный флаг никогда не
// сбрасывается, повторная отправка по нему невозможна.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"thinkboard/internal/notes/ports/repositories"
	"thinkboard/internal/notes/ports/services"
	"thinkboard/pkg/logger"
)

// Параметры планировщика по умолчанию.
const (
	DefaultInterval = time.Minute
	DefaultWindow   = 5 * time.Minute
)

// Константы для сообщений logger.
const (
	logTickStarted       = "reminder tick started"
	logTickFinished      = "reminder tick finished"
	logReminderSent      = "reminder notification sent"
	errScanDue           = "failed to scan due reminders"
	errLookupOwner       = "failed to look up note owner"
	errSendNotification  = "failed to send reminder notification, will retry"
	errMarkReminderSent  = "failed to mark reminder as sent"
	logSchedulerStarted  = "reminder scheduler started"
	logSchedulerStopped  = "reminder scheduler stopped"
	logOwnerWithoutEmail = "note owner has no email, skipping notification"
)

// Scheduler периодически сканирует напоминания, попавшие в окно
// отправки, и доставляет каждое ровно один раз. Тики не накладываются:
// следующий начинается только после завершения предыдущего.
type Scheduler struct {
	notes    repositories.NoteRepository
	users    repositories.UserDirectory
	email    services.EmailTransport
	clock    services.Clock
	interval time.Duration
	window   time.Duration

	stop chan struct{}
	done chan struct{}
}

// Option настраивает планировщик.
type Option func(*Scheduler)

// WithInterval задает период между тиками.
func WithInterval(interval time.Duration) Option {
	return func(s *Scheduler) { s.interval = interval }
}

// WithWindow задает окно отправки уведомлений.
func WithWindow(window time.Duration) Option {
	return func(s *Scheduler) { s.window = window }
}

// New создает новый планировщик напоминаний.
func New(notes repositories.NoteRepository, users repositories.UserDirectory, email services.EmailTransport, clock services.Clock, opts ...Option) *Scheduler {
	s := &Scheduler{
		notes:    notes,
		users:    users,
		email:    email,
		clock:    clock,
		interval: DefaultInterval,
		window:   DefaultWindow,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start запускает фоновый цикл планировщика.
func (s *Scheduler) Start(ctx context.Context) {
	logger.Log(ctx).Info(ctx, logSchedulerStarted,
		zap.Duration("interval", s.interval),
		zap.Duration("window", s.window))

	go s.run(ctx)
}

// Stop останавливает планировщик и дожидается завершения текущего тика.
func (s *Scheduler) Stop(ctx context.Context) {
	close(s.stop)
	select {
	case <-s.done:
	case <-ctx.Done():
	}
	logger.Log(ctx).Info(ctx, logSchedulerStopped)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick обрабатывает одно сканирование окна отправки. Ошибка доставки
// одного напоминания не прерывает обработку остальных.
func (s *Scheduler) Tick(ctx context.Context) {
	log := logger.Log(ctx).With(zap.String("component", "scheduler"))

	now := s.clock.Now()
	log.Debug(ctx, logTickStarted, zap.Time("now", now))

	due, err := s.notes.DueReminders(ctx, now, now.Add(s.window))
	if err != nil {
		log.Error(ctx, errScanDue, zap.Error(err))
		return
	}

	sent := 0
	for _, reminder := range due {
		if s.process(ctx, reminder) {
			sent++
		}
	}

	log.Debug(ctx, logTickFinished, zap.Int("due", len(due)), zap.Int("sent", sent))
}

// process доставляет одно напоминание и помечает его отправленным.
// Возвращает true только когда флаг notificationSent установлен.
func (s *Scheduler) process(ctx context.Context, due repositories.DueReminder) bool {
	log := logger.Log(ctx).With(
		zap.String("component", "scheduler"),
		zap.String("noteID", due.NoteID),
		zap.String("reminderID", due.Reminder.ID))

	owner, err := s.users.FindByID(ctx, due.OwnerID)
	if err != nil {
		log.Error(ctx, errLookupOwner, zap.String("ownerID", due.OwnerID), zap.Error(err))
		return false
	}
	if owner.Email == "" {
		log.Warn(ctx, logOwnerWithoutEmail, zap.String("ownerID", due.OwnerID))
		return false
	}

	subject := fmt.Sprintf("Reminder: %s", due.Reminder.Title)
	body := reminderBody(due)

	if err := s.email.Send(ctx, owner.Email, subject, body); err != nil {
		// Транспортная ошибка не фатальна: флаг не ставится и
		// напоминание попадет в следующий тик.
		log.Warn(ctx, errSendNotification, zap.Error(err))
		return false
	}

	if err := s.notes.MarkReminderSent(ctx, due.NoteID, due.Reminder.ID); err != nil {
		log.Error(ctx, errMarkReminderSent, zap.Error(err))
		return false
	}

	log.Info(ctx, logReminderSent, zap.String("to", owner.Email))
	return true
}

// reminderBody строит HTML-текст письма с напоминанием.
func reminderBody(due repositories.DueReminder) string {
	description := ""
	if due.Reminder.Description != "" {
		description = fmt.Sprintf("<p>%s</p>", due.Reminder.Description)
	}
	return fmt.Sprintf(`<div>
  <h2>Note Reminder</h2>
  <h3>%s</h3>
  %s
  <p><strong>Note:</strong> %s</p>
  <p><strong>Due:</strong> %s</p>
</div>`, due.Reminder.Title, description, due.NoteTitle, due.Reminder.ReminderDate.Format(time.RFC1123))
}
