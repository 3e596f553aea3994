// Package dto содержит структуры запросов и ответов HTTP API заметок.
package dto

import (
	"time"

	"thinkboard/internal/notes/app"
	"thinkboard/internal/notes/domain/entities"
	"thinkboard/internal/notes/domain/revision"
)

// ReminderRequest - напоминание в теле запроса.
type ReminderRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ReminderDate time.Time `json:"reminderDate"`
}

// CreateNoteRequest - запрос на создание заметки.
type CreateNoteRequest struct {
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Tags      []string          `json:"tags"`
	Category  string            `json:"category"`
	Priority  string            `json:"priority"`
	Reminders []ReminderRequest `json:"reminders"`
}

// ToParams переводит запрос в параметры бизнес-логики.
func (r *CreateNoteRequest) ToParams() app.CreateNoteParams {
	params := app.CreateNoteParams{
		Title:    r.Title,
		Content:  r.Content,
		Tags:     r.Tags,
		Category: entities.Category(r.Category),
		Priority: entities.Priority(r.Priority),
	}
	for _, rem := range r.Reminders {
		params.Reminders = append(params.Reminders, app.ReminderParams{
			Title:        rem.Title,
			Description:  rem.Description,
			ReminderDate: rem.ReminderDate,
		})
	}
	return params
}

// UpdateNoteRequest - запрос на частичное обновление заметки.
// Отсутствующие поля не трогаются.
type UpdateNoteRequest struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	Tags       []string `json:"tags"`
	Category   *string  `json:"category"`
	Priority   *string  `json:"priority"`
	IsFavorite *bool    `json:"isFavorite"`
}

// ToPatch переводит запрос в патч заметки.
func (r *UpdateNoteRequest) ToPatch() revision.Patch {
	patch := revision.Patch{
		Title:      r.Title,
		Content:    r.Content,
		Tags:       r.Tags,
		IsFavorite: r.IsFavorite,
	}
	if r.Category != nil {
		category := entities.Category(*r.Category)
		patch.Category = &category
	}
	if r.Priority != nil {
		priority := entities.Priority(*r.Priority)
		patch.Priority = &priority
	}
	return patch
}

// ShareRequest - запрос на создание или замену ссылки доступа.
type ShareRequest struct {
	IsPublic     bool       `json:"isPublic"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	AllowedUsers []string   `json:"allowedUsers"`
}

// ToParams переводит запрос в параметры бизнес-логики.
func (r *ShareRequest) ToParams() app.ShareParams {
	return app.ShareParams{
		IsPublic:     r.IsPublic,
		ExpiresAt:    r.ExpiresAt,
		AllowedUsers: r.AllowedUsers,
	}
}

// UpdateReminderRequest - запрос на отметку напоминания выполненным.
type UpdateReminderRequest struct {
	IsCompleted *bool `json:"isCompleted"`
}

// CollaboratorRequest - запрос на добавление соавтора.
type CollaboratorRequest struct {
	UserID     string `json:"userId"`
	Permission string `json:"permission"`
}
