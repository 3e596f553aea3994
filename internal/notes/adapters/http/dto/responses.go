package dto

import (
	"thinkboard/internal/notes/domain/entities"
)

// NoteListResponse - страница результатов поиска заметок.
type NoteListResponse struct {
	Notes []*entities.Note `json:"notes"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ShareResponse - созданная ссылка доступа.
type ShareResponse struct {
	ShareToken string `json:"shareToken"`
	ShareURL   string `json:"shareUrl"`
}

// TagsResponse - список тегов пользователя.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// ErrorResponse - тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}
