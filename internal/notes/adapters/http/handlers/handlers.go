// Package handlers содержит HTTP-обработчики сервиса заметок.
package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"thinkboard/internal/notes/adapters/http/middleware"
	"thinkboard/internal/notes/app"
	"thinkboard/internal/notes/domain/entities"
	"thinkboard/internal/notes/ports/repositories"
	"thinkboard/internal/notes/ports/services"
)

// Константы ошибок и сообщений для логирования.
const (
	ErrMsgInvalidNoteID      = "invalid note id"
	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgInternal           = "Internal server error"
)

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	notes     *app.NoteUseCase
	shares    *app.ShareUseCase
	reminders *app.ReminderUseCase
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(notes *app.NoteUseCase, shares *app.ShareUseCase, reminders *app.ReminderUseCase) *Handler {
	return &Handler{
		notes:     notes,
		shares:    shares,
		reminders: reminders,
	}
}

// requestContext извлекает контекст запроса и идентификатор
// пользователя, установленные промежуточным ПО аутентификации.
func requestContext(ctx fiber.Ctx) (context.Context, string) {
	userCtx, ok := ctx.Locals(middleware.LocalUserContext).(context.Context)
	if !ok {
		userCtx = ctx.Context() // Запасной вариант
	}
	userID, _ := ctx.Locals(middleware.LocalUserID).(string)
	return userCtx, userID
}

// badRequest отправляет ответ 400 с сообщением.
func badRequest(ctx fiber.Ctx, message string) error {
	if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	}); err != nil {
		return fmt.Errorf("failed to send bad request response: %w", err)
	}
	return nil
}

// sendError оборачивает ошибку отправки успешного ответа.
func sendError(err error) error {
	return fmt.Errorf("error sending response: %w", err)
}

// handleError переводит ошибки бизнес-логики в HTTP-статусы.
func handleError(ctx fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := ErrMsgInternal

	var validationErr *entities.ValidationError

	switch {
	case errors.As(err, &validationErr):
		status = fiber.StatusBadRequest
		message = validationErr.Error()
	case errors.Is(err, entities.ErrNotFoundOrForbidden),
		errors.Is(err, entities.ErrVersionNotFound),
		errors.Is(err, entities.ErrReminderNotFound),
		errors.Is(err, entities.ErrAttachmentNotFound),
		errors.Is(err, entities.ErrShareNotFound),
		errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, services.ErrBlobNotFound):
		status = fiber.StatusNotFound
		message = err.Error()
	case errors.Is(err, entities.ErrShareExpired):
		status = fiber.StatusGone
		message = err.Error()
	case errors.Is(err, entities.ErrConflict):
		status = fiber.StatusConflict
		message = err.Error()
	}

	if sendErr := ctx.Status(status).JSON(fiber.Map{
		"error": message,
	}); sendErr != nil {
		return fmt.Errorf("error sending error response: %w", sendErr)
	}
	return nil
}
