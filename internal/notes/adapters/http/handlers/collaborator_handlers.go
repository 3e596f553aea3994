package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"thinkboard/internal/notes/adapters/http/dto"
	"thinkboard/internal/notes/domain/entities"
	"thinkboard/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerAddCollaborator    = "handling add collaborator request"
	LogHandlerRemoveCollaborator = "handling remove collaborator request"

	ErrMsgInvalidUserID = "invalid user id"
)

// AddCollaborator обрабатывает добавление соавтора к заметке.
func (h *Handler) AddCollaborator(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.AddCollaborator"))
	log.Debug(userCtx, LogHandlerAddCollaborator)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	var req dto.CollaboratorRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Error(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	if req.UserID == "" {
		return badRequest(ctx, ErrMsgInvalidUserID)
	}

	note, err := h.notes.AddCollaborator(userCtx, userID, noteID, req.UserID, entities.Permission(req.Permission))
	if err != nil {
		log.Error(userCtx, "failed to add collaborator", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return sendError(err)
	}
	return nil
}

// RemoveCollaborator обрабатывает удаление соавтора заметки.
func (h *Handler) RemoveCollaborator(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.RemoveCollaborator"))
	log.Debug(userCtx, LogHandlerRemoveCollaborator)

	noteID := ctx.Params("note_id")
	collaboratorID := ctx.Params("user_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}
	if collaboratorID == "" {
		return badRequest(ctx, ErrMsgInvalidUserID)
	}

	note, err := h.notes.RemoveCollaborator(userCtx, userID, noteID, collaboratorID)
	if err != nil {
		log.Error(userCtx, "failed to remove collaborator", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return sendError(err)
	}
	return nil
}
