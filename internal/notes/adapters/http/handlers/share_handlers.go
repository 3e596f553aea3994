package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"thinkboard/internal/notes/adapters/http/dto"
	"thinkboard/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerShareNote     = "handling share note request"
	LogHandlerRevokeShare   = "handling revoke share request"
	LogHandlerGetSharedNote = "handling get shared note request"

	ErrMsgInvalidShareToken = "invalid share token"
)

// ShareNote обрабатывает создание или замену ссылки доступа к заметке.
func (h *Handler) ShareNote(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.ShareNote"))
	log.Debug(userCtx, LogHandlerShareNote)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	var req dto.ShareRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Error(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}

	token, err := h.shares.CreateOrReplace(userCtx, userID, noteID, req.ToParams())
	if err != nil {
		log.Error(userCtx, "failed to share note", zap.Error(err))
		return handleError(ctx, err)
	}

	resp := dto.ShareResponse{
		ShareToken: token,
		ShareURL:   "/api/v1/shared/" + token,
	}
	if err := ctx.Status(fiber.StatusCreated).JSON(resp); err != nil {
		return sendError(err)
	}
	return nil
}

// RevokeShare обрабатывает отзыв ссылки доступа.
func (h *Handler) RevokeShare(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.RevokeShare"))
	log.Debug(userCtx, LogHandlerRevokeShare)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	if err := h.shares.Revoke(userCtx, userID, noteID); err != nil {
		log.Error(userCtx, "failed to revoke share", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return sendError(err)
	}
	return nil
}

// GetSharedNote обрабатывает чтение заметки по токену доступа.
// Маршрут доступен и анонимно: токен сам по себе дает доступ к
// публичным ссылкам.
func (h *Handler) GetSharedNote(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.GetSharedNote"))
	log.Debug(userCtx, LogHandlerGetSharedNote)

	token := ctx.Params("token")
	if token == "" {
		return badRequest(ctx, ErrMsgInvalidShareToken)
	}

	view, err := h.shares.Resolve(userCtx, token, userID)
	if err != nil {
		log.Error(userCtx, "failed to resolve shared note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(view); err != nil {
		return sendError(err)
	}
	return nil
}
