package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"thinkboard/internal/notes/adapters/http/dto"
	"thinkboard/internal/notes/domain/entities"
	"thinkboard/internal/notes/ports/repositories"
	"thinkboard/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerCreateNote  = "handling create note request"
	LogHandlerGetNote     = "handling get note request"
	LogHandlerSearchNotes = "handling search notes request"
	LogHandlerUpdateNote  = "handling update note request"
	LogHandlerDeleteNote  = "handling delete note request"

	ErrMsgInvalidPagination = "invalid pagination parameters"
	ErrMsgInvalidVersion    = "invalid version number"
)

// CreateNote обрабатывает запрос на создание новой заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.CreateNote"))
	log.Debug(userCtx, LogHandlerCreateNote)

	var req dto.CreateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Error(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}

	note, err := h.notes.Create(userCtx, userID, req.ToParams())
	if err != nil {
		log.Error(userCtx, "failed to create note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(note); err != nil {
		return sendError(err)
	}
	return nil
}

// GetNote обрабатывает запрос на получение заметки по ID.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.GetNote"))
	log.Debug(userCtx, LogHandlerGetNote)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		log.Error(userCtx, ErrMsgInvalidNoteID)
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	note, err := h.notes.Get(userCtx, userID, noteID)
	if err != nil {
		log.Error(userCtx, "failed to get note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return sendError(err)
	}
	return nil
}

// SearchNotes обрабатывает запрос на поиск заметок владельца.
func (h *Handler) SearchNotes(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.SearchNotes"))
	log.Debug(userCtx, LogHandlerSearchNotes)

	filter, err := parseSearchFilter(ctx)
	if err != nil {
		log.Error(userCtx, ErrMsgInvalidPagination, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidPagination)
	}

	notes, total, err := h.notes.Search(userCtx, userID, filter)
	if err != nil {
		log.Error(userCtx, "failed to search notes", zap.Error(err))
		return handleError(ctx, err)
	}

	resp := dto.NoteListResponse{
		Notes: notes,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	if err := ctx.JSON(resp); err != nil {
		return sendError(err)
	}
	return nil
}

// UpdateNote обрабатывает запрос на частичное обновление заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.UpdateNote"))
	log.Debug(userCtx, LogHandlerUpdateNote)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		log.Error(userCtx, ErrMsgInvalidNoteID)
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	var req dto.UpdateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Error(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}

	note, err := h.notes.Update(userCtx, userID, noteID, req.ToPatch())
	if err != nil {
		log.Error(userCtx, "failed to update note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return sendError(err)
	}
	return nil
}

// DeleteNote обрабатывает запрос на удаление заметки.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.DeleteNote"))
	log.Debug(userCtx, LogHandlerDeleteNote)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		log.Error(userCtx, ErrMsgInvalidNoteID)
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	if err := h.notes.Delete(userCtx, userID, noteID); err != nil {
		log.Error(userCtx, "failed to delete note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return sendError(err)
	}
	return nil
}

// ListVersions обрабатывает запрос на получение истории версий заметки.
func (h *Handler) ListVersions(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.ListVersions"))

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	note, err := h.notes.Get(userCtx, userID, noteID)
	if err != nil {
		log.Error(userCtx, "failed to get note versions", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(fiber.Map{
		"versions":       note.Versions,
		"currentVersion": note.CurrentVersion,
	}); err != nil {
		return sendError(err)
	}
	return nil
}

// GetVersion обрабатывает запрос на получение одной версии заметки.
func (h *Handler) GetVersion(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.GetVersion"))

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	versionNumber, err := strconv.Atoi(ctx.Params("version"))
	if err != nil {
		return badRequest(ctx, ErrMsgInvalidVersion)
	}

	note, err := h.notes.Get(userCtx, userID, noteID)
	if err != nil {
		log.Error(userCtx, "failed to get note", zap.Error(err))
		return handleError(ctx, err)
	}

	version, err := note.VersionByNumber(versionNumber)
	if err != nil {
		return handleError(ctx, err)
	}

	if err := ctx.JSON(version); err != nil {
		return sendError(err)
	}
	return nil
}

// RestoreVersion обрабатывает запрос на восстановление версии заметки.
func (h *Handler) RestoreVersion(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.RestoreVersion"))

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	versionNumber, err := strconv.Atoi(ctx.Params("version"))
	if err != nil {
		return badRequest(ctx, ErrMsgInvalidVersion)
	}

	note, err := h.notes.Restore(userCtx, userID, noteID, versionNumber)
	if err != nil {
		log.Error(userCtx, "failed to restore version", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return sendError(err)
	}
	return nil
}

// ListTags обрабатывает запрос на получение тегов пользователя.
func (h *Handler) ListTags(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.ListTags"))

	tags, err := h.notes.Tags(userCtx, userID)
	if err != nil {
		log.Error(userCtx, "failed to list tags", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(dto.TagsResponse{Tags: tags}); err != nil {
		return sendError(err)
	}
	return nil
}

// ListSharedWithMe обрабатывает запрос на заметки, где пользователь соавтор.
func (h *Handler) ListSharedWithMe(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.ListSharedWithMe"))

	page, limit, err := parsePagination(ctx)
	if err != nil {
		return badRequest(ctx, ErrMsgInvalidPagination)
	}

	notes, total, err := h.notes.SharedWithMe(userCtx, userID, page, limit)
	if err != nil {
		log.Error(userCtx, "failed to list shared notes", zap.Error(err))
		return handleError(ctx, err)
	}

	resp := dto.NoteListResponse{
		Notes: notes,
		Total: total,
		Page:  page,
		Limit: limit,
	}
	if err := ctx.JSON(resp); err != nil {
		return sendError(err)
	}
	return nil
}

// parsePagination читает параметры страницы из строки запроса.
func parsePagination(ctx fiber.Ctx) (int, int, error) {
	page, err := strconv.Atoi(ctx.Query("page", "1"))
	if err != nil {
		return 0, 0, err
	}
	limit, err := strconv.Atoi(ctx.Query("limit", "10"))
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

// parseSearchFilter читает фильтр поиска из строки запроса.
func parseSearchFilter(ctx fiber.Ctx) (*repositories.SearchFilter, error) {
	page, limit, err := parsePagination(ctx)
	if err != nil {
		return nil, err
	}

	filter := &repositories.SearchFilter{
		Text:      ctx.Query("q"),
		SortBy:    ctx.Query("sortBy"),
		SortOrder: ctx.Query("sortOrder"),
		Page:      page,
		Limit:     limit,
	}

	if tags := ctx.Query("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}
	if category := ctx.Query("category"); category != "" {
		value := entities.Category(category)
		filter.Category = &value
	}
	if priority := ctx.Query("priority"); priority != "" {
		value := entities.Priority(priority)
		filter.Priority = &value
	}
	if favorite := ctx.Query("isFavorite"); favorite != "" {
		value, err := strconv.ParseBool(favorite)
		if err != nil {
			return nil, err
		}
		filter.IsFavorite = &value
	}
	if from := ctx.Query("from"); from != "" {
		value, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, err
		}
		filter.CreatedFrom = &value
	}
	if to := ctx.Query("to"); to != "" {
		value, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, err
		}
		filter.CreatedTo = &value
	}

	return filter, nil
}
