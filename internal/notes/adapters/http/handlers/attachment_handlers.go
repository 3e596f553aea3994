package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"thinkboard/internal/notes/app"
	"thinkboard/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerUploadAttachments = "handling upload attachments request"
	LogHandlerGetAttachment     = "handling get attachment request"
	LogHandlerDeleteAttachment  = "handling delete attachment request"

	ErrMsgInvalidAttachmentID = "invalid attachment id"
	ErrMsgNoFiles             = "no files uploaded"
)

// UploadAttachments обрабатывает загрузку вложений к заметке.
func (h *Handler) UploadAttachments(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.UploadAttachments"))
	log.Debug(userCtx, LogHandlerUploadAttachments)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		log.Error(userCtx, ErrMsgNoFiles, zap.Error(err))
		return badRequest(ctx, ErrMsgNoFiles)
	}

	uploads, err := readUploads(form.File["files"])
	if err != nil {
		log.Error(userCtx, "failed to read uploaded files", zap.Error(err))
		return badRequest(ctx, ErrMsgNoFiles)
	}

	attachments, err := h.notes.AddAttachments(userCtx, userID, noteID, uploads)
	if err != nil {
		log.Error(userCtx, "failed to add attachments", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"attachments": attachments,
	}); err != nil {
		return sendError(err)
	}
	return nil
}

// GetAttachment обрабатывает скачивание вложения.
func (h *Handler) GetAttachment(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.GetAttachment"))
	log.Debug(userCtx, LogHandlerGetAttachment)

	noteID := ctx.Params("note_id")
	attachmentID := ctx.Params("attachment_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}
	if attachmentID == "" {
		return badRequest(ctx, ErrMsgInvalidAttachmentID)
	}

	content, err := h.notes.OpenAttachment(userCtx, userID, noteID, attachmentID)
	if err != nil {
		log.Error(userCtx, "failed to open attachment", zap.Error(err))
		return handleError(ctx, err)
	}

	ctx.Set(fiber.HeaderContentType, content.Meta.Mimetype)
	ctx.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", content.Meta.OriginalName))

	if err := ctx.Send(content.Data); err != nil {
		return sendError(err)
	}
	return nil
}

// DeleteAttachment обрабатывает удаление вложения.
func (h *Handler) DeleteAttachment(ctx fiber.Ctx) error {
	userCtx, userID := requestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.DeleteAttachment"))
	log.Debug(userCtx, LogHandlerDeleteAttachment)

	noteID := ctx.Params("note_id")
	attachmentID := ctx.Params("attachment_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}
	if attachmentID == "" {
		return badRequest(ctx, ErrMsgInvalidAttachmentID)
	}

	if err := h.notes.RemoveAttachment(userCtx, userID, noteID, attachmentID); err != nil {
		log.Error(userCtx, "failed to delete attachment", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return sendError(err)
	}
	return nil
}

// readUploads читает файлы из multipart-формы в память.
func readUploads(files []*multipart.FileHeader) ([]app.Upload, error) {
	uploads := make([]app.Upload, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}
		data, err := io.ReadAll(file)
		closeErr := file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file: %w", err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("failed to close uploaded file: %w", closeErr)
		}
		uploads = append(uploads, app.Upload{
			OriginalName: header.Filename,
			Mimetype:     header.Header.Get("Content-Type"),
			Data:         data,
		})
	}
	return uploads, nil
}
