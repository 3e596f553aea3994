package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"thinkboard/internal/notes/domain/entities"
	"thinkboard/internal/notes/domain/policy"
	"thinkboard/internal/notes/ports/services"
	"thinkboard/pkg/logger"
)

// Ограничения загрузки вложений. Проверяются до приема данных.
const (
	MaxAttachmentSize     = 10 * 1024 * 1024
	MaxAttachmentsPerCall = 5
)

// allowedMimetypes - допустимые типы вложений.
var allowedMimetypes = map[string]struct{}{
	"image/jpeg":         {},
	"image/jpg":          {},
	"image/png":          {},
	"image/gif":          {},
	"image/webp":         {},
	"application/pdf":    {},
	"text/plain":         {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// Upload - один файл, принятый от клиента.
type Upload struct {
	OriginalName string
	Mimetype     string
	Data         []byte
}

// AttachmentContent - вложение вместе с содержимым для выдачи клиенту.
type AttachmentContent struct {
	Meta entities.Attachment
	Data []byte
}

// ValidateUploads проверяет пакет загрузки до сохранения данных.
func ValidateUploads(uploads []Upload) error {
	if len(uploads) == 0 {
		return &entities.ValidationError{Field: "files", Reason: "no files uploaded"}
	}
	if len(uploads) > MaxAttachmentsPerCall {
		return &entities.ValidationError{Field: "files", Reason: "too many files"}
	}
	for _, upload := range uploads {
		if _, ok := allowedMimetypes[upload.Mimetype]; !ok {
			return &entities.ValidationError{Field: "files", Reason: "unsupported file type"}
		}
		if int64(len(upload.Data)) > MaxAttachmentSize {
			return &entities.ValidationError{Field: "files", Reason: "file exceeds size limit"}
		}
	}
	return nil
}

// AddAttachments сохраняет файлы в хранилище и прикрепляет их
// метаданные к заметке. Загрузка файлов идет до мутации агрегата;
// сама запись метаданных атомарна относительно других мутаций.
func (uc *NoteUseCase) AddAttachments(ctx context.Context, actorID, noteID string, uploads []Upload) ([]entities.Attachment, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.AddAttachments"))

	if err := ValidateUploads(uploads); err != nil {
		return nil, err
	}

	// Ранняя проверка доступа, чтобы не писать файлы впустую.
	note, err := uc.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil || !policy.CanWrite(actorID, note) {
		return nil, entities.ErrNotFoundOrForbidden
	}

	now := uc.clock.Now()
	attachments := make([]entities.Attachment, 0, len(uploads))
	for _, upload := range uploads {
		path, err := uc.blobs.Put(ctx, upload.Data, upload.Mimetype)
		if err != nil {
			uc.releaseBlobs(ctx, attachments)
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}
		attachments = append(attachments, entities.Attachment{
			ID:           uuid.New().String(),
			Filename:     path,
			OriginalName: upload.OriginalName,
			Mimetype:     upload.Mimetype,
			Size:         int64(len(upload.Data)),
			StoragePath:  path,
			UploadedAt:   now,
		})
	}

	_, err = mutateNote(ctx, uc.notes, actorID, noteID, canWriteGate, func(note *entities.Note) error {
		note.Attachments = append(note.Attachments, attachments...)
		note.LastModified = uc.clock.Now()
		return nil
	})
	if err != nil {
		log.Warn(ctx, "attachment metadata save failed, releasing blobs", zap.Error(err))
		uc.releaseBlobs(ctx, attachments)
		return nil, err
	}

	return attachments, nil
}

// RemoveAttachment удаляет вложение. Метаданные удаляются даже если
// файл не удалось освободить: метаданные - источник истины.
func (uc *NoteUseCase) RemoveAttachment(ctx context.Context, actorID, noteID, attachmentID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.RemoveAttachment"))

	var removed *entities.Attachment
	_, err := mutateNote(ctx, uc.notes, actorID, noteID, canWriteGate, func(note *entities.Note) error {
		attachment, err := note.RemoveAttachment(attachmentID)
		if err != nil {
			return err
		}
		removed = attachment
		note.LastModified = uc.clock.Now()
		return nil
	})
	if err != nil {
		return err
	}

	if err := uc.blobs.Delete(ctx, removed.StoragePath); err != nil && !errors.Is(err, services.ErrBlobNotFound) {
		log.Warn(ctx, "failed to release attachment blob",
			zap.String("noteID", noteID),
			zap.String("path", removed.StoragePath),
			zap.Error(err))
	}

	return nil
}

// OpenAttachment возвращает вложение с содержимым для скачивания.
func (uc *NoteUseCase) OpenAttachment(ctx context.Context, actorID, noteID, attachmentID string) (*AttachmentContent, error) {
	note, err := uc.Get(ctx, actorID, noteID)
	if err != nil {
		return nil, err
	}

	attachment, err := note.AttachmentByID(attachmentID)
	if err != nil {
		return nil, err
	}

	data, err := uc.blobs.Get(ctx, attachment.StoragePath)
	if err != nil {
		if errors.Is(err, services.ErrBlobNotFound) {
			return nil, entities.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	return &AttachmentContent{Meta: *attachment, Data: data}, nil
}

// releaseBlobs убирает уже сохраненные файлы после неудачной загрузки.
func (uc *NoteUseCase) releaseBlobs(ctx context.Context, attachments []entities.Attachment) {
	log := logger.Log(ctx)
	for _, attachment := range attachments {
		if err := uc.blobs.Delete(ctx, attachment.StoragePath); err != nil && !errors.Is(err, services.ErrBlobNotFound) {
			log.Warn(ctx, "failed to release orphaned blob",
				zap.String("path", attachment.StoragePath),
				zap.Error(err))
		}
	}
}

// newReminder строит напоминание из параметров, проверяя обязательные поля.
func newReminder(params ReminderParams, now time.Time) (*entities.Reminder, error) {
	if err := entities.ValidateTitle(params.Title); err != nil {
		return nil, err
	}
	if params.ReminderDate.IsZero() {
		return nil, &entities.ValidationError{Field: "reminderDate", Reason: "must not be empty"}
	}

	return &entities.Reminder{
		ID:           uuid.New().String(),
		Title:        params.Title,
		Description:  params.Description,
		ReminderDate: params.ReminderDate,
		CreatedAt:    now,
	}, nil
}
