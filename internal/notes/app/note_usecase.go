// Package app implements application business logic for the notes service.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"thinkboard/internal/notes/domain/entities"
	"thinkboard/internal/notes/domain/policy"
	"thinkboard/internal/notes/domain/revision"
	"thinkboard/internal/notes/ports/repositories"
	"thinkboard/internal/notes/ports/services"
	"thinkboard/pkg/logger"
)

// maxSaveAttempts ограничивает число повторов операции
// чтение-изменение-запись при конфликте ревизий.
const maxSaveAttempts = 3

// Параметры пагинации по умолчанию.
const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// accessGate - предикат доступа, применяемый перед мутацией агрегата.
type accessGate func(actorID string, note *entities.Note) bool

// NoteUseCase представляет собой бизнес-логику работы с заметками.
type NoteUseCase struct {
	notes repositories.NoteRepository
	blobs services.BlobStore
	clock services.Clock
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(notes repositories.NoteRepository, blobs services.BlobStore, clock services.Clock) *NoteUseCase {
	return &NoteUseCase{
		notes: notes,
		blobs: blobs,
		clock: clock,
	}
}

// CreateNoteParams - параметры создания заметки.
type CreateNoteParams struct {
	Title     string
	Content   string
	Tags      []string
	Category  entities.Category
	Priority  entities.Priority
	Reminders []ReminderParams
}

// Create создает новую заметку с первой версией содержимого.
func (uc *NoteUseCase) Create(ctx context.Context, ownerID string, params CreateNoteParams) (*entities.Note, error) {
	now := uc.clock.Now()

	note, err := entities.NewNote(ownerID, params.Title, params.Content, params.Tags, params.Category, params.Priority, now)
	if err != nil {
		return nil, err
	}

	for _, reminderParams := range params.Reminders {
		reminder, err := newReminder(reminderParams, now)
		if err != nil {
			return nil, err
		}
		note.Reminders = append(note.Reminders, *reminder)
	}

	if err := uc.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

// Get возвращает заметку, если актор имеет право чтения.
func (uc *NoteUseCase) Get(ctx context.Context, actorID, noteID string) (*entities.Note, error) {
	note, err := uc.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil || !policy.CanRead(actorID, note, uc.clock.Now()) {
		return nil, entities.ErrNotFoundOrForbidden
	}
	return note, nil
}

// Update применяет частичное обновление заметки. Патч, затрагивающий
// содержимое, порождает ровно одну новую версию. Конкурентные записи
// разрешаются оптимистично с ограниченным числом повторов.
func (uc *NoteUseCase) Update(ctx context.Context, actorID, noteID string, patch revision.Patch) (*entities.Note, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	return mutateNote(ctx, uc.notes, actorID, noteID, canWriteGate, func(note *entities.Note) error {
		revision.Apply(note, patch, actorID, uc.clock.Now())
		return nil
	})
}

// Restore восстанавливает содержимое указанной версии, добавляя его
// в историю как новую версию.
func (uc *NoteUseCase) Restore(ctx context.Context, actorID, noteID string, targetVersion int) (*entities.Note, error) {
	return mutateNote(ctx, uc.notes, actorID, noteID, canWriteGate, func(note *entities.Note) error {
		return revision.Restore(note, targetVersion, actorID, uc.clock.Now())
	})
}

// Delete удаляет заметку вместе с файлами вложений. Удаление доступно
// только владельцу. Ошибки освобождения отдельных файлов логируются и
// не прерывают удаление: метаданные - источник истины.
func (uc *NoteUseCase) Delete(ctx context.Context, actorID, noteID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.Delete"))

	note, err := uc.notes.GetByID(ctx, noteID)
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil || !policy.CanDelete(actorID, note) {
		return entities.ErrNotFoundOrForbidden
	}

	for _, attachment := range note.Attachments {
		if err := uc.blobs.Delete(ctx, attachment.StoragePath); err != nil && !errors.Is(err, services.ErrBlobNotFound) {
			log.Warn(ctx, "failed to release attachment blob",
				zap.String("noteID", noteID),
				zap.String("path", attachment.StoragePath),
				zap.Error(err))
		}
	}

	if err := uc.notes.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

// Search возвращает страницу заметок владельца по заданному фильтру.
// Видимость по соавторству - отдельный запрос SharedWithMe, в поиск
// владельца она не входит.
func (uc *NoteUseCase) Search(ctx context.Context, ownerID string, filter *repositories.SearchFilter) ([]*entities.Note, int, error) {
	normalizeFilter(filter)

	notes, total, err := uc.notes.Search(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search notes: %w", err)
	}

	return notes, total, nil
}

// Tags возвращает все теги, встречающиеся в заметках владельца.
func (uc *NoteUseCase) Tags(ctx context.Context, ownerID string) ([]string, error) {
	tags, err := uc.notes.DistinctTags(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// SharedWithMe возвращает заметки, к которым актор имеет доступ как соавтор.
func (uc *NoteUseCase) SharedWithMe(ctx context.Context, actorID string, page, limit int) ([]*entities.Note, int, error) {
	if page < defaultPage {
		page = defaultPage
	}
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}

	notes, total, err := uc.notes.ListSharedWith(ctx, actorID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shared notes: %w", err)
	}

	return notes, total, nil
}

// AddCollaborator выдает пользователю право чтения или записи.
// Повторная выдача заменяет уровень доступа. Владелец не может быть
// добавлен как соавтор.
func (uc *NoteUseCase) AddCollaborator(ctx context.Context, actorID, noteID, userID string, permission entities.Permission) (*entities.Note, error) {
	if !permission.Valid() {
		return nil, &entities.ValidationError{Field: "permission", Reason: "unknown permission"}
	}
	if userID == "" {
		return nil, &entities.ValidationError{Field: "userId", Reason: "must not be empty"}
	}

	return mutateNote(ctx, uc.notes, actorID, noteID, canDeleteGate, func(note *entities.Note) error {
		if userID == note.OwnerID {
			return &entities.ValidationError{Field: "userId", Reason: "owner cannot be a collaborator"}
		}
		if note.Collaborators == nil {
			note.Collaborators = make(map[string]entities.Permission)
		}
		note.Collaborators[userID] = permission
		note.LastModified = uc.clock.Now()
		return nil
	})
}

// RemoveCollaborator отзывает доступ пользователя к заметке.
func (uc *NoteUseCase) RemoveCollaborator(ctx context.Context, actorID, noteID, userID string) (*entities.Note, error) {
	return mutateNote(ctx, uc.notes, actorID, noteID, canDeleteGate, func(note *entities.Note) error {
		if _, ok := note.Collaborators[userID]; !ok {
			return entities.ErrNotFoundOrForbidden
		}
		delete(note.Collaborators, userID)
		note.LastModified = uc.clock.Now()
		return nil
	})
}

// canWriteGate и canDeleteGate адаптируют policy к сигнатуре accessGate.
func canWriteGate(actorID string, note *entities.Note) bool {
	return policy.CanWrite(actorID, note)
}

func canDeleteGate(actorID string, note *entities.Note) bool {
	return policy.CanDelete(actorID, note)
}

// mutateNote выполняет цикл чтение-проверка доступа-изменение-запись с
// оптимистичным контролем конкуренции. Отсутствие заметки и отказ в
// доступе неразличимы для вызывающей стороны.
func mutateNote(ctx context.Context, notes repositories.NoteRepository, actorID, noteID string, gate accessGate, fn func(*entities.Note) error) (*entities.Note, error) {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		note, err := notes.GetByID(ctx, noteID)
		if err != nil {
			return nil, fmt.Errorf("failed to get note: %w", err)
		}
		if note == nil || !gate(actorID, note) {
			return nil, entities.ErrNotFoundOrForbidden
		}

		if err := fn(note); err != nil {
			return nil, err
		}

		err = notes.Save(ctx, note)
		if errors.Is(err, entities.ErrConflict) {
			logger.Log(ctx).Debug(ctx, "revision conflict, retrying",
				zap.String("noteID", noteID),
				zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save note: %w", err)
		}

		return note, nil
	}

	return nil, entities.ErrConflict
}

// normalizeFilter приводит параметры поиска к допустимым значениям.
func normalizeFilter(filter *repositories.SearchFilter) {
	if filter.Page < defaultPage {
		filter.Page = defaultPage
	}
	if filter.Limit <= 0 || filter.Limit > maxLimit {
		filter.Limit = defaultLimit
	}

	switch filter.SortBy {
	case repositories.SortByLastModified, repositories.SortByCreatedAt, repositories.SortByTitle, repositories.SortByPriority:
	default:
		filter.SortBy = repositories.SortByLastModified
	}

	if filter.SortOrder != repositories.SortOrderAsc {
		filter.SortOrder = repositories.SortOrderDesc
	}

	filter.Tags = entities.NormalizeTags(filter.Tags)
}
