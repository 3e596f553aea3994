package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"thinkboard/internal/notes/domain/entities"
	"thinkboard/internal/notes/ports/repositories"
	"thinkboard/pkg/logger"
)

// uniqueViolationCode - код ошибки Postgres для нарушения уникальности.
const uniqueViolationCode = "23505"

// noteColumns - список колонок заметки в порядке сканирования.
const noteColumns = `id, owner_id, title, content, tags, category, priority, is_favorite,
       current_version, collaborators, attachments, versions, reminders, sharing,
       revision, created_at, last_modified`

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	pool PgxPoolInterface
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create сохраняет новый агрегат заметки в БД.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note", zap.String("ownerID", note.OwnerID))

	collaborators, attachments, versions, reminders, sharing, err := marshalAggregate(note)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO notes (id, owner_id, title, content, tags, category, priority, is_favorite,
                            current_version, collaborators, attachments, versions, reminders, sharing,
                            revision, created_at, last_modified)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		note.ID, note.OwnerID, note.Title, note.Content, note.Tags, string(note.Category),
		string(note.Priority), note.IsFavorite, note.CurrentVersion, collaborators, attachments,
		versions, reminders, sharing, note.Revision, note.CreatedAt, note.LastModified,
	)
	if err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		return fmt.Errorf("failed to create note: %w", err)
	}

	log.Debug(ctx, "note created", zap.String("noteID", note.ID))
	return nil
}

// GetByID получает агрегат заметки по ID. Возвращает nil без ошибки,
// если заметка отсутствует.
func (r *NoteRepository) GetByID(ctx context.Context, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetByID"))

	row := r.pool.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1`,
		noteID,
	)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return nil, nil
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// Save перезаписывает агрегат с оптимистичной проверкой ревизии.
// Возвращает entities.ErrConflict при расхождении ревизий и
// repositories.ErrDuplicateShareToken при коллизии токена доступа.
func (r *NoteRepository) Save(ctx context.Context, note *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Save"))
	log.Debug(ctx, "saving note", zap.String("noteID", note.ID), zap.Int64("revision", note.Revision))

	collaborators, attachments, versions, reminders, sharing, err := marshalAggregate(note)
	if err != nil {
		return err
	}

	result, err := r.pool.Exec(ctx,
		`UPDATE notes
         SET title = $1, content = $2, tags = $3, category = $4, priority = $5,
             is_favorite = $6, current_version = $7, collaborators = $8, attachments = $9,
             versions = $10, reminders = $11, sharing = $12, last_modified = $13,
             revision = revision + 1
         WHERE id = $14 AND revision = $15`,
		note.Title, note.Content, note.Tags, string(note.Category), string(note.Priority),
		note.IsFavorite, note.CurrentVersion, collaborators, attachments, versions, reminders,
		sharing, note.LastModified, note.ID, note.Revision,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			log.Debug(ctx, "share token collision", zap.String("noteID", note.ID))
			return repositories.ErrDuplicateShareToken
		}
		log.Error(ctx, "failed to save note", zap.Error(err))
		return fmt.Errorf("failed to save note: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "revision mismatch", zap.String("noteID", note.ID))
		return entities.ErrConflict
	}

	note.Revision++
	return nil
}

// Delete удаляет агрегат заметки.
func (r *NoteRepository) Delete(ctx context.Context, noteID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))
	log.Debug(ctx, "deleting note", zap.String("noteID", noteID))

	result, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, noteID)
	if err != nil {
		log.Error(ctx, "failed to delete note", zap.Error(err))
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entities.ErrNotFoundOrForbidden
	}

	return nil
}

// FindByShareToken находит заметку по токену доступа. Возвращает nil
// без ошибки, если токен никому не принадлежит.
func (r *NoteRepository) FindByShareToken(ctx context.Context, token string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.FindByShareToken"))

	row := r.pool.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE sharing->>'shareToken' = $1`,
		token,
	)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		log.Error(ctx, "failed to find note by share token", zap.Error(err))
		return nil, fmt.Errorf("failed to find note by share token: %w", err)
	}

	return note, nil
}

// marshalAggregate сериализует вложенные коллекции агрегата в JSONB.
func marshalAggregate(note *entities.Note) (collaborators, attachments, versions, reminders, sharing []byte, err error) {
	collaboratorMap := note.Collaborators
	if collaboratorMap == nil {
		collaboratorMap = map[string]entities.Permission{}
	}
	if collaborators, err = json.Marshal(collaboratorMap); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal collaborators: %w", err)
	}

	attachmentList := note.Attachments
	if attachmentList == nil {
		attachmentList = []entities.Attachment{}
	}
	if attachments, err = json.Marshal(attachmentList); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal attachments: %w", err)
	}

	if versions, err = json.Marshal(note.Versions); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal versions: %w", err)
	}

	reminderList := note.Reminders
	if reminderList == nil {
		reminderList = []entities.Reminder{}
	}
	if reminders, err = json.Marshal(reminderList); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal reminders: %w", err)
	}

	if note.Sharing != nil {
		if sharing, err = json.Marshal(note.Sharing); err != nil {
			return nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal sharing: %w", err)
		}
	}

	return collaborators, attachments, versions, reminders, sharing, nil
}

// scanNote читает одну строку заметки, разбирая JSONB-колонки.
func scanNote(row pgx.Row) (*entities.Note, error) {
	var note entities.Note
	var category, priority string
	var collaborators, attachments, versions, reminders, sharing []byte

	err := row.Scan(
		&note.ID, &note.OwnerID, &note.Title, &note.Content, &note.Tags, &category, &priority,
		&note.IsFavorite, &note.CurrentVersion, &collaborators, &attachments, &versions,
		&reminders, &sharing, &note.Revision, &note.CreatedAt, &note.LastModified,
	)
	if err != nil {
		return nil, err
	}

	note.Category = entities.Category(category)
	note.Priority = entities.Priority(priority)

	if len(collaborators) > 0 {
		if err := json.Unmarshal(collaborators, &note.Collaborators); err != nil {
			return nil, fmt.Errorf("failed to unmarshal collaborators: %w", err)
		}
	}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &note.Attachments); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attachments: %w", err)
		}
	}
	if len(versions) > 0 {
		if err := json.Unmarshal(versions, &note.Versions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal versions: %w", err)
		}
	}
	if len(reminders) > 0 {
		if err := json.Unmarshal(reminders, &note.Reminders); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reminders: %w", err)
		}
	}
	if len(sharing) > 0 {
		note.Sharing = &entities.ShareRecord{}
		if err := json.Unmarshal(sharing, note.Sharing); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sharing: %w", err)
		}
	}

	return &note, nil
}
