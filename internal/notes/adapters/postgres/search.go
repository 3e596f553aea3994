package postgres

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"thinkboard/internal/notes/domain/entities"
	"thinkboard/internal/notes/ports/repositories"
	"thinkboard/pkg/logger"
)

// sortColumns отображает ключи сортировки фильтра на колонки таблицы.
var sortColumns = map[string]string{
	repositories.SortByLastModified: "last_modified",
	repositories.SortByCreatedAt:    "created_at",
	repositories.SortByTitle:        "title",
	repositories.SortByPriority:     "priority",
}

// Search возвращает страницу заметок владельца и общее число совпадений.
func (r *NoteRepository) Search(ctx context.Context, ownerID string, filter *repositories.SearchFilter) ([]*entities.Note, int, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Search"))
	log.Debug(ctx, "searching notes", zap.String("ownerID", ownerID),
		zap.Int("page", filter.Page), zap.Int("limit", filter.Limit))

	where, args := buildSearchWhere(ownerID, filter)

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notes WHERE `+where, args...).Scan(&total)
	if err != nil {
		log.Error(ctx, "failed to count notes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	orderBy := sortColumns[filter.SortBy]
	if orderBy == "" {
		orderBy = "last_modified"
	}
	direction := "DESC"
	if filter.SortOrder == repositories.SortOrderAsc {
		direction = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM notes WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		noteColumns, where, orderBy, direction, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "failed to search notes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to search notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, 0, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, total, nil
}

// DistinctTags возвращает все уникальные теги заметок владельца.
func (r *NoteRepository) DistinctTags(ctx context.Context, ownerID string) ([]string, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.DistinctTags"))

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT unnest(tags) AS tag FROM notes WHERE owner_id = $1 ORDER BY tag`,
		ownerID,
	)
	if err != nil {
		log.Error(ctx, "failed to list tags", zap.Error(err))
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tags, nil
}

// ListSharedWith возвращает заметки, где пользователь числится соавтором.
func (r *NoteRepository) ListSharedWith(ctx context.Context, userID string, limit, offset int) ([]*entities.Note, int, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.ListSharedWith"))

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notes WHERE collaborators ? $1`,
		userID,
	).Scan(&total)
	if err != nil {
		log.Error(ctx, "failed to count shared notes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count shared notes: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+noteColumns+` FROM notes
         WHERE collaborators ? $1
         ORDER BY last_modified DESC
         LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		log.Error(ctx, "failed to list shared notes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list shared notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, total, nil
}

// buildSearchWhere собирает условие поиска и аргументы запроса.
func buildSearchWhere(ownerID string, filter *repositories.SearchFilter) (string, []interface{}) {
	conditions := []string{"owner_id = $1"}
	args := []interface{}{ownerID}

	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Text != "" {
		placeholder := arg("%" + filter.Text + "%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE %s OR content ILIKE %s)", placeholder, placeholder))
	}
	if len(filter.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf("tags && %s", arg(filter.Tags)))
	}
	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = %s", arg(string(*filter.Category))))
	}
	if filter.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = %s", arg(string(*filter.Priority))))
	}
	if filter.IsFavorite != nil {
		conditions = append(conditions, fmt.Sprintf("is_favorite = %s", arg(*filter.IsFavorite)))
	}
	if filter.CreatedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= %s", arg(*filter.CreatedFrom)))
	}
	if filter.CreatedTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= %s", arg(*filter.CreatedTo)))
	}

	return strings.Join(conditions, " AND "), args
}
