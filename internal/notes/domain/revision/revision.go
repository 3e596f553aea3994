// Package revision реализует чистую логику версионирования заметок.
//
// Решение "нужна ли новая версия" вынесено в явный предикат: версию
// порождают только изменения title/content/tags, остальные поля
// обновляются без записи в историю.
package revision

import (
	"time"

	"thinkboard/internal/notes/domain/entities"
)

// Patch описывает частичное обновление заметки. Нулевой указатель
// означает "поле не тронуто"; для тегов ту же роль играет nil-срез.
type Patch struct {
	Title      *string
	Content    *string
	Tags       []string
	Category   *entities.Category
	Priority   *entities.Priority
	IsFavorite *bool
}

// TouchesContent сообщает, затрагивает ли патч поля, входящие в версию.
func (p Patch) TouchesContent() bool {
	return p.Title != nil || p.Content != nil || p.Tags != nil
}

// Empty сообщает, что патч не изменяет ни одного поля.
func (p Patch) Empty() bool {
	return !p.TouchesContent() && p.Category == nil && p.Priority == nil && p.IsFavorite == nil
}

// Validate проверяет значения патча до применения.
func (p Patch) Validate() error {
	if p.Title != nil {
		if err := entities.ValidateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Content != nil {
		if err := entities.ValidateContent(*p.Content); err != nil {
			return err
		}
	}
	if p.Tags != nil {
		for _, tag := range entities.NormalizeTags(p.Tags) {
			if len(tag) > entities.MaxTagLength {
				return &entities.ValidationError{Field: "tags", Reason: "tag exceeds maximum length"}
			}
		}
	}
	if p.Category != nil && !p.Category.Valid() {
		return &entities.ValidationError{Field: "category", Reason: "unknown category"}
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return &entities.ValidationError{Field: "priority", Reason: "unknown priority"}
	}
	return nil
}

// Apply применяет патч к заметке. Если патч затрагивает содержимое,
// к истории добавляется ровно одна новая версия и currentVersion
// увеличивается на единицу. Возвращает true, когда версия была создана.
// Патч должен быть предварительно проверен через Validate.
func Apply(note *entities.Note, patch Patch, actorID string, now time.Time) bool {
	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if patch.Tags != nil {
		note.Tags = entities.NormalizeTags(patch.Tags)
	}
	if patch.Category != nil {
		note.Category = *patch.Category
	}
	if patch.Priority != nil {
		note.Priority = *patch.Priority
	}
	if patch.IsFavorite != nil {
		note.IsFavorite = *patch.IsFavorite
	}

	note.LastModified = now

	if !patch.TouchesContent() {
		return false
	}

	appendSnapshot(note, actorID, now)
	return true
}

// Restore копирует содержимое версии targetVersion в новую версию в
// конце истории. Восстановление текущей версии также создает новую
// запись: история отражает сам факт восстановления.
func Restore(note *entities.Note, targetVersion int, actorID string, now time.Time) error {
	target, err := note.VersionByNumber(targetVersion)
	if err != nil {
		return err
	}

	note.Title = target.Title
	note.Content = target.Content
	note.Tags = append([]string(nil), target.Tags...)
	note.LastModified = now

	appendSnapshot(note, actorID, now)
	return nil
}

// appendSnapshot фиксирует текущее содержимое заметки как новую версию.
func appendSnapshot(note *entities.Note, actorID string, now time.Time) {
	next := note.CurrentVersion + 1
	note.Versions = append(note.Versions, entities.Version{
		VersionNumber: next,
		Title:         note.Title,
		Content:       note.Content,
		Tags:          append([]string(nil), note.Tags...),
		CreatedAt:     now,
		CreatedBy:     actorID,
	})
	note.CurrentVersion = next
}
