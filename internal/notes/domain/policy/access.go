// Package policy реализует правила доступа к заметкам.
//
// Функции пакета - единственная точка авторизации: ни одна операция
// над заметками не должна повторять эти проверки самостоятельно.
// Все функции детерминированы и не имеют побочных эффектов.
package policy

import (
	"time"

	"thinkboard/internal/notes/domain/entities"
)

// CanRead сообщает, может ли актор читать заметку: владелец, соавтор
// с любым правом, либо действующая публичная ссылка, либо актор входит
// в список allowedUsers действующей ссылки.
func CanRead(actorID string, note *entities.Note, now time.Time) bool {
	if actorID != "" && actorID == note.OwnerID {
		return true
	}
	if _, ok := note.Collaborators[actorID]; ok && actorID != "" {
		return true
	}
	if note.Sharing != nil && !note.Sharing.IsExpired(now) {
		if note.Sharing.IsPublic {
			return true
		}
		for _, allowed := range note.Sharing.AllowedUsers {
			if actorID != "" && actorID == allowed {
				return true
			}
		}
	}
	return false
}

// CanWrite сообщает, может ли актор изменять заметку: владелец либо
// соавтор с правом записи.
func CanWrite(actorID string, note *entities.Note) bool {
	if actorID == "" {
		return false
	}
	if actorID == note.OwnerID {
		return true
	}
	return note.Collaborators[actorID] == entities.PermissionWrite
}

// CanDelete сообщает, может ли актор удалить заметку. Удаление
// доступно только владельцу, соавторам с правом записи - нет.
func CanDelete(actorID string, note *entities.Note) bool {
	return actorID != "" && actorID == note.OwnerID
}
