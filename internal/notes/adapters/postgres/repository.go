// Package postgres provides PostgreSQL implementations of repositories.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"thinkboard/internal/notes/ports/repositories"
)

// PgxPoolInterface абстрагирует пул соединений pgx для подмены в тестах.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// RepositoryFactory создает репозитории поверх одного пула соединений.
type RepositoryFactory struct {
	pool PgxPoolInterface
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{pool: pool}
}

// NoteRepository возвращает репозиторий заметок.
func (f *RepositoryFactory) NoteRepository() repositories.NoteRepository {
	return NewNoteRepository(f.pool)
}

// UserDirectory возвращает справочник пользователей.
func (f *RepositoryFactory) UserDirectory() repositories.UserDirectory {
	return NewUserDirectory(f.pool)
}
