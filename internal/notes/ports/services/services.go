// Package services определяет интерфейсы внешних сервисов,
// используемых бизнес-логикой заметок.
package services

import (
	"context"
	"errors"
	"time"
)

// Ошибки проверки токенов доступа.
var (
	ErrInvalidJWTToken = errors.New("invalid JWT token")
	ErrExpiredJWTToken = errors.New("JWT token has expired")
)

// ErrBlobNotFound возвращается хранилищем файлов при отсутствии объекта.
var ErrBlobNotFound = errors.New("blob not found")

// TokenService проверяет токены доступа, выданные внешним сервисом
// аутентификации, и возвращает идентификатор пользователя.
type TokenService interface {
	ValidateAccessToken(ctx context.Context, token string) (string, error)
}

// BlobStore - непрозрачное хранилище файлов, адресуемое путем.
// Delete терпим к отсутствию объекта: каскадное удаление заметки
// не должно падать из-за уже отсутствующего файла.
type BlobStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Get(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

// EmailTransport доставляет уведомления владельцам заметок.
type EmailTransport interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Clock - источник времени, внедряется для детерминированных тестов.
type Clock interface {
	Now() time.Time
}
