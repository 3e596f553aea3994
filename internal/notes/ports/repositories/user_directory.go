package repositories

import (
	"context"
	"errors"
)

// ErrUserNotFound возвращается, когда пользователь отсутствует в справочнике.
var ErrUserNotFound = errors.New("user not found")

// UserInfo - проекция пользователя для отображения и доставки уведомлений.
// Сервис заметок не хранит учетные данные, только справочные поля.
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserDirectory - справочник пользователей, ведется внешним сервисом
// аутентификации.
type UserDirectory interface {
	FindByID(ctx context.Context, userID string) (*UserInfo, error)
}
