package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"thinkboard/internal/notes/ports/repositories"
	"thinkboard/pkg/logger"
)

// UserDirectory читает справочную проекцию пользователей, которую
// ведет внешний сервис аутентификации.
type UserDirectory struct {
	pool PgxPoolInterface
}

// NewUserDirectory создает новый справочник пользователей.
func NewUserDirectory(pool PgxPoolInterface) repositories.UserDirectory {
	return &UserDirectory{pool: pool}
}

// FindByID возвращает пользователя по идентификатору.
func (d *UserDirectory) FindByID(ctx context.Context, userID string) (*repositories.UserInfo, error) {
	log := logger.Log(ctx).With(zap.String("method", "UserDirectory.FindByID"))

	var user repositories.UserInfo
	err := d.pool.QueryRow(ctx,
		`SELECT id, username, email FROM users WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Username, &user.Email)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("userID", userID))
			return nil, repositories.ErrUserNotFound
		}
		log.Error(ctx, "failed to find user", zap.Error(err))
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}
