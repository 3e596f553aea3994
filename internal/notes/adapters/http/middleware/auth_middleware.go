// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"thinkboard/internal/notes/ports/services"
	"thinkboard/pkg/logger"
)

// Ключи значений запроса, устанавливаемых промежуточным ПО.
const (
	LocalUserID      = "userID"
	LocalUserContext = "userContext"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorInvalidToken       = "invalid or expired token"
)

// NewAuthMiddleware создает промежуточное ПО, требующее действительный
// токен доступа. Идентификатор пользователя кладется в Locals.
func NewAuthMiddleware(tokens services.TokenService) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := logger.NewRequestIDContext(ctx.Context(), logger.GenerateRequestID())
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		token, ok := bearerToken(ctx)
		if !ok {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			if err := ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrorNoAuthHeader,
			}); err != nil {
				return fmt.Errorf("failed to send unauthorized response: %w", err)
			}
			return nil
		}

		userID, err := tokens.ValidateAccessToken(requestCtx, token)
		if err != nil {
			if !errors.Is(err, services.ErrInvalidJWTToken) && !errors.Is(err, services.ErrExpiredJWTToken) {
				log.Error(requestCtx, "token validation failed", zap.Error(err))
			}
			if err := ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrorInvalidToken,
			}); err != nil {
				return fmt.Errorf("failed to send unauthorized response: %w", err)
			}
			return nil
		}

		ctx.Locals(LocalUserID, userID)
		ctx.Locals(LocalUserContext, requestCtx)

		return ctx.Next()
	}
}

// NewOptionalAuthMiddleware создает промежуточное ПО для маршрутов,
// доступных и без токена: действительный токен дает идентификатор
// пользователя, отсутствующий или негодный оставляет запрос анонимным.
func NewOptionalAuthMiddleware(tokens services.TokenService) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := logger.NewRequestIDContext(ctx.Context(), logger.GenerateRequestID())
		ctx.Locals(LocalUserContext, requestCtx)

		token, ok := bearerToken(ctx)
		if !ok {
			return ctx.Next()
		}

		userID, err := tokens.ValidateAccessToken(requestCtx, token)
		if err == nil {
			ctx.Locals(LocalUserID, userID)
		}

		return ctx.Next()
	}
}

// bearerToken извлекает токен из заголовка Authorization.
func bearerToken(ctx fiber.Ctx) (string, bool) {
	authHeader := ctx.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}
