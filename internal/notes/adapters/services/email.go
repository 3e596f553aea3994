package services

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"

	"thinkboard/internal/notes/config"
	"thinkboard/internal/notes/ports/services"
	"thinkboard/pkg/logger"
)

// Константы для сообщений об ошибках.
const (
	errSendEmail = "failed to send email"
)

// ResendTransport доставляет письма через Resend API.
type ResendTransport struct {
	client *resend.Client
	from   string
}

// NewResendTransport создает транспорт электронной почты.
func NewResendTransport(cfg *config.EmailConfig) *ResendTransport {
	return &ResendTransport{
		client: resend.NewClient(cfg.APIKey),
		from:   cfg.From,
	}
}

// Send отправляет одно письмо.
func (t *ResendTransport) Send(ctx context.Context, to, subject, htmlBody string) error {
	log := logger.Log(ctx).With(zap.String("method", "ResendTransport.Send"))

	_, err := t.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    t.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	})
	if err != nil {
		log.Error(ctx, errSendEmail, zap.Error(err))
		return fmt.Errorf("%s: %w", errSendEmail, err)
	}

	return nil
}

// NoopTransport используется, когда почтовый транспорт не настроен.
// Отправка считается успешной: отказ от уведомлений - осознанный выбор
// конфигурации, напоминание при этом помечается отправленным.
type NoopTransport struct{}

// Send логирует отбрасывание письма и возвращает успех.
func (NoopTransport) Send(ctx context.Context, to, subject, _ string) error {
	logger.Log(ctx).Debug(ctx, "email transport not configured, dropping notification",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

// NewEmailTransport возвращает Resend-транспорт при наличии ключа API
// и no-op транспорт в противном случае.
func NewEmailTransport(cfg *config.EmailConfig) services.EmailTransport {
	if cfg.APIKey == "" {
		return NoopTransport{}
	}
	return NewResendTransport(cfg)
}
