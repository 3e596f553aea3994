package config

// EmailConfig содержит настройки почтового транспорта.
// Пустой ключ API означает, что уведомления осознанно отключены.
type EmailConfig struct {
	APIKey string `yaml:"api_key" env:"NOTES_EMAIL_API_KEY" env-default:""`
	From   string `yaml:"from" env:"NOTES_EMAIL_FROM" env-default:"ThinkBoard <noreply@thinkboard.local>"`
}
