package config

import "fmt"

// HTTPConfig конфигурация HTTP сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"NOTES_HTTP_HOST" env-default:"0.0.0.0"`
	Port int    `yaml:"port" env:"NOTES_HTTP_PORT" env-default:"8080"`

	// BodyLimit ограничивает размер тела запроса; должен вмещать
	// пакет загрузки вложений (5 файлов по 10 МБ).
	BodyLimit int `yaml:"body_limit" env:"NOTES_HTTP_BODY_LIMIT" env-default:"52428800"`
}

// GetAddress возвращает адрес для HTTP сервера.
func (h *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}
