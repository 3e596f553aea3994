package config

import "time"

// ShutdownConfig содержит настройки корректного завершения.
type ShutdownConfig struct {
	Timeout int `yaml:"timeout" env:"NOTES_SHUTDOWN_TIMEOUT" env-default:"10"`
}

// GetTimeout возвращает таймаут завершения.
func (s *ShutdownConfig) GetTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}
