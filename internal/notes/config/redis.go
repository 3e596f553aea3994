package config

import (
	"fmt"
	"time"
)

// RedisConfig содержит настройки подключения к Redis.
type RedisConfig struct {
	Enabled        bool          `yaml:"enabled" env:"NOTES_REDIS_ENABLED" env-default:"false"`
	Host           string        `yaml:"host" env:"NOTES_REDIS_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"NOTES_REDIS_PORT" env-default:"6379"`
	Password       string        `yaml:"password" env:"NOTES_REDIS_PASSWORD" env-default:""`
	DB             int           `yaml:"db" env:"NOTES_REDIS_DB" env-default:"0"`
	PoolSize       int           `yaml:"pool_size" env:"NOTES_REDIS_POOL_SIZE" env-default:"10"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"NOTES_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"NOTES_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"NOTES_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	DefaultTTL     time.Duration `yaml:"default_ttl" env:"NOTES_REDIS_DEFAULT_TTL" env-default:"10m"`
}

// GetAddressString возвращает адрес Redis в формате host:port.
func (r *RedisConfig) GetAddressString() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
