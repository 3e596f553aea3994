package config

import "time"

// SchedulerConfig содержит настройки планировщика напоминаний.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval" env:"NOTES_SCHEDULER_INTERVAL" env-default:"60s"`
	Window   time.Duration `yaml:"window" env:"NOTES_SCHEDULER_WINDOW" env-default:"5m"`
}
