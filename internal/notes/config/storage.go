package config

// StorageConfig содержит настройки хранилища вложений.
type StorageConfig struct {
	Dir string `yaml:"dir" env:"NOTES_STORAGE_DIR" env-default:"uploads/attachments"`
}
