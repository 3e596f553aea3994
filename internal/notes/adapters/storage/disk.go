// Package storage реализует хранилище файлов вложений на локальном диске.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"thinkboard/internal/notes/ports/services"
	"thinkboard/pkg/logger"
)

// dirPermissions - права на каталоги хранилища.
const dirPermissions = 0o755

// filePermissions - права на файлы вложений.
const filePermissions = 0o644

// DiskStore реализует services.BlobStore поверх каталога на диске.
// Путь объекта - имя файла относительно корневого каталога.
type DiskStore struct {
	root string
}

// NewDiskStore создает хранилище, при необходимости создавая каталог.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, dirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Put сохраняет содержимое под новым уникальным именем и возвращает его.
func (s *DiskStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", "DiskStore.Put"))

	name := uuid.New().String() + extensionFor(contentType)
	if err := os.WriteFile(filepath.Join(s.root, name), data, filePermissions); err != nil {
		log.Error(ctx, "failed to write blob", zap.Error(err))
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	return name, nil
}

// Get возвращает содержимое объекта.
func (s *DiskStore) Get(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.Base(path)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.ErrBlobNotFound
		}
		logger.Log(ctx).Error(ctx, "failed to read blob", zap.Error(err))
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

// Delete удаляет объект. Отсутствие объекта не считается ошибкой
// вызывающей стороны: возвращается services.ErrBlobNotFound, который
// каскадное удаление игнорирует.
func (s *DiskStore) Delete(ctx context.Context, path string) error {
	err := os.Remove(filepath.Join(s.root, filepath.Base(path)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.ErrBlobNotFound
		}
		logger.Log(ctx).Error(ctx, "failed to delete blob", zap.Error(err))
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// extensionFor подбирает расширение файла по типу содержимого.
func extensionFor(contentType string) string {
	extensions, err := mime.ExtensionsByType(contentType)
	if err != nil || len(extensions) == 0 {
		return ""
	}
	return extensions[0]
}
