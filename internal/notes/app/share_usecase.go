package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"thinkboard/internal/notes/domain/entities"
	"thinkboard/internal/notes/ports/cache"
	"thinkboard/internal/notes/ports/repositories"
	"thinkboard/internal/notes/ports/services"
	"thinkboard/pkg/logger"
)

// Параметры генерации токенов доступа.
const (
	shareTokenBytes      = 16
	maxTokenAttempts     = 5
	shareCachePrefix     = "share:"
	shareCacheDefaultTTL = 10 * time.Minute
)

// ErrTokenGeneration возвращается, когда не удалось получить уникальный токен.
var ErrTokenGeneration = errors.New("failed to generate unique share token")

// SharedNoteView - проекция заметки, выдаваемая по токену доступа.
// Только для чтения: через разрешенный токен писать нельзя.
type SharedNoteView struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Content      string                `json:"content"`
	Tags         []string              `json:"tags"`
	Category     entities.Category     `json:"category"`
	Priority     entities.Priority     `json:"priority"`
	OwnerID      string                `json:"owner"`
	Attachments  []entities.Attachment `json:"attachments,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	LastModified time.Time             `json:"lastModified"`
	IsShared     bool                  `json:"isShared"`
	CanEdit      bool                  `json:"canEdit"`
}

// ShareParams - параметры создания ссылки доступа. Время истечения в
// прошлом принимается как есть: такая ссылка считается сразу истекшей.
type ShareParams struct {
	IsPublic     bool
	ExpiresAt    *time.Time
	AllowedUsers []string
}

// ShareUseCase управляет жизненным циклом ссылок доступа к заметкам.
type ShareUseCase struct {
	notes repositories.NoteRepository
	cache cache.Cache
	clock services.Clock
}

// NewShareUseCase создает новый экземпляр ShareUseCase.
func NewShareUseCase(notes repositories.NoteRepository, shareCache cache.Cache, clock services.Clock) *ShareUseCase {
	return &ShareUseCase{
		notes: notes,
		cache: shareCache,
		clock: clock,
	}
}

// CreateOrReplace выпускает ссылку доступа к заметке. Существующая
// запись перезаписывается, и старый токен немедленно перестает
// действовать. Доступно только владельцу.
func (uc *ShareUseCase) CreateOrReplace(ctx context.Context, actorID, noteID string, params ShareParams) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", "ShareUseCase.CreateOrReplace"))

	var previousToken string

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := generateShareToken()
		if err != nil {
			return "", fmt.Errorf("failed to generate share token: %w", err)
		}

		_, err = mutateNote(ctx, uc.notes, actorID, noteID, canDeleteGate, func(note *entities.Note) error {
			if note.Sharing != nil {
				previousToken = note.Sharing.ShareToken
			}
			note.Sharing = &entities.ShareRecord{
				ShareToken:   token,
				IsPublic:     params.IsPublic,
				ExpiresAt:    params.ExpiresAt,
				AllowedUsers: append([]string(nil), params.AllowedUsers...),
				CreatedAt:    uc.clock.Now(),
			}
			return nil
		})
		if errors.Is(err, repositories.ErrDuplicateShareToken) {
			log.Warn(ctx, "share token collision, regenerating", zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return "", err
		}

		uc.invalidateToken(ctx, previousToken)
		return token, nil
	}

	return "", ErrTokenGeneration
}

// Revoke отзывает действующую ссылку доступа к заметке.
func (uc *ShareUseCase) Revoke(ctx context.Context, actorID, noteID string) error {
	var revokedToken string

	_, err := mutateNote(ctx, uc.notes, actorID, noteID, canDeleteGate, func(note *entities.Note) error {
		if note.Sharing == nil {
			return entities.ErrShareNotFound
		}
		revokedToken = note.Sharing.ShareToken
		note.Sharing = nil
		return nil
	})
	if err != nil {
		return err
	}

	uc.invalidateToken(ctx, revokedToken)
	return nil
}

// Resolve возвращает read-only проекцию заметки по токену доступа.
// Актор может быть пустым (анонимный доступ к публичной ссылке).
func (uc *ShareUseCase) Resolve(ctx context.Context, token, actorID string) (*SharedNoteView, error) {
	noteID := uc.cachedNoteID(ctx, token)

	var note *entities.Note
	var err error
	if noteID != "" {
		note, err = uc.notes.GetByID(ctx, noteID)
	} else {
		note, err = uc.notes.FindByShareToken(ctx, token)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve share token: %w", err)
	}

	// Кэш мог пережить замену токена; запись в агрегате решает.
	if note == nil || note.Sharing == nil || note.Sharing.ShareToken != token {
		return nil, entities.ErrShareNotFound
	}

	if note.Sharing.IsExpired(uc.clock.Now()) {
		return nil, entities.ErrShareExpired
	}

	isOwner := actorID != "" && actorID == note.OwnerID
	if !isOwner && !note.Sharing.IsPublic && !containsUser(note.Sharing.AllowedUsers, actorID) {
		return nil, entities.ErrNotFoundOrForbidden
	}

	uc.cacheToken(ctx, token, note.ID, note.Sharing.ExpiresAt)

	return &SharedNoteView{
		ID:           note.ID,
		Title:        note.Title,
		Content:      note.Content,
		Tags:         note.Tags,
		Category:     note.Category,
		Priority:     note.Priority,
		OwnerID:      note.OwnerID,
		Attachments:  note.Attachments,
		CreatedAt:    note.CreatedAt,
		LastModified: note.LastModified,
		IsShared:     true,
		CanEdit:      isOwner,
	}, nil
}

// cachedNoteID возвращает ID заметки из кэша токенов, если он есть.
func (uc *ShareUseCase) cachedNoteID(ctx context.Context, token string) string {
	if uc.cache == nil {
		return ""
	}
	noteID, err := uc.cache.Get(ctx, shareCachePrefix+token)
	if err != nil {
		logger.Log(ctx).Warn(ctx, "share cache lookup failed", zap.Error(err))
		return ""
	}
	return noteID
}

// cacheToken сохраняет соответствие токен-заметка с TTL не дольше
// срока действия самой ссылки.
func (uc *ShareUseCase) cacheToken(ctx context.Context, token, noteID string, expiresAt *time.Time) {
	if uc.cache == nil {
		return
	}

	ttl := shareCacheDefaultTTL
	if expiresAt != nil {
		remaining := expiresAt.Sub(uc.clock.Now())
		if remaining < ttl {
			ttl = remaining
		}
	}
	if ttl <= 0 {
		return
	}

	if err := uc.cache.Set(ctx, shareCachePrefix+token, noteID, ttl); err != nil {
		logger.Log(ctx).Warn(ctx, "share cache store failed", zap.Error(err))
	}
}

// invalidateToken убирает токен из кэша после замены или отзыва.
func (uc *ShareUseCase) invalidateToken(ctx context.Context, token string) {
	if uc.cache == nil || token == "" {
		return
	}
	if err := uc.cache.Delete(ctx, shareCachePrefix+token); err != nil {
		logger.Log(ctx).Warn(ctx, "share cache invalidation failed", zap.Error(err))
	}
}

// generateShareToken возвращает криптографически случайный токен.
func generateShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func containsUser(users []string, userID string) bool {
	if userID == "" {
		return false
	}
	for _, user := range users {
		if user == userID {
			return true
		}
	}
	return false
}
