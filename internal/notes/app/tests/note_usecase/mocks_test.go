package noteusecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"thinkboard/internal/notes/domain/entities"
	"thinkboard/internal/notes/ports/repositories"
)

type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) Create(ctx context.Context, note *entities.Note) error {
	return m.Called(ctx, note).Error(0)
}

func (m *mockNoteRepository) GetByID(ctx context.Context, noteID string) (*entities.Note, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) Save(ctx context.Context, note *entities.Note) error {
	return m.Called(ctx, note).Error(0)
}

func (m *mockNoteRepository) Delete(ctx context.Context, noteID string) error {
	return m.Called(ctx, noteID).Error(0)
}

func (m *mockNoteRepository) Search(ctx context.Context, ownerID string, filter *repositories.SearchFilter) ([]*entities.Note, int, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Note), args.Int(1), args.Error(2)
}

func (m *mockNoteRepository) DistinctTags(ctx context.Context, ownerID string) ([]string, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockNoteRepository) ListSharedWith(ctx context.Context, userID string, limit, offset int) ([]*entities.Note, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Note), args.Int(1), args.Error(2)
}

func (m *mockNoteRepository) FindByShareToken(ctx context.Context, token string) (*entities.Note, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) UpcomingReminders(ctx context.Context, ownerID string, from time.Time, limit int) ([]repositories.ReminderView, error) {
	args := m.Called(ctx, ownerID, from, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.ReminderView), args.Error(1)
}

func (m *mockNoteRepository) RemindersBetween(ctx context.Context, ownerID string, from, to time.Time) ([]repositories.ReminderView, error) {
	args := m.Called(ctx, ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.ReminderView), args.Error(1)
}

func (m *mockNoteRepository) DueReminders(ctx context.Context, from, to time.Time) ([]repositories.DueReminder, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.DueReminder), args.Error(1)
}

func (m *mockNoteRepository) MarkReminderSent(ctx context.Context, noteID, reminderID string) error {
	return m.Called(ctx, noteID, reminderID).Error(0)
}

type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockBlobStore) Get(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockBlobStore) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

// fakeClock возвращает фиксированное время для детерминированных тестов.
type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time {
	return c.now
}
