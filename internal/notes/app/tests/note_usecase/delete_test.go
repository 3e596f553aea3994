package noteusecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"thinkboard/internal/notes/app"
	"thinkboard/internal/notes/domain/entities"
)

func TestDelete(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := fakeClock{now: now}

	t.Run("owner deletes note and attachment blobs", func(t *testing.T) {
		note := freshNote(t, now)
		note.Attachments = []entities.Attachment{
			{ID: "att-1", StoragePath: "blob-1.pdf"},
			{ID: "att-2", StoragePath: "blob-2.png"},
		}

		notesRepo := new(mockNoteRepository)
		blobs := new(mockBlobStore)
		notesRepo.On("GetByID", mock.Anything, note.ID).Return(note, nil).Once()
		blobs.On("Delete", mock.Anything, "blob-1.pdf").Return(nil).Once()
		blobs.On("Delete", mock.Anything, "blob-2.png").Return(nil).Once()
		notesRepo.On("Delete", mock.Anything, note.ID).Return(nil).Once()

		uc := app.NewNoteUseCase(notesRepo, blobs, clock)

		require.NoError(t, uc.Delete(context.Background(), "owner", note.ID))

		notesRepo.AssertExpectations(t)
		blobs.AssertExpectations(t)
	})

	t.Run("blob release failure does not abort deletion", func(t *testing.T) {
		note := freshNote(t, now)
		note.Attachments = []entities.Attachment{{ID: "att-1", StoragePath: "blob-1.pdf"}}

		notesRepo := new(mockNoteRepository)
		blobs := new(mockBlobStore)
		notesRepo.On("GetByID", mock.Anything, note.ID).Return(note, nil).Once()
		blobs.On("Delete", mock.Anything, "blob-1.pdf").Return(errors.New("disk detached")).Once()
		notesRepo.On("Delete", mock.Anything, note.ID).Return(nil).Once()

		uc := app.NewNoteUseCase(notesRepo, blobs, clock)

		require.NoError(t, uc.Delete(context.Background(), "owner", note.ID))
		notesRepo.AssertExpectations(t)
	})

	t.Run("write collaborator cannot delete", func(t *testing.T) {
		note := freshNote(t, now)
		note.Collaborators = map[string]entities.Permission{"editor": entities.PermissionWrite}

		notesRepo := new(mockNoteRepository)
		blobs := new(mockBlobStore)
		notesRepo.On("GetByID", mock.Anything, note.ID).Return(note, nil).Once()

		uc := app.NewNoteUseCase(notesRepo, blobs, clock)

		err := uc.Delete(context.Background(), "editor", note.ID)

		require.ErrorIs(t, err, entities.ErrNotFoundOrForbidden)
		notesRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing note", func(t *testing.T) {
		notesRepo := new(mockNoteRepository)
		notesRepo.On("GetByID", mock.Anything, "missing").Return(nil, nil).Once()

		uc := app.NewNoteUseCase(notesRepo, new(mockBlobStore), clock)

		err := uc.Delete(context.Background(), "owner", "missing")

		assert.ErrorIs(t, err, entities.ErrNotFoundOrForbidden)
	})
}

func TestCollaborators(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := fakeClock{now: now}

	t.Run("owner grants and replaces permission", func(t *testing.T) {
		note := freshNote(t, now)
		note.Collaborators = map[string]entities.Permission{"friend": entities.PermissionRead}

		notesRepo := new(mockNoteRepository)
		notesRepo.On("GetByID", mock.Anything, note.ID).Return(note, nil).Once()
		notesRepo.On("Save", mock.Anything, note).Return(nil).Once()

		uc := app.NewNoteUseCase(notesRepo, new(mockBlobStore), clock)

		updated, err := uc.AddCollaborator(context.Background(), "owner", note.ID, "friend", entities.PermissionWrite)

		require.NoError(t, err)
		assert.Equal(t, entities.PermissionWrite, updated.Collaborators["friend"])
	})

	t.Run("owner cannot be a collaborator", func(t *testing.T) {
		note := freshNote(t, now)
		notesRepo := new(mockNoteRepository)
		notesRepo.On("GetByID", mock.Anything, note.ID).Return(note, nil).Once()

		uc := app.NewNoteUseCase(notesRepo, new(mockBlobStore), clock)

		_, err := uc.AddCollaborator(context.Background(), "owner", note.ID, "owner", entities.PermissionRead)

		require.Error(t, err)
		assert.True(t, entities.IsValidation(err))
	})

	t.Run("unknown permission rejected", func(t *testing.T) {
		notesRepo := new(mockNoteRepository)

		uc := app.NewNoteUseCase(notesRepo, new(mockBlobStore), clock)

		_, err := uc.AddCollaborator(context.Background(), "owner", "note-1", "friend", "admin")

		require.Error(t, err)
		assert.True(t, entities.IsValidation(err))
		notesRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("only owner manages collaborators", func(t *testing.T) {
		note := freshNote(t, now)
		note.Collaborators = map[string]entities.Permission{"editor": entities.PermissionWrite}

		notesRepo := new(mockNoteRepository)
		notesRepo.On("GetByID", mock.Anything, note.ID).Return(note, nil).Once()

		uc := app.NewNoteUseCase(notesRepo, new(mockBlobStore), clock)

		_, err := uc.AddCollaborator(context.Background(), "editor", note.ID, "someone", entities.PermissionRead)

		require.ErrorIs(t, err, entities.ErrNotFoundOrForbidden)
	})

	t.Run("removing unknown collaborator", func(t *testing.T) {
		note := freshNote(t, now)
		notesRepo := new(mockNoteRepository)
		notesRepo.On("GetByID", mock.Anything, note.ID).Return(note, nil).Once()

		uc := app.NewNoteUseCase(notesRepo, new(mockBlobStore), clock)

		_, err := uc.RemoveCollaborator(context.Background(), "owner", note.ID, "nobody")

		require.ErrorIs(t, err, entities.ErrNotFoundOrForbidden)
	})

	t.Run("remove collaborator", func(t *testing.T) {
		note := freshNote(t, now)
		note.Collaborators = map[string]entities.Permission{"friend": entities.PermissionRead}

		notesRepo := new(mockNoteRepository)
		notesRepo.On("GetByID", mock.Anything, note.ID).Return(note, nil).Once()
		notesRepo.On("Save", mock.Anything, note).Return(nil).Once()

		uc := app.NewNoteUseCase(notesRepo, new(mockBlobStore), clock)

		updated, err := uc.RemoveCollaborator(context.Background(), "owner", note.ID, "friend")

		require.NoError(t, err)
		assert.NotContains(t, updated.Collaborators, "friend")
	})
}
