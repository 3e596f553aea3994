package noterepo_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"thinkboard/internal/notes/domain/entities"
	"thinkboard/pkg/logger"
)

// noteColumns повторяет порядок колонок, в котором репозиторий сканирует строку.
var noteColumns = []string{
	"id", "owner_id", "title", "content", "tags", "category", "priority", "is_favorite",
	"current_version", "collaborators", "attachments", "versions", "reminders", "sharing",
	"revision", "created_at", "last_modified",
}

func newTestContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func sampleNote(t *testing.T) *entities.Note {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	note, err := entities.NewNote("owner", "Plans", "Body", []string{"go"}, "", "", now)
	require.NoError(t, err)
	return note
}

func noteRows(t *testing.T, note *entities.Note) *pgxmock.Rows {
	t.Helper()

	collaborators := mustMarshal(t, note.Collaborators)
	attachments := mustMarshal(t, note.Attachments)
	versions := mustMarshal(t, note.Versions)
	reminders := mustMarshal(t, note.Reminders)
	var sharing []byte
	if note.Sharing != nil {
		sharing = mustMarshal(t, note.Sharing)
	}

	return pgxmock.NewRows(noteColumns).AddRow(
		note.ID, note.OwnerID, note.Title, note.Content, note.Tags,
		string(note.Category), string(note.Priority), note.IsFavorite, note.CurrentVersion,
		collaborators, attachments, versions, reminders, sharing,
		note.Revision, note.CreatedAt, note.LastModified,
	)
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
