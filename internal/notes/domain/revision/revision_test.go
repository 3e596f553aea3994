package revision_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thinkboard/internal/notes/domain/entities"
	"thinkboard/internal/notes/domain/revision"
)

func stringPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func newTestNote(t *testing.T, now time.Time) *entities.Note {
	t.Helper()
	note, err := entities.NewNote("owner", "Original title", "Original content",
		[]string{"draft"}, entities.CategoryWork, entities.PriorityLow, now)
	require.NoError(t, err)
	return note
}

func TestPatchPredicates(t *testing.T) {
	category := entities.CategoryWork

	tests := []struct {
		name           string
		patch          revision.Patch
		touchesContent bool
		empty          bool
	}{
		{name: "empty patch", patch: revision.Patch{}, touchesContent: false, empty: true},
		{name: "title only", patch: revision.Patch{Title: stringPtr("t")}, touchesContent: true, empty: false},
		{name: "content only", patch: revision.Patch{Content: stringPtr("c")}, touchesContent: true, empty: false},
		{name: "empty tag slice still touches content", patch: revision.Patch{Tags: []string{}}, touchesContent: true, empty: false},
		{name: "category only", patch: revision.Patch{Category: &category}, touchesContent: false, empty: false},
		{name: "favorite only", patch: revision.Patch{IsFavorite: boolPtr(true)}, touchesContent: false, empty: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.touchesContent, tt.patch.TouchesContent())
			assert.Equal(t, tt.empty, tt.patch.Empty())
		})
	}
}

func TestPatchValidate(t *testing.T) {
	badCategory := entities.Category("groceries")
	badPriority := entities.Priority("urgent")

	tests := []struct {
		name  string
		patch revision.Patch
		field string
	}{
		{name: "empty title rejected", patch: revision.Patch{Title: stringPtr("")}, field: "title"},
		{name: "long content rejected", patch: revision.Patch{Content: stringPtr(strings.Repeat("a", entities.MaxContentLength+1))}, field: "content"},
		{name: "long tag rejected", patch: revision.Patch{Tags: []string{strings.Repeat("a", entities.MaxTagLength+1)}}, field: "tags"},
		{name: "unknown category rejected", patch: revision.Patch{Category: &badCategory}, field: "category"},
		{name: "unknown priority rejected", patch: revision.Patch{Priority: &badPriority}, field: "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			require.Error(t, err)
			var validationErr *entities.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}

	t.Run("valid patch passes", func(t *testing.T) {
		require.NoError(t, revision.Patch{Title: stringPtr("ok"), Tags: []string{"go"}}.Validate())
	})
}

func TestApply(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	t.Run("content patch creates exactly one version", func(t *testing.T) {
		note := newTestNote(t, created)

		versioned := revision.Apply(note, revision.Patch{
			Title:   stringPtr("New title"),
			Content: stringPtr("New content"),
			Tags:    []string{"Final", "final"},
		}, "editor", updated)

		assert.True(t, versioned)
		assert.Equal(t, "New title", note.Title)
		assert.Equal(t, "New content", note.Content)
		assert.Equal(t, []string{"final"}, note.Tags)
		assert.Equal(t, 2, note.CurrentVersion)
		require.Len(t, note.Versions, 2)
		assert.Equal(t, "editor", note.Versions[1].CreatedBy)
		assert.Equal(t, updated, note.LastModified)
	})

	t.Run("metadata patch creates no version", func(t *testing.T) {
		note := newTestNote(t, created)
		category := entities.CategoryStudy

		versioned := revision.Apply(note, revision.Patch{
			Category:   &category,
			IsFavorite: boolPtr(true),
		}, "owner", updated)

		assert.False(t, versioned)
		assert.Equal(t, entities.CategoryStudy, note.Category)
		assert.True(t, note.IsFavorite)
		assert.Equal(t, 1, note.CurrentVersion)
		assert.Len(t, note.Versions, 1)
		assert.Equal(t, updated, note.LastModified)
	})

	t.Run("untouched fields survive", func(t *testing.T) {
		note := newTestNote(t, created)

		revision.Apply(note, revision.Patch{Content: stringPtr("only content")}, "owner", updated)

		assert.Equal(t, "Original title", note.Title)
		assert.Equal(t, []string{"draft"}, note.Tags)
		assert.Equal(t, entities.PriorityLow, note.Priority)
	})
}

func TestRestore(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("restore appends new version with old content", func(t *testing.T) {
		note := newTestNote(t, created)
		revision.Apply(note, revision.Patch{Content: stringPtr("second draft")}, "owner", created.Add(time.Hour))
		revision.Apply(note, revision.Patch{Content: stringPtr("third draft")}, "owner", created.Add(2*time.Hour))
		require.Equal(t, 3, note.CurrentVersion)

		restoredAt := created.Add(3 * time.Hour)
		err := revision.Restore(note, 1, "owner", restoredAt)

		require.NoError(t, err)
		assert.Equal(t, "Original content", note.Content)
		assert.Equal(t, 4, note.CurrentVersion)
		require.Len(t, note.Versions, 4)
		assert.Equal(t, "Original content", note.Versions[3].Content)
		assert.Equal(t, restoredAt, note.Versions[3].CreatedAt)

		// Номера версий непрерывны и никогда не переиспользуются.
		for i, version := range note.Versions {
			assert.Equal(t, i+1, version.VersionNumber)
		}
	})

	t.Run("restoring the current version still appends", func(t *testing.T) {
		note := newTestNote(t, created)

		err := revision.Restore(note, 1, "owner", created.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, 2, note.CurrentVersion)
		assert.Len(t, note.Versions, 2)
	})

	t.Run("unknown version", func(t *testing.T) {
		note := newTestNote(t, created)

		err := revision.Restore(note, 42, "owner", created)

		require.ErrorIs(t, err, entities.ErrVersionNotFound)
		assert.Equal(t, 1, note.CurrentVersion)
	})
}
