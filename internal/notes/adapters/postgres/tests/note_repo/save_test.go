package noterepo_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thinkboard/internal/notes/adapters/postgres"
	"thinkboard/internal/notes/domain/entities"
	"thinkboard/internal/notes/ports/repositories"
)

func TestNoteRepository_Save(t *testing.T) {
	ctx := newTestContext(t)

	t.Run("successful save increments revision", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		note := sampleNote(t)
		note.Revision = 3

		mock.ExpectExec("UPDATE notes").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := postgres.NewNoteRepository(mock)

		require.NoError(t, repo.Save(ctx, note))
		assert.Equal(t, int64(4), note.Revision)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("revision mismatch", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		note := sampleNote(t)

		mock.ExpectExec("UPDATE notes").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := postgres.NewNoteRepository(mock)

		err = repo.Save(ctx, note)

		require.ErrorIs(t, err, entities.ErrConflict)
		assert.Equal(t, int64(0), note.Revision)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("share token collision", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("UPDATE notes").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		repo := postgres.NewNoteRepository(mock)

		err = repo.Save(ctx, sampleNote(t))

		require.ErrorIs(t, err, repositories.ErrDuplicateShareToken)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("UPDATE notes").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewNoteRepository(mock)

		err = repo.Save(ctx, sampleNote(t))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save note")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
