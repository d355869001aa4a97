package postgres

import (
	"context"
	"errors"
	"testing"

	"qrcheckin/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestTransactor_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM talks`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectCommit()

		var got int
		err = NewTransactor(db).WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
			var err error
			got, err = repos.Talks.Count(ctx)
			return err
		})
		require.NoError(t, err)
		require.Equal(t, 2, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err = NewTransactor(db).WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		called := false
		err = NewTransactor(db).WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
			called = true
			return nil
		})
		require.Error(t, err)
		require.False(t, called)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactor_WithinReadTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM attendees$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM attendees WHERE attendance_confirmed`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()

	err = NewTransactor(db).WithinReadTx(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		total, err := repos.Attendees.Count(ctx)
		if err != nil {
			return err
		}
		confirmed, err := repos.Attendees.CountConfirmed(ctx)
		if err != nil {
			return err
		}
		require.Equal(t, 4, total)
		require.Equal(t, 1, confirmed)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS attendees`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}
