package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"qrcheckin/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestTalkRepository_Create(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 5, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		talk    *domain.Talk
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr bool
	}{
		{
			name: "success",
			talk: &domain.Talk{Name: "Charla de Velp", Description: "Soluciones de laboratorio", ScheduledAt: &at},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO talks \(name, description, scheduled_at\)`).
					WithArgs("Charla de Velp", "Soluciones de laboratorio", at).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
			},
			wantID: 3,
		},
		{
			name: "unscheduled",
			talk: &domain.Talk{Name: "Keynote"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO talks`).
					WithArgs("Keynote", nil, nil).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
			},
			wantID: 4,
		},
		{
			name: "db error",
			talk: &domain.Talk{Name: "Keynote"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO talks`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewTalkRepository(db).Create(ctx, tt.talk)
			require.NoError(t, mock.ExpectationsWereMet())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.talk.ID)
		})
	}
}

func TestTalkRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, name, description, scheduled_at FROM talks WHERE id = \$1`).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "scheduled_at"}).
				AddRow(int64(2), "Charla de Olympus", nil, nil))

		got, err := NewTalkRepository(db).GetByID(ctx, 2)
		require.NoError(t, err)
		require.Equal(t, &domain.Talk{ID: 2, Name: "Charla de Olympus"}, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM talks WHERE id = \$1`).
			WithArgs(int64(9)).
			WillReturnError(sql.ErrNoRows)

		got, err := NewTalkRepository(db).GetByID(ctx, 9)
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTalkRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, 5, 10, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM talks\s+ORDER BY scheduled_at NULLS LAST, id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "scheduled_at"}).
			AddRow(int64(1), "Charla de Olympus", "Microscopia", at).
			AddRow(int64(2), "Charla de Velp", nil, nil))

	got, err := NewTalkRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, &at, got[0].ScheduledAt)
	require.Equal(t, "Microscopia", got[0].Description)
	require.Nil(t, got[1].ScheduledAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTalkRepository_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE talks SET name = \$2, description = \$3, scheduled_at = \$4`).
					WithArgs(int64(5), "Nueva", "Desc", nil).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE talks`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewTalkRepository(db).Update(ctx, &domain.Talk{ID: 5, Name: "Nueva", Description: "Desc"})
			require.NoError(t, mock.ExpectationsWereMet())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTalkRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "removes attendances then talk",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM attendances WHERE talk_id = \$1`).
					WithArgs(int64(2)).
					WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectExec(`DELETE FROM talks WHERE id = \$1`).
					WithArgs(int64(2)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM attendances`).
					WithArgs(int64(2)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`DELETE FROM talks`).
					WithArgs(int64(2)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewTalkRepository(db).Delete(ctx, 2)
			require.NoError(t, mock.ExpectationsWereMet())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
