package postgres

import (
	"context"
	"database/sql"
	"errors"

	"qrcheckin/internal/domain"
)

type talkRepository struct {
	DB DBTX
}

// NewTalkRepository creates a new TalkRepository.
func NewTalkRepository(db DBTX) domain.TalkRepository {
	return &talkRepository{DB: db}
}

func scanTalk(s rowScanner) (*domain.Talk, error) {
	t := &domain.Talk{}
	var desc sql.NullString
	var scheduledAt sql.NullTime
	if err := s.Scan(&t.ID, &t.Name, &desc, &scheduledAt); err != nil {
		return nil, err
	}
	t.Description = desc.String
	t.ScheduledAt = timePtr(scheduledAt)
	return t, nil
}

func (r *talkRepository) Create(ctx context.Context, t *domain.Talk) error {
	query := `
		INSERT INTO talks (name, description, scheduled_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, t.Name, nullString(t.Description), nullTime(t.ScheduledAt)).Scan(&t.ID)
}

func (r *talkRepository) GetByID(ctx context.Context, id int64) (*domain.Talk, error) {
	query := `SELECT id, name, description, scheduled_at FROM talks WHERE id = $1`
	t, err := scanTalk(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *talkRepository) List(ctx context.Context) ([]*domain.Talk, error) {
	query := `
		SELECT id, name, description, scheduled_at
		FROM talks
		ORDER BY scheduled_at NULLS LAST, id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	talks := make([]*domain.Talk, 0)
	for rows.Next() {
		t, err := scanTalk(rows)
		if err != nil {
			return nil, err
		}
		talks = append(talks, t)
	}
	return talks, rows.Err()
}

func (r *talkRepository) Update(ctx context.Context, t *domain.Talk) error {
	query := `
		UPDATE talks SET name = $2, description = $3, scheduled_at = $4
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, t.ID, t.Name, nullString(t.Description), nullTime(t.ScheduledAt))
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

// Delete removes the attendance rows explicitly before the talk so it does not depend on the cascade.
func (r *talkRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM attendances WHERE talk_id = $1`, id); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM talks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (r *talkRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM talks`).Scan(&n)
	return n, err
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
