package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"qrcheckin/internal/domain"
)

const attendeeColumns = `id, name, company, title, email, phone, dni, registered_at, selected_talks, fingerprint, attendance_confirmed, confirmed_at`

type attendeeRepository struct {
	DB DBTX
}

// NewAttendeeRepository creates a new AttendeeRepository.
func NewAttendeeRepository(db DBTX) domain.AttendeeRepository {
	return &attendeeRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendee(s rowScanner) (*domain.Attendee, error) {
	a := &domain.Attendee{}
	var title, phone sql.NullString
	var confirmedAt sql.NullTime
	if err := s.Scan(&a.ID, &a.Name, &a.Company, &title, &a.Email, &phone, &a.DNI, &a.RegisteredAt,
		&a.SelectedTalks, &a.Fingerprint, &a.AttendanceConfirmed, &confirmedAt); err != nil {
		return nil, err
	}
	a.Title = title.String
	a.Phone = phone.String
	a.ConfirmedAt = timePtr(confirmedAt)
	return a, nil
}

func (r *attendeeRepository) queryAttendees(ctx context.Context, query string, args ...any) ([]*domain.Attendee, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	attendees := make([]*domain.Attendee, 0)
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}

func (r *attendeeRepository) Create(ctx context.Context, a *domain.Attendee) error {
	query := `
		INSERT INTO attendees (name, company, title, email, phone, dni, registered_at, selected_talks, fingerprint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.Name, a.Company, nullString(a.Title), a.Email, nullString(a.Phone), a.DNI,
		a.RegisteredAt, a.SelectedTalks, a.Fingerprint,
	).Scan(&a.ID)
	return attendeeWriteErr(err)
}

func (r *attendeeRepository) GetByID(ctx context.Context, id int64) (*domain.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE id = $1`
	a, err := scanAttendee(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// FindByFragments compares the padded 3-character prefix of each column with the fragment, so short
// values match the keys they were encoded with.
func (r *attendeeRepository) FindByFragments(ctx context.Context, name, company, dni string) ([]*domain.Attendee, error) {
	query := `
		SELECT ` + attendeeColumns + `
		FROM attendees
		WHERE RPAD(LEFT(name, 3), 3, 'N') = $1
		  AND RPAD(LEFT(company, 3), 3, 'E') = $2
		  AND RPAD(LEFT(dni, 3), 3, 'D') = $3
		ORDER BY id
	`
	return r.queryAttendees(ctx, query, name, company, dni)
}

func (r *attendeeRepository) SetGeneralConfirmed(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := `
		UPDATE attendees
		SET attendance_confirmed = TRUE, confirmed_at = $2
		WHERE id = $1 AND NOT attendance_confirmed
	`
	res, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *attendeeRepository) List(ctx context.Context, p domain.PaginationParams) ([]*domain.Attendee, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + attendeeColumns + ` FROM attendees ORDER BY registered_at DESC, id DESC`
	args := []any{}
	if limit := p.Limit(); limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, p.Offset())
	}
	attendees, err := r.queryAttendees(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return attendees, total, nil
}

func (r *attendeeRepository) ListAll(ctx context.Context) ([]*domain.Attendee, error) {
	return r.queryAttendees(ctx, `SELECT `+attendeeColumns+` FROM attendees ORDER BY id`)
}

func (r *attendeeRepository) ListConfirmed(ctx context.Context) ([]*domain.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE attendance_confirmed ORDER BY confirmed_at, id`
	return r.queryAttendees(ctx, query)
}

func (r *attendeeRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendees`).Scan(&n)
	return n, err
}

func (r *attendeeRepository) CountConfirmed(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendees WHERE attendance_confirmed`).Scan(&n)
	return n, err
}
