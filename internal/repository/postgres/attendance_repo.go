package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"qrcheckin/internal/domain"
)

type attendanceRepository struct {
	DB DBTX
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(db DBTX) domain.AttendanceRepository {
	return &attendanceRepository{DB: db}
}

func (r *attendanceRepository) Link(ctx context.Context, attendeeID, talkID int64) (bool, error) {
	query := `
		INSERT INTO attendances (attendee_id, talk_id)
		VALUES ($1, $2)
		ON CONFLICT (attendee_id, talk_id) DO NOTHING
	`
	res, err := r.DB.ExecContext(ctx, query, attendeeID, talkID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SetAttended flips attended only on a linked, not yet attended pair. When nothing changes, the pair is
// read back to tell a missing link from a repeated confirmation.
func (r *attendanceRepository) SetAttended(ctx context.Context, attendeeID, talkID int64, at time.Time) (domain.TalkConfirmResult, error) {
	query := `
		UPDATE attendances
		SET attended = TRUE, confirmed_at = $3
		WHERE attendee_id = $1 AND talk_id = $2 AND NOT attended
	`
	res, err := r.DB.ExecContext(ctx, query, attendeeID, talkID, at)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		return domain.TalkConfirmed, nil
	}

	var attended bool
	err = r.DB.QueryRowContext(ctx,
		`SELECT attended FROM attendances WHERE attendee_id = $1 AND talk_id = $2`,
		attendeeID, talkID,
	).Scan(&attended)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.TalkNotLinked, nil
	case err != nil:
		return 0, err
	case attended:
		return domain.TalkAlreadyAttended, nil
	}
	// Unreachable in a consistent store: the row exists, is not attended, yet the update missed it.
	return domain.TalkNotLinked, nil
}

func (r *attendanceRepository) ListTalksForAttendee(ctx context.Context, attendeeID int64) ([]*domain.Talk, error) {
	query := `
		SELECT t.id, t.name, t.description, t.scheduled_at
		FROM talks t
		INNER JOIN attendances a ON a.talk_id = t.id
		WHERE a.attendee_id = $1
		ORDER BY t.scheduled_at NULLS LAST, t.id
	`
	rows, err := r.DB.QueryContext(ctx, query, attendeeID)
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

func (r *attendanceRepository) ListByTalk(ctx context.Context, talkID int64) ([]*domain.AttendanceRecord, error) {
	query := `
		SELECT l.attendee_id, l.talk_id, l.attended, l.confirmed_at,
		       p.id, p.name, p.company, p.title, p.email, p.phone, p.dni, p.registered_at,
		       p.selected_talks, p.fingerprint, p.attendance_confirmed, p.confirmed_at
		FROM attendances l
		INNER JOIN attendees p ON p.id = l.attendee_id
		WHERE l.talk_id = $1
		ORDER BY p.name, p.id
	`
	rows, err := r.DB.QueryContext(ctx, query, talkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := make([]*domain.AttendanceRecord, 0)
	for rows.Next() {
		att := &domain.Attendance{}
		a := &domain.Attendee{}
		var attConfirmedAt, confirmedAt sql.NullTime
		var title, phone sql.NullString
		if err := rows.Scan(&att.AttendeeID, &att.TalkID, &att.Attended, &attConfirmedAt,
			&a.ID, &a.Name, &a.Company, &title, &a.Email, &phone, &a.DNI, &a.RegisteredAt,
			&a.SelectedTalks, &a.Fingerprint, &a.AttendanceConfirmed, &confirmedAt); err != nil {
			return nil, err
		}
		att.ConfirmedAt = timePtr(attConfirmedAt)
		a.Title = title.String
		a.Phone = phone.String
		a.ConfirmedAt = timePtr(confirmedAt)
		records = append(records, &domain.AttendanceRecord{Attendance: att, Attendee: a})
	}
	return records, rows.Err()
}

func (r *attendanceRepository) ListAttendedAttendeeIDs(ctx context.Context) (map[int64][]int64, error) {
	query := `
		SELECT talk_id, attendee_id
		FROM attendances
		WHERE attended
		ORDER BY talk_id, attendee_id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	byTalk := make(map[int64][]int64)
	for rows.Next() {
		var talkID, attendeeID int64
		if err := rows.Scan(&talkID, &attendeeID); err != nil {
			return nil, err
		}
		byTalk[talkID] = append(byTalk[talkID], attendeeID)
	}
	return byTalk, rows.Err()
}

func (r *attendanceRepository) CountAttended(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendances WHERE attended`).Scan(&n)
	return n, err
}

func (r *attendanceRepository) TalkStats(ctx context.Context) ([]*domain.TalkStats, error) {
	query := `
		SELECT t.id, t.name,
		       COUNT(a.attendee_id) AS registered,
		       COUNT(a.attendee_id) FILTER (WHERE a.attended) AS attended
		FROM talks t
		LEFT JOIN attendances a ON a.talk_id = t.id
		GROUP BY t.id, t.name
		ORDER BY t.id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stats := make([]*domain.TalkStats, 0)
	for rows.Next() {
		s := &domain.TalkStats{}
		if err := rows.Scan(&s.TalkID, &s.Name, &s.Registered, &s.Attended); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
