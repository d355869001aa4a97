package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"qrcheckin/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// SQLSTATEs postgres reports for unique constraint failures and overlong values.
const (
	uniqueViolation  = "23505"
	stringTruncation = "22001"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories need. Repositories built on a *sql.Tx
// take part in that transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open connects to postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded schema. Every statement is idempotent, so it is safe on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// NewRepositories returns the repositories bound to db, which may be a *sql.DB or a *sql.Tx.
func NewRepositories(db DBTX) domain.Repositories {
	return domain.Repositories{
		Attendees:  NewAttendeeRepository(db),
		Talks:      NewTalkRepository(db),
		Attendance: NewAttendanceRepository(db),
	}
}

type transactor struct {
	DB *sql.DB
}

// NewTransactor returns a Transactor running units of work on db.
func NewTransactor(db *sql.DB) domain.Transactor {
	return &transactor{DB: db}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return t.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

func (t *transactor) WithinReadTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return t.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (t *transactor) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, repos domain.Repositories) error) error {
	tx, err := t.DB.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// attendeeWriteErr converts a unique violation on an attendee constraint into a *domain.DuplicateKeyError
// and a value too long for its column into a *domain.ValidationError. Any other error is returned unchanged.
func attendeeWriteErr(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if string(pqErr.Code) == stringTruncation {
		return domain.NewValidationError("a field exceeds its maximum length")
	}
	if string(pqErr.Code) != uniqueViolation {
		return err
	}
	switch pqErr.Constraint {
	case "attendees_email_key":
		return &domain.DuplicateKeyError{Field: "email"}
	case "attendees_dni_key":
		return &domain.DuplicateKeyError{Field: "dni"}
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
