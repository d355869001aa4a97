package domain

import (
	"context"
	"time"
)

// Talk represents a scheduled session of the event.
// swagger:model Talk
type Talk struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// NewTalk returns a new Talk. ID is set by the repository on create.
func NewTalk(name, description string, scheduledAt *time.Time) *Talk {
	return &Talk{
		Name:        name,
		Description: description,
		ScheduledAt: scheduledAt,
	}
}

// TalkRepository defines storage operations for talks.
type TalkRepository interface {
	Create(ctx context.Context, t *Talk) error
	GetByID(ctx context.Context, id int64) (*Talk, error)
	List(ctx context.Context) ([]*Talk, error)
	Update(ctx context.Context, t *Talk) error
	// Delete removes the talk together with its attendance rows.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// TalkInput is the administrator's create/edit form. ScheduledAt accepts "2006-01-02T15:04" or RFC 3339.
type TalkInput struct {
	Name        string
	Description string
	ScheduledAt string
}

// TalkService defines talk administration operations.
type TalkService interface {
	Create(ctx context.Context, in TalkInput) (*Talk, error)
	Update(ctx context.Context, id int64, in TalkInput) (*Talk, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*Talk, error)
	ListAttendances(ctx context.Context, talkID int64) (*Talk, []*AttendanceRecord, error)
	// ImportFromSessionize creates a talk for every session of the Sessionize event and returns them.
	ImportFromSessionize(ctx context.Context, sessionizeID string) ([]*Talk, error)
	// SeedDefaults creates the predefined talks when no talk exists yet. It reports how many were created.
	SeedDefaults(ctx context.Context) (int, error)
}
