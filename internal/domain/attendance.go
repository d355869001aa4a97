package domain

import (
	"context"
	"time"
)

// Attendance links an attendee to a talk. A linked pair with Attended=false means registered but not yet
// checked in at the talk entrance.
// swagger:model Attendance
type Attendance struct {
	AttendeeID  int64      `json:"attendee_id"`
	TalkID      int64      `json:"talk_id"`
	Attended    bool       `json:"attended"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

// AttendanceRecord is an attendance row together with its attendee, used by the talk registrations view.
type AttendanceRecord struct {
	Attendance *Attendance `json:"attendance"`
	Attendee   *Attendee   `json:"attendee"`
}

// TalkConfirmResult is the outcome of marking a talk as attended.
type TalkConfirmResult int

const (
	// TalkConfirmed means the pair moved from linked to attended.
	TalkConfirmed TalkConfirmResult = iota
	// TalkAlreadyAttended means the pair was already attended; nothing changed.
	TalkAlreadyAttended
	// TalkNotLinked means the attendee is not linked to the talk; nothing changed.
	TalkNotLinked
)

func (r TalkConfirmResult) String() string {
	switch r {
	case TalkConfirmed:
		return "confirmed"
	case TalkAlreadyAttended:
		return "already_attended"
	case TalkNotLinked:
		return "not_linked"
	}
	return "unknown"
}

// TalkStats holds registered vs attended counts for one talk.
type TalkStats struct {
	TalkID     int64  `json:"talk_id"`
	Name       string `json:"name"`
	Registered int    `json:"registered"`
	Attended   int    `json:"attended"`
}

// AttendanceRate returns attended/registered, or 0 when nobody is linked to the talk.
func (t *TalkStats) AttendanceRate() float64 {
	if t.Registered == 0 {
		return 0
	}
	return float64(t.Attended) / float64(t.Registered)
}

// AttendanceRepository defines storage operations for the attendee/talk relation.
type AttendanceRepository interface {
	// Link associates the attendee with the talk and reports whether a new pair was created.
	// Linking an existing pair is a no-op.
	Link(ctx context.Context, attendeeID, talkID int64) (bool, error)
	// SetAttended marks a linked pair as attended unless it already is.
	SetAttended(ctx context.Context, attendeeID, talkID int64, at time.Time) (TalkConfirmResult, error)
	ListTalksForAttendee(ctx context.Context, attendeeID int64) ([]*Talk, error)
	ListByTalk(ctx context.Context, talkID int64) ([]*AttendanceRecord, error)
	// ListAttendedAttendeeIDs returns the ids of attendees marked attended for each talk.
	ListAttendedAttendeeIDs(ctx context.Context) (map[int64][]int64, error)
	CountAttended(ctx context.Context) (int, error)
	TalkStats(ctx context.Context) ([]*TalkStats, error)
}

// Repositories groups the repositories bound to one database handle.
type Repositories struct {
	Attendees  AttendeeRepository
	Talks      TalkRepository
	Attendance AttendanceRepository
}

// Transactor runs units of work against the store.
type Transactor interface {
	// WithinTx runs fn with repositories bound to a single read-write transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	// WithinReadTx runs fn inside a read-only transaction so every read sees the same snapshot.
	WithinReadTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
