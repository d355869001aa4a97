package domain

import (
	"context"
	"time"
)

// Attendee represents a person registered for the event.
// Title and Phone are optional; an empty string means the attendee did not provide them.
// swagger:model Attendee
type Attendee struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Company             string     `json:"company"`
	Title               string     `json:"title,omitempty"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone,omitempty"`
	DNI                 string     `json:"dni"`
	RegisteredAt        time.Time  `json:"registered_at"`
	SelectedTalks       string     `json:"selected_talks"`
	Fingerprint         string     `json:"fingerprint"`
	AttendanceConfirmed bool       `json:"attendance_confirmed"`
	ConfirmedAt         *time.Time `json:"confirmed_at,omitempty"`
}

// NewAttendee returns a new Attendee with the given fields. ID is set by the repository on create.
func NewAttendee(name, company, title, email, phone, dni, selectedTalks string, registeredAt time.Time) *Attendee {
	return &Attendee{
		Name:          name,
		Company:       company,
		Title:         title,
		Email:         email,
		Phone:         phone,
		DNI:           dni,
		SelectedTalks: selectedTalks,
		RegisteredAt:  registeredAt,
	}
}

// AttendeeRepository defines storage operations for attendees.
type AttendeeRepository interface {
	// Create inserts the attendee, fingerprint included, and sets its ID.
	// Email or DNI collisions return a *DuplicateKeyError.
	Create(ctx context.Context, a *Attendee) error
	GetByID(ctx context.Context, id int64) (*Attendee, error)
	// FindByFragments returns attendees whose name, company and DNI keys equal the given fragments,
	// in insertion order.
	FindByFragments(ctx context.Context, name, company, dni string) ([]*Attendee, error)
	// SetGeneralConfirmed marks the attendee as present if not already; it reports whether it changed state.
	SetGeneralConfirmed(ctx context.Context, id int64, at time.Time) (bool, error)
	List(ctx context.Context, p PaginationParams) ([]*Attendee, int, error)
	ListAll(ctx context.Context) ([]*Attendee, error)
	ListConfirmed(ctx context.Context) ([]*Attendee, error)
	Count(ctx context.Context) (int, error)
	CountConfirmed(ctx context.Context) (int, error)
}

// Column sizes of the attendees table, in characters.
const (
	MaxNameLen    = 100
	MaxCompanyLen = 100
	MaxTitleLen   = 100
	MaxEmailLen   = 120
	MaxPhoneLen   = 20
	MaxDNILen     = 20
)

// RegistrationInput is the data submitted on the registration form.
type RegistrationInput struct {
	Name    string
	Company string
	Title   string
	Email   string
	Phone   string
	DNI     string
	TalkIDs []int64
}

// AttendeeDetail bundles an attendee with the talks it is linked to.
type AttendeeDetail struct {
	Attendee *Attendee `json:"attendee"`
	Talks    []*Talk   `json:"talks"`
}

// RegistrationService defines attendee-facing registration operations.
type RegistrationService interface {
	// Register validates the input, stores the attendee with its fingerprint and links the selected talks.
	Register(ctx context.Context, in RegistrationInput) (*AttendeeDetail, error)
	GetAttendee(ctx context.Context, id int64) (*AttendeeDetail, error)
	ListAttendees(ctx context.Context, p PaginationParams) ([]*Attendee, int, error)
	// QRCode renders the attendee's stored fingerprint as a PNG image.
	QRCode(ctx context.Context, id int64, size int) ([]byte, error)
}

// QRRenderer renders text content as a QR code image.
type QRRenderer interface {
	PNG(content string, size int) ([]byte, error)
}
