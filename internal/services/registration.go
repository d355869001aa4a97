package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"qrcheckin/internal/domain"
	"qrcheckin/internal/fingerprint"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

type registrationService struct {
	tx             domain.Transactor
	emailService   domain.EmailService
	qr             domain.QRRenderer
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewRegistrationService returns a RegistrationService. emailService may be nil, in which case no
// confirmation email is sent.
func NewRegistrationService(tx domain.Transactor, emailService domain.EmailService, qr domain.QRRenderer, logger *slog.Logger, timeout time.Duration) domain.RegistrationService {
	return &registrationService{
		tx:             tx,
		emailService:   emailService,
		qr:             qr,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func normalizeRegistration(in domain.RegistrationInput) (domain.RegistrationInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Company = strings.TrimSpace(in.Company)
	in.Title = strings.TrimSpace(in.Title)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.DNI = strings.TrimSpace(in.DNI)

	var problems []string
	if in.Name == "" {
		problems = append(problems, "name is required")
	}
	if in.Company == "" {
		problems = append(problems, "company is required")
	}
	if in.Email == "" {
		problems = append(problems, "email is required")
	}
	if in.DNI == "" {
		problems = append(problems, "dni is required")
	}
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"name", in.Name, domain.MaxNameLen},
		{"company", in.Company, domain.MaxCompanyLen},
		{"title", in.Title, domain.MaxTitleLen},
		{"email", in.Email, domain.MaxEmailLen},
		{"phone", in.Phone, domain.MaxPhoneLen},
		{"dni", in.DNI, domain.MaxDNILen},
	} {
		if utf8.RuneCountInString(f.value) > f.max {
			problems = append(problems, fmt.Sprintf("%s must be at most %d characters", f.name, f.max))
		}
	}
	if len(problems) > 0 {
		return in, domain.NewValidationError(problems...)
	}
	return in, nil
}

// uniqueIDs drops duplicates and non-positive ids, keeping the submitted order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func (s *registrationService) Register(ctx context.Context, in domain.RegistrationInput) (*domain.AttendeeDetail, error) {
	in, err := normalizeRegistration(in)
	if err != nil {
		return nil, err
	}
	talkIDs := uniqueIDs(in.TalkIDs)

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	a := domain.NewAttendee(in.Name, in.Company, in.Title, in.Email, in.Phone, in.DNI, joinIDs(talkIDs), s.now())
	a.Fingerprint = fingerprint.Encode(fingerprint.Fields{
		Name:    a.Name,
		Company: a.Company,
		DNI:     a.DNI,
		Title:   a.Title,
		Phone:   a.Phone,
	})

	detail := &domain.AttendeeDetail{Attendee: a, Talks: []*domain.Talk{}}
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if err := repos.Attendees.Create(ctx, a); err != nil {
			return err
		}
		for _, id := range talkIDs {
			talk, err := repos.Talks.GetByID(ctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if _, err := repos.Attendance.Link(ctx, a.ID, talk.ID); err != nil {
				return err
			}
			detail.Talks = append(detail.Talks, talk)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("register attendee", err)
	}

	s.sendRegistrationEmail(ctx, detail)
	return detail, nil
}

func (s *registrationService) sendRegistrationEmail(ctx context.Context, detail *domain.AttendeeDetail) {
	if s.emailService == nil {
		return
	}
	names := make([]string, len(detail.Talks))
	for i, t := range detail.Talks {
		names[i] = t.Name
	}
	data := &domain.RegistrationEmailData{
		Email:       detail.Attendee.Email,
		Name:        detail.Attendee.Name,
		AttendeeID:  detail.Attendee.ID,
		Fingerprint: detail.Attendee.Fingerprint,
		Talks:       names,
	}
	if err := s.emailService.SendRegistration(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "registration email not sent", "attendee_id", detail.Attendee.ID, "err", err)
	}
}

func (s *registrationService) GetAttendee(ctx context.Context, id int64) (*domain.AttendeeDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var detail *domain.AttendeeDetail
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		a, err := repos.Attendees.GetByID(ctx, id)
		if err != nil {
			return err
		}
		talks, err := repos.Attendance.ListTalksForAttendee(ctx, id)
		if err != nil {
			return err
		}
		detail = &domain.AttendeeDetail{Attendee: a, Talks: talks}
		return nil
	})
	if err != nil {
		return nil, storageErr("get attendee", err)
	}
	return detail, nil
}

func (s *registrationService) ListAttendees(ctx context.Context, p domain.PaginationParams) ([]*domain.Attendee, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var (
		attendees []*domain.Attendee
		total     int
	)
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		attendees, total, err = repos.Attendees.List(ctx, p)
		return err
	})
	if err != nil {
		return nil, 0, storageErr("list attendees", err)
	}
	return attendees, total, nil
}

func (s *registrationService) QRCode(ctx context.Context, id int64, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}
	detail, err := s.GetAttendee(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.PNG(detail.Attendee.Fingerprint, size)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	return png, nil
}
