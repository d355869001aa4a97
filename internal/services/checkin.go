package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"qrcheckin/internal/domain"
	"qrcheckin/internal/fingerprint"
)

const (
	msgMissingCode      = "Código QR no proporcionado"
	msgMalformed        = "Formato de código QR inválido"
	msgNotFound         = "No se encontró ningún asistente con este código QR"
	msgTalkNotFound     = "Charla no encontrada"
	msgJustConfirmed    = "¡Asistencia confirmada! Registro exitoso."
	msgAlreadyConfirmed = "Este QR ya fue registrado anteriormente"
	msgIdentified       = "Asistente identificado"
)

type checkInService struct {
	tx             domain.Transactor
	contextTimeout time.Duration
	now            func() time.Time
}

// NewCheckInService returns a CheckInService that runs every scan as one unit of work on tx.
func NewCheckInService(tx domain.Transactor, timeout time.Duration) domain.CheckInService {
	return &checkInService{
		tx:             tx,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// decodeScan returns the fragments of a scanned code, or the failure to report for it.
// The code is sliced as scanned; surrounding whitespace counts towards its length.
func decodeScan(code string) (fingerprint.Fragments, *domain.ScanResult) {
	if code == "" {
		return fingerprint.Fragments{}, domain.ScanFailure(domain.ReasonMalformed, msgMissingCode)
	}
	frags, err := fingerprint.Decode(code)
	if err != nil {
		return fingerprint.Fragments{}, domain.ScanFailure(domain.ReasonMalformed, msgMalformed)
	}
	return frags, nil
}

// resolveAttendee maps decoded fragments to one attendee. It returns nil when nothing matches.
// Candidates come back in id order; when several share the name, company and DNI keys, those whose
// title or phone contradict the code are dropped and the first survivor wins.
func resolveAttendee(ctx context.Context, attendees domain.AttendeeRepository, frags fingerprint.Fragments) (*domain.Attendee, error) {
	candidates, err := attendees.FindByFragments(ctx, frags.Name, frags.Company, frags.DNI)
	if err != nil {
		return nil, err
	}
	if len(candidates) > 1 {
		narrowed := candidates[:0:0]
		for _, a := range candidates {
			if (a.Title == "" || fingerprint.Matches(a.Title, frags.Title, fingerprint.PadTitle)) &&
				(a.Phone == "" || fingerprint.Matches(a.Phone, frags.Phone, fingerprint.PadPhone)) {
				narrowed = append(narrowed, a)
			}
		}
		candidates = narrowed
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return candidates[0], nil
}

func (s *checkInService) CheckInGeneral(ctx context.Context, code string) (*domain.ScanResult, error) {
	frags, failure := decodeScan(code)
	if failure != nil {
		return failure, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var result *domain.ScanResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		a, err := resolveAttendee(ctx, repos.Attendees, frags)
		if err != nil {
			return err
		}
		if a == nil {
			result = domain.ScanFailure(domain.ReasonNotFound, msgNotFound)
			return nil
		}

		now := s.now()
		changed, err := repos.Attendees.SetGeneralConfirmed(ctx, a.ID, now)
		if err != nil {
			return err
		}
		outcome, message := domain.OutcomeAlreadyConfirmed, msgAlreadyConfirmed
		if changed {
			outcome, message = domain.OutcomeJustConfirmed, msgJustConfirmed
			a.AttendanceConfirmed = true
			a.ConfirmedAt = &now
		} else if !a.AttendanceConfirmed {
			// A concurrent scan confirmed the attendee after it was read; report its timestamp.
			if a, err = repos.Attendees.GetByID(ctx, a.ID); err != nil {
				return err
			}
		}

		talks, err := repos.Attendance.ListTalksForAttendee(ctx, a.ID)
		if err != nil {
			return err
		}
		result = domain.ScanSucceeded(outcome, message, a, talks)
		result.ConfirmedAt = a.ConfirmedAt
		return nil
	})
	if err != nil {
		return nil, storageErr("general check-in", err)
	}
	return result, nil
}

func (s *checkInService) Lookup(ctx context.Context, code string) (*domain.ScanResult, error) {
	frags, failure := decodeScan(code)
	if failure != nil {
		return failure, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var result *domain.ScanResult
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		a, err := resolveAttendee(ctx, repos.Attendees, frags)
		if err != nil {
			return err
		}
		if a == nil {
			result = domain.ScanFailure(domain.ReasonNotFound, msgNotFound)
			return nil
		}
		talks, err := repos.Attendance.ListTalksForAttendee(ctx, a.ID)
		if err != nil {
			return err
		}
		result = domain.ScanSucceeded(domain.OutcomeIdentified, msgIdentified, a, talks)
		result.ConfirmedAt = a.ConfirmedAt
		return nil
	})
	if err != nil {
		return nil, storageErr("lookup", err)
	}
	return result, nil
}

func (s *checkInService) CheckInTalk(ctx context.Context, talkID int64, code string) (*domain.ScanResult, error) {
	frags, failure := decodeScan(code)
	if failure != nil {
		return failure, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var result *domain.ScanResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		talk, err := repos.Talks.GetByID(ctx, talkID)
		if errors.Is(err, domain.ErrNotFound) {
			result = domain.ScanFailure(domain.ReasonTalkNotFound, msgTalkNotFound)
			return nil
		}
		if err != nil {
			return err
		}

		a, err := resolveAttendee(ctx, repos.Attendees, frags)
		if err != nil {
			return err
		}
		if a == nil {
			result = domain.ScanFailure(domain.ReasonNotFound, msgNotFound)
			return nil
		}

		now := s.now()
		res, err := repos.Attendance.SetAttended(ctx, a.ID, talk.ID, now)
		if err != nil {
			return err
		}
		switch res {
		case domain.TalkNotLinked:
			result = domain.ScanFailure(domain.ReasonNotRegisteredForTalk,
				fmt.Sprintf("El asistente %s no está registrado para la charla %s", a.Name, talk.Name))
			result.Attendee = a
			result.Talk = talk
			return nil
		case domain.TalkAlreadyAttended:
			result = domain.ScanFailure(domain.ReasonAlreadyAttended,
				fmt.Sprintf("El asistente %s ya registró su asistencia a esta charla", a.Name))
			result.Attendee = a
			result.Talk = talk
			return nil
		}

		talks, err := repos.Attendance.ListTalksForAttendee(ctx, a.ID)
		if err != nil {
			return err
		}
		result = domain.ScanSucceeded(domain.OutcomeTalkAttended,
			fmt.Sprintf("Asistencia de %s confirmada para la charla %s", a.Name, talk.Name), a, talks)
		result.Talk = talk
		result.ConfirmedAt = &now
		return nil
	})
	if err != nil {
		return nil, storageErr("talk check-in", err)
	}
	return result, nil
}

func (s *checkInService) ConfirmTalkByID(ctx context.Context, talkID, attendeeID int64) (*domain.ManualConfirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var out *domain.ManualConfirmation
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		talk, err := repos.Talks.GetByID(ctx, talkID)
		if err != nil {
			return fmt.Errorf("get talk: %w", err)
		}
		a, err := repos.Attendees.GetByID(ctx, attendeeID)
		if err != nil {
			return fmt.Errorf("get attendee: %w", err)
		}
		linked, err := repos.Attendance.Link(ctx, a.ID, talk.ID)
		if err != nil {
			return err
		}
		now := s.now()
		res, err := repos.Attendance.SetAttended(ctx, a.ID, talk.ID, now)
		if err != nil {
			return err
		}
		out = &domain.ManualConfirmation{
			Attendee:    a,
			Talk:        talk,
			Linked:      linked,
			NewlyMarked: res == domain.TalkConfirmed,
		}
		if out.NewlyMarked {
			out.ConfirmedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("confirm talk", err)
	}
	return out, nil
}
