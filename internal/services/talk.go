package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"qrcheckin/internal/domain"
)

// DefaultTalks are created by SeedDefaults on an empty store.
var DefaultTalks = []domain.TalkInput{
	{Name: "Charla de Olympus", Description: "Información sobre equipos Olympus"},
	{Name: "Charla de Sartorius", Description: "Presentación de tecnologías Sartorius"},
	{Name: "Charla de Velp", Description: "Novedades de productos Velp"},
}

// Accepted talk date layouts: the HTML datetime-local form value, Sessionize local times and RFC 3339.
var talkDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

type talkService struct {
	tx             domain.Transactor
	sessionize     domain.SessionizeFetcher
	contextTimeout time.Duration
	now            func() time.Time
}

// NewTalkService returns a TalkService. sessionize may be nil when talk import is not configured.
func NewTalkService(tx domain.Transactor, sessionize domain.SessionizeFetcher, timeout time.Duration) domain.TalkService {
	return &talkService{
		tx:             tx,
		sessionize:     sessionize,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// parseTalkDate parses s in the local zone unless it carries an offset. Empty input yields nil.
func parseTalkDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range talkDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, domain.NewValidationError("scheduled_at must look like 2006-01-02T15:04 or RFC 3339")
}

func normalizeTalk(in domain.TalkInput) (domain.TalkInput, *time.Time, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, nil, domain.NewValidationError("name is required")
	}
	at, err := parseTalkDate(in.ScheduledAt)
	if err != nil {
		return in, nil, err
	}
	return in, at, nil
}

func (s *talkService) Create(ctx context.Context, in domain.TalkInput) (*domain.Talk, error) {
	in, at, err := normalizeTalk(in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	t := domain.NewTalk(in.Name, in.Description, at)
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return repos.Talks.Create(ctx, t)
	})
	if err != nil {
		return nil, storageErr("create talk", err)
	}
	return t, nil
}

// Update replaces name and description. An empty ScheduledAt keeps the current date.
func (s *talkService) Update(ctx context.Context, id int64, in domain.TalkInput) (*domain.Talk, error) {
	in, at, err := normalizeTalk(in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var t *domain.Talk
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		if t, err = repos.Talks.GetByID(ctx, id); err != nil {
			return err
		}
		t.Name = in.Name
		t.Description = in.Description
		if at != nil {
			t.ScheduledAt = at
		}
		return repos.Talks.Update(ctx, t)
	})
	if err != nil {
		return nil, storageErr("update talk", err)
	}
	return t, nil
}

func (s *talkService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return repos.Talks.Delete(ctx, id)
	})
	return storageErr("delete talk", err)
}

func (s *talkService) List(ctx context.Context) ([]*domain.Talk, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var talks []*domain.Talk
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		talks, err = repos.Talks.List(ctx)
		return err
	})
	if err != nil {
		return nil, storageErr("list talks", err)
	}
	return talks, nil
}

func (s *talkService) ListAttendances(ctx context.Context, talkID int64) (*domain.Talk, []*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var (
		talk    *domain.Talk
		records []*domain.AttendanceRecord
	)
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		if talk, err = repos.Talks.GetByID(ctx, talkID); err != nil {
			return err
		}
		records, err = repos.Attendance.ListByTalk(ctx, talkID)
		return err
	})
	if err != nil {
		return nil, nil, storageErr("list talk attendances", err)
	}
	return talk, records, nil
}

// ImportFromSessionize creates one talk per regular Sessionize session. Service sessions (breaks,
// registration desks) are skipped and the room name is appended to the description.
func (s *talkService) ImportFromSessionize(ctx context.Context, sessionizeID string) ([]*domain.Talk, error) {
	if s.sessionize == nil {
		return nil, fmt.Errorf("sessionize import is not configured")
	}
	sessionizeID = strings.TrimSpace(sessionizeID)
	if sessionizeID == "" {
		return nil, domain.NewValidationError("sessionize id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	schedule, err := s.sessionize.Fetch(ctx, sessionizeID)
	if err != nil {
		return nil, fmt.Errorf("fetch sessionize schedule: %w", err)
	}

	rooms := make(map[int]string, len(schedule.Rooms))
	for _, r := range schedule.Rooms {
		rooms[r.ID] = r.Name
	}

	talks := make([]*domain.Talk, 0, len(schedule.Sessions))
	for _, sess := range schedule.Sessions {
		if sess.IsServiceSession || strings.TrimSpace(sess.Title) == "" {
			continue
		}
		at, err := parseTalkDate(sess.StartsAt)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", sess.ID, err)
		}
		desc := strings.TrimSpace(sess.Description)
		if room := rooms[sess.RoomID]; room != "" {
			if desc != "" {
				desc += "\n\n"
			}
			desc += "Sala: " + room
		}
		talks = append(talks, domain.NewTalk(strings.TrimSpace(sess.Title), desc, at))
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		for _, t := range talks {
			if err := repos.Talks.Create(ctx, t); err != nil {
				return fmt.Errorf("create talk %q: %w", t.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("import sessionize talks", err)
	}
	return talks, nil
}

func (s *talkService) SeedDefaults(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	created := 0
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		n, err := repos.Talks.Count(ctx)
		if err != nil || n > 0 {
			return err
		}
		now := s.now()
		for _, in := range DefaultTalks {
			if err := repos.Talks.Create(ctx, domain.NewTalk(in.Name, in.Description, &now)); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, storageErr("seed talks", err)
	}
	return created, nil
}
