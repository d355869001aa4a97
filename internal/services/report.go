package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"qrcheckin/internal/domain"
)

type reportService struct {
	tx             domain.Transactor
	writer         domain.SpreadsheetWriter
	exportDir      string
	contextTimeout time.Duration
	now            func() time.Time
}

// NewReportService returns a ReportService writing export files under exportDir (the OS temp dir when empty).
func NewReportService(tx domain.Transactor, writer domain.SpreadsheetWriter, exportDir string, timeout time.Duration) domain.ReportService {
	return &reportService{
		tx:             tx,
		writer:         writer,
		exportDir:      exportDir,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func collectStats(ctx context.Context, repos domain.Repositories) (*domain.Stats, error) {
	var (
		st  domain.Stats
		err error
	)
	if st.TalksTotal, err = repos.Talks.Count(ctx); err != nil {
		return nil, err
	}
	if st.AttendeesTotal, err = repos.Attendees.Count(ctx); err != nil {
		return nil, err
	}
	if st.AttendeesConfirmed, err = repos.Attendees.CountConfirmed(ctx); err != nil {
		return nil, err
	}
	if st.TalkAttendancesTotal, err = repos.Attendance.CountAttended(ctx); err != nil {
		return nil, err
	}
	if st.Talks, err = repos.Attendance.TalkStats(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *reportService) Stats(ctx context.Context) (*domain.Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var st *domain.Stats
	err := s.tx.WithinReadTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		st, err = collectStats(ctx, repos)
		return err
	})
	if err != nil {
		return nil, storageErr("collect stats", err)
	}
	return st, nil
}

// newExportFile reserves a temporary file for kind and names the download after now.
func (s *reportService) newExportFile(kind domain.ExportKind, now time.Time) (*domain.ExportFile, error) {
	f, err := os.CreateTemp(s.exportDir, string(kind)+"_*.xlsx")
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("create export file: %w", err)
	}
	return &domain.ExportFile{
		Path:     f.Name(),
		Filename: fmt.Sprintf("%s_%s.xlsx", kind, now.Format("20060102_150405")),
		Kind:     kind,
	}, nil
}

// export reads a snapshot with read, then hands it to write along with the reserved file path.
func (s *reportService) export(ctx context.Context, kind domain.ExportKind, read func(ctx context.Context, repos domain.Repositories) error, write func(path string, now time.Time) error) (*domain.ExportFile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.tx.WithinReadTx(ctx, read); err != nil {
		return nil, storageErr("export "+string(kind), err)
	}

	now := s.now()
	file, err := s.newExportFile(kind, now)
	if err != nil {
		return nil, err
	}
	if err := write(file.Path, now); err != nil {
		os.Remove(file.Path)
		return nil, fmt.Errorf("write %s: %w", kind, err)
	}
	return file, nil
}

func (s *reportService) ExportRegistrations(ctx context.Context) (*domain.ExportFile, error) {
	var attendees []*domain.Attendee
	return s.export(ctx, domain.ExportRegistrations,
		func(ctx context.Context, repos domain.Repositories) error {
			var err error
			attendees, err = repos.Attendees.ListAll(ctx)
			return err
		},
		func(path string, _ time.Time) error {
			return s.writer.WriteRegistrations(path, attendees)
		},
	)
}

func (s *reportService) ExportConfirmed(ctx context.Context, talkID *int64) (*domain.ExportFile, error) {
	var (
		attendees []*domain.Attendee
		talks     []*domain.Talk
		attended  map[int64][]int64
	)
	return s.export(ctx, domain.ExportConfirmed,
		func(ctx context.Context, repos domain.Repositories) error {
			var err error
			if talkID != nil {
				t, err := repos.Talks.GetByID(ctx, *talkID)
				if err != nil {
					return err
				}
				talks = []*domain.Talk{t}
			} else if talks, err = repos.Talks.List(ctx); err != nil {
				return err
			}
			if attendees, err = repos.Attendees.ListConfirmed(ctx); err != nil {
				return err
			}
			attended, err = repos.Attendance.ListAttendedAttendeeIDs(ctx)
			return err
		},
		func(path string, _ time.Time) error {
			return s.writer.WriteConfirmed(path, attendees, talks, attended)
		},
	)
}

func (s *reportService) ExportReport(ctx context.Context) (*domain.ExportFile, error) {
	var st *domain.Stats
	return s.export(ctx, domain.ExportReport,
		func(ctx context.Context, repos domain.Repositories) error {
			var err error
			st, err = collectStats(ctx, repos)
			return err
		},
		func(path string, now time.Time) error {
			return s.writer.WriteReport(path, st, now)
		},
	)
}
