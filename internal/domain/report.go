package domain

import (
	"context"
	"time"
)

// Stats is the administrator dashboard summary.
// swagger:model Stats
type Stats struct {
	TalksTotal           int          `json:"talks_total"`
	AttendeesTotal       int          `json:"attendees_total"`
	AttendeesConfirmed   int          `json:"attendees_confirmed"`
	TalkAttendancesTotal int          `json:"talk_attendances_total"`
	Talks                []*TalkStats `json:"talks"`
}

// ConfirmationRate returns confirmed/total, or 0 when there are no attendees.
func (s *Stats) ConfirmationRate() float64 {
	if s.AttendeesTotal == 0 {
		return 0
	}
	return float64(s.AttendeesConfirmed) / float64(s.AttendeesTotal)
}

// ExportKind names a spreadsheet export.
type ExportKind string

const (
	ExportRegistrations ExportKind = "registros_asistentes"
	ExportConfirmed     ExportKind = "asistentes_confirmados"
	ExportReport        ExportKind = "reporte_general"
)

// ExportFile is a generated spreadsheet on disk. The caller owns Path and removes it when done.
type ExportFile struct {
	Path     string
	Filename string
	Kind     ExportKind
}

// ContentTypeXLSX is the MIME type of every export.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SpreadsheetWriter writes export workbooks to path.
type SpreadsheetWriter interface {
	WriteRegistrations(path string, attendees []*Attendee) error
	// WriteConfirmed writes the generally-confirmed attendees plus one sheet per talk in talks whose
	// attended ids (attendedByTalk) intersect them.
	WriteConfirmed(path string, attendees []*Attendee, talks []*Talk, attendedByTalk map[int64][]int64) error
	WriteReport(path string, stats *Stats, generatedAt time.Time) error
}

// ReportService defines administrator statistics and exports.
type ReportService interface {
	Stats(ctx context.Context) (*Stats, error)
	ExportRegistrations(ctx context.Context) (*ExportFile, error)
	// ExportConfirmed exports generally-confirmed attendees; a non-nil talkID restricts the per-talk sheets.
	ExportConfirmed(ctx context.Context, talkID *int64) (*ExportFile, error)
	ExportReport(ctx context.Context) (*ExportFile, error)
}
