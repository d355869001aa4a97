package spreadsheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"qrcheckin/internal/domain"
)

const (
	sheetRegistrations = "Registros"
	sheetConfirmed     = "Asistentes"
	sheetSummary       = "Resumen General"
	sheetPieData       = "_Datos"
	sheetTalkData      = "_DatosCharlas"

	notSpecified = "No especificado"
	noDate       = "Sin fecha"
)

// talkSheetNameLimit is the longest talk name used verbatim as a sheet name; longer names become "Charla <id>".
const talkSheetNameLimit = 25

type excelWriter struct{}

// NewExcelWriter returns a SpreadsheetWriter producing .xlsx workbooks.
func NewExcelWriter() domain.SpreadsheetWriter {
	return &excelWriter{}
}

// build runs fill on a new workbook whose first sheet is named first, then saves it to path.
func build(path, first string, fill func(f *excelize.File, st *styles) error) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := f.SetSheetName(f.GetSheetName(0), first); err != nil {
		return err
	}
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("create styles: %w", err)
	}
	if err := fill(f, st); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateTimeLayout)
}

func orNotSpecified(s string) string {
	if s == "" {
		return notSpecified
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func (w *excelWriter) WriteRegistrations(path string, attendees []*domain.Attendee) error {
	header := []string{"ID", "Nombres", "Empresa", "DNI", "Cargo", "Correo", "Teléfono",
		"Fecha Registro", "Asistencia Confirmada", "Fecha Asistencia"}
	rows := make([][]any, 0, len(attendees))
	for _, a := range attendees {
		rows = append(rows, []any{
			a.ID, a.Name, a.Company, a.DNI, a.Title, a.Email, a.Phone,
			formatTime(&a.RegisteredAt), yesNo(a.AttendanceConfirmed), formatTime(a.ConfirmedAt),
		})
	}
	return build(path, sheetRegistrations, func(f *excelize.File, st *styles) error {
		s := &sheet{f: f, name: sheetRegistrations}
		s.table(1, header, rows, st.header)
		return s.err
	})
}

func (w *excelWriter) WriteConfirmed(path string, attendees []*domain.Attendee, talks []*domain.Talk, attendedByTalk map[int64][]int64) error {
	header := []string{"ID", "Nombres", "Empresa", "DNI", "Cargo", "Correo", "Teléfono", "Fecha Asistencia"}
	rows := make([][]any, 0, len(attendees))
	for _, a := range attendees {
		rows = append(rows, []any{
			a.ID, a.Name, a.Company, a.DNI, orNotSpecified(a.Title), a.Email, orNotSpecified(a.Phone),
			formatTime(a.ConfirmedAt),
		})
	}
	return build(path, sheetConfirmed, func(f *excelize.File, st *styles) error {
		s := &sheet{f: f, name: sheetConfirmed}
		s.table(1, header, rows, st.header)
		if s.err != nil {
			return s.err
		}
		names := newSheetNames(sheetConfirmed, sheetPieData, sheetTalkData)
		for _, t := range talks {
			present := talkAttendees(attendees, attendedByTalk[t.ID])
			if len(present) == 0 {
				continue
			}
			if err := writeTalkSheet(f, st, names.next(t), t, present); err != nil {
				return fmt.Errorf("talk %d sheet: %w", t.ID, err)
			}
		}
		return nil
	})
}

// talkAttendees keeps the attendees whose id is in ids, in the order of attendees.
func talkAttendees(attendees []*domain.Attendee, ids []int64) []*domain.Attendee {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	var out []*domain.Attendee
	for _, a := range attendees {
		if _, ok := set[a.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}

func writeTalkSheet(f *excelize.File, st *styles, name string, t *domain.Talk, attendees []*domain.Attendee) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	header := []string{"ID", "Nombres", "Empresa", "DNI", "Cargo", "Correo", "Teléfono"}
	rows := make([][]any, 0, len(attendees))
	for _, a := range attendees {
		rows = append(rows, []any{
			a.ID, a.Name, a.Company, a.DNI, orNotSpecified(a.Title), a.Email, orNotSpecified(a.Phone),
		})
	}
	date := noDate
	if t.ScheduledAt != nil {
		date = formatTime(t.ScheduledAt)
	}

	s := &sheet{f: f, name: name}
	s.merge("A1", "G1", t.Name, st.title)
	if t.Description != "" {
		s.merge("A2", "G2", t.Description, st.subtitle)
	}
	s.merge("A3", "G3", "Fecha: "+date, st.subtitle)
	s.table(4, header, rows, st.header)
	return s.err
}

// sheetNames hands out valid, workbook-unique sheet names for talks.
type sheetNames struct {
	used map[string]bool
}

func newSheetNames(reserved ...string) *sheetNames {
	n := &sheetNames{used: make(map[string]bool)}
	for _, r := range reserved {
		n.used[strings.ToLower(r)] = true
	}
	return n
}

func (n *sheetNames) next(t *domain.Talk) string {
	base := fmt.Sprintf("Charla %d", t.ID)
	if clean := cleanSheetName(t.Name); clean != "" && len([]rune(clean)) <= talkSheetNameLimit {
		base = clean
	}
	name := base
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		r := []rune(base)
		if len(r)+len(suffix) > maxSheetNameLen {
			r = r[:maxSheetNameLen-len(suffix)]
		}
		name = string(r) + suffix
	}
	n.used[strings.ToLower(name)] = true
	return name
}

// cleanSheetName drops the characters Excel rejects in sheet names.
func cleanSheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, s)
	return strings.Trim(strings.TrimSpace(s), "'")
}

func (w *excelWriter) WriteReport(path string, stats *domain.Stats, generatedAt time.Time) error {
	return build(path, sheetSummary, func(f *excelize.File, st *styles) error {
		s := &sheet{f: f, name: sheetSummary}
		s.merge("A1", "D1", "REPORTE GENERAL DE ASISTENCIA", st.bigTitle)
		s.merge("A2", "D2", "Fecha de generación: "+generatedAt.Format("02/01/2006"), st.subtitle)

		s.merge("A4", "D4", "ESTADÍSTICAS GENERALES", st.header)
		s.merge("A5", "C5", "Descripción", st.header)
		s.set("D5", "Valor")
		s.style("D5", "D5", st.header)
		s.merge("A6", "C6", "Total de asistentes registrados", st.cell)
		s.set("D6", stats.AttendeesTotal)
		s.style("D6", "D6", st.cell)
		s.merge("A7", "C7", "Total de asistentes que confirmaron asistencia", st.cell)
		s.set("D7", stats.AttendeesConfirmed)
		s.style("D7", "D7", st.cell)
		s.merge("A8", "C8", "Porcentaje de confirmación", st.cell)
		s.set("D8", stats.ConfirmationRate())
		s.style("D8", "D8", st.percent)

		s.merge("A10", "E10", "ESTADÍSTICAS POR CHARLA", st.header)
		s.row("A11", []any{"ID", "Nombre de Charla", "Registrados", "Asistieron", "% Asistencia"})
		s.style("A11", "E11", st.header)
		row := 12
		for _, t := range stats.Talks {
			s.row(cell(1, row), []any{t.TalkID, t.Name, t.Registered, t.Attended, t.AttendanceRate()})
			s.style(cell(1, row), cell(4, row), st.cell)
			s.style(cell(5, row), cell(5, row), st.percent)
			row++
		}
		s.width("A", "A", 10)
		s.width("B", "B", 40)
		s.width("C", "E", 15)
		if s.err != nil {
			return s.err
		}
		return writeReportCharts(f, stats)
	})
}

// writeReportCharts adds the attendance pie and the per-talk column chart, fed from hidden data sheets.
func writeReportCharts(f *excelize.File, stats *domain.Stats) error {
	if _, err := f.NewSheet(sheetPieData); err != nil {
		return err
	}
	pie := &sheet{f: f, name: sheetPieData}
	pie.row("A1", []any{"Categoría", "Valor"})
	pie.row("A2", []any{"Asistieron", stats.AttendeesConfirmed})
	pie.row("A3", []any{"No Asistieron", stats.AttendeesTotal - stats.AttendeesConfirmed})
	if pie.err != nil {
		return pie.err
	}
	scale := excelize.GraphicOptions{OffsetX: 25, OffsetY: 10, ScaleX: 1.5, ScaleY: 1.5}
	if err := f.AddChart(sheetSummary, "A20", &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       "Asistencia",
			Categories: fmt.Sprintf("'%s'!$A$2:$A$3", sheetPieData),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$3", sheetPieData),
		}},
		Title:    []excelize.RichTextRun{{Text: "Proporción de Asistencia"}},
		PlotArea: excelize.ChartPlotArea{ShowPercent: true},
		Format:   scale,
	}); err != nil {
		return fmt.Errorf("add pie chart: %w", err)
	}

	if _, err := f.NewSheet(sheetTalkData); err != nil {
		return err
	}
	data := &sheet{f: f, name: sheetTalkData}
	data.row("A1", []any{"Charla", "Registrados", "Asistieron"})
	for i, t := range stats.Talks {
		data.row(cell(1, i+2), []any{t.Name, t.Registered, t.Attended})
	}
	if data.err != nil {
		return data.err
	}
	if len(stats.Talks) > 0 {
		last := len(stats.Talks) + 1
		categories := fmt.Sprintf("'%s'!$A$2:$A$%d", sheetTalkData, last)
		if err := f.AddChart(sheetSummary, "G20", &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{
				{
					Name:       "Registrados",
					Categories: categories,
					Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheetTalkData, last),
					Fill:       excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
				},
				{
					Name:       "Asistieron",
					Categories: categories,
					Values:     fmt.Sprintf("'%s'!$C$2:$C$%d", sheetTalkData, last),
					Fill:       excelize.Fill{Type: "pattern", Color: []string{attendedColor}, Pattern: 1},
				},
			},
			Title:  []excelize.RichTextRun{{Text: "Registros vs. Asistencias por Charla"}},
			XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Charla"}}},
			YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Cantidad"}}},
			Format: scale,
		}); err != nil {
			return fmt.Errorf("add column chart: %w", err)
		}
	}

	for _, name := range []string{sheetPieData, sheetTalkData} {
		if err := f.SetSheetVisible(name, false); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	return nil
}
