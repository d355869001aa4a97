package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrcheckin/internal/domain"
)

func tempExport(t *testing.T, content string) *domain.ExportFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return &domain.ExportFile{
		Path:     path,
		Filename: "reporte_general_20250510_093000.xlsx",
		Kind:     domain.ExportReport,
	}
}

func TestReportController_Stats(t *testing.T) {
	svc := &fakeReportService{stats: &domain.Stats{TalksTotal: 3, AttendeesTotal: 10, AttendeesConfirmed: 4}}
	c := NewReportController(testLogger, svc)

	rr := serve("GET /admin/stats", c.Stats, http.MethodGet, "/admin/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.Stats
	decodeData(t, rr, &got)
	assert.Equal(t, 4, got.AttendeesConfirmed)

	svc.err = fmt.Errorf("%w: collect stats: %w", domain.ErrStorageUnavailable, context.DeadlineExceeded)
	rr = serve("GET /admin/stats", c.Stats, http.MethodGet, "/admin/stats", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestReportController_Exports(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		target  string
		handler func(c *ReportController) http.HandlerFunc
	}{
		{"registrations", "GET /admin/exports/registrations", "/admin/exports/registrations", func(c *ReportController) http.HandlerFunc { return c.ExportRegistrations }},
		{"attendees", "GET /admin/exports/attendees", "/admin/exports/attendees", func(c *ReportController) http.HandlerFunc { return c.ExportConfirmed }},
		{"report", "GET /admin/exports/report", "/admin/exports/report", func(c *ReportController) http.HandlerFunc { return c.ExportReport }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := tempExport(t, "xlsx-bytes")
			c := NewReportController(testLogger, &fakeReportService{file: file})

			rr := serve(tt.pattern, tt.handler(c), http.MethodGet, tt.target, "")

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, domain.ContentTypeXLSX, rr.Header().Get("Content-Type"))
			assert.Equal(t, `attachment; filename="reporte_general_20250510_093000.xlsx"`, rr.Header().Get("Content-Disposition"))
			assert.Equal(t, "xlsx-bytes", rr.Body.String())
			_, err := os.Stat(file.Path)
			assert.True(t, errors.Is(err, os.ErrNotExist), "export file should be removed")
		})
	}
}

func TestReportController_ExportConfirmedFilter(t *testing.T) {
	svc := &fakeReportService{file: tempExport(t, "x")}
	c := NewReportController(testLogger, svc)

	rr := serve("GET /admin/exports/attendees", c.ExportConfirmed, http.MethodGet, "/admin/exports/attendees?talk_id=4", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, svc.lastTalkID)
	assert.Equal(t, int64(4), *svc.lastTalkID)

	svc.lastTalkID = nil
	rr = serve("GET /admin/exports/attendees", c.ExportConfirmed, http.MethodGet, "/admin/exports/attendees?talk_id=-1", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, svc.lastTalkID)

	svc.file, svc.err = nil, fmt.Errorf("export: %w", domain.ErrNotFound)
	rr = serve("GET /admin/exports/attendees", c.ExportConfirmed, http.MethodGet, "/admin/exports/attendees?talk_id=99", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
