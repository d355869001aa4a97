package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"qrcheckin/internal/delivery/http/helpers"
	"qrcheckin/internal/domain"
)

type ReportController struct {
	Logger  *slog.Logger
	Service domain.ReportService
}

func NewReportController(logger *slog.Logger, svc domain.ReportService) *ReportController {
	return &ReportController{
		Logger:  logger,
		Service: svc,
	}
}

// StatsSuccessResponse is the success envelope for GET /admin/stats.
type StatsSuccessResponse struct {
	Data  *domain.Stats     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Stats godoc
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.StatsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /admin/stats [get]
func (c *ReportController) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := c.Service.Stats(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, st)
}

// serveExport streams the generated workbook as an attachment and removes it afterwards.
func (c *ReportController) serveExport(w http.ResponseWriter, r *http.Request, file *domain.ExportFile, err error) {
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	defer func() {
		if err := os.Remove(file.Path); err != nil {
			c.Logger.WarnContext(r.Context(), "failed to remove export file", "path", file.Path, "err", err)
		}
	}()

	f, err := os.Open(file.Path)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, fmt.Errorf("open export: %w", err))
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, fmt.Errorf("stat export: %w", err))
		return
	}

	w.Header().Set("Content-Type", domain.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	http.ServeContent(w, r, file.Filename, info.ModTime(), f)
}

// ExportRegistrations godoc
// @Summary Export registrations
// @Description Spreadsheet with every registered attendee.
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /admin/exports/registrations [get]
func (c *ReportController) ExportRegistrations(w http.ResponseWriter, r *http.Request) {
	file, err := c.Service.ExportRegistrations(r.Context())
	c.serveExport(w, r, file, err)
}

// ExportConfirmed godoc
// @Summary Export confirmed attendees
// @Description Spreadsheet with the confirmed attendees plus one sheet per talk with attendance. talk_id restricts the talk sheets to one talk.
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param talk_id query int false "Talk ID"
// @Success 200 {file} binary
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/exports/attendees [get]
func (c *ReportController) ExportConfirmed(w http.ResponseWriter, r *http.Request) {
	var talkID *int64
	if s := r.URL.Query().Get("talk_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id < 1 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid talk_id")
			return
		}
		talkID = &id
	}
	file, err := c.Service.ExportConfirmed(r.Context(), talkID)
	c.serveExport(w, r, file, err)
}

// ExportReport godoc
// @Summary Export the general report
// @Description Spreadsheet with totals, per-talk statistics and charts.
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /admin/exports/report [get]
func (c *ReportController) ExportReport(w http.ResponseWriter, r *http.Request) {
	file, err := c.Service.ExportReport(r.Context())
	c.serveExport(w, r, file, err)
}
