package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"qrcheckin/internal/delivery/http/helpers"
	"qrcheckin/internal/domain"
)

type TalkController struct {
	Logger  *slog.Logger
	Service domain.TalkService
}

func NewTalkController(logger *slog.Logger, svc domain.TalkService) *TalkController {
	return &TalkController{
		Logger:  logger,
		Service: svc,
	}
}

// TalkRequest is the request body for POST /admin/talks and PATCH /admin/talks/{talkID}.
// scheduled_at accepts "2006-01-02T15:04" or RFC 3339; on update an empty value keeps the current date.
type TalkRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ScheduledAt string `json:"scheduled_at"`
}

// TalkSuccessResponse is the success envelope for a single talk.
type TalkSuccessResponse struct {
	Data  *domain.Talk      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListTalksSuccessResponse is the success envelope for talk lists.
type ListTalksSuccessResponse struct {
	Data  []*domain.Talk    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// TalkAttendances is the data of GET /admin/talks/{talkID}/attendances.
type TalkAttendances struct {
	Talk        *domain.Talk               `json:"talk"`
	Attendances []*domain.AttendanceRecord `json:"attendances"`
}

// TalkAttendancesSuccessResponse is the success envelope for GET /admin/talks/{talkID}/attendances.
type TalkAttendancesSuccessResponse struct {
	Data  *TalkAttendances  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

func (req *TalkRequest) input() domain.TalkInput {
	return domain.TalkInput{
		Name:        req.Name,
		Description: req.Description,
		ScheduledAt: strings.TrimSpace(req.ScheduledAt),
	}
}

// List godoc
// @Summary List talks
// @Description Returns every talk ordered by date; talks without a date come last.
// @Tags talks
// @Produce json
// @Success 200 {object} controllers.ListTalksSuccessResponse
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /talks [get]
func (c *TalkController) List(w http.ResponseWriter, r *http.Request) {
	talks, err := c.Service.List(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, talks)
}

// Create godoc
// @Summary Create a talk
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.TalkRequest true "Talk"
// @Success 201 {object} controllers.TalkSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/talks [post]
func (c *TalkController) Create(w http.ResponseWriter, r *http.Request) {
	var req TalkRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	talk, err := c.Service.Create(r.Context(), req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, talk)
}

// Update godoc
// @Summary Update a talk
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param talkID path int true "Talk ID"
// @Param body body controllers.TalkRequest true "Talk"
// @Success 200 {object} controllers.TalkSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/talks/{talkID} [patch]
func (c *TalkController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "talkID")
	if !ok {
		return
	}
	var req TalkRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	talk, err := c.Service.Update(r.Context(), id, req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, talk)
}

// Delete godoc
// @Summary Delete a talk
// @Description Deletes the talk and every registration and attendance for it.
// @Tags admin
// @Security BearerAuth
// @Param talkID path int true "Talk ID"
// @Success 204
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/talks/{talkID} [delete]
func (c *TalkController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "talkID")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	admin, _ := helpers.AdminFromContext(r.Context())
	c.Logger.InfoContext(r.Context(), "talk deleted", "request_id", helpers.RequestIDFromContext(r.Context()), "talk_id", id, "admin", admin)
	w.WriteHeader(http.StatusNoContent)
}

// ListAttendances godoc
// @Summary Talk registrations
// @Description Lists the attendees registered for the talk with their attendance state.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param talkID path int true "Talk ID"
// @Success 200 {object} controllers.TalkAttendancesSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/talks/{talkID}/attendances [get]
func (c *TalkController) ListAttendances(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "talkID")
	if !ok {
		return
	}
	talk, records, err := c.Service.ListAttendances(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if records == nil {
		records = []*domain.AttendanceRecord{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &TalkAttendances{Talk: talk, Attendances: records})
}

// ImportSessionize godoc
// @Summary Import talks from Sessionize
// @Description Creates a talk for every regular session of the Sessionize event.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param sessionizeID path string true "Sessionize event ID"
// @Success 201 {object} controllers.ListTalksSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/talks/import/sessionize/{sessionizeID} [post]
func (c *TalkController) ImportSessionize(w http.ResponseWriter, r *http.Request) {
	talks, err := c.Service.ImportFromSessionize(r.Context(), r.PathValue("sessionizeID"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, talks)
}
