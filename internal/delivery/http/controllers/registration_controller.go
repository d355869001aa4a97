package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"qrcheckin/internal/delivery/http/helpers"
	"qrcheckin/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterRequest is the request body for POST /attendees.
type RegisterRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Company string  `json:"company" validate:"required,max=100"`
	Title   string  `json:"title" validate:"max=100"`
	Email   string  `json:"email" validate:"required,email,max=120"`
	Phone   string  `json:"phone" validate:"max=20"`
	DNI     string  `json:"dni" validate:"required,max=20"`
	TalkIDs []int64 `json:"talk_ids" validate:"dive,gt=0"`
}

// AttendeeDetailSuccessResponse is the success envelope for POST /attendees and GET /attendees/{id}.
type AttendeeDetailSuccessResponse struct {
	Data  *domain.AttendeeDetail `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ListAttendeesSuccessResponse is the success envelope for GET /admin/attendees.
type ListAttendeesSuccessResponse struct {
	Data  helpers.Page[*domain.Attendee] `json:"data"`
	Error *helpers.APIError              `json:"error"`
}

// Register godoc
// @Summary Register an attendee
// @Description Stores the attendee with its QR fingerprint and links the selected talks. Unknown talk ids are ignored. A confirmation email is sent best-effort.
// @Tags attendees
// @Accept json
// @Produce json
// @Param body body controllers.RegisterRequest true "Registration form"
// @Success 201 {object} controllers.AttendeeDetailSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email or dni already registered)"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /attendees [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	detail, err := c.Service.Register(r.Context(), domain.RegistrationInput{
		Name:    req.Name,
		Company: req.Company,
		Title:   req.Title,
		Email:   req.Email,
		Phone:   req.Phone,
		DNI:     req.DNI,
		TalkIDs: req.TalkIDs,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, detail)
}

// GetAttendee godoc
// @Summary Get an attendee
// @Description Returns the attendee and the talks it is linked to.
// @Tags attendees
// @Produce json
// @Param id path int true "Attendee ID"
// @Success 200 {object} controllers.AttendeeDetailSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /attendees/{id} [get]
func (c *RegistrationController) GetAttendee(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	detail, err := c.Service.GetAttendee(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// QRCode godoc
// @Summary Attendee QR code
// @Description Renders the attendee's fingerprint as a PNG QR code.
// @Tags attendees
// @Produce png
// @Param id path int true "Attendee ID"
// @Param size query int false "Image size in pixels (default 256, max 1024)"
// @Success 200 {file} binary
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /attendees/{id}/qr.png [get]
func (c *RegistrationController) QRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	png, err := c.Service.QRCode(r.Context(), id, size)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// ListAttendees godoc
// @Summary List attendees
// @Description Paginated list of registered attendees, newest first.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 50, max 500)"
// @Success 200 {object} controllers.ListAttendeesSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/attendees [get]
func (c *RegistrationController) ListAttendees(w http.ResponseWriter, r *http.Request) {
	p := helpers.ParsePagination(r)
	attendees, total, err := c.Service.ListAttendees(r.Context(), p)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.NewPage(attendees, p, total))
}
