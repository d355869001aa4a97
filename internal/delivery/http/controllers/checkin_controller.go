package controllers

import (
	"log/slog"
	"net/http"

	"qrcheckin/internal/delivery/http/helpers"
	"qrcheckin/internal/domain"
)

type CheckInController struct {
	Logger  *slog.Logger
	Service domain.CheckInService
}

func NewCheckInController(logger *slog.Logger, svc domain.CheckInService) *CheckInController {
	return &CheckInController{
		Logger:  logger,
		Service: svc,
	}
}

// ScanRequest is the request body of every scan endpoint. An empty code is answered as a malformed scan.
type ScanRequest struct {
	Code string `json:"code"`
}

// ScanSuccessResponse is the envelope of every scan endpoint. Scan failures are reported in data.status
// and data.reason with HTTP 200.
type ScanSuccessResponse struct {
	Data  *domain.ScanResult `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ManualConfirmationSuccessResponse is the envelope for POST /admin/talks/{talkID}/attendees/{attendeeID}/confirm.
type ManualConfirmationSuccessResponse struct {
	Data  *domain.ManualConfirmation `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

func (c *CheckInController) writeScan(w http.ResponseWriter, r *http.Request, res *domain.ScanResult, err error) {
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if !res.OK() {
		c.Logger.InfoContext(r.Context(), "scan rejected", "path", r.URL.Path, "reason", res.Reason)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

// CheckIn godoc
// @Summary General check-in
// @Description Resolves the scanned QR code and confirms event-wide attendance. Scanning an already confirmed attendee succeeds with outcome already_confirmed.
// @Tags checkin
// @Accept json
// @Produce json
// @Param body body controllers.ScanRequest true "Scanned QR content"
// @Success 200 {object} controllers.ScanSuccessResponse "data.status is ok or failed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /checkin [post]
func (c *CheckInController) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.CheckInGeneral(r.Context(), req.Code)
	c.writeScan(w, r, res, err)
}

// Lookup godoc
// @Summary Identify a QR code
// @Description Resolves the scanned QR code without recording anything.
// @Tags checkin
// @Accept json
// @Produce json
// @Param body body controllers.ScanRequest true "Scanned QR content"
// @Success 200 {object} controllers.ScanSuccessResponse "data.status is ok or failed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /checkin/lookup [post]
func (c *CheckInController) Lookup(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.Lookup(r.Context(), req.Code)
	c.writeScan(w, r, res, err)
}

// CheckInTalk godoc
// @Summary Talk check-in
// @Description Resolves the scanned QR code and marks the attendee as present at the talk. Only attendees registered for the talk are accepted.
// @Tags checkin
// @Accept json
// @Produce json
// @Param talkID path int true "Talk ID"
// @Param body body controllers.ScanRequest true "Scanned QR content"
// @Success 200 {object} controllers.ScanSuccessResponse "data.status is ok or failed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /talks/{talkID}/checkin [post]
func (c *CheckInController) CheckInTalk(w http.ResponseWriter, r *http.Request) {
	talkID, ok := helpers.PathID(w, r, "talkID")
	if !ok {
		return
	}
	var req ScanRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.CheckInTalk(r.Context(), talkID, req.Code)
	c.writeScan(w, r, res, err)
}

// ConfirmTalk godoc
// @Summary Confirm talk attendance by id
// @Description Marks the attendee as present at the talk, registering the attendee for the talk first when needed.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param talkID path int true "Talk ID"
// @Param attendeeID path int true "Attendee ID"
// @Success 200 {object} controllers.ManualConfirmationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/talks/{talkID}/attendees/{attendeeID}/confirm [post]
func (c *CheckInController) ConfirmTalk(w http.ResponseWriter, r *http.Request) {
	talkID, ok := helpers.PathID(w, r, "talkID")
	if !ok {
		return
	}
	attendeeID, ok := helpers.PathID(w, r, "attendeeID")
	if !ok {
		return
	}
	res, err := c.Service.ConfirmTalkByID(r.Context(), talkID, attendeeID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}
