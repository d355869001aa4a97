package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"qrcheckin/internal/delivery/http/controllers"
	"qrcheckin/internal/delivery/http/middleware"
	"qrcheckin/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Registration *controllers.RegistrationController
	CheckIn      *controllers.CheckInController
	Talks        *controllers.TalkController
	Reports      *controllers.ReportController
	Auth         *controllers.AuthController
	Health       *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes, wrapped in request logging and CORS.
func NewRouter(c Controllers, verifier domain.TokenVerifier, allowedOrigins []string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	admin := middleware.RequireAuth(verifier)

	// Registration
	mux.HandleFunc("POST /attendees", c.Registration.Register)
	mux.HandleFunc("GET /attendees/{id}", c.Registration.GetAttendee)
	mux.HandleFunc("GET /attendees/{id}/qr.png", c.Registration.QRCode)
	mux.HandleFunc("GET /talks", c.Talks.List)

	// Check-in
	mux.HandleFunc("POST /checkin", c.CheckIn.CheckIn)
	mux.HandleFunc("POST /checkin/lookup", c.CheckIn.Lookup)
	mux.HandleFunc("POST /talks/{talkID}/checkin", c.CheckIn.CheckInTalk)

	// Auth
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Admin
	mux.HandleFunc("GET /admin/stats", admin(c.Reports.Stats))
	mux.HandleFunc("GET /admin/attendees", admin(c.Registration.ListAttendees))
	mux.HandleFunc("POST /admin/talks", admin(c.Talks.Create))
	mux.HandleFunc("PATCH /admin/talks/{talkID}", admin(c.Talks.Update))
	mux.HandleFunc("DELETE /admin/talks/{talkID}", admin(c.Talks.Delete))
	mux.HandleFunc("GET /admin/talks/{talkID}/attendances", admin(c.Talks.ListAttendances))
	mux.HandleFunc("POST /admin/talks/{talkID}/attendees/{attendeeID}/confirm", admin(c.CheckIn.ConfirmTalk))
	mux.HandleFunc("POST /admin/talks/import/sessionize/{sessionizeID}", admin(c.Talks.ImportSessionize))
	mux.HandleFunc("GET /admin/exports/registrations", admin(c.Reports.ExportRegistrations))
	mux.HandleFunc("GET /admin/exports/attendees", admin(c.Reports.ExportConfirmed))
	mux.HandleFunc("GET /admin/exports/report", admin(c.Reports.ExportReport))

	mux.HandleFunc("GET /healthz", c.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux))
}
