package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"qrcheckin/config"
	"qrcheckin/internal/adapters/auth"
	"qrcheckin/internal/adapters/email"
	"qrcheckin/internal/adapters/qr"
	"qrcheckin/internal/adapters/sessionize"
	"qrcheckin/internal/adapters/spreadsheet"
	"qrcheckin/internal/domain"
	"qrcheckin/internal/repository/postgres"
	"qrcheckin/internal/services"
)

const sessionizeTimeout = 15 * time.Second

// app holds the configuration, database handle and services shared by the subcommands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
	jwt    *auth.JWT

	registration domain.RegistrationService
	checkIn      domain.CheckInService
	talks        domain.TalkService
	reports      domain.ReportService
	auth         domain.AuthService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger(cfg)

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return nil, err
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretKey,
			InsecureSkipVerify: cfg.SESInsecureSkip,
		},
	}, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create mailer: %w", err)
	}

	jwt := auth.NewJWT(cfg.JWTSecret)
	authService, err := services.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, auth.NewBcryptHasher(auth.DefaultCost), jwt, cfg.JWTExpiry)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create auth service: %w", err)
	}
	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD is empty; administrator login is disabled")
	}

	tx := postgres.NewTransactor(db)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	fetcher := sessionize.NewHTTPFetcher(&http.Client{Timeout: sessionizeTimeout}, "")

	return &app{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		jwt:          jwt,
		registration: services.NewRegistrationService(tx, emailService, qr.NewRenderer(), logger, cfg.RequestTimeout),
		checkIn:      services.NewCheckInService(tx, cfg.RequestTimeout),
		talks:        services.NewTalkService(tx, fetcher, cfg.RequestTimeout+sessionizeTimeout),
		reports:      services.NewReportService(tx, spreadsheet.NewExcelWriter(), cfg.ExportDir, cfg.RequestTimeout),
		auth:         authService,
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
