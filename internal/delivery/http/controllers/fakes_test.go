package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"qrcheckin/internal/delivery/http/helpers"
	"qrcheckin/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeRegistrationService struct {
	lastInput  domain.RegistrationInput
	lastParams domain.PaginationParams
	lastSize   int
	detail     *domain.AttendeeDetail
	attendees  []*domain.Attendee
	total      int
	png        []byte
	err        error
}

func (f *fakeRegistrationService) Register(_ context.Context, in domain.RegistrationInput) (*domain.AttendeeDetail, error) {
	f.lastInput = in
	return f.detail, f.err
}

func (f *fakeRegistrationService) GetAttendee(_ context.Context, id int64) (*domain.AttendeeDetail, error) {
	return f.detail, f.err
}

func (f *fakeRegistrationService) ListAttendees(_ context.Context, p domain.PaginationParams) ([]*domain.Attendee, int, error) {
	f.lastParams = p
	return f.attendees, f.total, f.err
}

func (f *fakeRegistrationService) QRCode(_ context.Context, id int64, size int) ([]byte, error) {
	f.lastSize = size
	return f.png, f.err
}

type fakeCheckInService struct {
	lastCode   string
	lastTalk   int64
	lastCalled string
	result     *domain.ScanResult
	manual     *domain.ManualConfirmation
	err        error
}

func (f *fakeCheckInService) CheckInGeneral(_ context.Context, code string) (*domain.ScanResult, error) {
	f.lastCalled, f.lastCode = "general", code
	return f.result, f.err
}

func (f *fakeCheckInService) Lookup(_ context.Context, code string) (*domain.ScanResult, error) {
	f.lastCalled, f.lastCode = "lookup", code
	return f.result, f.err
}

func (f *fakeCheckInService) CheckInTalk(_ context.Context, talkID int64, code string) (*domain.ScanResult, error) {
	f.lastCalled, f.lastTalk, f.lastCode = "talk", talkID, code
	return f.result, f.err
}

func (f *fakeCheckInService) ConfirmTalkByID(_ context.Context, talkID, attendeeID int64) (*domain.ManualConfirmation, error) {
	f.lastCalled, f.lastTalk = "manual", talkID
	return f.manual, f.err
}

type fakeTalkService struct {
	lastInput    domain.TalkInput
	lastID       int64
	lastImportID string
	talk         *domain.Talk
	talks        []*domain.Talk
	records      []*domain.AttendanceRecord
	err          error
}

func (f *fakeTalkService) Create(_ context.Context, in domain.TalkInput) (*domain.Talk, error) {
	f.lastInput = in
	return f.talk, f.err
}

func (f *fakeTalkService) Update(_ context.Context, id int64, in domain.TalkInput) (*domain.Talk, error) {
	f.lastID, f.lastInput = id, in
	return f.talk, f.err
}

func (f *fakeTalkService) Delete(_ context.Context, id int64) error {
	f.lastID = id
	return f.err
}

func (f *fakeTalkService) List(context.Context) ([]*domain.Talk, error) {
	return f.talks, f.err
}

func (f *fakeTalkService) ListAttendances(_ context.Context, talkID int64) (*domain.Talk, []*domain.AttendanceRecord, error) {
	f.lastID = talkID
	return f.talk, f.records, f.err
}

func (f *fakeTalkService) ImportFromSessionize(_ context.Context, id string) ([]*domain.Talk, error) {
	f.lastImportID = id
	return f.talks, f.err
}

func (f *fakeTalkService) SeedDefaults(context.Context) (int, error) {
	return 0, f.err
}

type fakeReportService struct {
	stats      *domain.Stats
	file       *domain.ExportFile
	lastTalkID *int64
	err        error
}

func (f *fakeReportService) Stats(context.Context) (*domain.Stats, error) {
	return f.stats, f.err
}

func (f *fakeReportService) ExportRegistrations(context.Context) (*domain.ExportFile, error) {
	return f.file, f.err
}

func (f *fakeReportService) ExportConfirmed(_ context.Context, talkID *int64) (*domain.ExportFile, error) {
	f.lastTalkID = talkID
	return f.file, f.err
}

func (f *fakeReportService) ExportReport(context.Context) (*domain.ExportFile, error) {
	return f.file, f.err
}

type fakeAuthService struct {
	token string
}

func (f *fakeAuthService) Login(_ context.Context, username, password string) (string, error) {
	if username != "admin" || password != "secret" {
		return "", domain.ErrInvalidCredentials
	}
	return f.token, nil
}

// serve routes a single request through a mux with the given pattern, so path values are populated.
func serve(pattern string, handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(method, target, reader))
	return rr
}

// decodeData decodes the envelope and unmarshals its data into dest.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	require.Nil(t, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var env helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	require.NotNil(t, env.Error)
	return env.Error.Code
}
