package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"

	"theatre-forms/internal/app"
	"theatre-forms/internal/config"
	"theatre-forms/internal/logging"
	"theatre-forms/internal/models"
	"theatre-forms/internal/notify"
	"theatre-forms/internal/telemetry"
)

type outbox struct {
	mu   sync.Mutex
	sent []*notify.Message
	err  error
}

func (o *outbox) Send(ctx context.Context, msg *notify.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return o.err
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}

type TestApp struct {
	server      *httptest.Server
	recorder    *telemetry.TestSpanRecorder
	tp          *trace.TracerProvider
	application *app.Application
	outbox      *outbox
	settings    *config.Config
}

func testSettings(dataDir string) *config.Config {
	return &config.Config{
		ServiceName:     "theatre-forms-test",
		ServiceVersion:  "1.0.0",
		Port:            "0",
		GinMode:         gin.TestMode,
		ShutdownTimeout: time.Second,
		LogLevel:        "error",
		Storage: config.StorageConfig{
			Backend:         config.StorageFile,
			DataDir:         dataDir,
			ContactLog:      "contact_submissions.txt",
			BookingLog:      "booking_inquiries.txt",
			NewsletterLog:   "newsletter_log.txt",
			SubscribersFile: "newsletter_subscribers.txt",
		},
		Mail: config.MailConfig{
			TheatreName:     "The Grand Theatre",
			ContactInbox:    "info@thegrandtheatre.com",
			BoxOfficeEmail:  "boxoffice@thegrandtheatre.com",
			NewsletterEmail: "newsletter@thegrandtheatre.com",
		},
	}
}

func SpawnTestApp(t *testing.T) *TestApp {
	recorder := telemetry.NewTestSpanRecorder()
	tp := telemetry.InitTestTracing(recorder)
	settings := testSettings(filepath.Join(t.TempDir(), "data"))
	box := &outbox{}

	application, err := app.Build(&app.Config{
		Settings:       settings,
		Logger:         logging.NewDiscardLogger(),
		TracerProvider: tp,
		Notifier:       box,
	})
	require.NoError(t, err)

	ta := &TestApp{
		server:      httptest.NewServer(application.GetRouter()),
		recorder:    recorder,
		tp:          tp,
		application: application,
		outbox:      box,
		settings:    settings,
	}
	t.Cleanup(ta.Close)
	return ta
}

func (ta *TestApp) Close() {
	ta.server.Close()
	_ = ta.application.Shutdown(context.Background())
	_ = ta.tp.Shutdown(context.Background())
}

func (ta *TestApp) post(t *testing.T, path string, form url.Values) (int, models.Envelope) {
	resp, err := http.PostForm(ta.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var envelope models.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func (ta *TestApp) dataFile(name string) string {
	return ta.settings.Storage.Path(name)
}

func readFile(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func TestWrongMethodIsRejected(t *testing.T) {
	ta := SpawnTestApp(t)

	for _, path := range []string{"/api/contact", "/api/newsletter", "/api/booking", "/booking.php"} {
		resp, err := http.Get(ta.server.URL + path)
		require.NoError(t, err)

		var envelope models.Envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
		resp.Body.Close()

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, path)
		assert.False(t, envelope.Success)
		assert.Equal(t, "Method not allowed", envelope.Message)
	}
}

func TestContactValidationFailure(t *testing.T) {
	ta := SpawnTestApp(t)

	status, envelope := ta.post(t, "/api/contact", url.Values{
		"name":    {"Jo"},
		"email":   {"a@b"},
		"subject": {"General"},
		"message": {"short"},
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, envelope.Success)
	assert.Equal(t, []string{
		"Please provide a valid email address",
		"Message must be at least 10 characters long",
	}, envelope.Errors)
	assert.Empty(t, readFile(t, ta.dataFile("contact_submissions.txt")))
	assert.Equal(t, 0, ta.outbox.count())
}

func TestContactAccepted(t *testing.T) {
	ta := SpawnTestApp(t)

	status, envelope := ta.post(t, "/process_contact.php", url.Values{
		"name":    {"Jo March"},
		"email":   {"jo@example.com"},
		"subject": {"General"},
		"message": {"Is there a matinee\r\non Sunday?"},
	})

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Thank you for your message! We will get back to you within 24 hours.", envelope.Message)
	assert.Nil(t, envelope.Booking)

	lines := strings.Split(strings.TrimSuffix(readFile(t, ta.dataFile("contact_submissions.txt")), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], " | Jo March | jo@example.com | General | Is there a matinee on Sunday?"))
	assert.Equal(t, 1, ta.outbox.count())

	assert.NotEmpty(t, ta.recorder.GetSpansByName("contact.handler.submit"))
	assert.NotEmpty(t, ta.recorder.GetSpansByOperation("storage.append"))
	assert.NotEmpty(t, ta.recorder.GetSpansByOperation("notify.send"))
}

func TestContactSucceedsWhenMailFails(t *testing.T) {
	ta := SpawnTestApp(t)
	ta.outbox.err = assert.AnError

	status, envelope := ta.post(t, "/api/contact", url.Values{
		"name":    {"Jo March"},
		"email":   {"jo@example.com"},
		"subject": {"General"},
		"message": {"Is there a matinee on Sunday?"},
	})

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Thank you for your message! We will get back to you within 24 hours.", envelope.Message)
}

func TestBookingEchoesPricedSummary(t *testing.T) {
	ta := SpawnTestApp(t)

	status, envelope := ta.post(t, "/api/booking", url.Values{
		"name":    {"Ada Lovelace"},
		"email":   {"ada@example.com"},
		"phone":   {"555-123-4567"},
		"show":    {"Hamlet"},
		"date":    {"2026-11-02"},
		"section": {"Mezzanine"},
		"tickets": {"3"},
	})

	require.Equal(t, http.StatusOK, status)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Your booking inquiry has been received! We will contact you shortly.", envelope.Message)
	require.NotNil(t, envelope.Booking)
	assert.Equal(t, 95, envelope.Booking.PricePerTicket)
	assert.Equal(t, 285, envelope.Booking.TotalPrice)
	assert.Equal(t, 3, envelope.Booking.Tickets)
	assert.Equal(t, "Mezzanine", envelope.Booking.Section)
	assert.NotEmpty(t, envelope.Booking.Timestamp)

	line := readFile(t, ta.dataFile("booking_inquiries.txt"))
	assert.Contains(t, line, " | Hamlet | 2026-11-02 | Mezzanine | 3 tickets | $285.00\n")
}

func TestBookingValidationFailure(t *testing.T) {
	ta := SpawnTestApp(t)

	status, envelope := ta.post(t, "/api/booking", url.Values{
		"name":    {"Ada Lovelace"},
		"email":   {"ada@example.com"},
		"show":    {"Hamlet"},
		"date":    {"2026-11-02"},
		"section": {"balcony"},
		"tickets": {"11"},
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"Number of tickets must be between 1 and 10"}, envelope.Errors)
	assert.Nil(t, envelope.Booking)
	assert.Empty(t, readFile(t, ta.dataFile("booking_inquiries.txt")))
}

func TestNewsletterDuplicateConflict(t *testing.T) {
	ta := SpawnTestApp(t)

	status, envelope := ta.post(t, "/api/newsletter", url.Values{"email": {"Fan@Example.com"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Thank you for subscribing! Check your email for confirmation.", envelope.Message)

	status, envelope = ta.post(t, "/newsletter.php", url.Values{"email": {"fan@example.com"}})
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, envelope.Success)
	assert.Equal(t, "This email is already subscribed to our newsletter", envelope.Message)

	assert.Equal(t, "fan@example.com\n", readFile(t, ta.dataFile("newsletter_subscribers.txt")))
	assert.Equal(t, 1, strings.Count(readFile(t, ta.dataFile("newsletter_log.txt")), "Subscribed: "))
	assert.Equal(t, 1, ta.outbox.count())
}

func TestNewsletterAcceptsJSON(t *testing.T) {
	ta := SpawnTestApp(t)

	resp, err := http.Post(ta.server.URL+"/api/newsletter", "application/json",
		strings.NewReader(`{"email":"json@example.com"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "json@example.com\n", readFile(t, ta.dataFile("newsletter_subscribers.txt")))
}

func TestPersistenceFailureIsServerError(t *testing.T) {
	ta := SpawnTestApp(t)
	// Replace the contact log with a directory so the append fails.
	require.NoError(t, os.Mkdir(ta.dataFile("contact_submissions.txt"), 0o755))

	status, envelope := ta.post(t, "/api/contact", url.Values{
		"name":    {"Jo March"},
		"email":   {"jo@example.com"},
		"subject": {"General"},
		"message": {"Is there a matinee on Sunday?"},
	})

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, envelope.Success)
	assert.Equal(t, "We could not record your submission. Please try again later.", envelope.Message)
	assert.Equal(t, 0, ta.outbox.count())
}

func TestHealth(t *testing.T) {
	ta := SpawnTestApp(t)

	resp, err := http.Get(ta.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "theatre-forms-test", body["service"])
}

func TestBuildRejectsUnknownBackend(t *testing.T) {
	settings := testSettings(t.TempDir())
	settings.Storage.Backend = "tape"

	_, err := app.Build(&app.Config{Settings: settings, Logger: logging.NewDiscardLogger()})
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestBuildLoadsPricingFile(t *testing.T) {
	dir := t.TempDir()
	pricingFile := filepath.Join(dir, "pricing.yaml")
	require.NoError(t, os.WriteFile(pricingFile, []byte("fallback: stalls\nsections:\n  stalls:\n    min: 30\n    max: 50\n"), 0o644))

	recorder := telemetry.NewTestSpanRecorder()
	tp := telemetry.InitTestTracing(recorder)
	defer tp.Shutdown(context.Background())

	settings := testSettings(dir)
	settings.PricingFile = pricingFile
	application, err := app.Build(&app.Config{
		Settings:       settings,
		Logger:         logging.NewDiscardLogger(),
		TracerProvider: tp,
		Notifier:       &outbox{},
	})
	require.NoError(t, err)
	defer application.Shutdown(context.Background())

	server := httptest.NewServer(application.GetRouter())
	defer server.Close()

	resp, err := http.PostForm(server.URL+"/api/booking", url.Values{
		"name": {"Ada Lovelace"}, "email": {"ada@example.com"}, "show": {"Hamlet"},
		"date": {"2026-11-02"}, "section": {"orchestra"}, "tickets": {"2"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope models.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NotNil(t, envelope.Booking)
	assert.Equal(t, 50, envelope.Booking.PricePerTicket)
	assert.Equal(t, 100, envelope.Booking.TotalPrice)
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	ta := SpawnTestApp(t)

	req, err := http.NewRequest(http.MethodGet, ta.server.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "box-office-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "box-office-42", resp.Header.Get("X-Request-ID"))

	resp, err = http.Get(ta.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Len(t, resp.Header.Get("X-Request-ID"), 36)
}
