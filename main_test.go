package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/relay"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubSender struct {
	calls atomic.Int32
	err   error
}

func (s *stubSender) Send(context.Context, contact.Submission) error {
	s.calls.Add(1)
	return s.err
}

type okMailer struct{}

func (okMailer) Deliver(context.Context, string, contact.Submission) error { return nil }

func newTestRouter(t *testing.T, sender contact.Sender) (*gin.Engine, *analytics.Store) {
	t.Helper()
	store, err := analytics.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), discard)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	adm, err := newAdmin(store, config.Admin{Username: "admin", Password: "s3cret"}, time.Hour, discard)
	if err != nil {
		t.Fatal(err)
	}

	p := content.Default()
	r := newRouter(routerDeps{
		site: &site{
			portfolio:     &p,
			sender:        sender,
			submitTimeout: time.Second,
			retention:     365 * 24 * time.Hour,
			logger:        discard,
		},
		relay: relay.NewHandler(okMailer{}, relay.WithRecorder(store), relay.WithLogger(discard)),
		admin: adm,
	})
	return r, store
}

func do(r http.Handler, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestSitePages(t *testing.T) {
	r, _ := newTestRouter(t, &stubSender{})

	tests := []struct {
		path string
		want string
	}{
		{"/", "Maria Sultan"},
		{"/contact-form", contact.SubmitLabel},
		{"/work-content", "AI Intern - NESCOM"},
		{"/education-content", "Fatima Jinnah Women University"},
		{"/privacy", "Privacy Policy"},
		{"/healthz", `"status":"ok"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := do(r, http.MethodGet, tt.path, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
		})
	}
}

func TestContactFormBehavior(t *testing.T) {
	r, _ := newTestRouter(t, &stubSender{})
	body := do(r, http.MethodGet, "/contact-form", nil).Body.String()

	for _, want := range []string{
		// Inputs and the submit button are locked while a send is in flight.
		`hx-disabled-elt="#contact-form input, #contact-form textarea, #contact-form button"`,
		`<span class="htmx-indicator">` + contact.SubmittingLabel + `</span>`,
		// Editing clears a finished status.
		`hx-get="/contact/reset" hx-trigger="input from:#contact-form delay:300ms"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("contact form missing %s", want)
		}
	}

	rr := do(r, http.MethodGet, "/contact/reset", nil)
	if rr.Code != http.StatusOK || rr.Body.Len() != 0 {
		t.Errorf("reset = %d %q, want empty 200", rr.Code, rr.Body.String())
	}
}

func TestProjectsCarousel(t *testing.T) {
	r, _ := newTestRouter(t, &stubSender{})

	first := do(r, http.MethodGet, "/projects?offset=0", nil).Body.String()
	if !strings.Contains(first, "Infectious Disease Prediction") {
		t.Error("first window missing first project")
	}
	if strings.Contains(first, "Real-time Sign Language Recognition") {
		t.Error("first window shows the third project")
	}
	if !strings.Contains(first, `offset=0" hx-target="#project-carousel" disabled`) {
		t.Error("previous arrow should be disabled at the start")
	}
	if strings.Contains(first, `offset=1" hx-target="#project-carousel" disabled`) {
		t.Error("next arrow should be enabled at the start")
	}

	last := do(r, http.MethodGet, "/projects?offset=99", nil).Body.String()
	if !strings.Contains(last, "Real-time Sign Language Recognition") {
		t.Error("clamped window missing last project")
	}
	if strings.Contains(last, "Infectious Disease Prediction") {
		t.Error("clamped window shows the first project")
	}
	if !strings.Contains(last, `offset=1" hx-target="#project-carousel" disabled`) {
		t.Error("next arrow should be disabled at the end")
	}
}

func TestContactSubmit(t *testing.T) {
	valid := url.Values{
		"name":    {"A"},
		"email":   {"a@b.com"},
		"subject": {"Hi"},
		"message": {"Hello"},
	}

	tests := []struct {
		name      string
		form      url.Values
		sendErr   error
		want      string
		wantCalls int32
	}{
		{name: "success", form: valid, want: "Message sent successfully! I&#39;ll get back to you soon.", wantCalls: 1},
		{name: "missing field", form: url.Values{"name": {"A"}, "email": {"a@b.com"}}, want: "missing fields"},
		{name: "bad email", form: url.Values{"name": {"A"}, "email": {"ab.com"}, "subject": {"Hi"}, "message": {"Hello"}}, want: "invalid email"},
		{name: "server error", form: valid, sendErr: &contact.ServerError{StatusCode: 429, Message: "quota exceeded"}, want: "quota exceeded", wantCalls: 1},
		{name: "transport error", form: valid, sendErr: &contact.TransportError{Err: errors.New("dial tcp: refused")}, want: "Failed to send message. Please try again or contact me directly.", wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &stubSender{err: tt.sendErr}
			r, _ := newTestRouter(t, sender)

			rr := do(r, http.MethodPost, "/contact", tt.form)

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tt.want) {
				t.Errorf("body = %q, want it to contain %q", rr.Body.String(), tt.want)
			}
			if n := sender.calls.Load(); n != tt.wantCalls {
				t.Errorf("sender calls = %d, want %d", n, tt.wantCalls)
			}
		})
	}
}

// TestContactSubmit_ThroughRelay posts the HTMX form to a site whose contact
// client talks to the relay mounted on the same router.
func TestContactSubmit_ThroughRelay(t *testing.T) {
	var endpoint string
	lazy := senderFunc(func(ctx context.Context, s contact.Submission) error {
		return contact.NewClient(endpoint).Send(ctx, s)
	})

	r, store := newTestRouter(t, lazy)
	srv := httptest.NewServer(r)
	defer srv.Close()
	endpoint = srv.URL + "/api/send-email"

	form := url.Values{"name": {"A"}, "email": {"a@b.com"}, "subject": {"Hi"}, "message": {"Hello"}}
	resp, err := http.PostForm(srv.URL+"/contact", form)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body bytes.Buffer
	body.ReadFrom(resp.Body)
	if !strings.Contains(body.String(), "Message sent successfully") {
		t.Errorf("body = %q, want success fragment", body.String())
	}

	n, err := store.CountDeliveries(context.Background(), analytics.OutcomeSent, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("sent deliveries = %d, want 1", n)
	}
}

type senderFunc func(ctx context.Context, s contact.Submission) error

func (f senderFunc) Send(ctx context.Context, s contact.Submission) error { return f(ctx, s) }

func TestAdminAuth(t *testing.T) {
	r, _ := newTestRouter(t, &stubSender{})

	rr := do(r, http.MethodGet, "/admin/dashboard", nil)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/admin/login" {
		t.Fatalf("unauthenticated dashboard = %d %q, want redirect to login", rr.Code, rr.Header().Get("Location"))
	}

	rr = do(r, http.MethodPost, "/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", rr.Code)
	}

	rr = do(r, http.MethodPost, "/admin/login", url.Values{"username": {"admin"}, "password": {"s3cret"}})
	if rr.Code != http.StatusFound {
		t.Fatalf("login status = %d, want 302", rr.Code)
	}
	var session *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == adminCookie {
			session = c
		}
	}
	if session == nil {
		t.Fatal("login did not set session cookie")
	}

	for _, path := range []string{"/admin/dashboard", "/admin/api/stats", "/admin/visitors", "/admin/export/stats"} {
		rr = do(r, http.MethodGet, path, nil, session)
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rr.Code)
		}
	}

	rr = do(r, http.MethodPost, "/admin/privacy/cleanup", nil, session)
	if rr.Code != http.StatusAccepted {
		t.Errorf("cleanup status = %d, want 202", rr.Code)
	}
}

func TestAdminLoginDisabledWithoutCredentials(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	store, err := analytics.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), discard)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	adm, err := newAdmin(store, config.Admin{}, time.Hour, discard)
	if err != nil {
		t.Fatal(err)
	}
	if adm.checkCredentials("", "") || adm.checkCredentials("admin", "admin123") {
		t.Error("login should be disabled without configured credentials")
	}
}

func TestTrackingSkipsUntrackedRequests(t *testing.T) {
	store, err := analytics.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), discard)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	p := content.Default()
	r := newRouter(routerDeps{
		site:    &site{portfolio: &p, sender: &stubSender{}, logger: discard},
		relay:   relay.NewHandler(okMailer{}),
		tracker: store,
	})

	do(r, http.MethodGet, "/", nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("DNT", "1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	do(r, http.MethodGet, "/healthz", nil)
	for i := 0; i < 5; i++ {
		do(r, http.MethodGet, "/contact/reset", nil)
	}

	// Tracking writes in the background.
	var stats *analytics.Stats
	for i := 0; i < 100; i++ {
		stats, err = store.Stats(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if stats.TotalVisitors > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	if stats, _ = store.Stats(context.Background()); stats.TotalVisitors != 1 {
		t.Errorf("TotalVisitors = %d, want 1", stats.TotalVisitors)
	}
}

func TestReportStatus(t *testing.T) {
	var buf bytes.Buffer
	if err := reportStatus(&buf, contact.Status{State: contact.Succeeded, Message: contact.SuccessMessage}); err != nil {
		t.Errorf("reportStatus(success) error: %v", err)
	}
	if !strings.Contains(buf.String(), contact.SuccessMessage) {
		t.Errorf("output = %q", buf.String())
	}

	err := reportStatus(&buf, contact.Status{State: contact.Failed, Message: "invalid email"})
	if err == nil || err.Error() != "invalid email" {
		t.Errorf("reportStatus(failed) = %v, want invalid email", err)
	}
}

func TestCLIParse(t *testing.T) {
	t.Run("serve is the default command", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}
		ctx, err := k.Parse([]string{})
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if ctx.Command() != "serve" {
			t.Errorf("command = %q, want serve", ctx.Command())
		}
	})

	t.Run("send flags", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}
		_, err = k.Parse([]string{"send", "--name=A", "--email=a@b.com", "--subject=Hi", "--message=Hello", "--timeout=5s"})
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if cli.Send.Name != "A" || cli.Send.Email != "a@b.com" || cli.Send.Timeout != 5*time.Second {
			t.Errorf("send flags = %+v", cli.Send)
		}
	})

	t.Run("config flag", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := k.Parse([]string{"--config=/etc/portfolio.yaml", "contact"}); err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if cli.Config != "/etc/portfolio.yaml" {
			t.Errorf("config = %q", cli.Config)
		}
	})
}
