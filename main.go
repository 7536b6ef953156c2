package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/relay"
	"github.com/Zachkp/portfolio/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
)

// Globals are flags shared by every command.
type Globals struct {
	Config string `help:"Path to config.yaml." env:"CONFIG_PATH" default:"config.yaml"`
}

// CLI is the top-level command structure.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Serve   ServeCmd         `cmd:"" default:"1" help:"Run the portfolio web server."`
	Send    SendCmd          `cmd:"" help:"Send a contact message from the command line."`
	Contact ContactCmd       `cmd:"" help:"Open the interactive contact form."`
}

// ServeCmd runs the web server.
type ServeCmd struct{}

// SendCmd submits one contact message and prints the outcome.
type SendCmd struct {
	Name     string        `help:"Your name."`
	Email    string        `help:"Your email address."`
	Subject  string        `help:"Message subject."`
	Message  string        `help:"Message body."`
	Endpoint string        `help:"Relay URL (defaults to the configured endpoint)."`
	Timeout  time.Duration `help:"Request timeout (defaults to the configured timeout)."`
}

// ContactCmd opens the terminal contact form.
type ContactCmd struct {
	Endpoint string `help:"Relay URL (defaults to the configured endpoint)."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("portfolio"),
		kong.Description("Personal portfolio site and contact relay."),
		kong.Vars{"version": version + " " + commit},
	)
	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func setupLogging(w io.Writer) *slog.Logger {
	var h slog.Handler
	if gin.Mode() == gin.ReleaseMode {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// Run starts the server and blocks until SIGINT/SIGTERM.
func (s *ServeCmd) Run(g *Globals) error {
	logger := setupLogging(os.Stdout)

	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	portfolio, err := content.Load(cfg.Content.Path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := analytics.Open(ctx, cfg.Analytics.DBPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("visitor tracking enabled with hashed IP addresses", "db", cfg.Analytics.DBPath)

	quota, closeQuota, err := newQuota(ctx, cfg.Relay, store, logger)
	if err != nil {
		return err
	}
	defer closeQuota()

	adm, err := newAdmin(store, cfg.Admin, cfg.Analytics.Retention, logger)
	if err != nil {
		return err
	}
	go adm.runCleanup(ctx)

	r := newRouter(routerDeps{
		site: &site{
			portfolio:     portfolio,
			sender:        contact.NewClient(cfg.ContactEndpoint(), contact.WithTimeout(cfg.Contact.Timeout), contact.WithClientLogger(logger)),
			submitTimeout: cfg.Contact.Timeout,
			retention:     cfg.Analytics.Retention,
			logger:        logger,
		},
		relay: relay.NewHandler(relay.NewSMTPMailer(cfg.SMTP, logger),
			relay.WithQuota(quota),
			relay.WithRecorder(store),
			relay.WithLogger(logger),
		),
		admin:   adm,
		tracker: store,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("portfolio server listening", "addr", srv.Addr, "contact_endpoint", cfg.ContactEndpoint())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newQuota picks Redis when configured, otherwise counts deliveries in the
// analytics store. A zero quota disables limiting.
func newQuota(ctx context.Context, cfg config.Relay, store *analytics.Store, logger *slog.Logger) (relay.Quota, func(), error) {
	noop := func() {}
	if cfg.DailyQuota == 0 {
		return relay.Unlimited{}, noop, nil
	}
	if cfg.RedisURL == "" {
		return relay.NewStoreQuota(store, analytics.OutcomeSent, cfg.DailyQuota), noop, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, noop, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, noop, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("relay quota backed by redis", "daily_quota", cfg.DailyQuota)
	return relay.NewRedisQuota(rdb, cfg.DailyQuota), func() { rdb.Close() }, nil
}

// visitTracker supplies the page-view middleware.
type visitTracker interface {
	Tracking() gin.HandlerFunc
}

type routerDeps struct {
	site    *site
	relay   *relay.Handler
	admin   *admin
	tracker visitTracker
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(loadTemplates())

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	if d.tracker != nil {
		r.Use(d.tracker.Tracking())
	}

	d.site.register(r)
	d.relay.Register(r)
	if d.admin != nil {
		d.admin.register(r)
	}
	return r
}

// Run sends one message and reports the final status.
func (s *SendCmd) Run(g *Globals) error {
	setupLogging(os.Stderr)

	ctrl, err := newController(g.Config, s.Endpoint, s.Timeout)
	if err != nil {
		return err
	}
	ctrl.SetFields(contact.Submission{
		Name:    s.Name,
		Email:   s.Email,
		Subject: s.Subject,
		Message: s.Message,
	})

	release := ctrl.Subscribe(func(st contact.Status) {
		if st.State == contact.Submitting {
			fmt.Fprintln(os.Stdout, contact.SubmittingLabel)
		}
	})
	defer release()

	return reportStatus(os.Stdout, ctrl.Submit(context.Background()))
}

// reportStatus prints a terminal status and turns failure into an error.
func reportStatus(w io.Writer, st contact.Status) error {
	if st.State == contact.Succeeded {
		fmt.Fprintln(w, st.Message)
		return nil
	}
	return errors.New(st.Message)
}

// Run opens the terminal form.
func (c *ContactCmd) Run(g *Globals) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("contact: the interactive form needs a terminal; use `portfolio send` instead")
	}

	// Keep log output out of the alternate screen.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctrl, err := newController(g.Config, c.Endpoint, 0)
	if err != nil {
		return err
	}
	return tui.Run(ctrl, tea.WithAltScreen())
}

// newController builds a controller from config with optional overrides.
func newController(configPath, endpoint string, timeout time.Duration) (*contact.Controller, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if endpoint == "" {
		endpoint = cfg.ContactEndpoint()
	}
	if timeout <= 0 {
		timeout = cfg.Contact.Timeout
	}
	client := contact.NewClient(endpoint, contact.WithTimeout(timeout))
	return contact.NewController(client, contact.WithSubmitTimeout(timeout)), nil
}
