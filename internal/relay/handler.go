// Package relay is the email-sending endpoint the contact form posts to. It
// validates the submission with the same rules as the form, enforces a
// daily quota, strips markup from visitor input and forwards the message
// through a Mailer.
package relay

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/contact"
)

// Error texts returned in the "error" field.
const (
	ErrTextBadRequest    = "invalid request body"
	ErrTextQuotaExceeded = "quota exceeded"
	ErrTextDelivery      = "mail delivery failed"
)

// Recorder stores delivery outcomes.
type Recorder interface {
	RecordDelivery(ctx context.Context, outcome string) error
}

// Response is the relay's JSON reply.
type Response struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handler serves POST /api/send-email.
type Handler struct {
	mailer   Mailer
	quota    Quota
	recorder Recorder
	policy   *bluemonday.Policy
	logger   *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithQuota sets the daily quota. The default is Unlimited.
func WithQuota(q Quota) Option {
	return func(h *Handler) { h.quota = q }
}

// WithRecorder sets where delivery outcomes are recorded.
func WithRecorder(r Recorder) Option {
	return func(h *Handler) { h.recorder = r }
}

// WithLogger sets the handler's logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// NewHandler creates a relay handler delivering through mailer.
func NewHandler(mailer Mailer, opts ...Option) *Handler {
	h := &Handler{
		mailer: mailer,
		quota:  Unlimited{},
		policy: bluemonday.StrictPolicy(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the relay on r.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/api/send-email", h.ServeSend)
}

// ServeSend handles a relay request.
func (h *Handler) ServeSend(c *gin.Context) {
	ctx := c.Request.Context()

	var s contact.Submission
	if err := c.ShouldBindJSON(&s); err != nil {
		h.record(ctx, analytics.OutcomeRejected)
		c.JSON(http.StatusBadRequest, Response{Error: ErrTextBadRequest})
		return
	}

	s = h.sanitize(s)
	if err := s.Validate(); err != nil {
		h.record(ctx, analytics.OutcomeRejected)
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}

	allowed, err := h.quota.Allow(ctx)
	if err != nil {
		// Quota backend errors fail open.
		h.logger.Warn("quota check failed, allowing message", "error", err)
		allowed = true
	} else if allowed {
		if sq, ok := h.quota.(settler); ok {
			// Runs after the outcome is recorded.
			defer sq.Settle()
		}
	}
	if !allowed {
		h.record(ctx, analytics.OutcomeThrottled)
		c.JSON(http.StatusTooManyRequests, Response{Error: ErrTextQuotaExceeded})
		return
	}

	id := uuid.NewString()
	if err := h.mailer.Deliver(ctx, id, s); err != nil {
		h.logger.Error("contact delivery failed", "id", id, "error", err)
		h.record(ctx, analytics.OutcomeFailed)
		c.JSON(http.StatusBadGateway, Response{Error: ErrTextDelivery})
		return
	}

	h.record(ctx, analytics.OutcomeSent)
	c.JSON(http.StatusOK, Response{Success: true, ID: id})
}

// sanitize strips markup from every field. The strict policy escapes
// entities, which plain-text mail does not want, so they are unescaped
// again after the tags are gone.
func (h *Handler) sanitize(s contact.Submission) contact.Submission {
	clean := func(v string) string {
		return strings.TrimSpace(html.UnescapeString(h.policy.Sanitize(v)))
	}
	return contact.Submission{
		Name:    clean(s.Name),
		Email:   clean(s.Email),
		Subject: clean(s.Subject),
		Message: clean(s.Message),
	}
}

func (h *Handler) record(ctx context.Context, outcome string) {
	if h.recorder == nil {
		return
	}
	// Recorded even when the client has gone away.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := h.recorder.RecordDelivery(rctx, outcome); err != nil && !errors.Is(err, context.Canceled) {
		h.logger.Warn("failed to record delivery outcome", "outcome", outcome, "error", err)
	}
}
