// Package dispatch decides whether a due reminder actually produces a
// notification and fans the payload out to push and realtime channels.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/hermod/internal/models"
	"github.com/starford/hermod/internal/push"
	"github.com/starford/hermod/internal/sse"
)

// DefaultCooldown is the minimum gap between two deliveries of the same
// reminder. The poller runs every minute; without this guard every tick
// would re-notify an unacknowledged reminder.
const DefaultCooldown = time.Hour

// Outcome classifies what happened to one due reminder during a tick.
type Outcome string

// Dispatch outcomes.
const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeDeduped   Outcome = "deduped"
	OutcomeFailed    Outcome = "failed"
)

// Report is the per-reminder result of a tick, returned to the caller
// for observability. TokenInvalid is the seam an external layer uses to
// clear stale device tokens; the dispatcher itself never mutates the
// registry.
type Report struct {
	ReminderID   string  `json:"reminder_id"`
	OwnerID      string  `json:"owner_id"`
	Outcome      Outcome `json:"outcome"`
	TokenInvalid bool    `json:"token_invalid,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// Broadcaster publishes realtime events for in-app banners.
type Broadcaster interface {
	Publish(event sse.Event)
}

// TokenSource resolves an owner's registered device token.
type TokenSource interface {
	Get(ownerID string) string
}

// Dispatcher composes and delivers notifications for due reminders.
// Transport failures are logged and recorded on the report, never
// propagated: due-ness is a property of the clock, not of delivery.
type Dispatcher struct {
	transport push.Transport
	broadcast Broadcaster
	tokens    TokenSource
	cooldown  time.Duration
	logger    *slog.Logger
}

// New creates a dispatcher. A non-positive cooldown falls back to
// DefaultCooldown.
func New(transport push.Transport, broadcast Broadcaster, tokens TokenSource, cooldown time.Duration, logger *slog.Logger) *Dispatcher {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		transport: transport,
		broadcast: broadcast,
		tokens:    tokens,
		cooldown:  cooldown,
		logger:    logger,
	}
}

// Cooldown returns the configured dedup window.
func (d *Dispatcher) Cooldown() time.Duration { return d.cooldown }

// Dispatch handles one due reminder at time now. The second return
// value reports whether a delivery was attempted: deduped reminders
// must not receive trigger bookkeeping.
func (d *Dispatcher) Dispatch(ctx context.Context, r *models.Reminder, now time.Time) (Report, bool) {
	rep := Report{ReminderID: r.ID, OwnerID: r.OwnerID}

	if r.LastTriggered != nil && now.Sub(*r.LastTriggered) < d.cooldown {
		rep.Outcome = OutcomeDeduped
		return rep, false
	}

	payload := composePayload(r)

	if d.broadcast != nil {
		d.broadcast.Publish(sse.Event{Type: "reminder.due", Data: payload})
	}

	rep.Outcome = OutcomeDelivered
	if d.transport != nil {
		token := d.tokens.Get(r.OwnerID)
		if token == "" {
			rep.Outcome = OutcomeFailed
			rep.Error = "no device token registered"
			d.logger.Warn("dispatch: no device token",
				slog.String("reminder_id", r.ID),
				slog.String("owner_id", r.OwnerID))
		} else if res := d.transport.Send(ctx, token, payload); !res.OK {
			rep.Outcome = OutcomeFailed
			rep.TokenInvalid = res.TokenInvalid
			if res.Err != nil {
				rep.Error = res.Err.Error()
			}
			d.logger.Warn("dispatch: push delivery failed",
				slog.String("reminder_id", r.ID),
				slog.String("owner_id", r.OwnerID),
				slog.Bool("token_invalid", res.TokenInvalid),
				slog.String("error", rep.Error))
		}
	}

	return rep, true
}

func composePayload(r *models.Reminder) push.Payload {
	return push.Payload{
		Title:           r.Title,
		Body:            r.Body,
		ReminderID:      r.ID,
		ContactName:     r.ContactName,
		ContactPhone:    r.ContactPhone,
		ContactEmail:    r.ContactEmail,
		ContactLocation: r.ContactLocation,
	}
}
