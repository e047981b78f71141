package events

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nfrund/learnova/internal/authflow"
)

// AuthEvent is the bus form of an authflow.Event.
type AuthEvent struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Intent   string `json:"intent,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Verified bool   `json:"verified,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Subscription is published when someone signs up for the newsletter.
type Subscription struct {
	Email string `json:"email"`
	New   bool   `json:"new"`
}

// EventLoggedOut is published on AuthTopic when a visitor signs out.
const EventLoggedOut = "auth.logged_out"

var (
	AuthTopic       = NewTopic[AuthEvent]("auth.events")
	NewsletterTopic = NewTopic[Subscription]("newsletter.subscribed")
)

// FromFlowEvent converts a flow event to its bus payload.
func FromFlowEvent(ev authflow.Event) AuthEvent {
	out := AuthEvent{Name: ev.Name, Email: ev.Email}
	if ev.Intent != authflow.IntentNone {
		out.Intent = ev.Intent.String()
	}
	if ev.User != nil {
		out.UserID = ev.User.ID
		out.Verified = ev.User.IsVerified
	}
	if ev.Err != nil {
		out.Error = ev.Err.Error()
	}
	return out
}

// FlowObserver returns an authflow observer that publishes every event for
// visitorID. Publish failures are logged, never returned to the flow.
func FlowObserver(p Publisher, visitorID string) func(context.Context, authflow.Event) {
	return func(ctx context.Context, ev authflow.Event) {
		if err := Publish(ctx, p, AuthTopic, visitorID, FromFlowEvent(ev)); err != nil {
			slog.Error("Failed to publish auth event", "event", ev.Name, "error", err)
		}
	}
}

// MaskEmail hides most of the local part of an address for logging.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		if email == "" {
			return ""
		}
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
