package events

import (
	"context"
	"fmt"
	"log/slog"
)

// StartAudit subscribes a logger to the auth and newsletter topics. Email
// addresses are masked before they reach the log.
func StartAudit(ctx context.Context, sub Subscriber, logger *slog.Logger) error {
	logger = logger.With("component", "audit")

	err := Subscribe(ctx, sub, AuthTopic, func(ctx context.Context, visitorID string, ev AuthEvent) error {
		attrs := []any{"event", ev.Name, "visitor_id", visitorID, "email", MaskEmail(ev.Email)}
		if ev.Intent != "" {
			attrs = append(attrs, "intent", ev.Intent)
		}
		if ev.UserID != "" {
			attrs = append(attrs, "user_id", ev.UserID)
		}
		if ev.Error != "" {
			logger.Warn("Auth event", append(attrs, "error", ev.Error)...)
			return nil
		}
		logger.Info("Auth event", attrs...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe audit to %s: %w", AuthTopic.Name(), err)
	}

	err = Subscribe(ctx, sub, NewsletterTopic, func(ctx context.Context, visitorID string, s Subscription) error {
		logger.Info("Newsletter subscription", "visitor_id", visitorID, "email", MaskEmail(s.Email), "new", s.New)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe audit to %s: %w", NewsletterTopic.Name(), err)
	}
	return nil
}
