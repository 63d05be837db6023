package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Notifier broadcasts messages to every registered channel of a type.
type Notifier struct {
	Registry *Registry
	Sender   Sender
	limiter  *rate.Limiter
	logger   *slog.Logger
}

func NewNotifier(registry *Registry, sender Sender, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		Registry: registry,
		Sender:   sender,
		// Discord allows 5 messages per 5s per channel; stay under it globally.
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		logger:  logger,
	}
}

// SetLimiter replaces the send rate limiter.
func (n *Notifier) SetLimiter(l *rate.Limiter) {
	n.limiter = l
}

// Broadcast sends msg to the channelType channel of every guild. A failed
// channel does not stop the others; all failures come back joined.
func (n *Notifier) Broadcast(ctx context.Context, channelType string, msg Message) error {
	channels := n.Registry.Channels(channelType)
	if len(channels) == 0 {
		n.logger.Warn("no channels registered", "type", channelType)
		return nil
	}

	var errs []error
	for _, id := range channels {
		if err := n.limiter.Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("channel %s: %w", id, err))
			break
		}
		if err := n.Sender.SendMessage(ctx, id, msg); err != nil {
			n.logger.Error("send failed", "channel", id, "title", msg.Title, "error", err)
			errs = append(errs, fmt.Errorf("channel %s: %w", id, err))
			continue
		}
		n.logger.Info("message sent", "channel", id, "title", msg.Title)
	}
	return errors.Join(errs...)
}
