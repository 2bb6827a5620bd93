package notify

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/domain"
)

// Notifier delivers a reorder request to a vendor-facing channel. Send is
// attempted once; callers decide what to do with a failure.
type Notifier interface {
	Channel() string
	Send(ctx context.Context, req domain.ReorderRequest) error
}

// New builds the notifier selected by cfg.Channel.
func New(cfg config.NotifyConfig) (Notifier, error) {
	switch cfg.Channel {
	case "", ChannelEmail:
		n, err := NewEmailNotifier(cfg)
		if err != nil {
			return nil, fmt.Errorf("email channel: %w", err)
		}
		return n, nil
	case ChannelKafka:
		n, err := NewKafkaNotifier(cfg)
		if err != nil {
			return nil, fmt.Errorf("kafka channel: %w", err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown notify channel %q", cfg.Channel)
	}
}
