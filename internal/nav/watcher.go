package nav

import (
	"context"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/shht-tools/tradedesk/internal/shared"
)

// TamperWatcher observes Redis key events for session records so that a
// session deleted or expired outside a normal logout (another instance,
// manual intervention, TTL) is noticed. The per-request guard in Gate does
// the actual enforcement; the watcher logs the removal and releases any
// per-session state registered through OnRemoved.
type TamperWatcher struct {
	client    *redis.Client
	logger    *slog.Logger
	onRemoved []func(sessionID string)
}

// NewTamperWatcher constructs the watcher.
func NewTamperWatcher(client *redis.Client, logger *slog.Logger) *TamperWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &TamperWatcher{client: client, logger: logger}
}

// OnRemoved registers a callback invoked with the session ID whenever a
// session record disappears outside a normal logout. Register before Run.
func (w *TamperWatcher) OnRemoved(fn func(sessionID string)) {
	w.onRemoved = append(w.onRemoved, fn)
}

// Run subscribes to deletion and expiry key events until the context ends.
// Requires notify-keyspace-events to include generic and expired classes.
func (w *TamperWatcher) Run(ctx context.Context) {
	if w == nil || w.client == nil {
		return
	}
	pubsub := w.client.PSubscribe(ctx, "__keyevent@*__:del", "__keyevent@*__:expired")
	defer func() { _ = pubsub.Close() }()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if !strings.HasPrefix(msg.Payload, shared.KeyPrefix) {
				continue
			}
			event := "deleted"
			if strings.HasSuffix(msg.Channel, ":expired") {
				event = "expired"
			}
			sessionID := strings.TrimPrefix(msg.Payload, shared.KeyPrefix)
			w.logger.Info("session record removed externally",
				slog.String("session", sessionID),
				slog.String("event", event))
			for _, fn := range w.onRemoved {
				fn(sessionID)
			}
		}
	}
}
