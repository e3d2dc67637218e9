package nav_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/shht-tools/tradedesk/internal/nav"
	"github.com/shht-tools/tradedesk/internal/shared"
)

func TestWatcherReleasesExpiredSessionState(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	watcher := nav.NewTamperWatcher(client, nil)
	dropped := make(chan string, 8)
	watcher.OnRemoved(func(sessionID string) { dropped <- sessionID })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	// Republish until the subscription is live; the callback may fire more
	// than once, which drops are safe against.
	deadline := time.After(2 * time.Second)
	tick := time.NewTicker(25 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case sessionID := <-dropped:
			if sessionID != "sess-42" {
				t.Fatalf("expected session sess-42, got %q", sessionID)
			}
			return
		case <-deadline:
			t.Fatal("watcher never released the expired session")
		case <-tick.C:
			client.Publish(ctx, "__keyevent@0__:expired", shared.KeyPrefix+"sess-42")
		}
	}
}

func TestWatcherIgnoresForeignKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	watcher := nav.NewTamperWatcher(client, nil)
	dropped := make(chan string, 8)
	watcher.OnRemoved(func(sessionID string) { dropped <- sessionID })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	// Interleave foreign keys with one session key; only the session key
	// may reach the callback.
	deadline := time.After(2 * time.Second)
	tick := time.NewTicker(25 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case sessionID := <-dropped:
			if sessionID != "sess-7" {
				t.Fatalf("foreign key reached the callback: %q", sessionID)
			}
			return
		case <-deadline:
			t.Fatal("watcher never saw the session key")
		case <-tick.C:
			client.Publish(ctx, "__keyevent@0__:del", "tradedesk:lookup:categories")
			client.Publish(ctx, "__keyevent@0__:del", shared.KeyPrefix+"sess-7")
		}
	}
}
