package jobs_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/lookup"
	"github.com/shht-tools/tradedesk/jobs"
	_ "github.com/shht-tools/tradedesk/testing"
)

func warmupProvider(t *testing.T, upstream http.Handler) (*lookup.Provider, *map[string]int) {
	t.Helper()
	var mu sync.Mutex
	paths := map[string]int{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths[r.URL.Path]++
		mu.Unlock()
		upstream.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := lookup.NewCache(redisClient, time.Minute)
	client := apiclient.NewClient(server.URL, time.Second, nil, nil)
	return lookup.NewProvider(client, cache, nil), &paths
}

func optionsEnvelope(names ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows := make([]map[string]any, 0, len(names))
		for i, name := range names {
			rows = append(rows, map[string]any{"id": i + 1, "name": name})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code": 200, "success": true, "data": rows, "total": len(rows),
		})
	})
}

func TestLookupWarmupFillsEveryList(t *testing.T) {
	provider, paths := warmupProvider(t, optionsEnvelope("Hand Tools", "Power Tools"))
	job := jobs.NewLookupWarmupJob(provider, nil, nil)

	task, err := jobs.NewLookupWarmupTask(jobs.LookupWarmupPayload{WithSubCategories: true})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}

	for _, path := range []string{
		"/category/retrieve",
		"/sub_category/retrieve",
		"/tags/retrieve",
		"/counter/retrieve",
		"/clients/retrieve",
	} {
		if (*paths)[path] == 0 {
			t.Fatalf("expected %s to be warmed, saw %v", path, *paths)
		}
	}
	// Two categories means two sub-category lists.
	if got := (*paths)["/sub_category/retrieve"]; got != 2 {
		t.Fatalf("expected one sub-category fetch per category, got %d", got)
	}
}

func TestLookupWarmupFailsWhenCategoriesUnavailable(t *testing.T) {
	provider, _ := warmupProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 500, "message": "down"})
	}))
	job := jobs.NewLookupWarmupJob(provider, nil, nil)

	task, err := jobs.NewLookupWarmupTask(jobs.LookupWarmupPayload{})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err == nil {
		t.Fatalf("a failing category fetch must fail the run so asynq retries it")
	}
}

func TestLookupWarmupRejectsGarbagePayload(t *testing.T) {
	provider, _ := warmupProvider(t, optionsEnvelope())
	job := jobs.NewLookupWarmupJob(provider, nil, nil)

	task := asynq.NewTask(jobs.TaskLookupWarmup, []byte("{not json"))
	if err := job.Handle(context.Background(), task); err != asynq.SkipRetry {
		t.Fatalf("expected SkipRetry for a malformed payload, got %v", err)
	}
}
