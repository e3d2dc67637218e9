package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/shht-tools/tradedesk/internal/apiclient"
)

const (
	cacheKey = "dashboard:stats"
	cacheTTL = 2 * time.Minute
)

// Service fetches and caches the dashboard payload. The cache is short
// lived; the warmup job refreshes it so the first hit after quiet hours
// is still fast.
type Service struct {
	api    *apiclient.Client
	cache  *redis.Client
	group  singleflight.Group
	logger *slog.Logger
}

func NewService(api *apiclient.Client, cache *redis.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, cache: cache, logger: logger}
}

// Stats returns the dashboard payload, served from cache when fresh.
func (s *Service) Stats(ctx context.Context) (Stats, apiclient.Envelope) {
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var stats Stats
			if json.Unmarshal(payload, &stats) == nil {
				return stats, apiclient.Envelope{Code: apiclient.CodeOK, Success: true}
			}
		} else if err != redis.Nil {
			s.logger.Warn("dashboard cache read", slog.Any("error", err))
		}
	}
	return s.Refresh(ctx)
}

// Refresh fetches the payload from upstream and rewrites the cache.
// Concurrent callers collapse into one upstream request.
func (s *Service) Refresh(ctx context.Context) (Stats, apiclient.Envelope) {
	type result struct {
		stats Stats
		env   apiclient.Envelope
	}
	v, _, _ := s.group.Do(cacheKey, func() (any, error) {
		env := s.api.Get(ctx, "/dashboard", nil)
		var stats Stats
		if env.OK() {
			if err := env.DecodeData(&stats); err != nil {
				s.logger.Error("decode dashboard", slog.Any("error", err))
			} else if s.cache != nil {
				if raw, err := json.Marshal(stats); err == nil {
					if err := s.cache.Set(ctx, cacheKey, raw, cacheTTL).Err(); err != nil {
						s.logger.Warn("dashboard cache write", slog.Any("error", err))
					}
				}
			}
		}
		return result{stats: stats, env: env}, nil
	})
	res := v.(result)
	return res.stats, res.env
}
