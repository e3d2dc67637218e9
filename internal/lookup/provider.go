// Package lookup is the shared provider for reference lists (categories,
// sub-categories, tags, counters, clients, role-filtered users) so screens
// stop threading these lists through handler layers by hand. Results come
// from the upstream API through the list-fetch contract and are cached in
// Redis; concurrent loads for the same key collapse into one request.
package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/listfetch"
)

// listLimit bounds lookup fetches; reference lists are small.
const listLimit = 1000

// Option is one selectable reference entry.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Provider loads and caches lookup lists.
type Provider struct {
	api    *apiclient.Client
	cache  *Cache
	group  singleflight.Group
	logger *slog.Logger
}

// NewProvider constructs a Provider.
func NewProvider(api *apiclient.Client, cache *Cache, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{api: api, cache: cache, logger: logger}
}

// Categories returns all product categories.
func (p *Provider) Categories(ctx context.Context) ([]Option, error) {
	return p.load(ctx, "/category", "categories", map[string]any{})
}

// SubCategories returns sub-categories, optionally filtered by category.
func (p *Provider) SubCategories(ctx context.Context, categoryID int64) ([]Option, error) {
	body := map[string]any{}
	name := "sub_categories"
	if categoryID > 0 {
		body["category"] = categoryID
		name = "sub_categories:" + strconv.FormatInt(categoryID, 10)
	}
	return p.load(ctx, "/sub_category", name, body)
}

// Tags returns all tags.
func (p *Provider) Tags(ctx context.Context) ([]Option, error) {
	return p.load(ctx, "/tags", "tags", map[string]any{})
}

// Counters returns all sales counters.
func (p *Provider) Counters(ctx context.Context) ([]Option, error) {
	return p.load(ctx, "/counter", "counters", map[string]any{})
}

// Clients returns the client list for filter dropdowns.
func (p *Provider) Clients(ctx context.Context) ([]Option, error) {
	return p.load(ctx, "/clients", "clients", map[string]any{})
}

// UsersByRole returns users holding the given role.
func (p *Provider) UsersByRole(ctx context.Context, role string) ([]Option, error) {
	return p.load(ctx, "/users", "users:"+role, map[string]any{"role": role})
}

// Invalidate bumps the cache version after a mutation to any lookup entity.
func (p *Provider) Invalidate(ctx context.Context) {
	if err := p.cache.Bump(ctx); err != nil {
		p.logger.Warn("lookup cache bump", slog.Any("error", err))
	}
}

func (p *Provider) load(ctx context.Context, path, name string, body map[string]any) ([]Option, error) {
	body["offset"] = 0
	body["limit"] = listLimit

	key, err := p.cache.BuildKey(ctx, "lookup", name)
	if err != nil {
		return nil, err
	}

	result, err, _ := p.group.Do(key, func() (interface{}, error) {
		var options []Option
		err := p.cache.FetchJSON(ctx, key, &options, func(ctx context.Context) (interface{}, error) {
			return p.fetch(ctx, path, body)
		})
		return options, err
	})
	if err != nil {
		return nil, err
	}
	options, _ := result.([]Option)
	return options, nil
}

func (p *Provider) fetch(ctx context.Context, path string, body map[string]any) ([]Option, error) {
	var unauthorized bool
	loader := listfetch.NewLoader(func(ctx context.Context, body any) apiclient.Envelope {
		return p.api.Post(ctx, path+"/retrieve", body)
	}, body, listfetch.Options{
		OnUnauthorized: func(apiclient.Envelope) { unauthorized = true },
	})
	defer loader.Close()

	state := loader.Refetch(ctx)
	if unauthorized {
		return nil, fmt.Errorf("lookup %s: unauthorized", path)
	}
	if state.IsError {
		return nil, fmt.Errorf("lookup %s: %s", path, state.ErrorMessage)
	}
	return listfetch.DecodeList[Option](state), nil
}
