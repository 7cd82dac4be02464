// Package stars resolves repository references to display-ready star counts.
//
// A Resolver owns no global state: the cache it fills is handed to it by the
// caller, normally once per build run, so every page rendered during that
// run shares the same lookups. Each normalized repository key is fetched at
// most once per cache, including when pages render concurrently.
package stars

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/stahnma/gh-stars/internal/cache"
	"github.com/stahnma/gh-stars/internal/github"
)

// errAbandoned marks a flight whose owning caller was cancelled. Its result
// is not cached and callers that are still live look the key up again.
var errAbandoned = errors.New("lookup abandoned")

// Resolver turns repository references into star count display strings.
type Resolver struct {
	client        github.Client
	cache         *cache.Cache
	delay         Delay
	logger        *log.Logger
	cacheFailures bool
	sf            singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDelay replaces the pause taken before each uncached fetch.
func WithDelay(d Delay) Option {
	return func(r *Resolver) { r.delay = d }
}

// WithLogger sets the logger diagnostics are written to.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithCacheFailures controls whether "N/A" results are cached. When false,
// a failed lookup is fetched again the next time its key is requested.
func WithCacheFailures(enabled bool) Option {
	return func(r *Resolver) { r.cacheFailures = enabled }
}

// NewResolver creates a Resolver that fetches through client and memoizes
// into c.
func NewResolver(client github.Client, c *cache.Cache, opts ...Option) *Resolver {
	r := &Resolver{
		client:        client,
		cache:         c,
		delay:         DefaultDelay,
		logger:        log.Default(),
		cacheFailures: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the display string for the repository named by raw, which
// may be "owner/repo" or a github.com URL. It never fails: lookups that go
// wrong yield "N/A" and a logged diagnostic.
func (r *Resolver) Resolve(ctx context.Context, raw string) string {
	return r.Lookup(ctx, raw).Stars
}

// Lookup is Resolve that also reports the normalized key and whether the
// answer came from the cache.
func (r *Resolver) Lookup(ctx context.Context, raw string) github.StarInfo {
	key := github.NormalizeRef(raw)
	if display, found := r.cache.Get(key); found {
		r.logger.Debugf("Cache hit for key: %s", key)
		return github.StarInfo{Repository: key, Stars: display, Cached: true}
	}
	r.logger.Debugf("Cache miss for key: %s", key)

	for {
		v, err, _ := r.sf.Do(key, func() (any, error) {
			// A flight for this key may have completed since the check above.
			if display, found := r.cache.Get(key); found {
				return display, nil
			}
			res := r.fetch(ctx, key)
			r.report(res)
			display := res.Display()
			if res.Status.Failed() && ctx.Err() != nil {
				return display, errAbandoned
			}
			if !res.Status.Failed() || r.cacheFailures {
				r.cache.Set(key, display)
			}
			return display, nil
		})
		if errors.Is(err, errAbandoned) && ctx.Err() == nil {
			r.logger.Debugf("Retrying abandoned lookup for key: %s", key)
			continue
		}
		return github.StarInfo{Repository: key, Stars: v.(string)}
	}
}

func (r *Resolver) fetch(ctx context.Context, key string) github.Result {
	if _, err := github.ParseRepoRef(key); err != nil {
		return github.Result{Key: key, Status: github.StatusInvalidReference, Err: err}
	}
	if err := r.delay.Wait(ctx); err != nil {
		return github.Result{Key: key, Status: github.StatusNetworkError, Err: err}
	}
	return github.FetchStars(ctx, r.client, key)
}

func (r *Resolver) report(res github.Result) {
	switch {
	case res.Status.Failed():
		r.logger.Warnf("Error fetching star count for %s: %s - %v", res.Key, res.Status, res.Err)
	case res.Status != github.StatusOK:
		r.logger.Warnf("GitHub API returned status: %d for %s (%s)", res.StatusCode, res.Key, res.Status)
	}
}
