package stars

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	gh "github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stahnma/gh-stars/internal/cache"
)

// fakeClient implements github.Client and counts requests.
type fakeClient struct {
	calls atomic.Int32
	fn    func(owner, repo string) ([]byte, *gh.Response, error)
}

func (f *fakeClient) GetRepository(_ context.Context, owner, repo string) ([]byte, *gh.Response, error) {
	f.calls.Add(1)
	return f.fn(owner, repo)
}

func starsClient(body string) *fakeClient {
	return &fakeClient{fn: func(_, _ string) ([]byte, *gh.Response, error) {
		return []byte(body), &gh.Response{Response: &http.Response{StatusCode: 200}}, nil
	}}
}

// countingDelay records how often a fetch was preceded by a pause.
type countingDelay struct {
	waits atomic.Int32
}

func (d *countingDelay) Wait(ctx context.Context) error {
	d.waits.Add(1)
	return ctx.Err()
}

func newTestResolver(client *fakeClient, opts ...Option) (*Resolver, *cache.Cache, *bytes.Buffer) {
	var buf bytes.Buffer
	c := cache.New()
	opts = append([]Option{WithDelay(NoDelay{}), WithLogger(log.New(&buf))}, opts...)
	return NewResolver(client, c, opts...), c, &buf
}

func TestResolve_Success(t *testing.T) {
	client := starsClient(`{"stargazers_count": 1500}`)
	r, c, _ := newTestResolver(client)

	got := r.Resolve(context.Background(), "acme/widget")
	assert.Equal(t, "1.5K", got)

	cached, found := c.Get("acme/widget")
	require.True(t, found, "display string should be cached")
	assert.Equal(t, "1.5K", cached)
}

func TestResolve_CacheHitSkipsNetworkAndDelay(t *testing.T) {
	client := starsClient(`{"stargazers_count": 1}`)
	delay := &countingDelay{}
	r, c, _ := newTestResolver(client, WithDelay(delay))
	c.Set("acme/widget", "42K")

	got := r.Resolve(context.Background(), "https://github.com/acme/widget")
	assert.Equal(t, "42K", got)
	assert.Zero(t, client.calls.Load(), "cached key must not hit the network")
	assert.Zero(t, delay.waits.Load(), "cached key must not wait")
}

func TestResolve_OneFetchPerKey(t *testing.T) {
	client := starsClient(`{"stargazers_count": 999}`)
	delay := &countingDelay{}
	r, _, _ := newTestResolver(client, WithDelay(delay))

	ctx := context.Background()
	assert.Equal(t, "999", r.Resolve(ctx, "acme/widget"))
	assert.Equal(t, "999", r.Resolve(ctx, "acme/widget"))
	assert.Equal(t, "999", r.Resolve(ctx, "https://github.com/acme/widget/tree/main"))

	assert.EqualValues(t, 1, client.calls.Load())
	assert.EqualValues(t, 1, delay.waits.Load())
}

func TestLookup_ReportsCacheState(t *testing.T) {
	client := starsClient(`{"stargazers_count": 2500000}`)
	r, _, _ := newTestResolver(client)

	first := r.Lookup(context.Background(), "github.com/acme/widget")
	assert.Equal(t, "acme/widget", first.Repository)
	assert.Equal(t, "2.5M", first.Stars)
	assert.False(t, first.Cached)

	second := r.Lookup(context.Background(), "acme/widget")
	assert.True(t, second.Cached)
	assert.Equal(t, "2.5M", second.Stars)
}

func TestResolve_NotFoundYieldsZero(t *testing.T) {
	client := &fakeClient{fn: func(_, _ string) ([]byte, *gh.Response, error) {
		resp := &http.Response{StatusCode: 404}
		return nil, &gh.Response{Response: resp}, &gh.ErrorResponse{Response: resp, Message: "Not Found"}
	}}
	r, _, logs := newTestResolver(client)

	assert.Equal(t, "0", r.Resolve(context.Background(), "acme/missing"))
	assert.Contains(t, logs.String(), "404")
	assert.Contains(t, logs.String(), "acme/missing")
}

func TestResolve_NetworkErrorYieldsNA(t *testing.T) {
	client := &fakeClient{fn: func(_, _ string) ([]byte, *gh.Response, error) {
		return nil, nil, errors.New("dial tcp: lookup api.github.com: no such host")
	}}
	r, c, logs := newTestResolver(client)

	assert.Equal(t, "N/A", r.Resolve(context.Background(), "acme/widget"))
	assert.Contains(t, logs.String(), "network_error")
	assert.Contains(t, logs.String(), "no such host")

	// Failures stay cached for the rest of the run.
	cached, found := c.Get("acme/widget")
	require.True(t, found)
	assert.Equal(t, "N/A", cached)
	assert.Equal(t, "N/A", r.Resolve(context.Background(), "acme/widget"))
	assert.EqualValues(t, 1, client.calls.Load())
}

func TestResolve_FailuresNotCachedWhenDisabled(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	client := &fakeClient{fn: func(_, _ string) ([]byte, *gh.Response, error) {
		if fail.Load() {
			return nil, nil, errors.New("connection reset")
		}
		return []byte(`{"stargazers_count": 12345}`), &gh.Response{Response: &http.Response{StatusCode: 200}}, nil
	}}
	r, _, _ := newTestResolver(client, WithCacheFailures(false))

	assert.Equal(t, "N/A", r.Resolve(context.Background(), "acme/widget"))
	fail.Store(false)
	assert.Equal(t, "12K", r.Resolve(context.Background(), "acme/widget"))
	assert.Equal(t, "12K", r.Resolve(context.Background(), "acme/widget"))
	assert.EqualValues(t, 2, client.calls.Load())
}

func TestResolve_InvalidReference(t *testing.T) {
	client := starsClient(`{}`)
	delay := &countingDelay{}
	r, _, logs := newTestResolver(client, WithDelay(delay))

	for _, ref := range []string{"", "widget", "acme/wid get"} {
		assert.Equal(t, "N/A", r.Resolve(context.Background(), ref), "ref %q", ref)
	}
	assert.Zero(t, client.calls.Load())
	assert.Zero(t, delay.waits.Load())
	assert.Contains(t, logs.String(), "invalid_reference")
}

func TestResolve_CancelledDuringDelay(t *testing.T) {
	client := starsClient(`{"stargazers_count": 5}`)
	r, _, _ := newTestResolver(client, WithDelay(RandomDelay{Min: time.Hour, Max: time.Hour}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, "N/A", r.Resolve(ctx, "acme/widget"))
	assert.Zero(t, client.calls.Load())
}

func TestResolve_CancelledLookupNotCached(t *testing.T) {
	client := starsClient(`{"stargazers_count": 5}`)
	r, c, _ := newTestResolver(client, WithDelay(&countingDelay{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, "N/A", r.Resolve(ctx, "acme/widget"))
	_, found := c.Get("acme/widget")
	assert.False(t, found)

	assert.Equal(t, "5", r.Resolve(context.Background(), "acme/widget"))
	assert.EqualValues(t, 1, client.calls.Load())
}

// ownerBlocksDelay blocks the first caller until its context ends and lets
// everyone after it through.
type ownerBlocksDelay struct {
	waits atomic.Int32
}

func (d *ownerBlocksDelay) Wait(ctx context.Context) error {
	if d.waits.Add(1) == 1 {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func TestResolve_WaiterSurvivesCancelledOwner(t *testing.T) {
	client := starsClient(`{"stargazers_count": 5}`)
	delay := &ownerBlocksDelay{}
	r, c, _ := newTestResolver(client, WithDelay(delay))

	ownerCtx, cancel := context.WithCancel(context.Background())
	var owner, waiter string
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		owner = r.Resolve(ownerCtx, "acme/widget")
	}()
	require.Eventually(t, func() bool { return delay.waits.Load() == 1 }, time.Second, time.Millisecond)

	wg.Add(1)
	go func() {
		defer wg.Done()
		waiter = r.Resolve(context.Background(), "acme/widget")
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	wg.Wait()

	assert.Equal(t, "N/A", owner)
	assert.Equal(t, "5", waiter)
	assert.EqualValues(t, 1, client.calls.Load())
	display, _ := c.Get("acme/widget")
	assert.Equal(t, "5", display)
}

func TestResolve_ConcurrentLookupsShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	client := &fakeClient{fn: func(_, _ string) ([]byte, *gh.Response, error) {
		<-release
		return []byte(`{"stargazers_count": 7}`), &gh.Response{Response: &http.Response{StatusCode: 200}}, nil
	}}
	r, _, _ := newTestResolver(client)

	var wg sync.WaitGroup
	results := make([]string, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Resolve(context.Background(), "acme/widget")
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, client.calls.Load())
	for _, got := range results {
		assert.Equal(t, "7", got)
	}
}
