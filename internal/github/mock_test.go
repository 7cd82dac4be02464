package github

import (
	"context"
	"net/http"

	gh "github.com/google/go-github/v68/github"
)

// mockClient implements Client for testing.
type mockClient struct {
	getRepositoryFn func(ctx context.Context, owner, repo string) ([]byte, *gh.Response, error)
}

func (m *mockClient) GetRepository(ctx context.Context, owner, repo string) ([]byte, *gh.Response, error) {
	return m.getRepositoryFn(ctx, owner, repo)
}

// statusResponse returns a *gh.Response carrying the given status code.
func statusResponse(code int) *gh.Response {
	return &gh.Response{
		Response: &http.Response{StatusCode: code},
	}
}

// bodyClient returns a mockClient that answers every request with body and code.
func bodyClient(body string, code int) *mockClient {
	return &mockClient{
		getRepositoryFn: func(_ context.Context, _, _ string) ([]byte, *gh.Response, error) {
			return []byte(body), statusResponse(code), nil
		},
	}
}
