package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	gh "github.com/google/go-github/v68/github"
	"github.com/tidwall/gjson"
)

// ErrInvalidReference is returned for references that do not name an
// owner/repo pair.
var ErrInvalidReference = errors.New("invalid repository reference")

var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// NormalizeRef reduces a repository reference to its "owner/repo" cache key.
// References containing github.com are treated as URLs and reduced to the
// first two path segments after the host; anything else is taken as-is.
func NormalizeRef(raw string) string {
	ref := strings.TrimSpace(raw)
	idx := strings.LastIndex(ref, "github.com")
	if idx < 0 {
		return ref
	}

	rest := ref[idx+len("github.com"):]
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	var segments []string
	for _, s := range strings.Split(rest, "/") {
		if s == "" {
			continue
		}
		segments = append(segments, s)
		if len(segments) == 2 {
			break
		}
	}
	if len(segments) == 2 {
		segments[1] = strings.TrimSuffix(segments[1], ".git")
	}
	return strings.Join(segments, "/")
}

// ParseRepoRef splits a normalized key into owner and name.
func ParseRepoRef(key string) (RepoRef, error) {
	owner, name, ok := strings.Cut(key, "/")
	if !ok || !segmentPattern.MatchString(owner) || !segmentPattern.MatchString(name) {
		return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidReference, key)
	}
	return RepoRef{Owner: owner, Name: name}, nil
}

// FetchStars retrieves the star count for the repository identified by key
// and classifies the outcome. It never returns an error; failures are
// reported through Result.Status and Result.Err.
func FetchStars(ctx context.Context, client Client, key string) Result {
	res := Result{Key: key}
	ref, err := ParseRepoRef(key)
	if err != nil {
		res.Status, res.Err = StatusInvalidReference, err
		return res
	}
	res.Key = ref.FullName()

	body, resp, err := client.GetRepository(ctx, ref.Owner, ref.Name)
	if resp != nil && resp.Response != nil {
		res.StatusCode = resp.StatusCode
	}
	if err != nil {
		res.Status, res.Err = classifyError(err)
		if code := errorStatusCode(err); code != 0 {
			res.StatusCode = code
		}
		return res
	}
	if res.StatusCode != http.StatusOK {
		res.Status = StatusHTTPError
		return res
	}

	if !gjson.ValidBytes(body) {
		res.Status = StatusParseError
		res.Err = fmt.Errorf("decoding repository %s: invalid JSON", key)
		return res
	}
	// Missing or non-numeric counts coerce to zero.
	res.Stars = int(gjson.GetBytes(body, "stargazers_count").Int())
	res.Status = StatusOK
	return res
}

func classifyError(err error) (Status, error) {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	var respErr *gh.ErrorResponse
	var acceptedErr *gh.AcceptedError
	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return StatusRateLimited, err
	case errors.As(err, &respErr):
		if respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound {
			return StatusNotFound, err
		}
		if respErr.Response != nil && respErr.Response.StatusCode == http.StatusTooManyRequests {
			return StatusRateLimited, err
		}
		return StatusHTTPError, err
	case errors.As(err, &acceptedErr):
		return StatusHTTPError, err
	}
	return StatusNetworkError, err
}

func errorStatusCode(err error) int {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	var respErr *gh.ErrorResponse
	switch {
	case errors.As(err, &rateErr) && rateErr.Response != nil:
		return rateErr.Response.StatusCode
	case errors.As(err, &abuseErr) && abuseErr.Response != nil:
		return abuseErr.Response.StatusCode
	case errors.As(err, &respErr) && respErr.Response != nil:
		return respErr.Response.StatusCode
	}
	return 0
}
