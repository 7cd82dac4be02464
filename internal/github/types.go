package github

import (
	"github.com/stahnma/gh-stars/internal/format"
)

// NotAvailable is shown in place of a count when the lookup failed.
const NotAvailable = "N/A"

// RepoRef identifies a GitHub repository.
type RepoRef struct {
	Owner string
	Name  string
}

// FullName returns the "owner/name" form.
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// Status classifies the outcome of a star count lookup.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusRateLimited
	StatusHTTPError
	StatusNetworkError
	StatusParseError
	StatusInvalidReference
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusRateLimited:
		return "rate_limited"
	case StatusHTTPError:
		return "http_error"
	case StatusNetworkError:
		return "network_error"
	case StatusParseError:
		return "parse_error"
	case StatusInvalidReference:
		return "invalid_reference"
	}
	return "unknown"
}

// Failed reports whether the lookup produced no usable response at all.
// Non-200 responses are not failures: they count as zero stars.
func (s Status) Failed() bool {
	return s == StatusNetworkError || s == StatusParseError || s == StatusInvalidReference
}

// Result is the outcome of fetching one repository's star count.
type Result struct {
	Key        string
	Status     Status
	Stars      int
	StatusCode int
	Err        error
}

// Display maps the result to the text substituted into a page.
func (r Result) Display() string {
	if r.Status.Failed() {
		return NotAvailable
	}
	return format.Abbreviate(r.Stars)
}

// StarInfo holds a resolved repository for JSON output.
type StarInfo struct {
	Repository string `json:"repository"`
	Stars      string `json:"stars"`
	Cached     bool   `json:"cached"`
}
