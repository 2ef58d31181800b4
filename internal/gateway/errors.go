package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"
)

// APIError is the typed error surfaced for any non-2xx GitHub API response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == http.StatusNotFound {
		return fmt.Sprintf("github api error 404: %s (check the username or repository)", e.Message)
	}
	return fmt.Sprintf("github api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError for a missing resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether err is an APIError caused by rate limiting
// or a forbidden request.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusTooManyRequests
}

// wrapAPIError converts go-github's error types into an APIError so callers
// can branch on the status code without importing the client library.
// Errors that are not API responses (network failures, context cancellation)
// pass through unchanged.
func wrapAPIError(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &APIError{
			StatusCode: statusCode(rateErr.Response, http.StatusForbidden),
			Message:    rateErr.Message,
		}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &APIError{
			StatusCode: statusCode(abuseErr.Response, http.StatusForbidden),
			Message:    abuseErr.Message,
		}
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		return &APIError{
			StatusCode: statusCode(errResp.Response, 0),
			Message:    errResp.Message,
		}
	}
	return err
}

func statusCode(resp *http.Response, fallback int) int {
	if resp == nil {
		return fallback
	}
	return resp.StatusCode
}
