package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hn-ohta/repo-commits/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	// Use NewEnterpriseClient to point the GraphQL client to our mock server's URL.
	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())
	logger := log.New(io.Discard, "", 0)

	gateway := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
		repoType:      "owner",
		perPage:       100,
	}

	return gateway, server
}

// nextLink builds a Link header pointing back at the mock server, the way
// the real API advertises the next page.
func nextLink(r *http.Request, page int) string {
	return fmt.Sprintf(`<http://%s%s?page=%d&per_page=100>; rel="next"`, r.Host, r.URL.Path, page)
}

func TestGitHubGateway_ListRepositories(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expectedRepos  []domain.Repository
		expectError    bool
		expectNotFound bool
	}{
		{
			name: "happy path - follows pagination to the last page",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.URL.Path, "/users/john/repos")
				assert.Equal(t, "owner", r.URL.Query().Get("type"))
				assert.Equal(t, "full_name", r.URL.Query().Get("sort"))
				if r.URL.Query().Get("page") == "" {
					w.Header().Set("Link", nextLink(r, 2))
					fmt.Fprint(w, `[{"name":"Square567","full_name":"john/Square567","fork":false},{"name":"Triangle567","full_name":"john/Triangle567","fork":true}]`)
					return
				}
				fmt.Fprint(w, `[{"name":"zeta","full_name":"john/zeta","fork":false}]`)
			},
			expectedRepos: []domain.Repository{
				{Name: "Square567", FullName: "john/Square567"},
				{Name: "Triangle567", FullName: "john/Triangle567", Fork: true},
				{Name: "zeta", FullName: "john/zeta"},
			},
		},
		{
			name: "error case - unknown user",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message": "Not Found"}`)
			},
			expectError:    true,
			expectNotFound: true,
		},
		{
			name: "error case - server failure",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
			},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()

			repos, err := gateway.ListRepositories(context.Background(), "john")

			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "failed to list repositories")
				assert.Equal(t, tc.expectNotFound, IsNotFound(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedRepos, repos)
			}
		})
	}
}

func TestGitHubGateway_CountCommits(t *testing.T) {
	testCases := []struct {
		name            string
		handlerFunc     func(w http.ResponseWriter, r *http.Request)
		expectedCount   int
		expectError     bool
		expectRateLimit bool
	}{
		{
			name: "happy path - sums commits across pages",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.URL.Path, "/repos/john/Triangle567/commits")
				if r.URL.Query().Get("page") == "" {
					w.Header().Set("Link", nextLink(r, 2))
					writeCommits(w, 100)
					return
				}
				writeCommits(w, 1)
			},
			expectedCount: 101,
		},
		{
			name: "edge case - empty repository counts zero",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				fmt.Fprint(w, `{"message": "Git Repository is empty."}`)
			},
			expectedCount: 0,
		},
		{
			name: "error case - rate limited",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-RateLimit-Limit", "60")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", "1700000000")
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
			},
			expectError:     true,
			expectRateLimit: true,
		},
		{
			name: "error case - repository not found",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message": "Not Found"}`)
			},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()

			count, err := gateway.CountCommits(context.Background(), "john", "Triangle567")

			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "failed to list commits")
				assert.Equal(t, tc.expectRateLimit, IsRateLimited(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedCount, count)
			}
		})
	}
}

func TestGitHubGateway_CountCommitsFast(t *testing.T) {
	testCases := []struct {
		name          string
		responseBody  string
		expectedCount int
		expectError   bool
	}{
		{
			name:          "happy path - returns the default branch history size",
			responseBody:  `{"data":{"repository":{"defaultBranchRef":{"target":{"history":{"totalCount":101}}}}}}`,
			expectedCount: 101,
		},
		{
			name:          "edge case - repository without a default branch",
			responseBody:  `{"data":{"repository":{"defaultBranchRef":null}}}`,
			expectedCount: 0,
		},
		{
			name:         "error case - GraphQL error",
			responseBody: `{"errors":[{"message":"Could not resolve to a Repository"}]}`,
			expectError:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "defaultBranchRef")
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			count, err := gateway.CountCommitsFast(context.Background(), "john", "Triangle567")

			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "failed to execute GraphQL query")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedCount, count)
			}
		})
	}
}

// writeCommits emits a JSON page with n commit objects.
func writeCommits(w http.ResponseWriter, n int) {
	page := make([]struct {
		SHA string `json:"sha"`
	}, n)
	for i := range page {
		page[i].SHA = fmt.Sprintf("sha-%d", i)
	}
	json.NewEncoder(w).Encode(page)
}
