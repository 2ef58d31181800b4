// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/hn-ohta/repo-commits/internal/config"
	"github.com/hn-ohta/repo-commits/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	ListRepositories(ctx context.Context, user string) ([]domain.Repository, error)
	CountCommits(ctx context.Context, owner, name string) (int, error)
	// CountCommitsFast counts commits on the default branch with a single
	// GraphQL query instead of paging through the commits endpoint.
	CountCommitsFast(ctx context.Context, owner, name string) (int, error)
}

// Options control how the gateway queries the listing endpoints.
type Options struct {
	// RepoType is the affiliation filter for the repository listing
	// ("owner", "all" or "member").
	RepoType string
	// PerPage is the page size for paginated requests (1..100).
	PerPage int
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
	repoType      string
	perPage       int
}

// commitHistoryQuery counts commits reachable from the default branch head.
type commitHistoryQuery struct {
	Repository struct {
		DefaultBranchRef struct {
			Target struct {
				Commit struct {
					History struct {
						TotalCount int
					}
				} `graphql:"... on Commit"`
			}
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// When cfg carries no token the oauth2 layer is skipped and requests go out
// unauthenticated, which works for public data at a lower rate limit.
func NewGitHubGateway(cfg *config.Config, opts Options, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if cfg.Token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
		}
	}
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}

	restClient := github.NewClient(httpClient)
	baseURL, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API base URL: %w", err)
	}
	restClient.BaseURL = baseURL

	graphqlClient := githubv4.NewClient(httpClient)
	if cfg.GraphQLURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(cfg.GraphQLURL, httpClient)
	}

	repoType := opts.RepoType
	if repoType == "" {
		repoType = "owner"
	}
	perPage := opts.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
		repoType:      repoType,
		perPage:       perPage,
	}, nil
}

// ListRepositories fetches every repository of the given user, following
// pagination until the last page.
func (g *GitHubGateway) ListRepositories(ctx context.Context, user string) ([]domain.Repository, error) {
	g.logger.Printf("Fetching repositories for %s using REST API...\n", user)
	opts := &github.RepositoryListByUserOptions{
		Type:        g.repoType,
		Sort:        "full_name",
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	var repos []domain.Repository
	for {
		page, resp, err := g.restClient.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories for %s: %w", user, wrapAPIError(err))
		}
		for _, repo := range page {
			repos = append(repos, domain.Repository{
				Name:     repo.GetName(),
				FullName: repo.GetFullName(),
				Fork:     repo.GetFork(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of repositories...")
	}
	g.logger.Printf("Completed fetching repositories: %d found.\n", len(repos))
	return repos, nil
}

// CountCommits counts the commits of a repository by paging through the
// commits endpoint and summing page lengths, so the count never reflects a
// truncated listing. An empty repository (HTTP 409) counts as zero.
func (g *GitHubGateway) CountCommits(ctx context.Context, owner, name string) (int, error) {
	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	count := 0
	for {
		commits, resp, err := g.restClient.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			if isEmptyRepository(err) {
				g.logger.Printf("  %s/%s is empty, counting 0 commits.\n", owner, name)
				return 0, nil
			}
			return 0, fmt.Errorf("failed to list commits for %s/%s: %w", owner, name, wrapAPIError(err))
		}
		count += len(commits)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Printf("  Fetching next page of commits for %s/%s...\n", owner, name)
	}
	return count, nil
}

// CountCommitsFast asks GraphQL for the default branch's history size.
// A repository without a default branch (no commits yet) yields zero.
func (g *GitHubGateway) CountCommitsFast(ctx context.Context, owner, name string) (int, error) {
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	var q commitHistoryQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, fmt.Errorf("failed to execute GraphQL query for %s/%s: %w", owner, name, err)
	}
	return q.Repository.DefaultBranchRef.Target.Commit.History.TotalCount, nil
}

// isEmptyRepository reports whether err is the 409 the commits endpoint
// returns for a repository with no commits.
func isEmptyRepository(err error) bool {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) {
		return false
	}
	return errResp.Response != nil && errResp.Response.StatusCode == http.StatusConflict
}
