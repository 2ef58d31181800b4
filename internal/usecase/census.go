// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"github.com/hn-ohta/repo-commits/internal/domain"
	"github.com/hn-ohta/repo-commits/internal/gateway"
	"github.com/montanaflynn/stats"
)

// Census is the use case for counting commits across a user's repositories.
// It orchestrates the listing and per-repository counting.
type Census struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewCensus creates a new Census instance.
func NewCensus(fetcher gateway.Fetcher, logger *log.Logger) *Census {
	return &Census{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Count performs the main business logic: list the user's repositories, count
// commits in each one sequentially, and assemble a report sorted by
// repository name. When skipForks is set, forked repositories are excluded.
// When fast is set, counts come from the GraphQL default-branch history
// instead of paging through the commits endpoint.
func (c *Census) Count(ctx context.Context, user string, skipForks, fast bool) (*domain.Report, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, errors.New("username must be a non-empty string")
	}

	c.logger.Printf("Usecase: Starting commit census for %s...\n", user)
	repos, err := c.fetcher.ListRepositories(ctx, user)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RepoCommits, 0, len(repos))
	for _, repo := range repos {
		if skipForks && repo.Fork {
			c.logger.Printf("Usecase: Skipping fork %s.\n", repo.FullName)
			continue
		}
		owner, name := splitFullName(repo, user)
		var count int
		if fast {
			count, err = c.fetcher.CountCommitsFast(ctx, owner, name)
		} else {
			count, err = c.fetcher.CountCommits(ctx, owner, name)
		}
		if err != nil {
			return nil, err
		}
		results = append(results, domain.RepoCommits{Name: repo.Name, CommitCount: count})
	}

	// Sort by repository name for consistent output.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	c.logger.Println("Usecase: Census complete.")
	return &domain.Report{
		User:    user,
		Repos:   results,
		Summary: summarize(results),
	}, nil
}

// splitFullName extracts owner and name from the listing's "owner/name".
// Falls back to the queried user when the full name is malformed.
func splitFullName(repo domain.Repository, user string) (string, string) {
	if owner, name, ok := strings.Cut(repo.FullName, "/"); ok && owner != "" && name != "" {
		return owner, name
	}
	return user, repo.Name
}

func summarize(repos []domain.RepoCommits) domain.Summary {
	s := domain.Summary{Repositories: len(repos)}
	if len(repos) == 0 {
		return s
	}
	counts := make([]float64, len(repos))
	for i, r := range repos {
		counts[i] = float64(r.CommitCount)
		s.TotalCommits += r.CommitCount
	}
	// The stats functions only fail on empty input, which is handled above.
	s.MeanCommits, _ = stats.Mean(counts)
	s.MedianCommits, _ = stats.Median(counts)
	max, _ := stats.Max(counts)
	s.MaxCommits = int(max)
	return s
}
