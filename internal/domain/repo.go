// Package domain contains the core data structures and domain logic for the application.
package domain

// Repository identifies a single repository returned by the listing endpoint.
type Repository struct {
	Name     string
	FullName string
	Fork     bool
}

// RepoCommits holds the commit count for a single repository.
// It is the core domain entity of this application.
type RepoCommits struct {
	Name        string `json:"name"`
	CommitCount int    `json:"commit_count"`
}

// Summary aggregates the per-repository counts of a report.
type Summary struct {
	Repositories  int     `json:"repositories"`
	TotalCommits  int     `json:"total_commits"`
	MeanCommits   float64 `json:"mean_commits"`
	MedianCommits float64 `json:"median_commits"`
	MaxCommits    int     `json:"max_commits"`
}

// Report is the full result for one user: per-repository commit counts
// sorted by repository name, plus aggregate figures.
type Report struct {
	User    string        `json:"user"`
	Repos   []RepoCommits `json:"repos"`
	Summary Summary       `json:"summary"`
}
