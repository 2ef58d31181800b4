package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/caarlos0/tablewriter"

	"github.com/hn-ohta/repo-commits/internal/domain"
)

// TableWriter outputs the report as an aligned table.
type TableWriter struct{}

func (t *TableWriter) Write(w io.Writer, report *domain.Report) error {
	if len(report.Repos) == 0 {
		_, err := fmt.Fprintf(w, "No repositories found for %s.\n", report.User)
		return err
	}
	return tablewriter.Render(
		w,
		report.Repos,
		[]string{"Repo", "Commits"},
		func(rc domain.RepoCommits) ([]string, error) {
			return []string{rc.Name, strconv.Itoa(rc.CommitCount)}, nil
		},
	)
}
