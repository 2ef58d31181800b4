package output

import (
	"fmt"
	"io"

	"github.com/hn-ohta/repo-commits/internal/domain"
)

// TextWriter outputs a human-readable text report, one line per repository.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *domain.Report) error {
	ew := &errWriter{w: w}

	for _, rc := range report.Repos {
		ew.printf("Repo: %s Number of commits: %d\n", rc.Name, rc.CommitCount)
	}

	if len(report.Repos) == 0 {
		ew.printf("No repositories found for %s.\n", report.User)
		return ew.err
	}

	s := report.Summary
	ew.printf("\n%d repositories, %d commits total (mean %.1f, median %.1f, max %d)\n",
		s.Repositories, s.TotalCommits, s.MeanCommits, s.MedianCommits, s.MaxCommits)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
