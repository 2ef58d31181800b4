// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hn-ohta/repo-commits/internal/config"
	"github.com/hn-ohta/repo-commits/internal/gateway"
	"github.com/hn-ohta/repo-commits/internal/output"
	"github.com/hn-ohta/repo-commits/internal/usecase"
	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Counts commits per repository for a GitHub user",
	Long: `Counts the commits in every repository of the specified GitHub user and
renders one line per repository, or JSON/table output with --format.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		// Get other flags.
		user, _ := cmd.Flags().GetString("user")
		repoType, _ := cmd.Flags().GetString("type")
		skipForks, _ := cmd.Flags().GetBool("skip-forks")
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")
		perPage, _ := cmd.Flags().GetInt("per-page")
		fast, _ := cmd.Flags().GetBool("fast")

		switch repoType {
		case "owner", "all", "member":
		default:
			fmt.Fprintf(os.Stderr, "Invalid --type %q. Use owner, all or member.\n", repoType)
			os.Exit(1)
		}
		if perPage < 1 || perPage > 100 {
			fmt.Fprintf(os.Stderr, "Invalid --per-page %d. Must be between 1 and 100.\n", perPage)
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(cfg, gateway.Options{RepoType: repoType, PerPage: perPage}, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		census := usecase.NewCensus(githubGateway, logger)

		report, err := census.Count(ctx, user, skipForks, fast)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to count commits: %v\n", err)
			os.Exit(1)
		}

		if err := output.WriteReport(report, format, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
	countCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	countCmd.MarkFlagRequired("user")
	countCmd.Flags().String("type", "owner", "Repository affiliation: owner, all or member")
	countCmd.Flags().Bool("skip-forks", false, "Exclude forked repositories from the report")
	countCmd.Flags().StringP("format", "f", "text", "Output format: text, json or table")
	countCmd.Flags().StringP("out", "o", "", "Write the report to a file instead of stdout")
	countCmd.Flags().Int("per-page", 100, "Page size for paginated API requests (1-100)")
	countCmd.Flags().Bool("fast", false, "Count via one GraphQL query per repository (default branch only)")
}
