package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lockaudit/internal/adapters/lockfile"
	"go.trai.ch/lockaudit/internal/adapters/report"
	"go.trai.ch/lockaudit/internal/app"
)

func (c *CLI) newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check every locked dependency for known vulnerabilities",
		Long: `Reads a Gemfile.lock (or a list of package URLs, one per line) and
reports known vulnerabilities for each dependency. Results are cached locally;
only uncached coordinates are sent to OSS Index, at most 128 per request.

Exit status is 0 when no vulnerabilities were found, 1 when at least one
dependency is vulnerable or the command failed, and 2 when a remote lookup
failed and the report is incomplete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := app.AuditOptions{}
			opts.File, _ = cmd.Flags().GetString("file")
			opts.Format, _ = cmd.Flags().GetString("format")
			opts.Output, _ = cmd.Flags().GetString("output")
			opts.Progress, _ = cmd.Flags().GetString("progress")
			opts.Workers, _ = cmd.Flags().GetInt("workers")
			opts.BatchSize, _ = cmd.Flags().GetInt("batch-size")
			opts.MetricsFile, _ = cmd.Flags().GetString("metrics-file")

			if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
				opts.Progress = "never"
			}

			return c.app.Audit(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringP("file", "f", lockfile.GemfileLockName, "Lockfile to audit, or - for stdin")
	cmd.Flags().String("format", report.FormatText, "Report format: text, json or cyclonedx")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolP("quiet", "q", false, "Hide progress output")
	cmd.Flags().String("progress", "auto", "Show progress: auto, always or never")
	cmd.Flags().Int("workers", 0, "Number of concurrent remote requests (default from config)")
	cmd.Flags().Int("batch-size", 0, "Coordinates per remote request, at most 128 (default from config)")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to a textfile")

	return cmd
}
