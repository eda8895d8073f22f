package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/matching"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Search, rank and inspect job postings",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List postings matching the filters, ranked against the stored resume",
	Args:  exactArgs(0, "no arguments"),
	RunE:  withApp(runJobsList),
}

var jobsShowCmd = &cobra.Command{
	Use:   "show JOB_ID",
	Short: "Show a single posting",
	Args:  exactArgs(1, "a job id"),
	RunE:  withApp(runJobsShow),
}

var jobsBestCmd = &cobra.Command{
	Use:   "best",
	Short: "Show the best matches for the stored resume",
	Args:  exactArgs(0, "no arguments"),
	RunE:  withApp(runJobsBest),
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsListCmd, jobsShowCmd, jobsBestCmd)

	addFilterFlags(jobsListCmd)
	jobsListCmd.Flags().Int("page", 0, "result page, starting at 1")
}

func addFilterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("query", "", "free text search")
	flags.String("location", "", "location to search in")
	flags.String("job-type", "", "Full-time, Part-time, Contract or Internship")
	flags.String("work-mode", "", "Remote, Hybrid or On-site")
	flags.String("date-posted", "", "all, today, 3days, week or month")
	flags.Int("min-match-score", 0, "drop postings scored below this value")
}

func filtersFromFlags(cmd *cobra.Command) jobs.Filters {
	flags := cmd.Flags()

	var f jobs.Filters
	f.Query, _ = flags.GetString("query")
	f.Location, _ = flags.GetString("location")
	f.JobType, _ = flags.GetString("job-type")
	f.WorkMode, _ = flags.GetString("work-mode")
	f.DatePosted, _ = flags.GetString("date-posted")
	f.MinMatchScore, _ = flags.GetInt("min-match-score")
	if flags.Lookup("page") != nil {
		f.Page, _ = flags.GetInt("page")
	}
	return f
}

func runJobsList(ctx context.Context, a *application, cmd *cobra.Command, _ []string) error {
	listing, err := a.jobs.ListJobsFor(ctx, a.user, filtersFromFlags(cmd))
	if err != nil {
		return err
	}

	return printJSON(struct {
		Jobs  []matching.ScoredPosting `json:"jobs"`
		Total int                      `json:"total"`
	}{Jobs: listing, Total: len(listing)})
}

func runJobsShow(ctx context.Context, a *application, _ *cobra.Command, args []string) error {
	posting, err := a.jobs.Job(ctx, args[0])
	if err != nil {
		return err
	}

	return printJSON(posting)
}

func runJobsBest(ctx context.Context, a *application, _ *cobra.Command, _ []string) error {
	best, err := a.jobs.BestMatchesFor(ctx, a.user)
	if err != nil {
		return err
	}

	return printJSON(struct {
		BestMatches []matching.ScoredPosting `json:"bestMatches"`
	}{BestMatches: best})
}
