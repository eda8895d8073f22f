package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spigell/jobmatch/internal/assistant"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/matching"
)

var chatCmd = &cobra.Command{
	Use:   "chat MESSAGE...",
	Short: "Ask the assistant to refine the job search or answer a question",
	Long: `Ask the assistant to refine the job search or answer a question.

The current filter state is passed with the same flags "jobs list" takes.
A job filter reply is merged into it and printed back, so it can be fed to
the next call. With --show-jobs the merged filters are also run.`,
	Args: minimumArgs(1, "a message"),
	RunE: withApp(runChat),
}

func init() {
	rootCmd.AddCommand(chatCmd)

	addFilterFlags(chatCmd)
	chatCmd.Flags().Bool("show-jobs", false, "list postings for the merged filters after a job filter reply")
}

type chatOutput struct {
	Reply   assistant.Reply          `json:"reply"`
	Filters jobs.Filters             `json:"filters"`
	Jobs    []matching.ScoredPosting `json:"jobs,omitempty"`
}

func runChat(ctx context.Context, a *application, cmd *cobra.Command, args []string) error {
	reply, err := a.assistant.Chat(ctx, a.user, strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := chatOutput{
		Reply:   reply,
		Filters: assistant.MergeFilters(filtersFromFlags(cmd), reply),
	}

	showJobs, _ := cmd.Flags().GetBool("show-jobs")
	if showJobs && reply.Type == assistant.ReplyJobFilter {
		out.Jobs, err = a.jobs.ListJobsFor(ctx, a.user, out.Filters)
		if err != nil {
			return err
		}
	}

	return printJSON(out)
}
