package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/tracker"
)

const (
	PromptApplied        = "Yes, I applied"
	PromptAppliedEarlier = "Applied earlier"
	PromptBrowsing       = "No, just browsing"
)

var confirmPrompt = promptui.Select{
	Label:  "Did you apply?",
	Items:  []string{PromptApplied, PromptAppliedEarlier, PromptBrowsing},
	Stdout: os.Stderr,
}

var applyCmd = &cobra.Command{
	Use:   "apply JOB_ID",
	Short: "Record whether you applied to a posting",
	Args:  exactArgs(1, "a job id"),
	RunE:  withApp(runApply),
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().String("answer", "", "applied, applied_earlier or browsing (prompted when empty)")
}

func runApply(ctx context.Context, a *application, cmd *cobra.Command, args []string) error {
	posting, err := a.jobs.Job(ctx, args[0])
	if err != nil {
		return err
	}

	flag, _ := cmd.Flags().GetString("answer")
	answer := tracker.Status(strings.ToLower(strings.TrimSpace(flag)))
	if answer == "" {
		selected, err := choose(confirmPrompt)
		if err != nil {
			return err
		}
		answer = answerFor(selected)
	}

	entry, recorded, err := a.ledger.Confirm(ctx, a.user, tracker.Submission{
		JobID:    posting.ID,
		JobTitle: posting.Title,
		Company:  posting.Company,
	}, answer)
	if err != nil {
		return err
	}

	if !recorded {
		return printJSON(map[string]string{"message": "Nothing recorded"})
	}
	return printJSON(entry)
}

func answerFor(selected string) tracker.Status {
	switch selected {
	case PromptApplied:
		return tracker.StatusApplied
	case PromptAppliedEarlier:
		return tracker.StatusAppliedEarlier
	default:
		return tracker.StatusBrowsing
	}
}

// choose runs prompt; an interrupted prompt is a cancelled command, not a failure.
func choose(prompt promptui.Select) (string, error) {
	_, selected, err := prompt.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return "", apperr.BadInput("cancelled")
	}
	return selected, err
}
