package cmd

import (
	"context"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/spigell/jobmatch/internal/tracker"
)

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"apps"},
	Short:   "Manage tracked applications",
}

var applicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications in the order they were created",
	Args:  exactArgs(0, "no arguments"),
	RunE:  withApp(runApplicationsList),
}

var applicationsUpdateCmd = &cobra.Command{
	Use:   "update APPLICATION_ID",
	Short: "Move an application to a new status",
	Args:  exactArgs(1, "an application id"),
	RunE:  withApp(runApplicationsUpdate),
}

var applicationsDeleteCmd = &cobra.Command{
	Use:   "delete APPLICATION_ID",
	Short: "Delete an application",
	Args:  exactArgs(1, "an application id"),
	RunE:  withApp(runApplicationsDelete),
}

func init() {
	rootCmd.AddCommand(applicationsCmd)
	applicationsCmd.AddCommand(applicationsListCmd, applicationsUpdateCmd, applicationsDeleteCmd)

	applicationsListCmd.Flags().String("status", "all", "only list applications with this status")
	applicationsUpdateCmd.Flags().String("status", "", "applied, interview, offer or rejected (prompted when empty)")
	applicationsUpdateCmd.Flags().String("note", "", "timeline note")
}

func runApplicationsList(ctx context.Context, a *application, cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetString("status")

	apps, err := a.ledger.List(ctx, a.user, status)
	if err != nil {
		return err
	}

	return printJSON(struct {
		Applications []tracker.Application `json:"applications"`
	}{Applications: apps})
}

func runApplicationsUpdate(ctx context.Context, a *application, cmd *cobra.Command, args []string) error {
	status, _ := cmd.Flags().GetString("status")
	note, _ := cmd.Flags().GetString("note")

	if status == "" {
		selected, err := selectStatus()
		if err != nil {
			return err
		}
		status = selected
	}

	entry, err := a.ledger.UpdateStatus(ctx, a.user, args[0], status, note)
	if err != nil {
		return err
	}

	return printJSON(entry)
}

func runApplicationsDelete(ctx context.Context, a *application, _ *cobra.Command, args []string) error {
	if err := a.ledger.Delete(ctx, a.user, args[0]); err != nil {
		return err
	}

	return printJSON(map[string]string{"message": "Application deleted"})
}

func selectStatus() (string, error) {
	items := make([]string, 0, len(tracker.Statuses))
	for _, st := range tracker.Statuses {
		items = append(items, string(st))
	}

	prompt := promptui.Select{
		Label:  "New status",
		Items:  items,
		Stdout: os.Stderr,
	}

	return choose(prompt)
}
