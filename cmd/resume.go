package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/resume"
)

// maxResumeSize bounds what upload reads from disk.
const maxResumeSize = 10 << 20

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage the stored resume",
}

var resumeUploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload a resume (pdf, docx, doc, rtf, odt, txt or md), replacing the stored one",
	Args:  exactArgs(1, "a resume file"),
	RunE:  withApp(runResumeUpload),
}

var resumeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored resume",
	Args:  exactArgs(0, "no arguments"),
	RunE:  withApp(runResumeShow),
}

var resumeDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the stored resume",
	Args:  exactArgs(0, "no arguments"),
	RunE:  withApp(runResumeDelete),
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(resumeUploadCmd, resumeShowCmd, resumeDeleteCmd)

	resumeUploadCmd.Flags().String("content-type", "", "media type of the file (detected from the extension when empty)")
}

func runResumeUpload(ctx context.Context, a *application, cmd *cobra.Command, args []string) error {
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return apperr.BadInput(fmt.Sprintf("cannot read %s", path))
	}
	if info.Size() > maxResumeSize {
		return apperr.BadInput("file is too large")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return apperr.BadInput(fmt.Sprintf("cannot read %s", path))
	}

	contentType, _ := cmd.Flags().GetString("content-type")

	r, err := a.resumes.Upload(ctx, a.user, filepath.Base(path), contentType, data)
	if err != nil {
		return err
	}

	return printJSON(struct {
		Success bool          `json:"success"`
		Data    resume.Parsed `json:"data"`
	}{Success: true, Data: r.Parsed})
}

func runResumeShow(ctx context.Context, a *application, _ *cobra.Command, _ []string) error {
	r, err := a.resumes.Get(ctx, a.user)
	if err != nil {
		return err
	}

	return printJSON(r)
}

func runResumeDelete(ctx context.Context, a *application, _ *cobra.Command, _ []string) error {
	if err := a.resumes.Delete(ctx, a.user); err != nil {
		return err
	}

	return printJSON(map[string]string{"message": "Resume deleted"})
}
