package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spigell/jobmatch/internal/apperr"
)

func printJSON(v any) error {
	return encodeJSON(os.Stdout, v)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeError prints the caller-facing error body. Internal details never
// reach it; they are logged by the command that failed.
func writeError(w io.Writer, err error) {
	_ = encodeJSON(w, apperr.Body(err))
}

// exactArgs is cobra.ExactArgs with a bad-input error naming the arguments.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return apperr.BadInput(fmt.Sprintf("expected %s", usage))
		}
		return nil
	}
}

func minimumArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return apperr.BadInput(fmt.Sprintf("expected %s", usage))
		}
		return nil
	}
}
