package main

import (
	"fmt"
	"io"

	"github.com/arloliu/epiload/upload"
	"github.com/spf13/cobra"
)

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that each file is a loadable scenario",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			session := upload.NewSession(a.pipeline(upload.SinkFuncs{}),
				upload.WithMaxErrors(a.cfg.Upload.ErrorLimit()),
			)

			failed := 0
			for _, path := range args {
				accepted, rejected := a.partition(path)
				if err := session.Drop(cmd.Context(), accepted, rejected); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				msgs := session.Errors()
				if len(msgs) == 0 {
					_, _ = fmt.Fprintf(out, "%s: OK\n", path)

					continue
				}
				failed++
				printFailure(out, path, rejected, msgs, session.Dropped())
			}

			if failed > 0 {
				return errFailed
			}

			return nil
		},
	}
}

func printFailure(w io.Writer, path string, rejected []upload.Rejection, msgs []string, dropped int) {
	_, _ = fmt.Fprintf(w, "%s: FAILED\n", path)
	for _, r := range rejected {
		for _, reason := range r.Reasons {
			_, _ = fmt.Fprintf(w, "  - %s (%s)\n", reason.Message, reason.Code)
		}
	}
	for _, m := range msgs {
		_, _ = fmt.Fprintf(w, "  - %s\n", m)
	}
	if dropped > 0 {
		_, _ = fmt.Fprintf(w, "  ... %d more\n", dropped)
	}
}
