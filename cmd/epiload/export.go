package main

import (
	"errors"
	"fmt"

	"github.com/arloliu/epiload/filereader"
	"github.com/arloliu/epiload/scenario"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func exportCmd(a *app) *cobra.Command {
	var format string
	var output string

	c := &cobra.Command{
		Use:   "export FILE",
		Short: "Re-serialize a valid scenario as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := scenario.Format(format)
			if f != scenario.FormatJSON && f != scenario.FormatYAML {
				return fmt.Errorf("unsupported format %q, expected json or yaml", format)
			}

			path := args[0]
			text, err := a.reader().Read(cmd.Context(), filereader.OpenFS(a.fs, path))
			if err != nil {
				return err
			}

			bundle, err := scenario.Deserialize(text)
			if err != nil {
				var derr *scenario.DeserializationError
				if errors.As(err, &derr) {
					printFailure(cmd.ErrOrStderr(), path, nil, derr.Errors, 0)

					return errFailed
				}

				return err
			}

			data, err := scenario.SerializeAs(bundle, f)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)

				return err
			}
			if err := afero.WriteFile(a.fs, output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			a.logger.Info("scenario exported",
				zap.String("scenario", bundle.ScenarioName),
				zap.String("output", output),
			)

			return nil
		},
	}

	c.Flags().StringVarP(&format, "format", "f", string(scenario.FormatJSON), "output format: json or yaml")
	c.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return c
}
