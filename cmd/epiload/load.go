package main

import (
	"encoding/json"

	"github.com/arloliu/epiload/scenario"
	"github.com/arloliu/epiload/upload"
	"github.com/spf13/cobra"
)

// loadEvent is one collaborator call, written as a JSON line.
type loadEvent struct {
	Call            string                               `json:"call"`
	Current         string                               `json:"current,omitempty"`
	Data            *scenario.ScenarioData               `json:"data,omitempty"`
	AgeDistribution []scenario.AgeDistributionDatum      `json:"ageDistribution,omitempty"`
	Severity        []scenario.SeverityDistributionDatum `json:"severity,omitempty"`
}

func loadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Load a scenario and print the resulting state updates as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			var encErr error
			emit := func(ev loadEvent) {
				if encErr == nil {
					encErr = enc.Encode(ev)
				}
			}

			sink := upload.SinkFuncs{
				StateDataFunc: func(d upload.StateData) {
					emit(loadEvent{Call: "setStateData", Current: d.Current, Data: &d.Data, AgeDistribution: d.AgeDistribution})
				},
				SeverityFunc: func(s []scenario.SeverityDistributionDatum) {
					emit(loadEvent{Call: "setSeverity", Severity: s})
				},
				CloseFunc: func() {
					emit(loadEvent{Call: "close"})
				},
			}
			session := upload.NewSession(a.pipeline(sink), upload.WithMaxErrors(a.cfg.Upload.ErrorLimit()))

			accepted, rejected := a.partition(args[0])
			if err := session.Drop(cmd.Context(), accepted, rejected); err != nil {
				return err
			}
			if msgs := session.Errors(); len(msgs) > 0 {
				printFailure(cmd.ErrOrStderr(), args[0], rejected, msgs, session.Dropped())

				return errFailed
			}

			return encErr
		},
	}
}
