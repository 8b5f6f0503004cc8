package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/arloliu/epiload"
	"github.com/arloliu/epiload/filereader"
	"github.com/arloliu/epiload/upload"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// errFailed marks a run whose failure has already been reported to the user.
var errFailed = errors.New("epiload: one or more files failed")

// app is the state shared by all subcommands.
type app struct {
	fs     afero.Fs
	opts   *cliOptions
	cfg    *epiload.Config
	logger *zap.Logger

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
	lp *sdklog.LoggerProvider
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, opts: newCLIOptions(), logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:           "epiload",
		Short:         "Validate, load and convert epidemic scenario files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close(cmd.Context())
		},
	}
	a.opts.bindFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		validateCmd(a),
		loadCmd(a),
		exportCmd(a),
		versionCmd(),
	)

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := a.opts.loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := epiload.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger

	return a.initTelemetry(cmd.Context())
}

// initTelemetry installs whichever providers the config enables.
func (a *app) initTelemetry(ctx context.Context) error {
	tcfg := &a.cfg.Telemetry
	if !tcfg.IsEnabled() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tp, err := epiload.NewTracerProvider(ctx, tcfg)
	switch {
	case err == nil:
		a.tp = tp
		epiload.InitTracing(tp.Tracer("epiload"), tcfg.Namer())
	case !errors.Is(err, epiload.ErrDisabled):
		return fmt.Errorf("failed to init tracing: %w", err)
	}

	mp, err := epiload.NewMeterProvider(ctx, tcfg)
	switch {
	case err == nil:
		a.mp = mp
	case !errors.Is(err, epiload.ErrMetricsDisabled):
		return fmt.Errorf("failed to init metrics: %w", err)
	}

	lp, err := epiload.NewLoggerProvider(ctx, tcfg)
	switch {
	case err == nil:
		a.lp = lp
	case !errors.Is(err, epiload.ErrLogsDisabled):
		return fmt.Errorf("failed to init log export: %w", err)
	}

	a.logger.Debug("telemetry enabled",
		zap.Bool("traces", a.tp != nil),
		zap.Bool("metrics", a.mp != nil),
		zap.Bool("logs", a.lp != nil),
	)

	return nil
}

func (a *app) close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_ = a.logger.Sync()

	return epiload.Shutdown(ctx, a.tp, a.mp, a.lp)
}

func (a *app) reader() *filereader.Reader {
	return filereader.New(filereader.WithMaxSize(a.cfg.Upload.FileSizeLimit()))
}

func (a *app) filter() *upload.Filter {
	return upload.NewFilter(a.cfg.Upload.ExtensionList(), a.cfg.Upload.FileSizeLimit())
}

func (a *app) pipeline(sink upload.Sink) *upload.Pipeline {
	return upload.NewPipeline(sink,
		upload.WithReader(a.reader()),
		upload.WithLogger(a.logger),
	)
}

// partition opens path on the app filesystem and runs it through the accept filter.
func (a *app) partition(path string) ([]filereader.File, []upload.Rejection) {
	return a.filter().Partition([]filereader.File{filereader.OpenFS(a.fs, path)})
}
