// Package epiload loads epidemiological simulation scenarios from
// user-supplied files.
//
// # Overview
//
// The module is split into three stages plus this root package:
//   - [github.com/arloliu/epiload/filereader] reads one file handle into text
//   - [github.com/arloliu/epiload/scenario] parses and validates the text into a [scenario.Bundle]
//   - [github.com/arloliu/epiload/upload] orchestrates a drop: arity check, read,
//     deserialize, and hand-off to the caller's state sink
//
// The root package carries the ambient stack: configuration ([Config],
// loaded with fuda), logging ([NewLogger], zap) and OpenTelemetry
// providers and span helpers used by the pipeline.
//
// # Quick Start
//
//	cfg, err := epiload.LoadConfig("epiload.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger, _ := epiload.NewLogger(cfg.Log)
//
//	p := upload.NewPipeline(sink,
//	    upload.WithReader(filereader.New(filereader.WithMaxSize(cfg.Upload.FileSizeLimit()))),
//	    upload.WithLogger(logger),
//	)
//	session := upload.NewSession(p, upload.WithMaxErrors(cfg.Upload.ErrorLimit()))
//	if err := session.Drop(ctx, accepted, rejected); err != nil {
//	    // unrecognized failure, not a user-facing message
//	}
//	for _, msg := range session.Errors() {
//	    fmt.Println(msg)
//	}
//
// # Telemetry
//
// Telemetry is disabled unless Config.Telemetry.Enabled is set. When it is,
// [NewTracerProvider], [NewMeterProvider] and [NewLoggerProvider] install
// global providers; call [InitTracing] so [Start] produces real spans:
//
//	tp, err := epiload.NewTracerProvider(ctx, &cfg.Telemetry)
//	if err == nil {
//	    defer tp.Shutdown(ctx)
//	    epiload.InitTracing(tp.Tracer("epiload"), epiload.DefaultNamer{})
//	}
//
// Without a tracer, [Start] returns the span already in the context, so the
// helpers are safe to call unconditionally.
package epiload
