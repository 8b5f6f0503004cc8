package epiload

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// buildPropagator creates the composite propagator named by OTEL_PROPAGATORS.
// Only tracecontext and baggage are built in; other names are reported via
// otel.Handle and skipped. "none" disables propagation.
func buildPropagator(cfg *TelemetryConfig) propagation.TextMapPropagator {
	var propagators []propagation.TextMapPropagator
	for _, name := range cfg.propagatorNames() {
		switch name {
		case "tracecontext":
			propagators = append(propagators, propagation.TraceContext{})
		case "baggage":
			propagators = append(propagators, propagation.Baggage{})
		case "none":
			return propagation.NewCompositeTextMapPropagator()
		default:
			otel.Handle(fmt.Errorf("epiload: unsupported propagator %q in OTEL_PROPAGATORS, ignoring", name))
		}
	}

	return propagation.NewCompositeTextMapPropagator(propagators...)
}
