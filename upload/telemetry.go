package upload

import (
	"context"
	"time"

	"github.com/arloliu/epiload"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Span names, before any namer installed with epiload.InitTracing.
var (
	spanProcess     = epiload.NameStage("upload", "process")
	spanRead        = epiload.NameStage("upload", "read")
	spanDeserialize = epiload.NameStage("upload", "deserialize")
)

// Span event names.
const eventDelivered = "scenario.delivered"

// Attribute keys.
const (
	attrAttemptID     = "upload.attempt_id"
	attrOutcome       = "upload.outcome"
	attrAccepted      = "upload.files.accepted"
	attrRejected      = "upload.files.rejected"
	attrFileName      = "upload.file.name"
	attrTextLength    = "upload.text.length"
	attrMessageCount  = "upload.messages"
	attrScenarioName  = "scenario.name"
	outcomeSuccess    = "success"
	outcomeUnexpected = "unrecognized"
)

// Metric names.
const (
	metricAttempts         = "epiload.upload.attempts"
	metricDuration         = "epiload.upload.duration"
	metricValidationErrors = "epiload.upload.validation_errors"
)

type instruments struct {
	attempts         metric.Int64Counter
	duration         metric.Float64Histogram
	validationErrors metric.Int64Counter
}

// newInstruments creates the pipeline instruments. Creation errors are
// reported via otel.Handle and replaced by no-op instruments.
func newInstruments(m metric.Meter) instruments {
	fallback := noop.Meter{}

	attempts, err := m.Int64Counter(metricAttempts,
		metric.WithDescription("Scenario upload attempts by outcome."),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		otel.Handle(err)
		attempts, _ = fallback.Int64Counter(metricAttempts)
	}

	duration, err := m.Float64Histogram(metricDuration,
		metric.WithDescription("Duration of scenario upload attempts."),
		metric.WithUnit("s"),
	)
	if err != nil {
		otel.Handle(err)
		duration, _ = fallback.Float64Histogram(metricDuration)
	}

	validationErrors, err := m.Int64Counter(metricValidationErrors,
		metric.WithDescription("Schema violations reported for uploaded scenarios."),
		metric.WithUnit("{violation}"),
	)
	if err != nil {
		otel.Handle(err)
		validationErrors, _ = fallback.Int64Counter(metricValidationErrors)
	}

	return instruments{
		attempts:         attempts,
		duration:         duration,
		validationErrors: validationErrors,
	}
}

// outcomeOf returns the metric outcome label for a run result.
func outcomeOf(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	if ue, ok := AsError(err); ok {
		return ue.Kind.String()
	}

	return outcomeUnexpected
}

func (in instruments) record(ctx context.Context, err error, elapsed time.Duration) {
	outcome := metric.WithAttributes(attribute.String(attrOutcome, outcomeOf(err)))
	in.attempts.Add(ctx, 1, outcome)
	in.duration.Record(ctx, elapsed.Seconds(), outcome)

	if ue, ok := AsError(err); ok && ue.Kind == KindValidation {
		in.validationErrors.Add(ctx, int64(len(ue.Details)))
	}
}

// emitFailure writes one OTel log record describing a failed run.
// The attempt ID is taken from the baggage set by Process.
func emitFailure(ctx context.Context, logger otellog.Logger, err error) {
	var rec otellog.Record
	rec.SetTimestamp(time.Now())
	rec.SetSeverity(otellog.SeverityWarn)
	rec.SetSeverityText("WARN")
	rec.SetBody(otellog.StringValue("scenario upload failed"))

	attrs := []otellog.KeyValue{
		otellog.String(attrAttemptID, epiload.GetBaggage(ctx, attrAttemptID)),
		otellog.String(attrOutcome, outcomeOf(err)),
		otellog.String("exception.message", err.Error()),
	}
	if ue, ok := AsError(err); ok {
		attrs = append(attrs, otellog.Int(attrMessageCount, len(ue.Messages())))
	}
	rec.AddAttributes(attrs...)

	logger.Emit(ctx, rec)
}
