package upload

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/arloliu/epiload"
	"github.com/arloliu/epiload/filereader"
	"github.com/arloliu/epiload/scenario"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// StateData is what the sink receives first on success.
type StateData struct {
	Current         string
	Data            scenario.ScenarioData
	AgeDistribution []scenario.AgeDistributionDatum
}

// Sink receives a successful result. The pipeline calls SetStateData,
// SetSeverity and Close in that order, once each.
type Sink interface {
	SetStateData(data StateData)
	SetSeverity(severity []scenario.SeverityDistributionDatum)
	Close()
}

// SinkFuncs adapts plain functions to Sink. Nil fields are skipped.
type SinkFuncs struct {
	StateDataFunc func(StateData)
	SeverityFunc  func([]scenario.SeverityDistributionDatum)
	CloseFunc     func()
}

func (s SinkFuncs) SetStateData(data StateData) {
	if s.StateDataFunc != nil {
		s.StateDataFunc(data)
	}
}

func (s SinkFuncs) SetSeverity(severity []scenario.SeverityDistributionDatum) {
	if s.SeverityFunc != nil {
		s.SeverityFunc(severity)
	}
}

func (s SinkFuncs) Close() {
	if s.CloseFunc != nil {
		s.CloseFunc()
	}
}

// Pipeline checks the arity of a drop, reads the single accepted file,
// deserializes it and hands the bundle to a Sink.
//
// Known failures are returned as *Error. Anything else the reader or
// deserializer returns is passed through unchanged.
type Pipeline struct {
	sink   Sink
	opts   options
	tracer trace.Tracer
	inst   instruments
	otlog  otellog.Logger

	mu    sync.Mutex
	state State
}

// NewPipeline creates a Pipeline delivering results to sink.
//
// Panics if sink is nil.
func NewPipeline(sink Sink, opts ...Option) *Pipeline {
	if sink == nil {
		panic("epiload/upload: sink must not be nil")
	}
	o := applyOptions(opts)

	return &Pipeline{
		sink:   sink,
		opts:   o,
		tracer: o.tracer(),
		inst:   newInstruments(o.meter()),
		otlog:  o.otelLogger(),
		state:  StateIdle,
	}
}

// State returns the current state. After a run it stays Success or Failed
// until the next call to Process resets it to Idle.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// begin resets a finished pipeline to Idle and moves it to Processing.
func (p *Pipeline) begin() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.IsTerminal() {
		p.transition(StateIdle)
	}
	p.transition(StateProcessing)
}

func (p *Pipeline) finish(s State) {
	p.mu.Lock()
	p.transition(s)
	p.mu.Unlock()
}

// transition must be called with p.mu held.
func (p *Pipeline) transition(to State) {
	p.opts.logger.Debug("pipeline state changed",
		zap.Stringer("from", p.state),
		zap.Stringer("to", to),
	)
	p.state = to
}

// Process runs one attempt for a drop of accepted and rejected files.
// It returns nil after the sink has received the bundle.
func (p *Pipeline) Process(ctx context.Context, accepted []filereader.File, rejected []Rejection) (err error) {
	p.begin()

	attemptID := uuid.NewString()
	if bctx, berr := epiload.SetBaggage(ctx, attrAttemptID, attemptID); berr == nil {
		ctx = bctx
	}

	ctx, span := p.startSpan(ctx, spanProcess,
		trace.WithAttributes(
			attribute.String(attrAttemptID, attemptID),
			attribute.Int(attrAccepted, len(accepted)),
			attribute.Int(attrRejected, len(rejected)),
		),
	)
	start := time.Now()
	logger := p.opts.logger.With(
		zap.String("attempt_id", attemptID),
		zap.String("trace_id", epiload.TraceID(ctx)),
	)

	defer func() {
		p.inst.record(ctx, err, time.Since(start))
		epiload.SetAttributes(ctx, attribute.String(attrOutcome, outcomeOf(err)))
		if err != nil {
			epiload.RecordError(ctx, err)
			emitFailure(ctx, p.otlog, err)
			p.finish(StateFailed)
		} else {
			epiload.SetSuccess(ctx)
			p.finish(StateSuccess)
		}
		span.End()
	}()

	file, err := single(accepted, rejected)
	if err != nil {
		logger.Debug("rejected drop", zap.Int("accepted", len(accepted)), zap.Int("rejected", len(rejected)))

		return err
	}

	text, err := p.read(ctx, file)
	if err != nil {
		return err
	}

	bundle, err := p.deserialize(ctx, text)
	if err != nil {
		return err
	}

	logger.Debug("scenario loaded",
		zap.String("file", file.Name()),
		zap.String("scenario", bundle.ScenarioName),
	)
	p.deliver(ctx, bundle)

	return nil
}

// single enforces the one-file rule. A drop with more than one file in total
// reports the total; otherwise anything but exactly one accepted file reports
// the accepted count, which is 0 for an empty drop.
func single(accepted []filereader.File, rejected []Rejection) (filereader.File, error) {
	if total := len(accepted) + len(rejected); total > 1 {
		return nil, TooManyFiles(total)
	}
	if len(accepted) != 1 {
		return nil, TooManyFiles(len(accepted))
	}

	return accepted[0], nil
}

// startSpan starts an internal span, through epiload.Start when a
// process-wide tracer is installed and no provider was given.
func (p *Pipeline) startSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if p.opts.useTracker() {
		return epiload.Start(ctx, name, opts...)
	}
	opts = append([]trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindInternal)}, opts...)

	return p.tracer.Start(ctx, name, opts...)
}

func (p *Pipeline) read(ctx context.Context, file filereader.File) (string, error) {
	ctx, span := p.startSpan(ctx, spanRead, trace.WithAttributes(attribute.String(attrFileName, file.Name())))
	defer span.End()

	text, err := p.opts.reader.Read(ctx, file)
	if err != nil {
		epiload.RecordError(ctx, err)

		var rerr *filereader.ReadError
		if errors.As(err, &rerr) {
			return "", ReadFailure(err)
		}

		return "", err
	}
	epiload.SetAttributes(ctx, attribute.Int(attrTextLength, len(text)))

	return text, nil
}

func (p *Pipeline) deserialize(ctx context.Context, text string) (*scenario.Bundle, error) {
	ctx, span := p.startSpan(ctx, spanDeserialize)
	defer span.End()

	bundle, err := p.opts.deserializer.Deserialize(text)
	if err != nil {
		epiload.RecordError(ctx, err)

		var derr *scenario.DeserializationError
		if errors.As(err, &derr) {
			epiload.SetAttributes(ctx, attribute.Int(attrMessageCount, len(derr.Errors)))

			return nil, ValidationFailure(err, derr.Errors)
		}

		return nil, err
	}
	if bundle == nil {
		return nil, UnknownFailure()
	}
	epiload.SetAttributes(ctx, attribute.String(attrScenarioName, bundle.ScenarioName))

	return bundle, nil
}

// deliver hands a private copy of b to the sink: state first, then severity,
// then close.
func (p *Pipeline) deliver(ctx context.Context, b *scenario.Bundle) {
	out := b.Clone()
	p.sink.SetStateData(StateData{
		Current:         out.ScenarioName,
		Data:            out.Scenario,
		AgeDistribution: out.AgeDistribution,
	})
	p.sink.SetSeverity(out.Severity)
	p.sink.Close()
	epiload.AddEvent(ctx, eventDelivered,
		attribute.Int("scenario.age_groups", len(out.AgeDistribution)),
		attribute.Int("scenario.mitigations", len(out.Scenario.Mitigation.MitigationIntervals)),
	)
}
