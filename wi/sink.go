package wi

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
)

// Sink receives every state the gate writes. Sinks are applied on the
// gate's loop, so anything slow belongs behind Detach.
type Sink interface {
	Apply(ctx context.Context, state State) error
}

type SinkFunction func(ctx context.Context, state State) error

func (f SinkFunction) Apply(ctx context.Context, state State) error {
	return f(ctx, state)
}

// Sinks applies each sink in order. A failing sink does not stop the rest;
// the first failure is returned.
func Sinks(sinks ...Sink) Sink {
	return fanout(sinks)
}

type fanout []Sink

func (f fanout) TypeName() string {
	return "wi:sinks"
}

func (f fanout) Apply(ctx context.Context, state State) error {
	var first error
	for _, sink := range f {
		if err := apply(ctx, sink, state); err != nil && first == nil {
			first = errors.Wrapf(err, "sink %s failed", NameOf(sink))
		}
	}

	return first
}

func apply(ctx context.Context, sink Sink, state State) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "apply "+NameOf(sink))
	defer span.End()

	err := sink.Apply(ctx, state)
	if err != nil {
		span.RecordError(err)
	}

	return err
}

func LogSink(log *zerolog.Logger) Sink {
	return &logSink{log: log}
}

type logSink struct {
	log *zerolog.Logger
}

func (s *logSink) Apply(_ context.Context, state State) error {
	s.log.Debug().
		Str("revision", state.Revision.String()).
		Int("count", state.Count).
		Bool("visible", state.Visible).
		Bool("requested", state.Requested).
		Msg("network indicator")

	return nil
}
