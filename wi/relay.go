package wi

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Relay applies a sink on its own loop so that blocking sinks do not hold
// up the gate. States reach the wrapped sink in the order they were applied
// to the relay.
type Relay struct {
	sink Sink
	loop *Loop
}

func Detach(sink Sink, options ...LoopOption) *Relay {
	return &Relay{
		sink: sink,
		loop: NewLoop(options...),
	}
}

func (r *Relay) TypeName() string {
	return "wi:relay(" + NameOf(r.sink) + ")"
}

func (r *Relay) Run(ctx context.Context) error {
	return r.loop.Run(ctx)
}

func (r *Relay) Done() <-chan struct{} {
	return r.loop.Done()
}

func (r *Relay) Apply(ctx context.Context, state State) error {
	origin := trace.SpanContextFromContext(ctx)

	return r.loop.Post(func(ctx context.Context) {
		ctx = trace.ContextWithRemoteSpanContext(ctx, origin)
		if err := apply(ctx, r.sink, state); err != nil {
			r.loop.log.Error().
				Err(err).
				Str("sink", NameOf(r.sink)).
				Str("revision", state.Revision.String()).
				Msg("relayed sink failed")
		}
	})
}
