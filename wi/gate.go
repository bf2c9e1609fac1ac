package wi

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "wee-indicator"

type GateOption func(*Gate)

func WithSink(sink Sink) GateOption {
	return func(gate *Gate) {
		gate.sink = sink
	}
}

func WithClock(clock Clock) GateOption {
	return func(gate *Gate) {
		gate.clock = clock
	}
}

func WithRevisionGenerator(generator *RevisionGenerator) GateOption {
	return func(gate *Gate) {
		gate.revisions = generator
	}
}

func GateLogger(log *zerolog.Logger) GateOption {
	return func(gate *Gate) {
		gate.log = log
	}
}

// Gate is a reference counted visibility flag. Every Show must be matched by
// a Hide before the indicator goes invisible; extra hides are absorbed at
// zero. The count lives on loop and is only read or written there.
type Gate struct {
	loop      *Loop
	sink      Sink
	clock     Clock
	revisions *RevisionGenerator
	log       *zerolog.Logger

	count int
}

func NewGate(loop *Loop, options ...GateOption) *Gate {
	gate := &Gate{loop: loop}

	for _, option := range options {
		option(gate)
	}

	if gate.clock == nil {
		gate.clock = defaultClock{}
	}

	if gate.revisions == nil {
		gate.revisions = NewRevisionGenerator()
	}

	if gate.log == nil {
		gate.log = &log.Logger
	}

	return gate
}

// Visible reports whether any show request is outstanding. Off the loop the
// caller blocks until the loop has serviced the read. Once the loop has
// stopped the final state is returned.
func (g *Gate) Visible(ctx context.Context) bool {
	if g.loop.OnLoop(ctx) {
		return g.count > 0
	}

	var visible bool
	err := g.loop.Do(ctx, func(context.Context) {
		visible = g.count > 0
	})
	if err != nil {
		<-g.loop.Done()
		return g.count > 0
	}

	return visible
}

// SetVisible increments the count for true and decrements it, floored at
// zero, for false. Off the loop the update is queued and SetVisible returns
// immediately.
func (g *Gate) SetVisible(ctx context.Context, visible bool) {
	if g.loop.OnLoop(ctx) {
		g.update(ctx, visible)
		return
	}

	err := g.loop.Post(func(ctx context.Context) {
		g.update(ctx, visible)
	})
	if err != nil {
		g.log.Warn().Err(err).Bool("requested", visible).Msg("indicator update dropped")
	}
}

func (g *Gate) Show(ctx context.Context) {
	g.SetVisible(ctx, true)
}

func (g *Gate) Hide(ctx context.Context) {
	g.SetVisible(ctx, false)
}

// Track shows the indicator and returns a func that hides it again. Calling
// the returned func more than once has no further effect. The hide is always
// queued, so the returned func is safe to call from any goroutine.
func (g *Gate) Track(ctx context.Context) func() {
	g.Show(ctx)

	var once sync.Once
	return func() {
		once.Do(func() {
			g.Hide(context.Background())
		})
	}
}

func (g *Gate) update(ctx context.Context, requested bool) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "indicator update")
	defer span.End()

	next := g.count - 1
	if requested {
		next = g.count + 1
	}
	if next < 0 {
		next = 0
	}
	g.count = next

	now := g.clock.Now()
	state := State{
		Revision:  g.revisions.NewRevision(now),
		Count:     g.count,
		Visible:   g.count > 0,
		Requested: requested,
		Timestamp: TimestampFromTime(now),
	}

	span.SetAttributes(
		attribute.Bool("indicator.requested", requested),
		attribute.Int("indicator.count", state.Count),
		attribute.Bool("indicator.visible", state.Visible),
	)

	if g.sink == nil {
		return
	}

	if err := g.sink.Apply(ctx, state); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sink failed")
		g.log.Error().
			Err(err).
			Str("sink", NameOf(g.sink)).
			Str("revision", state.Revision.String()).
			Msg("failed to apply indicator state")
	}
}
