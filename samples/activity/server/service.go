package main

import (
	"context"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"

	"github.com/weegigs/wee-indicator-go/connectors/wihttp"
	"github.com/weegigs/wee-indicator-go/sinks/ds"
	"github.com/weegigs/wee-indicator-go/sinks/jetstream"
	"github.com/weegigs/wee-indicator-go/support"
	"github.com/weegigs/wee-indicator-go/wi"
)

// RemoteSink is applied through a relay so network writes never block the
// gate's loop.
type RemoteSink interface {
	wi.Sink
}

type Application struct {
	Loop    *wi.Loop
	Gate    *wi.Gate
	Relay   *wi.Relay
	Handler http.Handler
	log     *zerolog.Logger
}

func NewApplication(loop *wi.Loop, gate *wi.Gate, relay *wi.Relay, handler http.Handler, log *zerolog.Logger) *Application {
	return &Application{Loop: loop, Gate: gate, Relay: relay, Handler: handler, log: log}
}

// Start runs the gate and relay loops. The returned func stops the gate
// loop first so every queued state reaches the relay before it drains.
func (a *Application) Start() func() {
	relayCtx, stopRelay := context.WithCancel(context.Background())
	loopCtx, stopLoop := context.WithCancel(context.Background())

	go func() {
		if err := a.Relay.Run(relayCtx); err != nil {
			a.log.Error().Err(err).Msg("relay failed")
		}
	}()
	go func() {
		if err := a.Loop.Run(loopCtx); err != nil {
			a.log.Error().Err(err).Msg("indicator loop failed")
		}
	}()

	return func() {
		stopLoop()
		<-a.Loop.Done()
		stopRelay()
		<-a.Relay.Done()
	}
}

func (a *Application) Serve(ctx context.Context, address string) error {
	stop := a.Start()
	defer stop()

	server := &http.Server{Addr: address, Handler: a.Handler}

	failed := make(chan error, 1)
	go func() {
		a.log.Info().Str("address", address).Msg("listening")
		failed <- server.ListenAndServe()
	}()

	select {
	case err := <-failed:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdown)
}

func Logger(cfg *support.Config) *zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()
	return &logger
}

func NewLoop(log *zerolog.Logger) *wi.Loop {
	return wi.NewLoop(wi.LoopLogger(log))
}

func NewRelay(sink RemoteSink, log *zerolog.Logger) *wi.Relay {
	return wi.Detach(sink, wi.LoopLogger(log))
}

func NewGate(loop *wi.Loop, relay *wi.Relay, log *zerolog.Logger) *wi.Gate {
	return wi.NewGate(
		loop,
		wi.WithSink(wi.Sinks(wi.LogSink(log), relay)),
		wi.GateLogger(log),
	)
}

func NewHandler(gate *wi.Gate, log *zerolog.Logger) http.Handler {
	return withLogging(wihttp.NewHandler(gate, wihttp.Logger(log)), gate, logrus.StandardLogger())
}

func StatusTable(cfg *support.Config) ds.StatusTableName {
	return ds.StatusTableName(cfg.TableName)
}

func StatusKey(cfg *support.Config) ds.StatusKey {
	return ds.StatusKey("indicator#" + cfg.Source)
}

func Connection(cfg *support.Config) (*nats.Conn, func(), error) {
	nc, err := nats.Connect(cfg.NatsURL, nats.Name("wee-indicator "+cfg.Source))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to connect to %s", cfg.NatsURL)
	}

	return nc, nc.Close, nil
}

func TransitionSink(cfg *support.Config, nc *nats.Conn) (*jetstream.TransitionSink, error) {
	return jetstream.NewTransitionSink(cfg.StreamName, cfg.Source, nc, jetstream.WithPrefix(cfg.SubjectPrefix))
}

func NewRemoteSink(status *ds.StatusSink, transitions *jetstream.TransitionSink) RemoteSink {
	return wi.Sinks(status, transitions)
}

func NoRemoteSink() RemoteSink {
	return wi.Sinks()
}

var application = wire.NewSet(
	Logger,
	NewLoop,
	NewRelay,
	NewGate,
	NewHandler,
	NewApplication,
)

var remote = wire.NewSet(
	StatusTable,
	StatusKey,
	Connection,
	TransitionSink,
	NewRemoteSink,
)

var Live = wire.NewSet(application, remote, ds.Live)

var Local = wire.NewSet(application, remote, ds.Local)

var Memory = wire.NewSet(application, NoRemoteSink)
