package jetstream

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-indicator-go/wi"
)

type SinkOption func(*TransitionSink)

const DefaultPrefix = "indicator"

func WithPrefix(prefix string) SinkOption {
	return func(sink *TransitionSink) {
		sink.prefix = prefix
	}
}

// TransitionSink publishes every indicator state to a JetStream stream on
// the subject <prefix>.<source>. The revision is used as the message id so
// redelivered states are de-duplicated by the server.
type TransitionSink struct {
	name       string
	source     string
	prefix     string
	manager    nats.JetStreamManager
	stream     nats.JetStream
	marshaller Marshaller
}

func NewTransitionSink(name string, source string, connection *nats.Conn, options ...SinkOption) (*TransitionSink, error) {
	stream, err := connection.JetStream()
	if err != nil {
		return nil, errors.Wrap(err, "jetstream unavailable")
	}

	sink := &TransitionSink{
		name:    name,
		source:  source,
		manager: stream,
		stream:  stream,
	}

	for _, option := range options {
		option(sink)
	}

	if sink.prefix == "" {
		sink.prefix = DefaultPrefix
	}

	if sink.marshaller == nil {
		sink.marshaller = JSONMarshaller{}
	}

	if err := sink.ensureStream(); err != nil {
		return nil, err
	}

	return sink, nil
}

func (s *TransitionSink) TypeName() string {
	return "jetstream:transition-sink"
}

func (s *TransitionSink) Subject() string {
	return s.prefix + "." + s.source
}

func (s *TransitionSink) ensureStream() error {
	_, err := s.manager.StreamInfo(s.name)
	if err == nil {
		return nil
	}

	if err != nats.ErrStreamNotFound {
		return errors.Wrapf(err, "failed to look up stream %s", s.name)
	}

	_, err = s.manager.AddStream(&nats.StreamConfig{
		Name:        s.name,
		Description: "network indicator transitions for " + s.name,
		Subjects:    []string{s.prefix + ".>"},
	})

	return errors.Wrapf(err, "failed to create stream %s", s.name)
}

func (s *TransitionSink) Apply(ctx context.Context, state wi.State) error {
	bytes, err := s.marshaller.Marshal(state)
	if err != nil {
		return err
	}

	_, err = s.stream.Publish(s.Subject(), bytes, nats.Context(ctx), nats.MsgId(state.Revision.String()))
	return errors.Wrap(err, "failed to publish indicator state")
}

// Last returns the most recently published state for the sink's subject.
func (s *TransitionSink) Last(ctx context.Context) (wi.State, error) {
	msg, err := s.manager.GetLastMsg(s.name, s.Subject(), nats.Context(ctx))
	if err != nil {
		if err == nats.ErrMsgNotFound {
			return wi.InitialState(), nil
		}

		return wi.State{}, err
	}

	var state wi.State
	if err := s.marshaller.Unmarshal(msg.Data, &state); err != nil {
		return wi.State{}, err
	}

	return state, nil
}
