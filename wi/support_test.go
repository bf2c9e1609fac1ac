package wi

import (
	"context"
	"sync"
	"testing"
)

func running(t *testing.T, options ...LoopOption) *Loop {
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(options...)
	go func() {
		_ = loop.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-loop.Done()
	})

	return loop
}

type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) Apply(_ context.Context, state State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states = append(r.states, state)
	return nil
}

func (r *recorder) States() []State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]State(nil), r.states...)
}

func (r *recorder) Last(context.Context) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.states) == 0 {
		return InitialState(), nil
	}

	return r.states[len(r.states)-1], nil
}
