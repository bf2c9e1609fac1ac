package wi

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LoopOption func(*Loop)

func LoopLogger(log *zerolog.Logger) LoopOption {
	return func(loop *Loop) {
		loop.log = log
	}
}

// Loop is a single goroutine that runs posted closures one at a time in the
// order they were posted. State confined to a loop needs no locking as long
// as it is only touched from closures the loop runs.
//
// The queue is unbounded so Post never blocks the caller.
type Loop struct {
	log *zerolog.Logger

	mu      sync.Mutex
	queue   []func(ctx context.Context)
	running bool
	stopped bool

	wake chan struct{}
	done chan struct{}
}

func NewLoop(options ...LoopOption) *Loop {
	loop := &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	for _, option := range options {
		option(loop)
	}

	if loop.log == nil {
		loop.log = &log.Logger
	}

	return loop
}

type loopKey struct{}

// OnLoop reports whether ctx is the context handed to a closure running on
// this loop. Such contexts must not escape the closure they were given to.
func (l *Loop) OnLoop(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	owner, ok := ctx.Value(loopKey{}).(*Loop)
	return ok && owner == l
}

// Post schedules fn to run on the loop and returns without waiting for it.
func (l *Loop) Post(fn func(ctx context.Context)) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrLoopStopped
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}

	return nil
}

// Do runs fn on the loop and waits for it to complete. When ctx is already
// the loop's context fn runs inline. ctx is not used to abandon the wait:
// once posted, fn always runs and Do always waits for it.
func (l *Loop) Do(ctx context.Context, fn func(ctx context.Context)) error {
	if l.OnLoop(ctx) {
		fn(ctx)
		return nil
	}

	complete := make(chan struct{})
	err := l.Post(func(ctx context.Context) {
		defer close(complete)
		fn(ctx)
	})
	if err != nil {
		return err
	}

	<-complete
	return nil
}

// Run drives the loop until ctx is done. Closures posted before the loop
// stopped accepting work are drained before Run returns. Closures see the
// values of ctx but never its cancellation.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrLoopStopped
	}
	if l.running {
		l.mu.Unlock()
		return ErrLoopRunning
	}
	l.running = true
	l.mu.Unlock()

	defer close(l.done)

	scoped := context.WithValue(detached{parent: ctx}, loopKey{}, l)
	for {
		l.drain(scoped)

		select {
		case <-l.wake:
		case <-ctx.Done():
			l.mu.Lock()
			l.stopped = true
			pending := len(l.queue)
			l.mu.Unlock()

			l.log.Debug().Int("pending", pending).Msg("loop stopping")
			l.drain(scoped)

			return nil
		}
	}
}

// Done is closed once Run has returned and every accepted closure has run.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) drain(ctx context.Context) {
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return
		}

		for _, fn := range batch {
			l.execute(ctx, fn)
		}
	}
}

func (l *Loop) execute(ctx context.Context, fn func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Interface("panic", r).Msg("loop task panicked")
		}
	}()

	fn(ctx)
}

// detached keeps the values of parent and drops its cancellation.
type detached struct {
	parent context.Context
}

func (detached) Deadline() (time.Time, bool) {
	return time.Time{}, false
}

func (detached) Done() <-chan struct{} {
	return nil
}

func (detached) Err() error {
	return nil
}

func (d detached) Value(key any) any {
	return d.parent.Value(key)
}
