package wi

import (
	"context"
	"testing"

	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
)

// Observer reads back the latest state a sink has recorded.
type Observer func(ctx context.Context) (State, error)

func NewSinkValidationSuite(ctx context.Context, sink Sink, observe Observer) *SinkValidationSuite {
	return &SinkValidationSuite{
		ctx:       ctx,
		sink:      sink,
		observe:   observe,
		faker:     faker.New(),
		revisions: NewRevisionGenerator(),
	}
}

type SinkValidationSuite struct {
	ctx       context.Context
	sink      Sink
	observe   Observer
	faker     faker.Faker
	revisions *RevisionGenerator
}

func (s *SinkValidationSuite) Run(t *testing.T) {
	t.Run("records a show", s.RecordsShow)
	t.Run("records the final hide", s.RecordsFinalHide)
	t.Run("records nested shows", s.RecordsNestedShows)
	t.Run("records a clamped hide", s.RecordsClampedHide)
	t.Run("records generated sequences", s.RecordsGeneratedSequences)
}

// start returns a gate bound to the suite's sink on a running loop, and a
// func that drains and stops the loop. Gates share one revision generator
// so later gates always write newer revisions.
func (s *SinkValidationSuite) start() (*Gate, func()) {
	ctx, cancel := context.WithCancel(s.ctx)
	loop := NewLoop()
	go func() {
		_ = loop.Run(ctx)
	}()

	gate := NewGate(loop, WithSink(s.sink), WithRevisionGenerator(s.revisions))

	return gate, func() {
		cancel()
		<-loop.Done()
	}
}

func (s *SinkValidationSuite) expect(t *testing.T, gate *Gate, count int) bool {
	// a blocking read is queued behind every earlier update
	visible := gate.Visible(s.ctx)

	state, err := s.observe(s.ctx)
	if !assert.Nil(t, err) {
		return false
	}

	return assert.Equal(t, count > 0, visible) &&
		assert.Equal(t, count, state.Count) &&
		assert.Equal(t, count > 0, state.Visible) &&
		assert.True(t, state.Initialized())
}

func (s *SinkValidationSuite) settle(gate *Gate) {
	for gate.Visible(s.ctx) {
		gate.Hide(s.ctx)
	}
}

func (s *SinkValidationSuite) RecordsShow(t *testing.T) {
	gate, stop := s.start()
	defer stop()

	gate.Show(s.ctx)
	if !s.expect(t, gate, 1) {
		return
	}

	assert.True(t, s.mustObserve(t).Requested)
}

func (s *SinkValidationSuite) RecordsFinalHide(t *testing.T) {
	gate, stop := s.start()
	defer stop()

	gate.Show(s.ctx)
	gate.Hide(s.ctx)
	if !s.expect(t, gate, 0) {
		return
	}

	assert.False(t, s.mustObserve(t).Requested)
}

func (s *SinkValidationSuite) RecordsNestedShows(t *testing.T) {
	gate, stop := s.start()
	defer stop()

	gate.Show(s.ctx)
	gate.Show(s.ctx)
	gate.Hide(s.ctx)
	if !s.expect(t, gate, 1) {
		return
	}

	gate.Hide(s.ctx)
	s.expect(t, gate, 0)
}

func (s *SinkValidationSuite) RecordsClampedHide(t *testing.T) {
	gate, stop := s.start()
	defer stop()

	for i := 0; i < 6; i++ {
		gate.Hide(s.ctx)
	}
	if !s.expect(t, gate, 0) {
		return
	}

	gate.Show(s.ctx)
	s.expect(t, gate, 1)
}

func (s *SinkValidationSuite) RecordsGeneratedSequences(t *testing.T) {
	gate, stop := s.start()
	defer stop()

	count := 0
	length := s.faker.IntBetween(5, 40)
	for i := 0; i < length; i++ {
		show := s.faker.IntBetween(0, 1) == 1
		gate.SetVisible(s.ctx, show)

		if show {
			count++
		} else if count > 0 {
			count--
		}
	}

	if !s.expect(t, gate, count) {
		return
	}

	s.settle(gate)
	s.expect(t, gate, 0)
}

func (s *SinkValidationSuite) mustObserve(t *testing.T) State {
	state, err := s.observe(s.ctx)
	assert.Nil(t, err)
	return state
}
