package ds

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-indicator-go/wi"
)

func TestStatusSink(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	sink, tearDown, err := DynamoTestSink(ctx, "indicator#go-test")
	if err != nil {
		t.Logf("failed to create test sink. %+v", err)
		t.FailNow()
	}

	defer tearDown()

	t.Run("loads the initial state", func(t *testing.T) {
		empty := NewStatusSink(sink.db, StatusTableName(sink.table), "indicator#missing")

		state, err := empty.Load(ctx)
		require.Nil(t, err)
		assert.False(t, state.Initialized())
		assert.Equal(t, wi.InitialRevision, state.Revision)
	})

	t.Run("status sink validation", func(t *testing.T) {
		suite := wi.NewSinkValidationSuite(ctx, sink, sink.Load)
		suite.Run(t)
	})

	t.Run("ignores stale revisions", func(t *testing.T) {
		key := StatusKey("indicator#stale")
		stale := NewStatusSink(sink.db, StatusTableName(sink.table), key)
		generator := wi.NewRevisionGenerator()
		now := time.Now()

		older := wi.State{Revision: generator.NewRevision(now), Count: 1, Visible: true, Requested: true}
		newer := wi.State{Revision: generator.NewRevision(now), Count: 2, Visible: true, Requested: true}

		require.Nil(t, stale.Apply(ctx, newer))
		require.Nil(t, stale.Apply(ctx, older))

		state, err := stale.Load(ctx)
		require.Nil(t, err)
		assert.Equal(t, newer.Revision, state.Revision)
		assert.Equal(t, 2, state.Count)
	})
}
