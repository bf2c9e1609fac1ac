package wi

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runsClosuresInOrder(t *testing.T) {
	loop := running(t)
	ctx := context.Background()

	var seen []int
	for i := 0; i < 100; i++ {
		i := i
		require.Nil(t, loop.Post(func(context.Context) {
			seen = append(seen, i)
		}))
	}

	var snapshot []int
	require.Nil(t, loop.Do(ctx, func(context.Context) {
		snapshot = append(snapshot, seen...)
	}))

	require.Len(t, snapshot, 100)
	for i, value := range snapshot {
		assert.Equal(t, i, value)
	}
}

func keepsPerPosterOrder(t *testing.T) {
	loop := running(t)
	ctx := context.Background()

	const posters = 8
	const posts = 250

	var seen []string
	var wg sync.WaitGroup
	for p := 0; p < posters; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < posts; i++ {
				tag := fmt.Sprintf("%d:%d", p, i)
				_ = loop.Post(func(context.Context) {
					seen = append(seen, tag)
				})
			}
		}(p)
	}
	wg.Wait()

	var snapshot []string
	require.Nil(t, loop.Do(ctx, func(context.Context) {
		snapshot = append(snapshot, seen...)
	}))

	require.Len(t, snapshot, posters*posts)

	next := make([]int, posters)
	unique := map[string]bool{}
	for _, tag := range snapshot {
		var p, i int
		_, err := fmt.Sscanf(tag, "%d:%d", &p, &i)
		require.Nil(t, err)

		assert.Equal(t, next[p], i, "poster %d out of order", p)
		next[p] = i + 1

		assert.False(t, unique[tag], "%s applied twice", tag)
		unique[tag] = true
	}
}

func runsInlineOnLoop(t *testing.T) {
	loop := running(t)

	var outer, inner bool
	require.Nil(t, loop.Do(context.Background(), func(ctx context.Context) {
		outer = loop.OnLoop(ctx)

		// would deadlock if the nested call were queued
		_ = loop.Do(ctx, func(ctx context.Context) {
			inner = loop.OnLoop(ctx)
		})
	}))

	assert.True(t, outer)
	assert.True(t, inner)
}

func identifiesOwnContext(t *testing.T) {
	one := running(t)
	two := running(t)

	assert.False(t, one.OnLoop(context.Background()))

	var foreign bool
	require.Nil(t, two.Do(context.Background(), func(ctx context.Context) {
		foreign = one.OnLoop(ctx)
	}))

	assert.False(t, foreign)
}

func drainsWhenStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop()

	count := 0
	for i := 0; i < 50; i++ {
		require.Nil(t, loop.Post(func(ctx context.Context) {
			assert.Nil(t, ctx.Err())
			count++
		}))
	}

	cancel()
	assert.Nil(t, loop.Run(ctx))
	<-loop.Done()

	assert.Equal(t, 50, count)
	assert.Equal(t, ErrLoopStopped, loop.Post(func(context.Context) {}))
	assert.Equal(t, ErrLoopStopped, loop.Do(context.Background(), func(context.Context) {}))
	assert.Equal(t, ErrLoopStopped, loop.Run(context.Background()))
}

func refusesSecondRun(t *testing.T) {
	loop := running(t)

	// Do guarantees the first Run has started
	require.Nil(t, loop.Do(context.Background(), func(context.Context) {}))
	assert.Equal(t, ErrLoopRunning, loop.Run(context.Background()))
}

func survivesPanics(t *testing.T) {
	loop := running(t)

	require.Nil(t, loop.Post(func(context.Context) {
		panic("boom")
	}))

	ran := false
	require.Nil(t, loop.Do(context.Background(), func(context.Context) {
		ran = true
	}))

	assert.True(t, ran)
	assert.Nil(t, loop.Do(context.Background(), func(context.Context) {
		panic("boom")
	}))
}

func TestLoop(t *testing.T) {
	t.Run("runs closures in order", runsClosuresInOrder)
	t.Run("keeps per poster order", keepsPerPosterOrder)
	t.Run("runs inline on loop", runsInlineOnLoop)
	t.Run("identifies own context", identifiesOwnContext)
	t.Run("drains when stopped", drainsWhenStopped)
	t.Run("refuses second run", refusesSecondRun)
	t.Run("survives panics", survivesPanics)
}
