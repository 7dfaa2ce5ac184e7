package reclaim_test

import (
	"io"
	"testing"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/conductor/reclaim"
	"github.com/vkngwrapper/conductor/syncutils"
	"golang.org/x/exp/slog"
)

func newQueue() *reclaim.Queue[int] {
	return reclaim.NewQueue[int](slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func readyThrough(completed int) func(int) bool {
	return func(tag int) bool {
		return tag <= completed
	}
}

func TestQueueDrainFIFO(t *testing.T) {
	queue := newQueue()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		queue.Enqueue(1, 0, func() { order = append(order, i) })
	}

	require.Equal(t, 0, queue.Drain(readyThrough(0)))
	require.Empty(t, order)

	require.Equal(t, 5, queue.Drain(readyThrough(1)))
	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
	require.Equal(t, 0, queue.Len())

	// Nothing runs twice
	require.Equal(t, 0, queue.Drain(readyThrough(1)))
	require.Len(t, order, 5)
}

func TestQueueDrainSkipsIncomplete(t *testing.T) {
	queue := newQueue()

	var order []string
	queue.Enqueue(1, 10, func() { order = append(order, "a") })
	queue.Enqueue(2, 10, func() { order = append(order, "b") })
	queue.Enqueue(1, 11, func() { order = append(order, "c") })
	queue.Enqueue(3, 11, func() { order = append(order, "d") })

	require.Equal(t, 2, queue.Drain(readyThrough(1)))
	require.Equal(t, []string{"a", "c"}, order)
	require.Equal(t, 2, queue.Len())

	frame, ok := queue.OldestFrame()
	require.True(t, ok)
	require.Equal(t, uint64(10), frame)

	require.Equal(t, 2, queue.Drain(readyThrough(3)))
	require.Equal(t, []string{"a", "c", "b", "d"}, order)
}

func TestQueueActionEnqueuesDuringDrain(t *testing.T) {
	queue := newQueue()

	var order []string
	queue.Enqueue(1, 0, func() {
		order = append(order, "outer")
		queue.Enqueue(1, 0, func() { order = append(order, "inner") })
	})
	queue.Enqueue(2, 0, func() { order = append(order, "later") })

	require.Equal(t, 1, queue.Drain(readyThrough(1)))
	require.Equal(t, []string{"outer"}, order)
	require.Equal(t, 2, queue.Len())

	require.Equal(t, 2, queue.Drain(readyThrough(2)))
	require.Equal(t, []string{"outer", "later", "inner"}, order)
}

func TestQueueFlush(t *testing.T) {
	queue := newQueue()

	count := 0
	queue.Enqueue(5, 0, func() {
		count++
		queue.Enqueue(6, 0, func() { count++ })
	})
	queue.Enqueue(7, 0, func() { count++ })

	require.Equal(t, 3, queue.Flush())
	require.Equal(t, 3, count)
	require.Equal(t, 0, queue.Len())

	require.Equal(t, syncutils.ReclaimStatistics{
		Enqueued: 3,
		Executed: 3,
		Pending:  0,
	}, queue.Statistics())
}

func TestQueueStats(t *testing.T) {
	queue := newQueue()
	queue.Enqueue(1, 4, func() {})
	queue.Enqueue(2, 5, func() {})
	queue.Drain(readyThrough(1))

	writer := jwriter.NewWriter()
	obj := writer.Object()
	queue.BuildStatsString(&obj)
	obj.End()

	require.JSONEq(t, `{"Enqueued":2,"Executed":1,"Pending":1,"OldestFrame":5}`, string(writer.Bytes()))
}
