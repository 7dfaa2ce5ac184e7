package handles_test

import (
	"io"
	"testing"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/conductor/handles"
	"github.com/vkngwrapper/conductor/syncutils"
	"golang.org/x/exp/slog"
)

func newPool[T any]() *handles.Pool[T] {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return handles.NewPool[T](logger, 4)
}

func TestPoolAddGet(t *testing.T) {
	pool := newPool[string]()

	first := pool.Add("first")
	second := pool.Add("second")

	require.False(t, first.IsEmpty())
	require.NotEqual(t, first, second)
	require.Equal(t, 2, pool.Count())

	value, err := pool.Get(first)
	require.NoError(t, err)
	require.Equal(t, "first", *value)

	value, err = pool.Get(second)
	require.NoError(t, err)
	require.Equal(t, "second", *value)
}

func TestPoolRemoveInvalidatesHandle(t *testing.T) {
	pool := newPool[int]()

	handle := pool.Add(5)
	require.NoError(t, pool.Remove(handle))
	require.Equal(t, 0, pool.Count())

	value, err := pool.Get(handle)
	require.Nil(t, value)
	require.ErrorIs(t, err, syncutils.ErrInvalidHandle)
	require.False(t, pool.Contains(handle))
}

func TestPoolReuseBumpsGeneration(t *testing.T) {
	pool := newPool[int]()

	removed := pool.Add(1)
	require.NoError(t, pool.Remove(removed))

	reused := pool.Add(2)
	require.Equal(t, removed.Index(), reused.Index())
	require.Greater(t, reused.Generation(), removed.Generation())

	_, err := pool.Get(removed)
	require.ErrorIs(t, err, syncutils.ErrInvalidHandle)

	value, err := pool.Get(reused)
	require.NoError(t, err)
	require.Equal(t, 2, *value)
}

func TestPoolFreeListIsLIFO(t *testing.T) {
	pool := newPool[int]()

	a := pool.Add(0)
	b := pool.Add(1)
	c := pool.Add(2)

	require.NoError(t, pool.Remove(a))
	require.NoError(t, pool.Remove(c))

	require.Equal(t, c.Index(), pool.Add(3).Index())
	require.Equal(t, a.Index(), pool.Add(4).Index())
	require.Equal(t, 3, pool.Cap())
	require.True(t, pool.Contains(b))
}

func TestPoolDoubleRemove(t *testing.T) {
	pool := newPool[int]()
	handle := pool.Add(1)
	require.NoError(t, pool.Remove(handle))

	if syncutils.DebugChecks {
		require.Panics(t, func() { _ = pool.Remove(handle) })
		return
	}

	err := pool.Remove(handle)
	require.ErrorIs(t, err, syncutils.ErrInvalidHandle)
	require.Equal(t, 0, pool.Count())
	require.NoError(t, pool.Validate())
}

func TestPoolEmptyHandle(t *testing.T) {
	pool := newPool[int]()
	pool.Add(1)

	var empty handles.Handle
	require.True(t, empty.IsEmpty())

	value, err := pool.Get(empty)
	require.Nil(t, value)
	require.ErrorIs(t, err, syncutils.ErrEmptyHandle)
}

func TestPoolEach(t *testing.T) {
	pool := newPool[int]()
	pool.Add(10)
	removed := pool.Add(20)
	pool.Add(30)
	require.NoError(t, pool.Remove(removed))

	var seen []int
	pool.Each(func(handle handles.Handle, value *int) bool {
		seen = append(seen, *value)
		return true
	})
	require.Equal(t, []int{10, 30}, seen)

	seen = nil
	pool.Each(func(handle handles.Handle, value *int) bool {
		seen = append(seen, *value)
		return false
	})
	require.Equal(t, []int{10}, seen)
}

func TestPoolStats(t *testing.T) {
	pool := newPool[int]()
	pool.Add(1)
	require.NoError(t, pool.Remove(pool.Add(2)))

	writer := jwriter.NewWriter()
	obj := writer.Object()
	pool.BuildStatsString(&obj)
	obj.End()

	require.JSONEq(t, `{"Count":1,"Slots":2,"FreeSlots":1}`, string(writer.Bytes()))
}
