package reclaim

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/conductor/syncutils"
	"golang.org/x/exp/slog"
)

type pendingAction[H any] struct {
	tag    H
	frame  uint64
	action func()
}

// Queue holds destruction actions that must not run until the GPU work named by their tag has completed.
// The queue does not know how to tell whether a tag has completed: Drain is handed a readiness predicate
// by whoever owns the completion signals.
//
// Queue is not synchronized.
type Queue[H any] struct {
	logger  *slog.Logger
	pending []pendingAction[H]
	stats   syncutils.ReclaimStatistics
}

func NewQueue[H any](logger *slog.Logger) *Queue[H] {
	return &Queue[H]{
		logger: logger,
	}
}

// Enqueue adds an action that will run once tag is ready. frame is carried for diagnostics.
func (q *Queue[H]) Enqueue(tag H, frame uint64, action func()) {
	q.pending = append(q.pending, pendingAction[H]{
		tag:    tag,
		frame:  frame,
		action: action,
	})
	q.stats.Enqueued++
}

// Drain runs every queued action whose tag is ready, in the order they were enqueued, and removes them.
// Actions whose tags are not ready stay queued in their original order. Actions may enqueue further
// actions: those are queued after everything that was already waiting and are not run by this call.
// Drain returns the number of actions that ran.
func (q *Queue[H]) Drain(ready func(tag H) bool) int {
	if len(q.pending) == 0 {
		return 0
	}

	current := q.pending
	q.pending = nil

	kept := current[:0]
	executed := 0
	for i := range current {
		if !ready(current[i].tag) {
			kept = append(kept, current[i])
			continue
		}

		current[i].action()
		executed++
	}

	// Clear the tail so dropped closures can be collected
	for i := len(kept); i < len(current); i++ {
		current[i] = pendingAction[H]{}
	}

	q.pending = append(kept, q.pending...)
	q.stats.Executed += executed

	if executed > 0 {
		q.logger.Debug("Queue::Drain", slog.Int("Executed", executed), slog.Int("Remaining", len(q.pending)))
	}

	return executed
}

// Flush runs every queued action regardless of its tag. It is meant for teardown, after all GPU work has
// been waited on.
func (q *Queue[H]) Flush() int {
	executed := 0
	for len(q.pending) > 0 {
		executed += q.Drain(func(H) bool { return true })
	}

	return executed
}

// Len is the number of actions waiting to run
func (q *Queue[H]) Len() int {
	return len(q.pending)
}

// OldestFrame returns the frame index of the action that has been waiting the longest
func (q *Queue[H]) OldestFrame() (uint64, bool) {
	if len(q.pending) == 0 {
		return 0, false
	}
	return q.pending[0].frame, true
}

func (q *Queue[H]) Statistics() syncutils.ReclaimStatistics {
	stats := q.stats
	stats.Pending = len(q.pending)
	return stats
}

func (q *Queue[H]) BuildStatsString(json *jwriter.ObjectState) {
	stats := q.Statistics()
	json.Name("Enqueued").Int(stats.Enqueued)
	json.Name("Executed").Int(stats.Executed)
	json.Name("Pending").Int(stats.Pending)

	if frame, ok := q.OldestFrame(); ok {
		json.Name("OldestFrame").Int(int(frame))
	}
}
