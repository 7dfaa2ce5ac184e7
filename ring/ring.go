package ring

import (
	"context"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/conductor/reclaim"
	"github.com/vkngwrapper/conductor/syncutils"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/driver"
	"golang.org/x/exp/slog"
)

const waitForever = time.Duration(math.MaxInt64)

// Ring hands out command contexts from a fixed set of slots, tracks when the GPU has finished with each
// submission, and runs deferred destruction actions once the work they depend on has completed.
//
// Ring is not synchronized: every method must be called from the submitting thread.
type Ring struct {
	logger    *slog.Logger
	device    Device
	callbacks *driver.AllocationCallbacks
	flags     CreateFlags

	pollInterval   time.Duration
	acquireTimeout time.Duration
	warnEvery      int

	contexts          []CommandContext
	available         int
	nextAcquire       int
	lastSubmittedSlot int
	lastSubmission    SubmissionHandle
	latestHandle      SubmissionHandle
	frameIndex        uint64

	reclaim *reclaim.Queue[SubmissionHandle]
	stats   syncutils.RingStatistics

	fatal     error
	destroyed bool
}

func (r *Ring) usable() error {
	if r.destroyed {
		return errors.Wrap(syncutils.ErrDestroyed, "the ring has been destroyed")
	}
	return r.fatal
}

// fail latches a device error: the ring refuses all further work once the device has reported one
func (r *Ring) fail(err error) error {
	err = errors.Mark(err, syncutils.ErrDeviceFailure)
	r.logger.LogAttrs(context.Background(), slog.LevelError, "fatal device error, the command ring cannot continue",
		slog.Any("error", err),
	)
	r.fatal = err
	return err
}

// Size is the number of command contexts in the ring
func (r *Ring) Size() int {
	return len(r.contexts)
}

// Available is the number of command contexts that can be acquired without waiting
func (r *Ring) Available() int {
	return r.available
}

// InFlight is the number of submissions whose completion has not yet been observed
func (r *Ring) InFlight() int {
	count := 0
	for i := range r.contexts {
		if r.contexts[i].state == slotPending {
			count++
		}
	}
	return count
}

// LastSubmission is the handle returned by the most recent call to Submit
func (r *Ring) LastSubmission() SubmissionHandle {
	return r.lastSubmission
}

// SetFrameIndex records the current frame. Deferred destructions are tagged with it for diagnostics.
func (r *Ring) SetFrameIndex(frame uint64) {
	r.frameIndex = frame
}

// FrameIndex is the value most recently passed to SetFrameIndex
func (r *Ring) FrameIndex() uint64 {
	return r.frameIndex
}

// Acquire returns a command context that has begun recording. When every slot is in flight, Acquire
// repeatedly purges the ring and blocks briefly on the oldest in-flight fence until a slot frees up.
func (r *Ring) Acquire() (*CommandContext, error) {
	r.logger.Debug("Ring::Acquire")

	err := r.usable()
	if err != nil {
		return nil, err
	}

	if r.available == 0 {
		err = r.waitForFreeSlot()
		if err != nil {
			return nil, err
		}
	}

	var acquired *CommandContext
	count := len(r.contexts)
	for i := 0; i < count; i++ {
		candidate := &r.contexts[(r.nextAcquire+i)%count]
		if candidate.state == slotFree {
			acquired = candidate
			break
		}
	}

	if acquired == nil {
		return nil, errors.Newf("ring reported %d available command contexts but none were free", r.available)
	}

	_, err = acquired.commandBuffer.Begin(core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to begin recording command context %d", acquired.index)
	}

	acquired.state = slotRecording
	acquired.handle = SubmissionHandle{
		slot:       uint32(acquired.index),
		generation: syncutils.NextGeneration(acquired.handle.generation),
	}

	r.available--
	r.nextAcquire = (acquired.index + 1) % count
	r.latestHandle = acquired.handle
	r.stats.Acquires++

	return acquired, nil
}

func (r *Ring) oldestPending() *CommandContext {
	count := len(r.contexts)
	for i := 1; i <= count; i++ {
		commandContext := &r.contexts[(r.lastSubmittedSlot+i+count)%count]
		if commandContext.state == slotPending {
			return commandContext
		}
	}

	return nil
}

func (r *Ring) waitForFreeSlot() error {
	r.stats.AcquireStalls++

	start := time.Now()
	for iteration := 0; ; iteration++ {
		_, err := r.Purge()
		if err != nil {
			return err
		}

		if r.available > 0 {
			return nil
		}

		oldest := r.oldestPending()
		if oldest == nil {
			// Every slot is recording: nothing in flight can ever free one
			return errors.Wrapf(syncutils.ErrRingExhausted, "all %d command contexts are recording", len(r.contexts))
		}

		if r.acquireTimeout > 0 && time.Since(start) >= r.acquireTimeout {
			return errors.Wrapf(syncutils.ErrRingExhausted, "waited %s for one of %d command contexts", r.acquireTimeout, len(r.contexts))
		}

		if iteration > 0 && iteration%r.warnEvery == 0 {
			r.logger.LogAttrs(context.Background(), slog.LevelWarn, "all command contexts are in flight, waiting for one to complete",
				slog.Int("ringSize", len(r.contexts)),
				slog.Int("iteration", iteration),
				slog.String("oldest", oldest.handle.String()),
			)
		}

		r.stats.StallIterations++
		_, err = oldest.fence.Wait(r.pollInterval)
		if err != nil {
			return r.fail(errors.Wrapf(err, "failed to wait on fence for command context %d", oldest.index))
		}
	}
}

// Submit ends recording on the context and submits it to the queue. The submission waits on any semaphores
// requested with WaitOn, signals the context's dependency semaphore plus any semaphore requested with
// SignalOn, and attaches the context's fence. The returned handle can be polled with IsReady or waited
// on with Wait.
func (r *Ring) Submit(commandContext *CommandContext) (SubmissionHandle, error) {
	r.logger.Debug("Ring::Submit")

	err := r.usable()
	if err != nil {
		return SubmissionHandle{}, err
	}

	if commandContext == nil || commandContext.ring != r || commandContext.state != slotRecording {
		syncutils.DebugAssert(false, "Ring::Submit called with a command context that is not recording")
		attrs := []slog.Attr{slog.Bool("foreign", commandContext == nil || commandContext.ring != r)}
		if commandContext != nil {
			attrs = append(attrs, slog.Int("slot", commandContext.index), slog.String("state", commandContext.state.String()))
		}
		r.logger.LogAttrs(context.Background(), slog.LevelWarn, "Ring::Submit called with a command context that is not recording", attrs...)
		return SubmissionHandle{}, errors.Wrap(syncutils.ErrNotRecording, "cannot submit command context")
	}

	err = commandContext.FlushBarriers()
	if err == nil {
		_, err = commandContext.commandBuffer.End()
		err = errors.Wrapf(err, "failed to end recording command context %d", commandContext.index)
	}
	if err != nil {
		abandonErr := r.abandon(commandContext)
		return SubmissionHandle{}, errors.CombineErrors(err, abandonErr)
	}

	submission := SubmitInfo{
		CommandBuffer: commandContext.commandBuffer,
	}
	for i := 0; i < commandContext.waitCount; i++ {
		submission.WaitSemaphores = append(submission.WaitSemaphores, commandContext.waits[i].semaphore)
		submission.WaitDstStageMask = append(submission.WaitDstStageMask, commandContext.waits[i].stage)
	}
	if r.flags&RingCreateNoDependencySignal == 0 {
		submission.SignalSemaphores = append(submission.SignalSemaphores, commandContext.semaphore)
	}
	if commandContext.signal != nil {
		submission.SignalSemaphores = append(submission.SignalSemaphores, commandContext.signal)
	}

	err = r.device.Submit(commandContext.fence, submission)
	if err != nil {
		return SubmissionHandle{}, r.fail(errors.Wrapf(err, "failed to submit command context %d", commandContext.index))
	}

	commandContext.state = slotPending
	commandContext.clearRequests()
	r.lastSubmittedSlot = commandContext.index
	r.lastSubmission = commandContext.handle
	r.stats.Submissions++

	return commandContext.handle, nil
}

// abandon returns a context that failed before submission to the free state
func (r *Ring) abandon(commandContext *CommandContext) error {
	commandContext.clearRequests()
	commandContext.barriers.Reset()

	_, err := commandContext.commandBuffer.Reset(0)
	if err != nil {
		return r.fail(errors.Wrapf(err, "failed to reset command context %d", commandContext.index))
	}

	commandContext.state = slotFree
	r.available++
	return nil
}

// IsReady reports whether the work named by the handle has finished. The empty handle, stale handles, and
// handles to slots that have already been recycled are always ready. A handle to a context that is still
// recording is never ready. Otherwise, when fastCheck is set IsReady reports false without querying the
// device, leaving the submission to be retired by a later Purge; when it is not set the fence is polled.
func (r *Ring) IsReady(handle SubmissionHandle, fastCheck bool) (bool, error) {
	if handle.IsEmpty() {
		return true, nil
	}

	if handle.Slot() >= len(r.contexts) {
		return false, errors.Wrapf(syncutils.ErrInvalidHandle, "%s does not belong to a ring of %d command contexts", handle, len(r.contexts))
	}

	commandContext := &r.contexts[handle.slot]
	if commandContext.handle.generation != handle.generation {
		return true, nil
	}

	switch commandContext.state {
	case slotFree:
		return true, nil
	case slotRecording:
		return false, nil
	}

	if fastCheck {
		return false, nil
	}

	err := r.usable()
	if err != nil {
		return false, err
	}

	res, err := commandContext.fence.Status()
	if err != nil {
		return false, r.fail(errors.Wrapf(err, "failed to query fence for command context %d", commandContext.index))
	}

	return res == core1_0.VKSuccess, nil
}

// Wait blocks until the work named by the handle has finished and then purges the ring. Waiting on the
// empty handle waits for the whole device to go idle. Waiting on a context that has not been submitted is a
// logic error: it is logged and Wait returns immediately.
func (r *Ring) Wait(handle SubmissionHandle) error {
	r.logger.Debug("Ring::Wait")

	err := r.usable()
	if err != nil {
		return err
	}

	if handle.IsEmpty() {
		err = r.device.WaitIdle()
		if err != nil {
			return r.fail(errors.Wrap(err, "failed to wait for device idle"))
		}

		_, err = r.Purge()
		return err
	}

	ready, err := r.IsReady(handle, false)
	if err != nil || ready {
		return err
	}

	commandContext := &r.contexts[handle.slot]
	if commandContext.state != slotPending {
		syncutils.DebugAssert(false, "Ring::Wait called on %s, which has not been submitted", handle)
		r.logger.LogAttrs(context.Background(), slog.LevelWarn, "Ring::Wait called on a command context that has not been submitted",
			slog.String("handle", handle.String()),
			slog.String("state", commandContext.state.String()),
		)
		return nil
	}

	_, err = commandContext.fence.Wait(waitForever)
	if err != nil {
		return r.fail(errors.Wrapf(err, "failed to wait on fence for command context %d", commandContext.index))
	}

	_, err = r.Purge()
	return err
}

// WaitAll blocks until every in-flight submission has finished and then purges the ring. It returns
// immediately when nothing is in flight.
func (r *Ring) WaitAll() error {
	r.logger.Debug("Ring::WaitAll")

	err := r.usable()
	if err != nil {
		return err
	}

	for i := range r.contexts {
		commandContext := &r.contexts[i]
		if commandContext.state != slotPending {
			continue
		}

		_, err = commandContext.fence.Wait(waitForever)
		if err != nil {
			return r.fail(errors.Wrapf(err, "failed to wait on fence for command context %d", commandContext.index))
		}
	}

	_, err = r.Purge()
	return err
}

// Purge recycles every in-flight context whose fence has signaled, then runs every deferred destruction
// whose submission is now complete. The scan starts just after the most recently submitted context so that
// the oldest work is checked first. Purge returns the number of recycled contexts.
func (r *Ring) Purge() (int, error) {
	err := r.usable()
	if err != nil {
		return 0, err
	}

	count := len(r.contexts)
	recycled := 0
	for i := 1; i <= count; i++ {
		commandContext := &r.contexts[(r.lastSubmittedSlot+i+count)%count]
		if commandContext.state != slotPending {
			continue
		}

		res, err := commandContext.fence.Status()
		if err != nil {
			return recycled, r.fail(errors.Wrapf(err, "failed to query fence for command context %d", commandContext.index))
		}
		if res != core1_0.VKSuccess {
			continue
		}

		err = r.recycle(commandContext)
		if err != nil {
			return recycled, err
		}
		recycled++
	}

	r.reclaim.Drain(func(tag SubmissionHandle) bool {
		// Fast checks never touch the device and never fail
		ready, _ := r.IsReady(tag, true)
		return ready
	})

	return recycled, nil
}

func (r *Ring) recycle(commandContext *CommandContext) error {
	_, err := commandContext.commandBuffer.Reset(0)
	if err != nil {
		return r.fail(errors.Wrapf(err, "failed to reset command buffer for command context %d", commandContext.index))
	}

	_, err = commandContext.fence.Reset()
	if err != nil {
		return r.fail(errors.Wrapf(err, "failed to reset fence for command context %d", commandContext.index))
	}

	commandContext.state = slotFree
	r.available++
	r.stats.Recycled++
	return nil
}

// Enqueue defers an action until the most recently acquired command context has been submitted and has
// finished executing. Use it to destroy GPU objects that recorded work may still reference. If nothing has
// been acquired yet, the action runs on the next Purge. After Destroy no work can be in flight, so the
// action runs immediately.
func (r *Ring) Enqueue(action func()) {
	r.logger.Debug("Ring::Enqueue", slog.String("Submission", r.latestHandle.String()))

	if r.destroyed {
		action()
		return
	}

	r.reclaim.Enqueue(r.latestHandle, r.frameIndex, action)
}

// PendingDestructions is the number of deferred actions that have not yet run
func (r *Ring) PendingDestructions() int {
	return r.reclaim.Len()
}

// Destroy waits for all in-flight work, runs every deferred action, and releases the ring's command buffers,
// fences, and semaphores. Contexts that are still recording are a logic error: they are logged and
// discarded.
func (r *Ring) Destroy() error {
	r.logger.Debug("Ring::Destroy")

	if r.destroyed {
		return errors.Wrap(syncutils.ErrDestroyed, "the ring has already been destroyed")
	}

	for i := range r.contexts {
		commandContext := &r.contexts[i]
		if commandContext.state != slotRecording {
			continue
		}

		syncutils.DebugAssert(false, "command context %d destroyed while recording", i)
		r.logger.LogAttrs(context.Background(), slog.LevelWarn, "destroying a command context that is still recording",
			slog.Int("slot", i),
			slog.String("handle", commandContext.handle.String()),
		)
		commandContext.clearRequests()
		commandContext.barriers.Reset()
		commandContext.state = slotFree
		r.available++
	}

	var err error
	if r.fatal == nil {
		err = r.WaitAll()
	}

	executed := r.reclaim.Flush()
	r.logger.Debug("Ring::Destroy flushed deferred destructions", slog.Int("Executed", executed))

	r.destroyPrimitives()
	r.destroyed = true

	return err
}

// Statistics returns counters accumulated since the ring was created
func (r *Ring) Statistics() syncutils.RingStatistics {
	return r.stats
}

// ReclaimStatistics returns counters for the deferred destruction queue
func (r *Ring) ReclaimStatistics() syncutils.ReclaimStatistics {
	return r.reclaim.Statistics()
}

// BuildStatsString returns a JSON document describing every slot, the ring counters, and the deferred
// destruction queue
func (r *Ring) BuildStatsString() string {
	writer := jwriter.NewWriter()

	obj := writer.Object()
	obj.Name("Size").Int(len(r.contexts))
	obj.Name("Available").Int(r.available)
	obj.Name("FrameIndex").Int(int(r.frameIndex))

	slots := obj.Name("Slots").Array()
	for i := range r.contexts {
		slot := slots.Object()
		slot.Name("Index").Int(i)
		slot.Name("State").String(r.contexts[i].state.String())
		slot.Name("Generation").Int(int(r.contexts[i].handle.generation))
		slot.End()
	}
	slots.End()

	stats := obj.Name("Statistics").Object()
	stats.Name("Acquires").Int(r.stats.Acquires)
	stats.Name("Submissions").Int(r.stats.Submissions)
	stats.Name("Recycled").Int(r.stats.Recycled)
	stats.Name("AcquireStalls").Int(r.stats.AcquireStalls)
	stats.Name("StallIterations").Int(r.stats.StallIterations)
	stats.End()

	reclaimObj := obj.Name("Reclaim").Object()
	r.reclaim.BuildStatsString(&reclaimObj)
	reclaimObj.End()

	obj.End()

	return string(writer.Bytes())
}
