package ring

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/conductor/barrier"
	"github.com/vkngwrapper/conductor/syncutils"
	"github.com/vkngwrapper/core/v2/core1_0"
)

type slotState int

const (
	slotFree slotState = iota
	slotRecording
	slotPending
)

var slotStateMapping = map[slotState]string{
	slotFree:      "Free",
	slotRecording: "Recording",
	slotPending:   "Pending",
}

func (s slotState) String() string {
	return slotStateMapping[s]
}

// MaxWaitSemaphores is the number of externally-supplied semaphores a single submission can wait on
const MaxWaitSemaphores = 2

type waitRequest struct {
	semaphore Semaphore
	stage     core1_0.PipelineStageFlags
}

// CommandContext is one slot of a Ring: a command buffer paired with the fence that reports when its
// submission has finished and the semaphore it signals for later submissions to wait on. Contexts are owned
// by the ring. A context returned from Ring.Acquire may be recorded into until it is passed to Ring.Submit.
//
// Transitions requested through the context are batched and recorded the next time FlushBarriers is
// called, mip generation is recorded, or the context is submitted. Callers recording their own commands
// that depend on a transition must call FlushBarriers first.
type CommandContext struct {
	ring          *Ring
	index         int
	commandBuffer CommandBuffer
	fence         Fence
	semaphore     Semaphore

	state  slotState
	handle SubmissionHandle

	waits     [MaxWaitSemaphores]waitRequest
	waitCount int
	signal    Semaphore

	barriers barrier.Batch
}

// CommandBuffer is the command buffer being recorded
func (c *CommandContext) CommandBuffer() CommandBuffer {
	return c.commandBuffer
}

// Handle is the submission handle for the current or most recent use of this context
func (c *CommandContext) Handle() SubmissionHandle {
	return c.handle
}

// DependencySemaphore is the semaphore signaled by every submission of this context
func (c *CommandContext) DependencySemaphore() Semaphore {
	return c.semaphore
}

// IsRecording returns true between Acquire and Submit
func (c *CommandContext) IsRecording() bool {
	return c.state == slotRecording
}

func (c *CommandContext) checkRecording() error {
	if c.state != slotRecording {
		return errors.Wrapf(syncutils.ErrNotRecording, "command context %d is %s", c.index, c.state)
	}
	return nil
}

// WaitOn makes the next submission of this context wait for the semaphore before executing the provided
// stages. At most MaxWaitSemaphores may be requested per submission.
func (c *CommandContext) WaitOn(semaphore Semaphore, stage core1_0.PipelineStageFlags) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}

	if c.waitCount >= MaxWaitSemaphores {
		return errors.Wrapf(syncutils.ErrTooManyWaits, "command context %d", c.index)
	}

	c.waits[c.waitCount] = waitRequest{semaphore: semaphore, stage: stage}
	c.waitCount++
	return nil
}

// SignalOn makes the next submission of this context signal the semaphore in addition to the context's
// own dependency semaphore. A second call replaces the first.
func (c *CommandContext) SignalOn(semaphore Semaphore) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}

	c.signal = semaphore
	return nil
}

func (c *CommandContext) clearRequests() {
	for i := range c.waits {
		c.waits[i] = waitRequest{}
	}
	c.waitCount = 0
	c.signal = nil
}

// TransitionImage queues the barrier that moves the image range into the requested state
func (c *CommandContext) TransitionImage(image *barrier.TrackedImage, state barrier.State, subresources core1_0.ImageSubresourceRange) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}

	imageBarrier, err := barrier.TransitionImage(image, state, subresources)
	if err != nil {
		return err
	}

	c.barriers.AddImage(imageBarrier)
	return nil
}

// TransitionWholeImage queues the barrier that moves every subresource of the image into the requested state
func (c *CommandContext) TransitionWholeImage(image *barrier.TrackedImage, state barrier.State) error {
	return c.TransitionImage(image, state, image.WholeRange())
}

// TransitionBuffer queues the barrier that moves the buffer into the requested state
func (c *CommandContext) TransitionBuffer(buffer *barrier.TrackedBuffer, state barrier.State) error {
	err := c.checkRecording()
	if err != nil {
		return err
	}

	bufferBarrier, err := barrier.TransitionBuffer(buffer, state)
	if err != nil {
		return err
	}

	c.barriers.AddBuffer(bufferBarrier)
	return nil
}

// FlushBarriers records every queued transition into the command buffer as a single pipeline barrier
func (c *CommandContext) FlushBarriers() error {
	err := c.checkRecording()
	if err != nil {
		return err
	}

	err = c.barriers.Record(c.commandBuffer)
	if err != nil {
		return errors.Wrap(err, "failed to record pipeline barrier")
	}

	return nil
}

// GenerateMipmaps records the blits and transitions that fill every mip level of the image from level 0
func (c *CommandContext) GenerateMipmaps(image *barrier.TrackedImage, options barrier.MipmapOptions) error {
	err := c.FlushBarriers()
	if err != nil {
		return err
	}

	return barrier.GenerateMipmaps(c.commandBuffer, image, options)
}
