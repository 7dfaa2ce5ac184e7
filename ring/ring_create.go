package ring

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/conductor/reclaim"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/driver"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific ring behaviors to activate or deactivate
type CreateFlags int32

var ringCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	ringCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return ringCreateFlagsMapping.FlagsToString(f)
}

const (
	// RingCreateNoDependencySignal stops submissions from signaling the command context's own dependency
	// semaphore. Use it when nothing ever waits on CommandContext.DependencySemaphore, since a binary
	// semaphore that is signaled twice without a wait in between is invalid.
	RingCreateNoDependencySignal CreateFlags = 1 << iota
)

func init() {
	RingCreateNoDependencySignal.Register("RingCreateNoDependencySignal")
}

const (
	// DefaultSize is the number of command contexts created when CreateOptions.Size is 0
	DefaultSize int = 3
	// DefaultAcquirePollInterval is the longest Acquire blocks on a single fence before scanning the
	// ring again, when CreateOptions.AcquirePollInterval is 0
	DefaultAcquirePollInterval time.Duration = time.Millisecond
	// DefaultAcquireWarnEvery is the number of stalled Acquire iterations between warnings, when
	// CreateOptions.AcquireWarnEvery is 0
	DefaultAcquireWarnEvery int = 1000
)

// CreateOptions contains optional settings when creating a ring
type CreateOptions struct {
	// Flags indicates specific ring behaviors to activate or deactivate
	Flags CreateFlags
	// Size is the number of command contexts in the ring, which is also the maximum number of
	// submissions that can be in flight at once
	Size int

	// AcquirePollInterval is the timeout used when Acquire blocks on the oldest in-flight fence while
	// waiting for a slot to free up
	AcquirePollInterval time.Duration
	// AcquireTimeout, if positive, is the longest Acquire will wait for a slot before returning
	// syncutils.ErrRingExhausted. If zero, Acquire waits as long as there is work in flight.
	AcquireTimeout time.Duration
	// AcquireWarnEvery is the number of stalled Acquire iterations between logged warnings
	AcquireWarnEvery int

	// VulkanCallbacks is an optional set of callbacks used when destroying the fences and semaphores
	// created for the ring
	VulkanCallbacks *driver.AllocationCallbacks
}

// New creates a ring of command contexts. Each context gets its own command buffer, fence, and semaphore
// from the device.
//
// logger - Destination for call tracing, stall warnings, and fatal device errors
//
// device - The device & queue that command contexts are created on and submitted to
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, device Device, options CreateOptions) (*Ring, error) {
	size := options.Size
	if size == 0 {
		size = DefaultSize
	} else if size < 0 {
		return nil, errors.Newf("ring.CreateOptions.Size must not be negative, but was %d", size)
	}

	ring := &Ring{
		logger:            logger,
		device:            device,
		callbacks:         options.VulkanCallbacks,
		flags:             options.Flags,
		pollInterval:      options.AcquirePollInterval,
		acquireTimeout:    options.AcquireTimeout,
		warnEvery:         options.AcquireWarnEvery,
		contexts:          make([]CommandContext, size),
		available:         size,
		lastSubmittedSlot: -1,
		reclaim:           reclaim.NewQueue[SubmissionHandle](logger),
	}

	if ring.pollInterval <= 0 {
		ring.pollInterval = DefaultAcquirePollInterval
	}
	if ring.warnEvery <= 0 {
		ring.warnEvery = DefaultAcquireWarnEvery
	}

	commandBuffers, err := device.AllocateCommandBuffers(size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate command buffers for the ring")
	}
	if len(commandBuffers) != size {
		device.FreeCommandBuffers(commandBuffers)
		return nil, errors.Newf("requested %d command buffers but received %d", size, len(commandBuffers))
	}

	for i := range ring.contexts {
		commandContext := &ring.contexts[i]
		commandContext.ring = ring
		commandContext.index = i
		commandContext.commandBuffer = commandBuffers[i]

		commandContext.fence, err = device.CreateFence()
		if err != nil {
			ring.destroyPrimitives()
			return nil, errors.Wrapf(err, "failed to create fence for command context %d", i)
		}

		commandContext.semaphore, err = device.CreateSemaphore()
		if err != nil {
			ring.destroyPrimitives()
			return nil, errors.Wrapf(err, "failed to create semaphore for command context %d", i)
		}
	}

	return ring, nil
}

func (r *Ring) destroyPrimitives() {
	commandBuffers := make([]CommandBuffer, 0, len(r.contexts))
	for i := range r.contexts {
		commandContext := &r.contexts[i]

		if commandContext.fence != nil {
			commandContext.fence.Destroy(r.callbacks)
			commandContext.fence = nil
		}
		if commandContext.semaphore != nil {
			commandContext.semaphore.Destroy(r.callbacks)
			commandContext.semaphore = nil
		}
		if commandContext.commandBuffer != nil {
			commandBuffers = append(commandBuffers, commandContext.commandBuffer)
			commandContext.commandBuffer = nil
		}
	}

	if len(commandBuffers) > 0 {
		r.device.FreeCommandBuffers(commandBuffers)
	}
}
