package ring

import (
	"time"

	"github.com/vkngwrapper/conductor/barrier"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/driver"
)

//go:generate mockgen -destination ../mocks/ring.go -package mocks github.com/vkngwrapper/conductor/ring Fence,Semaphore,CommandBuffer,Device

// Fence is the completion signal attached to each submission. core1_0.Fence satisfies it.
type Fence interface {
	Wait(timeout time.Duration) (common.VkResult, error)
	Reset() (common.VkResult, error)
	Status() (common.VkResult, error)
	Destroy(callbacks *driver.AllocationCallbacks)
}

// Semaphore is the GPU-side dependency signal used to order submissions. core1_0.Semaphore satisfies it.
type Semaphore interface {
	Destroy(callbacks *driver.AllocationCallbacks)
}

// CommandBuffer is the native recording object owned by each command context. core1_0.CommandBuffer
// satisfies it.
type CommandBuffer interface {
	barrier.Recorder

	Begin(o core1_0.CommandBufferBeginInfo) (common.VkResult, error)
	End() (common.VkResult, error)
	Reset(flags core1_0.CommandBufferResetFlags) (common.VkResult, error)
}

// SubmitInfo is a single queue submission built by Ring.Submit
type SubmitInfo struct {
	CommandBuffer    CommandBuffer
	WaitSemaphores   []Semaphore
	WaitDstStageMask []core1_0.PipelineStageFlags
	SignalSemaphores []Semaphore
}

// Device is the set of primitives the ring needs from the device and queue that it submits to
type Device interface {
	AllocateCommandBuffers(count int) ([]CommandBuffer, error)
	FreeCommandBuffers(buffers []CommandBuffer)
	CreateFence() (Fence, error)
	CreateSemaphore() (Semaphore, error)
	Submit(fence Fence, submission SubmitInfo) error
	WaitIdle() error
}
