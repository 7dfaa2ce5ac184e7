package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/conductor/barrier"
	"github.com/vkngwrapper/conductor/resources"
	"github.com/vkngwrapper/conductor/ring"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/driver"
	"golang.org/x/exp/slog"
)

// Device binds the ring and resource manager to a vkngwrapper device, a queue on that device, and a
// command pool for that queue's family. It satisfies ring.Device and resources.Backend.
//
// Device is not synchronized. The command pool must not be used by anything else while the ring is alive.
type Device struct {
	logger         *slog.Logger
	physicalDevice core1_0.PhysicalDevice
	device         core1_0.Device
	queue          core1_0.Queue
	pool           core1_0.CommandPool
	callbacks      *driver.AllocationCallbacks

	memoryProperties *core1_0.PhysicalDeviceMemoryProperties
	bufferMemory     *swiss.Map[core1_0.Buffer, core1_0.DeviceMemory]
	imageMemory      *swiss.Map[core1_0.Image, core1_0.DeviceMemory]
}

// NewDevice wraps the provided objects. None of them are owned by the returned Device: they must outlive it
// and be destroyed by the caller.
func NewDevice(logger *slog.Logger, physicalDevice core1_0.PhysicalDevice, device core1_0.Device, queue core1_0.Queue, pool core1_0.CommandPool, callbacks *driver.AllocationCallbacks) *Device {
	return &Device{
		logger:         logger,
		physicalDevice: physicalDevice,
		device:         device,
		queue:          queue,
		pool:           pool,
		callbacks:      callbacks,

		memoryProperties: physicalDevice.MemoryProperties(),
		bufferMemory:     swiss.NewMap[core1_0.Buffer, core1_0.DeviceMemory](64),
		imageMemory:      swiss.NewMap[core1_0.Image, core1_0.DeviceMemory](64),
	}
}

var _ ring.Device = (*Device)(nil)
var _ resources.Backend = (*Device)(nil)

func (d *Device) AllocateCommandBuffers(count int) ([]ring.CommandBuffer, error) {
	d.logger.Debug("Device::AllocateCommandBuffers")

	commandBuffers, _, err := d.device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        d.pool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	})
	if err != nil {
		return nil, err
	}

	out := make([]ring.CommandBuffer, 0, len(commandBuffers))
	for _, commandBuffer := range commandBuffers {
		out = append(out, commandBuffer)
	}
	return out, nil
}

func (d *Device) FreeCommandBuffers(buffers []ring.CommandBuffer) {
	d.logger.Debug("Device::FreeCommandBuffers")

	native := make([]core1_0.CommandBuffer, 0, len(buffers))
	for _, buffer := range buffers {
		native = append(native, buffer.(core1_0.CommandBuffer))
	}
	d.device.FreeCommandBuffers(native)
}

func (d *Device) CreateFence() (ring.Fence, error) {
	f, _, err := d.device.CreateFence(d.callbacks, core1_0.FenceCreateInfo{})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (d *Device) CreateSemaphore() (ring.Semaphore, error) {
	semaphore, _, err := d.device.CreateSemaphore(d.callbacks, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return nil, err
	}
	return semaphore, nil
}

func nativeSemaphores(semaphores []ring.Semaphore) []core1_0.Semaphore {
	if len(semaphores) == 0 {
		return nil
	}

	native := make([]core1_0.Semaphore, 0, len(semaphores))
	for _, semaphore := range semaphores {
		native = append(native, semaphore.(core1_0.Semaphore))
	}
	return native
}

func (d *Device) Submit(f ring.Fence, submission ring.SubmitInfo) error {
	d.logger.Debug("Device::Submit")

	_, err := d.queue.Submit(f.(core1_0.Fence), []core1_0.SubmitInfo{
		{
			WaitSemaphores:   nativeSemaphores(submission.WaitSemaphores),
			WaitDstStageMask: submission.WaitDstStageMask,
			CommandBuffers:   []core1_0.CommandBuffer{submission.CommandBuffer.(core1_0.CommandBuffer)},
			SignalSemaphores: nativeSemaphores(submission.SignalSemaphores),
		},
	})
	return err
}

func (d *Device) WaitIdle() error {
	d.logger.Debug("Device::WaitIdle")

	_, err := d.device.WaitIdle()
	return err
}

// MipmapOptions reports the optimal-tiling features of the format, for use with mip generation
func (d *Device) MipmapOptions(format core1_0.Format) barrier.MipmapOptions {
	properties := d.physicalDevice.FormatProperties(format)
	if properties == nil {
		return barrier.MipmapOptions{}
	}

	return barrier.MipmapOptions{FormatFeatures: properties.OptimalTilingFeatures}
}

func (d *Device) allocate(requirements *core1_0.MemoryRequirements, flags core1_0.MemoryPropertyFlags) (core1_0.DeviceMemory, error) {
	memoryTypeIndex, err := findMemoryTypeIndex(d.memoryProperties.MemoryTypes, requirements.MemoryTypeBits, flags)
	if err != nil {
		return nil, err
	}

	memory, _, err := d.device.AllocateMemory(d.callbacks, core1_0.MemoryAllocateInfo{
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: memoryTypeIndex,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to allocate %d bytes of memory type %d", requirements.Size, memoryTypeIndex)
	}

	return memory, nil
}

func (d *Device) CreateBuffer(info core1_0.BufferCreateInfo, memoryFlags core1_0.MemoryPropertyFlags) (core1_0.Buffer, error) {
	d.logger.Debug("Device::CreateBuffer")

	buffer, _, err := d.device.CreateBuffer(d.callbacks, info)
	if err != nil {
		return nil, err
	}

	memory, err := d.allocate(buffer.MemoryRequirements(), memoryFlags)
	if err != nil {
		buffer.Destroy(d.callbacks)
		return nil, err
	}

	_, err = buffer.BindBufferMemory(memory, 0)
	if err != nil {
		buffer.Destroy(d.callbacks)
		memory.Free(d.callbacks)
		return nil, errors.Wrap(err, "failed to bind buffer memory")
	}

	d.bufferMemory.Put(buffer, memory)
	return buffer, nil
}

func (d *Device) DestroyBuffer(buffer core1_0.Buffer) {
	d.logger.Debug("Device::DestroyBuffer")

	buffer.Destroy(d.callbacks)

	memory, ok := d.bufferMemory.Get(buffer)
	if ok {
		memory.Free(d.callbacks)
		d.bufferMemory.Delete(buffer)
	}
}

func (d *Device) CreateImage(info core1_0.ImageCreateInfo, memoryFlags core1_0.MemoryPropertyFlags) (core1_0.Image, error) {
	d.logger.Debug("Device::CreateImage")

	image, _, err := d.device.CreateImage(d.callbacks, info)
	if err != nil {
		return nil, err
	}

	memory, err := d.allocate(image.MemoryRequirements(), memoryFlags)
	if err != nil {
		image.Destroy(d.callbacks)
		return nil, err
	}

	_, err = image.BindImageMemory(memory, 0)
	if err != nil {
		image.Destroy(d.callbacks)
		memory.Free(d.callbacks)
		return nil, errors.Wrap(err, "failed to bind image memory")
	}

	d.imageMemory.Put(image, memory)
	return image, nil
}

func (d *Device) DestroyImage(image core1_0.Image) {
	d.logger.Debug("Device::DestroyImage")

	image.Destroy(d.callbacks)

	memory, ok := d.imageMemory.Get(image)
	if ok {
		memory.Free(d.callbacks)
		d.imageMemory.Delete(image)
	}
}
