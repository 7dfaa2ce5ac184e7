package resources

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/conductor/barrier"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// BufferDesc describes a buffer to create
type BufferDesc struct {
	Size  int
	Usage core1_0.BufferUsageFlags

	// MemoryFlags are the properties the buffer's memory must have. Zero selects device-local memory.
	MemoryFlags core1_0.MemoryPropertyFlags
}

func (d BufferDesc) createInfo() (core1_0.BufferCreateInfo, error) {
	if d.Size <= 0 {
		return core1_0.BufferCreateInfo{}, errors.Newf("buffer size must be positive, but was %d", d.Size)
	}
	if d.Usage == 0 {
		return core1_0.BufferCreateInfo{}, errors.New("buffer usage must not be empty")
	}

	return core1_0.BufferCreateInfo{
		Size:        d.Size,
		Usage:       d.Usage,
		SharingMode: core1_0.SharingModeExclusive,
	}, nil
}

// ImageDesc describes an image to create or import. Zero MipLevels, ArrayLayers, Samples, and Type
// select a single-sampled 2D image with one level and one layer.
type ImageDesc struct {
	Type        core1_0.ImageType
	Format      core1_0.Format
	Extent      core1_0.Extent3D
	MipLevels   int
	ArrayLayers int
	Samples     core1_0.SampleCountFlags
	Usage       core1_0.ImageUsageFlags

	// Aspect is the set of aspects covered by barriers on this image. Zero selects the color aspect.
	Aspect core1_0.ImageAspectFlags
	Flags  barrier.ImageFlags

	// MemoryFlags are the properties the image's memory must have. Zero selects device-local memory.
	MemoryFlags core1_0.MemoryPropertyFlags
}

func (d ImageDesc) normalized() ImageDesc {
	if d.Type == 0 {
		d.Type = core1_0.ImageType2D
	}
	if d.MipLevels < 1 {
		d.MipLevels = 1
	}
	if d.ArrayLayers < 1 {
		d.ArrayLayers = 1
	}
	if d.Samples == 0 {
		d.Samples = core1_0.Samples1
	}
	if d.Extent.Depth < 1 {
		d.Extent.Depth = 1
	}
	if d.Aspect == 0 {
		d.Aspect = core1_0.ImageAspectColor
	}
	return d
}

func (d ImageDesc) createInfo() (core1_0.ImageCreateInfo, error) {
	if d.Extent.Width <= 0 || d.Extent.Height <= 0 {
		return core1_0.ImageCreateInfo{}, errors.Newf("image extent must be positive, but was %dx%d", d.Extent.Width, d.Extent.Height)
	}
	if d.Usage == 0 {
		return core1_0.ImageCreateInfo{}, errors.New("image usage must not be empty")
	}

	return core1_0.ImageCreateInfo{
		ImageType:     d.Type,
		Format:        d.Format,
		Extent:        d.Extent,
		MipLevels:     d.MipLevels,
		ArrayLayers:   d.ArrayLayers,
		Samples:       d.Samples,
		Tiling:        core1_0.ImageTilingOptimal,
		Usage:         d.Usage,
		SharingMode:   core1_0.SharingModeExclusive,
		InitialLayout: core1_0.ImageLayoutUndefined,
	}, nil
}

func memoryFlagsOrDefault(flags core1_0.MemoryPropertyFlags) core1_0.MemoryPropertyFlags {
	if flags == 0 {
		return core1_0.MemoryPropertyDeviceLocal
	}
	return flags
}
