package barrier

import (
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// ImageFlags declare usage details of an image that affect the barriers computed for it
type ImageFlags int32

var imageFlagsMapping = common.NewFlagStringMapping[ImageFlags]()

func (f ImageFlags) Register(str string) {
	imageFlagsMapping.Register(f, str)
}
func (f ImageFlags) String() string {
	return imageFlagsMapping.FlagsToString(f)
}

const (
	// ImageFlagResolveTarget marks an image that multisampled attachments are resolved into. A depth image
	// with this flag is written by the resolve at the color output stage in the same subpass, so that stage
	// is folded into its depth target state.
	ImageFlagResolveTarget ImageFlags = 1 << iota
)

func init() {
	ImageFlagResolveTarget.Register("ImageFlagResolveTarget")
}

// TrackedImage is an image together with the state it was last used in
type TrackedImage struct {
	Image       core1_0.Image
	Extent      core1_0.Extent3D
	MipLevels   int
	ArrayLayers int
	Aspect      core1_0.ImageAspectFlags
	Usage       core1_0.ImageUsageFlags
	Flags       ImageFlags

	State ResourceState
}

// NewTrackedImage starts tracking an image in StateUndefined. MipLevels and ArrayLayers less than 1 are
// treated as 1.
func NewTrackedImage(image core1_0.Image, extent core1_0.Extent3D, mipLevels, arrayLayers int, aspect core1_0.ImageAspectFlags, usage core1_0.ImageUsageFlags, flags ImageFlags) *TrackedImage {
	if mipLevels < 1 {
		mipLevels = 1
	}
	if arrayLayers < 1 {
		arrayLayers = 1
	}

	return &TrackedImage{
		Image:       image,
		Extent:      extent,
		MipLevels:   mipLevels,
		ArrayLayers: arrayLayers,
		Aspect:      aspect,
		Usage:       usage,
		Flags:       flags,
		State:       StateOf(StateUndefined),
	}
}

// IsDepthStencil returns true for images with a depth or stencil aspect
func (i *TrackedImage) IsDepthStencil() bool {
	return i.Aspect&(core1_0.ImageAspectDepth|core1_0.ImageAspectStencil) != 0
}

// WholeRange returns a subresource range covering every mip level and array layer of the image
func (i *TrackedImage) WholeRange() core1_0.ImageSubresourceRange {
	return core1_0.ImageSubresourceRange{
		AspectMask:     i.Aspect,
		BaseMipLevel:   0,
		LevelCount:     i.MipLevels,
		BaseArrayLayer: 0,
		LayerCount:     i.ArrayLayers,
	}
}

// LevelRange returns a subresource range covering a single mip level of layerCount array layers
func (i *TrackedImage) LevelRange(level, baseLayer, layerCount int) core1_0.ImageSubresourceRange {
	return core1_0.ImageSubresourceRange{
		AspectMask:     i.Aspect,
		BaseMipLevel:   level,
		LevelCount:     1,
		BaseArrayLayer: baseLayer,
		LayerCount:     layerCount,
	}
}

// TrackedBuffer is a buffer together with the state it was last used in
type TrackedBuffer struct {
	Buffer core1_0.Buffer
	Size   int

	State ResourceState
}

// NewTrackedBuffer starts tracking a buffer in StateUndefined
func NewTrackedBuffer(buffer core1_0.Buffer, size int) *TrackedBuffer {
	return &TrackedBuffer{
		Buffer: buffer,
		Size:   size,
		State:  StateOf(StateUndefined),
	}
}
