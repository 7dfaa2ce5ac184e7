package barrier

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// WholeSize covers a buffer from the barrier's offset to its end. It becomes VK_WHOLE_SIZE when converted
// to a VkDeviceSize.
const WholeSize = -1

// ImageBarrier describes the transition of a range of an image from one state to another
type ImageBarrier struct {
	Image core1_0.Image
	Old   ResourceState
	New   ResourceState
	Range core1_0.ImageSubresourceRange
}

// IsNoOp returns true if recording the barrier would not protect against any hazard: the state does not
// change and the state only reads
func (b ImageBarrier) IsNoOp() bool {
	return b.Old == b.New && !b.New.Writes()
}

func (b ImageBarrier) vulkanBarrier() core1_0.ImageMemoryBarrier {
	// Equal queue family indices: no ownership transfer
	return core1_0.ImageMemoryBarrier{
		SrcAccessMask:    b.Old.Access,
		DstAccessMask:    b.New.Access,
		OldLayout:        b.Old.Layout,
		NewLayout:        b.New.Layout,
		Image:            b.Image,
		SubresourceRange: b.Range,
	}
}

// BufferBarrier describes the transition of a buffer from one state to another
type BufferBarrier struct {
	Buffer core1_0.Buffer
	Old    ResourceState
	New    ResourceState
	Offset int
	Size   int
}

// IsNoOp returns true if recording the barrier would not protect against any hazard
func (b BufferBarrier) IsNoOp() bool {
	return b.Old == b.New && !b.New.Writes()
}

func (b BufferBarrier) vulkanBarrier() core1_0.BufferMemoryBarrier {
	return core1_0.BufferMemoryBarrier{
		SrcAccessMask: b.Old.Access,
		DstAccessMask: b.New.Access,
		Buffer:        b.Buffer,
		Offset:        b.Offset,
		Size:          b.Size,
	}
}

// ResolveState returns the concrete ResourceState the image will be in after a transition to the provided
// state: StateAttachment becomes a color or depth target depending on the image, and depth images that
// are also resolve targets pick up the color output stage.
func (i *TrackedImage) ResolveState(state State) (ResourceState, error) {
	if !state.IsImageState() {
		return ResourceState{}, errors.Newf("%s cannot be applied to an image", state)
	}
	if state == StateUndefined {
		return ResourceState{}, errors.New("an image cannot be transitioned to StateUndefined")
	}

	if state == StateAttachment {
		if i.IsDepthStencil() || i.Usage&core1_0.ImageUsageDepthStencilAttachment != 0 {
			state = StateDepthTarget
		} else {
			state = StateColorTarget
		}
	}

	resolved := StateOf(state)
	if state == StateDepthTarget && i.Flags&ImageFlagResolveTarget != 0 {
		resolved.Stage |= core1_0.PipelineStageColorAttachmentOutput
		resolved.Access |= core1_0.AccessColorAttachmentWrite
	}

	return resolved, nil
}

// TransitionImage computes the barrier that moves the provided range of an image from its current state
// to the requested one, then records the requested state as the image's current state. Transitioning to
// the state the image is already in produces a barrier whose old and new states are identical.
func TransitionImage(image *TrackedImage, state State, subresources core1_0.ImageSubresourceRange) (ImageBarrier, error) {
	next, err := image.ResolveState(state)
	if err != nil {
		return ImageBarrier{}, err
	}

	barrier := ImageBarrier{
		Image: image.Image,
		Old:   image.State,
		New:   next,
		Range: subresources,
	}
	image.State = next

	return barrier, nil
}

// TransitionBuffer computes the barrier that moves a whole buffer from its current state to the requested
// one, then records the requested state as the buffer's current state
func TransitionBuffer(buffer *TrackedBuffer, state State) (BufferBarrier, error) {
	if !state.IsBufferState() {
		return BufferBarrier{}, errors.Newf("%s cannot be applied to a buffer", state)
	}

	next := StateOf(state)
	next.Layout = core1_0.ImageLayoutUndefined

	barrier := BufferBarrier{
		Buffer: buffer.Buffer,
		Old:    buffer.State,
		New:    next,
		Offset: 0,
		Size:   WholeSize,
	}
	buffer.State = next

	return barrier, nil
}
