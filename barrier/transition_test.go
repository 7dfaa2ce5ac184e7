package barrier_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/conductor/barrier"
	"github.com/vkngwrapper/core/v2/core1_0"
)

func colorImage(mipLevels int) *barrier.TrackedImage {
	return barrier.NewTrackedImage(
		nil,
		core1_0.Extent3D{Width: 64, Height: 64, Depth: 1},
		mipLevels, 1,
		core1_0.ImageAspectColor,
		core1_0.ImageUsageColorAttachment|core1_0.ImageUsageSampled,
		0,
	)
}

func depthImage(flags barrier.ImageFlags) *barrier.TrackedImage {
	return barrier.NewTrackedImage(
		nil,
		core1_0.Extent3D{Width: 64, Height: 64, Depth: 1},
		1, 1,
		core1_0.ImageAspectDepth,
		core1_0.ImageUsageDepthStencilAttachment,
		flags,
	)
}

func TestNewTrackedImageStartsUndefined(t *testing.T) {
	image := barrier.NewTrackedImage(nil, core1_0.Extent3D{Width: 1, Height: 1, Depth: 1}, 0, 0, core1_0.ImageAspectColor, core1_0.ImageUsageSampled, 0)

	require.Equal(t, barrier.StateOf(barrier.StateUndefined), image.State)
	require.Equal(t, 1, image.MipLevels)
	require.Equal(t, 1, image.ArrayLayers)
	require.Equal(t, core1_0.ImageSubresourceRange{
		AspectMask:     core1_0.ImageAspectColor,
		BaseMipLevel:   0,
		LevelCount:     1,
		BaseArrayLayer: 0,
		LayerCount:     1,
	}, image.WholeRange())
}

func TestTransitionChaining(t *testing.T) {
	image := colorImage(1)

	toColor, err := barrier.TransitionImage(image, barrier.StateColorTarget, image.WholeRange())
	require.NoError(t, err)
	require.Equal(t, barrier.StateOf(barrier.StateUndefined), toColor.Old)
	require.Equal(t, barrier.StateOf(barrier.StateColorTarget), toColor.New)

	toShader, err := barrier.TransitionImage(image, barrier.StateShaderReadOnly, image.WholeRange())
	require.NoError(t, err)
	require.Equal(t, toColor.New.Stage, toShader.Old.Stage)
	require.Equal(t, toColor.New.Access, toShader.Old.Access)
	require.Equal(t, toColor.New.Layout, toShader.Old.Layout)
	require.Equal(t, barrier.StateOf(barrier.StateShaderReadOnly), image.State)
}

func TestTransitionIdempotence(t *testing.T) {
	image := colorImage(1)

	_, err := barrier.TransitionImage(image, barrier.StateShaderReadOnly, image.WholeRange())
	require.NoError(t, err)

	again, err := barrier.TransitionImage(image, barrier.StateShaderReadOnly, image.WholeRange())
	require.NoError(t, err)
	require.Equal(t, again.Old, again.New)
	require.True(t, again.IsNoOp())

	// Repeated writes still need a barrier between them
	_, err = barrier.TransitionImage(image, barrier.StateColorTarget, image.WholeRange())
	require.NoError(t, err)
	again, err = barrier.TransitionImage(image, barrier.StateColorTarget, image.WholeRange())
	require.NoError(t, err)
	require.Equal(t, again.Old, again.New)
	require.False(t, again.IsNoOp())
}

func TestAttachmentResolution(t *testing.T) {
	color := colorImage(1)
	state, err := color.ResolveState(barrier.StateAttachment)
	require.NoError(t, err)
	require.Equal(t, barrier.StateOf(barrier.StateColorTarget), state)

	depth := depthImage(0)
	state, err = depth.ResolveState(barrier.StateAttachment)
	require.NoError(t, err)
	require.Equal(t, barrier.StateOf(barrier.StateDepthTarget), state)

	transition, err := barrier.TransitionImage(depth, barrier.StateAttachment, depth.WholeRange())
	require.NoError(t, err)
	require.Equal(t, core1_0.ImageLayoutDepthStencilAttachmentOptimal, transition.New.Layout)
}

func TestDepthResolveTarget(t *testing.T) {
	depth := depthImage(barrier.ImageFlagResolveTarget)

	transition, err := barrier.TransitionImage(depth, barrier.StateDepthTarget, depth.WholeRange())
	require.NoError(t, err)

	depthState := barrier.StateOf(barrier.StateDepthTarget)
	require.Equal(t, depthState.Stage|core1_0.PipelineStageColorAttachmentOutput, transition.New.Stage)
	require.Equal(t, depthState.Access|core1_0.AccessColorAttachmentWrite, transition.New.Access)
	require.Equal(t, depthState.Layout, transition.New.Layout)

	// Color resolve targets are unaffected
	color := barrier.NewTrackedImage(nil, core1_0.Extent3D{Width: 4, Height: 4, Depth: 1}, 1, 1, core1_0.ImageAspectColor, core1_0.ImageUsageColorAttachment, barrier.ImageFlagResolveTarget)
	state, err := color.ResolveState(barrier.StateColorTarget)
	require.NoError(t, err)
	require.Equal(t, barrier.StateOf(barrier.StateColorTarget), state)
}

func TestTransitionRejectsWrongResourceKind(t *testing.T) {
	image := colorImage(1)
	_, err := barrier.TransitionImage(image, barrier.StateVertexInput, image.WholeRange())
	require.Error(t, err)
	require.Equal(t, barrier.StateOf(barrier.StateUndefined), image.State)

	buffer := barrier.NewTrackedBuffer(nil, 128)
	_, err = barrier.TransitionBuffer(buffer, barrier.StateColorTarget)
	require.Error(t, err)
	require.Equal(t, barrier.StateOf(barrier.StateUndefined), buffer.State)
}

func TestTransitionImageRejectsUndefined(t *testing.T) {
	image := colorImage(1)
	_, err := barrier.TransitionImage(image, barrier.StateShaderReadOnly, image.WholeRange())
	require.NoError(t, err)

	_, err = barrier.TransitionImage(image, barrier.StateUndefined, image.WholeRange())
	require.Error(t, err)
	require.Equal(t, barrier.StateOf(barrier.StateShaderReadOnly), image.State)

	_, err = image.ResolveState(barrier.StateUndefined)
	require.Error(t, err)
}

func TestTransitionBufferCoversWholeBuffer(t *testing.T) {
	buffer := barrier.NewTrackedBuffer(nil, 256)

	transition, err := barrier.TransitionBuffer(buffer, barrier.StateTransferDestination)
	require.NoError(t, err)
	require.Equal(t, 0, transition.Offset)
	require.Equal(t, barrier.WholeSize, transition.Size)
}

func TestBufferReadHazards(t *testing.T) {
	buffer := barrier.NewTrackedBuffer(nil, 1024)

	upload, err := barrier.TransitionBuffer(buffer, barrier.StateTransferDestination)
	require.NoError(t, err)
	require.Equal(t, core1_0.PipelineStageTransfer, upload.New.Stage)

	// Index fetch happens at the vertex input stage, so the upload must be visible there
	toIndex, err := barrier.TransitionBuffer(buffer, barrier.StateVertexInput)
	require.NoError(t, err)
	require.Equal(t, core1_0.AccessTransferWrite, toIndex.Old.Access)
	require.Equal(t, core1_0.PipelineStageVertexInput, toIndex.New.Stage)
	require.Equal(t, core1_0.AccessIndexRead|core1_0.AccessVertexAttributeRead, toIndex.New.Access)

	_, err = barrier.TransitionBuffer(buffer, barrier.StateGeneral)
	require.NoError(t, err)
	toIndirect, err := barrier.TransitionBuffer(buffer, barrier.StateIndirectArgument)
	require.NoError(t, err)
	require.Equal(t, core1_0.PipelineStageDrawIndirect, toIndirect.New.Stage)
	require.Equal(t, core1_0.AccessIndirectCommandRead, toIndirect.New.Access)
	require.Equal(t, core1_0.ImageLayoutUndefined, toIndirect.New.Layout)
	require.Equal(t, 0, toIndirect.Offset)
}
