package barrier_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/conductor/barrier"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
)

func TestStateTable(t *testing.T) {
	testCases := []struct {
		State  barrier.State
		Stage  core1_0.PipelineStageFlags
		Access core1_0.AccessFlags
		Layout core1_0.ImageLayout
	}{
		{barrier.StateUndefined, core1_0.PipelineStageTopOfPipe, 0, core1_0.ImageLayoutUndefined},
		{barrier.StateColorTarget, core1_0.PipelineStageColorAttachmentOutput, core1_0.AccessColorAttachmentRead | core1_0.AccessColorAttachmentWrite, core1_0.ImageLayoutColorAttachmentOptimal},
		{barrier.StateDepthTarget, core1_0.PipelineStageEarlyFragmentTests | core1_0.PipelineStageLateFragmentTests, core1_0.AccessDepthStencilAttachmentRead | core1_0.AccessDepthStencilAttachmentWrite, core1_0.ImageLayoutDepthStencilAttachmentOptimal},
		{barrier.StateShaderReadOnly, core1_0.PipelineStageVertexShader | core1_0.PipelineStageFragmentShader | core1_0.PipelineStageComputeShader, core1_0.AccessShaderRead, core1_0.ImageLayoutShaderReadOnlyOptimal},
		{barrier.StateTransferSource, core1_0.PipelineStageTransfer, core1_0.AccessTransferRead, core1_0.ImageLayoutTransferSrcOptimal},
		{barrier.StateTransferDestination, core1_0.PipelineStageTransfer, core1_0.AccessTransferWrite, core1_0.ImageLayoutTransferDstOptimal},
		{barrier.StateGeneral, core1_0.PipelineStageVertexShader | core1_0.PipelineStageFragmentShader | core1_0.PipelineStageComputeShader, core1_0.AccessShaderRead | core1_0.AccessShaderWrite, core1_0.ImageLayoutGeneral},
		{barrier.StatePresent, core1_0.PipelineStageBottomOfPipe, 0, khr_swapchain.ImageLayoutPresentSrc},
		{barrier.StateVertexInput, core1_0.PipelineStageVertexInput, core1_0.AccessIndexRead | core1_0.AccessVertexAttributeRead, core1_0.ImageLayoutUndefined},
		{barrier.StateIndirectArgument, core1_0.PipelineStageDrawIndirect, core1_0.AccessIndirectCommandRead, core1_0.ImageLayoutUndefined},
	}

	for _, testCase := range testCases {
		t.Run(testCase.State.String(), func(t *testing.T) {
			stage, access := barrier.StageAccess(testCase.State)
			require.Equal(t, testCase.Stage, stage)
			require.Equal(t, testCase.Access, access)
			require.Equal(t, testCase.Layout, barrier.ImageLayout(testCase.State))

			state := barrier.StateOf(testCase.State)
			require.Equal(t, testCase.Stage, state.Stage)
			require.Equal(t, testCase.Access, state.Access)
			require.Equal(t, testCase.Layout, state.Layout)
		})
	}
}

func TestStateWrites(t *testing.T) {
	require.True(t, barrier.StateOf(barrier.StateColorTarget).Writes())
	require.True(t, barrier.StateOf(barrier.StateDepthTarget).Writes())
	require.True(t, barrier.StateOf(barrier.StateTransferDestination).Writes())
	require.True(t, barrier.StateOf(barrier.StateGeneral).Writes())

	require.False(t, barrier.StateOf(barrier.StateUndefined).Writes())
	require.False(t, barrier.StateOf(barrier.StateShaderReadOnly).Writes())
	require.False(t, barrier.StateOf(barrier.StateTransferSource).Writes())
	require.False(t, barrier.StateOf(barrier.StateVertexInput).Writes())
	require.False(t, barrier.StateOf(barrier.StateIndirectArgument).Writes())
}

func TestStateApplicability(t *testing.T) {
	require.True(t, barrier.StateColorTarget.IsImageState())
	require.True(t, barrier.StateAttachment.IsImageState())
	require.False(t, barrier.StateVertexInput.IsImageState())
	require.False(t, barrier.StateUniformRead.IsImageState())

	require.True(t, barrier.StateVertexInput.IsBufferState())
	require.True(t, barrier.StateTransferDestination.IsBufferState())
	require.False(t, barrier.StateColorTarget.IsBufferState())
	require.False(t, barrier.StatePresent.IsBufferState())

	require.Equal(t, "StateColorTarget", barrier.StateColorTarget.String())
	require.Equal(t, "StateUnknown", barrier.State(100).String())
}
