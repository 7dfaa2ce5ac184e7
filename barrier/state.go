package barrier

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
)

// State is a logical usage of a resource. Each State implies the pipeline stages that touch the resource,
// the kinds of memory access performed there, and (for images) the layout the resource must be in.
type State uint32

const (
	// StateUndefined is the state of a freshly-created resource. Contents are not preserved when leaving it.
	StateUndefined State = iota
	// StateColorTarget is a color attachment being rendered to
	StateColorTarget
	// StateDepthTarget is a depth/stencil attachment being tested against and written
	StateDepthTarget
	// StateShaderReadOnly is a resource sampled or read from any shader stage
	StateShaderReadOnly
	// StateTransferSource is the source of a copy or blit
	StateTransferSource
	// StateTransferDestination is the destination of a copy, blit or clear
	StateTransferDestination
	// StateGeneral is read-write storage access from shaders
	StateGeneral
	// StatePresent is a swapchain image handed to the presentation engine
	StatePresent

	// StateAttachment resolves to StateColorTarget or StateDepthTarget depending on the image it is
	// applied to
	StateAttachment

	// StateVertexInput is a buffer read by fixed-function vertex and index fetch
	StateVertexInput
	// StateIndirectArgument is a buffer read as the arguments of an indirect draw or dispatch
	StateIndirectArgument
	// StateUniformRead is a buffer bound as a uniform buffer
	StateUniformRead
)

var stateMapping = map[State]string{
	StateUndefined:           "StateUndefined",
	StateColorTarget:         "StateColorTarget",
	StateDepthTarget:         "StateDepthTarget",
	StateShaderReadOnly:      "StateShaderReadOnly",
	StateTransferSource:      "StateTransferSource",
	StateTransferDestination: "StateTransferDestination",
	StateGeneral:             "StateGeneral",
	StatePresent:             "StatePresent",
	StateAttachment:          "StateAttachment",
	StateVertexInput:         "StateVertexInput",
	StateIndirectArgument:    "StateIndirectArgument",
	StateUniformRead:         "StateUniformRead",
}

func (s State) String() string {
	str, ok := stateMapping[s]
	if !ok {
		return "StateUnknown"
	}
	return str
}

// IsImageState returns true if the state can be applied to an image
func (s State) IsImageState() bool {
	return s <= StateAttachment
}

// IsBufferState returns true if the state can be applied to a buffer
func (s State) IsBufferState() bool {
	switch s {
	case StateUndefined, StateShaderReadOnly, StateTransferSource, StateTransferDestination, StateGeneral,
		StateVertexInput, StateIndirectArgument, StateUniformRead:
		return true
	}
	return false
}

const allShaderStages = core1_0.PipelineStageVertexShader | core1_0.PipelineStageFragmentShader | core1_0.PipelineStageComputeShader

const writeAccesses = core1_0.AccessShaderWrite |
	core1_0.AccessColorAttachmentWrite |
	core1_0.AccessDepthStencilAttachmentWrite |
	core1_0.AccessTransferWrite |
	core1_0.AccessHostWrite |
	core1_0.AccessMemoryWrite

// StageAccess returns the pipeline stages and access types implied by a state. StateAttachment has no
// stages of its own and returns zero masks.
func StageAccess(state State) (core1_0.PipelineStageFlags, core1_0.AccessFlags) {
	switch state {
	case StateUndefined:
		return core1_0.PipelineStageTopOfPipe, 0
	case StateColorTarget:
		return core1_0.PipelineStageColorAttachmentOutput,
			core1_0.AccessColorAttachmentRead | core1_0.AccessColorAttachmentWrite
	case StateDepthTarget:
		return core1_0.PipelineStageEarlyFragmentTests | core1_0.PipelineStageLateFragmentTests,
			core1_0.AccessDepthStencilAttachmentRead | core1_0.AccessDepthStencilAttachmentWrite
	case StateShaderReadOnly:
		return allShaderStages, core1_0.AccessShaderRead
	case StateTransferSource:
		return core1_0.PipelineStageTransfer, core1_0.AccessTransferRead
	case StateTransferDestination:
		return core1_0.PipelineStageTransfer, core1_0.AccessTransferWrite
	case StateGeneral:
		return allShaderStages, core1_0.AccessShaderRead | core1_0.AccessShaderWrite
	case StatePresent:
		return core1_0.PipelineStageBottomOfPipe, 0
	case StateVertexInput:
		// Index and vertex fetch happen before any shader stage runs
		return core1_0.PipelineStageVertexInput, core1_0.AccessIndexRead | core1_0.AccessVertexAttributeRead
	case StateIndirectArgument:
		return core1_0.PipelineStageDrawIndirect, core1_0.AccessIndirectCommandRead
	case StateUniformRead:
		return allShaderStages, core1_0.AccessUniformRead
	}

	return 0, 0
}

// ImageLayout returns the image layout implied by a state. States that do not apply to images return
// core1_0.ImageLayoutUndefined.
func ImageLayout(state State) core1_0.ImageLayout {
	switch state {
	case StateColorTarget:
		return core1_0.ImageLayoutColorAttachmentOptimal
	case StateDepthTarget:
		return core1_0.ImageLayoutDepthStencilAttachmentOptimal
	case StateShaderReadOnly:
		return core1_0.ImageLayoutShaderReadOnlyOptimal
	case StateTransferSource:
		return core1_0.ImageLayoutTransferSrcOptimal
	case StateTransferDestination:
		return core1_0.ImageLayoutTransferDstOptimal
	case StateGeneral:
		return core1_0.ImageLayoutGeneral
	case StatePresent:
		return khr_swapchain.ImageLayoutPresentSrc
	}

	return core1_0.ImageLayoutUndefined
}

// ResourceState is the stage, access, and layout that a resource was last used with
type ResourceState struct {
	Stage  core1_0.PipelineStageFlags
	Access core1_0.AccessFlags
	Layout core1_0.ImageLayout
}

// StateOf returns the full ResourceState implied by a State
func StateOf(state State) ResourceState {
	stage, access := StageAccess(state)
	return ResourceState{
		Stage:  stage,
		Access: access,
		Layout: ImageLayout(state),
	}
}

// Writes returns true if the state includes any write access
func (s ResourceState) Writes() bool {
	return s.Access&writeAccesses != 0
}
