package barrier

import (
	"github.com/vkngwrapper/core/v2/core1_0"
)

//go:generate mockgen -destination ../mocks/barrier.go -package mocks github.com/vkngwrapper/conductor/barrier Recorder

// Recorder is the subset of a command buffer that barriers and mip generation are recorded into.
// core1_0.CommandBuffer satisfies it.
type Recorder interface {
	CmdPipelineBarrier(srcStageMask, dstStageMask core1_0.PipelineStageFlags, dependencies core1_0.DependencyFlags, memoryBarriers []core1_0.MemoryBarrier, bufferMemoryBarriers []core1_0.BufferMemoryBarrier, imageMemoryBarriers []core1_0.ImageMemoryBarrier) error
	CmdBlitImage(sourceImage core1_0.Image, sourceImageLayout core1_0.ImageLayout, destinationImage core1_0.Image, destinationImageLayout core1_0.ImageLayout, regions []core1_0.ImageBlit, filter core1_0.Filter) error
}

// Batch accumulates image and buffer barriers so that they can be recorded with a single pipeline
// barrier command. Barriers that do not guard against any hazard are dropped as they are added.
type Batch struct {
	srcStage core1_0.PipelineStageFlags
	dstStage core1_0.PipelineStageFlags
	images   []core1_0.ImageMemoryBarrier
	buffers  []core1_0.BufferMemoryBarrier
}

func (b *Batch) AddImage(barrier ImageBarrier) {
	if barrier.IsNoOp() {
		return
	}

	b.srcStage |= barrier.Old.Stage
	b.dstStage |= barrier.New.Stage
	b.images = append(b.images, barrier.vulkanBarrier())
}

func (b *Batch) AddBuffer(barrier BufferBarrier) {
	if barrier.IsNoOp() {
		return
	}

	b.srcStage |= barrier.Old.Stage
	b.dstStage |= barrier.New.Stage
	b.buffers = append(b.buffers, barrier.vulkanBarrier())
}

// Empty returns true if no barriers are waiting to be recorded
func (b *Batch) Empty() bool {
	return len(b.images) == 0 && len(b.buffers) == 0
}

// Len is the number of barriers waiting to be recorded
func (b *Batch) Len() int {
	return len(b.images) + len(b.buffers)
}

// Reset drops all pending barriers while keeping allocated storage
func (b *Batch) Reset() {
	b.srcStage = 0
	b.dstStage = 0
	b.images = b.images[:0]
	b.buffers = b.buffers[:0]
}

// Record writes all pending barriers to the recorder and resets the batch. Recording an empty batch does
// nothing.
func (b *Batch) Record(recorder Recorder) error {
	if b.Empty() {
		return nil
	}

	srcStage := b.srcStage
	if srcStage == 0 {
		srcStage = core1_0.PipelineStageTopOfPipe
	}
	dstStage := b.dstStage
	if dstStage == 0 {
		dstStage = core1_0.PipelineStageBottomOfPipe
	}

	var images []core1_0.ImageMemoryBarrier
	if len(b.images) > 0 {
		images = append(images, b.images...)
	}
	var buffers []core1_0.BufferMemoryBarrier
	if len(b.buffers) > 0 {
		buffers = append(buffers, b.buffers...)
	}
	b.Reset()

	return recorder.CmdPipelineBarrier(srcStage, dstStage, 0, nil, buffers, images)
}
