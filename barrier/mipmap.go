package barrier

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// MipmapOptions carries the device information needed to pick a blit filter
type MipmapOptions struct {
	// FormatFeatures is the optimal-tiling feature set of the image's format
	FormatFeatures core1_0.FormatFeatureFlags
}

// MipmapFilter returns the filter used to downsample the image: linear when the format supports linear
// filtering and the image is not depth/stencil, nearest otherwise
func MipmapFilter(image *TrackedImage, options MipmapOptions) core1_0.Filter {
	if options.FormatFeatures&core1_0.FormatFeatureSampledImageFilterLinear != 0 && !image.IsDepthStencil() {
		return core1_0.FilterLinear
	}

	return core1_0.FilterNearest
}

func halve(value int) int {
	if value > 1 {
		return value / 2
	}
	return 1
}

// GenerateMipmaps fills mip levels 1..N-1 of every array layer by repeatedly blitting each level down from
// the one above it. Level 0 must already hold the image contents. When finished, the whole image is
// returned to the state it was in before the call; images that started out undefined are left as transfer
// sources since an image cannot transition back into the undefined layout.
func GenerateMipmaps(recorder Recorder, image *TrackedImage, options MipmapOptions) error {
	if image.MipLevels <= 1 {
		return nil
	}

	original := image.State
	transferSource := StateOf(StateTransferSource)
	transferDestination := StateOf(StateTransferDestination)
	filter := MipmapFilter(image, options)

	var batch Batch
	batch.AddImage(ImageBarrier{
		Image: image.Image,
		Old:   original,
		New:   transferSource,
		Range: image.LevelRange(0, 0, image.ArrayLayers),
	})
	err := batch.Record(recorder)
	if err != nil {
		return errors.Wrap(err, "failed to transition mip level 0 to a transfer source")
	}

	for layer := 0; layer < image.ArrayLayers; layer++ {
		width, height, depth := image.Extent.Width, image.Extent.Height, image.Extent.Depth

		for level := 1; level < image.MipLevels; level++ {
			nextWidth, nextHeight, nextDepth := halve(width), halve(height), halve(depth)
			levelRange := image.LevelRange(level, layer, 1)

			// Levels above 0 still hold whatever state the image had before generation began
			batch.AddImage(ImageBarrier{Image: image.Image, Old: original, New: transferDestination, Range: levelRange})
			err = batch.Record(recorder)
			if err != nil {
				return errors.Wrapf(err, "failed to transition mip level %d of layer %d to a transfer destination", level, layer)
			}

			err = recorder.CmdBlitImage(
				image.Image, core1_0.ImageLayoutTransferSrcOptimal,
				image.Image, core1_0.ImageLayoutTransferDstOptimal,
				[]core1_0.ImageBlit{
					{
						SrcSubresource: core1_0.ImageSubresourceLayers{
							AspectMask:     image.Aspect,
							MipLevel:       level - 1,
							BaseArrayLayer: layer,
							LayerCount:     1,
						},
						SrcOffsets: [2]core1_0.Offset3D{
							{X: 0, Y: 0, Z: 0},
							{X: width, Y: height, Z: depth},
						},
						DstSubresource: core1_0.ImageSubresourceLayers{
							AspectMask:     image.Aspect,
							MipLevel:       level,
							BaseArrayLayer: layer,
							LayerCount:     1,
						},
						DstOffsets: [2]core1_0.Offset3D{
							{X: 0, Y: 0, Z: 0},
							{X: nextWidth, Y: nextHeight, Z: nextDepth},
						},
					},
				},
				filter,
			)
			if err != nil {
				return errors.Wrapf(err, "failed to blit mip level %d of layer %d", level, layer)
			}

			batch.AddImage(ImageBarrier{Image: image.Image, Old: transferDestination, New: transferSource, Range: levelRange})
			err = batch.Record(recorder)
			if err != nil {
				return errors.Wrapf(err, "failed to transition mip level %d of layer %d to a transfer source", level, layer)
			}

			width, height, depth = nextWidth, nextHeight, nextDepth
		}
	}

	image.State = transferSource
	if original.Layout == core1_0.ImageLayoutUndefined {
		return nil
	}

	batch.AddImage(ImageBarrier{Image: image.Image, Old: transferSource, New: original, Range: image.WholeRange()})
	err = batch.Record(recorder)
	if err != nil {
		return errors.Wrap(err, "failed to return mipmapped image to its original state")
	}
	image.State = original

	return nil
}
