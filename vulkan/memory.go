package vulkan

import (
	"math"
	"math/bits"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// findMemoryTypeIndex picks the memory type allowed by memoryTypeBits that has every required property
// flag and the fewest properties beyond them
func findMemoryTypeIndex(memoryTypes []core1_0.MemoryType, memoryTypeBits uint32, requiredFlags core1_0.MemoryPropertyFlags) (int, error) {
	bestMemoryTypeIndex := -1
	minCost := math.MaxInt

	for memTypeIndex := 0; memTypeIndex < len(memoryTypes); memTypeIndex++ {
		memTypeBit := uint32(1 << memTypeIndex)

		if memTypeBit&memoryTypeBits == 0 {
			continue
		}

		flags := memoryTypes[memTypeIndex].PropertyFlags
		if requiredFlags&flags != requiredFlags {
			continue
		}

		cost := bits.OnesCount32(uint32(flags &^ requiredFlags))
		if cost == 0 {
			return memTypeIndex, nil
		} else if cost < minCost {
			bestMemoryTypeIndex = memTypeIndex
			minCost = cost
		}
	}

	if bestMemoryTypeIndex < 0 {
		return -1, errors.Wrapf(core1_0.VKErrorFeatureNotPresent.ToError(), "no memory type in mask %#x has properties %s", memoryTypeBits, requiredFlags)
	}

	return bestMemoryTypeIndex, nil
}
