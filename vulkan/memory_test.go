package vulkan

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
)

var testMemoryTypes = []core1_0.MemoryType{
	{PropertyFlags: core1_0.MemoryPropertyDeviceLocal | core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent, HeapIndex: 0},
	{PropertyFlags: core1_0.MemoryPropertyDeviceLocal, HeapIndex: 0},
	{PropertyFlags: core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent, HeapIndex: 1},
	{PropertyFlags: core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent | core1_0.MemoryPropertyHostCached, HeapIndex: 1},
}

func TestFindMemoryTypeExactMatch(t *testing.T) {
	index, err := findMemoryTypeIndex(testMemoryTypes, 0xF, core1_0.MemoryPropertyDeviceLocal)
	require.NoError(t, err)
	require.Equal(t, 1, index)

	index, err = findMemoryTypeIndex(testMemoryTypes, 0xF, core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
	require.NoError(t, err)
	require.Equal(t, 2, index)
}

func TestFindMemoryTypeRespectsTypeBits(t *testing.T) {
	// Type 1 is masked out, so the device-local + host-visible type is the only candidate
	index, err := findMemoryTypeIndex(testMemoryTypes, 0x1, core1_0.MemoryPropertyDeviceLocal)
	require.NoError(t, err)
	require.Equal(t, 0, index)
}

func TestFindMemoryTypeFewestExtraFlags(t *testing.T) {
	// Equal cost goes to the lower index
	index, err := findMemoryTypeIndex(testMemoryTypes, 0x9, core1_0.MemoryPropertyHostVisible)
	require.NoError(t, err)
	require.Equal(t, 0, index)

	index, err = findMemoryTypeIndex(testMemoryTypes, 0xD, core1_0.MemoryPropertyHostVisible)
	require.NoError(t, err)
	require.Equal(t, 2, index)
}

func TestFindMemoryTypeNoMatch(t *testing.T) {
	_, err := findMemoryTypeIndex(testMemoryTypes, 0xF, core1_0.MemoryPropertyLazilyAllocated)
	require.Error(t, err)

	_, err = findMemoryTypeIndex(testMemoryTypes, 0x0, core1_0.MemoryPropertyDeviceLocal)
	require.Error(t, err)
}
