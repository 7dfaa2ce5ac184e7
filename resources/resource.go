package resources

import (
	"fmt"

	"github.com/vkngwrapper/conductor/barrier"
	"github.com/vkngwrapper/conductor/handles"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// BufferHandle names a buffer owned by a Manager. The zero value names nothing.
type BufferHandle struct {
	handle handles.Handle
}

func (h BufferHandle) IsEmpty() bool { return h.handle.IsEmpty() }

func (h BufferHandle) String() string {
	return fmt.Sprintf("Buffer%s", h.handle)
}

// ImageHandle names an image owned or imported by a Manager. The zero value names nothing.
type ImageHandle struct {
	handle handles.Handle
}

func (h ImageHandle) IsEmpty() bool { return h.handle.IsEmpty() }

func (h ImageHandle) String() string {
	return fmt.Sprintf("Image%s", h.handle)
}

// Buffer is a managed buffer along with its tracked state. Pass &TrackedBuffer to the ring's transition
// methods.
type Buffer struct {
	barrier.TrackedBuffer
	Usage       core1_0.BufferUsageFlags
	MemoryFlags core1_0.MemoryPropertyFlags
}

// Image is a managed image along with its tracked state. Pass &TrackedImage to the ring's transition
// methods.
type Image struct {
	barrier.TrackedImage
	Format core1_0.Format

	imported bool
}

// Imported returns true for images whose native object is owned outside of the Manager
func (i *Image) Imported() bool {
	return i.imported
}
