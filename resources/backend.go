package resources

import (
	"github.com/vkngwrapper/core/v2/core1_0"
)

//go:generate mockgen -destination ../mocks/resources.go -package mocks github.com/vkngwrapper/conductor/resources Backend

// Backend creates and destroys the native objects behind managed resources. Memory is bound by the backend:
// objects it returns are ready for use.
type Backend interface {
	CreateBuffer(info core1_0.BufferCreateInfo, memoryFlags core1_0.MemoryPropertyFlags) (core1_0.Buffer, error)
	DestroyBuffer(buffer core1_0.Buffer)
	CreateImage(info core1_0.ImageCreateInfo, memoryFlags core1_0.MemoryPropertyFlags) (core1_0.Image, error)
	DestroyImage(image core1_0.Image)
}

// Reclaimer defers an action until all GPU work recorded so far has completed. *ring.Ring satisfies it.
type Reclaimer interface {
	Enqueue(action func())
}
