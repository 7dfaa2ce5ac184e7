package resources

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/conductor/barrier"
	"github.com/vkngwrapper/conductor/handles"
	"github.com/vkngwrapper/conductor/syncutils"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

// Manager owns buffers and images on behalf of the renderer. Callers hold generation-checked handles
// instead of pointers, so a handle that outlives its resource fails to resolve instead of reaching freed
// memory. Destroying a resource invalidates its handle immediately but defers destruction of the native
// object until the GPU has finished with every submission recorded so far.
//
// Manager is not synchronized.
type Manager struct {
	logger    *slog.Logger
	backend   Backend
	reclaimer Reclaimer

	buffers *handles.Pool[*Buffer]
	images  *handles.Pool[*Image]

	imagesByNative *swiss.Map[core1_0.Image, ImageHandle]
	destroyed      bool
}

func NewManager(logger *slog.Logger, backend Backend, reclaimer Reclaimer) *Manager {
	return &Manager{
		logger:    logger,
		backend:   backend,
		reclaimer: reclaimer,

		buffers:        handles.NewPool[*Buffer](logger, 64),
		images:         handles.NewPool[*Image](logger, 64),
		imagesByNative: swiss.NewMap[core1_0.Image, ImageHandle](64),
	}
}

func (m *Manager) usable() error {
	if m.destroyed {
		return errors.Wrap(syncutils.ErrDestroyed, "the resource manager has been destroyed")
	}
	return nil
}

// CreateBuffer creates a buffer in StateUndefined and returns a handle to it
func (m *Manager) CreateBuffer(desc BufferDesc) (BufferHandle, error) {
	m.logger.Debug("Manager::CreateBuffer")

	err := m.usable()
	if err != nil {
		return BufferHandle{}, err
	}

	info, err := desc.createInfo()
	if err != nil {
		return BufferHandle{}, err
	}

	memoryFlags := memoryFlagsOrDefault(desc.MemoryFlags)
	native, err := m.backend.CreateBuffer(info, memoryFlags)
	if err != nil {
		return BufferHandle{}, errors.Wrapf(err, "failed to create buffer of %d bytes", desc.Size)
	}

	buffer := &Buffer{
		TrackedBuffer: *barrier.NewTrackedBuffer(native, desc.Size),
		Usage:         desc.Usage,
		MemoryFlags:   memoryFlags,
	}

	return BufferHandle{handle: m.buffers.Add(buffer)}, nil
}

func (m *Manager) trackImage(native core1_0.Image, desc ImageDesc, imported bool) ImageHandle {
	image := &Image{
		TrackedImage: *barrier.NewTrackedImage(native, desc.Extent, desc.MipLevels, desc.ArrayLayers, desc.Aspect, desc.Usage, desc.Flags),
		Format:       desc.Format,
		imported:     imported,
	}

	handle := ImageHandle{handle: m.images.Add(image)}
	m.imagesByNative.Put(native, handle)
	return handle
}

// CreateImage creates an image in StateUndefined and returns a handle to it
func (m *Manager) CreateImage(desc ImageDesc) (ImageHandle, error) {
	m.logger.Debug("Manager::CreateImage")

	err := m.usable()
	if err != nil {
		return ImageHandle{}, err
	}

	desc = desc.normalized()
	info, err := desc.createInfo()
	if err != nil {
		return ImageHandle{}, err
	}

	native, err := m.backend.CreateImage(info, memoryFlagsOrDefault(desc.MemoryFlags))
	if err != nil {
		return ImageHandle{}, errors.Wrapf(err, "failed to create %dx%d image", desc.Extent.Width, desc.Extent.Height)
	}

	return m.trackImage(native, desc, false), nil
}

// ImportImage starts tracking an image whose native object is owned elsewhere, such as a swapchain image.
// Destroying the handle stops tracking the image but never destroys the native object. Importing an image
// that is already tracked returns the existing handle.
func (m *Manager) ImportImage(native core1_0.Image, desc ImageDesc) (ImageHandle, error) {
	m.logger.Debug("Manager::ImportImage")

	err := m.usable()
	if err != nil {
		return ImageHandle{}, err
	}

	if native == nil {
		return ImageHandle{}, errors.New("cannot import a nil image")
	}

	existing, ok := m.imagesByNative.Get(native)
	if ok {
		return existing, nil
	}

	return m.trackImage(native, desc.normalized(), true), nil
}

// LookupImage returns the handle of a tracked native image
func (m *Manager) LookupImage(native core1_0.Image) (ImageHandle, bool) {
	return m.imagesByNative.Get(native)
}

// Buffer resolves a handle. The returned pointer stays valid until the buffer is destroyed.
func (m *Manager) Buffer(handle BufferHandle) (*Buffer, error) {
	buffer, err := m.buffers.Get(handle.handle)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot resolve %s", handle)
	}
	return *buffer, nil
}

// Image resolves a handle. The returned pointer stays valid until the image is destroyed.
func (m *Manager) Image(handle ImageHandle) (*Image, error) {
	image, err := m.images.Get(handle.handle)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot resolve %s", handle)
	}
	return *image, nil
}

// DestroyBuffer invalidates the handle and destroys the native buffer once all work recorded so far has
// completed. Destroying a handle twice is a logic error.
func (m *Manager) DestroyBuffer(handle BufferHandle) error {
	m.logger.Debug("Manager::DestroyBuffer")

	buffer, err := m.Buffer(handle)
	if err != nil {
		syncutils.DebugAssert(false, "destroy of invalid buffer handle %s", handle)
		m.logger.LogAttrs(context.Background(), slog.LevelWarn, "Manager::DestroyBuffer called with an invalid handle",
			slog.String("handle", handle.String()),
			slog.Any("error", err),
		)
		return err
	}

	err = m.buffers.Remove(handle.handle)
	if err != nil {
		return err
	}

	native := buffer.Buffer
	m.reclaimer.Enqueue(func() {
		m.backend.DestroyBuffer(native)
	})
	return nil
}

// DestroyImage invalidates the handle and, for images the Manager created, destroys the native image once
// all work recorded so far has completed. Destroying a handle twice is a logic error.
func (m *Manager) DestroyImage(handle ImageHandle) error {
	m.logger.Debug("Manager::DestroyImage")

	image, err := m.Image(handle)
	if err != nil {
		syncutils.DebugAssert(false, "destroy of invalid image handle %s", handle)
		m.logger.LogAttrs(context.Background(), slog.LevelWarn, "Manager::DestroyImage called with an invalid handle",
			slog.String("handle", handle.String()),
			slog.Any("error", err),
		)
		return err
	}

	err = m.images.Remove(handle.handle)
	if err != nil {
		return err
	}

	native := image.Image
	m.imagesByNative.Delete(native)
	if image.imported {
		return nil
	}

	m.reclaimer.Enqueue(func() {
		m.backend.DestroyImage(native)
	})
	return nil
}

// BufferCount is the number of live buffers
func (m *Manager) BufferCount() int {
	return m.buffers.Count()
}

// ImageCount is the number of live images, imported ones included
func (m *Manager) ImageCount() int {
	return m.images.Count()
}

// Destroy releases every resource that is still live through the reclaimer. Resources still live at this
// point are leaks: each one is logged. The Manager cannot be used afterward.
func (m *Manager) Destroy() {
	m.logger.Debug("Manager::Destroy")

	if m.destroyed {
		return
	}

	var leakedBuffers []BufferHandle
	m.buffers.Each(func(handle handles.Handle, buffer **Buffer) bool {
		leakedBuffers = append(leakedBuffers, BufferHandle{handle: handle})
		return true
	})

	var leakedImages []ImageHandle
	var importedImages []ImageHandle
	m.images.Each(func(handle handles.Handle, image **Image) bool {
		if (*image).imported {
			importedImages = append(importedImages, ImageHandle{handle: handle})
		} else {
			leakedImages = append(leakedImages, ImageHandle{handle: handle})
		}
		return true
	})

	// Handles came straight from the pools and always resolve
	for _, handle := range leakedBuffers {
		m.logger.LogAttrs(context.Background(), slog.LevelWarn, "buffer was not destroyed before the resource manager",
			slog.String("handle", handle.String()),
		)
		_ = m.DestroyBuffer(handle)
	}

	for _, handle := range leakedImages {
		m.logger.LogAttrs(context.Background(), slog.LevelWarn, "image was not destroyed before the resource manager",
			slog.String("handle", handle.String()),
		)
		_ = m.DestroyImage(handle)
	}

	for _, handle := range importedImages {
		_ = m.DestroyImage(handle)
	}

	m.destroyed = true
}

func (m *Manager) BuildStatsString() string {
	writer := jwriter.NewWriter()

	obj := writer.Object()
	buffers := obj.Name("Buffers").Object()
	m.buffers.BuildStatsString(&buffers)
	buffers.End()

	images := obj.Name("Images").Object()
	m.images.BuildStatsString(&images)
	images.End()
	obj.End()

	return string(writer.Bytes())
}
