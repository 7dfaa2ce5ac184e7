package handles

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/conductor/syncutils"
	"golang.org/x/exp/slog"
)

const noFreeSlot = -1

type entry[T any] struct {
	value      T
	generation uint32
	nextFree   int
	live       bool
}

// Pool is a slot allocator that hands out generation-tagged Handles instead of pointers. Removing an entry
// bumps the generation of its slot, so every Handle issued before the removal stops resolving, even after the
// slot has been reused. Freed slots are reused most-recently-freed first.
//
// Pool is not synchronized.
type Pool[T any] struct {
	logger   *slog.Logger
	entries  []entry[T]
	freeHead int
	count    int
}

// NewPool creates an empty Pool. capacity is only a hint for the initial size of the backing slice.
func NewPool[T any](logger *slog.Logger, capacity int) *Pool[T] {
	return &Pool[T]{
		logger:   logger,
		entries:  make([]entry[T], 0, capacity),
		freeHead: noFreeSlot,
	}
}

// Add stores value in a free slot, growing the pool if none is available, and returns a Handle to it
func (p *Pool[T]) Add(value T) Handle {
	var index int
	if p.freeHead != noFreeSlot {
		index = p.freeHead
		p.freeHead = p.entries[index].nextFree
	} else {
		index = len(p.entries)
		p.entries = append(p.entries, entry[T]{generation: 1})
	}

	e := &p.entries[index]
	e.value = value
	e.nextFree = noFreeSlot
	e.live = true
	p.count++

	syncutils.DebugValidate(p)

	return Handle{index: uint32(index), generation: e.generation}
}

// Remove invalidates the handle and releases its slot. Removing a handle twice, or removing a handle to a
// slot that has since been reused, is a logic error: it panics in debug builds and is otherwise logged and
// skipped.
func (p *Pool[T]) Remove(handle Handle) error {
	e, err := p.resolve(handle)
	if err != nil {
		syncutils.DebugAssert(false, "removal of invalid handle %s: %+v", handle, err)
		p.logger.LogAttrs(context.Background(), slog.LevelWarn, "Pool::Remove called with an invalid handle",
			slog.String("handle", handle.String()),
			slog.Any("error", err),
		)
		return err
	}

	var zero T
	e.value = zero
	e.live = false
	e.generation = syncutils.NextGeneration(e.generation)
	e.nextFree = p.freeHead
	p.freeHead = handle.Index()
	p.count--

	syncutils.DebugValidate(p)

	return nil
}

// Get returns a pointer to the value the handle refers to. The pointer is only valid until the next call to
// Add, which may grow the backing storage.
func (p *Pool[T]) Get(handle Handle) (*T, error) {
	e, err := p.resolve(handle)
	if err != nil {
		return nil, err
	}

	return &e.value, nil
}

// Contains returns true if the handle currently resolves to a live entry
func (p *Pool[T]) Contains(handle Handle) bool {
	_, err := p.resolve(handle)
	return err == nil
}

func (p *Pool[T]) resolve(handle Handle) (*entry[T], error) {
	if handle.IsEmpty() {
		return nil, syncutils.ErrEmptyHandle
	}

	if handle.Index() >= len(p.entries) {
		return nil, errors.Wrapf(syncutils.ErrInvalidHandle, "%s is beyond the end of a pool with %d slots", handle, len(p.entries))
	}

	e := &p.entries[handle.index]
	if !e.live || e.generation != handle.generation {
		return nil, errors.Wrapf(syncutils.ErrInvalidHandle, "%s is stale: slot is at generation %d", handle, e.generation)
	}

	return e, nil
}

// Count is the number of live entries
func (p *Pool[T]) Count() int {
	return p.count
}

// Cap is the number of slots, live or free, that the pool has created
func (p *Pool[T]) Cap() int {
	return len(p.entries)
}

// Each calls the visitor for every live entry in slot order, stopping early if the visitor returns false.
// The visitor must not add or remove entries.
func (p *Pool[T]) Each(visitor func(handle Handle, value *T) bool) {
	for i := range p.entries {
		e := &p.entries[i]
		if !e.live {
			continue
		}

		if !visitor(Handle{index: uint32(i), generation: e.generation}, &e.value) {
			return
		}
	}
}

func (p *Pool[T]) Validate() error {
	liveCount := 0
	for i := range p.entries {
		if p.entries[i].live {
			liveCount++
		}
		if p.entries[i].generation == 0 {
			return errors.Newf("slot %d has a zero generation", i)
		}
	}

	if liveCount != p.count {
		return errors.Newf("the pool's entry count (%d) does not match the number of live slots (%d)", p.count, liveCount)
	}

	freeCount := 0
	for index := p.freeHead; index != noFreeSlot; index = p.entries[index].nextFree {
		if p.entries[index].live {
			return errors.Newf("slot %d is on the free list but is live", index)
		}
		freeCount++
		if freeCount > len(p.entries) {
			return errors.New("the free list contains a cycle")
		}
	}

	if freeCount+p.count != len(p.entries) {
		return errors.Newf("%d free slots and %d live slots do not add up to %d total slots", freeCount, p.count, len(p.entries))
	}

	return nil
}

func (p *Pool[T]) BuildStatsString(json *jwriter.ObjectState) {
	json.Name("Count").Int(p.count)
	json.Name("Slots").Int(len(p.entries))
	json.Name("FreeSlots").Int(len(p.entries) - p.count)
}
