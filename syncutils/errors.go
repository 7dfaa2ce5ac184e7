package syncutils

import "github.com/pkg/errors"

// ErrInvalidHandle is returned when a handle's generation no longer matches the slot it points to, or the
// handle's index is outside of the pool
var ErrInvalidHandle error = errors.New("handle does not refer to a live entry")

// ErrEmptyHandle is returned when the zero-value handle is resolved
var ErrEmptyHandle error = errors.New("handle is empty")

// ErrRingExhausted is returned from Ring.Acquire when CreateOptions.AcquireTimeout elapses before any
// in-flight submission completes
var ErrRingExhausted error = errors.New("no command context became available")

// ErrNotRecording is returned when a command context is submitted or recorded into outside of the
// Recording state
var ErrNotRecording error = errors.New("command context is not recording")

// ErrTooManyWaits is returned when more wait semaphores are requested for a single submission than
// a command context can carry
var ErrTooManyWaits error = errors.New("command context already carries the maximum number of wait semaphores")

// ErrDeviceFailure wraps any error reported by the device while querying or waiting on completion
// signals. Once it has been returned, the ring that returned it is no longer usable. Device errors are
// marked rather than wrapped, so test for it with errors.Is from github.com/cockroachdb/errors.
var ErrDeviceFailure error = errors.New("device reported a fatal error")

// ErrDestroyed is returned by objects that are used after Destroy has been called on them
var ErrDestroyed error = errors.New("object has been destroyed")
