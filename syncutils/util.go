package syncutils

// Generation is the set of counter types used to tag reusable slots
type Generation interface {
	~uint16 | ~uint32 | ~uint64
}

// NextGeneration returns the generation following the one provided. Zero is reserved to mean "empty",
// so the counter skips it when it wraps around.
func NextGeneration[T Generation](generation T) T {
	generation++
	if generation == 0 {
		generation = 1
	}

	return generation
}
