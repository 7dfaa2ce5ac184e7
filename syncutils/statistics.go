package syncutils

// RingStatistics contains counters accumulated over the lifetime of a command context ring
type RingStatistics struct {
	// Acquires is the number of command contexts handed out for recording
	Acquires int
	// Submissions is the number of command contexts submitted to the queue
	Submissions int
	// Recycled is the number of slots that were observed complete and returned to the free state
	Recycled int
	// AcquireStalls is the number of Acquire calls that found no free slot and had to wait
	AcquireStalls int
	// StallIterations is the total number of wait iterations across all stalled Acquire calls
	StallIterations int
}

func (s *RingStatistics) Clear() {
	s.Acquires = 0
	s.Submissions = 0
	s.Recycled = 0
	s.AcquireStalls = 0
	s.StallIterations = 0
}

func (s *RingStatistics) AddStatistics(other *RingStatistics) {
	s.Acquires += other.Acquires
	s.Submissions += other.Submissions
	s.Recycled += other.Recycled
	s.AcquireStalls += other.AcquireStalls
	s.StallIterations += other.StallIterations
}

// ReclaimStatistics contains counters for a deferred destruction queue
type ReclaimStatistics struct {
	// Enqueued is the number of actions ever added to the queue
	Enqueued int
	// Executed is the number of actions that have run
	Executed int
	// Pending is the number of actions currently waiting on their submission
	Pending int
}

func (s *ReclaimStatistics) Clear() {
	s.Enqueued = 0
	s.Executed = 0
	s.Pending = 0
}

func (s *ReclaimStatistics) AddStatistics(other *ReclaimStatistics) {
	s.Enqueued += other.Enqueued
	s.Executed += other.Executed
	s.Pending += other.Pending
}
