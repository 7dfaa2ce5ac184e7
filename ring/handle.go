package ring

import "fmt"

// SubmissionHandle names one use of one command context slot. The zero value is the empty handle, which
// names no work at all. Once the slot is acquired again, every earlier handle for it is stale: the work it
// named must have completed for the slot to have been recycled.
type SubmissionHandle struct {
	slot       uint32
	generation uint32
}

// Slot is the index of the command context that produced this handle
func (h SubmissionHandle) Slot() int { return int(h.slot) }

// Generation counts uses of the slot, starting at 1
func (h SubmissionHandle) Generation() uint32 { return h.generation }

// IsEmpty returns true for the zero-value handle
func (h SubmissionHandle) IsEmpty() bool { return h.generation == 0 }

func (h SubmissionHandle) String() string {
	if h.IsEmpty() {
		return "Submission(empty)"
	}
	return fmt.Sprintf("Submission(%d:%d)", h.slot, h.generation)
}
