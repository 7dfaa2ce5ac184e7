package handles

import "fmt"

// Handle is a generation-tagged reference to an entry in a Pool. The zero value is the empty handle: it is
// never issued by a Pool and never resolves to a value.
type Handle struct {
	index      uint32
	generation uint32
}

// Index is the slot this handle refers to
func (h Handle) Index() int { return int(h.index) }

// Generation is the generation of the slot at the time the handle was issued
func (h Handle) Generation() uint32 { return h.generation }

// IsEmpty returns true for the zero-value handle
func (h Handle) IsEmpty() bool { return h.generation == 0 }

func (h Handle) String() string {
	if h.IsEmpty() {
		return "Handle(empty)"
	}
	return fmt.Sprintf("Handle(%d:%d)", h.index, h.generation)
}
