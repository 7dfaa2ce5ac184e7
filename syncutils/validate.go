package syncutils

// Validatable is a structure that can check its own internal invariants, such as a handle pool's free
// list. DebugValidate calls it after every mutation in debug builds.
type Validatable interface {
	Validate() error
}
