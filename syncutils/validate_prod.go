//go:build !debug_sync_utils

package syncutils

const (
	// DebugChecks is true when the debug_sync_utils build tag is present. Logic errors that are only
	// logged in release builds panic when it is set.
	DebugChecks bool = false
)

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_sync_utils build tag is present
func DebugValidate(validatable Validatable) {
}

// DebugAssert panics with the formatted message if the condition is false. This method no-ops unless the
// debug_sync_utils build tag is present.
func DebugAssert(condition bool, format string, args ...any) {
}
