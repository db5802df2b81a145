package dynops

import "errors"

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// CodeTypeMismatch: an operation expected one value shape (list/map/primitive)
	// and received another.
	CodeTypeMismatch = "type_mismatch"
	// CodeCoercion: a primitive could not be interpreted as the requested scalar.
	CodeCoercion = "coercion_failure"
	// CodeMissingKey: point lookup found no entry for the key.
	CodeMissingKey = "missing_key"
	// CodeDuplicateKey: two pairs shared an equal key while collecting an
	// ordered view. Silent overwrite would hide data loss, so this is an error.
	CodeDuplicateKey = "duplicate_key"
	// CodeMergeConflict: a merge targeted an incompatible existing shape, for
	// example appending to a non-empty scalar.
	CodeMergeConflict = "merge_conflict"
)

// Issue is the diagnostic carried by an errored Result. It implements error so
// callers can hand it to stdlib error flow via Result.Err.
type Issue struct {
	Code    string // One of the codes listed above.
	Message string
}

func (i *Issue) Error() string { return i.Message }

// AsIssue extracts an Issue from an error using errors.As internally.
func AsIssue(err error) (*Issue, bool) {
	if err == nil {
		return nil, false
	}
	var is *Issue
	if errors.As(err, &is) {
		return is, true
	}
	return nil, false
}
