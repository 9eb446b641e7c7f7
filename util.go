package hook

import (
	"github.com/google/uuid"
)

// NewID generates a new unique ID
func NewID() string {
	return uuid.NewString()
}

// isNilCallback catches both a nil interface and typed nil functions.
func isNilCallback(cb Callback) bool {
	switch f := cb.(type) {
	case nil:
		return true
	case CallbackFunc:
		return f == nil
	case AsyncFunc:
		return f == nil
	case Callbacks:
		return f == nil
	case *prioritized:
		return f == nil || isNilCallback(f.Callback)
	}
	return false
}
