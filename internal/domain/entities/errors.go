package entities

import "errors"

var (
	// ErrModuleNotFound is returned when an identity is requested for a
	// path that does not exist
	ErrModuleNotFound = errors.New("module not found")

	// ErrIdentityUnreadable means the file exists but is not a managed
	// PE image with readable metadata. Callers treat it as "not denied".
	ErrIdentityUnreadable = errors.New("module identity unreadable")

	// ErrListLoad wraps every denylist failure other than absence.
	// It is never recovered: a corrupt list must not allow everything.
	ErrListLoad = errors.New("denylist load failed")
)
