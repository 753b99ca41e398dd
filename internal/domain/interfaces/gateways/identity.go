// Package gateways defines interfaces for infrastructure collaborators.
package gateways

import (
	"github.com/ochairo/denyfilter/internal/domain/entities"
)

// IdentityResolver derives module identities from on-disk contents
type IdentityResolver interface {
	// ComputeKey returns the composite key for the module at path.
	// A missing file yields EmptyKey and no error; an unreadable one
	// yields EmptyKey and an error wrapping ErrIdentityUnreadable.
	ComputeKey(path string) (entities.CompositeKey, error)

	// Identify returns the structured identity of the module at path
	Identify(path string) (*entities.ModuleIdentity, error)
}

// FileProber answers "does a file exist at path" without reading it
type FileProber interface {
	Exists(path string) bool
}

// ReplacementFinder locates a same-named replacement among directories
type ReplacementFinder interface {
	// FindReplacement returns the first dir/filename that exists, in
	// directory order, and false when none does
	FindReplacement(searchDirs []string, filename string) (string, bool)
}

// DiagnosticsSink accepts diagnostics raised during filtering
type DiagnosticsSink interface {
	Report(d entities.Diagnostic)

	// HasErrors reports whether an error-level diagnostic was recorded
	HasErrors() bool
}
